package cmd

import (
	"fmt"

	"flyer-studio/internal/version"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("flyer-studio v%s\n", version.Version)
		fmt.Printf("built:  %s\n", version.BuildTime)
		fmt.Printf("commit: %s\n", version.GitCommit)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
