package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"flyer-studio/internal/app"

	"github.com/spf13/cobra"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <flyer-image>",
	Short: "Detect photo zones on a flyer image",
	Long: `Runs zone detection on a flyer image and prints the found zones as
JSON, points normalized to the image dimensions. With --ocr each zone is
named after the flyer text found inside it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		useOCR, _ := cmd.Flags().GetBool("ocr")

		// Detection needs no persistence; keep the store off disk.
		cfg := appConfig()
		cfg.StorePath = ":memory:"
		studio, err := app.New(cfg)
		if err != nil {
			return err
		}
		defer studio.Close()

		if err := studio.OpenFlyerFile(args[0]); err != nil {
			return err
		}

		added, err := studio.SuggestZones(useOCR)
		if err != nil {
			return err
		}
		if added == 0 {
			fmt.Fprintln(os.Stderr, "No zone candidates found.")
		}

		out, err := json.MarshalIndent(studio.Editor.Zones(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(suggestCmd)
	suggestCmd.Flags().Bool("ocr", false, "Name zones after the flyer text inside them")
}
