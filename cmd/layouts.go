package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"flyer-studio/internal/layout"
	"flyer-studio/internal/media"
	"flyer-studio/internal/store"

	"github.com/spf13/cobra"
)

var layoutsCmd = &cobra.Command{
	Use:   "layouts",
	Short: "List stored layouts",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(storePath())
		if err != nil {
			return err
		}
		defer st.Close()

		summaries, err := st.List(context.Background())
		if err != nil {
			return err
		}
		if len(summaries) == 0 {
			fmt.Println("No layouts saved yet.")
			return nil
		}

		fmt.Printf("%-26s  %-24s  %-20s  %-9s  %-6s  %s\n",
			"ID", "NAME", "FLYER", "SIZE", "PHOTOS", "UPDATED")
		for _, s := range summaries {
			photos := "no"
			if s.HasPlacements {
				photos = "yes"
			}
			fmt.Printf("%-26s  %-24s  %-20s  %4d×%-4d  %-6s  %s\n",
				s.ID, truncate(s.Name, 24), truncate(s.FlyerFileName, 20),
				s.FlyerWidth, s.FlyerHeight, photos,
				s.UpdatedAt.Local().Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var layoutsRmCmd = &cobra.Command{
	Use:   "rm <layout-id>",
	Short: "Delete a stored layout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(storePath())
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Delete(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted layout %s\n", args[0])
		return nil
	},
}

var layoutsExportCmd = &cobra.Command{
	Use:   "export <layout-id> [output-file]",
	Short: "Write a stored layout as a JSON document",
	Long: `Writes the layout's zones and placements as an indented JSON file.
The flyer image itself stays in the store; the document records its name and
dimensions. The default output file is <layout-id>` + layout.FileExt + `.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(storePath())
		if err != nil {
			return err
		}
		defer st.Close()

		doc, _, err := st.Load(context.Background(), args[0])
		if err != nil {
			return err
		}

		out := args[0] + layout.FileExt
		if len(args) == 2 {
			out = args[1]
		}
		if err := layout.WriteFile(doc, out); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", out)
		return nil
	},
}

var layoutsImportCmd = &cobra.Command{
	Use:   "import <layout-file> <flyer-image>",
	Short: "Add a layout document to the store",
	Long: `Reads a layout document written by "layouts export" and saves it to
the store together with the given flyer image. A layout with the same id is
replaced; malformed zone records in the document are dropped.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := layout.ReadFile(args[0])
		if err != nil {
			return err
		}

		flyerBytes, err := os.ReadFile(args[1])
		if err != nil {
			return err
		}
		img, err := media.DecodeBytes(flyerBytes)
		if err != nil {
			return fmt.Errorf("decode flyer image: %w", err)
		}
		b := img.Bounds()
		doc.Flyer = layout.FlyerInfo{
			FileName: filepath.Base(args[1]),
			Width:    b.Dx(),
			Height:   b.Dy(),
		}

		st, err := store.Open(storePath())
		if err != nil {
			return err
		}
		defer st.Close()

		id, err := st.Save(context.Background(), doc, flyerBytes)
		if err != nil {
			return err
		}
		fmt.Printf("Imported %q as %s\n", doc.Name, id)
		return nil
	},
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func init() {
	rootCmd.AddCommand(layoutsCmd)
	layoutsCmd.AddCommand(layoutsRmCmd)
	layoutsCmd.AddCommand(layoutsExportCmd)
	layoutsCmd.AddCommand(layoutsImportCmd)
}
