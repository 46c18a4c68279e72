package cmd

import (
	"context"
	"errors"
	"fmt"
	"math"

	"flyer-studio/internal/app"

	"github.com/spf13/cobra"
)

var exportScale float64

var exportCmd = &cobra.Command{
	Use:   "export <layout-id> <output-file>",
	Short: "Render a stored layout to an image file",
	Long: `Loads a layout from the store, composes the flyer with its placed
photos at the flyer's native resolution, and writes the result. The output
format follows the file extension (.png, .jpg, .webp, ...). A --scale below 1
shrinks the stage but the render never drops under native resolution.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportScale <= 0 {
			return errors.New("--scale must be positive")
		}

		studio, err := app.New(appConfig())
		if err != nil {
			return err
		}
		defer studio.Close()

		if err := studio.LoadLayout(context.Background(), args[0]); err != nil {
			return err
		}

		flyer := studio.Editor.Flyer()
		if flyer == nil {
			return errors.New("layout has no flyer image")
		}

		// Measure the stage at the flyer's own width so the render comes
		// out at native resolution.
		studio.Editor.SetContainerWidth(float64(flyer.Width) * exportScale)

		if err := studio.ExportImage(args[1], nil); err != nil {
			return err
		}
		ratio := studio.Editor.ExportPixelRatio()
		w := int(math.Round(studio.Editor.StageWidth() * ratio))
		h := int(math.Round(studio.Editor.StageHeight() * ratio))
		fmt.Printf("Exported %s (%d×%d) to %s\n", flyer.Name, w, h, args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().Float64Var(&exportScale, "scale", 1, "stage scale for the render (output floor is native resolution)")
}
