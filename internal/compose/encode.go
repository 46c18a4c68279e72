package compose

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// ExportFileName builds the output name for an export: the flyer's base
// filename plus a timestamp, with the requested format's extension.
func ExportFileName(flyerName, format string, t time.Time) string {
	base := strings.TrimSuffix(flyerName, filepath.Ext(flyerName))
	if base == "" {
		base = "flyer"
	}
	return fmt.Sprintf("%s-%s.%s", base, t.Format("20060102-150405"), format)
}

// Encode writes the rendered image to path, choosing the codec from the
// extension. JPEG quality is fixed high; exports are final output, not
// intermediates.
func Encode(img image.Image, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".webp":
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}
		defer f.Close()
		if err := webp.Encode(f, img, &webp.Options{Quality: 90}); err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}
		return nil
	default:
		if err := imaging.Save(img, path, imaging.JPEGQuality(92)); err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}
		return nil
	}
}
