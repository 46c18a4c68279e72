package media

import (
	"image"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// SupportedFormats returns the list of supported image file extensions.
func SupportedFormats() []string {
	return []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".tiff", ".tif"}
}

// IsSupportedFormat checks if the given path has a supported image format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}

// FileFilter returns the extension list for use in file open dialogs.
func FileFilter() []string {
	return SupportedFormats()
}

// Thumbnail scales an image down to fit within maxDim on both axes,
// preserving aspect ratio. Images already small enough are returned as is.
func Thumbnail(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	if b.Dx() <= maxDim && b.Dy() <= maxDim {
		return img
	}
	return imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
}
