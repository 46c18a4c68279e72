// Package media loads, decodes, and tracks the raster images the editor
// works with: the flyer background and the photos placed into zones.
package media

import (
	"fmt"
	"image"
	"os"
)

// Asset is a decoded image together with the file that backs it. Assets
// created from in-memory bytes are backed by a temporary file so previews
// and external tools can reference a stable path; Close removes it. Assets
// opened from a user's file keep pointing at that file and Close is a no-op.
type Asset struct {
	Name   string
	Path   string
	Image  image.Image
	Width  int
	Height int

	temp bool
}

// Temp reports whether the asset owns a temporary backing file.
func (a *Asset) Temp() bool {
	return a.temp
}

// Close releases the asset's backing file if it owns one. Safe to call twice.
func (a *Asset) Close() error {
	if a == nil || !a.temp || a.Path == "" {
		return nil
	}
	path := a.Path
	a.temp = false
	a.Path = ""
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove preview file: %w", err)
	}
	return nil
}

func newAsset(name, path string, img image.Image, temp bool) *Asset {
	b := img.Bounds()
	return &Asset{
		Name:   name,
		Path:   path,
		Image:  img,
		Width:  b.Dx(),
		Height: b.Dy(),
		temp:   temp,
	}
}
