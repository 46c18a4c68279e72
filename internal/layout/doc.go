// Package layout converts editor sessions to and from the persisted
// layout document.
package layout

import (
	"encoding/json"
	"fmt"
	"time"

	"flyer-studio/internal/editor"
	"flyer-studio/internal/logging"
	"flyer-studio/internal/media"
)

// CurrentVersion is written into every saved document.
const CurrentVersion = 1

// FlyerInfo records the background image's identity and natural size.
type FlyerInfo struct {
	FileName string `json:"fileName"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// Document is the JSON structure of a persisted layout.
type Document struct {
	Version    int                 `json:"version"`
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	CreatedAt  time.Time           `json:"createdAt"`
	UpdatedAt  time.Time           `json:"updatedAt"`
	Flyer      FlyerInfo           `json:"flyer"`
	Zones      []*editor.Zone      `json:"zones"`
	Placements []*editor.Placement `json:"placements"`
}

// NewID returns a fresh layout id.
func NewID() string {
	return fmt.Sprintf("layout-%d", time.Now().UnixNano())
}

// Capture snapshots the editor's current session into a document. The
// document carries the editor's layout identity; the store assigns an id
// and timestamps if they are still empty.
func Capture(e *editor.Editor) *Document {
	doc := &Document{
		Version:    CurrentVersion,
		ID:         e.LayoutID(),
		Name:       e.LayoutName(),
		Zones:      e.Zones(),
		Placements: e.Placements(),
	}
	if flyer := e.Flyer(); flyer != nil {
		doc.Flyer = FlyerInfo{FileName: flyer.Name, Width: flyer.Width, Height: flyer.Height}
	}
	return doc
}

// Encode serializes the document as indented JSON.
func (d *Document) Encode() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// Apply replaces the editor's session with the document's contents. The
// editor takes ownership of the background asset and the photo assets.
func Apply(e *editor.Editor, d *Document, background *media.Asset, photos map[string]*media.Asset) {
	e.RestoreLayout(d.ID, d.Name, background, d.Zones, d.Placements, photos)
}

// ReopenPhotos tries to reopen each placement's photo from its recorded
// path. Photos that have moved or been deleted are skipped; the placement
// itself survives so its transform is not lost.
func ReopenPhotos(d *Document) map[string]*media.Asset {
	photos := make(map[string]*media.Asset)
	for _, p := range d.Placements {
		if p.Path == "" {
			continue
		}
		asset, err := media.Open(p.Path)
		if err != nil {
			logging.Log.WithError(err).WithField("path", p.Path).Warn("placement photo unavailable")
			continue
		}
		photos[p.ZoneID] = asset
	}
	return photos
}
