// Package compose renders the stage to pixels. The interactive canvas and
// the export path both draw through here, so what the user sees and what
// lands in an exported file can never disagree.
package compose

import (
	"image"

	"flyer-studio/internal/editor"
	"flyer-studio/pkg/geometry"
)

// Scene is everything a single render needs, captured from the editor.
type Scene struct {
	Background image.Image
	StageW     float64
	StageH     float64
	StageScale float64

	Zones       []SceneZone
	ShowGuides  bool
	Selected    string
	TracePoints []geometry.Point2D
}

// SceneZone is one zone with its optional placement photo.
type SceneZone struct {
	ID     string
	Name   string
	Points []geometry.Point2D

	Photo    image.Image
	Position geometry.Point2D
	Scale    float64
	Rotation float64
}

// BuildScene captures the editor's current state for rendering.
func BuildScene(e *editor.Editor) *Scene {
	scene := &Scene{
		StageScale:  e.StageScale(),
		ShowGuides:  e.ShowGuides(),
		Selected:    e.SelectedZone(),
		TracePoints: e.TracePoints(),
	}
	scene.StageW, scene.StageH = e.StageSize()

	if flyer := e.Flyer(); flyer != nil {
		scene.Background = flyer.Image
	}

	for _, z := range e.Zones() {
		sz := SceneZone{ID: z.ID, Name: z.Name, Points: z.Points}
		if p, ok := e.Placement(z.ID); ok {
			if asset := e.ZoneAsset(z.ID); asset != nil {
				sz.Photo = asset.Image
			}
			sz.Position = p.Position
			sz.Scale = p.Scale
			sz.Rotation = p.Rotation
		}
		scene.Zones = append(scene.Zones, sz)
	}
	return scene
}
