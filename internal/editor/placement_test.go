package editor

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"testing"

	"flyer-studio/internal/media"
	"flyer-studio/pkg/geometry"
)

// tempPhoto builds a real temp-backed asset so release behavior is
// observable through the backing file.
func tempPhoto(t *testing.T, name string, w, h int) *media.Asset {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	asset, err := media.FromBytes(name, buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	return asset
}

func TestCoverFitScenario(t *testing.T) {
	// Stage 500x250 at scale 0.5; zone bounding box 300x150 stage pixels;
	// photo 2000x1000. coverScale = max(300/2000, 150/1000) = 0.15 and the
	// stored scale is 0.15/0.5 = 0.3.
	e := newTestEditor(1000, 500, 500)
	zone := traceRect(t, e, 50, 25, 350, 175)

	p := e.ComputeInitialPlacement(zone, 2000, 1000, "/p/photo.jpg", "photo.jpg")
	if math.Abs(p.Scale-0.3) > tol {
		t.Errorf("scale = %v, want 0.3", p.Scale)
	}
	if math.Abs(p.Position.X-0.1) > tol || math.Abs(p.Position.Y-0.1) > tol {
		t.Errorf("position = %v, want {0.1 0.1}", p.Position)
	}
	if p.Rotation != 0 {
		t.Errorf("rotation = %v, want 0", p.Rotation)
	}
	if p.ImageWidth != 2000 || p.ImageHeight != 1000 {
		t.Errorf("image size = %dx%d, want 2000x1000", p.ImageWidth, p.ImageHeight)
	}
}

func TestCoverFitCoversZone(t *testing.T) {
	// A square photo over a wide zone must scale to the wider axis, and the
	// overflow axis centers without clamping the normalized position.
	e := newTestEditor(1000, 500, 500)
	zone := traceRect(t, e, 50, 25, 350, 175)

	p := e.ComputeInitialPlacement(zone, 1000, 1000, "/p/square.png", "square.png")
	if math.Abs(p.Scale-0.6) > tol {
		t.Errorf("scale = %v, want 0.6", p.Scale)
	}

	coverScale := p.Scale * e.StageScale()
	scaledW := 1000 * coverScale
	scaledH := 1000 * coverScale
	if scaledW < 300-tol || scaledH < 150-tol {
		t.Errorf("scaled photo %vx%v does not cover the 300x150 zone box", scaledW, scaledH)
	}

	// Vertically the 300px-tall photo overhangs the 250px stage: the clamp
	// upper bound is negative and wins, and the stored position keeps the
	// overflow instead of snapping to 0.
	if math.Abs(p.Position.Y-(-0.2)) > tol {
		t.Errorf("position.Y = %v, want -0.2", p.Position.Y)
	}
}

func TestCoverFitClampNegativeUpper(t *testing.T) {
	// A 20000x1000 photo in a zone near the right edge: the scaled width
	// (1000px) exceeds the 500px stage, so X clamps to the negative upper
	// bound 500-1000 = -500, normalized to -1.
	e := newTestEditor(1000, 500, 500)
	zone := traceRect(t, e, 450, 100, 490, 150)

	p := e.ComputeInitialPlacement(zone, 20000, 1000, "/p/pano.jpg", "pano.jpg")
	if math.Abs(p.Scale-0.1) > tol {
		t.Errorf("scale = %v, want 0.1", p.Scale)
	}
	if math.Abs(p.Position.X-(-1.0)) > 1e-9 {
		t.Errorf("position.X = %v, want -1.0", p.Position.X)
	}
	if math.Abs(p.Position.Y-0.4) > tol {
		t.Errorf("position.Y = %v, want 0.4", p.Position.Y)
	}
}

func TestDisplayIndependentScale(t *testing.T) {
	// The same zone and photo must yield the same stored scale no matter
	// what width the container happens to have.
	narrow := newTestEditor(1000, 500, 500)
	zNarrow := traceRect(t, narrow, 50, 25, 350, 175)

	wide := newTestEditor(1000, 500, 1000)
	zWide := traceRect(t, wide, 100, 50, 700, 350)

	pNarrow := narrow.ComputeInitialPlacement(zNarrow, 2000, 1000, "/p/a.jpg", "a.jpg")
	pWide := wide.ComputeInitialPlacement(zWide, 2000, 1000, "/p/a.jpg", "a.jpg")

	if math.Abs(pNarrow.Scale-pWide.Scale) > tol {
		t.Errorf("scale differs across container widths: %v vs %v", pNarrow.Scale, pWide.Scale)
	}
	if math.Abs(pNarrow.Scale-0.3) > tol {
		t.Errorf("scale = %v, want 0.3", pNarrow.Scale)
	}
}

func TestAtMostOnePlacement(t *testing.T) {
	e := newTestEditor(1000, 500, 500)
	zone := traceRect(t, e, 50, 25, 350, 175)

	first := tempPhoto(t, "a.png", 40, 20)
	firstPath := first.Path
	if _, ok := e.PlaceImage(zone.ID, first); !ok {
		t.Fatal("first PlaceImage failed")
	}

	second := tempPhoto(t, "b.png", 60, 30)
	if _, ok := e.PlaceImage(zone.ID, second); !ok {
		t.Fatal("second PlaceImage failed")
	}

	if e.PlacementCount() != 1 {
		t.Errorf("placement count = %d, want 1", e.PlacementCount())
	}
	p, ok := e.Placement(zone.ID)
	if !ok || p.FileName != "b.png" {
		t.Errorf("placement = %+v, want file b.png", p)
	}

	// Replacing the placement released the first photo's backing file.
	if _, err := os.Stat(firstPath); !os.IsNotExist(err) {
		t.Error("first photo's temp file still present after replacement")
	}
	if _, err := os.Stat(second.Path); err != nil {
		t.Errorf("second photo's temp file missing: %v", err)
	}
}

func TestPlaceImageUnknownZone(t *testing.T) {
	e := newTestEditor(1000, 500, 500)
	if _, ok := e.PlaceImage("zone-99", &media.Asset{Name: "a.png", Width: 10, Height: 10}); ok {
		t.Error("PlaceImage succeeded for a zone that does not exist")
	}
}

func TestPlaceOnSelected(t *testing.T) {
	e := newTestEditor(1000, 500, 500)
	zone := traceRect(t, e, 50, 25, 350, 175)

	if _, ok := e.PlaceOnSelected(&media.Asset{Name: "a.png", Width: 10, Height: 10}); !ok {
		t.Error("PlaceOnSelected failed with a selected zone")
	}
	if _, ok := e.Placement(zone.ID); !ok {
		t.Error("no placement recorded for the selected zone")
	}

	e.ClearSelection()
	if _, ok := e.PlaceOnSelected(&media.Asset{Name: "b.png", Width: 10, Height: 10}); ok {
		t.Error("PlaceOnSelected succeeded with nothing selected")
	}
	if e.PlacementCount() != 1 {
		t.Errorf("placement count = %d, want 1", e.PlacementCount())
	}
}

func TestSetPlacementTransform(t *testing.T) {
	e := newTestEditor(1000, 500, 500)
	zone := traceRect(t, e, 50, 25, 350, 175)

	// Strict no-op without an existing placement.
	if e.SetPlacementTransform(zone.ID, geometry.Point2D{X: 0.5, Y: 0.5}, 1, 0) {
		t.Error("SetPlacementTransform created a placement")
	}
	if e.PlacementCount() != 0 {
		t.Errorf("placement count = %d, want 0", e.PlacementCount())
	}

	e.PlaceImage(zone.ID, &media.Asset{Name: "a.png", Width: 2000, Height: 1000})
	if !e.SetPlacementTransform(zone.ID, geometry.Point2D{X: 0.25, Y: -0.1}, 0.8, 30) {
		t.Fatal("SetPlacementTransform failed for an existing placement")
	}

	p, _ := e.Placement(zone.ID)
	if p.Position.X != 0.25 || p.Position.Y != -0.1 || p.Scale != 0.8 || p.Rotation != 30 {
		t.Errorf("transform not applied: %+v", p)
	}
	if p.FileName != "a.png" || p.ImageWidth != 2000 {
		t.Errorf("image identity fields changed: %+v", p)
	}
}

func TestResetPlacement(t *testing.T) {
	e := newTestEditor(1000, 500, 500)
	zone := traceRect(t, e, 50, 25, 350, 175)
	e.PlaceImage(zone.ID, &media.Asset{Name: "a.png", Path: "/p/a.png", Width: 2000, Height: 1000})

	initial, _ := e.Placement(zone.ID)
	initialCopy := *initial

	e.SetPlacementTransform(zone.ID, geometry.Point2D{X: 0.9, Y: 0.9}, 2.5, 45)
	if !e.ResetPlacement(zone.ID) {
		t.Fatal("ResetPlacement failed")
	}

	p, _ := e.Placement(zone.ID)
	if math.Abs(p.Position.X-initialCopy.Position.X) > tol ||
		math.Abs(p.Position.Y-initialCopy.Position.Y) > tol ||
		math.Abs(p.Scale-initialCopy.Scale) > tol {
		t.Errorf("reset placement = %+v, want %+v", p, initialCopy)
	}
	if p.Rotation != 0 {
		t.Errorf("rotation after reset = %v, want 0", p.Rotation)
	}

	if e.ResetPlacement("zone-99") {
		t.Error("ResetPlacement succeeded for an unknown zone")
	}
}

func TestRemoveZoneCascadeAndUndo(t *testing.T) {
	e := newTestEditor(1000, 500, 500)
	zone := traceRect(t, e, 50, 25, 350, 175)
	photo := tempPhoto(t, "a.png", 40, 20)
	photoPath := photo.Path
	e.PlaceImage(zone.ID, photo)

	if !e.RemoveZone(zone.ID) {
		t.Fatal("RemoveZone failed")
	}
	if e.ZoneCount() != 0 || e.PlacementCount() != 0 {
		t.Errorf("counts after removal = %d zones, %d placements, want 0, 0", e.ZoneCount(), e.PlacementCount())
	}
	if e.SelectedZone() != "" {
		t.Errorf("selection after removal = %q, want empty", e.SelectedZone())
	}
	// The undo stack owns the asset now, so the file survives removal.
	if _, err := os.Stat(photoPath); err != nil {
		t.Fatalf("photo file released on removal: %v", err)
	}

	restored, ok := e.UndoRemoveZone()
	if !ok {
		t.Fatal("UndoRemoveZone failed")
	}
	if restored.ID != zone.ID {
		t.Errorf("restored zone id = %q, want %q", restored.ID, zone.ID)
	}
	if e.ZoneCount() != 1 || e.PlacementCount() != 1 {
		t.Errorf("counts after undo = %d zones, %d placements, want 1, 1", e.ZoneCount(), e.PlacementCount())
	}
	if e.SelectedZone() != zone.ID {
		t.Errorf("selection after undo = %q, want %q", e.SelectedZone(), zone.ID)
	}
	if e.ZoneAsset(zone.ID) == nil {
		t.Error("photo asset not restored with the zone")
	}

	// Removing the placement for good releases the file.
	if !e.RemovePlacement(zone.ID) {
		t.Fatal("RemovePlacement failed")
	}
	if _, err := os.Stat(photoPath); !os.IsNotExist(err) {
		t.Error("photo file still present after placement removal")
	}
}

func TestFlyerReplaceReleasesEverything(t *testing.T) {
	e := newTestEditor(1000, 500, 500)
	zone := traceRect(t, e, 50, 25, 350, 175)
	photo := tempPhoto(t, "a.png", 40, 20)
	photoPath := photo.Path
	e.PlaceImage(zone.ID, photo)
	e.ToggleDrawMode()

	e.SetFlyerImage(&media.Asset{Name: "other.png", Width: 800, Height: 600})

	if e.ZoneCount() != 0 || e.PlacementCount() != 0 {
		t.Errorf("counts after flyer replace = %d zones, %d placements, want 0, 0", e.ZoneCount(), e.PlacementCount())
	}
	if e.SelectedZone() != "" {
		t.Errorf("selection = %q, want empty", e.SelectedZone())
	}
	if e.DrawMode() != ModeIdle {
		t.Errorf("mode = %v, want ModeIdle", e.DrawMode())
	}
	if !e.ShowGuides() {
		t.Error("guides not forced visible")
	}
	if e.CanUndoRemove() {
		t.Error("undo stack survived flyer replacement")
	}
	if _, err := os.Stat(photoPath); !os.IsNotExist(err) {
		t.Error("photo temp file survived flyer replacement")
	}
}
