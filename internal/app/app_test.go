package app

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"flyer-studio/internal/media"
	"flyer-studio/pkg/geometry"
)

// newTestApp returns an app backed by a temp store, with a real flyer file
// on disk and loaded.
func newTestApp(t *testing.T, flyerW, flyerH int) (*App, string) {
	t.Helper()
	dir := t.TempDir()

	img := image.NewRGBA(image.Rect(0, 0, flyerW, flyerH))
	for y := 0; y < flyerH; y++ {
		for x := 0; x < flyerW; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 96, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	flyerPath := filepath.Join(dir, "flyer.png")
	if err := os.WriteFile(flyerPath, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write flyer: %v", err)
	}

	a, err := New(Config{StorePath: filepath.Join(dir, "layouts.db")})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(a.Close)

	if err := a.OpenFlyerFile(flyerPath); err != nil {
		t.Fatalf("OpenFlyerFile() error: %v", err)
	}
	return a, flyerPath
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestApp(t, 64, 32)
	a.Editor.SetContainerWidth(64)

	zone, ok := a.Editor.AddZone([]geometry.Point2D{
		{X: 0.1, Y: 0.1}, {X: 0.6, Y: 0.1}, {X: 0.6, Y: 0.5}, {X: 0.1, Y: 0.5},
	})
	if !ok {
		t.Fatal("AddZone failed")
	}
	// A placement whose photo file does not exist: the transform must
	// survive the round trip even though the photo cannot be reopened.
	photo := &media.Asset{Name: "hero.png", Path: filepath.Join(t.TempDir(), "gone.png"), Width: 100, Height: 80}
	if _, ok := a.Editor.PlaceImage(zone.ID, photo); !ok {
		t.Fatal("PlaceImage failed")
	}

	id, err := a.SaveLayout(ctx, "Week 34")
	if err != nil {
		t.Fatalf("SaveLayout() error: %v", err)
	}
	if id == "" {
		t.Fatal("SaveLayout() returned empty id")
	}
	if a.Editor.Modified() {
		t.Error("editor still marked modified after save")
	}

	// Drift the session, then load the saved state back.
	a.Editor.AddZone([]geometry.Point2D{
		{X: 0.7, Y: 0.6}, {X: 0.9, Y: 0.6}, {X: 0.9, Y: 0.9},
	})
	if err := a.LoadLayout(ctx, id); err != nil {
		t.Fatalf("LoadLayout() error: %v", err)
	}

	if a.Editor.LayoutID() != id || a.Editor.LayoutName() != "Week 34" {
		t.Errorf("layout identity = (%q, %q), want (%q, %q)",
			a.Editor.LayoutID(), a.Editor.LayoutName(), id, "Week 34")
	}
	if a.Editor.ZoneCount() != 1 {
		t.Errorf("zone count after load = %d, want 1", a.Editor.ZoneCount())
	}
	if a.Editor.PlacementCount() != 1 {
		t.Errorf("placement count after load = %d, want 1", a.Editor.PlacementCount())
	}
	if a.Editor.ZoneAsset(zone.ID) != nil {
		t.Error("missing photo file should leave the placement without an asset")
	}
	flyer := a.Editor.Flyer()
	if flyer == nil || flyer.Width != 64 || flyer.Height != 32 {
		t.Fatalf("restored flyer = %+v, want 64x32", flyer)
	}
	if a.Editor.Modified() {
		t.Error("freshly loaded layout marked modified")
	}
	if a.Editor.Persisting() {
		t.Error("persist flag still set after load")
	}
}

func TestSaveLayoutRequiresFlyer(t *testing.T) {
	dir := t.TempDir()
	a, err := New(Config{StorePath: filepath.Join(dir, "layouts.db")})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(a.Close)

	if _, err := a.SaveLayout(context.Background(), "x"); err == nil {
		t.Error("SaveLayout() with no flyer should fail")
	}
	if a.Editor.Persisting() {
		t.Error("failed save left the persist flag set")
	}
}

func TestLoadLayoutUnknownID(t *testing.T) {
	a, _ := newTestApp(t, 32, 32)
	if err := a.LoadLayout(context.Background(), "layout-missing"); err == nil {
		t.Error("LoadLayout() of unknown id should fail")
	}
	if a.Editor.Persisting() {
		t.Error("failed load left the persist flag set")
	}
}

func TestAutoOrient(t *testing.T) {
	a, _ := newTestApp(t, 400, 200)
	a.Editor.SetContainerWidth(400)

	// Corners of a 4x2 rectangle tilted 45 degrees, in flyer pixels,
	// normalized against the 400x200 flyer.
	px := []geometry.Point2D{
		{X: 10.707106781186548, Y: 12.121320343559643},
		{X: 12.121320343559643, Y: 10.707106781186548},
		{X: 9.292893218813452, Y: 7.878679656440357},
		{X: 7.878679656440357, Y: 9.292893218813452},
	}
	norm := make([]geometry.Point2D, len(px))
	for i, p := range px {
		norm[i] = geometry.Point2D{X: p.X / 400, Y: p.Y / 200}
	}

	zone, ok := a.Editor.AddZone(norm)
	if !ok {
		t.Fatal("AddZone failed")
	}
	photo := &media.Asset{Name: "p.png", Path: "/nowhere/p.png", Width: 100, Height: 80}
	if _, ok := a.Editor.PlaceImage(zone.ID, photo); !ok {
		t.Fatal("PlaceImage failed")
	}
	before, _ := a.Editor.Placement(zone.ID)
	wantPos, wantScale := before.Position, before.Scale

	angle, ok := a.AutoOrient(zone.ID)
	if !ok {
		t.Fatal("AutoOrient failed")
	}
	if math.Abs(angle-45) > 1e-6 {
		t.Errorf("angle = %v, want 45", angle)
	}

	after, _ := a.Editor.Placement(zone.ID)
	if math.Abs(after.Rotation-45) > 1e-6 {
		t.Errorf("placement rotation = %v, want 45", after.Rotation)
	}
	if after.Position != wantPos || after.Scale != wantScale {
		t.Error("auto-orient should change only the rotation")
	}
}

func TestAutoOrientRequiresPlacement(t *testing.T) {
	a, _ := newTestApp(t, 100, 100)
	zone, _ := a.Editor.AddZone([]geometry.Point2D{
		{X: 0.1, Y: 0.1}, {X: 0.5, Y: 0.1}, {X: 0.5, Y: 0.3},
	})
	if _, ok := a.AutoOrient(zone.ID); ok {
		t.Error("AutoOrient without a placement should fail")
	}
	if _, ok := a.AutoOrient("zone-99"); ok {
		t.Error("AutoOrient of unknown zone should fail")
	}
}

func TestExportImage(t *testing.T) {
	a, _ := newTestApp(t, 64, 32)
	a.Editor.SetContainerWidth(64)

	yields := 0
	out := filepath.Join(t.TempDir(), "export.png")
	if err := a.ExportImage(out, func() { yields++ }); err != nil {
		t.Fatalf("ExportImage() error: %v", err)
	}
	if yields != 2 {
		t.Errorf("yield ran %d times, want 2", yields)
	}
	if a.Editor.Exporting() {
		t.Error("export flag still set")
	}
	if !a.Editor.ShowGuides() {
		t.Error("guides not restored after export")
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open exported file: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode exported file: %v", err)
	}
	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 32 {
		t.Errorf("exported size = %dx%d, want 64x32",
			img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestExportImageRequiresFlyer(t *testing.T) {
	dir := t.TempDir()
	a, err := New(Config{StorePath: filepath.Join(dir, "layouts.db")})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(a.Close)

	if err := a.ExportImage(filepath.Join(dir, "x.png"), nil); err == nil {
		t.Error("ExportImage() with no flyer should fail")
	}
}
