package canvas

import (
	"image"
	"math"
	"testing"

	"flyer-studio/internal/editor"
	"flyer-studio/internal/media"
	"flyer-studio/pkg/geometry"
)

const tol = 1e-9

// stageEditor returns an editor with a 1000x500 flyer in a 500-wide
// container: stage 500x250 at scale 0.5.
func stageEditor() *editor.Editor {
	e := editor.New()
	e.SetFlyerImage(&media.Asset{Name: "flyer.png", Path: "/tmp/flyer.png", Width: 1000, Height: 500})
	e.SetContainerWidth(500)
	return e
}

func TestClampSpan(t *testing.T) {
	tests := []struct {
		v, span, limit float64
		want           float64
	}{
		{50, 100, 500, 50},
		{-20, 100, 500, 0},
		{450, 100, 500, 400},
		// Oversized span: allowed range flips to [limit-span, 0].
		{10, 600, 500, 0},
		{-150, 600, 500, -100},
		{-50, 600, 500, -50},
	}
	for _, tt := range tests {
		if got := clampSpan(tt.v, tt.span, tt.limit); math.Abs(got-tt.want) > tol {
			t.Errorf("clampSpan(%v, %v, %v) = %v, want %v", tt.v, tt.span, tt.limit, got, tt.want)
		}
	}
}

func TestPlacementHandlesUnrotated(t *testing.T) {
	e := stageEditor()
	p := editor.Placement{
		ImageWidth: 200, ImageHeight: 100,
		Position: geometry.Point2D{X: 0.1, Y: 0.2},
		Scale:    1,
	}

	hs := placementHandles(e, p)
	if !hs.valid {
		t.Fatal("handles not valid")
	}
	// Stage 500x250 at scale 0.5: footprint 100x50 at (50, 50).
	want := [4]geometry.Point2D{{X: 50, Y: 50}, {X: 150, Y: 50}, {X: 150, Y: 100}, {X: 50, Y: 100}}
	for i, c := range hs.corners {
		if math.Abs(c.X-want[i].X) > tol || math.Abs(c.Y-want[i].Y) > tol {
			t.Errorf("corner %d = %v, want %v", i, c, want[i])
		}
	}
	grip := geometry.Point2D{X: 100, Y: 50 - gripOffset}
	if math.Abs(hs.grip.X-grip.X) > tol || math.Abs(hs.grip.Y-grip.Y) > tol {
		t.Errorf("grip = %v, want %v", hs.grip, grip)
	}
}

func TestPlacementHandlesRotated(t *testing.T) {
	e := stageEditor()
	p := editor.Placement{
		ImageWidth: 200, ImageHeight: 100,
		Position: geometry.Point2D{X: 0.1, Y: 0.2},
		Scale:    1,
		Rotation: 90,
	}

	hs := placementHandles(e, p)
	// Rotating 90 degrees about the top-left (50, 50) swings the footprint
	// clockwise on screen.
	want := [4]geometry.Point2D{{X: 50, Y: 50}, {X: 50, Y: 150}, {X: 0, Y: 150}, {X: 0, Y: 50}}
	for i, c := range hs.corners {
		if math.Abs(c.X-want[i].X) > 1e-9 || math.Abs(c.Y-want[i].Y) > 1e-9 {
			t.Errorf("corner %d = %v, want %v", i, c, want[i])
		}
	}
	grip := geometry.Point2D{X: 50 + gripOffset, Y: 100}
	if math.Abs(hs.grip.X-grip.X) > 1e-9 || math.Abs(hs.grip.Y-grip.Y) > 1e-9 {
		t.Errorf("grip = %v, want %v", hs.grip, grip)
	}
}

func TestHandleHit(t *testing.T) {
	hs := handleSet{
		corners: [4]geometry.Point2D{{X: 50, Y: 50}, {X: 150, Y: 50}, {X: 150, Y: 100}, {X: 50, Y: 100}},
		grip:    geometry.Point2D{X: 100, Y: 22},
		valid:   true,
	}

	if kind, _ := hs.hit(geometry.Point2D{X: 101, Y: 23}); kind != dragRotate {
		t.Errorf("near grip = %v, want dragRotate", kind)
	}
	if kind, corner := hs.hit(geometry.Point2D{X: 148, Y: 52}); kind != dragScale || corner != 1 {
		t.Errorf("near corner 1 = (%v, %d), want (dragScale, 1)", kind, corner)
	}
	if kind, _ := hs.hit(geometry.Point2D{X: 100, Y: 75}); kind != dragNone {
		t.Errorf("footprint interior = %v, want dragNone", kind)
	}

	if kind, _ := (handleSet{}).hit(geometry.Point2D{}); kind != dragNone {
		t.Errorf("invalid set = %v, want dragNone", kind)
	}
}

func TestCharPattern(t *testing.T) {
	if charPattern('a') != charPattern('A') {
		t.Error("lowercase should map to uppercase")
	}
	if charPattern('7') != digitPatterns[7] {
		t.Error("digit lookup broken")
	}
	if charPattern('~') != ([5]uint8{}) {
		t.Error("unsupported rune should be empty")
	}
}

func TestDrawLabelStaysInBounds(t *testing.T) {
	out := image.NewRGBA(image.Rect(0, 0, 20, 10))
	// Centered far outside; must not panic and must not write anything.
	drawLabel(out, "OVERFLOW", 200, 200, labelColor, 3)
	for i := 0; i < len(out.Pix); i++ {
		if out.Pix[i] != 0 {
			t.Fatal("out-of-bounds label wrote pixels")
		}
	}

	drawLabel(out, "A1", 10, 5, labelColor, 1)
	found := false
	for i := 3; i < len(out.Pix); i += 4 {
		if out.Pix[i] != 0 {
			found = true
			break
		}
	}
	if !found {
		t.Error("in-bounds label drew nothing")
	}
}
