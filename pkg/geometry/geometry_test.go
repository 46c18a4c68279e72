package geometry

import (
	"math"
	"testing"
)

const tol = 1e-9

func TestClamp(t *testing.T) {
	tests := []struct {
		name      string
		v, lo, hi float64
		want      float64
	}{
		{"below range", -0.5, 0, 1, 0},
		{"above range", 1.5, 0, 1, 1},
		{"inside range", 0.25, 0, 1, 0.25},
		{"at lower bound", 0, 0, 1, 0},
		{"at upper bound", 1, 0, 1, 1},
		{"negative range", -3, -5, -1, -3},
		{"crossed bounds upper wins", -1, 0, -3, -3},
		{"crossed bounds from above", 5, 0, -3, -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.v, tt.lo, tt.hi)
			if got != tt.want {
				t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.want)
			}
			// Clamping an already-clamped value must not move it.
			if again := Clamp(got, tt.lo, tt.hi); again != got {
				t.Errorf("Clamp not idempotent: %v -> %v", got, again)
			}
		})
	}
}

func TestNormalizedStageRoundTrip(t *testing.T) {
	tests := []struct {
		name           string
		p              Point2D
		stageW, stageH float64
	}{
		{"center of square stage", Point2D{0.5, 0.5}, 800, 800},
		{"corner", Point2D{1, 1}, 1024, 512},
		{"origin", Point2D{0, 0}, 640, 480},
		{"asymmetric point", Point2D{0.125, 0.875}, 1920, 1080},
		{"narrow stage", Point2D{0.3, 0.7}, 10, 2000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stage := StageFromNormalized(tt.p, tt.stageW, tt.stageH)
			back := NormalizedFromStage(stage, tt.stageW, tt.stageH)
			if math.Abs(back.X-tt.p.X) > tol || math.Abs(back.Y-tt.p.Y) > tol {
				t.Errorf("round trip = %v, want %v", back, tt.p)
			}
		})
	}
}

func TestNormalizedFromStageGuards(t *testing.T) {
	// An unmeasured (zero-size) stage must not divide by zero, and results
	// always land in [0,1].
	p := NormalizedFromStage(Point2D{X: 50, Y: 50}, 0, 0)
	if p.X != 1 || p.Y != 1 {
		t.Errorf("zero stage = %v, want {1 1}", p)
	}

	p = NormalizedFromStage(Point2D{X: -20, Y: 900}, 800, 600)
	if p.X != 0 {
		t.Errorf("negative stage X normalized to %v, want 0", p.X)
	}
	if p.Y != 1 {
		t.Errorf("overshooting stage Y normalized to %v, want 1", p.Y)
	}
}

func TestStageFromNormalizedUnclamped(t *testing.T) {
	// Values outside [0,1] must pass through untouched; drags exceed the
	// stage transiently.
	p := StageFromNormalized(Point2D{X: 1.2, Y: -0.1}, 500, 250)
	if math.Abs(p.X-600) > tol || math.Abs(p.Y+25) > tol {
		t.Errorf("got %v, want {600 -25}", p)
	}
}

func TestPolygonBounds(t *testing.T) {
	tests := []struct {
		name   string
		points []Point2D
		want   Bounds
	}{
		{
			name:   "empty",
			points: nil,
			want:   Bounds{},
		},
		{
			name:   "single point",
			points: []Point2D{{0.4, 0.6}},
			want:   Bounds{MinX: 0.4, MaxX: 0.4, MinY: 0.6, MaxY: 0.6},
		},
		{
			name: "rectangle",
			points: []Point2D{
				{0.2, 0.4}, {0.8, 0.4}, {0.8, 0.8}, {0.2, 0.8},
			},
			want: Bounds{MinX: 0.2, MaxX: 0.8, MinY: 0.4, MaxY: 0.8, Width: 0.6, Height: 0.4},
		},
		{
			name: "triangle",
			points: []Point2D{
				{0.5, 0.1}, {0.9, 0.9}, {0.1, 0.9},
			},
			want: Bounds{MinX: 0.1, MaxX: 0.9, MinY: 0.1, MaxY: 0.9, Width: 0.8, Height: 0.8},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PolygonBounds(tt.points)
			if math.Abs(got.MinX-tt.want.MinX) > tol || math.Abs(got.MaxX-tt.want.MaxX) > tol ||
				math.Abs(got.MinY-tt.want.MinY) > tol || math.Abs(got.MaxY-tt.want.MaxY) > tol ||
				math.Abs(got.Width-tt.want.Width) > tol || math.Abs(got.Height-tt.want.Height) > tol {
				t.Errorf("PolygonBounds() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLabelAnchor(t *testing.T) {
	// The anchor is the bounding-box midpoint, not the area centroid: an
	// L-shape pulls the area centroid toward its mass but the anchor stays
	// at the box center.
	l := []Point2D{
		{0, 0}, {1, 0}, {1, 0.2}, {0.2, 0.2}, {0.2, 1}, {0, 1},
	}
	got := LabelAnchor(l)
	if math.Abs(got.X-0.5) > tol || math.Abs(got.Y-0.5) > tol {
		t.Errorf("LabelAnchor() = %v, want {0.5 0.5}", got)
	}

	if got := LabelAnchor(nil); got.X != 0 || got.Y != 0 {
		t.Errorf("LabelAnchor(nil) = %v, want {0 0}", got)
	}
}

func TestPointInPolygon(t *testing.T) {
	square := []Point2D{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	triangle := []Point2D{{0, 0}, {4, 0}, {2, 3}}

	tests := []struct {
		name    string
		p       Point2D
		polygon []Point2D
		want    bool
	}{
		{"center of square", Point2D{0.5, 0.5}, square, true},
		{"outside square", Point2D{1.5, 0.5}, square, false},
		{"inside triangle", Point2D{2, 1}, triangle, true},
		{"outside triangle", Point2D{0.1, 2.9}, triangle, false},
		{"degenerate polygon", Point2D{0, 0}, square[:2], false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PointInPolygon(tt.p, tt.polygon); got != tt.want {
				t.Errorf("PointInPolygon(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestPolygonArea(t *testing.T) {
	tests := []struct {
		name    string
		polygon []Point2D
		want    float64
	}{
		{"unit square", []Point2D{{0, 0}, {1, 0}, {1, 1}, {0, 1}}, 1},
		{"triangle", []Point2D{{0, 0}, {4, 0}, {2, 3}}, 6},
		{"clockwise square", []Point2D{{0, 0}, {0, 1}, {1, 1}, {1, 0}}, 1},
		{"too few points", []Point2D{{0, 0}, {1, 1}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PolygonArea(tt.polygon); math.Abs(got-tt.want) > tol {
				t.Errorf("PolygonArea() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAffineTranslationRotation(t *testing.T) {
	// Translation composed with rotation is the transform handle placement
	// uses: rotate in photo-local coordinates, then shift to the position.
	m := Translation(10, 20).Compose(Rotation(math.Pi / 2))

	got := m.Apply(Point2D{X: 1, Y: 0})
	if math.Abs(got.X-10) > tol || math.Abs(got.Y-21) > tol {
		t.Errorf("Apply() = %v, want {10 21}", got)
	}

	// The origin only picks up the translation.
	got = m.Apply(Point2D{})
	if math.Abs(got.X-10) > tol || math.Abs(got.Y-20) > tol {
		t.Errorf("Apply(origin) = %v, want {10 20}", got)
	}
}

func TestRotationPreservesDistance(t *testing.T) {
	a := Point2D{X: 3, Y: -2}
	b := Point2D{X: -1, Y: 5}
	r := Rotation(0.7)
	if d, want := r.Apply(a).Distance(r.Apply(b)), a.Distance(b); math.Abs(d-want) > tol {
		t.Errorf("distance after rotation = %v, want %v", d, want)
	}
}

func TestConvexHull(t *testing.T) {
	// A square with two interior points must hull down to the four corners.
	points := []Point2D{
		{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0.5, 0.5}, {0.5, 0.2},
	}
	hull := ConvexHull(points)
	if len(hull) != 4 {
		t.Fatalf("hull has %d points, want 4: %v", len(hull), hull)
	}
	want := map[Point2D]bool{{0, 0}: true, {1, 0}: true, {1, 1}: true, {0, 1}: true}
	for _, p := range hull {
		if !want[p] {
			t.Errorf("unexpected hull point %v", p)
		}
	}

	// Fewer than 3 points pass through untouched.
	two := []Point2D{{0, 0}, {1, 1}}
	if got := ConvexHull(two); len(got) != 2 {
		t.Errorf("ConvexHull(two points) = %v", got)
	}
}

func TestFinite(t *testing.T) {
	if !(Point2D{X: 0.5, Y: 0.5}).Finite() {
		t.Error("finite point reported non-finite")
	}
	for _, p := range []Point2D{
		{X: math.NaN(), Y: 0},
		{X: 0, Y: math.Inf(1)},
		{X: math.Inf(-1), Y: math.NaN()},
	} {
		if p.Finite() {
			t.Errorf("Finite(%v) = true, want false", p)
		}
	}
}
