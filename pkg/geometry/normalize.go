package geometry

// The editor stores all persistent geometry in normalized coordinates:
// fractions of the background image's displayed bounding box, both axes in
// [0,1]. Stage coordinates are the current on-screen pixels. These functions
// are the only mapping between the two spaces.

// Clamp limits v to the range [lo, hi]. The lower bound is applied first,
// so when hi < lo the upper bound wins. Placement fitting relies on this:
// an image wider than the stage always clamps to the negative upper bound,
// never to zero.
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return v
}

// NormalizedFromStage converts a stage-pixel point to normalized coordinates.
// Stage dimensions below 1 are treated as 1 so an unmeasured container never
// divides by zero. Both axes are clamped to [0,1].
func NormalizedFromStage(p Point2D, stageW, stageH float64) Point2D {
	w := stageW
	if w < 1 {
		w = 1
	}
	h := stageH
	if h < 1 {
		h = 1
	}
	return Point2D{
		X: Clamp(p.X/w, 0, 1),
		Y: Clamp(p.Y/h, 0, 1),
	}
}

// StageFromNormalized converts a normalized point back to stage pixels.
// The result is intentionally unclamped: values outside the visible stage
// occur transiently while dragging.
func StageFromNormalized(p Point2D, stageW, stageH float64) Point2D {
	return Point2D{X: p.X * stageW, Y: p.Y * stageH}
}

// Bounds is the axis-aligned bounding box of a point set.
type Bounds struct {
	MinX, MaxX float64
	MinY, MaxY float64
	Width      float64
	Height     float64
}

// PolygonBounds computes the axis-aligned bounding box of a polygon.
// Empty input yields the zero Bounds.
func PolygonBounds(points []Point2D) Bounds {
	if len(points) == 0 {
		return Bounds{}
	}
	b := Bounds{MinX: points[0].X, MaxX: points[0].X, MinY: points[0].Y, MaxY: points[0].Y}
	for _, p := range points[1:] {
		if p.X < b.MinX {
			b.MinX = p.X
		}
		if p.X > b.MaxX {
			b.MaxX = p.X
		}
		if p.Y < b.MinY {
			b.MinY = p.Y
		}
		if p.Y > b.MaxY {
			b.MaxY = p.Y
		}
	}
	b.Width = b.MaxX - b.MinX
	b.Height = b.MaxY - b.MinY
	return b
}

// LabelAnchor returns the midpoint of the polygon's bounding box. Zone labels
// are anchored here rather than at the area centroid; for the blobby shapes a
// freehand trace produces the difference is invisible and the bbox midpoint
// is stable while a trace is still growing. Empty input yields {0,0}.
func LabelAnchor(points []Point2D) Point2D {
	if len(points) == 0 {
		return Point2D{}
	}
	b := PolygonBounds(points)
	return Point2D{X: b.MinX + b.Width/2, Y: b.MinY + b.Height/2}
}
