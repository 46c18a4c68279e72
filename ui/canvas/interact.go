package canvas

import (
	"fmt"
	"math"

	"fyne.io/fyne/v2"

	"flyer-studio/internal/editor"
	"flyer-studio/pkg/geometry"
)

const (
	// handleHitRadius is how close a press must land to a corner handle or
	// the rotation grip, in stage pixels.
	handleHitRadius = 10.0
	// gripOffset is the distance of the rotation grip above the photo's top
	// edge.
	gripOffset = 28.0
	// minPlacementScale stops a corner drag from collapsing the photo.
	minPlacementScale = 0.02
)

type dragKind int

const (
	dragNone dragKind = iota
	dragTrace
	dragMove
	dragScale
	dragRotate
)

type gestureState struct {
	active bool
	kind   dragKind
	zoneID string
	corner int
	start  geometry.Point2D
	orig   editor.Placement
}

// stagePoint converts an event position to stage pixels. Event positions
// are viewport-relative; the scroll offset recovers the content position.
func (sc *StageCanvas) stagePoint(pos fyne.Position) geometry.Point2D {
	off := sc.scroll.Offset
	return geometry.Point2D{X: float64(pos.X + off.X), Y: float64(pos.Y + off.Y)}
}

// zoneAt returns the topmost zone containing the stage point, or "".
func (sc *StageCanvas) zoneAt(p geometry.Point2D) string {
	sw, sh := sc.ed.StageSize()
	n := geometry.NormalizedFromStage(p, sw, sh)
	zones := sc.ed.Zones()
	for i := len(zones) - 1; i >= 0; i-- {
		if geometry.PointInPolygon(n, zones[i].Points) {
			return zones[i].ID
		}
	}
	return ""
}

// tapped handles a click that never became a drag. While armed it runs the
// full press-release protocol, so a bare click is rejected as a too-short
// trace and drawing stays armed. While idle it selects or deselects.
func (sc *StageCanvas) tapped(p geometry.Point2D) {
	switch sc.ed.DrawMode() {
	case editor.ModeArmed:
		sc.ed.PointerDown(p, sc.zoneAt(p) != "")
		sc.ed.PointerUp()
	case editor.ModeIdle:
		if id := sc.zoneAt(p); id != "" {
			sc.ed.SelectZone(id)
		} else {
			sc.ed.PointerDown(p, false)
		}
	}
}

func (sc *StageCanvas) dragged(p geometry.Point2D) {
	if !sc.gesture.active {
		sc.gesture = gestureState{active: true}
		sc.beginDrag(p)
	}
	sc.updateDrag(p)
}

func (sc *StageCanvas) dragEnded() {
	if sc.gesture.kind == dragTrace {
		if _, ok := sc.ed.PointerUp(); ok {
			sc.status("Zone traced")
		}
	}
	sc.gesture = gestureState{}
}

func (sc *StageCanvas) beginDrag(p geometry.Point2D) {
	switch sc.ed.DrawMode() {
	case editor.ModeArmed:
		sc.ed.PointerDown(p, sc.zoneAt(p) != "")
		if sc.ed.Tracing() {
			sc.gesture.kind = dragTrace
		}

	case editor.ModeIdle:
		// Handles of the selected placement win over zone hit testing, so
		// a handle overlapping a neighbor zone stays grabbable.
		if id := sc.ed.SelectedZone(); id != "" {
			if pl, ok := sc.ed.Placement(id); ok {
				hs := placementHandles(sc.ed, *pl)
				if kind, corner := hs.hit(p); kind != dragNone {
					sc.gesture.kind = kind
					sc.gesture.corner = corner
					sc.gesture.zoneID = id
					sc.gesture.start = p
					sc.gesture.orig = *pl
					return
				}
			}
		}

		zoneID := sc.zoneAt(p)
		if zoneID == "" {
			sc.ed.PointerDown(p, false)
			return
		}
		sc.ed.SelectZone(zoneID)
		if pl, ok := sc.ed.Placement(zoneID); ok {
			sc.gesture.kind = dragMove
			sc.gesture.zoneID = zoneID
			sc.gesture.start = p
			sc.gesture.orig = *pl
		}
	}
}

func (sc *StageCanvas) updateDrag(p geometry.Point2D) {
	switch sc.gesture.kind {
	case dragTrace:
		sw, sh := sc.ed.StageSize()
		if p.X < 0 || p.Y < 0 || p.X > sw || p.Y > sh {
			// Leaving the stage ends the trace, like releasing would.
			sc.ed.PointerLeave()
			sc.gesture.kind = dragNone
			return
		}
		sc.ed.PointerMove(p)
		sc.Refresh()

	case dragMove:
		sc.applyMove(p)

	case dragScale:
		sc.applyScale(p)

	case dragRotate:
		sc.applyRotate(p)
	}
}

func (sc *StageCanvas) applyMove(p geometry.Point2D) {
	g := &sc.gesture
	sw, sh := sc.ed.StageSize()
	ss := sc.ed.StageScale()

	delta := p.Sub(g.start)
	x := g.orig.Position.X*sw + delta.X
	y := g.orig.Position.Y*sh + delta.Y

	pw := float64(g.orig.ImageWidth) * g.orig.Scale * ss
	ph := float64(g.orig.ImageHeight) * g.orig.Scale * ss
	x = clampSpan(x, pw, sw)
	y = clampSpan(y, ph, sh)

	sc.ed.SetPlacementTransform(g.zoneID,
		geometry.Point2D{X: x / math.Max(sw, 1), Y: y / math.Max(sh, 1)},
		g.orig.Scale, g.orig.Rotation)
}

func (sc *StageCanvas) applyScale(p geometry.Point2D) {
	g := &sc.gesture
	sw, sh := sc.ed.StageSize()
	ss := sc.ed.StageScale()

	hs := placementHandles(sc.ed, g.orig)
	anchorIdx := (g.corner + 2) % 4
	anchor := hs.corners[anchorIdx]

	base := hs.corners[g.corner].Distance(anchor)
	if base < 1 {
		return
	}
	scale := g.orig.Scale * (p.Distance(anchor) / base)
	if scale < minPlacementScale {
		scale = minPlacementScale
	}

	// Keep the anchor corner fixed: recompute the top-left from the anchor
	// and the new scaled extents.
	pw := float64(g.orig.ImageWidth) * scale * ss
	ph := float64(g.orig.ImageHeight) * scale * ss
	u := cornerUnits[anchorIdx]
	rad := g.orig.Rotation * math.Pi / 180
	arm := geometry.Rotation(rad).Apply(geometry.Point2D{X: u.X * pw, Y: u.Y * ph})
	tx := anchor.X - arm.X
	ty := anchor.Y - arm.Y

	sc.ed.SetPlacementTransform(g.zoneID,
		geometry.Point2D{X: tx / math.Max(sw, 1), Y: ty / math.Max(sh, 1)},
		scale, g.orig.Rotation)
	sc.status(fmt.Sprintf("Scale %.2f", scale))
}

func (sc *StageCanvas) applyRotate(p geometry.Point2D) {
	g := &sc.gesture
	sw, sh := sc.ed.StageSize()

	// Rotation pivots on the photo's top-left, the same origin the
	// renderer rotates about.
	t := geometry.Point2D{X: g.orig.Position.X * sw, Y: g.orig.Position.Y * sh}
	a0 := math.Atan2(g.start.Y-t.Y, g.start.X-t.X)
	a1 := math.Atan2(p.Y-t.Y, p.X-t.X)
	rotation := g.orig.Rotation + (a1-a0)*180/math.Pi

	sc.ed.SetPlacementTransform(g.zoneID, g.orig.Position, g.orig.Scale, rotation)
	sc.status(fmt.Sprintf("Rotation %.0f°", rotation))
}

// clampSpan keeps [v, v+span] within [0, limit]. When the span is larger
// than the limit the bounds cross; the swap makes the allowed range
// [limit-span, 0], so an oversized photo can hang off either edge but
// never detach from the stage.
func clampSpan(v, span, limit float64) float64 {
	lo, hi := 0.0, limit-span
	if hi < lo {
		lo, hi = hi, lo
	}
	return geometry.Clamp(v, lo, hi)
}

// cornerUnits are the photo-local corner offsets in units of the scaled
// extents, in handle order: top-left, top-right, bottom-right, bottom-left.
var cornerUnits = [4]geometry.Point2D{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}

// handleSet is the selected placement's transform chrome in stage pixels.
type handleSet struct {
	corners [4]geometry.Point2D
	grip    geometry.Point2D
	valid   bool
}

// placementHandles computes the handle positions for a placement from the
// current stage geometry. The transform maps photo-local stage offsets
// through the placement's rotation about its top-left, then its position.
func placementHandles(ed *editor.Editor, p editor.Placement) handleSet {
	sw, sh := ed.StageSize()
	ss := ed.StageScale()

	pw := float64(p.ImageWidth) * p.Scale * ss
	ph := float64(p.ImageHeight) * p.Scale * ss
	rad := p.Rotation * math.Pi / 180
	m := geometry.Translation(p.Position.X*sw, p.Position.Y*sh).Compose(geometry.Rotation(rad))

	hs := handleSet{valid: true}
	hs.corners[0] = m.Apply(geometry.Point2D{})
	hs.corners[1] = m.Apply(geometry.Point2D{X: pw})
	hs.corners[2] = m.Apply(geometry.Point2D{X: pw, Y: ph})
	hs.corners[3] = m.Apply(geometry.Point2D{Y: ph})
	hs.grip = m.Apply(geometry.Point2D{X: pw / 2, Y: -gripOffset})
	return hs
}

// hit classifies a press against the handle set. The grip is checked first;
// it sits outside the footprint and must not be shadowed by corner radii.
func (hs handleSet) hit(p geometry.Point2D) (dragKind, int) {
	if !hs.valid {
		return dragNone, 0
	}
	if p.Distance(hs.grip) <= handleHitRadius {
		return dragRotate, 0
	}
	for i, c := range hs.corners {
		if p.Distance(c) <= handleHitRadius {
			return dragScale, i
		}
	}
	return dragNone, 0
}
