package editor

import (
	"fmt"

	"flyer-studio/pkg/geometry"
)

// minSampleDist is the minimum pixel distance between consecutive samples
// recorded while tracing. Freehand dragging emits far more move events than
// a usable polygon needs; undecimated capture bloats the point list and
// drags down rendering and export.
const minSampleDist = 6.0

// ToggleDrawMode flips between Idle and Armed. It is a no-op without a
// flyer. Any in-progress trace and the current selection are cleared.
func (e *Editor) ToggleDrawMode() Mode {
	e.mu.Lock()
	if e.assets.background == nil {
		mode := e.mode
		e.mu.Unlock()
		return mode
	}

	if e.mode == ModeIdle {
		e.mode = ModeArmed
	} else {
		e.mode = ModeIdle
	}
	mode := e.mode
	e.tracePoints = nil
	deselected := e.selectedZone != ""
	e.selectedZone = ""
	e.mu.Unlock()

	e.Emit(EventModeChanged, mode)
	if deselected {
		e.Emit(EventSelectionChanged, "")
	}
	return mode
}

// DrawMode returns the current drawing state.
func (e *Editor) DrawMode() Mode {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.mode
}

// Tracing reports whether a trace is being captured.
func (e *Editor) Tracing() bool {
	return e.DrawMode() == ModeTracing
}

// TracePoints returns a copy of the in-progress trace in normalized
// coordinates, for drawing the live polyline.
func (e *Editor) TracePoints() []geometry.Point2D {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]geometry.Point2D(nil), e.tracePoints...)
}

// PointerDown handles a press at p in stage pixels. onShape is true when the
// press landed on a zone or placement rather than empty canvas; those
// presses are handled by the shape's own selection handling, not here.
// Armed plus empty canvas starts a trace; Idle plus empty canvas deselects.
func (e *Editor) PointerDown(p geometry.Point2D, onShape bool) {
	e.mu.Lock()
	switch {
	case e.mode == ModeArmed && !onShape:
		sw, sh := e.stageWidthLocked(), e.stageHeightLocked()
		e.mode = ModeTracing
		e.tracePoints = []geometry.Point2D{geometry.NormalizedFromStage(p, sw, sh)}
		e.lastRaw = p
		e.mu.Unlock()
		e.Emit(EventModeChanged, ModeTracing)

	case e.mode == ModeIdle && !onShape:
		deselected := e.selectedZone != ""
		e.selectedZone = ""
		e.mu.Unlock()
		if deselected {
			e.Emit(EventSelectionChanged, "")
		}

	default:
		e.mu.Unlock()
	}
}

// PointerMove handles pointer movement to p in stage pixels. Only a tracing
// editor records anything, and only when the pointer has moved at least
// minSampleDist pixels from the last recorded raw position.
func (e *Editor) PointerMove(p geometry.Point2D) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode != ModeTracing {
		return
	}
	if p.Distance(e.lastRaw) < minSampleDist {
		return
	}
	sw, sh := e.stageWidthLocked(), e.stageHeightLocked()
	e.tracePoints = append(e.tracePoints, geometry.NormalizedFromStage(p, sw, sh))
	e.lastRaw = p
}

// PointerUp ends a trace and attempts to finalize it into a zone. On
// success the zone is appended, selected, and drawing mode exits. On
// rejection the buffer is discarded and the editor returns to Armed so the
// user can immediately retry. Rejection is silent; there is no error.
func (e *Editor) PointerUp() (*Zone, bool) {
	return e.finishTrace()
}

// PointerLeave is treated exactly like PointerUp: leaving the stage ends
// the trace.
func (e *Editor) PointerLeave() (*Zone, bool) {
	return e.finishTrace()
}

// CancelDrawing aborts any trace and turns drawing off without attempting
// finalization.
func (e *Editor) CancelDrawing() {
	e.mu.Lock()
	if e.mode == ModeIdle && e.tracePoints == nil {
		e.mu.Unlock()
		return
	}
	e.mode = ModeIdle
	e.tracePoints = nil
	e.mu.Unlock()

	e.Emit(EventModeChanged, ModeIdle)
}

func (e *Editor) finishTrace() (*Zone, bool) {
	e.mu.Lock()
	if e.mode != ModeTracing {
		e.mu.Unlock()
		return nil, false
	}

	raw := e.tracePoints
	e.tracePoints = nil

	if len(raw) < 3 {
		e.mode = ModeArmed
		e.mu.Unlock()
		e.Emit(EventModeChanged, ModeArmed)
		return nil, false
	}

	// Re-filter at half the sampling spacing to drop near-duplicates
	// accumulated at low movement speed. The pixel threshold is recomputed
	// against the current stage size, so a container resize mid-trace
	// changes the effective spacing; that is long-standing behavior.
	sw, sh := e.stageWidthLocked(), e.stageHeightLocked()
	points := filterTrace(raw, sw, sh, minSampleDist/2)
	if len(points) < 3 {
		e.mode = ModeArmed
		e.mu.Unlock()
		e.Emit(EventModeChanged, ModeArmed)
		return nil, false
	}

	zone := &Zone{
		ID:     zoneID(e.nextZoneID),
		Name:   zoneName(len(e.zones) + 1),
		Points: points,
	}
	e.nextZoneID++
	e.zones = append(e.zones, zone)
	e.selectedZone = zone.ID

	// A placement keyed to this id would be stale state from a bug; clear
	// it rather than letting it attach to the new zone.
	stale := false
	if _, ok := e.placements[zone.ID]; ok {
		delete(e.placements, zone.ID)
		e.assets.releaseZone(zone.ID)
		stale = true
	}

	e.mode = ModeIdle
	e.modified = true
	e.mu.Unlock()

	e.Emit(EventZonesChanged, zone)
	if stale {
		e.Emit(EventPlacementsChanged, nil)
	}
	e.Emit(EventSelectionChanged, zone.ID)
	e.Emit(EventModeChanged, ModeIdle)
	e.Emit(EventModified, true)
	return zone, true
}

// filterTrace drops points closer than minDist pixels to the previously
// kept point, measured in stage pixels at the given stage size. The first
// point is always kept.
func filterTrace(points []geometry.Point2D, stageW, stageH, minDist float64) []geometry.Point2D {
	if len(points) == 0 {
		return nil
	}
	kept := []geometry.Point2D{points[0]}
	last := geometry.StageFromNormalized(points[0], stageW, stageH)
	for _, p := range points[1:] {
		stage := geometry.StageFromNormalized(p, stageW, stageH)
		if stage.Distance(last) < minDist {
			continue
		}
		kept = append(kept, p)
		last = stage
	}
	return kept
}

func zoneName(n int) string {
	return fmt.Sprintf("Zone %d", n)
}
