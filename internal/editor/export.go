package editor

import "math"

// Busy flags for the two slow flows. Both are try-locks: the first caller
// wins and everyone else backs off, which is what disables the triggering
// controls while the flow runs.

// BeginExport claims the export flow. It fails when an export is already
// running, no flyer is loaded, or the stage has not been measured yet.
// The caller must pair a successful claim with EndExport, normally via
// defer, so a failed capture can never wedge the editor in exporting state.
func (e *Editor) BeginExport() bool {
	e.mu.Lock()
	if e.exporting || e.assets.background == nil || e.stageWidthLocked() <= 0 {
		e.mu.Unlock()
		return false
	}
	e.exporting = true
	e.mu.Unlock()

	e.Emit(EventExportStateChanged, true)
	return true
}

// EndExport releases the export flow.
func (e *Editor) EndExport() {
	e.mu.Lock()
	if !e.exporting {
		e.mu.Unlock()
		return
	}
	e.exporting = false
	e.mu.Unlock()

	e.Emit(EventExportStateChanged, false)
}

// Exporting reports whether an export is in progress.
func (e *Editor) Exporting() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.exporting
}

// ExportPixelRatio returns the rasterization ratio for exports: at least 1,
// and larger when the on-screen stage is smaller than the flyer's natural
// size, so output never drops below native resolution.
func (e *Editor) ExportPixelRatio() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return math.Max(1/e.stageScaleLocked(), 1)
}

// BeginPersist claims the save/load flow; same discipline as BeginExport.
func (e *Editor) BeginPersist() bool {
	e.mu.Lock()
	if e.persisting {
		e.mu.Unlock()
		return false
	}
	e.persisting = true
	e.mu.Unlock()

	e.Emit(EventPersistStateChanged, true)
	return true
}

// EndPersist releases the save/load flow.
func (e *Editor) EndPersist() {
	e.mu.Lock()
	if !e.persisting {
		e.mu.Unlock()
		return
	}
	e.persisting = false
	e.mu.Unlock()

	e.Emit(EventPersistStateChanged, false)
}

// Persisting reports whether a save or load is in progress.
func (e *Editor) Persisting() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.persisting
}

// NextLoadGeneration supersedes all in-flight asynchronous image loads and
// returns the generation token for a new one.
func (e *Editor) NextLoadGeneration() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.loadGen++
	return e.loadGen
}

// LoadCurrent reports whether the given load generation is still the live
// one. Loads re-check this after every suspension point and drop their
// result when superseded.
func (e *Editor) LoadCurrent(gen uint64) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return gen == e.loadGen
}
