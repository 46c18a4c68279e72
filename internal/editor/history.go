package editor

import "flyer-studio/internal/media"

// Zone removal is the one destructive gesture with no natural re-trace
// path, so it gets a small undo stack. The stack owns the removed zone's
// photo asset until the entry is restored or evicted.

const maxRemovedZones = 20

type removedZone struct {
	zone      *Zone
	placement *Placement
	asset     *media.Asset
	index     int
}

func (e *Editor) pushHistoryLocked(rec *removedZone) {
	e.removed = append(e.removed, rec)
	if len(e.removed) > maxRemovedZones {
		release(e.removed[0].asset)
		e.removed = append(e.removed[:0], e.removed[1:]...)
	}
}

func (e *Editor) clearHistoryLocked() {
	for _, rec := range e.removed {
		release(rec.asset)
	}
	e.removed = nil
}

// UndoRemoveZone restores the most recently removed zone at its original
// position, along with its placement and photo asset, and selects it.
func (e *Editor) UndoRemoveZone() (*Zone, bool) {
	e.mu.Lock()
	if len(e.removed) == 0 {
		e.mu.Unlock()
		return nil, false
	}
	rec := e.removed[len(e.removed)-1]
	e.removed = e.removed[:len(e.removed)-1]

	idx := rec.index
	if idx > len(e.zones) {
		idx = len(e.zones)
	}
	e.zones = append(e.zones, nil)
	copy(e.zones[idx+1:], e.zones[idx:])
	e.zones[idx] = rec.zone

	if rec.placement != nil {
		e.placements[rec.zone.ID] = rec.placement
	}
	if rec.asset != nil {
		e.assets.setZone(rec.zone.ID, rec.asset)
	}
	e.selectedZone = rec.zone.ID
	e.modified = true
	e.mu.Unlock()

	e.Emit(EventZonesChanged, rec.zone)
	if rec.placement != nil {
		e.Emit(EventPlacementsChanged, rec.placement)
	}
	e.Emit(EventSelectionChanged, rec.zone.ID)
	e.Emit(EventModified, true)
	return rec.zone, true
}

// CanUndoRemove reports whether a removed zone is available to restore.
func (e *Editor) CanUndoRemove() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.removed) > 0
}
