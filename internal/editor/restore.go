package editor

import (
	"fmt"

	"flyer-studio/internal/media"
)

// RestoreLayout replaces the whole session with persisted state: flyer,
// zones, placements, and any reopened photo assets keyed by zone id. The
// zone id counter advances past the highest restored id so new zones never
// collide with restored ones. The editor takes ownership of all assets.
func (e *Editor) RestoreLayout(id, name string, background *media.Asset, zones []*Zone, placements []*Placement, photos map[string]*media.Asset) {
	e.mu.Lock()
	e.assets.setBackground(background)
	e.assets.releaseZones()
	e.clearHistoryLocked()

	e.layoutID = id
	e.layoutName = name
	e.zones = zones
	e.placements = make(map[string]*Placement)
	for _, p := range placements {
		if e.zoneLocked(p.ZoneID) == nil {
			continue
		}
		e.placements[p.ZoneID] = p
	}
	for zid, a := range photos {
		if _, ok := e.placements[zid]; !ok {
			release(a)
			continue
		}
		e.assets.setZone(zid, a)
	}

	// Advance the id counter past every restored id.
	next := 1
	for _, z := range zones {
		var n int
		if _, err := fmt.Sscanf(z.ID, "zone-%d", &n); err == nil && n >= next {
			next = n + 1
		}
	}
	e.nextZoneID = next

	e.tracePoints = nil
	e.mode = ModeIdle
	e.selectedZone = ""
	e.showGuides = true
	e.modified = false
	e.mu.Unlock()

	e.Emit(EventFlyerChanged, background)
	e.Emit(EventZonesChanged, nil)
	e.Emit(EventPlacementsChanged, nil)
	e.Emit(EventSelectionChanged, "")
	e.Emit(EventModeChanged, ModeIdle)
	e.Emit(EventGuidesChanged, true)
	e.Emit(EventModified, false)
	e.Emit(EventLayoutLoaded, id)
}
