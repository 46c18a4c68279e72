// Package editor owns the mutable state of a layout session: the background
// flyer, traced zones, photo placements, selection, and the pointer protocol
// that drives freehand tracing.
package editor

import (
	"fmt"
	"strings"
	"sync"

	"flyer-studio/internal/media"
	"flyer-studio/pkg/geometry"
)

// Mode is the freehand drawing state.
type Mode int

const (
	// ModeIdle means drawing is off; clicks select and drags move placements.
	ModeIdle Mode = iota
	// ModeArmed means drawing is on and the next press on empty canvas
	// starts a trace.
	ModeArmed
	// ModeTracing means a trace is being captured.
	ModeTracing
)

// Zone is a user-traced polygon region on the flyer, stored in normalized
// coordinates.
type Zone struct {
	ID     string             `json:"id"`
	Name   string             `json:"name"`
	Points []geometry.Point2D `json:"points"`
}

// Placement assigns a photo to a zone. Position is normalized against the
// full stage; Scale is display independent, so the same value means the same
// physical magnification at any container width. Rotation is in degrees.
type Placement struct {
	ZoneID      string           `json:"zoneId"`
	Path        string           `json:"path"`
	FileName    string           `json:"fileName"`
	ImageWidth  int              `json:"imageWidth"`
	ImageHeight int              `json:"imageHeight"`
	Position    geometry.Point2D `json:"position"`
	Scale       float64          `json:"scale"`
	Rotation    float64          `json:"rotation"`
}

// Editor holds the session state. All mutation goes through its methods;
// display geometry is derived on read, never stored.
type Editor struct {
	mu sync.RWMutex

	// Layout identity
	layoutID   string
	layoutName string
	modified   bool

	// Background flyer and per-zone photo assets
	assets *assetRegistry

	// Zones in draw order; placements keyed by zone id
	zones      []*Zone
	placements map[string]*Placement

	// Drawing state
	mode        Mode
	tracePoints []geometry.Point2D
	lastRaw     geometry.Point2D

	selectedZone string
	showGuides   bool

	containerWidth float64

	// Monotonic zone id counter; ids are never reused after deletion.
	nextZoneID int

	// Undo stack for zone removal
	removed []*removedZone

	// Busy flags
	exporting  bool
	persisting bool

	// Generation counter for async image loads
	loadGen uint64

	listeners map[EventType][]EventListener
}

// New creates an editor with no flyer loaded. Guides start visible.
func New() *Editor {
	return &Editor{
		assets:     newAssetRegistry(),
		placements: make(map[string]*Placement),
		showGuides: true,
		nextZoneID: 1,
		listeners:  make(map[EventType][]EventListener),
	}
}

// SetFlyerImage replaces the background flyer. Everything that was
// interpreted against the previous flyer is reset: zones, placements, the
// trace buffer, selection, and drawing mode. Guides are forced visible.
// The editor takes ownership of the asset; nil clears the flyer.
func (e *Editor) SetFlyerImage(asset *media.Asset) {
	e.mu.Lock()
	e.assets.setBackground(asset)
	e.assets.releaseZones()
	e.clearHistoryLocked()
	e.zones = nil
	e.placements = make(map[string]*Placement)
	e.tracePoints = nil
	e.mode = ModeIdle
	e.selectedZone = ""
	e.showGuides = true
	e.modified = true
	e.mu.Unlock()

	e.Emit(EventFlyerChanged, asset)
	e.Emit(EventZonesChanged, nil)
	e.Emit(EventPlacementsChanged, nil)
	e.Emit(EventSelectionChanged, "")
	e.Emit(EventModeChanged, ModeIdle)
	e.Emit(EventGuidesChanged, true)
	e.Emit(EventModified, true)
}

// Flyer returns the background asset, or nil when none is loaded.
func (e *Editor) Flyer() *media.Asset {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.assets.background
}

// HasFlyer reports whether a background flyer is loaded.
func (e *Editor) HasFlyer() bool {
	return e.Flyer() != nil
}

// Zones returns the zones in draw order. The returned slice is a copy but
// the zones themselves are shared; treat them as read-only.
func (e *Editor) Zones() []*Zone {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*Zone, len(e.zones))
	copy(out, e.zones)
	return out
}

// Zone looks up a zone by id.
func (e *Editor) Zone(id string) (*Zone, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	z := e.zoneLocked(id)
	return z, z != nil
}

// ZoneCount returns the number of zones.
func (e *Editor) ZoneCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.zones)
}

func (e *Editor) zoneLocked(id string) *Zone {
	for _, z := range e.zones {
		if z.ID == id {
			return z
		}
	}
	return nil
}

// SetZoneName renames a zone. Empty or whitespace-only names are rejected.
func (e *Editor) SetZoneName(id, name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}

	e.mu.Lock()
	z := e.zoneLocked(id)
	if z == nil || z.Name == name {
		e.mu.Unlock()
		return z != nil && z.Name == name
	}
	z.Name = name
	e.modified = true
	e.mu.Unlock()

	e.Emit(EventZonesChanged, z)
	e.Emit(EventModified, true)
	return true
}

// SelectZone selects the zone and forces drawing mode off, clearing any
// in-progress trace. Selecting and drawing are mutually exclusive.
func (e *Editor) SelectZone(id string) bool {
	e.mu.Lock()
	if e.zoneLocked(id) == nil {
		e.mu.Unlock()
		return false
	}
	modeChanged := e.mode != ModeIdle
	e.mode = ModeIdle
	e.tracePoints = nil
	changed := e.selectedZone != id
	e.selectedZone = id
	e.mu.Unlock()

	if modeChanged {
		e.Emit(EventModeChanged, ModeIdle)
	}
	if changed {
		e.Emit(EventSelectionChanged, id)
	}
	return true
}

// ClearSelection deselects any selected zone.
func (e *Editor) ClearSelection() {
	e.mu.Lock()
	if e.selectedZone == "" {
		e.mu.Unlock()
		return
	}
	e.selectedZone = ""
	e.mu.Unlock()

	e.Emit(EventSelectionChanged, "")
}

// SelectedZone returns the selected zone id, or "" when none is selected.
func (e *Editor) SelectedZone() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.selectedZone
}

// AddZone appends a ready-made outline as a zone, drawing from the same id
// and name sequence traced zones use. Zone suggestion goes through here.
// Unlike a finished trace the new zone is not selected, since suggestions
// arrive in batches. Requires a flyer and at least 3 finite points.
func (e *Editor) AddZone(points []geometry.Point2D) (*Zone, bool) {
	if len(points) < 3 {
		return nil, false
	}
	for _, p := range points {
		if !p.Finite() {
			return nil, false
		}
	}

	e.mu.Lock()
	if e.assets.background == nil {
		e.mu.Unlock()
		return nil, false
	}
	zone := &Zone{
		ID:     zoneID(e.nextZoneID),
		Name:   zoneName(len(e.zones) + 1),
		Points: append([]geometry.Point2D(nil), points...),
	}
	e.nextZoneID++
	e.zones = append(e.zones, zone)
	e.modified = true
	e.mu.Unlock()

	e.Emit(EventZonesChanged, zone)
	e.Emit(EventModified, true)
	return zone, true
}

// RemoveZone removes a zone, its placement, and its photo asset. The removal
// is pushed onto the undo stack. Selection is cleared if it pointed at the
// removed zone.
func (e *Editor) RemoveZone(id string) bool {
	e.mu.Lock()
	idx := -1
	for i, z := range e.zones {
		if z.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		e.mu.Unlock()
		return false
	}

	rec := &removedZone{zone: e.zones[idx], index: idx}
	e.zones = append(e.zones[:idx], e.zones[idx+1:]...)
	if p, ok := e.placements[id]; ok {
		rec.placement = p
		delete(e.placements, id)
	}
	rec.asset = e.assets.takeZone(id)
	e.pushHistoryLocked(rec)

	deselected := e.selectedZone == id
	if deselected {
		e.selectedZone = ""
	}
	e.modified = true
	e.mu.Unlock()

	e.Emit(EventZonesChanged, nil)
	if rec.placement != nil {
		e.Emit(EventPlacementsChanged, nil)
	}
	if deselected {
		e.Emit(EventSelectionChanged, "")
	}
	e.Emit(EventModified, true)
	return true
}

// SetShowGuides toggles the zone outline and label overlay.
func (e *Editor) SetShowGuides(show bool) {
	e.mu.Lock()
	if e.showGuides == show {
		e.mu.Unlock()
		return
	}
	e.showGuides = show
	e.mu.Unlock()

	e.Emit(EventGuidesChanged, show)
}

// ShowGuides reports whether guides are visible.
func (e *Editor) ShowGuides() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.showGuides
}

// Modified reports whether the layout has unsaved changes.
func (e *Editor) Modified() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.modified
}

// SetModified marks or clears the unsaved-changes flag.
func (e *Editor) SetModified(modified bool) {
	e.mu.Lock()
	if e.modified == modified {
		e.mu.Unlock()
		return
	}
	e.modified = modified
	e.mu.Unlock()

	e.Emit(EventModified, modified)
}

// LayoutID returns the persisted layout id, or "" for a never-saved session.
func (e *Editor) LayoutID() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.layoutID
}

// LayoutName returns the layout's display name.
func (e *Editor) LayoutName() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.layoutName
}

// SetLayoutMeta records the identity a layout was saved or loaded under.
func (e *Editor) SetLayoutMeta(id, name string) {
	e.mu.Lock()
	e.layoutID = id
	e.layoutName = name
	e.mu.Unlock()
}

// Close releases every asset the editor owns, including those held by the
// undo stack. The editor is not usable afterwards.
func (e *Editor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clearHistoryLocked()
	e.assets.releaseAll()
}

func zoneID(n int) string {
	return fmt.Sprintf("zone-%d", n)
}
