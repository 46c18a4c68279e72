package editor

import (
	"math"

	"flyer-studio/internal/media"
	"flyer-studio/pkg/geometry"
)

// ComputeInitialPlacement fits a photo of the given natural size over a
// zone's bounding box the way CSS background-size: cover would, then
// normalizes the result so it survives container resizes:
//
//  1. The zone's bounds are converted to stage pixels, with each dimension
//     floored at 1 so a degenerate zone or an unmeasured stage cannot
//     produce a zero-size target.
//  2. coverScale is the smallest scale at which the photo fully covers the
//     bounding box.
//  3. The stored scale is coverScale divided by the current stage scale,
//     making it independent of whatever width the stage happens to be
//     rendered at right now.
//  4. The photo's top-left is centered over the bounding box and clamped so
//     its footprint stays within the stage. When the scaled photo is larger
//     than the stage the upper clamp bound is negative and wins: the photo's
//     far edge lands on the stage's far edge and the excess hangs off the
//     near side.
//  5. Position is normalized against the full stage dimensions, unclamped.
//
// Rotation always starts at 0.
func (e *Editor) ComputeInitialPlacement(zone *Zone, imgW, imgH int, path, fileName string) *Placement {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.computeInitialPlacementLocked(zone, imgW, imgH, path, fileName)
}

func (e *Editor) computeInitialPlacementLocked(zone *Zone, imgW, imgH int, path, fileName string) *Placement {
	sw, sh := e.stageWidthLocked(), e.stageHeightLocked()
	bounds := geometry.PolygonBounds(zone.Points)

	zoneW := math.Max(bounds.Width*sw, 1)
	zoneH := math.Max(bounds.Height*sh, 1)

	coverScale := math.Max(zoneW/float64(imgW), zoneH/float64(imgH))

	stageScale := e.stageScaleLocked()
	if stageScale < 1e-9 {
		stageScale = 1
	}
	scale := coverScale / stageScale

	scaledW := float64(imgW) * coverScale
	scaledH := float64(imgH) * coverScale
	centerX := (bounds.MinX + bounds.Width/2) * sw
	centerY := (bounds.MinY + bounds.Height/2) * sh
	x := geometry.Clamp(centerX-scaledW/2, 0, sw-scaledW)
	y := geometry.Clamp(centerY-scaledH/2, 0, sh-scaledH)

	return &Placement{
		ZoneID:      zone.ID,
		Path:        path,
		FileName:    fileName,
		ImageWidth:  imgW,
		ImageHeight: imgH,
		Position: geometry.Point2D{
			X: x / math.Max(sw, 1),
			Y: y / math.Max(sh, 1),
		},
		Scale:    scale,
		Rotation: 0,
	}
}

// PlaceImage assigns a photo to the zone, replacing any existing placement
// there. A zone holds at most one placement. The editor takes ownership of
// the asset.
func (e *Editor) PlaceImage(zoneID string, asset *media.Asset) (*Placement, bool) {
	if asset == nil {
		return nil, false
	}

	e.mu.Lock()
	zone := e.zoneLocked(zoneID)
	if zone == nil {
		e.mu.Unlock()
		return nil, false
	}

	p := e.computeInitialPlacementLocked(zone, asset.Width, asset.Height, asset.Path, asset.Name)
	e.placements[zoneID] = p
	e.assets.setZone(zoneID, asset)
	e.modified = true
	e.mu.Unlock()

	e.Emit(EventPlacementsChanged, p)
	e.Emit(EventModified, true)
	return p, true
}

// PlaceOnSelected assigns a photo to the currently selected zone. Dropping
// with nothing selected is a silent no-op; the caller keeps ownership of
// the asset in that case.
func (e *Editor) PlaceOnSelected(asset *media.Asset) (*Placement, bool) {
	id := e.SelectedZone()
	if id == "" {
		return nil, false
	}
	return e.PlaceImage(id, asset)
}

// SetPlacementTransform replaces the transform fields of an existing
// placement. It never creates one: with no placement under the zone id this
// is a strict no-op.
func (e *Editor) SetPlacementTransform(zoneID string, pos geometry.Point2D, scale, rotation float64) bool {
	e.mu.Lock()
	p, ok := e.placements[zoneID]
	if !ok {
		e.mu.Unlock()
		return false
	}
	p.Position = pos
	p.Scale = scale
	p.Rotation = rotation
	e.modified = true
	e.mu.Unlock()

	e.Emit(EventPlacementsChanged, p)
	e.Emit(EventModified, true)
	return true
}

// ResetPlacement reruns the cover fit for a placement against its zone's
// current bounds, discarding all manual adjustment including rotation.
func (e *Editor) ResetPlacement(zoneID string) bool {
	e.mu.Lock()
	p, ok := e.placements[zoneID]
	if !ok {
		e.mu.Unlock()
		return false
	}
	zone := e.zoneLocked(zoneID)
	if zone == nil {
		e.mu.Unlock()
		return false
	}
	fresh := e.computeInitialPlacementLocked(zone, p.ImageWidth, p.ImageHeight, p.Path, p.FileName)
	e.placements[zoneID] = fresh
	e.modified = true
	e.mu.Unlock()

	e.Emit(EventPlacementsChanged, fresh)
	e.Emit(EventModified, true)
	return true
}

// RemovePlacement removes a zone's placement and releases its photo asset.
func (e *Editor) RemovePlacement(zoneID string) bool {
	e.mu.Lock()
	if _, ok := e.placements[zoneID]; !ok {
		e.mu.Unlock()
		return false
	}
	delete(e.placements, zoneID)
	e.assets.releaseZone(zoneID)
	e.modified = true
	e.mu.Unlock()

	e.Emit(EventPlacementsChanged, nil)
	e.Emit(EventModified, true)
	return true
}

// Placement returns the placement for a zone, if any.
func (e *Editor) Placement(zoneID string) (*Placement, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	p, ok := e.placements[zoneID]
	return p, ok
}

// Placements returns all placements in zone draw order.
func (e *Editor) Placements() []*Placement {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*Placement, 0, len(e.placements))
	for _, z := range e.zones {
		if p, ok := e.placements[z.ID]; ok {
			out = append(out, p)
		}
	}
	return out
}

// PlacementCount returns the number of zones holding a placement.
func (e *Editor) PlacementCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.placements)
}

// ZoneAsset returns the photo asset backing a zone's placement, or nil.
func (e *Editor) ZoneAsset(zoneID string) *media.Asset {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.assets.zone(zoneID)
}
