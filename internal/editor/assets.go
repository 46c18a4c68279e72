package editor

import (
	"flyer-studio/internal/logging"
	"flyer-studio/internal/media"
)

// assetRegistry tracks every image asset the editor is responsible for:
// one background slot plus one slot per zone with a placement. Assets are
// released when replaced and on teardown; temp-backed assets delete their
// file on release. Nothing here is garbage collected for us.
type assetRegistry struct {
	background *media.Asset
	byZone     map[string]*media.Asset
}

func newAssetRegistry() *assetRegistry {
	return &assetRegistry{byZone: make(map[string]*media.Asset)}
}

func (r *assetRegistry) setBackground(a *media.Asset) {
	release(r.background)
	r.background = a
}

func (r *assetRegistry) setZone(id string, a *media.Asset) {
	release(r.byZone[id])
	r.byZone[id] = a
}

func (r *assetRegistry) zone(id string) *media.Asset {
	return r.byZone[id]
}

// takeZone removes and returns a zone's asset without releasing it; the
// caller assumes ownership.
func (r *assetRegistry) takeZone(id string) *media.Asset {
	a := r.byZone[id]
	delete(r.byZone, id)
	return a
}

func (r *assetRegistry) releaseZone(id string) {
	release(r.byZone[id])
	delete(r.byZone, id)
}

func (r *assetRegistry) releaseZones() {
	for id := range r.byZone {
		r.releaseZone(id)
	}
}

func (r *assetRegistry) releaseAll() {
	r.releaseZones()
	release(r.background)
	r.background = nil
}

func release(a *media.Asset) {
	if a == nil {
		return
	}
	if err := a.Close(); err != nil {
		logging.Log.WithError(err).WithField("asset", a.Name).Warn("failed to release image asset")
	}
}
