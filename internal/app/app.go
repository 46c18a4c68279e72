// Package app wires the editor core to its collaborators: the layout
// store, image loading, zone suggestion, OCR naming, and export encoding.
// The GUI and the CLI both drive the application through this package.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"flyer-studio/internal/compose"
	"flyer-studio/internal/editor"
	"flyer-studio/internal/fit"
	"flyer-studio/internal/layout"
	"flyer-studio/internal/logging"
	"flyer-studio/internal/media"
	"flyer-studio/internal/ocr"
	"flyer-studio/internal/store"
	"flyer-studio/internal/suggest"
	"flyer-studio/pkg/geometry"
)

// Config carries startup options.
type Config struct {
	// StorePath is the sqlite database holding saved layouts.
	StorePath string
	// OCRLanguage is the Tesseract language used for zone naming. Empty
	// means English.
	OCRLanguage string
}

// App owns an editor session and the services around it.
type App struct {
	Editor *editor.Editor
	Store  *store.Store

	ocrLang string
	ocrOnce sync.Once
	ocrEng  *ocr.Engine
	ocrErr  error
}

// New opens the layout store and creates an empty editor session.
func New(cfg Config) (*App, error) {
	st, err := store.Open(cfg.StorePath)
	if err != nil {
		return nil, fmt.Errorf("open layout store: %w", err)
	}
	return &App{Editor: editor.New(), Store: st, ocrLang: cfg.OCRLanguage}, nil
}

// Close releases the editor's assets, the OCR engine, and the store.
func (a *App) Close() {
	a.Editor.Close()
	if a.ocrEng != nil {
		if err := a.ocrEng.Close(); err != nil {
			logging.Log.WithError(err).Warn("failed to close OCR engine")
		}
	}
	if err := a.Store.Close(); err != nil {
		logging.Log.WithError(err).Warn("failed to close layout store")
	}
}

// OpenFlyerFile loads an image file as the background flyer, resetting the
// session.
func (a *App) OpenFlyerFile(path string) error {
	asset, err := media.Open(path)
	if err != nil {
		return err
	}
	a.Editor.SetFlyerImage(asset)
	logging.Log.WithField("file", asset.Name).Info("flyer loaded")
	return nil
}

// OpenFlyerURL downloads an image and loads it as the flyer. The download
// runs under a load generation: if another flyer load starts while this one
// is in flight, the late result is discarded instead of clobbering it.
func (a *App) OpenFlyerURL(rawURL string) error {
	gen := a.Editor.NextLoadGeneration()
	asset, err := media.FromURL(rawURL)
	if err != nil {
		return err
	}
	if !a.Editor.LoadCurrent(gen) {
		asset.Close()
		logging.Log.WithField("url", rawURL).Debug("stale flyer download discarded")
		return nil
	}
	a.Editor.SetFlyerImage(asset)
	logging.Log.WithField("file", asset.Name).Info("flyer loaded from URL")
	return nil
}

// PlacePhotoFile assigns an image file to the currently selected zone.
func (a *App) PlacePhotoFile(path string) error {
	asset, err := media.Open(path)
	if err != nil {
		return err
	}
	if _, ok := a.Editor.PlaceOnSelected(asset); !ok {
		asset.Close()
		return errors.New("select a zone before placing a photo")
	}
	return nil
}

// AutoOrient rotates a zone's placement to follow the zone's long axis.
// The zone outline is lifted into flyer natural pixels first; normalized
// coordinates would skew the axis on non-square flyers. Position and scale
// are left alone. Returns the applied angle in degrees.
func (a *App) AutoOrient(zoneID string) (float64, bool) {
	e := a.Editor
	flyer := e.Flyer()
	if flyer == nil {
		return 0, false
	}
	zone, ok := e.Zone(zoneID)
	if !ok {
		return 0, false
	}
	p, ok := e.Placement(zoneID)
	if !ok {
		return 0, false
	}

	pts := make([]geometry.Point2D, len(zone.Points))
	for i, pt := range zone.Points {
		pts[i] = geometry.Point2D{
			X: pt.X * float64(flyer.Width),
			Y: pt.Y * float64(flyer.Height),
		}
	}
	angle := fit.DominantAngle(pts)
	e.SetPlacementTransform(zoneID, p.Position, p.Scale, angle)
	return angle, true
}

// SuggestZones detects panel outlines on the flyer and adds each as a zone.
// With nameWithOCR set, every added zone is also renamed after the text
// found inside it; zones with no readable text keep their sequence name.
// Returns how many zones were added.
func (a *App) SuggestZones(nameWithOCR bool) (int, error) {
	flyer := a.Editor.Flyer()
	if flyer == nil {
		return 0, errors.New("no flyer loaded")
	}

	candidates, err := suggest.DetectZones(flyer.Image)
	if err != nil {
		return 0, fmt.Errorf("zone detection: %w", err)
	}

	added := 0
	for _, c := range candidates {
		zone, ok := a.Editor.AddZone(c.Points)
		if !ok {
			continue
		}
		added++
		if nameWithOCR {
			if name, err := a.readZoneName(zone); err == nil {
				a.Editor.SetZoneName(zone.ID, name)
			}
		}
	}
	logging.Log.WithField("zones", added).Info("zone suggestion complete")
	return added, nil
}

// NameZoneFromFlyer reads the flyer text under a zone and renames the zone
// after it.
func (a *App) NameZoneFromFlyer(zoneID string) (string, error) {
	zone, ok := a.Editor.Zone(zoneID)
	if !ok {
		return "", errors.New("no such zone")
	}
	name, err := a.readZoneName(zone)
	if err != nil {
		return "", err
	}
	a.Editor.SetZoneName(zone.ID, name)
	return name, nil
}

func (a *App) readZoneName(zone *editor.Zone) (string, error) {
	flyer := a.Editor.Flyer()
	if flyer == nil {
		return "", errors.New("no flyer loaded")
	}
	eng, err := a.engine()
	if err != nil {
		return "", err
	}

	b := geometry.PolygonBounds(zone.Points)
	region := geometry.RectInt{
		X:      int(b.MinX * float64(flyer.Width)),
		Y:      int(b.MinY * float64(flyer.Height)),
		Width:  int(b.Width*float64(flyer.Width)) + 1,
		Height: int(b.Height*float64(flyer.Height)) + 1,
	}
	raw, err := eng.ReadRegion(flyer.Image, region)
	if err != nil {
		return "", err
	}
	name, ok := ocr.CleanZoneName(raw)
	if !ok {
		return "", errors.New("no readable text in zone")
	}
	return name, nil
}

// engine initializes the OCR engine on first use. Tesseract startup is slow
// enough to keep off the launch path.
func (a *App) engine() (*ocr.Engine, error) {
	a.ocrOnce.Do(func() {
		a.ocrEng, a.ocrErr = ocr.NewEngine(a.ocrLang)
	})
	return a.ocrEng, a.ocrErr
}

// SaveLayout captures the session and writes it to the store, flyer image
// included. The flyer bytes are re-read from the backing file so the stored
// copy keeps the original encoding. An empty name keeps the layout's
// current name. Returns the layout id.
func (a *App) SaveLayout(ctx context.Context, name string) (string, error) {
	e := a.Editor
	if !e.BeginPersist() {
		return "", errors.New("a save or load is already running")
	}
	defer e.EndPersist()

	flyer := e.Flyer()
	if flyer == nil {
		return "", errors.New("no flyer loaded")
	}

	doc := layout.Capture(e)
	if name != "" {
		doc.Name = name
	}
	if doc.Name == "" {
		doc.Name = "Untitled layout"
	}

	flyerBytes, err := os.ReadFile(flyer.Path)
	if err != nil {
		return "", fmt.Errorf("read flyer for save: %w", err)
	}

	id, err := a.Store.Save(ctx, doc, flyerBytes)
	if err != nil {
		return "", err
	}

	e.SetLayoutMeta(id, doc.Name)
	e.SetModified(false)
	e.Emit(editor.EventLayoutSaved, id)
	logging.Log.WithField("layout", id).Info("layout saved")
	return id, nil
}

// LoadLayout replaces the session with a stored layout. The flyer is
// decoded from the stored bytes; placement photos are reopened from their
// recorded paths and silently skipped when missing. Runs under a load
// generation like OpenFlyerURL.
func (a *App) LoadLayout(ctx context.Context, id string) error {
	e := a.Editor
	if !e.BeginPersist() {
		return errors.New("a save or load is already running")
	}

	gen := e.NextLoadGeneration()
	doc, flyerBytes, err := a.Store.Load(ctx, id)
	if err != nil {
		e.EndPersist()
		return err
	}

	name := doc.Flyer.FileName
	if name == "" {
		name = "flyer"
	}
	background, err := media.FromBytes(name, flyerBytes)
	if err != nil {
		e.EndPersist()
		return fmt.Errorf("decode stored flyer: %w", err)
	}
	photos := layout.ReopenPhotos(doc)

	// EndPersist before Apply: RestoreLayout emits events and listeners may
	// immediately query the persist flag.
	e.EndPersist()

	if !e.LoadCurrent(gen) {
		background.Close()
		for _, p := range photos {
			p.Close()
		}
		logging.Log.WithField("layout", id).Debug("stale layout load discarded")
		return nil
	}

	layout.Apply(e, doc, background, photos)
	logging.Log.WithField("layout", id).Info("layout loaded")
	return nil
}

// Layouts lists the stored layouts, newest first.
func (a *App) Layouts(ctx context.Context) ([]store.Summary, error) {
	return a.Store.List(ctx)
}

// DeleteLayout removes a stored layout. The open session is untouched even
// if it was loaded from that layout.
func (a *App) DeleteLayout(ctx context.Context, id string) error {
	return a.Store.Delete(ctx, id)
}

// ExportImage renders the stage at the flyer's native resolution and
// encodes it to path; the format follows the file extension. Guides are
// hidden for the capture and restored after. The yield callback runs after
// each guide flip so an interactive host can repaint between the visible
// state changes; pass nil when headless.
func (a *App) ExportImage(path string, yield func()) error {
	e := a.Editor
	if !e.BeginExport() {
		return errors.New("cannot export: busy, no flyer, or stage not measured")
	}
	defer e.EndExport()

	guides := e.ShowGuides()
	e.SetShowGuides(false)
	if yield != nil {
		yield()
	}

	img := compose.Render(compose.BuildScene(e), e.ExportPixelRatio())
	err := compose.Encode(img, path)

	e.SetShowGuides(guides)
	if yield != nil {
		yield()
	}

	if err != nil {
		return err
	}
	logging.Log.WithField("file", path).Info("image exported")
	return nil
}
