// Package canvas provides the interactive stage widget: the flyer with its
// zones and placed photos, plus the tracing and transform gestures.
package canvas

import (
	"image"
	"image/color"
	"image/draw"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"flyer-studio/internal/compose"
	"flyer-studio/internal/editor"
)

var backdropColor = color.NRGBA{R: 0x1E, G: 0x1E, B: 0x1E, A: 0xFF}

// StageCanvas renders the editor's stage through the shared compose
// pipeline and feeds pointer gestures back into it. The stage width always
// follows the widget width; height is derived from the flyer's aspect
// ratio, with vertical scrolling when the stage outgrows the viewport.
type StageCanvas struct {
	widget.BaseWidget

	ed      *editor.Editor
	raster  *fynecanvas.Raster
	scroll  *container.Scroll
	content *stageContent

	gesture gestureState

	onStatus func(msg string)
}

// NewStage creates the stage widget for an editor session.
func NewStage(ed *editor.Editor) *StageCanvas {
	sc := &StageCanvas{ed: ed}

	sc.raster = fynecanvas.NewRaster(sc.draw)
	sc.raster.ScaleMode = fynecanvas.ImageScalePixels

	sc.content = newStageContent(sc, sc.raster)
	sc.scroll = container.NewScroll(sc.content)
	sc.scroll.Direction = container.ScrollVerticalOnly

	sc.ExtendBaseWidget(sc)

	for _, ev := range []editor.EventType{
		editor.EventFlyerChanged,
		editor.EventStageResized,
	} {
		ed.On(ev, func(interface{}) { sc.updateContentSize() })
	}
	for _, ev := range []editor.EventType{
		editor.EventZonesChanged,
		editor.EventPlacementsChanged,
		editor.EventSelectionChanged,
		editor.EventModeChanged,
		editor.EventGuidesChanged,
	} {
		ed.On(ev, func(interface{}) { sc.Refresh() })
	}
	return sc
}

// SetOnStatus registers a callback for short gesture status messages.
func (sc *StageCanvas) SetOnStatus(fn func(msg string)) {
	sc.onStatus = fn
}

func (sc *StageCanvas) status(msg string) {
	if sc.onStatus != nil {
		sc.onStatus(msg)
	}
}

// Refresh redraws the stage raster.
func (sc *StageCanvas) Refresh() {
	sc.raster.Refresh()
}

// updateContentSize resizes the scroll content to the current stage size so
// the scrollbar tracks the derived stage height.
func (sc *StageCanvas) updateContentSize() {
	w, h := sc.ed.StageSize()
	size := fyne.NewSize(float32(w), float32(h))
	sc.raster.SetMinSize(size)
	sc.raster.Resize(size)
	sc.content.Resize(size)
	sc.content.Refresh()
	sc.scroll.Refresh()
}

// draw is the raster drawing function. It renders the shared scene at
// ratio 1, then adds the canvas-only adornments: zone name labels and the
// transform handles of the selected placement. Exports never come through
// here, so the adornments can never leak into an exported file.
func (sc *StageCanvas) draw(w, h int) image.Image {
	full := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(full, full.Bounds(), image.NewUniform(backdropColor), image.Point{}, draw.Src)

	if !sc.ed.HasFlyer() || !sc.ed.StageMeasured() {
		drawLabel(full, "DROP A FLYER HERE", w/2, h/2, color.NRGBA{R: 0x9E, G: 0x9E, B: 0x9E, A: 0xFF}, 2)
		return full
	}

	scene := compose.BuildScene(sc.ed)
	stage := compose.Render(scene, 1)
	draw.Draw(full, stage.Bounds(), stage, image.Point{}, draw.Src)

	if scene.ShowGuides {
		drawZoneLabels(full, scene)
	}
	if !sc.ed.Exporting() {
		sc.drawSelectedHandles(full)
	}
	return full
}

// Container returns the scrollable stage for embedding in the window.
func (sc *StageCanvas) Container() fyne.CanvasObject {
	return sc.scroll
}

// CreateRenderer implements fyne.Widget.
func (sc *StageCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &stageRenderer{canvas: sc}
}

type stageRenderer struct {
	canvas *StageCanvas
}

// Layout gives the scroll the full widget area and feeds the width into the
// editor; everything downstream of stage geometry reacts to the resize
// event that emits.
func (r *stageRenderer) Layout(size fyne.Size) {
	r.canvas.scroll.Resize(size)
	if size.Width > 0 {
		r.canvas.ed.SetContainerWidth(float64(size.Width))
	}
}

func (r *stageRenderer) MinSize() fyne.Size {
	return fyne.NewSize(320, 240)
}

func (r *stageRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *stageRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.scroll}
}

func (r *stageRenderer) Destroy() {}

// stageContent wraps the raster to receive pointer events inside the
// scroll.
type stageContent struct {
	widget.BaseWidget
	canvas *StageCanvas
	raster *fynecanvas.Raster
}

func newStageContent(sc *StageCanvas, raster *fynecanvas.Raster) *stageContent {
	c := &stageContent{canvas: sc, raster: raster}
	c.ExtendBaseWidget(c)
	return c
}

func (c *stageContent) CreateRenderer() fyne.WidgetRenderer {
	return &stageContentRenderer{content: c}
}

func (c *stageContent) MinSize() fyne.Size {
	return c.raster.MinSize()
}

func (c *stageContent) Tapped(ev *fyne.PointEvent) {
	// Reject positions outside the widget; stale events can arrive with
	// out-of-range coordinates after a layout change.
	size := c.Size()
	if ev.Position.X < 0 || ev.Position.Y < 0 ||
		ev.Position.X > size.Width || ev.Position.Y > size.Height {
		return
	}
	c.canvas.tapped(c.canvas.stagePoint(ev.Position))
}

func (c *stageContent) Dragged(ev *fyne.DragEvent) {
	c.canvas.dragged(c.canvas.stagePoint(ev.Position))
}

func (c *stageContent) DragEnd() {
	c.canvas.dragEnded()
}

type stageContentRenderer struct {
	content *stageContent
}

func (r *stageContentRenderer) Layout(size fyne.Size) {
	r.content.raster.Resize(size)
}

func (r *stageContentRenderer) MinSize() fyne.Size {
	return r.content.raster.MinSize()
}

func (r *stageContentRenderer) Refresh() {
	r.content.raster.Refresh()
}

func (r *stageContentRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.content.raster}
}

func (r *stageContentRenderer) Destroy() {}
