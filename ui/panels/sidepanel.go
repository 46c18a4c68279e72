// Package panels provides UI panels for the application.
package panels

import (
	"fmt"

	"flyer-studio/internal/app"
	"flyer-studio/internal/editor"
	"flyer-studio/internal/media"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// SidePanel provides the main side panel with tabbed sections.
type SidePanel struct {
	container *container.AppTabs

	// Tab content
	zonesPanel   *ZonesPanel
	layoutsPanel *LayoutsPanel
}

// NewSidePanel creates a new side panel.
func NewSidePanel(studio *app.App) *SidePanel {
	sp := &SidePanel{}

	// Create individual panels
	sp.zonesPanel = NewZonesPanel(studio)
	sp.layoutsPanel = NewLayoutsPanel(studio)

	// Create tabbed container
	sp.container = container.NewAppTabs(
		container.NewTabItem("Zones", sp.zonesPanel.Container()),
		container.NewTabItem("Layouts", sp.layoutsPanel.Container()),
	)

	return sp
}

// Container returns the panel container.
func (sp *SidePanel) Container() fyne.CanvasObject {
	return sp.container
}

// SetWindow sets the parent window for dialogs.
func (sp *SidePanel) SetWindow(w fyne.Window) {
	sp.layoutsPanel.SetWindow(w)
}

// SetStatus shows a message in the zones panel status line.
func (sp *SidePanel) SetStatus(msg string) {
	sp.zonesPanel.setStatus(msg)
}

// ZonesPanel lists the traced zones and edits the selected one.
type ZonesPanel struct {
	studio    *app.App
	ed        *editor.Editor
	container fyne.CanvasObject

	// List over a snapshot of the editor's zones. The snapshot keeps the
	// index to id mapping stable between the list callbacks and refreshes
	// whenever the editor reports a zone change.
	list  *widget.List
	zones []*editor.Zone

	drawButton  *widget.Button
	undoButton  *widget.Button
	guidesCheck *widget.Check

	ocrCheck      *widget.Check
	suggestButton *widget.Button

	// Selected zone controls
	nameEntry    *widget.Entry
	readButton   *widget.Button
	photoLabel   *widget.Label
	photoPreview *fynecanvas.Image
	orientButton *widget.Button
	resetButton  *widget.Button
	clearButton  *widget.Button
	removeButton *widget.Button

	statusLabel *widget.Label
}

// NewZonesPanel creates a new zones panel.
func NewZonesPanel(studio *app.App) *ZonesPanel {
	zp := &ZonesPanel{
		studio: studio,
		ed:     studio.Editor,
	}

	// Zone list
	zp.list = widget.NewList(
		func() int {
			return len(zp.zones)
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("Zone")
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id < len(zp.zones) {
				zone := zp.zones[id]
				obj.(*widget.Label).SetText(fmt.Sprintf("%s (%d points)", zone.Name, len(zone.Points)))
			}
		},
	)

	zp.list.OnSelected = func(id widget.ListItemID) {
		if id < len(zp.zones) {
			zp.ed.SelectZone(zp.zones[id].ID)
		}
	}

	// Drawing controls
	zp.drawButton = widget.NewButton("Draw Zone", func() {
		zp.ed.ToggleDrawMode()
	})

	zp.undoButton = widget.NewButton("Undo Remove", func() {
		if _, ok := zp.ed.UndoRemoveZone(); ok {
			zp.setStatus("Zone restored")
		}
	})
	zp.undoButton.Disable()

	zp.guidesCheck = widget.NewCheck("Show Guides", func(checked bool) {
		zp.ed.SetShowGuides(checked)
	})
	zp.guidesCheck.SetChecked(zp.ed.ShowGuides())

	// Suggestions
	zp.ocrCheck = widget.NewCheck("Name zones from flyer text", nil)
	zp.suggestButton = widget.NewButton("Suggest Zones", func() {
		zp.onSuggestZones()
	})

	// Selected zone controls
	zp.nameEntry = widget.NewEntry()
	zp.nameEntry.SetPlaceHolder("Zone name")
	zp.nameEntry.OnSubmitted = func(name string) {
		if id := zp.ed.SelectedZone(); id != "" && name != "" {
			zp.ed.SetZoneName(id, name)
			zp.setStatus("Zone renamed")
		}
	}

	zp.readButton = widget.NewButton("Read Name From Flyer", func() {
		zp.onReadName()
	})

	zp.photoLabel = widget.NewLabel("No photo")
	zp.photoLabel.Wrapping = fyne.TextWrapWord

	// Thumbnail of the placed photo
	zp.photoPreview = fynecanvas.NewImageFromImage(nil)
	zp.photoPreview.FillMode = fynecanvas.ImageFillContain
	zp.photoPreview.SetMinSize(fyne.NewSize(128, 128))

	zp.orientButton = widget.NewButton("Auto-Orient Photo", func() {
		if id := zp.ed.SelectedZone(); id != "" {
			if angle, ok := zp.studio.AutoOrient(id); ok {
				zp.setStatus(fmt.Sprintf("Photo rotated to %.1f°", angle))
			} else {
				zp.setStatus("Place a photo first")
			}
		}
	})

	zp.resetButton = widget.NewButton("Reset Photo", func() {
		if id := zp.ed.SelectedZone(); id != "" && zp.ed.ResetPlacement(id) {
			zp.setStatus("Photo reset to cover fit")
		}
	})

	zp.clearButton = widget.NewButton("Clear Photo", func() {
		if id := zp.ed.SelectedZone(); id != "" && zp.ed.RemovePlacement(id) {
			zp.setStatus("Photo removed")
		}
	})

	zp.removeButton = widget.NewButton("Remove Zone", func() {
		if id := zp.ed.SelectedZone(); id != "" && zp.ed.RemoveZone(id) {
			zp.setStatus("Zone removed")
		}
	})

	zp.statusLabel = widget.NewLabel("")
	zp.statusLabel.Wrapping = fyne.TextWrapWord

	// Layout
	zp.container = container.NewBorder(
		container.NewVBox(
			widget.NewCard("Drawing", "", container.NewVBox(
				zp.drawButton,
				zp.undoButton,
				zp.guidesCheck,
			)),
			widget.NewCard("Suggestions", "", container.NewVBox(
				zp.ocrCheck,
				zp.suggestButton,
			)),
		),
		container.NewVBox(
			widget.NewCard("Selected Zone", "", container.NewVBox(
				zp.nameEntry,
				zp.readButton,
				zp.photoLabel,
				zp.photoPreview,
				zp.orientButton,
				zp.resetButton,
				zp.clearButton,
				zp.removeButton,
			)),
			zp.statusLabel,
		),
		nil, nil,
		zp.list,
	)

	ed := zp.ed
	ed.On(editor.EventFlyerChanged, func(data interface{}) {
		zp.refreshZones()
		zp.syncSelection()
	})
	ed.On(editor.EventZonesChanged, func(data interface{}) {
		zp.refreshZones()
	})
	ed.On(editor.EventSelectionChanged, func(data interface{}) {
		zp.syncSelection()
	})
	ed.On(editor.EventModeChanged, func(data interface{}) {
		zp.syncDrawButton()
	})
	ed.On(editor.EventGuidesChanged, func(data interface{}) {
		zp.syncGuides()
	})
	ed.On(editor.EventPlacementsChanged, func(data interface{}) {
		zp.syncPhotoInfo()
	})

	zp.refreshZones()
	return zp
}

// Container returns the panel container.
func (zp *ZonesPanel) Container() fyne.CanvasObject {
	return zp.container
}

func (zp *ZonesPanel) setStatus(msg string) {
	zp.statusLabel.SetText(msg)
}

func (zp *ZonesPanel) refreshZones() {
	zp.zones = zp.ed.Zones()
	zp.list.Refresh()
	if zp.ed.CanUndoRemove() {
		zp.undoButton.Enable()
	} else {
		zp.undoButton.Disable()
	}
}

func (zp *ZonesPanel) syncSelection() {
	selected := zp.ed.SelectedZone()
	if selected == "" {
		zp.list.UnselectAll()
		zp.nameEntry.SetText("")
		zp.syncPhotoInfo()
		return
	}
	for i, zone := range zp.zones {
		if zone.ID == selected {
			zp.list.Select(i)
			zp.nameEntry.SetText(zone.Name)
			break
		}
	}
	zp.syncPhotoInfo()
}

func (zp *ZonesPanel) syncDrawButton() {
	if zp.ed.DrawMode() == editor.ModeIdle {
		zp.drawButton.SetText("Draw Zone")
	} else {
		zp.drawButton.SetText("Stop Drawing")
		zp.setStatus("Drag on the flyer to trace a zone outline")
	}
}

func (zp *ZonesPanel) syncGuides() {
	zp.guidesCheck.SetChecked(zp.ed.ShowGuides())
}

func (zp *ZonesPanel) syncPhotoInfo() {
	id := zp.ed.SelectedZone()
	if id == "" {
		zp.showNoPhoto()
		return
	}
	p, ok := zp.ed.Placement(id)
	if !ok {
		zp.showNoPhoto()
		return
	}
	zp.photoLabel.SetText(fmt.Sprintf("%s (%d×%d)\nScale %.2f, rotation %.1f°",
		p.FileName, p.ImageWidth, p.ImageHeight, p.Scale, p.Rotation))
	if asset := zp.ed.ZoneAsset(id); asset != nil {
		zp.photoPreview.Image = media.Thumbnail(asset.Image, 128)
	} else {
		zp.photoPreview.Image = nil
	}
	zp.photoPreview.Refresh()
}

func (zp *ZonesPanel) showNoPhoto() {
	zp.photoLabel.SetText("No photo")
	zp.photoPreview.Image = nil
	zp.photoPreview.Refresh()
}

func (zp *ZonesPanel) onReadName() {
	id := zp.ed.SelectedZone()
	if id == "" {
		zp.setStatus("Select a zone first")
		return
	}

	zp.setStatus("Reading flyer text...")
	zp.readButton.Disable()

	// OCR runs in a goroutine to keep the UI responsive
	go func() {
		name, err := zp.studio.NameZoneFromFlyer(id)
		zp.readButton.Enable()
		if err != nil {
			zp.setStatus(fmt.Sprintf("Could not read a name: %v", err))
			return
		}
		zp.setStatus(fmt.Sprintf("Zone renamed to %q", name))
	}()
}

func (zp *ZonesPanel) onSuggestZones() {
	if !zp.ed.HasFlyer() {
		zp.setStatus("Open a flyer first")
		return
	}

	zp.setStatus("Detecting zones...")
	zp.suggestButton.Disable()

	go func() {
		added, err := zp.studio.SuggestZones(zp.ocrCheck.Checked)
		zp.suggestButton.Enable()
		if err != nil {
			zp.setStatus(fmt.Sprintf("Zone detection failed: %v", err))
			return
		}
		if added == 0 {
			zp.setStatus("No zone candidates found")
			return
		}
		zp.setStatus(fmt.Sprintf("Added %d suggested zones", added))
	}()
}
