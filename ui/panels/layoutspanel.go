package panels

import (
	"context"
	"fmt"

	"flyer-studio/internal/app"
	"flyer-studio/internal/editor"
	"flyer-studio/internal/store"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// LayoutsPanel lists the stored layouts and saves, loads, and deletes them.
type LayoutsPanel struct {
	studio    *app.App
	container fyne.CanvasObject
	window    fyne.Window

	list        *widget.List
	summaries   []store.Summary
	selectedIdx int // Currently selected layout index, -1 if none

	nameEntry    *widget.Entry
	saveButton   *widget.Button
	loadButton   *widget.Button
	deleteButton *widget.Button
	detailLabel  *widget.Label
	statusLabel  *widget.Label
}

// NewLayoutsPanel creates a new layouts panel.
func NewLayoutsPanel(studio *app.App) *LayoutsPanel {
	lp := &LayoutsPanel{
		studio:      studio,
		selectedIdx: -1,
	}

	// Layout list
	lp.list = widget.NewList(
		func() int {
			return len(lp.summaries)
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("Layout")
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id < len(lp.summaries) {
				s := lp.summaries[id]
				obj.(*widget.Label).SetText(fmt.Sprintf("%s (%s)", s.Name, s.UpdatedAt.Format("Jan 2 15:04")))
			}
		},
	)

	lp.list.OnSelected = func(id widget.ListItemID) {
		lp.selectedIdx = id
		lp.showDetail()
	}

	// Save controls
	lp.nameEntry = widget.NewEntry()
	lp.nameEntry.SetPlaceHolder("Layout name")

	lp.saveButton = widget.NewButton("Save Layout", func() {
		lp.onSave()
	})

	lp.loadButton = widget.NewButton("Load Selected", func() {
		lp.onLoad()
	})

	lp.deleteButton = widget.NewButton("Delete Selected", func() {
		lp.onDelete()
	})

	lp.detailLabel = widget.NewLabel("")
	lp.detailLabel.Wrapping = fyne.TextWrapWord

	lp.statusLabel = widget.NewLabel("")
	lp.statusLabel.Wrapping = fyne.TextWrapWord

	// Layout
	lp.container = container.NewBorder(
		widget.NewCard("Save", "", container.NewVBox(
			lp.nameEntry,
			lp.saveButton,
		)),
		container.NewVBox(
			lp.detailLabel,
			lp.loadButton,
			lp.deleteButton,
			lp.statusLabel,
		),
		nil, nil,
		lp.list,
	)

	studio.Editor.On(editor.EventLayoutSaved, func(data interface{}) {
		lp.Refresh()
	})

	lp.Refresh()
	return lp
}

// Container returns the panel container.
func (lp *LayoutsPanel) Container() fyne.CanvasObject {
	return lp.container
}

// SetWindow sets the parent window for dialogs.
func (lp *LayoutsPanel) SetWindow(w fyne.Window) {
	lp.window = w
}

// Refresh reloads the layout list from the store.
func (lp *LayoutsPanel) Refresh() {
	go func() {
		summaries, err := lp.studio.Layouts(context.Background())
		if err != nil {
			lp.statusLabel.SetText(fmt.Sprintf("Could not list layouts: %v", err))
			return
		}
		lp.summaries = summaries
		lp.selectedIdx = -1
		lp.list.UnselectAll()
		lp.list.Refresh()
		lp.showDetail()
	}()
}

func (lp *LayoutsPanel) showDetail() {
	if lp.selectedIdx < 0 || lp.selectedIdx >= len(lp.summaries) {
		lp.detailLabel.SetText("")
		return
	}
	s := lp.summaries[lp.selectedIdx]
	detail := fmt.Sprintf("%s, %d×%d", s.FlyerFileName, s.FlyerWidth, s.FlyerHeight)
	if s.HasPlacements {
		detail += ", with photos"
	}
	lp.detailLabel.SetText(detail)
}

func (lp *LayoutsPanel) onSave() {
	if !lp.studio.Editor.HasFlyer() {
		lp.statusLabel.SetText("Open a flyer first")
		return
	}

	name := lp.nameEntry.Text
	lp.statusLabel.SetText("Saving...")
	lp.saveButton.Disable()

	go func() {
		_, err := lp.studio.SaveLayout(context.Background(), name)
		lp.saveButton.Enable()
		if err != nil {
			lp.statusLabel.SetText(fmt.Sprintf("Save failed: %v", err))
			return
		}
		lp.statusLabel.SetText("Layout saved")
	}()
}

func (lp *LayoutsPanel) onLoad() {
	if lp.selectedIdx < 0 || lp.selectedIdx >= len(lp.summaries) {
		lp.statusLabel.SetText("Select a layout first")
		return
	}
	s := lp.summaries[lp.selectedIdx]

	lp.statusLabel.SetText(fmt.Sprintf("Loading %q...", s.Name))
	lp.loadButton.Disable()

	go func() {
		err := lp.studio.LoadLayout(context.Background(), s.ID)
		lp.loadButton.Enable()
		if err != nil {
			lp.statusLabel.SetText(fmt.Sprintf("Load failed: %v", err))
			return
		}
		lp.statusLabel.SetText(fmt.Sprintf("Loaded %q", s.Name))
	}()
}

func (lp *LayoutsPanel) onDelete() {
	if lp.selectedIdx < 0 || lp.selectedIdx >= len(lp.summaries) {
		lp.statusLabel.SetText("Select a layout first")
		return
	}
	s := lp.summaries[lp.selectedIdx]

	dialog.ShowConfirm("Delete Layout",
		fmt.Sprintf("Delete %q? This cannot be undone.", s.Name),
		func(ok bool) {
			if !ok {
				return
			}
			go func() {
				if err := lp.studio.DeleteLayout(context.Background(), s.ID); err != nil {
					lp.statusLabel.SetText(fmt.Sprintf("Delete failed: %v", err))
					return
				}
				lp.statusLabel.SetText(fmt.Sprintf("Deleted %q", s.Name))
				lp.Refresh()
			}()
		},
		lp.window)
}
