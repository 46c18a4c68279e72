// Package mainwindow provides the main application window.
package mainwindow

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"flyer-studio/internal/app"
	"flyer-studio/internal/compose"
	"flyer-studio/internal/editor"
	"flyer-studio/internal/logging"
	"flyer-studio/internal/media"
	"flyer-studio/internal/version"
	"flyer-studio/ui/canvas"
	"flyer-studio/ui/panels"
	"flyer-studio/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

const windowTitle = "Flyer Studio"

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app       fyne.App
	studio    *app.App
	prefs     *prefs.Prefs
	stage     *canvas.StageCanvas
	sidePanel *panels.SidePanel
	statusBar *widget.Label
	split     *container.Split

	// Menu items that need state tracking
	drawItem   *fyne.MenuItem
	guidesItem *fyne.MenuItem

	// Watches the flyer's backing file for outside edits
	watcher *media.Watcher
}

// New creates a new main window.
func New(fyneApp fyne.App, studio *app.App, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow(windowTitle)

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		studio: studio,
		prefs:  p,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.setupKeyboard()
	mw.setupDrops()

	w := p.Float(prefs.KeyWindowWidth, 1280)
	h := p.Float(prefs.KeyWindowHeight, 800)
	mw.Resize(fyne.NewSize(float32(w), float32(h)))
	studio.Editor.SetShowGuides(p.Bool(prefs.KeyShowGuides, true))

	mw.SetCloseIntercept(func() {
		mw.SavePreferences()
		if mw.watcher != nil {
			mw.watcher.Stop()
		}
		mw.Close()
	})

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	// Create the stage canvas
	mw.stage = canvas.NewStage(mw.studio.Editor)
	mw.stage.SetOnStatus(func(msg string) {
		mw.updateStatus(msg)
	})

	// Create the side panel with tabs
	mw.sidePanel = panels.NewSidePanel(mw.studio)
	mw.sidePanel.SetWindow(mw.Window)

	// Create status bar
	mw.statusBar = widget.NewLabel("Ready")

	// Create main layout: side panel | stage
	mw.split = container.NewHSplit(
		mw.sidePanel.Container(),
		mw.stage.Container(),
	)
	mw.split.SetOffset(mw.prefs.Float(prefs.KeySplitOffset, 0.28))

	// Main container with status bar at bottom
	content := container.NewBorder(
		nil,
		container.NewPadded(mw.statusBar),
		nil,
		nil,
		mw.split,
	)

	mw.SetContent(content)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	// File menu
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Flyer...", mw.onOpenFlyer),
		fyne.NewMenuItem("Open Flyer From URL...", mw.onOpenFlyerURL),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Add Photo to Selected Zone...", mw.onAddPhoto),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Layout", mw.onSaveLayout),
		fyne.NewMenuItem("Save Layout As...", mw.onSaveLayoutAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Image...", mw.onExportImage),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	// Edit menu
	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo Remove Zone", mw.onUndoRemove),
		fyne.NewMenuItem("Remove Selected Zone", mw.onRemoveZone),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Cancel Drawing", mw.onCancelDrawing),
	)

	// View menu
	mw.drawItem = fyne.NewMenuItem("  Draw Zone", mw.onToggleDraw)
	mw.guidesItem = fyne.NewMenuItem("✓ Show Guides", mw.onToggleGuides)

	viewMenu := fyne.NewMenu("View",
		mw.drawItem,
		mw.guidesItem,
	)

	// Help menu
	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mainMenu := fyne.NewMainMenu(fileMenu, editMenu, viewMenu, helpMenu)
	mw.SetMainMenu(mainMenu)
}

// setupEventHandlers registers for editor events.
func (mw *MainWindow) setupEventHandlers() {
	ed := mw.studio.Editor

	ed.On(editor.EventFlyerChanged, func(data interface{}) {
		mw.updateTitle()
		if flyer := ed.Flyer(); flyer != nil {
			mw.updateStatus(fmt.Sprintf("Flyer loaded: %s (%d×%d)", flyer.Name, flyer.Width, flyer.Height))
		}
		mw.watchFlyer()
	})

	ed.On(editor.EventModified, func(data interface{}) {
		mw.updateTitle()
	})

	ed.On(editor.EventLayoutSaved, func(data interface{}) {
		mw.updateTitle()
		mw.updateStatus("Layout saved")
	})

	ed.On(editor.EventLayoutLoaded, func(data interface{}) {
		mw.updateTitle()
		mw.updateStatus(fmt.Sprintf("Layout loaded: %s", ed.LayoutName()))
	})

	ed.On(editor.EventModeChanged, func(data interface{}) {
		if ed.DrawMode() == editor.ModeIdle {
			mw.drawItem.Label = "  Draw Zone"
		} else {
			mw.drawItem.Label = "✓ Draw Zone"
		}
	})

	ed.On(editor.EventGuidesChanged, func(data interface{}) {
		if ed.ShowGuides() {
			mw.guidesItem.Label = "✓ Show Guides"
		} else {
			mw.guidesItem.Label = "  Show Guides"
		}
	})
}

// setupKeyboard registers window level key handling.
func (mw *MainWindow) setupKeyboard() {
	mw.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		ed := mw.studio.Editor
		switch ev.Name {
		case fyne.KeyEscape:
			ed.CancelDrawing()
		case fyne.KeyDelete, fyne.KeyBackspace:
			if id := ed.SelectedZone(); id != "" {
				ed.RemoveZone(id)
			}
		}
	})
}

// setupDrops accepts files dropped onto the window. The first drop becomes
// the flyer; with a zone selected a drop places the photo there.
func (mw *MainWindow) setupDrops() {
	mw.SetOnDropped(func(pos fyne.Position, uris []fyne.URI) {
		if len(uris) == 0 {
			return
		}
		path := uris[0].Path()
		if !media.IsSupportedFormat(path) {
			mw.updateStatus(fmt.Sprintf("Unsupported image format: %s", filepath.Base(path)))
			return
		}

		ed := mw.studio.Editor
		if !ed.HasFlyer() {
			mw.openFlyerPath(path)
			return
		}
		if ed.SelectedZone() != "" {
			if err := mw.studio.PlacePhotoFile(path); err != nil {
				dialog.ShowError(err, mw.Window)
			}
			return
		}

		dialog.ShowConfirm("Replace Flyer",
			"Open the dropped image as a new flyer? Current zones and photos will be cleared.",
			func(ok bool) {
				if ok {
					mw.openFlyerPath(path)
				}
			},
			mw.Window)
	})
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// updateTitle rebuilds the window title from the session state.
func (mw *MainWindow) updateTitle() {
	ed := mw.studio.Editor
	title := windowTitle
	if name := ed.LayoutName(); name != "" {
		title += " - " + name
	} else if flyer := ed.Flyer(); flyer != nil {
		title += " - " + flyer.Name
	}
	if ed.Modified() {
		title += " *"
	}
	mw.SetTitle(title)
}

// watchFlyer rearms the file watcher on the current flyer. Flyers backed by
// a temporary file (URL downloads, stored layouts) are not watched.
func (mw *MainWindow) watchFlyer() {
	if mw.watcher != nil {
		mw.watcher.Stop()
		mw.watcher = nil
	}

	flyer := mw.studio.Editor.Flyer()
	if flyer == nil || flyer.Temp() {
		return
	}

	path := flyer.Path
	w, err := media.WatchFile(path, func() {
		dialog.ShowConfirm("Flyer Changed",
			"The flyer file changed on disk. Reload it? Current zones and photos will be cleared.",
			func(ok bool) {
				if ok {
					mw.openFlyerPath(path)
				}
			},
			mw.Window)
	})
	if err != nil {
		logging.Log.WithError(err).WithField("file", path).Warn("flyer watch failed")
		return
	}
	mw.watcher = w
}

// getLastDir returns the directory stored under the pref key as a
// ListableURI, or nil.
func (mw *MainWindow) getLastDir(key string) fyne.ListableURI {
	path := mw.prefs.String(key, "")
	if path == "" {
		return nil
	}
	uri := storage.NewFileURI(path)
	listable, err := storage.ListerForURI(uri)
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(key, filePath string) {
	mw.prefs.SetString(key, filepath.Dir(filePath))
}

// SavePreferences records window geometry and the split position.
func (mw *MainWindow) SavePreferences() {
	size := mw.Canvas().Size()
	mw.prefs.SetFloat(prefs.KeyWindowWidth, float64(size.Width))
	mw.prefs.SetFloat(prefs.KeyWindowHeight, float64(size.Height))
	mw.prefs.SetFloat(prefs.KeySplitOffset, mw.split.Offset)
	mw.prefs.SetBool(prefs.KeyShowGuides, mw.studio.Editor.ShowGuides())
	if err := mw.prefs.Save(); err != nil {
		logging.Log.WithError(err).Warn("failed to save preferences")
	}
}

// Menu action handlers

func (mw *MainWindow) openFlyerPath(path string) {
	mw.saveLastDir(prefs.KeyLastFlyerDir, path)
	if err := mw.studio.OpenFlyerFile(path); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onOpenFlyer() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		mw.openFlyerPath(reader.URI().Path())
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(media.FileFilter()))
	if loc := mw.getLastDir(prefs.KeyLastFlyerDir); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onOpenFlyerURL() {
	urlEntry := widget.NewEntry()
	urlEntry.SetPlaceHolder("https://example.com/flyer.jpg")

	dialog.ShowForm("Open Flyer From URL", "Open", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("URL", urlEntry)},
		func(ok bool) {
			if !ok || urlEntry.Text == "" {
				return
			}
			mw.updateStatus("Downloading flyer...")
			go func() {
				if err := mw.studio.OpenFlyerURL(urlEntry.Text); err != nil {
					mw.updateStatus(fmt.Sprintf("Download failed: %v", err))
				}
			}()
		},
		mw.Window)
}

func (mw *MainWindow) onAddPhoto() {
	if mw.studio.Editor.SelectedZone() == "" {
		mw.updateStatus("Select a zone first")
		return
	}

	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(prefs.KeyLastPhotoDir, path)
		if err := mw.studio.PlacePhotoFile(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(media.FileFilter()))
	if loc := mw.getLastDir(prefs.KeyLastPhotoDir); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onSaveLayout() {
	if !mw.studio.Editor.HasFlyer() {
		mw.updateStatus("Open a flyer first")
		return
	}
	mw.updateStatus("Saving layout...")
	go func() {
		if _, err := mw.studio.SaveLayout(context.Background(), ""); err != nil {
			mw.updateStatus(fmt.Sprintf("Save failed: %v", err))
		}
	}()
}

func (mw *MainWindow) onSaveLayoutAs() {
	if !mw.studio.Editor.HasFlyer() {
		mw.updateStatus("Open a flyer first")
		return
	}

	nameEntry := widget.NewEntry()
	nameEntry.SetText(mw.studio.Editor.LayoutName())
	nameEntry.SetPlaceHolder("Layout name")

	dialog.ShowForm("Save Layout As", "Save", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Name", nameEntry)},
		func(ok bool) {
			if !ok {
				return
			}
			mw.updateStatus("Saving layout...")
			go func() {
				if _, err := mw.studio.SaveLayout(context.Background(), nameEntry.Text); err != nil {
					mw.updateStatus(fmt.Sprintf("Save failed: %v", err))
				}
			}()
		},
		mw.Window)
}

func (mw *MainWindow) onExportImage() {
	ed := mw.studio.Editor
	flyer := ed.Flyer()
	if flyer == nil {
		mw.updateStatus("Open a flyer first")
		return
	}

	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) == "" {
			path += ".png"
		}
		mw.saveLastDir(prefs.KeyLastExportDir, path)

		mw.updateStatus("Exporting...")
		go func() {
			err := mw.studio.ExportImage(path, func() {
				// Let the raster repaint between the guide flips so the
				// capture never shows them.
				mw.stage.Refresh()
				time.Sleep(50 * time.Millisecond)
			})
			if err != nil {
				mw.updateStatus(fmt.Sprintf("Export failed: %v", err))
				return
			}
			mw.updateStatus(fmt.Sprintf("Exported %s", filepath.Base(path)))
		}()
	}, mw.Window)
	fd.SetFileName(compose.ExportFileName(flyer.Name, "png", time.Now()))
	if loc := mw.getLastDir(prefs.KeyLastExportDir); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onUndoRemove() {
	if zone, ok := mw.studio.Editor.UndoRemoveZone(); ok {
		mw.updateStatus(fmt.Sprintf("Restored %s", zone.Name))
	} else {
		mw.updateStatus("Nothing to undo")
	}
}

func (mw *MainWindow) onRemoveZone() {
	ed := mw.studio.Editor
	if id := ed.SelectedZone(); id != "" {
		ed.RemoveZone(id)
	} else {
		mw.updateStatus("Select a zone first")
	}
}

func (mw *MainWindow) onCancelDrawing() {
	mw.studio.Editor.CancelDrawing()
}

func (mw *MainWindow) onToggleDraw() {
	mw.studio.Editor.ToggleDrawMode()
}

func (mw *MainWindow) onToggleGuides() {
	ed := mw.studio.Editor
	ed.SetShowGuides(!ed.ShowGuides())
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About Flyer Studio",
		fmt.Sprintf("Flyer Studio v%s\n\n"+
			"Trace zones on a flyer and compose product photos into them.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
