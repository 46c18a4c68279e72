package media

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports when a watched image file is rewritten on disk, so an open
// flyer can refresh while a designer keeps exporting over the same file.
// Events are debounced: editors typically emit several writes per save.
type Watcher struct {
	fsw      *fsnotify.Watcher
	path     string
	onChange func()
	stopCh   chan struct{}
}

const watchDebounce = 250 * time.Millisecond

// WatchFile starts watching path and invokes onChange after each completed
// rewrite. The callback runs on a background goroutine.
func WatchFile(path string, onChange func()) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory, not the file: most editors replace the file on
	// save, which drops a direct file watch.
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		fsw:      fsw,
		path:     abs,
		onChange: onChange,
		stopCh:   make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	close(w.stopCh)
	w.fsw.Close()
}

func (w *Watcher) loop() {
	var timer *time.Timer
	var timerCh <-chan time.Time

	for {
		select {
		case <-w.stopCh:
			if timer != nil {
				timer.Stop()
			}
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Name != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
				timerCh = timer.C
			} else {
				timer.Reset(watchDebounce)
			}
		case <-timerCh:
			timer = nil
			timerCh = nil
			w.onChange()
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}
