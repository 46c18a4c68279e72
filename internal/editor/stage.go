package editor

// Display geometry is derived from the flyer's natural size and the measured
// container width on every read. Nothing here is stored redundantly, so the
// stage can never drift out of sync with the container.

// SetContainerWidth records the measured width of the responsive container
// hosting the stage.
func (e *Editor) SetContainerWidth(w float64) {
	e.mu.Lock()
	if e.containerWidth == w {
		e.mu.Unlock()
		return
	}
	e.containerWidth = w
	e.mu.Unlock()

	e.Emit(EventStageResized, w)
}

// ContainerWidth returns the last measured container width.
func (e *Editor) ContainerWidth() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.containerWidth
}

// StageWidth returns the on-screen width of the stage: the container width
// when a flyer is loaded and the container has been measured, else 0.
func (e *Editor) StageWidth() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stageWidthLocked()
}

// StageHeight returns the on-screen height of the stage. Height is derived
// from the width through the flyer's aspect ratio, never set independently.
func (e *Editor) StageHeight() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stageHeightLocked()
}

// StageScale returns the ratio of stage width to the flyer's natural width,
// or 1 while the stage is unmeasured.
func (e *Editor) StageScale() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stageScaleLocked()
}

// StageSize returns the stage width and height together.
func (e *Editor) StageSize() (w, h float64) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stageWidthLocked(), e.stageHeightLocked()
}

// StageMeasured reports whether the stage has a usable on-screen size.
func (e *Editor) StageMeasured() bool {
	return e.StageWidth() > 0
}

func (e *Editor) stageWidthLocked() float64 {
	if e.assets.background == nil || e.containerWidth <= 0 {
		return 0
	}
	return e.containerWidth
}

func (e *Editor) stageScaleLocked() float64 {
	w := e.stageWidthLocked()
	if w == 0 {
		return 1
	}
	nat := e.assets.background.Width
	if nat <= 0 {
		return 1
	}
	return w / float64(nat)
}

func (e *Editor) stageHeightLocked() float64 {
	if e.assets.background == nil {
		return 0
	}
	return float64(e.assets.background.Height) * e.stageScaleLocked()
}
