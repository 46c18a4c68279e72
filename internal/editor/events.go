package editor

// EventType identifies different editor events.
type EventType int

const (
	EventFlyerChanged EventType = iota
	EventZonesChanged
	EventPlacementsChanged
	EventSelectionChanged
	EventModeChanged
	EventGuidesChanged
	EventStageResized
	EventModified
	EventExportStateChanged
	EventPersistStateChanged
	EventLayoutLoaded
	EventLayoutSaved
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// On registers an event listener for the specified event type.
func (e *Editor) On(event EventType, listener EventListener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners[event] = append(e.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (e *Editor) Emit(event EventType, data interface{}) {
	e.mu.RLock()
	listeners := e.listeners[event]
	e.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}
