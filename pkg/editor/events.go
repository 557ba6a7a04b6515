package editor

import (
	"sync"

	"github.com/yaklabco/goeditable/pkg/selection"
)

// EventType identifies a category of editor notification.
type EventType string

// Event types emitted by the editor.
const (
	// EventRegionAttached fires when a region joins the editor.
	EventRegionAttached EventType = "region-attached"

	// EventRegionDetached fires when a region is removed.
	EventRegionDetached EventType = "region-detached"

	// EventContentChanged fires when a region's content is replaced.
	EventContentChanged EventType = "content-changed"

	// EventCommandExecuted fires after a command ran successfully.
	EventCommandExecuted EventType = "command-executed"

	// EventSelectionRestored fires when a selection survived a dispatch.
	EventSelectionRestored EventType = "selection-restored"
)

// Event carries the details of a single editor notification.
type Event struct {
	// Type is the event category.
	Type EventType

	// RegionID identifies the region the event concerns.
	RegionID string

	// Command is the executed command name (EventCommandExecuted only).
	Command string

	// Snapshot is the restored selection (EventSelectionRestored only).
	Snapshot *selection.Snapshot
}

// Listener receives events synchronously on the goroutine that caused them.
// Listeners must not block; the engine has no background dispatch.
type Listener func(Event)

// Events dispatches editor notifications to subscribed listeners in
// subscription order. Dispatch is synchronous; the lock protects only the
// subscriber list so listeners may subscribe and unsubscribe reentrantly.
type Events struct {
	mu     sync.RWMutex
	nextID int
	subs   []eventSub
}

type eventSub struct {
	id int
	fn Listener
}

// NewEvents creates an event bus with no listeners.
func NewEvents() *Events {
	return &Events{}
}

// Subscribe registers fn and returns a token for Unsubscribe.
func (e *Events) Subscribe(fn Listener) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextID++
	e.subs = append(e.subs, eventSub{id: e.nextID, fn: fn})
	return e.nextID
}

// Unsubscribe removes the listener registered under id.
func (e *Events) Unsubscribe(id int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, s := range e.subs {
		if s.id == id {
			e.subs = append(e.subs[:i], e.subs[i+1:]...)
			return true
		}
	}
	return false
}

// Emit delivers ev to every listener, in subscription order. The subscriber
// list is copied first so listeners run without the lock held.
func (e *Events) Emit(ev Event) {
	e.mu.RLock()
	subs := make([]eventSub, len(e.subs))
	copy(subs, e.subs)
	e.mu.RUnlock()

	for _, s := range subs {
		s.fn(ev)
	}
}
