// Package calib holds the operator calibration model: the events posted by UI
// callbacks, the queue that carries them to the tracking loop, the pick state
// machine the loop applies them to, and the shared tolerance cells.
package calib

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrQueueFull is returned by Post when the queue cannot accept another event.
var ErrQueueFull = errors.New("calib: event queue full")

// DefaultQueueSize is the event buffer used when none is configured.
const DefaultQueueSize = 64

// EventKind identifies an operator action.
type EventKind int

const (
	// EventRequestObjectPick arms the next click to sample the tracked object.
	EventRequestObjectPick EventKind = iota
	// EventRequestMagnetPick arms the next click to sample the magnet reference.
	EventRequestMagnetPick
	// EventPointerClick is a click on the video at frame pixel (X, Y).
	EventPointerClick
	// EventToggleRawDisplay switches between the raw frame and the mask view.
	EventToggleRawDisplay
	// EventSaveFrame asks for the current frame to be written to disk.
	EventSaveFrame
)

func (k EventKind) String() string {
	switch k {
	case EventRequestObjectPick:
		return "RequestObjectPick"
	case EventRequestMagnetPick:
		return "RequestMagnetPick"
	case EventPointerClick:
		return "PointerClick"
	case EventToggleRawDisplay:
		return "ToggleRawDisplay"
	case EventSaveFrame:
		return "SaveFrameRequest"
	default:
		return "Unknown"
	}
}

// Event is a single operator action. X and Y are set for clicks, On for the
// raw display toggle.
type Event struct {
	Kind EventKind
	X, Y int
	On   bool
}

func (e Event) String() string {
	switch e.Kind {
	case EventPointerClick:
		return fmt.Sprintf("%s(%d,%d)", e.Kind, e.X, e.Y)
	case EventToggleRawDisplay:
		return fmt.Sprintf("%s(%t)", e.Kind, e.On)
	default:
		return e.Kind.String()
	}
}

// RequestObjectPick returns an object-pick request event.
func RequestObjectPick() Event { return Event{Kind: EventRequestObjectPick} }

// RequestMagnetPick returns a magnet-pick request event.
func RequestMagnetPick() Event { return Event{Kind: EventRequestMagnetPick} }

// Click returns a pointer click at frame pixel (x, y).
func Click(x, y int) Event { return Event{Kind: EventPointerClick, X: x, Y: y} }

// RawDisplay returns a raw display toggle event.
func RawDisplay(on bool) Event { return Event{Kind: EventToggleRawDisplay, On: on} }

// SaveFrame returns a save-frame request event.
func SaveFrame() Event { return Event{Kind: EventSaveFrame} }

// Queue carries events from UI callbacks to the tracking loop in arrival order.
// Producers never block: when the buffer is full Post fails immediately.
type Queue struct {
	ch chan Event
}

// NewQueue creates a queue buffering up to size events.
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{ch: make(chan Event, size)}
}

// Post enqueues ev without blocking.
func (q *Queue) Post(ev Event) error {
	select {
	case q.ch <- ev:
		return nil
	default:
		return errors.Wrapf(ErrQueueFull, "dropping %s", ev)
	}
}

// TryNext dequeues the oldest pending event, if any, without blocking.
func (q *Queue) TryNext() (Event, bool) {
	select {
	case ev := <-q.ch:
		return ev, true
	default:
		return Event{}, false
	}
}

// Len returns the number of pending events.
func (q *Queue) Len() int {
	return len(q.ch)
}
