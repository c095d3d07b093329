// Package input turns SDL2 events into viewer events and routes pointer
// input to camera controls.
package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/scenekit/internal/engine/controls"
)

// EventType identifies a viewer event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
	MouseX int
	MouseY int
	DeltaX int
	DeltaY int
	// LeftHeld is set on motion events while the left button is down.
	LeftHeld bool
	Button   controls.Button
	Wheel    float32
}

// Input collects the events of one frame.
type Input struct {
	events []Event
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Update polls SDL events. Returns true if the viewer should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		e, ok := Translate(event)
		if !ok {
			continue
		}
		i.events = append(i.events, e)
		if e.Type == EventQuit {
			return true
		}
	}
	return false
}

// Translate converts one SDL event. ok is false for events the viewer
// ignores.
func Translate(event sdl.Event) (Event, bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return Event{Type: EventQuit}, true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_RESIZED {
			return Event{
				Type:   EventWindowResize,
				Width:  int(e.Data1),
				Height: int(e.Data2),
			}, true
		}

	case *sdl.KeyboardEvent:
		switch e.Type {
		case sdl.KEYDOWN:
			return Event{Type: EventKeyDown, Key: e.Keysym.Scancode}, true
		case sdl.KEYUP:
			return Event{Type: EventKeyUp, Key: e.Keysym.Scancode}, true
		}

	case *sdl.MouseMotionEvent:
		return Event{
			Type:   EventMouseMove,
			MouseX: int(e.X),
			MouseY: int(e.Y),
			DeltaX: int(e.XRel),
			DeltaY: int(e.YRel),

			LeftHeld: e.State&(1<<(sdl.BUTTON_LEFT-1)) != 0,
		}, true

	case *sdl.MouseButtonEvent:
		ev := Event{
			MouseX: int(e.X),
			MouseY: int(e.Y),
			Button: button(e.Button),
		}
		switch e.Type {
		case sdl.MOUSEBUTTONDOWN:
			ev.Type = EventMouseDown
			return ev, true
		case sdl.MOUSEBUTTONUP:
			ev.Type = EventMouseUp
			return ev, true
		}

	case *sdl.MouseWheelEvent:
		y := e.Y
		if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
			y = -y
		}
		return Event{Type: EventMouseWheel, Wheel: float32(y)}, true
	}
	return Event{}, false
}

func button(b uint8) controls.Button {
	switch b {
	case sdl.BUTTON_LEFT:
		return controls.ButtonLeft
	case sdl.BUTTON_MIDDLE:
		return controls.ButtonMiddle
	case sdl.BUTTON_RIGHT:
		return controls.ButtonRight
	default:
		return controls.ButtonNone
	}
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// Route forwards pointer events to h.
func Route(events []Event, h controls.PointerHandler) {
	if h == nil {
		return
	}
	for _, e := range events {
		switch e.Type {
		case EventMouseDown:
			h.PointerDown(e.Button, e.MouseX, e.MouseY)
		case EventMouseMove:
			h.PointerMove(e.MouseX, e.MouseY)
		case EventMouseUp:
			h.PointerUp(e.Button)
		case EventMouseWheel:
			// one wheel notch is worth ten pixels of scroll
			h.Wheel(e.Wheel * 10)
		}
	}
}

// Look forwards mouse motion to a look pose while the left button is held.
func Look(events []Event, p *controls.LookPose) {
	if p == nil {
		return
	}
	for _, e := range events {
		if e.Type == EventMouseMove && e.LeftHeld {
			p.Look(float32(e.DeltaX), float32(e.DeltaY))
		}
	}
}
