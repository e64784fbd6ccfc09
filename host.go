package rawview

import "github.com/gogpu/gpucontext"

// Host is the graphics subsystem a Session draws through.
//
// A Host is passed explicitly to NewSession rather than initialized as
// process-wide state, so tests can substitute a fake and production code
// can pick a backend at runtime (see package backend).
//
// Every successful acquisition (Init, CreateWindow, CreateRenderer,
// CreateTexture) is paired with exactly one release (Quit, Destroy).
type Host interface {
	// Name returns the host identifier (e.g., "gogpu", "software").
	Name() string

	// Init acquires the graphics subsystem.
	Init() error

	// Quit releases the graphics subsystem acquired by Init.
	Quit()

	// CreateWindow opens a window of the configured size.
	CreateWindow(cfg WindowConfig) (Window, error)
}

// WindowConfig describes the window a Session asks for.
type WindowConfig struct {
	Title  string
	Width  int
	Height int
}

// Window is a native window that owns its pending input events.
type Window interface {
	// CreateRenderer creates a renderer drawing into this window.
	CreateRenderer() (Renderer, error)

	// PollEvent pops the next pending event without blocking.
	// The boolean is false when the queue is empty.
	PollEvent() (Event, bool)

	// Destroy releases the window.
	Destroy()
}

// Renderer composites textures onto its window surface.
type Renderer interface {
	// CreateTexture creates a streaming texture sized and formatted for d.
	CreateTexture(d Descriptor) (Texture, error)

	// Copy composites the full texture onto the full window surface.
	Copy(t Texture) error

	// Present shows the composited frame.
	Present() error

	// Destroy releases the renderer.
	Destroy()
}

// Texture is a streaming texture whose format and size are fixed at creation.
type Texture interface {
	// Update uploads a complete frame. bytesPerRow is the stride of the
	// first plane of buf.
	Update(buf []byte, bytesPerRow int) error

	// Destroy releases the texture.
	Destroy()
}

// Looper is implemented by hosts whose windowing system owns the event
// loop of the calling thread. Loop calls step once per iteration and
// returns after step reports false or the window goes away.
type Looper interface {
	Loop(step func() bool) error
}

// EventType identifies the kind of an Event.
type EventType uint8

const (
	// EventOther is any event the viewer does not act on.
	EventOther EventType = iota

	// EventQuit is posted when the window is closed.
	EventQuit

	// EventKeyDown is posted when a key is pressed.
	EventKeyDown

	// EventKeyUp is posted when a key is released.
	EventKeyUp

	// EventWindowResized is posted when the window changes size.
	EventWindowResized
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventQuit:
		return "Quit"
	case EventKeyDown:
		return "KeyDown"
	case EventKeyUp:
		return "KeyUp"
	case EventWindowResized:
		return "WindowResized"
	default:
		return "Other"
	}
}

// Event is an input event reported by a Window.
type Event struct {
	Type EventType

	// Key is set for EventKeyDown and EventKeyUp.
	Key gpucontext.Key
}

// QuitEvent returns a window-close event.
func QuitEvent() Event { return Event{Type: EventQuit} }

// KeyDownEvent returns a key press event for k.
func KeyDownEvent(k gpucontext.Key) Event { return Event{Type: EventKeyDown, Key: k} }

// stops reports whether the event ends the viewing session.
func (e Event) stops() bool {
	switch e.Type {
	case EventQuit:
		return true
	case EventKeyDown:
		return e.Key == gpucontext.KeyEscape
	default:
		return false
	}
}
