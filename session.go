package rawview

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// State is the lifecycle state of a Session.
type State uint8

const (
	// StateUninitialized is the state before construction completes.
	StateUninitialized State = iota

	// StateReady means window, renderer and texture are live.
	StateReady

	// StateClosed means every resource has been released.
	StateClosed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateReady:
		return "Ready"
	case StateClosed:
		return "Closed"
	default:
		return "Uninitialized"
	}
}

// Status is the result of PollEvents.
type Status uint8

const (
	// Continue means no stop event was observed.
	Continue Status = iota

	// Stop means a quit or escape event was observed; the session is closed.
	Stop
)

// Session owns the window, renderer and streaming texture used to show
// one raw frame.
//
// Session is NOT safe for concurrent use.
type Session struct {
	id    string
	host  Host
	desc  Descriptor
	log   *slog.Logger
	state State

	window   Window
	renderer Renderer
	texture  Texture

	res scope
}

// NewSession initializes host and acquires, in order, a window, a renderer
// and a texture sized to desc. If any step fails, the resources already
// acquired are released in reverse order before the error is returned.
func NewSession(host Host, desc Descriptor, opts ...Option) (*Session, error) {
	if host == nil {
		return nil, ErrNilHost
	}
	if err := checkDescriptor(desc); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	id := uuid.NewString()
	log := o.logger
	if log == nil {
		log = Logger()
	}
	log = log.With("session", id, "host", host.Name())

	s := &Session{
		id:   id,
		host: host,
		desc: desc,
		log:  log,
		res:  scope{log: log},
	}
	if err := s.acquire(o); err != nil {
		s.res.unwind()
		s.window, s.renderer, s.texture = nil, nil, nil
		log.Warn("rawview: session setup failed", "err", err)
		return nil, err
	}

	s.state = StateReady
	log.Info("rawview: session ready", "format", desc.Format.String(),
		"width", desc.Width, "height", desc.Height, "bufferSize", desc.BufferSize)
	return s, nil
}

func (s *Session) acquire(o sessionOptions) error {
	if err := s.host.Init(); err != nil {
		return fmt.Errorf("%w: %w", ErrInit, err)
	}
	s.res.push("host", s.host.Quit)

	w, err := s.host.CreateWindow(WindowConfig{
		Title:  o.title,
		Width:  s.desc.Width * o.scale,
		Height: s.desc.Height * o.scale,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWindowCreation, err)
	}
	if w == nil {
		return fmt.Errorf("%w: host returned no window", ErrWindowCreation)
	}
	s.window = w
	s.res.push("window", w.Destroy)

	r, err := w.CreateRenderer()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRendererCreation, err)
	}
	if r == nil {
		return fmt.Errorf("%w: host returned no renderer", ErrRendererCreation)
	}
	s.renderer = r
	s.res.push("renderer", r.Destroy)

	t, err := r.CreateTexture(s.desc)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTextureCreation, err)
	}
	if t == nil {
		return fmt.Errorf("%w: host returned no texture", ErrTextureCreation)
	}
	s.texture = t
	s.res.push("texture", t.Destroy)
	return nil
}

func checkDescriptor(d Descriptor) error {
	want, err := NewDescriptor(d.Format, d.Width, d.Height)
	if err != nil {
		return err
	}
	if want != d {
		return fmt.Errorf("%w: descriptor %+v is inconsistent, want %+v", ErrInvalidDimensions, d, want)
	}
	return nil
}

// ID returns the session identifier used in log records.
func (s *Session) ID() string { return s.id }

// Descriptor returns the layout the session's texture was created for.
func (s *Session) Descriptor() Descriptor { return s.desc }

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Host returns the host the session draws through.
func (s *Session) Host() Host { return s.host }

// Present uploads buf into the texture, composites the full texture onto
// the full window and presents the frame.
//
// buf must be exactly Descriptor().BufferSize bytes; it is only read for
// the duration of the call.
func (s *Session) Present(buf []byte) error {
	if s.state != StateReady {
		return ErrSessionClosed
	}
	if err := s.desc.Validate(buf); err != nil {
		return err
	}

	if err := s.texture.Update(buf, s.desc.BytesPerRow); err != nil {
		return fmt.Errorf("rawview: texture update: %w", err)
	}
	if err := s.renderer.Copy(s.texture); err != nil {
		return fmt.Errorf("rawview: render copy: %w", err)
	}
	if err := s.renderer.Present(); err != nil {
		return fmt.Errorf("rawview: present: %w", err)
	}
	s.log.Debug("rawview: frame presented", "bytes", len(buf))
	return nil
}

// PollEvents drains every pending event without blocking. It returns Stop
// if a quit event or an escape key press was among them, in which case the
// session is closed before returning. A closed session always reports Stop.
func (s *Session) PollEvents() Status {
	if s.state != StateReady {
		return Stop
	}

	stop := false
	for {
		ev, ok := s.window.PollEvent()
		if !ok {
			break
		}
		s.log.Debug("rawview: event", "type", ev.Type.String(), "key", ev.Key)
		if ev.stops() {
			stop = true
		}
	}
	if !stop {
		return Continue
	}

	_ = s.Close()
	return Stop
}

// Close releases the texture, renderer, window and graphics subsystem in
// that order. Close is idempotent - multiple calls are safe.
func (s *Session) Close() error {
	if s.state == StateClosed {
		return nil
	}
	s.res.unwind()
	s.window, s.renderer, s.texture = nil, nil, nil
	s.state = StateClosed
	s.log.Info("rawview: session closed")
	return nil
}
