package rawview

import (
	"errors"
	"testing"
)

var errInjected = errors.New("injected failure")

// fakeHost records every acquisition and release in order.
// failAt names the step that returns errInjected; nilAt names the step
// that returns a nil handle without an error.
type fakeHost struct {
	calls  []string
	failAt string
	nilAt  string

	events    []Event
	windowCfg WindowConfig

	updates    [][]byte
	strides    []int
	copies     int
	presents   int
	failUpdate error

	acquired int
	released int
}

func newFakeHost() *fakeHost {
	return &fakeHost{}
}

func (h *fakeHost) Name() string { return "fake" }

func (h *fakeHost) Init() error {
	h.calls = append(h.calls, "init")
	if h.failAt == "init" {
		return errInjected
	}
	h.acquired++
	return nil
}

func (h *fakeHost) Quit() {
	h.calls = append(h.calls, "quit")
	h.released++
}

func (h *fakeHost) CreateWindow(cfg WindowConfig) (Window, error) {
	h.calls = append(h.calls, "window")
	h.windowCfg = cfg
	switch {
	case h.failAt == "window":
		return nil, errInjected
	case h.nilAt == "window":
		return nil, nil
	}
	h.acquired++
	return &fakeWindow{host: h}, nil
}

func (h *fakeHost) inject(evs ...Event) {
	h.events = append(h.events, evs...)
}

func (h *fakeHost) balanced() bool {
	return h.acquired == h.released
}

type fakeWindow struct {
	host *fakeHost
}

func (w *fakeWindow) CreateRenderer() (Renderer, error) {
	h := w.host
	h.calls = append(h.calls, "renderer")
	switch {
	case h.failAt == "renderer":
		return nil, errInjected
	case h.nilAt == "renderer":
		return nil, nil
	}
	h.acquired++
	return &fakeRenderer{host: h}, nil
}

func (w *fakeWindow) PollEvent() (Event, bool) {
	h := w.host
	if len(h.events) == 0 {
		return Event{}, false
	}
	ev := h.events[0]
	h.events = h.events[1:]
	return ev, true
}

func (w *fakeWindow) Destroy() {
	w.host.calls = append(w.host.calls, "window.destroy")
	w.host.released++
}

type fakeRenderer struct {
	host *fakeHost
}

func (r *fakeRenderer) CreateTexture(d Descriptor) (Texture, error) {
	h := r.host
	h.calls = append(h.calls, "texture")
	switch {
	case h.failAt == "texture":
		return nil, errInjected
	case h.nilAt == "texture":
		return nil, nil
	}
	h.acquired++
	return &fakeTexture{host: h}, nil
}

func (r *fakeRenderer) Copy(Texture) error {
	r.host.copies++
	return nil
}

func (r *fakeRenderer) Present() error {
	r.host.presents++
	return nil
}

func (r *fakeRenderer) Destroy() {
	r.host.calls = append(r.host.calls, "renderer.destroy")
	r.host.released++
}

type fakeTexture struct {
	host *fakeHost
}

func (t *fakeTexture) Update(buf []byte, bytesPerRow int) error {
	h := t.host
	if h.failUpdate != nil {
		return h.failUpdate
	}
	h.updates = append(h.updates, append([]byte(nil), buf...))
	h.strides = append(h.strides, bytesPerRow)
	return nil
}

func (t *fakeTexture) Destroy() {
	t.host.calls = append(t.host.calls, "texture.destroy")
	t.host.released++
}

// fakeLooper is a fakeHost that owns its loop, like the gogpu host.
type fakeLooper struct {
	*fakeHost
	maxSteps int
	steps    int
	loopErr  error
}

func (l *fakeLooper) Loop(step func() bool) error {
	for l.steps < l.maxSteps {
		l.steps++
		if !step() {
			break
		}
	}
	return l.loopErr
}

func mustDescriptor(t *testing.T, f Format, w, h int) Descriptor {
	t.Helper()
	d, err := NewDescriptor(f, w, h)
	if err != nil {
		t.Fatalf("NewDescriptor(%v, %d, %d) = %v", f, w, h, err)
	}
	return d
}

func mustSession(t *testing.T, h Host, d Descriptor, opts ...Option) *Session {
	t.Helper()
	s, err := NewSession(h, d, opts...)
	if err != nil {
		t.Fatalf("NewSession() = %v", err)
	}
	return s
}
