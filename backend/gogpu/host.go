package gogpu

import (
	"fmt"

	"github.com/gogpu/gogpu"
	"github.com/gogpu/rawview"
	"github.com/gogpu/rawview/backend"
)

// Host is a rawview.Host backed by a gogpu application window.
//
// gogpu supports a single window per application, so a Host hands out at
// most one window. Host is NOT safe for concurrent use; all calls except
// event delivery happen on the thread running Loop.
type Host struct {
	initialized bool
	window      *window
}

// NewHost creates a gogpu host. Call Init before creating a window.
func NewHost() *Host {
	return &Host{}
}

// Name returns the host identifier.
func (h *Host) Name() string {
	return backend.BackendGoGPU
}

// Init marks the host ready. gogpu brings up its GPU device lazily when
// the application runs, so there is nothing to acquire yet.
func (h *Host) Init() error {
	h.initialized = true
	return nil
}

// Quit releases the host. The window, if any, must already be destroyed.
func (h *Host) Quit() {
	h.initialized = false
	h.window = nil
}

// CreateWindow configures the gogpu application window. The native window
// opens when Loop runs the application.
func (h *Host) CreateWindow(cfg rawview.WindowConfig) (rawview.Window, error) {
	if !h.initialized {
		return nil, ErrNotInitialized
	}
	if h.window != nil && !h.window.destroyed {
		return nil, ErrWindowExists
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, cfg.Width, cfg.Height)
	}

	// Continuous rendering drives OnDraw, and with it event polling, every frame.
	app := gogpu.NewApp(gogpu.DefaultConfig().
		WithTitle(cfg.Title).
		WithSize(cfg.Width, cfg.Height).
		WithContinuousRender(true))

	w := newWindow(cfg.Width, cfg.Height)
	w.app = app
	bindEvents(app.EventSource(), &w.queue)
	app.OnClose(w.onClose)

	h.window = w
	rawview.Logger().Debug("gogpu: window configured", "title", cfg.Title,
		"width", cfg.Width, "height", cfg.Height)
	return w, nil
}

// Loop runs the gogpu application on the calling thread. step is called
// after every drawn frame; when it returns false the application quits.
func (h *Host) Loop(step func() bool) error {
	if h.window == nil || h.window.destroyed {
		return ErrNotInitialized
	}
	return h.window.loop(step)
}

// window wraps the gogpu application and its single native window.
type window struct {
	app    *gogpu.App
	width  int
	height int
	queue  eventQueue

	renderer  *renderer
	running   bool
	quitting  bool
	destroyed bool
}

func newWindow(width, height int) *window {
	return &window{width: width, height: height}
}

func (w *window) CreateRenderer() (rawview.Renderer, error) {
	if w.destroyed {
		return nil, ErrDestroyed
	}
	w.renderer = &renderer{window: w}
	return w.renderer, nil
}

func (w *window) PollEvent() (rawview.Event, bool) {
	return w.queue.pop()
}

// Destroy asks a running application to quit. GPU textures still alive
// are released from the close callback while the device exists.
func (w *window) Destroy() {
	if w.destroyed {
		return
	}
	w.destroyed = true
	w.quit()
}

func (w *window) quit() {
	if w.running && !w.quitting {
		w.quitting = true
		w.app.Quit()
	}
}

func (w *window) loop(step func() bool) error {
	w.app.OnDraw(func(dc *gogpu.Context) {
		if w.renderer != nil {
			if err := w.renderer.draw(dc.AsTextureDrawer()); err != nil {
				rawview.Logger().Warn("gogpu: draw failed", "err", err)
			}
		}
		if !step() {
			w.quit()
		}
	})

	w.running = true
	defer func() {
		w.running = false
	}()
	return w.app.Run()
}

// onClose runs while the GPU device is still alive: report the close and
// release every GPU texture.
func (w *window) onClose() {
	w.queue.push(rawview.QuitEvent())
	if w.renderer != nil {
		w.renderer.releaseGPU()
	}
}
