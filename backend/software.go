package backend

import (
	"fmt"
	"image"
	"sync"

	"github.com/gogpu/rawview"
	"github.com/gogpu/rawview/internal/convert"
)

// SoftwareHost is a headless host that composites into an in-memory
// RGBA surface instead of a window.
//
// Events are never generated by the host itself; feed them with Inject.
// SoftwareHost is safe for concurrent use so tests and other goroutines
// can inject events while a session polls.
type SoftwareHost struct {
	mu          sync.Mutex
	initialized bool
	live        int
	events      []rawview.Event
	surface     *image.RGBA
	frames      int
}

// init registers the software host on package import.
func init() {
	Register(BackendSoftware, func() rawview.Host {
		return NewSoftwareHost()
	})
}

// NewSoftwareHost creates a new headless host.
func NewSoftwareHost() *SoftwareHost {
	return &SoftwareHost{}
}

// Name returns the host identifier.
func (h *SoftwareHost) Name() string {
	return BackendSoftware
}

// Init marks the host initialized. It cannot fail.
func (h *SoftwareHost) Init() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.initialized {
		h.initialized = true
		h.live++
	}
	return nil
}

// Quit releases the host. Calling Quit on an uninitialized host is a no-op.
func (h *SoftwareHost) Quit() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.initialized {
		h.initialized = false
		h.live--
	}
}

// CreateWindow allocates a surface of the configured size.
func (h *SoftwareHost) CreateWindow(cfg rawview.WindowConfig) (rawview.Window, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.initialized {
		return nil, ErrNotInitialized
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: width=%d, height=%d", rawview.ErrInvalidDimensions, cfg.Width, cfg.Height)
	}
	h.live++
	return &softwareWindow{
		host:    h,
		title:   cfg.Title,
		surface: image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height)),
	}, nil
}

// Inject queues an event for the next PollEvent.
func (h *SoftwareHost) Inject(ev rawview.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, ev)
}

// Live returns the number of acquired resources not yet released,
// counting the host itself.
func (h *SoftwareHost) Live() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.live
}

// Frames returns the number of presented frames.
func (h *SoftwareHost) Frames() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frames
}

// Surface returns a copy of the last presented frame, or nil if nothing
// was presented yet.
func (h *SoftwareHost) Surface() *image.RGBA {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.surface == nil {
		return nil
	}
	out := image.NewRGBA(h.surface.Bounds())
	copy(out.Pix, h.surface.Pix)
	return out
}

// SavePNG writes the last presented frame to a PNG file.
func (h *SoftwareHost) SavePNG(path string) error {
	img := h.Surface()
	if img == nil {
		return fmt.Errorf("backend: no frame presented")
	}
	return convert.SavePNG(path, img)
}

func (h *SoftwareHost) release() {
	h.mu.Lock()
	h.live--
	h.mu.Unlock()
}

func (h *SoftwareHost) pop() (rawview.Event, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.events) == 0 {
		return rawview.Event{}, false
	}
	ev := h.events[0]
	h.events = h.events[1:]
	return ev, true
}

func (h *SoftwareHost) present(surface *image.RGBA) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.surface == nil || h.surface.Bounds() != surface.Bounds() {
		h.surface = image.NewRGBA(surface.Bounds())
	}
	copy(h.surface.Pix, surface.Pix)
	h.frames++
}

// softwareWindow is the in-memory window surface.
type softwareWindow struct {
	host      *SoftwareHost
	title     string
	surface   *image.RGBA
	destroyed bool
}

func (w *softwareWindow) CreateRenderer() (rawview.Renderer, error) {
	if w.destroyed {
		return nil, ErrDestroyed
	}
	w.host.mu.Lock()
	w.host.live++
	w.host.mu.Unlock()
	return &softwareRenderer{window: w}, nil
}

func (w *softwareWindow) PollEvent() (rawview.Event, bool) {
	if w.destroyed {
		return rawview.Event{}, false
	}
	return w.host.pop()
}

func (w *softwareWindow) Destroy() {
	if w.destroyed {
		return
	}
	w.destroyed = true
	w.host.release()
}

// softwareRenderer composites textures onto the window surface.
type softwareRenderer struct {
	window    *softwareWindow
	destroyed bool
}

func (r *softwareRenderer) CreateTexture(d rawview.Descriptor) (rawview.Texture, error) {
	if r.destroyed {
		return nil, ErrDestroyed
	}
	r.window.host.mu.Lock()
	r.window.host.live++
	r.window.host.mu.Unlock()
	return &softwareTexture{
		renderer: r,
		desc:     d,
		pix:      make([]byte, d.BufferSize),
		rgba:     image.NewRGBA(image.Rect(0, 0, d.Width, d.Height)),
	}, nil
}

func (r *softwareRenderer) Copy(t rawview.Texture) error {
	if r.destroyed {
		return ErrDestroyed
	}
	tex, ok := t.(*softwareTexture)
	if !ok || tex.renderer != r {
		return ErrForeignTexture
	}
	if tex.destroyed {
		return ErrDestroyed
	}
	if err := convert.ToRGBA(tex.desc, tex.pix, tex.rgba.Pix); err != nil {
		return err
	}
	convert.Scale(r.window.surface, tex.rgba)
	return nil
}

func (r *softwareRenderer) Present() error {
	if r.destroyed {
		return ErrDestroyed
	}
	r.window.host.present(r.window.surface)
	return nil
}

func (r *softwareRenderer) Destroy() {
	if r.destroyed {
		return
	}
	r.destroyed = true
	r.window.host.release()
}

// softwareTexture stores one raw frame in its own tightly packed layout.
type softwareTexture struct {
	renderer  *softwareRenderer
	desc      rawview.Descriptor
	pix       []byte
	rgba      *image.RGBA
	destroyed bool
}

func (t *softwareTexture) Update(buf []byte, bytesPerRow int) error {
	if t.destroyed {
		return ErrDestroyed
	}
	if bytesPerRow < t.desc.BytesPerRow {
		return fmt.Errorf("%w: stride %d < %d", rawview.ErrBufferSize, bytesPerRow, t.desc.BytesPerRow)
	}
	if bytesPerRow == t.desc.BytesPerRow {
		if err := t.desc.Validate(buf); err != nil {
			return err
		}
		copy(t.pix, buf)
		return nil
	}
	return t.updateStrided(buf, bytesPerRow)
}

// updateStrided repacks rows whose stride carries padding.
// The chroma plane of an odd-height frame ends in a partial row.
func (t *softwareTexture) updateStrided(buf []byte, bytesPerRow int) error {
	off := 0
	for _, p := range t.desc.Planes() {
		rows := (p.Size + p.BytesPerRow - 1) / p.BytesPerRow
		for y := 0; y < rows; y++ {
			n := min(p.BytesPerRow, p.Size-y*p.BytesPerRow)
			src := off + y*bytesPerRow
			if src+n > len(buf) {
				return fmt.Errorf("%w: row %d of plane at %d exceeds %d bytes",
					rawview.ErrBufferSize, y, p.Offset, len(buf))
			}
			dst := p.Offset + y*p.BytesPerRow
			copy(t.pix[dst:dst+n], buf[src:src+n])
		}
		off += rows * bytesPerRow
	}
	return nil
}

func (t *softwareTexture) Destroy() {
	if t.destroyed {
		return
	}
	t.destroyed = true
	t.renderer.window.host.release()
}
