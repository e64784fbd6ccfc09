//go:build gstreamer

package gstreamer

import (
	"bytes"
	"fmt"

	"github.com/tinyzimmer/go-gst/gst"
	"github.com/tinyzimmer/go-gst/gst/app"
	"github.com/tinyzimmer/go-gst/gst/video"

	"github.com/gogpu/rawview"
	"github.com/gogpu/rawview/backend"
)

var library = &gstRuntime{
	startup:  func() { gst.Init(nil) },
	shutdown: gst.Deinit,
}

func init() {
	backend.Register(backend.BackendGStreamer, func() rawview.Host {
		return NewHost()
	})
}

// Host is a rawview.Host that renders through a GStreamer video sink.
// Host is NOT safe for concurrent use.
type Host struct {
	initialized bool
}

// NewHost creates a GStreamer host. Call Init before creating a window.
func NewHost() *Host {
	return &Host{}
}

// Name returns the host identifier.
func (h *Host) Name() string {
	return backend.BackendGStreamer
}

// Init initializes GStreamer. Calling it again before Quit is a no-op.
// Once the last initialized host has quit, GStreamer is deinitialized and
// Init fails with ErrDeinitialized for the rest of the process.
func (h *Host) Init() error {
	if h.initialized {
		return nil
	}
	if err := library.acquire(); err != nil {
		return err
	}
	h.initialized = true
	return nil
}

// Quit releases this host's hold on GStreamer.
func (h *Host) Quit() {
	if !h.initialized {
		return
	}
	h.initialized = false
	library.release()
}

// CreateWindow creates the pipeline and its video sink. The sink opens its
// window when the first frame reaches it.
func (h *Host) CreateWindow(cfg rawview.WindowConfig) (rawview.Window, error) {
	if !h.initialized {
		return nil, ErrNotInitialized
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: width=%d, height=%d", rawview.ErrInvalidDimensions, cfg.Width, cfg.Height)
	}

	pipeline, err := gst.NewPipeline("")
	if err != nil {
		return nil, fmt.Errorf("%w: create pipeline: %w", ErrPipelineFailure, err)
	}
	sink, err := gst.NewElement("autovideosink")
	if err != nil {
		pipeline.Unref()
		return nil, fmt.Errorf("%w: create autovideosink: %w", ErrPipelineFailure, err)
	}
	// A still frame must stay on screen without waiting on the clock.
	if err := sink.SetProperty("sync", false); err != nil {
		rawview.Logger().Debug("gstreamer: sink has no sync property", "err", err)
	}
	if err := pipeline.Add(sink); err != nil {
		pipeline.Unref()
		return nil, fmt.Errorf("%w: add sink: %w", ErrPipelineFailure, err)
	}

	rawview.Logger().Debug("gstreamer: pipeline created", "title", cfg.Title,
		"width", cfg.Width, "height", cfg.Height)
	return &window{
		cfg:      cfg,
		pipeline: pipeline,
		sink:     sink,
		bus:      pipeline.GetPipelineBus(),
	}, nil
}

type window struct {
	cfg       rawview.WindowConfig
	pipeline  *gst.Pipeline
	sink      *gst.Element
	bus       *gst.Bus
	renderer  *renderer
	destroyed bool
}

// CreateRenderer links videoconvert ! videoscale ! capsfilter in front of
// the sink so that any frame format is shown at window size.
func (w *window) CreateRenderer() (rawview.Renderer, error) {
	if w.destroyed {
		return nil, ErrDestroyed
	}
	elements, err := gst.NewElementMany("videoconvert", "videoscale", "capsfilter")
	if err != nil {
		return nil, fmt.Errorf("%w: create elements: %w", ErrPipelineFailure, err)
	}
	convert, scale, filter := elements[0], elements[1], elements[2]

	if err := filter.SetProperty("caps", gst.NewCapsFromString(scaleCaps(w.cfg.Width, w.cfg.Height))); err != nil {
		return nil, fmt.Errorf("%w: set caps: %w", ErrPipelineFailure, err)
	}
	if err := w.pipeline.AddMany(elements...); err != nil {
		return nil, fmt.Errorf("%w: add elements: %w", ErrPipelineFailure, err)
	}
	if err := convert.Link(scale); err != nil {
		return nil, fmt.Errorf("%w: link videoconvert->videoscale: %w", ErrPipelineFailure, err)
	}
	if err := scale.Link(filter); err != nil {
		return nil, fmt.Errorf("%w: link videoscale->capsfilter: %w", ErrPipelineFailure, err)
	}
	if err := filter.Link(w.sink); err != nil {
		return nil, fmt.Errorf("%w: link capsfilter->sink: %w", ErrPipelineFailure, err)
	}

	w.renderer = &renderer{window: w, head: convert}
	return w.renderer, nil
}

// PollEvent pops one bus message without blocking.
func (w *window) PollEvent() (rawview.Event, bool) {
	if w.destroyed {
		return rawview.Event{}, false
	}
	msg := w.bus.TimedPop(0)
	if msg == nil {
		return rawview.Event{}, false
	}
	defer msg.Unref()

	switch msg.Type() {
	case gst.MessageEOS:
		return rawview.QuitEvent(), true
	case gst.MessageError:
		// Closing the sink window surfaces as an error.
		gerr := msg.ParseError()
		rawview.Logger().Debug("gstreamer: pipeline error", "err", gerr.Error(), "debug", gerr.DebugString())
		return rawview.QuitEvent(), true
	case gst.MessageElement:
		if st := msg.GetStructure(); st != nil && st.Name() == "GstNavigationMessage" {
			if ev, ok := parseNavigation(st.String()); ok {
				return ev, true
			}
		}
	}
	return rawview.Event{Type: rawview.EventOther}, true
}

func (w *window) Destroy() {
	if w.destroyed {
		return
	}
	w.destroyed = true
	if err := w.pipeline.SetState(gst.StateNull); err != nil {
		rawview.Logger().Warn("gstreamer: stop pipeline", "err", err)
	}
	w.pipeline.Unref()
}

type renderer struct {
	window    *window
	head      *gst.Element
	texture   *texture
	pending   []byte
	playing   bool
	destroyed bool
}

// CreateTexture adds an appsrc producing frames in the descriptor's format.
// A renderer feeds exactly one texture.
func (r *renderer) CreateTexture(d rawview.Descriptor) (rawview.Texture, error) {
	if r.destroyed {
		return nil, ErrDestroyed
	}
	if r.texture != nil && !r.texture.destroyed {
		return nil, ErrTextureExists
	}
	format, ok := videoFormat(d.Format)
	if !ok {
		return nil, fmt.Errorf("%w: %s", rawview.ErrUnsupportedFormat, d.Format)
	}

	elem, err := gst.NewElement("appsrc")
	if err != nil {
		return nil, fmt.Errorf("%w: create appsrc: %w", ErrPipelineFailure, err)
	}
	info := video.NewInfo().
		WithFormat(format, uint(d.Width), uint(d.Height)).
		WithFPS(gst.Fraction(0, 1))
	if err := elem.SetProperty("caps", info.ToCaps()); err != nil {
		return nil, fmt.Errorf("%w: set appsrc caps: %w", ErrPipelineFailure, err)
	}
	if err := r.window.pipeline.Add(elem); err != nil {
		return nil, fmt.Errorf("%w: add appsrc: %w", ErrPipelineFailure, err)
	}
	if err := elem.Link(r.head); err != nil {
		return nil, fmt.Errorf("%w: link appsrc->videoconvert: %w", ErrPipelineFailure, err)
	}

	rawview.Logger().Debug("gstreamer: appsrc configured", "format", formatName(d.Format),
		"width", d.Width, "height", d.Height)
	r.texture = &texture{renderer: r, desc: d, src: app.SrcFromElement(elem)}
	return r.texture, nil
}

// Copy selects the texture's frame for the next Present.
func (r *renderer) Copy(t rawview.Texture) error {
	if r.destroyed {
		return ErrDestroyed
	}
	tex, ok := t.(*texture)
	if !ok || tex.renderer != r {
		return ErrForeignTexture
	}
	if tex.destroyed {
		return ErrDestroyed
	}
	r.pending = tex.frame
	return nil
}

// Present pushes the pending frame into appsrc and starts the pipeline on
// the first call.
func (r *renderer) Present() error {
	if r.destroyed {
		return ErrDestroyed
	}
	if r.pending == nil {
		return ErrNoFrame
	}
	if ret := r.texture.src.PushBuffer(gst.NewBufferFromBytes(r.pending)); ret != gst.FlowOK {
		return fmt.Errorf("%w: push buffer: %v", ErrPipelineFailure, ret)
	}
	if !r.playing {
		if err := r.window.pipeline.SetState(gst.StatePlaying); err != nil {
			return fmt.Errorf("%w: set playing: %w", ErrPipelineFailure, err)
		}
		r.playing = true
	}
	return nil
}

// Destroy detaches the renderer. Its elements are owned by the pipeline
// and released with the window.
func (r *renderer) Destroy() {
	r.destroyed = true
	r.pending = nil
}

type texture struct {
	renderer  *renderer
	desc      rawview.Descriptor
	src       *app.Source
	frame     []byte
	destroyed bool
}

// Update stores a copy of buf in GStreamer's row layout.
func (t *texture) Update(buf []byte, bytesPerRow int) error {
	if t.destroyed {
		return ErrDestroyed
	}
	if bytesPerRow != t.desc.BytesPerRow {
		return fmt.Errorf("%w: stride %d, want %d", rawview.ErrBufferSize, bytesPerRow, t.desc.BytesPerRow)
	}
	packed, err := repack(t.desc, buf)
	if err != nil {
		return err
	}
	t.frame = bytes.Clone(packed)
	return nil
}

func (t *texture) Destroy() {
	t.destroyed = true
	t.frame = nil
}

func videoFormat(f rawview.Format) (video.Format, bool) {
	switch f {
	case rawview.FormatRGB24:
		return video.FormatRGB, true
	case rawview.FormatNV12:
		return video.FormatNV12, true
	case rawview.FormatNV21:
		return video.FormatNV21, true
	default:
		return video.FormatUnknown, false
	}
}
