package backend

import (
	"context"
	"errors"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/rawview"
)

func TestSoftwareHostName(t *testing.T) {
	h := NewSoftwareHost()
	if h.Name() != "software" {
		t.Errorf("Name() = %q, want %q", h.Name(), "software")
	}
}

func TestSoftwareHostCreateWindowRequiresInit(t *testing.T) {
	h := NewSoftwareHost()
	if _, err := h.CreateWindow(rawview.WindowConfig{Width: 4, Height: 4}); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("CreateWindow() before Init = %v, want ErrNotInitialized", err)
	}

	if err := h.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer h.Quit()
	if _, err := h.CreateWindow(rawview.WindowConfig{Width: 0, Height: 4}); !errors.Is(err, rawview.ErrInvalidDimensions) {
		t.Errorf("CreateWindow(0x4) = %v, want ErrInvalidDimensions", err)
	}
}

func TestSoftwareHostLiveCount(t *testing.T) {
	h := NewSoftwareHost()
	d, _ := rawview.Resolve("nv12", 4, 4)

	s, err := rawview.NewSession(h, d)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	if h.Live() != 4 {
		t.Errorf("Live() = %d with an open session, want 4", h.Live())
	}
	_ = s.Close()
	if h.Live() != 0 {
		t.Errorf("Live() = %d after Close, want 0", h.Live())
	}
}

func TestSoftwareHostPresentScaled(t *testing.T) {
	h := NewSoftwareHost()
	if h.Surface() != nil {
		t.Error("Surface() should be nil before the first frame")
	}
	d, _ := rawview.Resolve("rgb24", 2, 2)
	s, err := rawview.NewSession(h, d, rawview.WithScale(2))
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	defer s.Close()

	buf := []byte{
		255, 0, 0, 0, 255, 0,
		0, 0, 255, 255, 255, 255,
	}
	if err := s.Present(buf); err != nil {
		t.Fatalf("Present() error = %v", err)
	}

	img := h.Surface()
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 4 {
		t.Fatalf("surface = %v, want 4x4", img.Bounds())
	}
	tests := []struct {
		x, y int
		want color.RGBA
	}{
		{0, 0, color.RGBA{255, 0, 0, 255}},
		{1, 1, color.RGBA{255, 0, 0, 255}},
		{3, 0, color.RGBA{0, 255, 0, 255}},
		{0, 3, color.RGBA{0, 0, 255, 255}},
		{3, 3, color.RGBA{255, 255, 255, 255}},
	}
	for _, tt := range tests {
		if got := img.RGBAAt(tt.x, tt.y); got != tt.want {
			t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
	if h.Frames() != 1 {
		t.Errorf("Frames() = %d, want 1", h.Frames())
	}
}

func TestSoftwareHostPresentNV12(t *testing.T) {
	h := NewSoftwareHost()
	d, _ := rawview.Resolve("nv12", 2, 2)
	s, err := rawview.NewSession(h, d)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	defer s.Close()

	// Peak white luma with neutral chroma.
	if err := s.Present([]byte{235, 235, 235, 235, 128, 128}); err != nil {
		t.Fatalf("Present() error = %v", err)
	}
	if got := h.Surface().RGBAAt(1, 1); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("pixel = %v, want white", got)
	}
}

func newTexture(t *testing.T, h *SoftwareHost, d rawview.Descriptor) (rawview.Renderer, rawview.Texture) {
	t.Helper()
	if err := h.Init(); err != nil {
		t.Fatal(err)
	}
	w, err := h.CreateWindow(rawview.WindowConfig{Width: d.Width, Height: d.Height})
	if err != nil {
		t.Fatal(err)
	}
	r, err := w.CreateRenderer()
	if err != nil {
		t.Fatal(err)
	}
	tex, err := r.CreateTexture(d)
	if err != nil {
		t.Fatal(err)
	}
	return r, tex
}

func TestSoftwareTextureStridedUpdate(t *testing.T) {
	h := NewSoftwareHost()
	d, _ := rawview.Resolve("rgb24", 2, 2)
	r, tex := newTexture(t, h, d)

	// Two padding bytes after every 6-byte row.
	buf := []byte{
		255, 0, 0, 255, 0, 0, 9, 9,
		0, 255, 0, 0, 255, 0, 9, 9,
	}
	if err := tex.Update(buf, 8); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if err := r.Copy(tex); err != nil {
		t.Fatal(err)
	}
	if err := r.Present(); err != nil {
		t.Fatal(err)
	}
	img := h.Surface()
	if got := img.RGBAAt(1, 0); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("row 0 = %v, want red", got)
	}
	if got := img.RGBAAt(0, 1); got != (color.RGBA{0, 255, 0, 255}) {
		t.Errorf("row 1 = %v, want green (padding leaked?)", got)
	}
}

func TestSoftwareTextureStridedOddHeightNV12(t *testing.T) {
	h := NewSoftwareHost()
	d, _ := rawview.Resolve("nv12", 3, 3)
	_, tex := newTexture(t, h, d)

	// 9 luma bytes and 4 chroma bytes; the last chroma row holds one byte.
	packed := []byte{
		1, 2, 3,
		4, 5, 6,
		7, 8, 9,
		10, 11, 12,
		13,
	}
	strided := []byte{
		1, 2, 3, 0,
		4, 5, 6, 0,
		7, 8, 9, 0,
		10, 11, 12, 0,
		13,
	}
	if err := tex.Update(strided, 4); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got := tex.(*softwareTexture).pix; !slices.Equal(got, packed) {
		t.Errorf("pix = %v, want %v", got, packed)
	}

	if err := tex.Update(strided[:len(strided)-1], 4); !errors.Is(err, rawview.ErrBufferSize) {
		t.Errorf("Update(missing chroma tail) = %v, want ErrBufferSize", err)
	}
}

func TestSoftwareTextureUpdateErrors(t *testing.T) {
	h := NewSoftwareHost()
	d, _ := rawview.Resolve("rgb24", 2, 2)
	_, tex := newTexture(t, h, d)

	if err := tex.Update(make([]byte, 12), 5); !errors.Is(err, rawview.ErrBufferSize) {
		t.Errorf("Update(stride 5) = %v, want ErrBufferSize", err)
	}
	if err := tex.Update(make([]byte, 11), 6); !errors.Is(err, rawview.ErrBufferSize) {
		t.Errorf("Update(11 bytes) = %v, want ErrBufferSize", err)
	}
	if err := tex.Update(make([]byte, 10), 8); !errors.Is(err, rawview.ErrBufferSize) {
		t.Errorf("Update(short strided) = %v, want ErrBufferSize", err)
	}

	tex.Destroy()
	if err := tex.Update(make([]byte, 12), 6); !errors.Is(err, ErrDestroyed) {
		t.Errorf("Update after Destroy = %v, want ErrDestroyed", err)
	}
}

func TestSoftwareRendererForeignTexture(t *testing.T) {
	d, _ := rawview.Resolve("rgb24", 2, 2)
	r1, _ := newTexture(t, NewSoftwareHost(), d)
	_, tex2 := newTexture(t, NewSoftwareHost(), d)
	if err := r1.Copy(tex2); !errors.Is(err, ErrForeignTexture) {
		t.Errorf("Copy(foreign) = %v, want ErrForeignTexture", err)
	}
}

func TestSoftwareHostSavePNG(t *testing.T) {
	h := NewSoftwareHost()
	path := filepath.Join(t.TempDir(), "out.png")
	if err := h.SavePNG(path); err == nil {
		t.Error("SavePNG() before any frame should fail")
	}

	d, _ := rawview.Resolve("rgb24", 3, 2)
	s, err := rawview.NewSession(h, d)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if err := s.Present(make([]byte, 18)); err != nil {
		t.Fatal(err)
	}
	if err := h.SavePNG(path); err != nil {
		t.Fatalf("SavePNG() error = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Errorf("PNG bounds = %v, want 3x2", b)
	}
}

func TestSoftwareHostEndToEnd(t *testing.T) {
	h := NewSoftwareHost()
	d, err := rawview.Resolve("rgb24", 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	s, err := rawview.NewSession(h, d)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Present(make([]byte, 48)); err != nil {
		t.Fatal(err)
	}

	go func() {
		time.Sleep(5 * time.Millisecond)
		h.Inject(rawview.KeyDownEvent(gpucontext.KeyA))
		h.Inject(rawview.QuitEvent())
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rawview.Run(ctx, s, rawview.RunOptions{Interval: time.Millisecond}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if s.State() != rawview.StateClosed {
		t.Errorf("State() = %v, want Closed", s.State())
	}
	if h.Live() != 0 || h.Frames() != 1 {
		t.Errorf("Live()=%d Frames()=%d, want 0 and 1", h.Live(), h.Frames())
	}
}

// fakeHost is a registry entry that is never initialized.
type fakeHost struct{ name string }

func (f fakeHost) Name() string { return f.name }
func (fakeHost) Init() error    { return nil }
func (fakeHost) Quit()          {}
func (fakeHost) CreateWindow(rawview.WindowConfig) (rawview.Window, error) {
	return nil, errors.New("fake")
}

func TestRegistryRegisterAndGet(t *testing.T) {
	// Software host is auto-registered via init()
	if !IsRegistered("software") {
		t.Error("software host should be auto-registered")
	}

	h := Get("software")
	if h == nil {
		t.Fatal("Get(software) returned nil")
	}
	if h.Name() != "software" {
		t.Errorf("Get(software).Name() = %q, want %q", h.Name(), "software")
	}
	if Get("software") == h {
		t.Error("Get should return a fresh host per call")
	}
}

func TestRegistryGetUnregistered(t *testing.T) {
	if h := Get("nonexistent"); h != nil {
		t.Error("Get(nonexistent) should return nil")
	}
}

func TestRegistryAvailableSorted(t *testing.T) {
	Register("zz-test", func() rawview.Host { return fakeHost{"zz-test"} })
	Register("aa-test", func() rawview.Host { return fakeHost{"aa-test"} })
	t.Cleanup(func() {
		Unregister("zz-test")
		Unregister("aa-test")
	})

	available := Available()
	if !slices.IsSorted(available) {
		t.Errorf("Available() = %v, want sorted", available)
	}
	for _, name := range []string{"aa-test", "software", "zz-test"} {
		if !slices.Contains(available, name) {
			t.Errorf("Available() = %v, missing %q", available, name)
		}
	}
}

func TestRegistryDefaultPriority(t *testing.T) {
	if h := Default(); h == nil || h.Name() != "software" {
		t.Fatalf("Default() = %v, want software when no window host is registered", h)
	}

	Register(BackendGoGPU, func() rawview.Host { return fakeHost{BackendGoGPU} })
	t.Cleanup(func() { Unregister(BackendGoGPU) })

	if h := Default(); h == nil || h.Name() != BackendGoGPU {
		t.Errorf("Default() = %v, want gogpu to win over software", h)
	}
}

func TestRegistryOpen(t *testing.T) {
	for _, name := range []string{"", "auto", " AUTO ", "software", "Software"} {
		h, err := Open(name)
		if err != nil {
			t.Errorf("Open(%q) error = %v", name, err)
			continue
		}
		if h.Name() != "software" {
			t.Errorf("Open(%q).Name() = %q", name, h.Name())
		}
	}

	_, err := Open("vulkan")
	if !errors.Is(err, ErrBackendNotAvailable) {
		t.Fatalf("Open(vulkan) = %v, want ErrBackendNotAvailable", err)
	}
	if !strings.Contains(err.Error(), "software") {
		t.Errorf("error should list registered hosts: %v", err)
	}
}

func TestRegistryUnregister(t *testing.T) {
	Register("test-host", func() rawview.Host { return NewSoftwareHost() })

	if !IsRegistered("test-host") {
		t.Error("test-host should be registered")
	}

	Unregister("test-host")

	if IsRegistered("test-host") {
		t.Error("test-host should be unregistered")
	}
}
