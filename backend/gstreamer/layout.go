// Package gstreamer provides a rawview host that displays frames through a
// GStreamer pipeline:
//
//	appsrc ! videoconvert ! videoscale ! capsfilter ! autovideosink
//
// The host itself is compiled only with the "gstreamer" build tag because
// go-gst requires cgo and the GStreamer development libraries:
//
//	go build -tags gstreamer ./...
//
// Frames are pushed in their native layout; GStreamer performs the YUV to RGB
// conversion and the scaling to window size.
package gstreamer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/rawview"
)

// Errors returned by the GStreamer host.
var (
	ErrNotInitialized  = errors.New("gstreamer: host not initialized")
	ErrDestroyed       = errors.New("gstreamer: resource destroyed")
	ErrForeignTexture  = errors.New("gstreamer: texture belongs to another renderer")
	ErrTextureExists   = errors.New("gstreamer: renderer already has a texture")
	ErrNoFrame         = errors.New("gstreamer: nothing copied before present")
	ErrPipelineFailure = errors.New("gstreamer: pipeline failure")
)

// formatName returns the GStreamer video format name for f.
func formatName(f rawview.Format) string {
	switch f {
	case rawview.FormatRGB24:
		return "RGB"
	case rawview.FormatNV12:
		return "NV12"
	case rawview.FormatNV21:
		return "NV21"
	default:
		return ""
	}
}

// scaleCaps returns the capsfilter caps that fix the output size.
func scaleCaps(width, height int) string {
	return fmt.Sprintf("video/x-raw,width=%d,height=%d", width, height)
}

func roundUp(n, to int) int {
	return (n + to - 1) / to * to
}

// gstLayout describes the default GStreamer memory layout of a raw frame:
// every plane row is padded to a multiple of four bytes, and for the
// semi-planar formats the luma plane height is rounded up to even.
type gstLayout struct {
	strides []int
	offsets []int
	rows    []int
	size    int
}

func layoutFor(d rawview.Descriptor) gstLayout {
	if !d.Format.Info().Planar {
		stride := roundUp(d.Width*3, 4)
		return gstLayout{
			strides: []int{stride},
			offsets: []int{0},
			rows:    []int{d.Height},
			size:    stride * d.Height,
		}
	}
	stride := roundUp(d.Width, 4)
	lumaRows := roundUp(d.Height, 2)
	chromaRows := lumaRows / 2
	return gstLayout{
		strides: []int{stride, stride},
		offsets: []int{0, stride * lumaRows},
		rows:    []int{d.Height, (d.Height + 1) / 2},
		size:    stride*lumaRows + stride*chromaRows,
	}
}

// repack copies a tightly packed frame into GStreamer's padded layout. When
// no padding is needed the source slice is returned unchanged.
func repack(d rawview.Descriptor, src []byte) ([]byte, error) {
	if err := d.Validate(src); err != nil {
		return nil, err
	}
	l := layoutFor(d)
	if l.size == len(src) && l.strides[0] == d.BytesPerRow {
		return src, nil
	}

	dst := make([]byte, l.size)
	for i, p := range d.Planes() {
		for y := 0; y < l.rows[i]; y++ {
			from := p.Offset + y*p.BytesPerRow
			if from >= p.Offset+p.Size {
				break
			}
			n := min(p.BytesPerRow, p.Offset+p.Size-from)
			copy(dst[l.offsets[i]+y*l.strides[i]:], src[from:from+n])
		}
	}
	return dst, nil
}

// navigationKeys maps GStreamer navigation key names to key codes.
var navigationKeys = map[string]gpucontext.Key{
	"Escape": gpucontext.KeyEscape,
	"space":  gpucontext.KeySpace,
	"Return": gpucontext.KeyEnter,
	"q":      gpucontext.KeyQ,
}

// parseNavigation extracts a key event from a serialized navigation
// structure as posted by video sinks, for example
//
//	application/x-gst-navigation, event=(string)key-press, key=(string)Escape;
//
// Serialized structures nested inside messages escape spaces, commas and
// parentheses with backslashes; those are removed before matching.
func parseNavigation(serialized string) (rawview.Event, bool) {
	s := strings.ReplaceAll(serialized, `\`, "")

	var typ rawview.EventType
	switch {
	case strings.Contains(s, "event=(string)key-press"):
		typ = rawview.EventKeyDown
	case strings.Contains(s, "event=(string)key-release"):
		typ = rawview.EventKeyUp
	default:
		return rawview.Event{}, false
	}

	const keyField = "key=(string)"
	i := strings.Index(s, keyField)
	if i < 0 {
		return rawview.Event{Type: typ}, true
	}
	name := s[i+len(keyField):]
	if end := strings.IndexAny(name, ",; \""); end >= 0 {
		name = name[:end]
	}
	return rawview.Event{Type: typ, Key: navigationKeys[name]}, true
}
