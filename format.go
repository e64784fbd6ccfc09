package rawview

import (
	"fmt"
	"math"
	"strings"

	"github.com/gogpu/gputypes"
)

// Format represents a raw pixel storage layout.
type Format uint8

const (
	// FormatRGB24 is packed 24-bit RGB (3 bytes per pixel, no padding).
	FormatRGB24 Format = iota

	// FormatNV12 is 4:2:0 with a full-resolution luma plane followed by
	// an interleaved Cb/Cr plane.
	FormatNV12

	// FormatNV21 is NV12 with the chroma order swapped (Cr/Cb).
	FormatNV21

	// formatCount is the number of formats (for internal use).
	formatCount
)

// FormatInfo contains metadata about a pixel format.
type FormatInfo struct {
	// Tag is the lower-case name accepted by Resolve.
	Tag string

	// RowBytesPerPixel is the stride multiplier of the first plane.
	RowBytesPerPixel int

	// Planar indicates a separate luma plane followed by a chroma plane.
	Planar bool

	// ChromaSwapped indicates Cr precedes Cb in the interleaved chroma plane.
	ChromaSwapped bool
}

var formatInfoTable = [formatCount]FormatInfo{
	FormatRGB24: {
		Tag:              "rgb24",
		RowBytesPerPixel: 3,
	},
	FormatNV12: {
		Tag:              "nv12",
		RowBytesPerPixel: 1,
		Planar:           true,
	},
	FormatNV21: {
		Tag:              "nv21",
		RowBytesPerPixel: 1,
		Planar:           true,
		ChromaSwapped:    true,
	},
}

// Info returns the FormatInfo for this format.
func (f Format) Info() FormatInfo {
	if f >= formatCount {
		return FormatInfo{}
	}
	return formatInfoTable[f]
}

// IsValid returns true if the format is a known format.
func (f Format) IsValid() bool {
	return f < formatCount
}

// Tag returns the tag accepted by ParseFormat.
func (f Format) Tag() string {
	return f.Info().Tag
}

// String returns a string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatRGB24:
		return "RGB24"
	case FormatNV12:
		return "NV12"
	case FormatNV21:
		return "NV21"
	default:
		return "Unknown"
	}
}

// RowBytes returns the stride of the first plane for the given width.
func (f Format) RowBytes(width int) int {
	return width * f.Info().RowBytesPerPixel
}

// ImageBytes returns the exact number of bytes a width x height frame needs.
func (f Format) ImageBytes(width, height int) int {
	if f.Info().Planar {
		return width * height * 3 / 2
	}
	return f.RowBytes(width) * height
}

// Formats returns the supported format tags in declaration order.
func Formats() []string {
	tags := make([]string, 0, formatCount)
	for f := Format(0); f < formatCount; f++ {
		tags = append(tags, f.Tag())
	}
	return tags
}

// ParseFormat maps a tag such as "nv12" to its Format.
// Matching ignores case and surrounding whitespace.
func ParseFormat(tag string) (Format, error) {
	t := strings.ToLower(strings.TrimSpace(tag))
	for f := Format(0); f < formatCount; f++ {
		if formatInfoTable[f].Tag == t {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedFormat, tag, strings.Join(Formats(), ", "))
}

// Descriptor describes the memory layout of a single raw frame.
// It is a value type; once computed it never changes.
type Descriptor struct {
	Format      Format
	Width       int
	Height      int
	BytesPerRow int
	BufferSize  int
}

// Plane describes one plane of a frame inside the raw buffer.
type Plane struct {
	// Format is the GPU texture format matching the plane's samples.
	// Packed RGB24 has no GPU equivalent and reports TextureFormatUndefined.
	Format gputypes.TextureFormat

	Offset      int
	Width       int
	Height      int
	BytesPerRow int
	Size        int
}

// Resolve maps a format tag and dimensions to a Descriptor.
// Unrecognized tags fail with ErrUnsupportedFormat.
func Resolve(tag string, width, height int) (Descriptor, error) {
	f, err := ParseFormat(tag)
	if err != nil {
		return Descriptor{}, err
	}
	return NewDescriptor(f, width, height)
}

// NewDescriptor computes the Descriptor for a known format.
func NewDescriptor(f Format, width, height int) (Descriptor, error) {
	if !f.IsValid() {
		return Descriptor{}, fmt.Errorf("%w: %d", ErrUnsupportedFormat, f)
	}
	if width <= 0 || height <= 0 {
		return Descriptor{}, fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	// Every layout is computed through width*height*3.
	if width > math.MaxInt/3/height {
		return Descriptor{}, fmt.Errorf("%w: %dx%d frame size overflows", ErrInvalidDimensions, width, height)
	}
	return Descriptor{
		Format:      f,
		Width:       width,
		Height:      height,
		BytesPerRow: f.RowBytes(width),
		BufferSize:  f.ImageBytes(width, height),
	}, nil
}

// Planes returns the plane layout of the descriptor's buffer.
func (d Descriptor) Planes() []Plane {
	if !d.Format.Info().Planar {
		return []Plane{{
			Format:      gputypes.TextureFormatUndefined,
			Width:       d.Width,
			Height:      d.Height,
			BytesPerRow: d.BytesPerRow,
			Size:        d.BufferSize,
		}}
	}
	luma := d.Width * d.Height
	return []Plane{
		{
			Format:      gputypes.TextureFormatR8Unorm,
			Width:       d.Width,
			Height:      d.Height,
			BytesPerRow: d.BytesPerRow,
			Size:        luma,
		},
		{
			Format:      gputypes.TextureFormatRG8Unorm,
			Offset:      luma,
			Width:       (d.Width + 1) / 2,
			Height:      (d.Height + 1) / 2,
			BytesPerRow: d.BytesPerRow,
			Size:        d.BufferSize - luma,
		},
	}
}

// Validate reports whether buf has exactly the size the layout requires.
func (d Descriptor) Validate(buf []byte) error {
	if len(buf) != d.BufferSize {
		return fmt.Errorf("%w: got %d bytes, want %d for %s %dx%d",
			ErrBufferSize, len(buf), d.BufferSize, d.Format, d.Width, d.Height)
	}
	return nil
}

// String returns a human readable description such as "NV12 640x480".
func (d Descriptor) String() string {
	return fmt.Sprintf("%s %dx%d", d.Format, d.Width, d.Height)
}
