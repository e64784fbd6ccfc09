// Package convert expands raw frames into RGBA for hosts that can only
// upload 32-bit textures, and scales them onto window surfaces.
package convert

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/rawview"
)

// ErrShortBuffer is returned when a source or destination slice is smaller
// than the descriptor requires.
var ErrShortBuffer = errors.New("convert: buffer too small")

// RGBABytes returns the size of the RGBA rendition of d.
func RGBABytes(d rawview.Descriptor) int {
	return d.Width * d.Height * 4
}

// ToRGBA converts the raw frame src laid out as d into tightly packed,
// opaque RGBA in dst.
func ToRGBA(d rawview.Descriptor, src, dst []byte) error {
	if len(src) < d.BufferSize {
		return fmt.Errorf("%w: src has %d bytes, want %d", ErrShortBuffer, len(src), d.BufferSize)
	}
	if len(dst) < RGBABytes(d) {
		return fmt.Errorf("%w: dst has %d bytes, want %d", ErrShortBuffer, len(dst), RGBABytes(d))
	}

	info := d.Format.Info()
	if !info.Planar {
		rgb24ToRGBA(src, dst, d.Width, d.Height, d.BytesPerRow)
		return nil
	}
	semiPlanarToRGBA(src[:d.BufferSize], dst, d.Width, d.Height, d.BytesPerRow, info.ChromaSwapped)
	return nil
}

// Image converts src into a newly allocated *image.RGBA.
func Image(d rawview.Descriptor, src []byte) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, d.Width, d.Height))
	if err := ToRGBA(d, src, img.Pix); err != nil {
		return nil, err
	}
	return img, nil
}

func rgb24ToRGBA(src, dst []byte, w, h, stride int) {
	for y := 0; y < h; y++ {
		row := src[y*stride : y*stride+w*3]
		out := dst[y*w*4 : (y+1)*w*4]
		for x := 0; x < w; x++ {
			out[x*4+0] = row[x*3+0]
			out[x*4+1] = row[x*3+1]
			out[x*4+2] = row[x*3+2]
			out[x*4+3] = 0xff
		}
	}
}

// semiPlanarToRGBA converts NV12 (Cb first) or NV21 (Cr first).
// Chroma samples missing at the tail of odd-sized frames read as neutral.
func semiPlanarToRGBA(src, dst []byte, w, h, stride int, swapped bool) {
	lumaSize := stride * h
	chroma := src[lumaSize:]
	for y := 0; y < h; y++ {
		crow := (y / 2) * stride
		for x := 0; x < w; x++ {
			yy := int(src[y*stride+x])
			ci := crow + (x/2)*2
			u, v := 128, 128
			if ci+1 < len(chroma) {
				u, v = int(chroma[ci]), int(chroma[ci+1])
				if swapped {
					u, v = v, u
				}
			}
			r, g, b := ycbcr(yy, u, v)
			off := (y*w + x) * 4
			dst[off+0] = r
			dst[off+1] = g
			dst[off+2] = b
			dst[off+3] = 0xff
		}
	}
}

// ycbcr converts one BT.601 limited-range sample to RGB.
func ycbcr(y, cb, cr int) (r, g, b uint8) {
	c := y - 16
	if c < 0 {
		c = 0
	}
	d := cb - 128
	e := cr - 128
	return clamp((298*c + 409*e + 128) >> 8),
		clamp((298*c - 100*d - 208*e + 128) >> 8),
		clamp((298*c + 516*d + 128) >> 8)
}

func clamp(v int) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return uint8(v)
	}
}
