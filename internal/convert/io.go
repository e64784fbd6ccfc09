package convert

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedExtension is returned by Save for file names it cannot encode.
var ErrUnsupportedExtension = errors.New("convert: unsupported image extension")

// DefaultJPEGQuality is the quality Save uses for .jpg and .jpeg files.
const DefaultJPEGQuality = 90

// Save writes img to path, choosing PNG or JPEG from the file extension.
func Save(path string, img image.Image) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return SavePNG(path, img)
	case ".jpg", ".jpeg":
		return saveWith(path, func(w io.Writer) error {
			return EncodeJPEG(w, img, DefaultJPEGQuality)
		})
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedExtension, filepath.Ext(path))
	}
}

// SavePNG saves img as a PNG file.
func SavePNG(path string, img image.Image) error {
	return saveWith(path, func(w io.Writer) error {
		return EncodePNG(w, img)
	})
}

func saveWith(path string, encode func(io.Writer) error) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("convert: create file: %w", err)
	}

	if err := encode(f); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}

// EncodePNG encodes img as PNG to w.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("convert: encode PNG: %w", err)
	}
	return nil
}

// EncodeJPEG encodes img as JPEG with the given quality (1-100).
func EncodeJPEG(w io.Writer, img image.Image, quality int) error {
	quality = max(1, min(quality, 100))
	if err := jpeg.Encode(w, img, &jpeg.Options{Quality: quality}); err != nil {
		return fmt.Errorf("convert: encode JPEG: %w", err)
	}
	return nil
}
