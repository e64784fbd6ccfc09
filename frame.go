package rawview

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// ReadFrame reads one frame of d.BufferSize bytes from r.
//
// The returned buffer is always exactly d.BufferSize bytes. If r holds
// fewer bytes the remainder stays zero; bytes beyond the frame are not
// consumed. n is the number of bytes actually read.
func ReadFrame(r io.Reader, d Descriptor) (buf []byte, n int, err error) {
	buf = make([]byte, d.BufferSize)
	n, err = io.ReadFull(r, buf)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		err = nil
	}
	if err != nil {
		return nil, n, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return buf, n, nil
}

// LoadFrame opens path and reads one frame laid out as d.
// A file shorter than the frame is accepted and zero-filled, with a warning.
func LoadFrame(path string, d Descriptor) ([]byte, error) {
	f, err := os.Open(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer func() {
		_ = f.Close()
	}()

	buf, n, err := ReadFrame(f, d)
	if err != nil {
		return nil, fmt.Errorf("%w (file %s)", err, path)
	}
	if n < d.BufferSize {
		Logger().Warn("rawview: short input, zero-filling remainder",
			"path", path, "read", n, "want", d.BufferSize)
	}
	return buf, nil
}
