package rawview

import "errors"

// Format resolution errors.
var (
	// ErrUnsupportedFormat is returned when a format tag is not recognized.
	ErrUnsupportedFormat = errors.New("rawview: unsupported format")

	// ErrInvalidDimensions is returned when width or height is not positive.
	ErrInvalidDimensions = errors.New("rawview: invalid dimensions")
)

// Session construction errors. Each names the step that failed.
var (
	// ErrNilHost is returned when NewSession is given a nil Host.
	ErrNilHost = errors.New("rawview: nil host")

	// ErrInit is returned when the graphics subsystem fails to initialize.
	ErrInit = errors.New("rawview: graphics init failed")

	// ErrWindowCreation is returned when the window cannot be created.
	ErrWindowCreation = errors.New("rawview: window creation failed")

	// ErrRendererCreation is returned when the renderer cannot be created.
	ErrRendererCreation = errors.New("rawview: renderer creation failed")

	// ErrTextureCreation is returned when the streaming texture cannot be created.
	ErrTextureCreation = errors.New("rawview: texture creation failed")
)

// Runtime errors.
var (
	// ErrBufferSize is returned when a frame buffer does not match the descriptor.
	ErrBufferSize = errors.New("rawview: buffer size mismatch")

	// ErrSessionClosed is returned when operations are attempted on a closed session.
	ErrSessionClosed = errors.New("rawview: session is closed")

	// ErrIO is returned when the source file cannot be opened or read.
	ErrIO = errors.New("rawview: i/o error")
)
