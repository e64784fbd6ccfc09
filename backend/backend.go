package backend

import "errors"

// Host name constants.
const (
	// BackendAuto selects the best registered host.
	BackendAuto = "auto"
	// BackendGoGPU is the name of the native GPU window host (backend/gogpu).
	BackendGoGPU = "gogpu"
	// BackendGStreamer is the name of the GStreamer video-sink host (backend/gstreamer).
	BackendGStreamer = "gstreamer"
	// BackendSoftware is the name of the headless in-memory host.
	BackendSoftware = "software"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested host is not registered.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNotInitialized is returned when a host is used before Init.
	ErrNotInitialized = errors.New("backend: not initialized")

	// ErrDestroyed is returned when a released resource is used.
	ErrDestroyed = errors.New("backend: resource destroyed")

	// ErrForeignTexture is returned when a renderer is given a texture it did not create.
	ErrForeignTexture = errors.New("backend: texture belongs to another renderer")
)
