// Package gogpu provides a native window host for rawview using the
// gogpu/gogpu framework.
//
// gogpu owns the event loop of the main thread, so this host implements
// rawview.Looper: rawview.Run hands it a step function that is called once
// per drawn frame. Frames are converted to RGBA on the CPU, scaled to the
// window and uploaded through gpucontext.TextureCreator on the first draw;
// later frames go through gpucontext.TextureUpdater.
//
//	import _ "github.com/gogpu/rawview/backend/gogpu"
package gogpu

import "errors"

// Package errors for the gogpu host.
var (
	// ErrNotInitialized is returned when operations are called before Init.
	ErrNotInitialized = errors.New("gogpu: host not initialized")

	// ErrWindowExists is returned when a second window is requested.
	ErrWindowExists = errors.New("gogpu: host already has a window")

	// ErrInvalidDimensions is returned when width or height is invalid.
	ErrInvalidDimensions = errors.New("gogpu: invalid dimensions")

	// ErrDestroyed is returned when a released resource is used.
	ErrDestroyed = errors.New("gogpu: resource destroyed")

	// ErrForeignTexture is returned when a renderer is given a texture it did not create.
	ErrForeignTexture = errors.New("gogpu: texture belongs to another renderer")

	// ErrNoTextureCreator is returned when the draw context cannot create textures.
	ErrNoTextureCreator = errors.New("gogpu: draw context has no texture creator")
)
