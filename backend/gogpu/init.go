package gogpu

import (
	"github.com/gogpu/rawview"
	"github.com/gogpu/rawview/backend"
)

// init registers the gogpu host on package import.
// This enables automatic host selection when using backend.Default().
func init() {
	backend.Register(backend.BackendGoGPU, func() rawview.Host {
		return NewHost()
	})
}
