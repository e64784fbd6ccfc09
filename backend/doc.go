// Package backend provides the pluggable graphics hosts a rawview.Session
// draws through.
//
// # Host Registration
//
// Hosts are registered via init() functions and selected at runtime.
// The headless software host is registered on import of this package;
// native hosts register when their package is imported:
//
//	import _ "github.com/gogpu/rawview/backend/gogpu"
//
// # Host Selection
//
// Use Default() to get the best available host, or Get() to request
// a specific host by name:
//
//	h := backend.Default()
//	h := backend.Get("software")
//	h, err := backend.Open(flagValue) // "" and "auto" mean Default()
//
// # Available Hosts
//
//   - "gogpu": native GPU window via gogpu (backend/gogpu)
//   - "gstreamer": GStreamer video sink, build tag gstreamer (backend/gstreamer)
//   - "software": in-memory surface, no window (always available)
package backend
