package gstreamer

import (
	"errors"
	"sync"
)

// ErrDeinitialized is returned by Init once GStreamer has been torn down.
// GStreamer cannot be initialized again in the same process.
var ErrDeinitialized = errors.New("gstreamer: already deinitialized in this process")

// gstRuntime tracks the process-wide GStreamer library state shared by all
// hosts. The library is initialized on the first acquire and torn down when
// the last holder releases it.
type gstRuntime struct {
	mu       sync.Mutex
	refs     int
	done     bool
	startup  func()
	shutdown func()
}

func (r *gstRuntime) acquire() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done {
		return ErrDeinitialized
	}
	if r.refs == 0 {
		r.startup()
	}
	r.refs++
	return nil
}

func (r *gstRuntime) release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.refs == 0 {
		return
	}
	r.refs--
	if r.refs == 0 {
		r.done = true
		r.shutdown()
	}
}
