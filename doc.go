// Package rawview displays a single raw, headerless pixel buffer in a window.
//
// # Overview
//
// A raw frame has no embedded metadata: the caller names its format and
// size. Resolve turns that into a Descriptor, the exact byte layout of the
// frame. A Session then acquires a window, renderer and streaming texture
// from a Host, uploads the frame once and reports quit or escape events.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/rawview"
//	    "github.com/gogpu/rawview/backend"
//	    _ "github.com/gogpu/rawview/backend/gogpu"
//	)
//
//	desc, err := rawview.Resolve("nv12", 1280, 720)
//	if err != nil {
//	    return err
//	}
//	buf, err := rawview.LoadFrame("frame.nv12", desc)
//	if err != nil {
//	    return err
//	}
//	host, err := backend.Open("auto")
//	if err != nil {
//	    return err
//	}
//	s, err := rawview.NewSession(host, desc)
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//	if err := s.Present(buf); err != nil {
//	    return err
//	}
//	return rawview.Run(ctx, s, rawview.RunOptions{Interval: rawview.DefaultPollInterval})
//
// # Formats
//
//   - rgb24: packed R, G, B bytes; w*h*3 bytes, stride w*3
//   - nv12: Y plane then interleaved Cb/Cr; w*h*3/2 bytes, stride w
//   - nv21: Y plane then interleaved Cr/Cb; w*h*3/2 bytes, stride w
//
// # Lifecycle
//
// A Session moves from Uninitialized to Ready on construction and to
// Closed when PollEvents reports Stop or Close is called. Construction
// failures release everything acquired so far before returning.
package rawview
