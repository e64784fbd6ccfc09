// Command rawview displays a headerless RGB24, NV12 or NV21 frame.
//
// Usage:
//
//	rawview [flags] file [format] width height
//
// Build with -tags gstreamer to enable the GStreamer backend.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gogpu/rawview/internal/cli"

	_ "github.com/gogpu/rawview/backend/gogpu"
	_ "github.com/gogpu/rawview/backend/gstreamer"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
