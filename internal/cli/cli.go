// Package cli implements the rawview command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gogpu/rawview"
	"github.com/gogpu/rawview/backend"
	"github.com/gogpu/rawview/internal/convert"
)

// ErrUsage reports malformed command line arguments.
var ErrUsage = errors.New("rawview: usage")

// opener resolves a backend name to a host.
type opener func(name string) (rawview.Host, error)

type config struct {
	backend  string
	title    string
	scale    int
	interval time.Duration
	snapshot string
	verbose  bool
}

// request is the parsed positional arguments.
type request struct {
	path   string
	tag    string
	width  int
	height int
}

// NewRootCommand returns the rawview root command.
func NewRootCommand() *cobra.Command {
	return newRootCommand(backend.Open)
}

func newRootCommand(open opener) *cobra.Command {
	var cfg config

	cmd := &cobra.Command{
		Use:   "rawview file [format] width height",
		Short: "Display a raw image buffer in a window",
		Long: fmt.Sprintf(`rawview reads one headerless frame from file and shows it in a window
until the window is closed or Escape is pressed.

Supported formats: %s (default rgb24).
A file shorter than the frame is zero-filled; extra bytes are ignored.`,
			strings.Join(rawview.Formats(), ", ")),
		Example:       "  rawview frame.nv12 nv12 1280 720\n  rawview --backend software --snapshot out.png frame.rgb 64 48",
		Args:          checkArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := parseArgs(args)
			if err != nil {
				return err
			}
			configureLogging(cmd.ErrOrStderr(), cfg.verbose)
			return run(cmd.Context(), cfg, req, open)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&cfg.backend, "backend", "b", backend.BackendAuto,
		fmt.Sprintf("graphics backend (%s or one of: %s)", backend.BackendAuto, strings.Join(backend.Available(), ", ")))
	flags.StringVarP(&cfg.title, "title", "t", rawview.DefaultTitle, "window title")
	flags.IntVarP(&cfg.scale, "scale", "s", 1, "integer window magnification")
	flags.DurationVar(&cfg.interval, "interval", rawview.DefaultPollInterval, "pause between event polls (0 polls continuously)")
	flags.StringVar(&cfg.snapshot, "snapshot", "", "also write the decoded frame to this .png or .jpg file")
	flags.BoolVarP(&cfg.verbose, "verbose", "v", false, "enable debug logging")

	return cmd
}

func checkArgs(_ *cobra.Command, args []string) error {
	if len(args) < 3 || len(args) > 4 {
		return fmt.Errorf("%w: expected file [format] width height, got %d argument(s)", ErrUsage, len(args))
	}
	return nil
}

// parseArgs splits "file [format] width height". The format defaults to
// rgb24 only when it is absent.
func parseArgs(args []string) (request, error) {
	if err := checkArgs(nil, args); err != nil {
		return request{}, err
	}
	req := request{path: args[0], tag: rawview.FormatRGB24.Tag()}
	dims := args[1:]
	if len(args) == 4 {
		req.tag = args[1]
		dims = args[2:]
	}

	var err error
	if req.width, err = strconv.Atoi(dims[0]); err != nil {
		return request{}, fmt.Errorf("%w: width %q is not an integer", ErrUsage, dims[0])
	}
	if req.height, err = strconv.Atoi(dims[1]); err != nil {
		return request{}, fmt.Errorf("%w: height %q is not an integer", ErrUsage, dims[1])
	}
	return req, nil
}

// configureLogging installs a text logger on w: warnings by default,
// everything with verbose.
func configureLogging(w io.Writer, verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	rawview.SetLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

func run(ctx context.Context, cfg config, req request, open opener) error {
	if cfg.interval < 0 {
		return fmt.Errorf("%w: interval must not be negative, got %s", ErrUsage, cfg.interval)
	}
	if cfg.scale < 1 {
		return fmt.Errorf("%w: scale must be at least 1, got %d", ErrUsage, cfg.scale)
	}

	d, err := rawview.Resolve(req.tag, req.width, req.height)
	if err != nil {
		return err
	}
	buf, err := rawview.LoadFrame(req.path, d)
	if err != nil {
		return err
	}
	if cfg.snapshot != "" {
		if err := writeSnapshot(cfg.snapshot, d, buf); err != nil {
			return err
		}
	}

	host, err := open(cfg.backend)
	if err != nil {
		return err
	}
	s, err := rawview.NewSession(host, d, rawview.WithTitle(cfg.title), rawview.WithScale(cfg.scale))
	if err != nil {
		return err
	}
	defer func() {
		_ = s.Close()
	}()

	rawview.Logger().Info("rawview: showing frame", "file", req.path, "frame", d.String(), "backend", host.Name())
	if err := s.Present(buf); err != nil {
		return err
	}
	err = rawview.Run(ctx, s, rawview.RunOptions{Interval: cfg.interval})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// writeSnapshot decodes the frame to RGBA and writes it as PNG or JPEG,
// depending on the extension of path.
func writeSnapshot(path string, d rawview.Descriptor, buf []byte) error {
	img, err := convert.Image(d, buf)
	if err != nil {
		return err
	}
	if err := convert.Save(path, img); err != nil {
		return fmt.Errorf("%w: snapshot: %w", rawview.ErrIO, err)
	}
	rawview.Logger().Debug("rawview: snapshot written", "path", path)
	return nil
}
