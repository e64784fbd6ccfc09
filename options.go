package rawview

import "log/slog"

// DefaultTitle is the window title used when none is configured.
const DefaultTitle = "RawImageViewer"

// Option configures a Session during creation.
//
// Example:
//
//	s, err := rawview.NewSession(host, desc,
//	    rawview.WithTitle("frame.nv12"),
//	    rawview.WithScale(2))
type Option func(*sessionOptions)

// sessionOptions holds optional configuration for Session creation.
type sessionOptions struct {
	title  string
	scale  int
	logger *slog.Logger
}

// defaultOptions returns the default session options.
func defaultOptions() sessionOptions {
	return sessionOptions{
		title: DefaultTitle,
		scale: 1,
	}
}

// WithTitle sets the window title.
func WithTitle(title string) Option {
	return func(o *sessionOptions) {
		if title != "" {
			o.title = title
		}
	}
}

// WithScale sets an integer window magnification. The window is
// scale times the frame size; the texture keeps the frame size.
// Values below 1 are ignored.
func WithScale(scale int) Option {
	return func(o *sessionOptions) {
		if scale >= 1 {
			o.scale = scale
		}
	}
}

// WithLogger sets the logger for this session only.
// By default the session logs through Logger().
func WithLogger(l *slog.Logger) Option {
	return func(o *sessionOptions) {
		o.logger = l
	}
}
