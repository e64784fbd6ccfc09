package rawview

import (
	"context"
	"time"
)

// DefaultPollInterval is the cadence used by the CLI between event polls.
const DefaultPollInterval = 10 * time.Millisecond

// RunOptions controls the polling loop driven by Run.
type RunOptions struct {
	// Interval is the pause between PollEvents calls. Zero polls
	// back-to-back without yielding, which burns a CPU core; it exists
	// for hosts that pace themselves.
	Interval time.Duration
}

// Run polls s until it reports Stop or ctx is done.
//
// If the session's host implements Looper, the host owns the loop and
// calls PollEvents once per frame; Interval is ignored in that case.
// When ctx is cancelled the session is closed and ctx.Err() is returned.
func Run(ctx context.Context, s *Session, opts RunOptions) error {
	if s.State() != StateReady {
		return ErrSessionClosed
	}

	if l, ok := s.host.(Looper); ok {
		err := l.Loop(func() bool {
			if ctx.Err() != nil {
				return false
			}
			return s.PollEvents() == Continue
		})
		// The window may have gone away without a quit event.
		_ = s.Close()
		if err != nil {
			return err
		}
		return ctx.Err()
	}

	var tick <-chan time.Time
	if opts.Interval > 0 {
		t := time.NewTicker(opts.Interval)
		defer t.Stop()
		tick = t.C
	}

	for {
		if s.PollEvents() == Stop {
			return nil
		}
		if tick == nil {
			select {
			case <-ctx.Done():
				_ = s.Close()
				return ctx.Err()
			default:
			}
			continue
		}
		select {
		case <-ctx.Done():
			_ = s.Close()
			return ctx.Err()
		case <-tick:
		}
	}
}
