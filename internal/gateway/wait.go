package gateway

import (
	"context"
	"log/slog"
	"time"

	"github.com/cruciblehq/bifrost/internal/fault"
)

// Retry policy for [WaitReady].
type Backoff struct {
	Attempts int           // Maximum number of pings, at least one.
	Initial  time.Duration // Delay after the first failed ping.
	Max      time.Duration // Upper bound on the delay between pings.
	Timeout  time.Duration // Overall deadline, zero for none.
}

// Backoff used by the CLI.
var DefaultBackoff = Backoff{
	Attempts: 6,
	Initial:  250 * time.Millisecond,
	Max:      4 * time.Second,
	Timeout:  15 * time.Second,
}

// Anything that can report engine reachability.
type Pinger interface {
	Profile() string
	Ping(ctx context.Context) error
}

// Pings until the engine answers.
//
// Each failed ping doubles the delay, starting at b.Initial and capped at
// b.Max. When the attempts are exhausted or the deadline passes the last
// ping error is returned wrapped in [ErrTimeout].
func WaitReady(ctx context.Context, p Pinger, b Backoff) error {
	if b.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.Timeout)
		defer cancel()
	}

	attempts := max(b.Attempts, 1)
	delay := b.Initial

	var last error
	for attempt := 1; ; attempt++ {
		if last = p.Ping(ctx); last == nil {
			if attempt > 1 {
				slog.Debug("runtime ready", "profile", p.Profile(), "attempts", attempt)
			}
			return nil
		}

		if attempt >= attempts {
			break
		}

		slog.Debug("runtime not ready", "profile", p.Profile(), "attempt", attempt, "retry_in", delay, "error", last)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fault.Wrapf(ErrTimeout, "%s after %d attempts: %w", p.Profile(), attempt, last)
		case <-timer.C:
		}

		delay = min(delay*2, b.Max)
		if delay <= 0 {
			delay = b.Max
		}
	}

	return fault.Wrapf(ErrTimeout, "%s after %d attempts: %w", p.Profile(), attempts, last)
}
