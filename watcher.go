package poolstat

import (
	"context"
	"io"
	"time"

	"k8s.io/utils/clock"
)

// Watcher re-reports a single instance on a fixed interval, the way an
// operator watches a pool drain and refill during a phased restart. Each
// tick is an independent invocation: one query, one render. The first
// report happens immediately on Run.
type Watcher struct {
	reporter *Reporter
	loc      Locator
	interval time.Duration
	out      io.Writer

	clock clock.WithTicker
}

// NewWatcher constructs a Watcher reporting loc to out every interval.
func NewWatcher(r *Reporter, loc Locator, interval time.Duration, out io.Writer) *Watcher {
	return newWatcher(clock.RealClock{}, r, loc, interval, out)
}

func newWatcher(clk clock.WithTicker, r *Reporter, loc Locator, interval time.Duration, out io.Writer) *Watcher {
	return &Watcher{
		reporter: r,
		loc:      loc,
		interval: interval,
		out:      out,
		clock:    clk,
	}
}

// Run reports until the context is cancelled or a report fails. The first
// failing tick's error is returned as-is, so the caller can still tell a
// connection failure from a parse failure.
func (w *Watcher) Run(ctx context.Context) error {
	ticker := w.clock.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		if err := w.reporter.Report(w.out, w.loc); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C():
		}
	}
}
