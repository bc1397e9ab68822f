// Package throttle enforces a minimum interval between outbound requests.
// The last-request timestamp persists through the store, so the limit holds
// across process restarts; an in-process rate limiter guards the same bound
// within a single run.
package throttle

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// DefaultInterval is the minimum delay between requests the hosted service
// asks clients to observe.
const DefaultInterval = 500 * time.Millisecond

// Recorder persists the timestamp of the last outbound request.
type Recorder interface {
	LastRequest(ctx context.Context) (time.Time, error)
	SetLastRequest(ctx context.Context, t time.Time) error
}

// Throttle blocks callers until the minimum inter-request interval has
// elapsed since the persisted last request.
type Throttle struct {
	recorder Recorder
	interval time.Duration
	limiter  *rate.Limiter

	// injectable for tests
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a throttle with the given minimum interval. A zero interval
// falls back to DefaultInterval.
func New(recorder Recorder, interval time.Duration) *Throttle {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Throttle{
		recorder: recorder,
		interval: interval,
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
		now:      time.Now,
		sleep:    sleepCtx,
	}
}

// Wait blocks until the interval since the last recorded request has passed,
// then records the new request time.
func (t *Throttle) Wait(ctx context.Context) error {
	last, err := t.recorder.LastRequest(ctx)
	if err != nil {
		return eris.Wrap(err, "throttle: read last request")
	}

	if elapsed := t.now().Sub(last); elapsed < t.interval {
		if err := t.sleep(ctx, t.interval-elapsed); err != nil {
			return err
		}
	}

	if err := t.limiter.Wait(ctx); err != nil {
		return err
	}

	if err := t.recorder.SetLastRequest(ctx, t.now()); err != nil {
		return eris.Wrap(err, "throttle: record request")
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
