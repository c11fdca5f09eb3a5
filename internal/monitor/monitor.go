// Package monitor drives the fixed-cadence sampling loop: read the sensors,
// check the throttle alert, append to the log, refresh the console. One
// goroutine, strictly sequential per tick.
package monitor

import (
	"context"
	"time"

	"github.com/jasata/pithermon/internal/model"
)

// SampleReader produces one sensor snapshot per tick. The at argument is
// the tick's target time, not the wall-clock moment the call runs.
type SampleReader interface {
	Read(at time.Time) (model.Sample, error)
}

// Sink receives samples in tick order.
type Sink interface {
	Record(model.Sample) error
}

// Monitor samples at a fixed cadence. Ticks target absolute times advanced
// by Interval, so the long-run cadence holds even when single iterations
// run late: a late loop skips its sleep and re-syncs, it does not sleep
// extra to catch up.
type Monitor struct {
	Reader   SampleReader
	Interval time.Duration
	Console  Sink
	Log      Sink     // optional
	Alert    *Alerter // optional

	now   func() time.Time
	sleep func(context.Context, time.Duration)
}

// Run samples until ctx is cancelled. Cancellation is honored only at the
// tick boundary; a query in flight runs to completion first. Run returns
// nil on cancellation and the first reader or sink error otherwise.
func (m *Monitor) Run(ctx context.Context) error {
	now := m.now
	if now == nil {
		now = time.Now
	}
	sleep := m.sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	// Half-second head start so the first sleep cannot come out
	// negative.
	next := now().Add(500 * time.Millisecond)
	for {
		if d := next.Sub(now()); d > 0 {
			sleep(ctx, d)
		}
		if ctx.Err() != nil {
			return nil
		}

		s, err := m.Reader.Read(next)
		if err != nil {
			return err
		}
		if m.Alert != nil {
			m.Alert.Check(s)
		}
		if m.Log != nil {
			if err := m.Log.Record(s); err != nil {
				return err
			}
		}
		if err := m.Console.Record(s); err != nil {
			return err
		}
		next = next.Add(m.Interval)
	}
}

// sleepCtx waits for d or until ctx is cancelled, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
