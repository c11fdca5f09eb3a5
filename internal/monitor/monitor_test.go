package monitor

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/jasata/pithermon/internal/model"
)

// fakeClock drives the scheduler without real sleeps. Sleeping advances
// the clock by the full requested duration.
type fakeClock struct {
	t     time.Time
	slept []time.Duration
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) sleep(_ context.Context, d time.Duration) {
	c.slept = append(c.slept, d)
	c.t = c.t.Add(d)
}

// tickReader records the target time of every read.
type tickReader struct {
	reads []time.Time
	word  model.ThrottleWord
	trace *[]string
	fail  error
}

func (r *tickReader) Read(at time.Time) (model.Sample, error) {
	if r.fail != nil {
		return model.Sample{}, r.fail
	}
	r.reads = append(r.reads, at)
	if r.trace != nil {
		*r.trace = append(*r.trace, "read")
	}
	return model.Sample{CPUTemp: float64(len(r.reads)), Throttle: r.word}, nil
}

type recordSink struct {
	name     string
	trace    *[]string
	samples  []model.Sample
	fail     error
	onRecord func()
}

func (s *recordSink) Record(smp model.Sample) error {
	if s.trace != nil {
		*s.trace = append(*s.trace, s.name)
	}
	if s.fail != nil {
		return s.fail
	}
	s.samples = append(s.samples, smp)
	if s.onRecord != nil {
		s.onRecord()
	}
	return nil
}

// cancelAfter cancels the context once the console has seen n samples.
func cancelAfter(s *recordSink, n int, cancel context.CancelFunc) {
	s.onRecord = func() {
		if len(s.samples) == n {
			cancel()
		}
	}
}

func TestMonitorCadence(t *testing.T) {
	start := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{t: start}
	reader := &tickReader{}
	console := &recordSink{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cancelAfter(console, 3, cancel)

	m := &Monitor{
		Reader:   reader,
		Interval: time.Second,
		Console:  console,
		now:      clock.now,
		sleep:    clock.sleep,
	}
	if err := m.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	wantReads := []time.Time{
		start.Add(500 * time.Millisecond),
		start.Add(1500 * time.Millisecond),
		start.Add(2500 * time.Millisecond),
	}
	if !reflect.DeepEqual(reader.reads, wantReads) {
		t.Errorf("read targets = %v, want %v", reader.reads, wantReads)
	}
	// The fourth sleep runs before the cancellation is seen at the tick
	// boundary.
	wantSleeps := []time.Duration{500 * time.Millisecond, time.Second, time.Second, time.Second}
	if !reflect.DeepEqual(clock.slept, wantSleeps) {
		t.Errorf("sleeps = %v, want %v", clock.slept, wantSleeps)
	}
	if len(console.samples) != 3 {
		t.Errorf("console saw %d samples, want 3", len(console.samples))
	}
}

func TestMonitorSkipsSleepWhenBehind(t *testing.T) {
	start := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{t: start}
	reader := &tickReader{}
	console := &recordSink{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	console.onRecord = func() {
		switch len(console.samples) {
		case 1:
			// A slow iteration: 2.7 intervals pass inside the tick.
			clock.t = clock.t.Add(2700 * time.Millisecond)
		case 4:
			cancel()
		}
	}

	m := &Monitor{
		Reader:   reader,
		Interval: time.Second,
		Console:  console,
		now:      clock.now,
		sleep:    clock.sleep,
	}
	if err := m.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Late ticks run back to back without sleeping, then the cadence
	// re-syncs on the next future target.
	wantReads := []time.Time{
		start.Add(500 * time.Millisecond),
		start.Add(1500 * time.Millisecond),
		start.Add(2500 * time.Millisecond),
		start.Add(3500 * time.Millisecond),
	}
	if !reflect.DeepEqual(reader.reads, wantReads) {
		t.Errorf("read targets = %v, want %v", reader.reads, wantReads)
	}
	wantSleeps := []time.Duration{500 * time.Millisecond, 300 * time.Millisecond, time.Second}
	if !reflect.DeepEqual(clock.slept, wantSleeps) {
		t.Errorf("sleeps = %v, want %v", clock.slept, wantSleeps)
	}
}

func TestMonitorTickOrder(t *testing.T) {
	start := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{t: start}
	var trace []string

	reader := &tickReader{word: 0x4, trace: &trace} // actively throttled
	logSink := &recordSink{name: "log", trace: &trace}
	console := &recordSink{name: "console", trace: &trace}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cancelAfter(console, 2, cancel)

	m := &Monitor{
		Reader:   reader,
		Interval: time.Second,
		Console:  console,
		Log:      logSink,
		Alert: &Alerter{
			Out:      traceWriter{&trace},
			now:      clock.now,
			lastBeep: start.Add(-time.Hour),
		},
		now:   clock.now,
		sleep: clock.sleep,
	}
	if err := m.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []string{
		"read", "bell", "log", "console",
		"read", "bell", "log", "console",
	}
	if !reflect.DeepEqual(trace, want) {
		t.Errorf("tick order = %v, want %v", trace, want)
	}
}

func TestMonitorReaderErrorStopsRun(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)}
	cause := errors.New("query failed")
	console := &recordSink{}

	m := &Monitor{
		Reader:   &tickReader{fail: cause},
		Interval: time.Second,
		Console:  console,
		now:      clock.now,
		sleep:    clock.sleep,
	}
	if err := m.Run(context.Background()); !errors.Is(err, cause) {
		t.Fatalf("Run() error = %v, want %v", err, cause)
	}
	if len(console.samples) != 0 {
		t.Errorf("console saw %d samples after a failed read", len(console.samples))
	}
}

func TestMonitorLogErrorStopsRun(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)}
	cause := errors.New("disk full")
	console := &recordSink{}

	m := &Monitor{
		Reader:   &tickReader{},
		Interval: time.Second,
		Console:  console,
		Log:      &recordSink{fail: cause},
		now:      clock.now,
		sleep:    clock.sleep,
	}
	if err := m.Run(context.Background()); !errors.Is(err, cause) {
		t.Fatalf("Run() error = %v, want %v", err, cause)
	}
	if len(console.samples) != 0 {
		t.Errorf("console saw %d samples after a failed log write", len(console.samples))
	}
}

func TestMonitorCancelledBeforeFirstTick(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)}
	reader := &tickReader{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := &Monitor{
		Reader:   reader,
		Interval: time.Second,
		Console:  &recordSink{},
		now:      clock.now,
		sleep:    clock.sleep,
	}
	if err := m.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(reader.reads) != 0 {
		t.Errorf("reader ran %d times after cancellation", len(reader.reads))
	}
}
