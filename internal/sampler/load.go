package sampler

import (
	"errors"

	"github.com/shirou/gopsutil/v3/cpu"
)

// counterSnapshot holds cumulative scheduler ticks: the categories that
// count as busy time, and the grand total including idle time.
type counterSnapshot struct {
	active float64
	total  float64
}

// snapshot folds an aggregate times reading into busy and total ticks.
// User, nice, system, softirq and steal count as busy; idle, iowait, irq and
// the guest categories only add to the total.
func snapshot(t cpu.TimesStat) counterSnapshot {
	active := t.User + t.Nice + t.System + t.Softirq + t.Steal
	return counterSnapshot{
		active: active,
		total:  active + t.Idle + t.Iowait + t.Irq + t.Guest + t.GuestNice,
	}
}

// LoadSampler computes CPU load from consecutive cumulative counter
// readings. Each instance keeps exactly the previous snapshot between
// calls, so it measures load over its own call-to-call window and separate
// instances never contaminate each other.
type LoadSampler struct {
	times  func() (cpu.TimesStat, error)
	prev   counterSnapshot
	primed bool
}

// NewLoadSampler returns a sampler reading aggregate CPU times via gopsutil.
func NewLoadSampler() *LoadSampler {
	return &LoadSampler{times: aggregateTimes}
}

func aggregateTimes() (cpu.TimesStat, error) {
	times, err := cpu.Times(false)
	if err != nil {
		return cpu.TimesStat{}, err
	}
	if len(times) == 0 {
		return cpu.TimesStat{}, errors.New("no aggregate cpu times")
	}
	return times[0], nil
}

// Sample returns the load percentage over the window since the previous
// call. The first call only initializes the window and returns 0; a window
// in which no ticks elapsed also returns 0.
func (l *LoadSampler) Sample() (float64, error) {
	t, err := l.times()
	if err != nil {
		return 0, queryErr(MetricCPULoad, err)
	}
	cur := snapshot(t)
	if !l.primed {
		l.prev = cur
		l.primed = true
		return 0, nil
	}
	prev := l.prev
	l.prev = cur

	dTotal := cur.total - prev.total
	if dTotal <= 0 {
		return 0, nil
	}
	load := 100 * (dTotal - (cur.active - prev.active)) / dTotal
	if load < 0 {
		load = 0
	} else if load > 100 {
		load = 100
	}
	return load, nil
}
