package monitor

import (
	"io"
	"time"

	"github.com/jasata/pithermon/internal/model"
)

// Alerter rings the console bell while throttling is active, at most once
// per MinInterval. The first Check only arms the rate limit, so a run that
// starts already throttled does not open with a beep.
type Alerter struct {
	Out         io.Writer
	MinInterval time.Duration

	now      func() time.Time
	lastBeep time.Time
}

// Check inspects one sample and rings when due. Soft temperature limiting
// and the sticky has-occurred bits never ring.
func (a *Alerter) Check(s model.Sample) {
	now := a.now
	if now == nil {
		now = time.Now
	}
	if a.lastBeep.IsZero() {
		a.lastBeep = now()
	}
	if !s.Throttle.Active() {
		return
	}
	if t := now(); t.Sub(a.lastBeep) > a.MinInterval {
		a.lastBeep = t
		io.WriteString(a.Out, "\a")
	}
}
