// Package sampler collects Raspberry Pi sensor readings from the kernel and
// firmware interfaces: the sysfs thermal zone, /proc cumulative CPU
// counters via gopsutil, and the vcgencmd firmware tool. All queries are
// blocking and any failure is final; the package never substitutes values
// for sensors it cannot read.
package sampler

import (
	"time"

	"github.com/jasata/pithermon/internal/model"
)

// firmwareQuerier is the set of vcgencmd queries the package needs.
type firmwareQuerier interface {
	ClockARM() (float64, error)
	CoreVolts() (float64, error)
	GPUTemp() (float64, error)
	Throttled() (model.ThrottleWord, error)
	Version() (string, error)
}

// Reader collects one full sensor snapshot per tick. It owns the monitoring
// start instant, pinned by the first Read, and the load sampler's
// counter window.
type Reader struct {
	thermal  *thermalReader
	load     *LoadSampler
	firmware firmwareQuerier
	start    time.Time
}

// NewReader wires the production collaborators: the sysfs thermal zone,
// gopsutil tick counters and the vcgencmd firmware tool.
func NewReader() *Reader {
	return &Reader{
		thermal:  newThermalReader(),
		load:     NewLoadSampler(),
		firmware: newVCGencmd(),
	}
}

// Read collects one sample. The at argument is the scheduler's target tick
// time; the first call pins it as the start of monitoring, so Elapsed counts
// whole intervals from the first tick. Queries run strictly in sequence and
// the first failure aborts the read with no partial sample.
func (r *Reader) Read(at time.Time) (model.Sample, error) {
	if r.start.IsZero() {
		r.start = at
	}
	s := model.Sample{Elapsed: at.Sub(r.start)}

	var err error
	if s.CPUTemp, err = r.thermal.Read(); err != nil {
		return model.Sample{}, err
	}
	if s.CPULoad, err = r.load.Sample(); err != nil {
		return model.Sample{}, err
	}
	if s.CPUFreq, err = r.firmware.ClockARM(); err != nil {
		return model.Sample{}, err
	}
	if s.CPUVolts, err = r.firmware.CoreVolts(); err != nil {
		return model.Sample{}, err
	}
	if s.GPUTemp, err = r.firmware.GPUTemp(); err != nil {
		return model.Sample{}, err
	}
	if s.Throttle, err = r.firmware.Throttled(); err != nil {
		return model.Sample{}, err
	}
	return s, nil
}
