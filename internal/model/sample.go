package model

import "time"

// Sample is one full sensor snapshot. The reader produces one per tick and
// the formatters write it straight out; samples are never retained.
type Sample struct {
	Elapsed  time.Duration // since monitoring start
	CPUTemp  float64       // SoC temperature, °C
	CPULoad  float64       // percent 0-100
	CPUFreq  float64       // ARM clock, MHz
	CPUVolts float64       // core voltage, V
	GPUTemp  float64       // VideoCore temperature, °C
	Throttle ThrottleWord
}
