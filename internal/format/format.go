// Package format renders samples as the live console line and as delimited
// log rows. Log output is verbosity-tiered and dialect-aware: the field
// delimiter and the decimal separator of numeric values are selected as a
// pair.
package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jasata/pithermon/internal/model"
)

// Verbosity selects which columns are logged. Each level is a strict
// superset of the previous one.
type Verbosity int

const (
	Basic Verbosity = iota
	Standard
	Full
)

// ParseVerbosity accepts the level names case-insensitively.
func ParseVerbosity(s string) (Verbosity, error) {
	switch strings.ToUpper(s) {
	case "BASIC":
		return Basic, nil
	case "STANDARD":
		return Standard, nil
	case "FULL":
		return Full, nil
	}
	return 0, fmt.Errorf("unknown logging level %q (want BASIC, STANDARD or FULL)", s)
}

func (v Verbosity) String() string {
	switch v {
	case Basic:
		return "BASIC"
	case Standard:
		return "STANDARD"
	case Full:
		return "FULL"
	}
	return fmt.Sprintf("Verbosity(%d)", int(v))
}

// Dialect pairs the log field delimiter with the decimal separator used in
// numeric values. Spreadsheet locales that write decimals with ',' need ';'
// between fields.
type Dialect int

const (
	Excel   Dialect = iota // ',' fields, '.' decimals
	Finnish                // ';' fields, ',' decimals
)

// ParseDialect accepts the dialect names case-insensitively.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(s) {
	case "excel":
		return Excel, nil
	case "finnish":
		return Finnish, nil
	}
	return 0, fmt.Errorf("unknown dialect %q (want excel or finnish)", s)
}

func (d Dialect) String() string {
	if d == Finnish {
		return "finnish"
	}
	return "excel"
}

// Delimiter returns the field separator for csv writers.
func (d Dialect) Delimiter() rune {
	if d == Finnish {
		return ';'
	}
	return ','
}

// Ftoa renders f to one decimal place with the dialect's decimal separator.
// The value is rounded first and the separator applied to the single radix
// point of the fixed-precision result, so a string is never substituted
// twice.
func Ftoa(f float64, d Dialect) string {
	s := strconv.FormatFloat(f, 'f', 1, 64)
	if d != Finnish {
		return s
	}
	i := strings.IndexByte(s, '.')
	return s[:i] + "," + s[i+1:]
}

// Clock formats an elapsed duration as HH:MM:SS. Hours keep counting past 23
// on long captures.
func Clock(d time.Duration) string {
	t := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", t/3600, t%3600/60, t%60)
}

// field binds a log column name to its value renderer. Header and row walk
// the same table, so the two can never drift apart.
type field struct {
	name   string
	render func(model.Sample, Dialect) string
}

func floatField(name string, pick func(model.Sample) float64) field {
	return field{name, func(s model.Sample, d Dialect) string {
		return Ftoa(pick(s), d)
	}}
}

func flagField(name string, bit model.ThrottleWord) field {
	return field{name, func(s model.Sample, _ Dialect) string {
		if s.Throttle&bit != 0 {
			return "1"
		}
		return "0"
	}}
}

var (
	fieldTime = field{"Time", func(s model.Sample, _ Dialect) string {
		return Clock(s.Elapsed)
	}}
	fieldCPUTemp  = floatField("CPU Temperature", func(s model.Sample) float64 { return s.CPUTemp })
	fieldCPULoad  = floatField("CPU Load", func(s model.Sample) float64 { return s.CPULoad })
	fieldCPUFreq  = floatField("CPU MHz", func(s model.Sample) float64 { return s.CPUFreq })
	fieldCPUVolts = floatField("CPU Volts", func(s model.Sample) float64 { return s.CPUVolts })
	fieldGPUTemp  = floatField("GPU Temperature", func(s model.Sample) float64 { return s.GPUTemp })

	fieldUnderVoltage = flagField("Undervoltage", model.UnderVoltageNow)
	fieldFreqCapped   = flagField("ARM Frequency Capped", model.FreqCappedNow)
	fieldThrottled    = flagField("Throttled", model.ThrottledNow)
	fieldUVOccurred   = flagField("Undervoltage has occurred", model.UnderVoltageEver)
	fieldCapOccurred  = flagField("ARM Frequency Capping has occurred", model.FreqCappedEver)
	fieldThrOccurred  = flagField("Throttling has occurred", model.ThrottledEver)
)

var fieldTable = map[Verbosity][]field{
	Basic: {
		fieldTime, fieldCPUTemp, fieldCPUFreq,
		fieldFreqCapped, fieldThrottled,
	},
	Standard: {
		fieldTime, fieldCPUTemp, fieldCPULoad, fieldCPUFreq, fieldCPUVolts,
		fieldUnderVoltage, fieldFreqCapped, fieldThrottled,
	},
	Full: {
		fieldTime, fieldCPUTemp, fieldCPULoad, fieldCPUFreq, fieldCPUVolts, fieldGPUTemp,
		fieldUnderVoltage, fieldFreqCapped, fieldThrottled,
		fieldUVOccurred, fieldCapOccurred, fieldThrOccurred,
	},
}

// Header returns the ordered column names for a verbosity level.
func Header(v Verbosity) []string {
	fields := fieldTable[v]
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.name
	}
	return names
}

// Row renders one log record for the verbosity level and dialect. Flag
// columns carry 1 or 0.
func Row(s model.Sample, v Verbosity, d Dialect) []string {
	fields := fieldTable[v]
	values := make([]string, len(fields))
	for i, f := range fields {
		values[i] = f.render(s, d)
	}
	return values
}

// ConsoleLine renders the live status line. It always carries the full set
// of readings regardless of the configured logging level.
func ConsoleLine(s model.Sample) string {
	return fmt.Sprintf("[%s] CPU: %4.1fºC %1.2fV %5.1f%% @ %6.1f MHz, GPU: %4.1fºC [%s]",
		Clock(s.Elapsed), s.CPUTemp, s.CPUVolts, s.CPULoad, s.CPUFreq, s.GPUTemp,
		s.Throttle.Tag())
}
