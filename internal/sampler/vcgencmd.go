package sampler

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/jasata/pithermon/internal/model"
)

// vcgencmdFallback is where older firmware releases install the query tool
// when it is not on PATH.
const vcgencmdFallback = "/opt/vc/bin/vcgencmd"

// vcgencmd runs the Raspberry Pi firmware query tool. Most queries answer
// with a single "name=value" line. The binary path is resolved once at
// construction and kept as a field so tests can substitute a stub.
type vcgencmd struct {
	bin string
}

func newVCGencmd() *vcgencmd {
	if path, err := exec.LookPath("vcgencmd"); err == nil {
		return &vcgencmd{bin: path}
	}
	return &vcgencmd{bin: vcgencmdFallback}
}

func (v *vcgencmd) run(args ...string) (string, error) {
	out, err := exec.Command(v.bin, args...).Output()
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", v.bin, strings.Join(args, " "), err)
	}
	return string(out), nil
}

// firmwareValue extracts the text after '=' in a name=value answer.
func firmwareValue(out string) (string, error) {
	_, value, found := strings.Cut(out, "=")
	if !found {
		return "", fmt.Errorf("malformed firmware answer %q", strings.TrimSpace(out))
	}
	return strings.TrimSpace(value), nil
}

// parseMHz converts a measure_clock answer (Hz) to MHz.
func parseMHz(out string) (float64, error) {
	value, err := firmwareValue(out)
	if err != nil {
		return 0, err
	}
	hz, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing clock %q: %w", value, err)
	}
	return hz / 1e6, nil
}

// parseVolts converts a measure_volts answer such as "volt=1.3500V".
func parseVolts(out string) (float64, error) {
	value, err := firmwareValue(out)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(value, "V"), 64)
	if err != nil {
		return 0, fmt.Errorf("parsing voltage %q: %w", value, err)
	}
	return f, nil
}

// parseTempC converts a measure_temp answer such as "temp=53.0'C".
func parseTempC(out string) (float64, error) {
	value, err := firmwareValue(out)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(value, "'C"), 64)
	if err != nil {
		return 0, fmt.Errorf("parsing temperature %q: %w", value, err)
	}
	return f, nil
}

// parseThrottleWord converts a get_throttled answer such as
// "throttled=0x70000".
func parseThrottleWord(out string) (model.ThrottleWord, error) {
	value, err := firmwareValue(out)
	if err != nil {
		return 0, err
	}
	word, err := strconv.ParseUint(strings.TrimPrefix(value, "0x"), 16, 32)
	if err != nil {
		return 0, fmt.Errorf("parsing throttle word %q: %w", value, err)
	}
	return model.ThrottleWord(word), nil
}

// ClockARM returns the ARM core clock in MHz.
func (v *vcgencmd) ClockARM() (float64, error) {
	out, err := v.run("measure_clock", "arm")
	if err != nil {
		return 0, queryErr(MetricCPUFreq, err)
	}
	mhz, err := parseMHz(out)
	if err != nil {
		return 0, queryErr(MetricCPUFreq, err)
	}
	return mhz, nil
}

// CoreVolts returns the ARM/VideoCore core voltage in volts.
func (v *vcgencmd) CoreVolts() (float64, error) {
	out, err := v.run("measure_volts", "core")
	if err != nil {
		return 0, queryErr(MetricCPUVolts, err)
	}
	volts, err := parseVolts(out)
	if err != nil {
		return 0, queryErr(MetricCPUVolts, err)
	}
	return volts, nil
}

// GPUTemp returns the VideoCore temperature in °C.
func (v *vcgencmd) GPUTemp() (float64, error) {
	out, err := v.run("measure_temp")
	if err != nil {
		return 0, queryErr(MetricGPUTemp, err)
	}
	temp, err := parseTempC(out)
	if err != nil {
		return 0, queryErr(MetricGPUTemp, err)
	}
	return temp, nil
}

// Throttled returns the raw throttle status word.
func (v *vcgencmd) Throttled() (model.ThrottleWord, error) {
	out, err := v.run("get_throttled")
	if err != nil {
		return 0, queryErr(MetricThrottle, err)
	}
	word, err := parseThrottleWord(out)
	if err != nil {
		return 0, queryErr(MetricThrottle, err)
	}
	return word, nil
}

// Version returns the firmware version text, usually three lines.
func (v *vcgencmd) Version() (string, error) {
	out, err := v.run("version")
	if err != nil {
		return "", queryErr(MetricFirmware, err)
	}
	return out, nil
}
