package sampler

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// thermalZonePath is where the kernel exposes the SoC temperature in
// millidegrees Celsius.
const thermalZonePath = "/sys/class/thermal/thermal_zone0/temp"

// thermalReader reads the CPU temperature from sysfs. The path is a field so
// tests can point it at a fixture file.
type thermalReader struct {
	path string
}

func newThermalReader() *thermalReader {
	return &thermalReader{path: thermalZonePath}
}

// Read returns the SoC temperature in °C.
func (r *thermalReader) Read() (float64, error) {
	b, err := os.ReadFile(r.path)
	if err != nil {
		return 0, queryErr(MetricCPUTemp, err)
	}
	milli, err := strconv.ParseFloat(strings.TrimSpace(string(b)), 64)
	if err != nil {
		return 0, queryErr(MetricCPUTemp, fmt.Errorf("parsing %s: %w", r.path, err))
	}
	return milli / 1000, nil
}
