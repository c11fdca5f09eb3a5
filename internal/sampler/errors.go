package sampler

import (
	"errors"
	"fmt"
)

// Metric identifies which hardware query produced an error.
type Metric string

const (
	MetricCPUTemp  Metric = "cpu_temp"
	MetricCPULoad  Metric = "cpu_load"
	MetricCPUFreq  Metric = "cpu_freq"
	MetricCPUVolts Metric = "cpu_volts"
	MetricGPUTemp  Metric = "gpu_temp"
	MetricThrottle Metric = "throttle"
	MetricModel    Metric = "model"
	MetricRevision Metric = "revision"
	MetricSerial   Metric = "serial"
	MetricFirmware Metric = "firmware"
	MetricHost     Metric = "host"
)

// QueryError wraps a failed hardware query with the metric that produced it.
// Every QueryError is fatal to a monitoring run: a sensor that cannot be
// read means an environment the tool must not keep reporting on, so there
// are no retries and no substitute values.
type QueryError struct {
	Metric Metric
	Err    error
}

// Error implements the error interface.
func (e *QueryError) Error() string {
	return fmt.Sprintf("%s query: %v", e.Metric, e.Err)
}

// Unwrap returns the underlying error for errors.Is/errors.As support.
func (e *QueryError) Unwrap() error { return e.Err }

func queryErr(m Metric, err error) error {
	return &QueryError{Metric: m, Err: err}
}

// IsQueryError reports whether err is or wraps a QueryError.
func IsQueryError(err error) bool {
	var qe *QueryError
	return errors.As(err, &qe)
}
