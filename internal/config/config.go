package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jasata/pithermon/internal/format"
)

// Config carries runtime options for pithermon.
type Config struct {
	Verbosity format.Verbosity
	Dialect   format.Dialect
	File      string        // log file path, empty for console-only runs
	Interval  time.Duration // measurement cadence
	Alert     time.Duration // minimum time between throttle bells, 0 disables
	TUI       bool          // full-screen dashboard instead of the console line
	Version   bool          // print the version and exit
}

func Default() Config {
	return Config{
		Verbosity: format.Standard,
		Dialect:   format.Excel,
		File:      "",
		Interval:  time.Second,
		Alert:     0,
		TUI:       false,
	}
}

// FromFlags parses flags and environment overrides. Flag values accept
// intervals either as Go durations ("500ms") or bare seconds ("0.5").
func FromFlags(args []string) (Config, error) {
	cfg := Default()
	var (
		verbosity = cfg.Verbosity.String()
		dialect   = cfg.Dialect.String()
		interval  = "1s"
		alert     = ""
	)
	fs := flag.NewFlagSet("pithermon", flag.ContinueOnError)
	fs.StringVar(&verbosity, "verbosity", verbosity, "column set: basic|standard|full")
	fs.StringVar(&cfg.File, "file", cfg.File, "log samples into this file")
	fs.StringVar(&dialect, "dialect", dialect, "log dialect: excel|finnish")
	fs.StringVar(&interval, "interval", interval, "measurement interval in seconds")
	fs.StringVar(&alert, "alert", alert, "minimum seconds between throttle bells, 0 to disable")
	fs.BoolVar(&cfg.TUI, "tui", cfg.TUI, "full-screen dashboard instead of the console line")
	fs.BoolVar(&cfg.Version, "version", cfg.Version, "print the version and exit")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if v := os.Getenv("PITHERMON_VERBOSITY"); v != "" {
		verbosity = v
	}
	if v := os.Getenv("PITHERMON_DIALECT"); v != "" {
		dialect = v
	}
	if v := os.Getenv("PITHERMON_FILE"); v != "" {
		cfg.File = v
	}
	if v := os.Getenv("PITHERMON_INTERVAL"); v != "" {
		interval = v
	}
	if v := os.Getenv("PITHERMON_ALERT"); v != "" {
		alert = v
	}
	if v := os.Getenv("PITHERMON_TUI"); v == "1" {
		cfg.TUI = true
	}

	var err error
	if cfg.Verbosity, err = format.ParseVerbosity(verbosity); err != nil {
		return Config{}, err
	}
	if cfg.Dialect, err = format.ParseDialect(dialect); err != nil {
		return Config{}, err
	}
	if cfg.Interval, err = parseSeconds(interval); err != nil {
		return Config{}, fmt.Errorf("invalid interval %q: %w", interval, err)
	}
	if cfg.Interval <= 0 {
		return Config{}, fmt.Errorf("interval must be positive, got %v", cfg.Interval)
	}
	if alert != "" {
		if cfg.Alert, err = parseSeconds(alert); err != nil {
			return Config{}, fmt.Errorf("invalid alert interval %q: %w", alert, err)
		}
		if cfg.Alert < 0 {
			return Config{}, fmt.Errorf("alert interval cannot be negative, got %v", cfg.Alert)
		}
	}
	return cfg, nil
}

// parseSeconds reads either a Go duration or a bare number of seconds.
func parseSeconds(v string) (time.Duration, error) {
	if d, err := time.ParseDuration(v); err == nil {
		return d, nil
	}
	d, err := time.ParseDuration(v + "s")
	if err != nil {
		return 0, fmt.Errorf("expected a duration or seconds")
	}
	return d, nil
}
