// Command pithermon samples Raspberry Pi thermal sensors at a fixed
// cadence, refreshes a one-line console status, and optionally appends
// every sample to a delimited log file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/jasata/pithermon/internal/config"
	"github.com/jasata/pithermon/internal/monitor"
	"github.com/jasata/pithermon/internal/sampler"
	"github.com/jasata/pithermon/internal/store"
	"github.com/jasata/pithermon/internal/ui"
)

// Version can be overridden at build time:
//
//	go build -ldflags "-X main.Version=x.y.z"
var Version = "0.6.0"

const banner = `
=============================================================================
University of Turku, Department of Future Technologies
ForeSail-1 / Raspberry Pi temperature and thermal throttling monitor
Version %s, 2018 Jani Tammi <jasata@utu.fi>
`

// Exit statuses: 0 on success or interrupt, 1 on I/O failures, 2 on bad
// configuration, 3 on a failed sensor query.
func main() {
	os.Exit(run())
}

func run() int {
	loadErr := godotenv.Load()
	if os.Getenv("PITHERMON_DEBUG") == "1" {
		log.SetLevel(log.DebugLevel)
	}
	if loadErr != nil {
		log.Debug("no .env file, using the system environment")
	}

	cfg, err := config.FromFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if cfg.Version {
		fmt.Printf("pithermon version %s\n", Version)
		return 0
	}
	log.WithFields(log.Fields{
		"verbosity": cfg.Verbosity,
		"dialect":   cfg.Dialect,
		"file":      cfg.File,
		"interval":  cfg.Interval,
		"alert":     cfg.Alert,
		"tui":       cfg.TUI,
	}).Debug("effective configuration")

	id, err := sampler.ProbeIdentity()
	if err != nil {
		log.WithError(err).Error("cannot identify this device")
		return exitCode(err)
	}

	if cfg.Interval < 500*time.Millisecond {
		log.Warn("intervals under 0.5 seconds are not recommended")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mon := &monitor.Monitor{
		Reader:   sampler.NewReader(),
		Interval: cfg.Interval,
	}
	if cfg.Alert > 0 {
		mon.Alert = &monitor.Alerter{Out: os.Stdout, MinInterval: cfg.Alert}
	}
	if cfg.File != "" {
		logSink, err := store.Create(cfg.File, cfg.Verbosity, cfg.Dialect, id, time.Now())
		if err != nil {
			log.WithError(err).Error("cannot open the log file")
			return 1
		}
		defer func() {
			if cerr := logSink.Close(); cerr != nil {
				log.WithError(cerr).Warn("closing the log file")
			}
		}()
		mon.Log = logSink
	}

	if cfg.TUI {
		return runDashboard(ctx, mon, id)
	}

	printBanner(id)
	console := ui.NewConsole(os.Stdout)
	mon.Console = console
	err = mon.Run(ctx)
	console.Finish()
	if err != nil {
		log.WithError(err).Error("monitoring failed")
		return exitCode(err)
	}
	return 0
}

// runDashboard drives the monitor and the full-screen dashboard together.
// Quitting the dashboard stops the monitor; a monitor failure tears the
// dashboard down.
func runDashboard(ctx context.Context, mon *monitor.Monitor, id sampler.Identity) int {
	stream := ui.NewStreamSink()
	mon.Console = stream

	g, gCtx := errgroup.WithContext(ctx)
	dctx, cancel := context.WithCancel(gCtx)
	g.Go(func() error {
		defer cancel()
		return ui.RunDashboard(dctx, id, stream.Samples())
	})
	g.Go(func() error {
		return mon.Run(dctx)
	})
	if err := g.Wait(); err != nil {
		log.WithError(err).Error("monitoring failed")
		return exitCode(err)
	}
	return 0
}

func printBanner(id sampler.Identity) {
	fmt.Printf(banner, Version)
	fmt.Printf("Running on Go ver.%s on %s %s\n",
		strings.TrimPrefix(runtime.Version(), "go"), id.OS, id.Kernel)
	fmt.Printf("%s, rev %s\n", id.Model, id.Revision)
	fmt.Printf("Serial: %s\n", id.Serial)
	if id.Cores > 0 {
		fmt.Printf("%d cores are available (%s)\n", id.Cores, id.Arch)
	} else {
		fmt.Printf("Unknown number of cores are available (%s)\n", id.Arch)
	}
	fmt.Println("GPU Firmware")
	for _, line := range strings.Split(strings.TrimRight(id.Firmware, "\n"), "\n") {
		fmt.Printf("\t%s\n", line)
	}
	fmt.Println("\nPress CTRL-C to terminate...")
}

func exitCode(err error) int {
	if sampler.IsQueryError(err) {
		return 3
	}
	return 1
}
