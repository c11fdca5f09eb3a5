// Package store handles the delimited sample log: a four-line metadata
// preamble, a header row, then one data row per tick. Rows are flushed as
// they are written so an interrupted run loses at most the in-flight row.
package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/jasata/pithermon/internal/format"
	"github.com/jasata/pithermon/internal/model"
	"github.com/jasata/pithermon/internal/sampler"
)

const preambleTimeLayout = "2006-01-02 15:04:05"

// Log is an open sample log. Field and decimal separators follow the
// dialect chosen at creation; the column set follows the verbosity.
type Log struct {
	file      *os.File
	writer    *csv.Writer
	verbosity format.Verbosity
	dialect   format.Dialect
}

// Create opens path for writing, truncating any previous log, and writes
// the metadata preamble and the header row. The caller owns the returned
// log and must Close it.
func Create(path string, v format.Verbosity, d format.Dialect, id sampler.Identity, start time.Time) (*Log, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open log: %w", err)
	}
	w := csv.NewWriter(f)
	w.Comma = d.Delimiter()
	// Spreadsheet-style row terminators, matching the files this log's
	// import setups were built around.
	w.UseCRLF = true

	w.Write([]string{"Date", start.Format(preambleTimeLayout)})
	w.Write([]string{"Device", id.Hostname})
	w.Write([]string{"Hardware", id.Model})
	w.Write([]string{"GPU Firmware", id.FirmwareLine()})
	w.Write(format.Header(v))
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return nil, fmt.Errorf("cannot write log preamble: %w", err)
	}

	return &Log{file: f, writer: w, verbosity: v, dialect: d}, nil
}

// Record appends one sample row and flushes it out.
func (l *Log) Record(s model.Sample) error {
	l.writer.Write(format.Row(s, l.verbosity, l.dialect))
	l.writer.Flush()
	if err := l.writer.Error(); err != nil {
		return fmt.Errorf("cannot write log row: %w", err)
	}
	return nil
}

// Close flushes pending rows and releases the file handle.
func (l *Log) Close() error {
	l.writer.Flush()
	err := l.writer.Error()
	if cerr := l.file.Close(); err == nil {
		err = cerr
	}
	return err
}
