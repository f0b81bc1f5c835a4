package writer

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chiragsardana/zomato-scraper-for-research/internal/types"
)

// Mode selects how an existing CSV file is treated.
type Mode int

const (
	// Truncate starts a fresh file and always writes the header.
	Truncate Mode = iota
	// Append keeps existing rows and writes the header only for a new file.
	Append
)

// CSVSink appends records to one CSV file. Every row is flushed before
// Write returns so a crash never loses accepted records.
type CSVSink struct {
	path   string
	file   *os.File
	writer *csv.Writer
	schema types.Schema
}

// NewCSV opens path and writes the schema header when required by mode.
func NewCSV(path string, schema types.Schema, mode Mode) (*CSVSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	writeHeader := true
	flags := os.O_CREATE | os.O_WRONLY
	switch mode {
	case Append:
		flags |= os.O_APPEND
		if info, err := os.Stat(path); err == nil && info.Size() > 0 {
			writeHeader = false
		}
	default:
		flags |= os.O_TRUNC
	}

	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv file %s: %w", path, err)
	}

	s := &CSVSink{path: path, file: f, writer: csv.NewWriter(f), schema: schema}
	if writeHeader {
		if err := s.writeRow(schema.Header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write csv header for %s: %w", path, err)
		}
	}
	return s, nil
}

// Path returns the file the sink writes to.
func (s *CSVSink) Path() string {
	return s.path
}

// Write appends rec as one row.
func (s *CSVSink) Write(rec types.Record) error {
	fields := rec.Fields()
	if len(fields) != len(s.schema.Header) {
		return fmt.Errorf("record has %d fields, %s expects %d", len(fields), s.schema.Name, len(s.schema.Header))
	}
	if err := s.writeRow(fields); err != nil {
		return fmt.Errorf("failed to write row to %s: %w", s.path, err)
	}
	return nil
}

func (s *CSVSink) writeRow(row []string) error {
	if err := s.writer.Write(row); err != nil {
		return err
	}
	s.writer.Flush()
	return s.writer.Error()
}

// Close flushes and closes the file.
func (s *CSVSink) Close() error {
	s.writer.Flush()
	flushErr := s.writer.Error()
	if err := s.file.Close(); err != nil {
		return err
	}
	return flushErr
}
