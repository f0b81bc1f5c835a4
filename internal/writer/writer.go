package writer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chiragsardana/zomato-scraper-for-research/internal/types"
)

// Sink is an append-only destination for extracted records.
type Sink interface {
	Write(rec types.Record) error
	Close() error
}

// FileWriter resolves output files inside one directory
type FileWriter struct {
	outputDir string
}

// New creates a new FileWriter instance
func New(outputDir string) (*FileWriter, error) {
	if outputDir == "" {
		outputDir = "."
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &FileWriter{outputDir: outputDir}, nil
}

// Path returns the location of name inside the output directory.
// Absolute names are returned unchanged.
func (w *FileWriter) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(w.outputDir, name)
}

// Create opens a CSV sink that replaces any previous file.
func (w *FileWriter) Create(name string, schema types.Schema) (*CSVSink, error) {
	return NewCSV(w.Path(name), schema, Truncate)
}

// Append opens a CSV sink that accumulates across runs.
func (w *FileWriter) Append(name string, schema types.Schema) (*CSVSink, error) {
	return NewCSV(w.Path(name), schema, Append)
}

// FileName builds "<prefix>_<city>.csv" with the city made filesystem safe.
func FileName(prefix, city string) string {
	return fmt.Sprintf("%s_%s.csv", prefix, sanitizeFilename(city))
}

// sanitizeFilename replaces characters that are unsafe in file names
func sanitizeFilename(name string) string {
	name = strings.TrimSpace(name)

	unsafe := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|", " "}
	for _, char := range unsafe {
		name = strings.ReplaceAll(name, char, "_")
	}

	if name == "" {
		return "unknown"
	}
	return name
}
