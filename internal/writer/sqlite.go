package writer

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	_ "modernc.org/sqlite"

	"github.com/chiragsardana/zomato-scraper-for-research/internal/types"
)

// SQLiteSink mirrors records into a table named after the schema. All
// columns are TEXT, in header order, so rows match the CSV exactly.
type SQLiteSink struct {
	db     *sql.DB
	schema types.Schema
	insert *sql.Stmt
}

// NewSQLite opens (or creates) the database at path and ensures the table
// for schema exists.
func NewSQLite(path string, schema types.Schema) (*SQLiteSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	table := columnName(schema.Name)
	cols := make([]string, len(schema.Header))
	defs := make([]string, len(schema.Header))
	marks := make([]string, len(schema.Header))
	for i, h := range schema.Header {
		cols[i] = columnName(h)
		defs[i] = cols[i] + " TEXT"
		marks[i] = "?"
	}

	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", table, strings.Join(defs, ", "))
	if _, err := db.Exec(ddl); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", table, err)
	}

	stmt, err := db.Prepare(fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), strings.Join(marks, ", ")))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to prepare insert for %s: %w", table, err)
	}

	return &SQLiteSink{db: db, schema: schema, insert: stmt}, nil
}

func (s *SQLiteSink) Write(rec types.Record) error {
	fields := rec.Fields()
	if len(fields) != len(s.schema.Header) {
		return fmt.Errorf("record has %d fields, %s expects %d", len(fields), s.schema.Name, len(s.schema.Header))
	}
	args := make([]any, len(fields))
	for i, f := range fields {
		args[i] = f
	}
	if _, err := s.insert.Exec(args...); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", s.schema.Name, err)
	}
	return nil
}

func (s *SQLiteSink) Close() error {
	_ = s.insert.Close()
	return s.db.Close()
}

// columnName turns "CostForOne" into "cost_for_one".
func columnName(name string) string {
	var b strings.Builder
	for i, r := range name {
		switch {
		case unicode.IsUpper(r):
			if i > 0 && !unicode.IsUpper(rune(name[i-1])) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
