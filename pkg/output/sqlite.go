package output

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	// Registers the pure-Go "sqlite" driver.
	_ "modernc.org/sqlite"

	"github.com/ccollicutt/ascflat/pkg/unify"
)

// SQLiteWriter stores the table in a SQLite database file. Empty cells
// become NULL.
type SQLiteWriter struct {
	table string
}

// NewSQLiteWriter creates a writer that fills the named table. The name
// must already be validated as an identifier.
func NewSQLiteWriter(table string) *SQLiteWriter {
	return &SQLiteWriter{table: table}
}

// Name returns the format name.
func (s *SQLiteWriter) Name() string {
	return "sqlite"
}

// WriteFile replaces path with a fresh database holding the table.
func (s *SQLiteWriter) WriteFile(ctx context.Context, table *unify.Table, path string) (err error) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing existing database: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing database: %w", cerr)
		}
	}()

	if _, err := db.ExecContext(ctx, s.createStatement()); err != nil {
		return fmt.Errorf("creating table: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, s.insertStatement())
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i := range table.Rows {
		if _, err := stmt.ExecContext(ctx, table.Rows[i].Values()...); err != nil {
			return fmt.Errorf("inserting row %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

func (s *SQLiteWriter) createStatement() string {
	cols := make([]string, len(unify.Columns))
	for i, c := range unify.Columns {
		cols[i] = fmt.Sprintf("%q %s", c.Name, sqliteType(c.Type))
	}
	return fmt.Sprintf("CREATE TABLE %q (%s)", s.table, strings.Join(cols, ", "))
}

func (s *SQLiteWriter) insertStatement() string {
	names := make([]string, len(unify.Columns))
	marks := make([]string, len(unify.Columns))
	for i, c := range unify.Columns {
		names[i] = fmt.Sprintf("%q", c.Name)
		marks[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO %q (%s) VALUES (%s)",
		s.table, strings.Join(names, ", "), strings.Join(marks, ", "))
}

func sqliteType(t unify.ColumnType) string {
	switch t {
	case unify.TypeInt:
		return "INTEGER"
	case unify.TypeFloat:
		return "REAL"
	default:
		return "TEXT"
	}
}
