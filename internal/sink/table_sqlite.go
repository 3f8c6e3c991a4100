//go:build sqlite

package sink

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteTable stores rows in long format: one record per (tick, column).
type SQLiteTable struct {
	db    *sql.DB
	runID string
	names []string
	tick  int
}

func newSQLiteTable(path, runID string, names []string) (Table, error) {
	return NewSQLiteTable(context.Background(), path, runID, names)
}

// NewSQLiteTable opens or creates the database at path.
func NewSQLiteTable(ctx context.Context, path, runID string, names []string) (*SQLiteTable, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS scores (
			run_id TEXT NOT NULL,
			tick INTEGER NOT NULL,
			time REAL NOT NULL,
			name TEXT NOT NULL,
			value REAL NOT NULL,
			PRIMARY KEY (run_id, tick, name)
		)
	`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create scores table: %w", err)
	}
	return &SQLiteTable{db: db, runID: runID, names: names}, nil
}

// Append inserts one row per column inside a single transaction.
func (s *SQLiteTable) Append(t float64, values []float64) error {
	if len(values) != len(s.names) {
		return fmt.Errorf("row has %d values, table has %d columns", len(values), len(s.names))
	}
	ctx := context.Background()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for i, v := range values {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO scores (run_id, tick, time, name, value) VALUES (?, ?, ?, ?, ?)`,
			s.runID, s.tick, t, s.names[i], v,
		); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.tick++
	return nil
}

// Series reads back the values of one column for a run, ordered by tick.
func (s *SQLiteTable) Series(ctx context.Context, runID, name string) ([]float64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT value FROM scores WHERE run_id = ? AND name = ? ORDER BY tick`, runID, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// Close closes the database.
func (s *SQLiteTable) Close() error { return s.db.Close() }
