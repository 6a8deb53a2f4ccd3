// Package db persists reference tables in Postgres so a deployment can serve
// them without shipping CSV files.
package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/BrainPreserve/new-brain-healthy-meals/internal/refdata"
	"github.com/lib/pq"
)

const (
	selectRows = `SELECT columns, cells FROM reference_rows WHERE table_name = $1 ORDER BY position`
	deleteRows = `DELETE FROM reference_rows WHERE table_name = $1`
	insertRow  = `INSERT INTO reference_rows (table_name, position, columns, cells) VALUES ($1, $2, $3, $4)`
	countRows  = `SELECT table_name, count(*) FROM reference_rows GROUP BY table_name ORDER BY table_name`
)

// Store reads and writes reference tables. It implements refdata.Provider.
type Store struct {
	db *sql.DB
}

// New creates a Store.
func New(sqlDB *sql.DB) *Store {
	return &Store{db: sqlDB}
}

// Fetch loads every stored row of the named table in import order. A table
// with no stored rows is reported as refdata.ErrTableNotFound.
func (s *Store) Fetch(ctx context.Context, name refdata.TableName) (refdata.Table, error) {
	rows, err := s.db.QueryContext(ctx, selectRows, string(name))
	if err != nil {
		return refdata.Table{}, fmt.Errorf("query %s: %w", name, err)
	}
	defer rows.Close()

	t := refdata.Table{Name: name}
	for rows.Next() {
		var cols, cells []string
		if err := rows.Scan(pq.Array(&cols), pq.Array(&cells)); err != nil {
			return refdata.Table{}, fmt.Errorf("scan %s: %w", name, err)
		}
		t.Rows = append(t.Rows, refdata.RowOf(cols, cells))
	}
	if err := rows.Err(); err != nil {
		return refdata.Table{}, fmt.Errorf("iterate %s: %w", name, err)
	}
	if len(t.Rows) == 0 {
		return refdata.Table{}, fmt.Errorf("%s: %w", name, refdata.ErrTableNotFound)
	}
	return t, nil
}

// ReplaceTable atomically swaps the stored rows of t.Name for t.Rows.
func (s *Store) ReplaceTable(ctx context.Context, t refdata.Table) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, deleteRows, string(t.Name)); err != nil {
		return fmt.Errorf("clear %s: %w", t.Name, err)
	}

	stmt, err := tx.PrepareContext(ctx, insertRow)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range t.Rows {
		if _, err := stmt.ExecContext(ctx, string(t.Name), i, pq.Array(r.Columns()), pq.Array(r.Values())); err != nil {
			return fmt.Errorf("insert %s row %d: %w", t.Name, i, err)
		}
	}
	return tx.Commit()
}

// Counts returns the number of stored rows per table.
func (s *Store) Counts(ctx context.Context) (map[refdata.TableName]int, error) {
	rows, err := s.db.QueryContext(ctx, countRows)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[refdata.TableName]int)
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return nil, err
		}
		out[refdata.TableName(name)] = n
	}
	return out, rows.Err()
}
