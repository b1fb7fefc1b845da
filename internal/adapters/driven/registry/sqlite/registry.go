// Package sqlite provides a corpus registry backed by SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/paperchat/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.CorpusRegistry = (*Registry)(nil)

// schema bootstraps the registry table. The index name is the key: a
// corpus is ingested exactly when its row exists.
const schema = `
CREATE TABLE IF NOT EXISTS corpora (
	index_name  TEXT PRIMARY KEY,
	ingested_at TIMESTAMP NOT NULL
);
`

// Registry records which corpora have been ingested.
type Registry struct {
	db   *sql.DB
	path string
}

// NewRegistry creates a SQLite registry at the specified data directory.
// If dataDir is empty, defaults to ~/.paperchat/data/registry.db.
func NewRegistry(dataDir string) (*Registry, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".paperchat", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "registry.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating registry schema: %w", err)
	}

	return &Registry{
		db:   db,
		path: dbPath,
	}, nil
}

// Contains reports whether the corpus with the given index name has
// been ingested.
func (r *Registry) Contains(ctx context.Context, indexName string) (bool, error) {
	var exists int
	err := r.db.QueryRowContext(ctx,
		"SELECT 1 FROM corpora WHERE index_name = ?", indexName,
	).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("querying registry: %w", err)
	}
	return true, nil
}

// PutIfAbsent records the corpus as ingested. It returns true if this
// call inserted the row and false if the corpus was already present.
func (r *Registry) PutIfAbsent(ctx context.Context, indexName string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO corpora (index_name, ingested_at) VALUES (?, ?)",
		indexName, time.Now().UTC(),
	)
	if err != nil {
		return false, fmt.Errorf("inserting into registry: %w", err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking registry insert: %w", err)
	}
	return inserted > 0, nil
}

// List returns the index names of all ingested corpora, ordered by name.
func (r *Registry) List(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT index_name FROM corpora ORDER BY index_name")
	if err != nil {
		return nil, fmt.Errorf("listing registry: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning registry row: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating registry rows: %w", err)
	}
	return names, nil
}

// Delete removes the corpus row. Missing rows are not an error so that
// index deletion stays idempotent.
func (r *Registry) Delete(ctx context.Context, indexName string) error {
	if _, err := r.db.ExecContext(ctx,
		"DELETE FROM corpora WHERE index_name = ?", indexName); err != nil {
		return fmt.Errorf("deleting from registry: %w", err)
	}
	return nil
}

// Path returns the database file path.
func (r *Registry) Path() string {
	return r.path
}

// Close closes the database connection.
func (r *Registry) Close() error {
	return r.db.Close()
}
