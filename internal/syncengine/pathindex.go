package syncengine

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// PathIndex is the auxiliary path -> last-seen record the sync engine
// consults to learn which paths it previously indexed, since the vector
// store itself only supports lookup by path, not a full-collection scan.
// It is a thin durability layer, not the source of truth: the vector
// store's documents remain authoritative for content and tags.
type PathIndex struct {
	db *sql.DB
}

// OpenPathIndex opens (creating if absent) a SQLite-backed path index at
// dbPath.
func OpenPathIndex(dbPath string) (*PathIndex, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("syncengine: open path index: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS indexed_paths (path TEXT PRIMARY KEY, updated_at_unix INTEGER NOT NULL)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("syncengine: init path index schema: %w", err)
	}
	return &PathIndex{db: db}, nil
}

// Close releases the underlying database handle.
func (p *PathIndex) Close() error {
	return p.db.Close()
}

// Upsert records path as indexed at updatedAtUnix.
func (p *PathIndex) Upsert(path string, updatedAtUnix int64) error {
	_, err := p.db.Exec(
		`INSERT INTO indexed_paths (path, updated_at_unix) VALUES (?, ?)
		 ON CONFLICT(path) DO UPDATE SET updated_at_unix = excluded.updated_at_unix`,
		path, updatedAtUnix,
	)
	if err != nil {
		return fmt.Errorf("syncengine: upsert path index: %w", err)
	}
	return nil
}

// Delete removes path's record, used once its documents have been
// deleted from the store.
func (p *PathIndex) Delete(path string) error {
	if _, err := p.db.Exec(`DELETE FROM indexed_paths WHERE path = ?`, path); err != nil {
		return fmt.Errorf("syncengine: delete path index entry: %w", err)
	}
	return nil
}

// All returns every path currently recorded as indexed.
func (p *PathIndex) All() ([]string, error) {
	rows, err := p.db.Query(`SELECT path FROM indexed_paths`)
	if err != nil {
		return nil, fmt.Errorf("syncengine: list path index: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("syncengine: scan path index row: %w", err)
		}
		paths = append(paths, path)
	}
	return paths, rows.Err()
}
