package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// LocalStore is the embedded fallback tier for document and asset
// persistence. It holds JSON documents keyed by (collection, id) and raw
// asset payloads, and is always available even when every remote tier is
// down.
type LocalStore struct {
	db *sql.DB
}

// NewLocalStore opens (or creates) the SQLite database at path.
func NewLocalStore(path string) (*LocalStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create local store dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	// SQLite handles one writer at a time; serialize access through a single
	// connection instead of racing on SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	store := &LocalStore{db: db}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	log.Printf("✅ Local store ready at %s", path)
	return store, nil
}

func (s *LocalStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		collection TEXT NOT NULL,
		id TEXT NOT NULL,
		data TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		PRIMARY KEY (collection, id)
	);
	CREATE TABLE IF NOT EXISTS assets (
		id TEXT PRIMARY KEY,
		data TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents(collection, updated_at DESC);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize local store schema: %w", err)
	}
	return nil
}

// PutDocument inserts or replaces a JSON document.
func (s *LocalStore) PutDocument(collection, id string, data []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO documents (collection, id, data, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(collection, id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		collection, id, string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to store document %s/%s: %w", collection, id, err)
	}
	return nil
}

// GetDocument fetches a document's JSON payload.
func (s *LocalStore) GetDocument(collection, id string) ([]byte, error) {
	var data string
	err := s.db.QueryRow(
		`SELECT data FROM documents WHERE collection = ? AND id = ?`,
		collection, id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s/%s: %w", collection, id, err)
	}
	return []byte(data), nil
}

// ListDocuments returns every document payload in a collection, most
// recently updated first.
func (s *LocalStore) ListDocuments(collection string) ([][]byte, error) {
	rows, err := s.db.Query(
		`SELECT data FROM documents WHERE collection = ? ORDER BY updated_at DESC`,
		collection)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents in %s: %w", collection, err)
	}
	defer rows.Close()

	var docs [][]byte
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		docs = append(docs, []byte(data))
	}
	return docs, rows.Err()
}

// DeleteDocument removes a document. Deleting a missing document is not an
// error.
func (s *LocalStore) DeleteDocument(collection, id string) error {
	_, err := s.db.Exec(
		`DELETE FROM documents WHERE collection = ? AND id = ?`,
		collection, id)
	if err != nil {
		return fmt.Errorf("failed to delete document %s/%s: %w", collection, id, err)
	}
	return nil
}

// PutAsset stores an inline asset payload (a data URI).
func (s *LocalStore) PutAsset(id, data string) error {
	_, err := s.db.Exec(`
		INSERT INTO assets (id, data, created_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data`,
		id, data, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to store asset %s: %w", id, err)
	}
	return nil
}

// GetAsset fetches an inline asset payload.
func (s *LocalStore) GetAsset(id string) (string, error) {
	var data string
	err := s.db.QueryRow(`SELECT data FROM assets WHERE id = ?`, id).Scan(&data)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read asset %s: %w", id, err)
	}
	return data, nil
}

// DeleteAsset removes an inline asset. Missing assets are not an error.
func (s *LocalStore) DeleteAsset(id string) error {
	if _, err := s.db.Exec(`DELETE FROM assets WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete asset %s: %w", id, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *LocalStore) Close() error {
	return s.db.Close()
}
