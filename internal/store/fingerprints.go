package store

import (
	"database/sql"
	"fmt"

	"github.com/knowgraph/knowgraph/internal/model"
)

// GetFingerprint returns the stored fingerprint for a source path, or nil.
func (s *Store) GetFingerprint(path string) (*model.FileFingerprint, error) {
	var fp model.FileFingerprint
	err := s.q.QueryRow(`SELECT path, hash, seen_at FROM fingerprints WHERE path=?`, path).
		Scan(&fp.Path, &fp.Hash, &fp.SeenAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get fingerprint: %w", err)
	}
	return &fp, nil
}

// SetFingerprint inserts or updates the fingerprint for a source path.
func (s *Store) SetFingerprint(path, hash, seenAt string) error {
	_, err := s.q.Exec(`
		INSERT INTO fingerprints (path, hash, seen_at) VALUES (?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET hash=excluded.hash, seen_at=excluded.seen_at`,
		path, hash, seenAt)
	if err != nil {
		return fmt.Errorf("set fingerprint: %w", err)
	}
	return nil
}

// AllFingerprints returns the full manifest as path → hash.
func (s *Store) AllFingerprints() (map[string]string, error) {
	rows, err := s.q.Query(`SELECT path, hash FROM fingerprints`)
	if err != nil {
		return nil, fmt.Errorf("all fingerprints: %w", err)
	}
	defer rows.Close()

	manifest := make(map[string]string)
	for rows.Next() {
		var path, hash string
		if err := rows.Scan(&path, &hash); err != nil {
			return nil, err
		}
		manifest[path] = hash
	}
	return manifest, rows.Err()
}
