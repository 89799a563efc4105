package store

import (
	"fmt"

	"github.com/knowgraph/knowgraph/internal/model"
)

// ReplaceSource atomically swaps everything attributed to one source path:
// entities, edges, and links are deleted and re-inserted, and the source's
// fingerprint is written in the same transaction. Rows that keep their id
// across the swap keep their created_at timestamp.
func (s *Store) ReplaceSource(sourcePath, hash string,
	entities []*model.Entity, edges []*model.DependencyEdge, links []*model.ExternalLink) error {
	now := model.Now()
	return s.WithTransaction(func(tx *Store) error {
		created, err := tx.createdAtBySource(sourcePath)
		if err != nil {
			return err
		}
		if err := tx.deleteSource(sourcePath); err != nil {
			return err
		}
		for _, e := range entities {
			createdAt := created[e.ID]
			if createdAt == "" {
				createdAt = now
			}
			if err := tx.upsertEntity(e, createdAt, now); err != nil {
				return err
			}
		}
		for _, edge := range edges {
			if err := tx.insertEdge(edge, sourcePath); err != nil {
				return err
			}
		}
		for _, link := range links {
			if err := tx.insertLink(link, sourcePath); err != nil {
				return err
			}
		}
		return tx.SetFingerprint(sourcePath, hash, now)
	})
}

// RemoveSource deletes everything attributed to one source path, including
// its fingerprint. Edges in other files that target the removed entities
// stay behind as dangling declarations.
func (s *Store) RemoveSource(sourcePath string) error {
	return s.WithTransaction(func(tx *Store) error {
		if err := tx.deleteSource(sourcePath); err != nil {
			return err
		}
		if _, err := tx.q.Exec(`DELETE FROM fingerprints WHERE path=?`, sourcePath); err != nil {
			return fmt.Errorf("delete fingerprint: %w", err)
		}
		return nil
	})
}

func (s *Store) createdAtBySource(sourcePath string) (map[string]string, error) {
	rows, err := s.q.Query(`SELECT id, created_at FROM entities WHERE source_path=?`, sourcePath)
	if err != nil {
		return nil, fmt.Errorf("created_at by source: %w", err)
	}
	defer rows.Close()

	created := make(map[string]string)
	for rows.Next() {
		var id, createdAt string
		if err := rows.Scan(&id, &createdAt); err != nil {
			return nil, err
		}
		created[id] = createdAt
	}
	return created, rows.Err()
}

func (s *Store) deleteSource(sourcePath string) error {
	for _, table := range []string{"entities", "edges", "links"} {
		if _, err := s.q.Exec(`DELETE FROM `+table+` WHERE source_path=?`, sourcePath); err != nil {
			return fmt.Errorf("delete %s for %s: %w", table, sourcePath, err)
		}
	}
	return nil
}
