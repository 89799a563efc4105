package store

import (
	"database/sql"
	"fmt"

	"github.com/knowgraph/knowgraph/internal/model"
)

func (s *Store) insertLink(l *model.ExternalLink, sourcePath string) error {
	_, err := s.q.Exec(`
		INSERT INTO links (entity_id, url, title, type, source_path)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(entity_id, url) DO UPDATE SET
			title=excluded.title, type=excluded.type, source_path=excluded.source_path`,
		l.EntityID, l.URL, l.Title, l.Type, sourcePath)
	if err != nil {
		return fmt.Errorf("insert link %s: %w", l.URL, err)
	}
	return nil
}

// GetLinks returns all external links declared by the given entity.
func (s *Store) GetLinks(entityID string) ([]*model.ExternalLink, error) {
	rows, err := s.q.Query(`SELECT entity_id, url, title, type FROM links
		WHERE entity_id=? ORDER BY url`, entityID)
	if err != nil {
		return nil, fmt.Errorf("get links: %w", err)
	}
	defer rows.Close()
	return scanLinks(rows)
}

// CountLinks returns the number of stored external links.
func (s *Store) CountLinks() (int, error) {
	var count int
	err := s.q.QueryRow("SELECT COUNT(*) FROM links").Scan(&count)
	return count, err
}

func scanLinks(rows *sql.Rows) ([]*model.ExternalLink, error) {
	var result []*model.ExternalLink
	for rows.Next() {
		var l model.ExternalLink
		if err := rows.Scan(&l.EntityID, &l.URL, &l.Title, &l.Type); err != nil {
			return nil, err
		}
		result = append(result, &l)
	}
	return result, rows.Err()
}
