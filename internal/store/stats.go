package store

import (
	"fmt"

	"github.com/knowgraph/knowgraph/internal/model"
)

// Stats returns aggregate counts over the stored graph.
func (s *Store) Stats() (*model.GraphStats, error) {
	stats := &model.GraphStats{}
	var err error
	if stats.Entities, err = s.CountEntities(); err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	if stats.Dependencies, err = s.CountEdges(); err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	if stats.Links, err = s.CountLinks(); err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	if stats.ByType, err = s.countGrouped("type"); err != nil {
		return nil, err
	}
	if stats.ByOwner, err = s.countGrouped("owner"); err != nil {
		return nil, err
	}
	if stats.ByLanguage, err = s.countGrouped("language"); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *Store) countGrouped(column string) (map[string]int, error) {
	rows, err := s.q.Query(`SELECT ` + column + `, COUNT(*) FROM entities
		WHERE ` + column + ` != '' GROUP BY ` + column)
	if err != nil {
		return nil, fmt.Errorf("stats by %s: %w", column, err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, err
		}
		counts[key] = n
	}
	return counts, rows.Err()
}
