package store

import (
	"database/sql"
	"fmt"

	"github.com/knowgraph/knowgraph/internal/model"
)

func (s *Store) insertEdge(e *model.DependencyEdge, sourcePath string) error {
	_, err := s.q.Exec(`
		INSERT INTO edges (source_id, target_id, type, source_path)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(source_id, target_id, type) DO UPDATE SET source_path=excluded.source_path`,
		e.SourceID, e.TargetID, e.Type, sourcePath)
	if err != nil {
		return fmt.Errorf("insert edge %s->%s: %w", e.SourceID, e.TargetID, err)
	}
	return nil
}

// EdgesBySourceID returns all edges declared by the given entity.
func (s *Store) EdgesBySourceID(id string) ([]*model.DependencyEdge, error) {
	rows, err := s.q.Query(`SELECT source_id, target_id, type FROM edges
		WHERE source_id=? ORDER BY type, target_id`, id)
	if err != nil {
		return nil, fmt.Errorf("edges by source: %w", err)
	}
	defer rows.Close()
	return scanEdges(rows)
}

// EdgesByTarget returns all edges whose declared target matches any of the
// given identifiers (an entity id and its bare name, typically).
func (s *Store) EdgesByTarget(targets ...string) ([]*model.DependencyEdge, error) {
	var result []*model.DependencyEdge
	seen := make(map[string]bool)
	for _, target := range targets {
		if target == "" || seen[target] {
			continue
		}
		seen[target] = true
		rows, err := s.q.Query(`SELECT source_id, target_id, type FROM edges
			WHERE target_id=? ORDER BY type, source_id`, target)
		if err != nil {
			return nil, fmt.Errorf("edges by target: %w", err)
		}
		edges, scanErr := scanEdges(rows)
		rows.Close()
		if scanErr != nil {
			return nil, scanErr
		}
		result = append(result, edges...)
	}
	return result, nil
}

// CountEdges returns the number of stored dependency edges.
func (s *Store) CountEdges() (int, error) {
	var count int
	err := s.q.QueryRow("SELECT COUNT(*) FROM edges").Scan(&count)
	return count, err
}

func scanEdges(rows *sql.Rows) ([]*model.DependencyEdge, error) {
	var result []*model.DependencyEdge
	for rows.Next() {
		var e model.DependencyEdge
		if err := rows.Scan(&e.SourceID, &e.TargetID, &e.Type); err != nil {
			return nil, err
		}
		result = append(result, &e)
	}
	return result, rows.Err()
}
