package store

import (
	"fmt"
	"strings"

	"github.com/knowgraph/knowgraph/internal/model"
)

// SearchParams narrows an entity search. All set fields must match (AND).
type SearchParams struct {
	Query    string   // case-insensitive substring over name, description, tags
	Type     string   // exact entity type
	Owner    string   // exact owner
	Tags     []string // entity must carry every listed tag
	Language string   // exact language
	Origin   string   // exact origin
	Limit    int      // max rows, 0 means DefaultSearchLimit
}

// DefaultSearchLimit caps searches that do not set an explicit limit.
const DefaultSearchLimit = 50

// Search returns entities matching the given parameters, ordered by id.
func (s *Store) Search(p SearchParams) ([]*model.Entity, error) {
	var conds []string
	var args []any

	if p.Query != "" {
		q := "%" + strings.ToLower(p.Query) + "%"
		conds = append(conds, `(LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(tags) LIKE ?)`)
		args = append(args, q, q, q)
	}
	if p.Type != "" {
		conds = append(conds, "type=?")
		args = append(args, p.Type)
	}
	if p.Owner != "" {
		conds = append(conds, "owner=?")
		args = append(args, p.Owner)
	}
	if p.Language != "" {
		conds = append(conds, "language=?")
		args = append(args, p.Language)
	}
	if p.Origin != "" {
		conds = append(conds, "origin=?")
		args = append(args, p.Origin)
	}
	// LIKE over the JSON column is a coarse pre-filter; exact tag
	// membership is verified in Go below.
	for _, tag := range p.Tags {
		conds = append(conds, "LOWER(tags) LIKE ?")
		args = append(args, "%"+strings.ToLower(tag)+"%")
	}

	query := `SELECT ` + entityCols + ` FROM entities`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY id"

	rows, err := s.q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer rows.Close()

	entities, err := scanEntities(rows)
	if err != nil {
		return nil, err
	}
	if len(p.Tags) > 0 {
		entities = filterByTags(entities, p.Tags)
	}

	limit := p.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if len(entities) > limit {
		entities = entities[:limit]
	}
	return entities, nil
}

// filterByTags keeps entities carrying every required tag (case-insensitive).
func filterByTags(entities []*model.Entity, required []string) []*model.Entity {
	var result []*model.Entity
	for _, e := range entities {
		have := make(map[string]bool, len(e.Tags))
		for _, t := range e.Tags {
			have[strings.ToLower(t)] = true
		}
		ok := true
		for _, t := range required {
			if !have[strings.ToLower(t)] {
				ok = false
				break
			}
		}
		if ok {
			result = append(result, e)
		}
	}
	return result
}
