package store

import (
	"database/sql"
	"fmt"

	"github.com/knowgraph/knowgraph/internal/model"
)

const entityCols = `id, type, name, description, owner, status, tags, language,
	source_path, line, signature, business_goal, funnel_stage, revenue_impact,
	origin, properties, created_at, updated_at`

// upsertEntity inserts or updates one entity. createdAt is preserved when the
// row already existed before the current replace cycle.
func (s *Store) upsertEntity(e *model.Entity, createdAt, updatedAt string) error {
	_, err := s.q.Exec(`
		INSERT INTO entities (`+entityCols+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Type, e.Name, e.Description, e.Owner, e.Status,
		marshalJSON(e.Tags, "[]"), e.Language, e.FilePath, e.Line, e.Signature,
		e.BusinessGoal, e.FunnelStage, e.RevenueImpact, e.Origin,
		marshalJSON(e.Properties, "{}"), createdAt, updatedAt)
	if err != nil {
		return fmt.Errorf("upsert entity %s: %w", e.ID, err)
	}
	return nil
}

// GetByID returns the entity with the given identifier, or nil.
func (s *Store) GetByID(id string) (*model.Entity, error) {
	row := s.q.QueryRow(`SELECT `+entityCols+` FROM entities WHERE id=?`, id)
	return scanEntity(row)
}

// GetByOwner returns all entities with the given owner, ordered by id.
func (s *Store) GetByOwner(owner string) ([]*model.Entity, error) {
	rows, err := s.q.Query(`SELECT `+entityCols+` FROM entities WHERE owner=? ORDER BY id`, owner)
	if err != nil {
		return nil, fmt.Errorf("get by owner: %w", err)
	}
	defer rows.Close()
	return scanEntities(rows)
}

// GetByBusinessGoal returns all entities declaring the given business goal.
func (s *Store) GetByBusinessGoal(goal string) ([]*model.Entity, error) {
	rows, err := s.q.Query(`SELECT `+entityCols+` FROM entities WHERE business_goal=? ORDER BY id`, goal)
	if err != nil {
		return nil, fmt.Errorf("get by business goal: %w", err)
	}
	defer rows.Close()
	return scanEntities(rows)
}

// GetByName returns all entities with the given declared name. Dependency
// targets declared as bare names resolve through this lookup.
func (s *Store) GetByName(name string) ([]*model.Entity, error) {
	rows, err := s.q.Query(`SELECT `+entityCols+` FROM entities WHERE name=? ORDER BY id`, name)
	if err != nil {
		return nil, fmt.Errorf("get by name: %w", err)
	}
	defer rows.Close()
	return scanEntities(rows)
}

// GetBySource returns all entities attributed to one source path.
func (s *Store) GetBySource(sourcePath string) ([]*model.Entity, error) {
	rows, err := s.q.Query(`SELECT `+entityCols+` FROM entities WHERE source_path=? ORDER BY id`, sourcePath)
	if err != nil {
		return nil, fmt.Errorf("get by source: %w", err)
	}
	defer rows.Close()
	return scanEntities(rows)
}

// CountEntities returns the number of stored entities.
func (s *Store) CountEntities() (int, error) {
	var count int
	err := s.q.QueryRow("SELECT COUNT(*) FROM entities").Scan(&count)
	return count, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntity(row scanner) (*model.Entity, error) {
	var e model.Entity
	var tags, props string
	err := row.Scan(&e.ID, &e.Type, &e.Name, &e.Description, &e.Owner, &e.Status,
		&tags, &e.Language, &e.FilePath, &e.Line, &e.Signature,
		&e.BusinessGoal, &e.FunnelStage, &e.RevenueImpact, &e.Origin,
		&props, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	e.Tags = unmarshalTags(tags)
	e.Properties = unmarshalProps(props)
	return &e, nil
}

func scanEntities(rows *sql.Rows) ([]*model.Entity, error) {
	var result []*model.Entity
	for rows.Next() {
		var e model.Entity
		var tags, props string
		if err := rows.Scan(&e.ID, &e.Type, &e.Name, &e.Description, &e.Owner, &e.Status,
			&tags, &e.Language, &e.FilePath, &e.Line, &e.Signature,
			&e.BusinessGoal, &e.FunnelStage, &e.RevenueImpact, &e.Origin,
			&props, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		e.Tags = unmarshalTags(tags)
		e.Properties = unmarshalProps(props)
		result = append(result, &e)
	}
	return result, rows.Err()
}
