// Package query answers read-side questions about the committed graph:
// filtered entity search, single-entity detail with resolved dependencies,
// and aggregate statistics.
package query

import (
	"fmt"

	"github.com/knowgraph/knowgraph/internal/model"
	"github.com/knowgraph/knowgraph/internal/store"
)

// Engine serves graph queries over a store.
type Engine struct {
	store *store.Store
}

func NewEngine(s *store.Store) *Engine {
	return &Engine{store: s}
}

// Search returns entities matching the given parameters in deterministic
// (id) order.
func (e *Engine) Search(params store.SearchParams) ([]*model.Entity, error) {
	return e.store.Search(params)
}

// EntityDetail is one entity together with its dependency neighborhood
// and external links.
type EntityDetail struct {
	Entity       *model.Entity              `json:"entity"`
	Dependencies []model.ResolvedDependency `json:"dependencies,omitempty"`
	Links        []*model.ExternalLink      `json:"links,omitempty"`
}

// Get returns the full detail for one entity id, or nil when the id is
// unknown. Outbound edges are resolved against entity ids first, then bare
// names; inbound edges are found by matching the entity's id and name
// against declared targets.
func (e *Engine) Get(id string) (*EntityDetail, error) {
	entity, err := e.store.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("get entity: %w", err)
	}
	if entity == nil {
		return nil, nil
	}

	detail := &EntityDetail{Entity: entity}

	outbound, err := e.store.EdgesBySourceID(id)
	if err != nil {
		return nil, err
	}
	for _, edge := range outbound {
		resolved, target, err := e.resolveTarget(edge.TargetID)
		if err != nil {
			return nil, err
		}
		detail.Dependencies = append(detail.Dependencies, model.ResolvedDependency{
			Edge:      *edge,
			Direction: "outbound",
			Resolved:  resolved,
			Target:    target,
		})
	}

	inbound, err := e.store.EdgesByTarget(entity.ID, entity.Name)
	if err != nil {
		return nil, err
	}
	for _, edge := range inbound {
		source, err := e.store.GetByID(edge.SourceID)
		if err != nil {
			return nil, err
		}
		detail.Dependencies = append(detail.Dependencies, model.ResolvedDependency{
			Edge:      *edge,
			Direction: "inbound",
			Resolved:  source != nil,
			Target:    source,
		})
	}

	if detail.Links, err = e.store.GetLinks(id); err != nil {
		return nil, err
	}
	return detail, nil
}

// resolveTarget matches a declared dependency target against the graph:
// first as an entity id, then as a bare entity name. A name shared by several
// entities resolves to the first in id order.
func (e *Engine) resolveTarget(declared string) (bool, *model.Entity, error) {
	target, err := e.store.GetByID(declared)
	if err != nil {
		return false, nil, err
	}
	if target != nil {
		return true, target, nil
	}
	byName, err := e.store.GetByName(declared)
	if err != nil {
		return false, nil, err
	}
	if len(byName) > 0 {
		return true, byName[0], nil
	}
	return false, nil, nil
}

// Stats returns aggregate counts over the graph.
func (e *Engine) Stats() (*model.GraphStats, error) {
	return e.store.Stats()
}
