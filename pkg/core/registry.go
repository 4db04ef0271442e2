package core

import (
	"errors"
	"fmt"
)

// ErrUnknownEntity is returned when an operation names an identifier the
// registry has never seen.
var ErrUnknownEntity = errors.New("unknown entity")

// Registry owns every entity of one recording, keyed by identifier.
// Entities are never deleted; removal only marks them.
type Registry struct {
	entities map[string]*Entity
	ids      []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entities: make(map[string]*Entity),
	}
}

// GetOrCreate returns the entity with the given id, creating it on first sight.
func (r *Registry) GetOrCreate(id string) *Entity {
	if e, ok := r.entities[id]; ok {
		return e
	}
	e := NewEntity(id)
	r.entities[id] = e
	r.ids = append(r.ids, id)
	return e
}

// Lookup returns the entity with the given id.
func (r *Registry) Lookup(id string) (*Entity, bool) {
	e, ok := r.entities[id]
	return e, ok
}

// MarkRemoved marks the entity removed at time t.
func (r *Registry) MarkRemoved(id string, t float64) error {
	e, ok := r.entities[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownEntity, id)
	}
	e.MarkRemoved(t)
	return nil
}

// IDs returns all identifiers in first-seen order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.ids))
	copy(out, r.ids)
	return out
}

// All returns all entities in first-seen order.
func (r *Registry) All() []*Entity {
	out := make([]*Entity, 0, len(r.ids))
	for _, id := range r.ids {
		out = append(out, r.entities[id])
	}
	return out
}

// Alive returns the entities that were never removed.
func (r *Registry) Alive() []*Entity {
	return r.filter(func(e *Entity) bool { return e.Alive() })
}

// Removed returns the entities carrying a removal mark.
func (r *Registry) Removed() []*Entity {
	return r.filter(func(e *Entity) bool { return !e.Alive() })
}

// Len returns the number of entities.
func (r *Registry) Len() int {
	return len(r.ids)
}

func (r *Registry) filter(keep func(*Entity) bool) []*Entity {
	var out []*Entity
	for _, id := range r.ids {
		if e := r.entities[id]; keep(e) {
			out = append(out, e)
		}
	}
	return out
}
