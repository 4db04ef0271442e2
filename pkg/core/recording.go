// pkg/core/recording.go
package core

// Diagnostic reports an entity property the reader did not recognize.
// The values were kept as text; the diagnostic only makes them visible.
type Diagnostic struct {
	Property    string
	EntityID    string // entity of the first occurrence
	Line        int    // logical line of the first occurrence
	Occurrences int
}

// Recording is one fully parsed ACMI stream. It is built once by the parser
// and never mutated afterwards, so any number of goroutines may query it.
type Recording struct {
	session     Session
	registry    *Registry
	timeframes  []float64
	fields      []string
	diagnostics []Diagnostic
}

// NewRecording assembles a recording from parsed parts.
func NewRecording(session Session, registry *Registry, timeframes []float64, fields []string, diagnostics []Diagnostic) *Recording {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Recording{
		session:     session,
		registry:    registry,
		timeframes:  timeframes,
		fields:      fields,
		diagnostics: diagnostics,
	}
}

// Session returns the global properties.
func (r *Recording) Session() Session {
	return r.session
}

// Registry returns the entity registry.
func (r *Recording) Registry() *Registry {
	return r.registry
}

// Entity returns the entity with the given id.
func (r *Recording) Entity(id string) (*Entity, bool) {
	return r.registry.Lookup(id)
}

// Entities returns all entities in first-seen order.
func (r *Recording) Entities() []*Entity {
	return r.registry.All()
}

// Alive returns the entities never removed.
func (r *Recording) Alive() []*Entity {
	return r.registry.Alive()
}

// Removed returns the removed entities.
func (r *Recording) Removed() []*Entity {
	return r.registry.Removed()
}

// IDs returns all entity identifiers in first-seen order.
func (r *Recording) IDs() []string {
	return r.registry.IDs()
}

// ValueOf returns the latest value of prop for the entity.
func (r *Recording) ValueOf(id, prop string) (Value, bool) {
	e, ok := r.registry.Lookup(id)
	if !ok {
		return Value{}, false
	}
	return e.Value(prop)
}

// ValueAt returns the value of prop for the entity in effect at time t.
func (r *Recording) ValueAt(id, prop string, t float64) (Value, bool) {
	e, ok := r.registry.Lookup(id)
	if !ok {
		return Value{}, false
	}
	return e.ValueAt(prop, t)
}

// Timeframes returns the distinct timeframe markers in file order.
func (r *Recording) Timeframes() []float64 {
	out := make([]float64, len(r.timeframes))
	copy(out, r.timeframes)
	return out
}

// Fields returns every property name observed on any entity, in first-seen order.
func (r *Recording) Fields() []string {
	out := make([]string, len(r.fields))
	copy(out, r.fields)
	return out
}

// HasField reports whether prop was observed on any entity.
func (r *Recording) HasField(prop string) bool {
	for _, f := range r.fields {
		if f == prop {
			return true
		}
	}
	return false
}

// Diagnostics returns the unrecognized properties met while parsing.
func (r *Recording) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(r.diagnostics))
	copy(out, r.diagnostics)
	return out
}
