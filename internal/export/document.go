package export

import "github.com/OCAP2/acmi/pkg/core"

// Document is the full content of a recording: every sample of every series.
type Document struct {
	Source      string            `json:"source"`
	Summary     Summary           `json:"summary"`
	Timeframes  []float64         `json:"timeframes"`
	Fields      []string          `json:"fields"`
	Entities    []Entity          `json:"entities"`
	Diagnostics []core.Diagnostic `json:"diagnostics"`
}

// Entity is one entity of a Document.
type Entity struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Country    string              `json:"country,omitempty"`
	Tags       string              `json:"tags,omitempty"`
	Type       string              `json:"type,omitempty"`
	RemovedAt  *float64            `json:"removedAt,omitempty"`
	Properties map[string][]Sample `json:"properties"`
}

// Sample is one timeframe/value pair of a property series.
type Sample struct {
	Time  float64    `json:"t"`
	Value core.Value `json:"v"`
}

// Build creates the Document for rec.
func Build(source string, rec *core.Recording) Document {
	doc := Document{
		Source:      source,
		Summary:     NewSummary(rec),
		Timeframes:  rec.Timeframes(),
		Fields:      rec.Fields(),
		Entities:    make([]Entity, 0, rec.Registry().Len()),
		Diagnostics: rec.Diagnostics(),
	}
	if doc.Timeframes == nil {
		doc.Timeframes = []float64{}
	}

	for _, e := range rec.Entities() {
		ent := Entity{
			ID:         e.ID,
			Name:       e.Name,
			Country:    e.Country,
			Tags:       e.Tags,
			Type:       e.TypeLabel,
			Properties: make(map[string][]Sample),
		}
		if t, removed := e.RemovedAt(); removed {
			ent.RemovedAt = &t
		}
		for _, prop := range e.Properties() {
			s := e.Series(prop)
			samples := make([]Sample, 0, s.Len())
			s.Each(func(t float64, v core.Value) bool {
				samples = append(samples, Sample{Time: t, Value: v})
				return true
			})
			ent.Properties[prop] = samples
		}
		doc.Entities = append(doc.Entities, ent)
	}
	return doc
}
