package export

import "github.com/OCAP2/acmi/pkg/core"

// Snapshot returns the entity's identity fields plus every property value.
// With at nil the latest values are used, otherwise the values in effect at *at.
func Snapshot(e *core.Entity, at *float64) map[string]any {
	out := map[string]any{
		core.PropID:      e.ID,
		core.PropName:    e.Name,
		core.PropTags:    e.Tags,
		core.PropType:    e.TypeLabel,
		core.PropCountry: e.Country,
	}
	for _, prop := range e.Properties() {
		var (
			v  core.Value
			ok bool
		)
		if at == nil {
			v, ok = e.Value(prop)
		} else {
			v, ok = e.ValueAt(prop, *at)
		}
		if ok {
			out[prop] = v.Interface()
		}
	}
	if removedAt, removed := e.RemovedAt(); removed {
		out["RemovedAt"] = removedAt
	}
	return out
}

// Snapshots returns a snapshot for each entity in first-seen order.
func Snapshots(rec *core.Recording, at *float64) []map[string]any {
	entities := rec.Entities()
	out := make([]map[string]any, 0, len(entities))
	for _, e := range entities {
		out = append(out, Snapshot(e, at))
	}
	return out
}
