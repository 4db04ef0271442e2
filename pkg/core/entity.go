// pkg/core/entity.go
package core

import (
	"sort"
	"strings"
)

// Property names the reader derives or treats specially.
const (
	PropID        = "ID"
	PropName      = "Name"
	PropCountry   = "Country"
	PropType      = "Type"
	PropTags      = "Tags"
	PropLongitude = "Longitude"
	PropLatitude  = "Latitude"
	PropAltitude  = "Altitude"
	PropRoll      = "Roll"
	PropPitch     = "Pitch"
	PropYaw       = "Yaw"
	PropU         = "U"
	PropV         = "V"
	PropHeading   = "Heading"
)

// Entity is one tracked object of a recording (aircraft, weapon, ground unit,
// navaid, ...). Its identifier is kept exactly as written in the file.
type Entity struct {
	ID string

	// Name and Country mirror the latest write of the matching series.
	Name    string
	Country string

	// Tags is the raw Type value as last written; TypeLabel is the category
	// label computed from the first Type write that matched anything.
	Tags      string
	TypeLabel string

	removedAt *float64
	props     map[string]*Series
	order     []string
}

// NewEntity creates an entity with no properties.
func NewEntity(id string) *Entity {
	return &Entity{
		ID:    id,
		props: make(map[string]*Series),
	}
}

// Set records v for property prop at time t.
func (e *Entity) Set(prop string, t float64, v Value) {
	s, ok := e.props[prop]
	if !ok {
		s = NewSeries()
		e.props[prop] = s
		e.order = append(e.order, prop)
	}
	s.Set(t, v)

	switch prop {
	case PropName:
		e.Name = v.String()
	case PropCountry:
		e.Country = v.String()
	}
}

// SetTags stores a raw Type value. The classification label is left alone.
func (e *Entity) SetTags(t float64, raw string) {
	e.Tags = raw
	e.Set(PropTags, t, Text(raw))
}

// Classified reports whether the entity already has a non-empty type label.
func (e *Entity) Classified() bool {
	return e.TypeLabel != ""
}

// SetTypeLabel records the computed category label.
func (e *Entity) SetTypeLabel(t float64, label string) {
	e.TypeLabel = label
	e.Set(PropType, t, Text(label))
}

// Series returns the history of prop, or nil if it was never written.
func (e *Entity) Series(prop string) *Series {
	return e.props[prop]
}

// Value returns the most recent value of prop.
func (e *Entity) Value(prop string) (Value, bool) {
	s, ok := e.props[prop]
	if !ok {
		return Value{}, false
	}
	return s.Latest()
}

// ValueAt returns the value of prop in effect at time t.
func (e *Entity) ValueAt(prop string, t float64) (Value, bool) {
	s, ok := e.props[prop]
	if !ok {
		return Value{}, false
	}
	return s.At(t)
}

// Properties returns the names of all written properties in first-write order.
func (e *Entity) Properties() []string {
	out := make([]string, len(e.order))
	copy(out, e.order)
	return out
}

// SortedProperties returns the names of all written properties sorted.
func (e *Entity) SortedProperties() []string {
	out := e.Properties()
	sort.Strings(out)
	return out
}

// MarkRemoved records the timeframe at which the entity left the recording.
func (e *Entity) MarkRemoved(t float64) {
	e.removedAt = &t
}

// RemovedAt returns the removal timeframe, if any.
func (e *Entity) RemovedAt() (float64, bool) {
	if e.removedAt == nil {
		return 0, false
	}
	return *e.removedAt, true
}

// Alive reports whether the entity was never removed.
func (e *Entity) Alive() bool {
	return e.removedAt == nil
}

// Position returns longitude, latitude and altitude in effect at time t.
// ok is false until all three have been written at least once.
func (e *Entity) Position(t float64) (lon, lat, alt float64, ok bool) {
	var have [3]bool
	for i, prop := range [3]string{PropLongitude, PropLatitude, PropAltitude} {
		v, found := e.ValueAt(prop, t)
		if !found {
			continue
		}
		f, isNum := v.Float()
		if !isNum {
			continue
		}
		have[i] = true
		switch i {
		case 0:
			lon = f
		case 1:
			lat = f
		case 2:
			alt = f
		}
	}
	return lon, lat, alt, have[0] && have[1] && have[2]
}

// HasCategory reports whether c is one of the categories in the type label.
func (e *Entity) HasCategory(c Category) bool {
	if e.TypeLabel == "" {
		return false
	}
	for _, part := range strings.Split(e.TypeLabel, TypeSeparator) {
		if part == string(c) {
			return true
		}
	}
	return false
}

func (e *Entity) IsPlane() bool    { return e.HasCategory(Plane) }
func (e *Entity) IsMissile() bool  { return e.HasCategory(Missile) }
func (e *Entity) IsFlare() bool    { return e.HasCategory(Flare) }
func (e *Entity) IsChaff() bool    { return e.HasCategory(Chaff) }
func (e *Entity) IsShrapnel() bool { return e.HasCategory(Shrapnel) }
func (e *Entity) IsBullseye() bool { return e.HasCategory(Bullseye) }
