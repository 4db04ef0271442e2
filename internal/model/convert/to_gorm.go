// Package convert provides functions to convert between GORM models and core models
package convert

import (
	"database/sql"
	"encoding/json"
	"sort"
	"time"

	"github.com/OCAP2/acmi/internal/geo"
	"github.com/OCAP2/acmi/internal/model"
	"github.com/OCAP2/acmi/pkg/core"
	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
)

// Metadata is the JSON stored in model.Recording.Metadata.
type Metadata struct {
	Briefing    string            `json:"briefing,omitempty"`
	Debriefing  string            `json:"debriefing,omitempty"`
	Comments    string            `json:"comments,omitempty"`
	Diagnostics []core.Diagnostic `json:"diagnostics,omitempty"`
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

// toJSON marshals v, falling back to fallback on error or nil slices.
func toJSON(v any, fallback string) datatypes.JSON {
	data, err := json.Marshal(v)
	if err != nil || string(data) == "null" {
		return datatypes.JSON(fallback)
	}
	return datatypes.JSON(data)
}

// CoreToRecording converts the session of rec to a GORM model.Recording.
func CoreToRecording(source string, rec *core.Recording) model.Recording {
	s := rec.Session()
	return model.Recording{
		Source:             source,
		FileType:           s.FileType,
		FileVersion:        s.FileVersion,
		Title:              s.Title,
		Author:             s.Author,
		Category:           s.Category,
		DataSource:         s.DataSource,
		DataRecorder:       s.DataRecorder,
		ReferenceTime:      nullTime(s.ReferenceTime),
		RecordingTime:      nullTime(s.RecordingTime),
		ReferenceLongitude: s.ReferenceLongitude,
		ReferenceLatitude:  s.ReferenceLatitude,
		Objects:            rec.Registry().Len(),
		TimeFrames:         len(rec.Timeframes()),
		Metadata: toJSON(Metadata{
			Briefing:    s.Briefing,
			Debriefing:  s.Debriefing,
			Comments:    s.Comments,
			Diagnostics: rec.Diagnostics(),
		}, "{}"),
	}
}

// CoreToEntity converts a core.Entity to a GORM model.Entity.
// core.Entity.ID maps to GORM Entity.ObjectID.
func CoreToEntity(recordingID uint, e *core.Entity) model.Entity {
	m := model.Entity{
		RecordingID: recordingID,
		ObjectID:    e.ID,
		Name:        e.Name,
		Country:     e.Country,
		Tags:        e.Tags,
		TypeLabel:   e.TypeLabel,
		Properties:  toJSON(e.Properties(), "[]"),
	}
	if t, removed := e.RemovedAt(); removed {
		m.RemovedAt = sql.NullFloat64{Float64: t, Valid: true}
	}
	return m
}

// CoreToSamples flattens every series of e into sample rows, ordered by
// property name then time.
func CoreToSamples(entityID uint, e *core.Entity) []model.Sample {
	var out []model.Sample
	for _, prop := range e.SortedProperties() {
		e.Series(prop).Each(func(t float64, v core.Value) bool {
			out = append(out, valueToSample(entityID, prop, t, v))
			return true
		})
	}
	return out
}

func valueToSample(entityID uint, prop string, t float64, v core.Value) model.Sample {
	s := model.Sample{
		EntityID: entityID,
		Property: prop,
		Time:     t,
	}
	if f, ok := v.Float(); ok {
		s.Number = sql.NullFloat64{Float64: f, Valid: true}
	} else {
		s.Text = sql.NullString{String: v.String(), Valid: true}
	}
	return s
}

// CoreToPositions builds one position row per timeframe at which longitude,
// latitude or altitude was written, once all three are known.
// Coordinates outside the Web Mercator range keep an empty point.
func CoreToPositions(entityID uint, e *core.Entity) []model.Position {
	times := positionTimes(e)
	out := make([]model.Position, 0, len(times))
	for _, t := range times {
		lon, lat, alt, ok := e.Position(t)
		if !ok {
			continue
		}
		point, err := geo.TrackPoint(lon, lat, alt)
		if err != nil {
			point = geom.NewEmptyPoint(geom.DimXYZ)
		}
		p := model.Position{
			EntityID:  entityID,
			Time:      t,
			Point:     point,
			Longitude: lon,
			Latitude:  lat,
			Altitude:  alt,
		}
		if v, found := e.ValueAt(core.PropHeading, t); found {
			if h, isNum := v.Float(); isNum {
				p.Heading = sql.NullFloat64{Float64: h, Valid: true}
			}
		}
		out = append(out, p)
	}
	return out
}

func positionTimes(e *core.Entity) []float64 {
	seen := make(map[float64]struct{})
	var times []float64
	for _, prop := range [3]string{core.PropLongitude, core.PropLatitude, core.PropAltitude} {
		s := e.Series(prop)
		if s == nil {
			continue
		}
		for _, t := range s.Times() {
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			times = append(times, t)
		}
	}
	sort.Float64s(times)
	return times
}
