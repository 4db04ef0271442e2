package convert

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/OCAP2/acmi/internal/model"
	"github.com/OCAP2/acmi/pkg/core"
)

// SampleToValue converts a GORM model.Sample back to a core.Value.
func SampleToValue(s model.Sample) core.Value {
	if s.Number.Valid {
		return core.Number(s.Number.Float64)
	}
	return core.Text(s.Text.String)
}

// EntityProperties decodes the property name list of a stored entity.
func EntityProperties(e model.Entity) ([]string, error) {
	if len(e.Properties) == 0 {
		return nil, nil
	}
	var props []string
	if err := json.Unmarshal(e.Properties, &props); err != nil {
		return nil, fmt.Errorf("error decoding properties of entity %s: %w", e.ObjectID, err)
	}
	return props, nil
}

// RecordingMetadata decodes the metadata of a stored recording.
func RecordingMetadata(r model.Recording) (Metadata, error) {
	var m Metadata
	if len(r.Metadata) == 0 {
		return m, nil
	}
	if err := json.Unmarshal(r.Metadata, &m); err != nil {
		return m, fmt.Errorf("error decoding recording metadata: %w", err)
	}
	return m, nil
}

// RecordingInfo is the listing view of a stored recording.
type RecordingInfo struct {
	ID            uint
	Source        string
	Title         string
	ReferenceTime *time.Time
	Objects       int
	TimeFrames    int
	Metadata
}

// RecordingToInfo builds the listing view of r, decoding its metadata.
func RecordingToInfo(r model.Recording) (RecordingInfo, error) {
	meta, err := RecordingMetadata(r)
	if err != nil {
		return RecordingInfo{}, err
	}
	info := RecordingInfo{
		ID:         r.ID,
		Source:     r.Source,
		Title:      r.Title,
		Objects:    r.Objects,
		TimeFrames: r.TimeFrames,
		Metadata:   meta,
	}
	if r.ReferenceTime.Valid {
		t := r.ReferenceTime.Time
		info.ReferenceTime = &t
	}
	return info, nil
}
