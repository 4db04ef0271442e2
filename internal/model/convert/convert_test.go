package convert

import (
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/OCAP2/acmi/internal/model"
	"github.com/OCAP2/acmi/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func fixture() (*core.Recording, *core.Entity) {
	reg := core.NewRegistry()
	e := reg.GetOrCreate("A0100")
	e.Set(core.PropName, 0, core.Text("F-16C-52"))
	e.Set(core.PropCountry, 0, core.Text("us"))
	e.SetTags(0, "Air+FixedWing")
	e.SetTypeLabel(0, "Plane")
	e.Set(core.PropLongitude, 0, core.Number(41.5))
	e.Set(core.PropLatitude, 0, core.Number(42.25))
	e.Set(core.PropAltitude, 0, core.Number(1500))
	e.Set(core.PropHeading, 0, core.Number(90))
	e.Set(core.PropLongitude, 1.5, core.Number(41.6))
	e.Set(core.PropAltitude, 3, core.Number(1600))
	e.MarkRemoved(3)

	ref := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	rec := core.NewRecording(core.Session{
		FileType:      "text/acmi/tacview",
		FileVersion:   2.2,
		ReferenceTime: ref,
		Title:         "Sortie",
		Briefing:      "Go north",
	}, reg, []float64{0, 1.5, 3}, []string{"ID", "Name"}, []core.Diagnostic{
		{Property: "Flavor", EntityID: "A0100", Line: 4, Occurrences: 2},
	})
	return rec, e
}

func TestCoreToRecording(t *testing.T) {
	rec, _ := fixture()
	m := CoreToRecording("sortie.acmi", rec)

	assert.Equal(t, "sortie.acmi", m.Source)
	assert.Equal(t, "text/acmi/tacview", m.FileType)
	assert.Equal(t, 2.2, m.FileVersion)
	assert.Equal(t, "Sortie", m.Title)
	assert.True(t, m.ReferenceTime.Valid)
	assert.False(t, m.RecordingTime.Valid)
	assert.Equal(t, 1, m.Objects)
	assert.Equal(t, 3, m.TimeFrames)

	meta, err := RecordingMetadata(m)
	require.NoError(t, err)
	assert.Equal(t, "Go north", meta.Briefing)
	require.Len(t, meta.Diagnostics, 1)
	assert.Equal(t, "Flavor", meta.Diagnostics[0].Property)
	assert.Equal(t, 2, meta.Diagnostics[0].Occurrences)
}

func TestCoreToEntity(t *testing.T) {
	_, e := fixture()
	m := CoreToEntity(7, e)

	assert.Equal(t, uint(7), m.RecordingID)
	assert.Equal(t, "A0100", m.ObjectID)
	assert.Equal(t, "F-16C-52", m.Name)
	assert.Equal(t, "us", m.Country)
	assert.Equal(t, "Air+FixedWing", m.Tags)
	assert.Equal(t, "Plane", m.TypeLabel)
	assert.Equal(t, sql.NullFloat64{Float64: 3, Valid: true}, m.RemovedAt)

	props, err := EntityProperties(m)
	require.NoError(t, err)
	assert.Equal(t, e.Properties(), props)
}

func TestCoreToEntity_Alive(t *testing.T) {
	m := CoreToEntity(1, core.NewEntity("ff"))
	assert.False(t, m.RemovedAt.Valid)
	assert.JSONEq(t, "[]", string(m.Properties))
}

func TestCoreToSamples(t *testing.T) {
	_, e := fixture()
	samples := CoreToSamples(3, e)

	total := 0
	for _, prop := range e.Properties() {
		total += e.Series(prop).Len()
	}
	require.Len(t, samples, total)

	byProp := map[string][]model.Sample{}
	for _, s := range samples {
		assert.Equal(t, uint(3), s.EntityID)
		byProp[s.Property] = append(byProp[s.Property], s)
	}

	lon := byProp[core.PropLongitude]
	require.Len(t, lon, 2)
	assert.Equal(t, 0.0, lon[0].Time)
	assert.Equal(t, 1.5, lon[1].Time)
	assert.Equal(t, core.Number(41.6), SampleToValue(lon[1]))
	assert.False(t, lon[1].Text.Valid)

	name := byProp[core.PropName]
	require.Len(t, name, 1)
	assert.False(t, name[0].Number.Valid)
	assert.Equal(t, core.Text("F-16C-52"), SampleToValue(name[0]))
}

func TestCoreToSamples_Ordered(t *testing.T) {
	_, e := fixture()
	samples := CoreToSamples(3, e)

	for i := 1; i < len(samples); i++ {
		prev, cur := samples[i-1], samples[i]
		if prev.Property == cur.Property {
			assert.Less(t, prev.Time, cur.Time)
		} else {
			assert.Less(t, prev.Property, cur.Property)
		}
	}
	assert.Equal(t, core.PropAltitude, samples[0].Property)
}

func TestRecordingToInfo(t *testing.T) {
	rec, _ := fixture()
	m := CoreToRecording("sortie.acmi", rec)
	m.ID = 5

	info, err := RecordingToInfo(m)
	require.NoError(t, err)
	assert.Equal(t, uint(5), info.ID)
	assert.Equal(t, "sortie.acmi", info.Source)
	assert.Equal(t, "Sortie", info.Title)
	assert.Equal(t, 1, info.Objects)
	assert.Equal(t, 3, info.TimeFrames)
	assert.Equal(t, "Go north", info.Briefing)
	require.NotNil(t, info.ReferenceTime)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), *info.ReferenceTime)

	m.ReferenceTime = sql.NullTime{}
	info, err = RecordingToInfo(m)
	require.NoError(t, err)
	assert.Nil(t, info.ReferenceTime)

	m.Metadata = datatypes.JSON("[")
	_, err = RecordingToInfo(m)
	assert.Error(t, err)
}

func TestCoreToPositions(t *testing.T) {
	_, e := fixture()
	positions := CoreToPositions(3, e)

	require.Len(t, positions, 3)
	assert.Equal(t, []float64{0, 1.5, 3}, []float64{positions[0].Time, positions[1].Time, positions[2].Time})

	assert.Equal(t, 41.6, positions[1].Longitude)
	assert.Equal(t, 42.25, positions[1].Latitude)
	assert.Equal(t, 1500.0, positions[1].Altitude)
	assert.Equal(t, 1600.0, positions[2].Altitude)
	assert.Equal(t, sql.NullFloat64{Float64: 90, Valid: true}, positions[2].Heading)

	coords, ok := positions[0].Point.Coordinates()
	require.True(t, ok)
	assert.Equal(t, 1500.0, coords.Z)
	assert.Greater(t, coords.X, 0.0)
}

func TestCoreToPositions_Incomplete(t *testing.T) {
	e := core.NewEntity("1")
	e.Set(core.PropLongitude, 0, core.Number(10))
	e.Set(core.PropLatitude, 0, core.Number(10))

	assert.Empty(t, CoreToPositions(1, e))
}

func TestCoreToPositions_OutOfProjection(t *testing.T) {
	e := core.NewEntity("1")
	e.Set(core.PropLongitude, 0, core.Number(10))
	e.Set(core.PropLatitude, 0, core.Number(89.5))
	e.Set(core.PropAltitude, 0, core.Number(10))

	positions := CoreToPositions(1, e)
	require.Len(t, positions, 1)
	assert.True(t, positions[0].Point.IsEmpty())
	assert.Equal(t, 89.5, positions[0].Latitude)
}

func TestEntityProperties_Invalid(t *testing.T) {
	_, err := EntityProperties(model.Entity{ObjectID: "x", Properties: datatypes.JSON("{")})
	assert.Error(t, err)

	props, err := EntityProperties(model.Entity{})
	require.NoError(t, err)
	assert.Nil(t, props)
}

func TestMetadata_OmitsEmpty(t *testing.T) {
	data, err := json.Marshal(Metadata{})
	require.NoError(t, err)
	assert.JSONEq(t, "{}", string(data))
}
