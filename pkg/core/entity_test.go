package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntity_NameAndCountryDualWrite(t *testing.T) {
	e := NewEntity("A1")
	e.Set(PropName, 0, Text("Viper"))
	e.Set(PropCountry, 0, Text("us"))
	e.Set(PropName, 5, Text("Viper 2"))

	assert.Equal(t, "Viper 2", e.Name)
	assert.Equal(t, "us", e.Country)

	v, ok := e.ValueAt(PropName, 3)
	require.True(t, ok)
	assert.Equal(t, "Viper", v.String())
}

func TestEntity_UnknownProperty(t *testing.T) {
	e := NewEntity("A1")
	_, ok := e.Value("IAS")
	assert.False(t, ok)
	_, ok = e.ValueAt("IAS", 10)
	assert.False(t, ok)
	assert.Nil(t, e.Series("IAS"))
}

func TestEntity_PropertiesOrder(t *testing.T) {
	e := NewEntity("A1")
	e.Set("Zeta", 0, Text("z"))
	e.Set("Alpha", 0, Text("a"))
	e.Set("Zeta", 1, Text("z2"))

	assert.Equal(t, []string{"Zeta", "Alpha"}, e.Properties())
	assert.Equal(t, []string{"Alpha", "Zeta"}, e.SortedProperties())
}

func TestEntity_Removal(t *testing.T) {
	e := NewEntity("A1")
	assert.True(t, e.Alive())
	_, ok := e.RemovedAt()
	assert.False(t, ok)

	e.MarkRemoved(5)
	assert.False(t, e.Alive())
	at, ok := e.RemovedAt()
	require.True(t, ok)
	assert.Equal(t, 5.0, at)
}

func TestEntity_Position(t *testing.T) {
	e := NewEntity("A1")
	_, _, _, ok := e.Position(0)
	assert.False(t, ok)

	e.Set(PropLongitude, 0, Number(11))
	e.Set(PropLatitude, 0, Number(22))
	_, _, _, ok = e.Position(0)
	assert.False(t, ok, "altitude missing")

	e.Set(PropAltitude, 0, Number(3))
	e.Set(PropLongitude, 5, Number(11.5))

	lon, lat, alt, ok := e.Position(7)
	require.True(t, ok)
	assert.Equal(t, 11.5, lon)
	assert.Equal(t, 22.0, lat)
	assert.Equal(t, 3.0, alt)
}

func TestEntity_Categories(t *testing.T) {
	e := NewEntity("A1")
	assert.False(t, e.IsPlane())

	e.SetTags(0, "Medium+Air+FixedWing")
	assert.False(t, e.Classified())

	e.SetTypeLabel(0, "Plane+F16C")
	assert.True(t, e.Classified())
	assert.True(t, e.IsPlane())
	assert.True(t, e.HasCategory(F16C))
	assert.False(t, e.IsMissile())
	assert.Equal(t, "Medium+Air+FixedWing", e.Tags)

	tags, ok := e.Value(PropTags)
	require.True(t, ok)
	assert.Equal(t, "Medium+Air+FixedWing", tags.String())
}
