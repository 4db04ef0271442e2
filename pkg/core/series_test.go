package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeries_Empty(t *testing.T) {
	s := NewSeries()

	_, ok := s.Latest()
	assert.False(t, ok)
	_, ok = s.At(10)
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}

func TestSeries_PredecessorFallback(t *testing.T) {
	s := NewSeries()
	s.Set(10, Text("a"))
	s.Set(20, Text("b"))

	tests := []struct {
		name string
		at   float64
		want string
	}{
		{"before first sample falls back to first", 5, "a"},
		{"exact first", 10, "a"},
		{"between samples", 15, "a"},
		{"exact second", 20, "b"},
		{"after last", 25, "b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := s.At(tt.at)
			require.True(t, ok)
			assert.Equal(t, tt.want, v.String())
		})
	}

	latest, ok := s.Latest()
	require.True(t, ok)
	assert.Equal(t, "b", latest.String())
}

func TestSeries_SetSameKeyTwice(t *testing.T) {
	s := NewSeries()
	s.Set(10, Text("x"))
	s.Set(10, Text("x"))

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, []float64{10}, s.Times())
}

func TestSeries_OverwriteKeepsOrder(t *testing.T) {
	s := NewSeries()
	s.Set(1, Number(1))
	s.Set(2, Number(2))
	s.Set(3, Number(3))
	s.Set(2, Number(20))

	assert.Equal(t, []float64{1, 2, 3}, s.Times())
	v, ok := s.At(2)
	require.True(t, ok)
	f, _ := v.Float()
	assert.Equal(t, 20.0, f)
}

func TestSeries_OutOfOrderInsert(t *testing.T) {
	s := NewSeries()
	s.Set(10, Number(10))
	s.Set(30, Number(30))
	s.Set(20, Number(20))
	s.Set(0, Number(0))

	assert.Equal(t, []float64{0, 10, 20, 30}, s.Times())

	v, ok := s.At(25)
	require.True(t, ok)
	f, _ := v.Float()
	assert.Equal(t, 20.0, f)
}

func TestSeries_Each(t *testing.T) {
	s := NewSeries()
	s.Set(1, Number(1))
	s.Set(2, Number(2))
	s.Set(3, Number(3))

	var seen []float64
	s.Each(func(t float64, v Value) bool {
		seen = append(seen, t)
		return t < 2
	})
	assert.Equal(t, []float64{1, 2}, seen)
}

func TestValue(t *testing.T) {
	n := Number(11.5)
	f, ok := n.Float()
	assert.True(t, ok)
	assert.Equal(t, 11.5, f)
	assert.Equal(t, "11.5", n.String())
	assert.Equal(t, KindNumber, n.Kind())

	txt := Text("007")
	_, ok = txt.Float()
	assert.False(t, ok)
	assert.Equal(t, "007", txt.String())
	assert.Equal(t, "text", txt.Kind().String())

	b, err := n.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "11.5", string(b))
	b, err = txt.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"007"`, string(b))
}

func TestValue_UnmarshalJSON(t *testing.T) {
	var vals []Value
	require.NoError(t, json.Unmarshal([]byte(`[3.25, "A1", "12"]`), &vals))
	require.Len(t, vals, 3)

	assert.Equal(t, Number(3.25), vals[0])
	assert.Equal(t, Text("A1"), vals[1])
	assert.Equal(t, Text("12"), vals[2], "quoted numbers stay text")

	var v Value
	assert.Error(t, json.Unmarshal([]byte(`{}`), &v))
}

func TestValue_Interface(t *testing.T) {
	assert.Equal(t, 2.0, Number(2).Interface())
	assert.Equal(t, "x", Text("x").Interface())
}
