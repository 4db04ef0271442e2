// pkg/core/series.go
package core

import "sort"

// Series is the time-indexed history of one property of one entity.
// Keys are timeframes (seconds from the reference time), kept sorted and unique.
//
// A Series is written by a single parser and is read-only afterwards, so it
// carries no lock.
type Series struct {
	times  []float64
	values []Value
}

// NewSeries returns an empty series.
func NewSeries() *Series {
	return &Series{}
}

// Set stores v at time t, overwriting any value already stored at exactly t.
func (s *Series) Set(t float64, v Value) {
	n := len(s.times)
	// recordings are written in timeframe order, so appending is the common case
	if n == 0 || t > s.times[n-1] {
		s.times = append(s.times, t)
		s.values = append(s.values, v)
		return
	}

	i := sort.SearchFloat64s(s.times, t)
	if i < n && s.times[i] == t {
		s.values[i] = v
		return
	}

	s.times = append(s.times, 0)
	s.values = append(s.values, Value{})
	copy(s.times[i+1:], s.times[i:])
	copy(s.values[i+1:], s.values[i:])
	s.times[i] = t
	s.values[i] = v
}

// Latest returns the value at the greatest key.
func (s *Series) Latest() (Value, bool) {
	if len(s.times) == 0 {
		return Value{}, false
	}
	return s.values[len(s.values)-1], true
}

// At returns the value in effect at time t: the value stored at t if there is
// one, else the value at the greatest key before t. A query before the first
// sample falls back to the first sample rather than reporting no value.
func (s *Series) At(t float64) (Value, bool) {
	if len(s.times) == 0 {
		return Value{}, false
	}

	i := sort.SearchFloat64s(s.times, t)
	if i < len(s.times) && s.times[i] == t {
		return s.values[i], true
	}
	if i == 0 {
		return s.values[0], true
	}
	return s.values[i-1], true
}

// Len returns the number of samples.
func (s *Series) Len() int {
	return len(s.times)
}

// Times returns a copy of the sample keys in ascending order.
func (s *Series) Times() []float64 {
	out := make([]float64, len(s.times))
	copy(out, s.times)
	return out
}

// Each calls fn for every sample in ascending time order until fn returns false.
func (s *Series) Each(fn func(t float64, v Value) bool) {
	for i, t := range s.times {
		if !fn(t, s.values[i]) {
			return
		}
	}
}
