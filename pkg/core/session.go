// pkg/core/session.go
package core

import "time"

// MinFileVersion is the oldest ACMI format version the reader accepts.
const MinFileVersion = 2.1

// Session holds the global properties of one recording (the records whose
// subject is object 0) plus the file header.
type Session struct {
	FileType    string
	FileVersion float64

	// ReferenceTime is the absolute clock for timeframe 0.
	ReferenceTime time.Time
	RecordingTime time.Time

	// Origin added to the longitude/latitude offsets of every T= record.
	ReferenceLongitude float64
	ReferenceLatitude  float64

	DataSource   string
	DataRecorder string
	Author       string
	Title        string
	Category     string
	Briefing     string
	Debriefing   string
	Comments     string
}

// TimeAt converts a timeframe offset into an absolute time.
// The zero time is returned when the recording has no reference time.
func (s *Session) TimeAt(offset float64) time.Time {
	if s.ReferenceTime.IsZero() {
		return time.Time{}
	}
	return s.ReferenceTime.Add(time.Duration(offset * float64(time.Second)))
}
