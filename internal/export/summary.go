package export

import (
	"time"

	"github.com/OCAP2/acmi/pkg/core"
)

// Summary is the global view of a recording. Keys follow ACMI property names.
type Summary struct {
	FileType           string     `json:"FileType"`
	FileVersion        float64    `json:"FileVersion"`
	DataSource         string     `json:"DataSource"`
	DataRecorder       string     `json:"DataRecorder"`
	ReferenceTime      *time.Time `json:"ReferenceTime"`
	RecordingTime      *time.Time `json:"RecordingTime"`
	Author             string     `json:"Author"`
	Title              string     `json:"Title"`
	Category           string     `json:"Category"`
	Briefing           string     `json:"Briefing"`
	Debriefing         string     `json:"Debriefing"`
	Comments           string     `json:"Comments"`
	ReferenceLongitude float64    `json:"ReferenceLongitude"`
	ReferenceLatitude  float64    `json:"ReferenceLatitude"`
	Objects            int        `json:"Objects"`
	TimeFrames         int        `json:"TimeFrames"`
}

// NewSummary builds the summary of rec.
func NewSummary(rec *core.Recording) Summary {
	s := rec.Session()
	return Summary{
		FileType:           s.FileType,
		FileVersion:        s.FileVersion,
		DataSource:         s.DataSource,
		DataRecorder:       s.DataRecorder,
		ReferenceTime:      timePtr(s.ReferenceTime),
		RecordingTime:      timePtr(s.RecordingTime),
		Author:             s.Author,
		Title:              s.Title,
		Category:           s.Category,
		Briefing:           s.Briefing,
		Debriefing:         s.Debriefing,
		Comments:           s.Comments,
		ReferenceLongitude: s.ReferenceLongitude,
		ReferenceLatitude:  s.ReferenceLatitude,
		Objects:            rec.Registry().Len(),
		TimeFrames:         len(rec.Timeframes()),
	}
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
