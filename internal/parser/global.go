package parser

import (
	"fmt"
	"strings"
	"time"

	"github.com/OCAP2/acmi/internal/reader"
)

const (
	timestampLayout           = "2006-01-02T15:04:05Z"
	timestampFractionalLayout = "2006-01-02T15:04:05.999999999Z"
)

// applyGlobal sets session attributes from the fields of an object 0 record.
func (s *state) applyGlobal(fields []string) error {
	for _, field := range fields {
		key, value, ok := reader.SplitProperty(field)
		if !ok {
			return fmt.Errorf("%w: %q", ErrMalformedField, field)
		}

		var err error
		switch key {
		case "ReferenceTime":
			s.session.ReferenceTime, err = parseTimestamp(value)
		case "RecordingTime":
			s.session.RecordingTime, err = parseTimestamp(value)
		case "ReferenceLongitude":
			s.session.ReferenceLongitude, err = parseNumber(value)
		case "ReferenceLatitude":
			s.session.ReferenceLatitude, err = parseNumber(value)
		case "DataSource":
			s.session.DataSource = reader.Unescape(value)
		case "DataRecorder":
			s.session.DataRecorder = reader.Unescape(value)
		case "Author":
			s.session.Author = reader.Unescape(value)
		case "Title":
			s.session.Title = reader.Unescape(value)
		case "Category":
			s.session.Category = reader.Unescape(value)
		case "Briefing":
			s.session.Briefing = reader.Unescape(value)
		case "Debriefing":
			s.session.Debriefing = reader.Unescape(value)
		case "Comments":
			s.session.Comments = reader.Unescape(value)
		default:
			return fmt.Errorf("%w: %s", ErrUnknownGlobalProperty, key)
		}
		if err != nil {
			return fmt.Errorf("global property %s: %w", key, err)
		}
	}
	return nil
}

// parseTimestamp accepts UTC timestamps with or without fractional seconds.
func parseTimestamp(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	layout := timestampLayout
	if strings.Contains(v, ".") {
		layout = timestampFractionalLayout
	}
	t, err := time.Parse(layout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, v)
	}
	return t, nil
}
