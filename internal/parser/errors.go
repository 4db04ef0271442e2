package parser

import (
	"errors"
	"fmt"
)

var (
	ErrMissingFileType       = errors.New("missing FileType header")
	ErrMissingFileVersion    = errors.New("missing or malformed FileVersion header")
	ErrUnsupportedVersion    = errors.New("unsupported file version")
	ErrUnknownGlobalProperty = errors.New("unknown global property")
	ErrInvalidNumber         = errors.New("invalid number")
	ErrInvalidTimeframe      = errors.New("invalid timeframe")
	ErrInvalidTimestamp      = errors.New("invalid timestamp")
	ErrMalformedField        = errors.New("malformed field")
)

// Error is a fatal parse failure at a logical line.
type Error struct {
	Line int
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
