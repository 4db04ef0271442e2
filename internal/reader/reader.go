// Package reader turns a raw ACMI text stream into logical lines and fields.
//
// ACMI escapes line breaks with a trailing backslash and field separators
// with a backslash before the comma. Both rules have to be resolved before a
// record can be interpreted.
package reader

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// EscapeChar escapes line breaks and field separators.
const EscapeChar = '\\'

// ErrDanglingContinuation is returned when the input ends on a line that
// asks to be continued.
var ErrDanglingContinuation = errors.New("input ends with a line continuation")

// NewDecoder wraps r with a UTF-8 decoder that drops a leading byte order mark.
func NewDecoder(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.UTF8BOM.NewDecoder())
}

// LineReader yields logical lines: physical lines whose trimmed form ends
// with the escape character are joined with the following line, separated
// by a newline. It is a single forward-only cursor.
type LineReader struct {
	r      *bufio.Reader
	line   string
	lineNo int // physical line number where the current logical line starts
	read   int // physical lines consumed so far
	err    error
	done   bool
}

// NewLineReader creates a LineReader over r. r is read as-is; use NewDecoder
// first for file input.
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{r: bufio.NewReader(r)}
}

// Next advances to the next logical line. It returns false at end of input
// or on error; check Err afterwards.
func (lr *LineReader) Next() bool {
	if lr.done {
		return false
	}

	phys, ok := lr.readPhysical()
	if !ok {
		lr.done = true
		return false
	}
	lr.lineNo = lr.read

	line := phys
	for {
		trimmed := strings.TrimSpace(line)
		if !strings.HasSuffix(trimmed, string(EscapeChar)) {
			break
		}
		next, ok := lr.readPhysical()
		if !ok {
			if lr.err == nil {
				lr.err = ErrDanglingContinuation
			}
			lr.done = true
			return false
		}
		line = trimmed[:len(trimmed)-1] + "\n" + next
	}

	lr.line = line
	return true
}

// Line returns the current logical line without its terminator.
func (lr *LineReader) Line() string {
	return lr.line
}

// LineNumber returns the 1-based physical line number the current logical
// line starts on.
func (lr *LineReader) LineNumber() int {
	return lr.lineNo
}

// Err returns the first error met, or nil at a clean end of input.
func (lr *LineReader) Err() error {
	return lr.err
}

// readPhysical reads one physical line and strips its terminator.
// It returns false at end of input or on a read error.
func (lr *LineReader) readPhysical() (string, bool) {
	s, err := lr.r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		lr.err = err
		return "", false
	}
	if err != nil && s == "" {
		return "", false
	}
	lr.read++
	s = strings.TrimSuffix(s, "\n")
	s = strings.TrimSuffix(s, "\r")
	return s, true
}
