package reader

import "strings"

// SplitFields splits a logical line on commas. A comma escaped by a
// backslash does not split; the backslash stays in the field so value
// parsing can resolve it. A backslash escaped by another backslash does not
// escape the character after it.
func SplitFields(line string) []string {
	var fields []string
	start := 0
	escaped := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case escaped:
			escaped = false
		case c == EscapeChar:
			escaped = true
		case c == ',':
			fields = append(fields, line[start:i])
			start = i + 1
		}
	}
	return append(fields, line[start:])
}

// SplitProperty splits a key=value field on its first '='.
func SplitProperty(field string) (key, value string, ok bool) {
	return strings.Cut(field, "=")
}

// Unescape resolves \, and \\ in a text value. Other backslashes are kept.
func Unescape(value string) string {
	if strings.IndexByte(value, EscapeChar) < 0 {
		return value
	}

	var b strings.Builder
	b.Grow(len(value))
	for i := 0; i < len(value); i++ {
		c := value[i]
		if c == EscapeChar && i+1 < len(value) && (value[i+1] == ',' || value[i+1] == EscapeChar) {
			i++
			c = value[i]
		}
		b.WriteByte(c)
	}
	return b.String()
}
