// pkg/core/value.go
package core

import (
	"encoding/json"
	"strconv"
)

// Kind distinguishes the two value types a property can carry.
type Kind uint8

const (
	KindText Kind = iota
	KindNumber
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	default:
		return "text"
	}
}

// Value is a typed property value: either a number or opaque text.
type Value struct {
	kind Kind
	num  float64
	text string
}

// Number returns a numeric Value.
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// Text returns a text Value.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Kind reports whether v is text or a number.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNumber reports whether v holds a number.
func (v Value) IsNumber() bool {
	return v.kind == KindNumber
}

// Float returns the numeric value and true, or 0 and false for text values.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// String returns the raw text for text values and the shortest decimal form of numbers.
func (v Value) String() string {
	if v.kind == KindNumber {
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	}
	return v.text
}

// MarshalJSON encodes numbers as JSON numbers and text as JSON strings.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == KindNumber {
		return json.Marshal(v.num)
	}
	return json.Marshal(v.text)
}

// UnmarshalJSON accepts a JSON number or string.
func (v *Value) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*v = Number(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*v = Text(s)
	return nil
}

// Interface returns the value as a float64 or a string.
func (v Value) Interface() any {
	if v.kind == KindNumber {
		return v.num
	}
	return v.text
}
