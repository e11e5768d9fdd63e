package model

import (
	"encoding/json"
	"math"

	"github.com/google/uuid"
	"github.com/spf13/cast"
)

// Number is a float64 that decodes leniently from persisted JSON. Numeric
// strings and booleans are converted; anything else, including NaN, decodes as 0.
type Number float64

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		*n = 0
		return nil
	}

	*n = NumberOf(raw)
	return nil
}

// NumberOf converts a decoded JSON value to a Number using the same lenient
// rules as UnmarshalJSON.
func NumberOf(v any) Number {
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return Number(f)
}

// Float returns the value as a float64.
func (n Number) Float() float64 {
	return float64(n)
}

// Int returns the value truncated towards zero.
func (n Number) Int() int {
	return int(n)
}

// ID identifies a loan tab, scenario, expense or contribution rule. Older
// documents stored epoch-millisecond numbers, so numeric ids are accepted too.
type ID string

// NewID returns a fresh random identifier.
func NewID() ID {
	return ID(uuid.NewString())
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		*id = ""
		return nil
	}

	switch v := raw.(type) {
	case float64:
		*id = ID(cast.ToString(int64(v)))
	default:
		*id = ID(cast.ToString(v))
	}
	return nil
}

// Text is a string that decodes leniently. Numbers and booleans are
// formatted; null, objects and arrays decode as "".
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		*t = ""
		return nil
	}

	*t = TextOf(raw)
	return nil
}

// TextOf converts a decoded JSON value to Text using the same lenient rules
// as UnmarshalJSON.
func TextOf(v any) Text {
	switch v.(type) {
	case map[string]any, []any:
		return ""
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return Text(s)
}

// Flag is a bool that decodes by truthiness: non-empty strings, non-zero
// numbers, objects and arrays are true; null is false.
type Flag bool

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		*f = false
		return nil
	}

	*f = FlagOf(raw)
	return nil
}

// FlagOf converts a decoded JSON value to a Flag.
func FlagOf(v any) Flag {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return Flag(v)
	case string:
		return v != ""
	case float64:
		return Flag(v != 0 && !math.IsNaN(v))
	default:
		return true
	}
}
