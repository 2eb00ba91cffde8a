package gddb

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Value is a sealed interface over the typed values a record field holds.
// Only String, Int, Float, Bool and Array implement it.
type Value interface {
	value() // Sealed

	// Format renders the value the way it appears in a record listing.
	Format() string
}

// String is a text field value.
type String string

func (String) value() {}

// Format returns the string unchanged.
func (s String) Format() string { return string(s) }

// Int is an integer field value.
type Int int64

func (Int) value() {}

// Format renders the integer in base 10.
func (n Int) Format() string { return strconv.FormatInt(int64(n), 10) }

// Float is a real-valued field value.
type Float float64

func (Float) value() {}

// Format renders the shortest decimal form that round-trips.
func (f Float) Format() string { return strconv.FormatFloat(float64(f), 'f', -1, 64) }

// Bool is a boolean field value.
type Bool bool

func (Bool) value() {}

// Format renders 1 or 0, matching the game's own record files.
func (b Bool) Format() string {
	if b {
		return "1"
	}
	return "0"
}

// Array is a multi-valued field. Elements are never arrays themselves.
type Array []Value

func (Array) value() {}

// Format joins the element forms with ';'.
func (a Array) Format() string {
	parts := make([]string, len(a))
	for i, v := range a {
		parts[i] = v.Format()
	}
	return strings.Join(parts, ";")
}

// Equal reports whether a and b hold the same type and the same value.
// String("1") and Int(1) are never equal.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Int:
		bv, ok := b.(Int)
		return ok && av == bv
	case Float:
		bv, ok := b.(Float)
		return ok && av == bv
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case Array:
		bv, ok := b.(Array)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Plain converts a value to the matching Go builtin type, for encoders that
// know nothing about Value.
func Plain(v Value) any {
	switch val := v.(type) {
	case String:
		return string(val)
	case Int:
		return int64(val)
	case Float:
		return float64(val)
	case Bool:
		return bool(val)
	case Array:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = Plain(elem)
		}
		return out
	default:
		return nil
	}
}

// Fields maps field names to values.
// Use SortedKeys() for deterministic iteration.
type Fields map[string]Value

// SortedKeys returns the field names in ascending byte order.
func (f Fields) SortedKeys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Clone returns a shallow copy; values are shared.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Plain converts every field with the package-level Plain.
func (f Fields) Plain() map[string]any {
	out := make(map[string]any, len(f))
	for k, v := range f {
		out[k] = Plain(v)
	}
	return out
}

// MarshalJSON writes the fields with sorted keys.
func (f Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, k := range f.SortedKeys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, fmt.Errorf("marshal key %q: %w", k, err)
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')

		valBytes, err := MarshalValue(f[k])
		if err != nil {
			return nil, fmt.Errorf("marshal value for key %q: %w", k, err)
		}
		buf.Write(valBytes)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler for Fields.
func (f *Fields) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*f = make(Fields, len(raw))
	for k, v := range raw {
		val, err := UnmarshalValue(v)
		if err != nil {
			return fmt.Errorf("field %q: %w", k, err)
		}
		(*f)[k] = val
	}
	return nil
}

// MarshalValue encodes a value as JSON. Floats always carry a decimal point
// or exponent so they decode back as Float rather than Int.
func MarshalValue(v Value) ([]byte, error) {
	switch val := v.(type) {
	case String:
		return json.Marshal(string(val))
	case Int:
		return []byte(strconv.FormatInt(int64(val), 10)), nil
	case Float:
		f := float64(val)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("float %v has no JSON form", f)
		}
		s := strconv.FormatFloat(f, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return []byte(s), nil
	case Bool:
		return json.Marshal(bool(val))
	case Array:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			elemBytes, err := MarshalValue(elem)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			buf.Write(elemBytes)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown value type: %T", v)
	}
}

// UnmarshalValue decodes one JSON value. Numbers without a fraction or
// exponent become Int, all other numbers Float. Null, objects and nested
// arrays are rejected.
func UnmarshalValue(data []byte) (Value, error) {
	return unmarshalValue(bytes.TrimSpace(data), false)
}

func unmarshalValue(data []byte, inArray bool) (Value, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty JSON value")
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, err
		}
		return String(s), nil

	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, err
		}
		return Bool(b), nil

	case 'n':
		return nil, fmt.Errorf("null is not a field value")

	case '{':
		return nil, fmt.Errorf("objects are not field values")

	case '[':
		if inArray {
			return nil, fmt.Errorf("nested arrays are not field values")
		}
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		arr := make(Array, len(raw))
		for i, elem := range raw {
			v, err := unmarshalValue(bytes.TrimSpace(elem), true)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			arr[i] = v
		}
		return arr, nil

	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		s := n.String()
		if !strings.ContainsAny(s, ".eE") {
			i, err := n.Int64()
			if err != nil {
				return nil, fmt.Errorf("integer out of range: %s", s)
			}
			return Int(i), nil
		}
		f, err := n.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid float: %s", s)
		}
		return Float(f), nil
	}
}
