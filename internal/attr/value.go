package attr

import (
	"fmt"
	"slices"
	"unicode/utf16"
)

// Value is a sealed interface over the scalar types an attribute may hold.
// Only String, Int, and Bool implement it. There is no float variant:
// floating-point formatting is not stable enough across recomputation to
// participate in record hashing.
type Value interface {
	attrValue() // Sealed - only these types implement it
}

// String represents a string attribute value.
type String string

func (String) attrValue() {}

// Int represents an integer attribute value.
// Always int64, never float64.
type Int int64

func (Int) attrValue() {}

// Bool represents a boolean attribute value.
type Bool bool

func (Bool) attrValue() {}

// Map holds a record's attributes. Keys are unique; insertion order is
// irrelevant for hashing - use SortedKeys for deterministic iteration.
// A nil Map and an empty Map are equivalent everywhere, including in
// canonical serialization.
type Map map[string]Value

// FromGoMap converts a plain map (as decoded from YAML or built by hand)
// into a Map. Supported value types are string, bool, int, int64, and any
// existing Value. Anything else - floats, nil, nested maps or slices -
// returns an error naming the offending key, so a record that could not
// be re-hashed deterministically is never constructed.
func FromGoMap(m map[string]any) (Map, error) {
	if len(m) == 0 {
		return Map{}, nil
	}
	out := make(Map, len(m))
	for k, v := range m {
		val, err := FromGo(v)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", k, err)
		}
		out[k] = val
	}
	return out, nil
}

// FromGo converts a single plain Go value into a Value, with the same
// type restrictions as FromGoMap.
func FromGo(v any) (Value, error) {
	switch val := v.(type) {
	case Value:
		return val, nil
	case string:
		return String(val), nil
	case bool:
		return Bool(val), nil
	case int:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case float32, float64:
		return nil, fmt.Errorf("floats are forbidden in attributes: %v", val)
	case nil:
		return nil, fmt.Errorf("null is forbidden in attributes")
	default:
		return nil, fmt.Errorf("unsupported attribute type: %T", v)
	}
}

// Clone returns an independent copy of the map. Cloning a nil Map returns
// nil. Values are immutable scalars, so a shallow copy is a full copy.
func (m Map) Clone() Map {
	if m == nil {
		return nil
	}
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Equal reports whether two maps hold the same keys and values.
// nil and empty maps compare equal.
func (m Map) Equal(other Map) bool {
	if len(m) != len(other) {
		return false
	}
	for k, v := range m {
		ov, ok := other[k]
		if !ok || ov != v {
			return false
		}
	}
	return true
}

// SortedKeys returns keys in RFC 8785 canonical order (UTF-16 code units).
// Go's sort.Strings uses UTF-8 which produces a DIFFERENT order for keys
// outside the BMP.
func (m Map) SortedKeys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysRFC8785)
	return keys
}

// compareKeysRFC8785 compares strings using UTF-16 code unit ordering as
// required by RFC 8785. Must use unicode/utf16.Encode for correct
// surrogate handling.
func compareKeysRFC8785(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	minLen := len(a16)
	if len(b16) < minLen {
		minLen = len(b16)
	}
	for i := 0; i < minLen; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}
	if len(a16) < len(b16) {
		return -1
	}
	if len(a16) > len(b16) {
		return 1
	}
	return 0
}
