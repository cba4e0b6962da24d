package openresponses

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Value holds a JSON value whose wire shape is not fixed: the same field may
// arrive as a string, a number, an object, an array, or an explicit null,
// and an absent field must stay distinguishable from a null one. The raw
// bytes are kept verbatim so re-serialization is lossless.
//
// The zero Value represents an absent field.
type Value struct {
	raw json.RawMessage
}

// NewValue creates a Value from raw JSON bytes
func NewValue(raw []byte) Value {
	if raw == nil {
		return Value{}
	}
	cp := make(json.RawMessage, len(raw))
	copy(cp, raw)
	return Value{raw: cp}
}

// StringValue creates a Value holding a JSON string
func StringValue(s string) Value {
	raw, _ := json.Marshal(s)
	return Value{raw: raw}
}

// NullValue creates a Value holding an explicit JSON null
func NullValue() Value {
	return Value{raw: json.RawMessage("null")}
}

// Present reports whether the field was present on the wire at all,
// including as an explicit null
func (v Value) Present() bool {
	return v.raw != nil
}

// IsZero reports whether the field was absent, letting omitzero struct tags
// drop it on re-serialization while an explicit null survives
func (v Value) IsZero() bool {
	return v.raw == nil
}

// IsNull reports whether the value is an explicit JSON null
func (v Value) IsNull() bool {
	return v.raw != nil && bytes.Equal(bytes.TrimSpace(v.raw), []byte("null"))
}

// Raw returns the underlying raw JSON, or nil when absent
func (v Value) Raw() json.RawMessage {
	return v.raw
}

// JSONString returns the canonical (compact) JSON re-serialization of the
// value. An explicit null yields "null"; an absent value yields "".
func (v Value) JSONString() string {
	if v.raw == nil {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, v.raw); err != nil {
		return string(v.raw)
	}
	return buf.String()
}

// AsString returns the value as a Go string when the wire shape is a JSON
// string, along with whether that decoding applied
func (v Value) AsString() (string, bool) {
	if v.raw == nil {
		return "", false
	}
	var s string
	if err := json.Unmarshal(v.raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// AsInt returns the value decoded as an integer with no precision loss
func (v Value) AsInt() (int64, bool) {
	if v.raw == nil {
		return 0, false
	}
	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(v.raw))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		return 0, false
	}
	i, err := n.Int64()
	if err != nil {
		return 0, false
	}
	return i, true
}

// AsObject returns the value decoded as a JSON object
func (v Value) AsObject() (map[string]any, bool) {
	if v.raw == nil {
		return nil, false
	}
	var m map[string]any
	if err := json.Unmarshal(v.raw, &m); err != nil {
		return nil, false
	}
	return m, true
}

// ArgumentsString canonicalizes a tool-call arguments value to a JSON
// document string. The API emits arguments both as a JSON string containing
// a document ("{\"a\":1}") and as a nested object ({"a":1}); either form
// yields the same canonical string here.
func (v Value) ArgumentsString() string {
	if s, ok := v.AsString(); ok {
		return s
	}
	return v.JSONString()
}

// MarshalJSON implements json.Marshaler. An absent Value marshals as null;
// use omitzero or pointer fields to drop it entirely.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.raw == nil {
		return []byte("null"), nil
	}
	return v.raw, nil
}

// UnmarshalJSON implements json.Unmarshaler
func (v *Value) UnmarshalJSON(data []byte) error {
	if data == nil {
		return fmt.Errorf("unmarshal Value: nil data")
	}
	cp := make(json.RawMessage, len(data))
	copy(cp, data)
	v.raw = cp
	return nil
}

// Equal reports structural equality of two values, independent of key order
// and whitespace
func (v Value) Equal(other Value) bool {
	if v.raw == nil || other.raw == nil {
		return v.raw == nil && other.raw == nil
	}
	var a, b any
	if err := json.Unmarshal(v.raw, &a); err != nil {
		return false
	}
	if err := json.Unmarshal(other.raw, &b); err != nil {
		return false
	}
	return deepEqualJSON(a, b)
}

func deepEqualJSON(a, b any) bool {
	switch av := a.(type) {
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			bvk, ok := bv[k]
			if !ok || !deepEqualJSON(v, bvk) {
				return false
			}
		}
		return true
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !deepEqualJSON(av[i], bv[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}
