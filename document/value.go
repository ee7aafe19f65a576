package document

import (
	"encoding/json"
	"unique"
)

// Kind identifies the concrete type stored in a Value.
type Kind uint8

const (
	// KindInvalid represents an invalid kind.
	KindInvalid Kind = iota
	// KindNull represents a null value.
	KindNull
	// KindInt represents an integer value.
	KindInt
	// KindFloat represents a float value.
	KindFloat
	// KindString represents a string value.
	KindString
	// KindBool represents a boolean value.
	KindBool
	// KindArray represents an array value.
	KindArray
	// KindObject represents a nested object value.
	KindObject
)

// Value is a small typed value used for document attributes.
//
// The representation is designed to make attribute access fast and
// predictable: no reflection and no fmt-based stringification.
type Value struct {
	Kind Kind
	I64  int64
	F64  float64
	s    unique.Handle[string] // Private interned string
	B    bool
	A    []Value
	O    map[string]Value
}

// Null returns a null Value.
func Null() Value { return Value{Kind: KindNull} }

// Int returns an int64 Value.
func Int(v int64) Value { return Value{Kind: KindInt, I64: v} }

// Float returns a float64 Value.
func Float(v float64) Value { return Value{Kind: KindFloat, F64: v} }

// String returns a string Value.
func String(v string) Value { return Value{Kind: KindString, s: unique.Make(v)} }

// Bool returns a boolean Value.
func Bool(v bool) Value { return Value{Kind: KindBool, B: v} }

// Array returns an array Value.
func Array(v []Value) Value { return Value{Kind: KindArray, A: v} }

// Object returns a nested object Value.
func Object(v map[string]Value) Value { return Value{Kind: KindObject, O: v} }

// StringValue returns the string value if Kind is KindString, otherwise empty string.
func (v Value) StringValue() string {
	if v.Kind == KindString {
		return v.s.Value()
	}
	return ""
}

// AsInt64 returns the int64 value if Kind is KindInt.
func (v Value) AsInt64() (int64, bool) {
	if v.Kind != KindInt {
		return 0, false
	}
	return v.I64, true
}

// AsFloat64 returns the float64 value if Kind is KindFloat or KindInt.
func (v Value) AsFloat64() (float64, bool) {
	switch v.Kind {
	case KindFloat:
		return v.F64, true
	case KindInt:
		return float64(v.I64), true
	default:
		return 0, false
	}
}

// AsString returns the string value if Kind is KindString.
func (v Value) AsString() (string, bool) {
	if v.Kind != KindString {
		return "", false
	}
	return v.s.Value(), true
}

// AsBool returns the boolean value if Kind is KindBool.
func (v Value) AsBool() (bool, bool) {
	if v.Kind != KindBool {
		return false, false
	}
	return v.B, true
}

// AsArray returns the array value if Kind is KindArray.
func (v Value) AsArray() ([]Value, bool) {
	if v.Kind != KindArray {
		return nil, false
	}
	return v.A, true
}

// AsObject returns the nested object value if Kind is KindObject.
func (v Value) AsObject() (map[string]Value, bool) {
	if v.Kind != KindObject {
		return nil, false
	}
	return v.O, true
}

// FromAny converts a decoded JSON value (the shapes produced by
// encoding/json into any) into a Value. Whole floats stay floats;
// json.Number-style integer detection is not attempted.
func FromAny(raw any) Value {
	switch t := raw.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(t)
	case float64:
		return Float(t)
	case string:
		return String(t)
	case []any:
		arr := make([]Value, len(t))
		for i, el := range t {
			arr[i] = FromAny(el)
		}
		return Array(arr)
	case map[string]any:
		obj := make(map[string]Value, len(t))
		for k, el := range t {
			obj[k] = FromAny(el)
		}
		return Object(obj)
	default:
		return Null()
	}
}

// ToAny converts a Value back into the shapes encoding/json expects.
func (v Value) ToAny() any {
	switch v.Kind {
	case KindNull:
		return nil
	case KindInt:
		return v.I64
	case KindFloat:
		return v.F64
	case KindString:
		return v.s.Value()
	case KindBool:
		return v.B
	case KindArray:
		arr := make([]any, len(v.A))
		for i := range v.A {
			arr[i] = v.A[i].ToAny()
		}
		return arr
	case KindObject:
		obj := make(map[string]any, len(v.O))
		for k := range v.O {
			obj[k] = v.O[k].ToAny()
		}
		return obj
	default:
		return nil
	}
}

// MarshalJSON implements json.Marshaler. Values serialize as their plain
// JSON representation, not a tagged envelope.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.ToAny())
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = FromAny(raw)
	return nil
}

// clone creates a deep copy of a Value, including nested arrays and objects.
func (v Value) clone() Value {
	out := v
	if len(v.A) > 0 {
		out.A = make([]Value, len(v.A))
		for i := range v.A {
			out.A[i] = v.A[i].clone()
		}
	}
	if len(v.O) > 0 {
		out.O = make(map[string]Value, len(v.O))
		for k := range v.O {
			out.O[k] = v.O[k].clone()
		}
	}
	return out
}

// Attributes is the open attribute mapping of a document.
type Attributes map[string]Value

// Clone creates a deep copy of the attribute mapping.
//
// This is the safe default to prevent external mutation after a write.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	clone := make(Attributes, len(a))
	for k, v := range a {
		clone[k] = v.clone()
	}
	return clone
}
