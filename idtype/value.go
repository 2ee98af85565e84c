package idtype

import (
	"bytes"
	"encoding/gob"
	"strconv"
)

// ValueKind identifies which variant of Value is populated.
type ValueKind uint8

const (
	// ValueNull represents an absent/NULL cell.
	ValueNull ValueKind = iota
	// ValueInt64 holds a signed integer.
	ValueInt64
	// ValueFloat64 holds a floating-point number.
	ValueFloat64
	// ValueString holds a string.
	ValueString
	// ValueBool holds a boolean.
	ValueBool
)

// Value is a tagged union for a single placeholder-record cell. Placeholder
// records returned by fetchers are untyped in the source system (spec.md
// §3); this is the second sum type the design notes (spec.md §9) call for.
type Value struct {
	kind ValueKind
	i    int64
	f    float64
	s    string
	b    bool
}

// Null is the zero Value (ValueKind ValueNull).
var Null = Value{kind: ValueNull}

// NewInt64 creates an int64 Value.
func NewInt64(v int64) Value { return Value{kind: ValueInt64, i: v} }

// NewFloat64 creates a float64 Value.
func NewFloat64(v float64) Value { return Value{kind: ValueFloat64, f: v} }

// NewString creates a string Value.
func NewString(v string) Value { return Value{kind: ValueString, s: v} }

// NewBool creates a bool Value.
func NewBool(v bool) Value { return Value{kind: ValueBool, b: v} }

// Kind returns the populated variant.
func (v Value) Kind() ValueKind { return v.kind }

// IsNull reports whether v is the null variant.
func (v Value) IsNull() bool { return v.kind == ValueNull }

// Raw returns the value boxed as an `any`, matching its Go-native type.
func (v Value) Raw() any {
	switch v.kind {
	case ValueInt64:
		return v.i
	case ValueFloat64:
		return v.f
	case ValueString:
		return v.s
	case ValueBool:
		return v.b
	default:
		return nil
	}
}

// String renders the value the way a format placeholder expects it: the
// empty string for Null, else the natural text form.
func (v Value) String() string {
	switch v.kind {
	case ValueInt64:
		return strconv.FormatInt(v.i, 10)
	case ValueFloat64:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case ValueBool:
		return strconv.FormatBool(v.b)
	case ValueString:
		return v.s
	default:
		return ""
	}
}

type valueWire struct {
	Kind ValueKind
	I    int64
	F    float64
	S    string
	B    bool
}

// GobEncode implements gob.GobEncoder so Value records can be serialized
// directly, e.g. by fetching.FileCache.
func (v Value) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	wire := valueWire{Kind: v.kind, I: v.i, F: v.f, S: v.s, B: v.b}
	if err := gob.NewEncoder(&buf).Encode(wire); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder.
func (v *Value) GobDecode(data []byte) error {
	var wire valueWire
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&wire); err != nil {
		return err
	}
	v.kind, v.i, v.f, v.s, v.b = wire.Kind, wire.I, wire.F, wire.S, wire.B
	return nil
}
