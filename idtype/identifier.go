// Package idtype defines the value types shared across the translation
// engine: the opaque Identifier being translated, the Value held in a
// placeholder record cell, and Cardinality for mapping selection.
package idtype

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Kind identifies which variant of Identifier is populated.
type Kind uint8

const (
	// KindInt64 holds an int64 identifier.
	KindInt64 Kind = iota
	// KindString holds a string identifier.
	KindString
	// KindUUID holds a canonical UUID identifier.
	KindUUID
)

// Identifier is a hashable tagged union over {int64, string, UUID}. It is
// the opaque ID being translated; see spec.md §3.
type Identifier struct {
	kind Kind
	i    int64
	s    string
	u    uuid.UUID
}

// Int64 creates an int64 Identifier.
func Int64(v int64) Identifier { return Identifier{kind: KindInt64, i: v} }

// String creates a string Identifier.
func String(v string) Identifier { return Identifier{kind: KindString, s: v} }

// FromUUID creates a UUID Identifier.
func FromUUID(v uuid.UUID) Identifier { return Identifier{kind: KindUUID, u: v} }

// Kind returns the populated variant.
func (id Identifier) Kind() Kind { return id.kind }

// AsString returns the underlying value formatted as a string regardless of
// variant, used for rendering and for UUID-heuristic canonicalization.
func (id Identifier) AsString() string {
	switch id.kind {
	case KindInt64:
		return strconv.FormatInt(id.i, 10)
	case KindUUID:
		return id.u.String()
	default:
		return id.s
	}
}

// String implements fmt.Stringer.
func (id Identifier) String() string { return id.AsString() }

// Canonical returns an Identifier with string-like variants normalized: a
// String identifier that parses as a UUID is promoted to KindUUID so that
// two differently-cased spellings of the same UUID compare equal. Used when
// UUID heuristics are enabled (spec.md §4.4).
func (id Identifier) Canonical() Identifier {
	if id.kind != KindString {
		return id
	}
	if u, err := uuid.Parse(id.s); err == nil {
		return FromUUID(u)
	}
	return id
}

// ParseUUIDLike reports whether s parses as a UUID, ignoring case.
func ParseUUIDLike(s string) (uuid.UUID, bool) {
	u, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.UUID{}, false
	}
	return u, true
}

type identifierWire struct {
	Kind Kind
	I    int64
	S    string
	U    uuid.UUID
}

// GobEncode implements gob.GobEncoder so an Identifier can be used directly
// as a map key in a gob-serialized offline translation snapshot.
func (id Identifier) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	wire := identifierWire{Kind: id.kind, I: id.i, S: id.s, U: id.u}
	if err := gob.NewEncoder(&buf).Encode(wire); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder.
func (id *Identifier) GobDecode(data []byte) error {
	var wire identifierWire
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&wire); err != nil {
		return err
	}
	id.kind, id.i, id.s, id.u = wire.Kind, wire.I, wire.S, wire.U
	return nil
}

// GoString supports debug printing with the variant made explicit.
func (id Identifier) GoString() string {
	switch id.kind {
	case KindInt64:
		return fmt.Sprintf("Identifier.Int64(%d)", id.i)
	case KindUUID:
		return fmt.Sprintf("Identifier.UUID(%s)", id.u)
	default:
		return fmt.Sprintf("Identifier.String(%q)", id.s)
	}
}
