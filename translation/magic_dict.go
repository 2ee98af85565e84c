package translation

import (
	"github.com/leapstack-labs/id-translation/format"
	"github.com/leapstack-labs/id-translation/idtype"
)

// MagicDict maps a source's translatable identifiers to their rendered
// strings, with an optional default-value fallback template for ids that
// were never fetched. Construction is single-threaded (via
// MagicDictBuilder); once built, a MagicDict is immutable and safe for
// concurrent reads. Grounded on offline/_magic_dict.MagicDict in the
// original implementation.
type MagicDict struct {
	source         string
	real           map[idtype.Identifier]string
	order          []idtype.Identifier
	fallback       *format.Compiled
	fallbackValues map[string]string
	idPlaceholder  string
}

// Get returns the rendered translation for id. If id was not among the
// fetched records but a default-value fallback template is configured, the
// fallback is rendered with id substituted in for the id placeholder. The
// second return value is false only when neither a real entry nor a
// fallback template is available.
func (m *MagicDict) Get(id idtype.Identifier) (string, bool) {
	key := id.Canonical()
	if v, ok := m.real[key]; ok {
		return v, true
	}
	if m.fallback == nil {
		return "", false
	}
	values := make(map[string]string, len(m.fallbackValues)+1)
	for k, v := range m.fallbackValues {
		values[k] = v
	}
	values[m.idPlaceholder] = key.String()
	return m.fallback.Render(values), true
}

// Contains reports whether id was actually fetched (ignoring any fallback).
func (m *MagicDict) Contains(id idtype.Identifier) bool {
	_, ok := m.real[id.Canonical()]
	return ok
}

// HasFallback reports whether unmapped ids still translate via a
// default-value template.
func (m *MagicDict) HasFallback() bool { return m.fallback != nil }

// Len returns the number of actually-fetched identifiers.
func (m *MagicDict) Len() int { return len(m.real) }

// Keys returns the fetched identifiers, in fetch order.
func (m *MagicDict) Keys() []idtype.Identifier {
	return append([]idtype.Identifier(nil), m.order...)
}

// Source returns the name of the source this dict was built from.
func (m *MagicDict) Source() string { return m.source }

// MagicDictBuilder accumulates (identifier, rendered string) entries while
// detecting UUID-canonicalization collisions, then produces an immutable
// MagicDict.
type MagicDictBuilder struct {
	source string
	real   map[idtype.Identifier]string
	order  []idtype.Identifier
}

// NewMagicDictBuilder creates a builder for the named source.
func NewMagicDictBuilder(source string) *MagicDictBuilder {
	return &MagicDictBuilder{source: source, real: map[idtype.Identifier]string{}}
}

// Put records one (identifier, rendered) pair. It returns a
// *DuplicateKeyError if id canonicalizes to a key already present.
func (b *MagicDictBuilder) Put(id idtype.Identifier, rendered string) error {
	key := id.Canonical()
	if _, exists := b.real[key]; exists {
		return &DuplicateKeyError{Source: b.source, ID: key}
	}
	b.real[key] = rendered
	b.order = append(b.order, key)
	return nil
}

// Build finalizes the builder into a MagicDict. fallback may be nil, in
// which case ids outside the fetched set are reported as unmapped.
func (b *MagicDictBuilder) Build(fallback *format.Compiled, fallbackValues map[string]string, idPlaceholder string) *MagicDict {
	return &MagicDict{
		source:         b.source,
		real:           b.real,
		order:          b.order,
		fallback:       fallback,
		fallbackValues: fallbackValues,
		idPlaceholder:  idPlaceholder,
	}
}
