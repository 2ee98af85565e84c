package translation

import "github.com/leapstack-labs/id-translation/idtype"

// TranslationMap is the result of one fetch-and-render cycle: one
// MagicDict per source. It is immutable and safe for concurrent reads.
// Grounded on offline/_translation_map.TranslationMap in the original
// implementation.
type TranslationMap struct {
	dicts   map[string]*MagicDict
	reverse map[string]map[string]idtype.Identifier
}

// NewTranslationMap builds a TranslationMap from one MagicDict per source,
// eagerly building the reverse (rendered string -> id) index used by
// ReverseTranslate.
func NewTranslationMap(dicts map[string]*MagicDict) *TranslationMap {
	reverse := make(map[string]map[string]idtype.Identifier, len(dicts))
	for source, d := range dicts {
		m := make(map[string]idtype.Identifier, d.Len())
		for _, id := range d.Keys() {
			if rendered, ok := d.Get(id); ok {
				m[rendered] = id
			}
		}
		reverse[source] = m
	}
	return &TranslationMap{dicts: dicts, reverse: reverse}
}

// Sources returns the source names covered by this map.
func (t *TranslationMap) Sources() []string {
	out := make([]string, 0, len(t.dicts))
	for s := range t.dicts {
		out = append(out, s)
	}
	return out
}

// MagicDict returns the dict for source, if any.
func (t *TranslationMap) MagicDict(source string) (*MagicDict, bool) {
	d, ok := t.dicts[source]
	return d, ok
}

// Translate looks up id's rendered translation in source.
func (t *TranslationMap) Translate(source string, id idtype.Identifier) (string, bool) {
	d, ok := t.dicts[source]
	if !ok {
		return "", false
	}
	return d.Get(id)
}

// ReverseTranslate recovers the identifier that rendered to s within
// source, undoing a prior translation. Only identifiers actually present
// in the fetched records can be recovered this way: a fallback-rendered
// string has no identifier to point back to.
func (t *TranslationMap) ReverseTranslate(source, s string) (idtype.Identifier, bool) {
	m, ok := t.reverse[source]
	if !ok {
		return idtype.Identifier{}, false
	}
	id, ok := m[s]
	return id, ok
}

// Len returns the total number of fetched identifiers across all sources.
func (t *TranslationMap) Len() int {
	n := 0
	for _, d := range t.dicts {
		n += d.Len()
	}
	return n
}

// SourceSnapshot is the gob-serializable form of one source's MagicDict.
// The default-value fallback template, if any, is not preserved: a
// restored TranslationMap only ever reports ids it actually had records
// for at Snapshot time.
type SourceSnapshot struct {
	IDPlaceholder string
	Entries       map[idtype.Identifier]string
}

// Snapshot captures t in a form suitable for gob encoding (see
// translator.Store / translator.Restore).
func (t *TranslationMap) Snapshot() map[string]SourceSnapshot {
	out := make(map[string]SourceSnapshot, len(t.dicts))
	for source, d := range t.dicts {
		entries := make(map[idtype.Identifier]string, d.Len())
		for _, id := range d.Keys() {
			if rendered, ok := d.Get(id); ok {
				entries[id] = rendered
			}
		}
		out[source] = SourceSnapshot{IDPlaceholder: d.idPlaceholder, Entries: entries}
	}
	return out
}

// FromSnapshot rebuilds a TranslationMap from a snapshot produced by
// Snapshot. The error return is always nil for snapshots built by this
// package; it exists so a future validating loader has somewhere to report
// corruption without changing the signature.
func FromSnapshot(snap map[string]SourceSnapshot) (*TranslationMap, error) {
	dicts := make(map[string]*MagicDict, len(snap))
	for source, s := range snap {
		b := NewMagicDictBuilder(source)
		for id, rendered := range s.Entries {
			if err := b.Put(id, rendered); err != nil {
				return nil, err
			}
		}
		dicts[source] = b.Build(nil, nil, s.IDPlaceholder)
	}
	return NewTranslationMap(dicts), nil
}
