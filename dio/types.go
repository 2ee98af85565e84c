// Package dio (data structure IO) extracts identifiers from, and inserts
// translated strings into, the caller's own Go values: slices, sets and
// maps of identifiers. Grounded on dio/_data_structure_io.py,
// dio/_resolve.py and the dio/default adapters in the original
// implementation.
package dio

import (
	"github.com/leapstack-labs/id-translation/idtype"
	"github.com/leapstack-labs/id-translation/translation"
)

// DataStructureIO extracts ids from, and inserts translations into, one
// shape of translatable Go value. Grounded on
// dio._data_structure_io.DataStructureIO.
type DataStructureIO interface {
	// HandlesType reports whether this implementation can process v.
	HandlesType(v any) bool
	// Names extracts the names (e.g. struct/column field names) present
	// in v, or (nil, false) if v carries no names of its own — a bare
	// slice or scalar, say, which the caller must name explicitly.
	Names(v any) ([]string, bool)
	// Extract pulls the requested names' identifiers out of v.
	Extract(v any, names []string) (map[string][]idtype.Identifier, error)
	// Insert renders names' identifiers in v to strings using dicts
	// (keyed by name), returning a new value if copy is true, or nil
	// after mutating v in place if copy is false and v supports it.
	Insert(v any, names []string, dicts map[string]*translation.MagicDict, copy bool) (any, error)
}

// NotInPlaceTranslatableError reports that Insert was asked to mutate a
// value in place (copy=false) that does not support it (e.g. a plain Go
// slice, whose backing array callers rarely want silently overwritten
// through an interface value).
type NotInPlaceTranslatableError struct{ TypeName string }

func (e *NotInPlaceTranslatableError) Error() string {
	return "dio: " + e.TypeName + " cannot be translated in place; call Insert with copy=true"
}

// UntranslatableTypeError reports that no registered DataStructureIO
// handles a value's type.
type UntranslatableTypeError struct{ TypeName string }

func (e *UntranslatableTypeError) Error() string {
	return "dio: no DataStructureIO implementation handles type " + e.TypeName
}
