package dio

import (
	"github.com/leapstack-labs/id-translation/idtype"
	"github.com/leapstack-labs/id-translation/translation"
)

// SingleValueIO handles one bare identifier, given as idtype.Identifier or
// *idtype.Identifier; neither form can be translated in place (see Insert).
// A bare value carries no name of its own, so callers must
// supply exactly one name to Extract/Insert. Grounded on
// dio._single_value.SingleValueIO.
type SingleValueIO struct{}

// HandlesType implements DataStructureIO.
func (SingleValueIO) HandlesType(v any) bool {
	switch v.(type) {
	case idtype.Identifier, *idtype.Identifier:
		return true
	default:
		return false
	}
}

// Names implements DataStructureIO. A single value has no name of its own.
func (SingleValueIO) Names(any) ([]string, bool) { return nil, false }

// Extract implements DataStructureIO.
func (SingleValueIO) Extract(v any, names []string) (map[string][]idtype.Identifier, error) {
	id, err := singleValueOf(v)
	if err != nil {
		return nil, err
	}
	name := ""
	if len(names) > 0 {
		name = names[0]
	}
	return map[string][]idtype.Identifier{name: {id}}, nil
}

// Insert implements DataStructureIO. A bare identifier's type cannot change
// to string under an existing pointer, so copy=false always fails with
// *NotInPlaceTranslatableError, matching MapIO's contract.
func (SingleValueIO) Insert(v any, names []string, dicts map[string]*translation.MagicDict, copy bool) (any, error) {
	if !copy {
		return nil, &NotInPlaceTranslatableError{TypeName: "single value"}
	}
	id, err := singleValueOf(v)
	if err != nil {
		return nil, err
	}
	name := ""
	if len(names) > 0 {
		name = names[0]
	}
	dict := dicts[name]
	if dict == nil {
		return v, nil
	}
	translated, _ := dict.Get(id)
	return translated, nil
}

func singleValueOf(v any) (idtype.Identifier, error) {
	switch t := v.(type) {
	case idtype.Identifier:
		return t, nil
	case *idtype.Identifier:
		return *t, nil
	default:
		return idtype.Identifier{}, &UntranslatableTypeError{TypeName: "unsupported single value"}
	}
}
