package dio

import (
	"github.com/leapstack-labs/id-translation/idtype"
	"github.com/leapstack-labs/id-translation/translation"
)

// SetIO handles map[idtype.Identifier]struct{}, Go's idiomatic set
// representation. Grounded on dio._set.SetIO.
type SetIO struct{}

// HandlesType implements DataStructureIO.
func (SetIO) HandlesType(v any) bool {
	_, ok := v.(map[idtype.Identifier]struct{})
	return ok
}

// Names implements DataStructureIO.
func (SetIO) Names(any) ([]string, bool) { return nil, false }

// Extract implements DataStructureIO.
func (SetIO) Extract(v any, names []string) (map[string][]idtype.Identifier, error) {
	set, ok := v.(map[idtype.Identifier]struct{})
	if !ok {
		return nil, &UntranslatableTypeError{TypeName: "unsupported set value"}
	}
	name := ""
	if len(names) > 0 {
		name = names[0]
	}
	ids := make([]idtype.Identifier, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return map[string][]idtype.Identifier{name: ids}, nil
}

// Insert implements DataStructureIO. A map[idtype.Identifier]struct{} cannot
// become a map[string]struct{} in place — the key type itself would have to
// change — so copy=false always fails with *NotInPlaceTranslatableError.
func (SetIO) Insert(v any, names []string, dicts map[string]*translation.MagicDict, copy bool) (any, error) {
	if !copy {
		return nil, &NotInPlaceTranslatableError{TypeName: "set"}
	}
	set, ok := v.(map[idtype.Identifier]struct{})
	if !ok {
		return nil, &UntranslatableTypeError{TypeName: "unsupported set value"}
	}
	name := ""
	if len(names) > 0 {
		name = names[0]
	}
	dict := dicts[name]
	out := make(map[string]struct{}, len(set))
	for id := range set {
		if dict == nil {
			continue
		}
		if s, ok := dict.Get(id); ok {
			out[s] = struct{}{}
		}
	}
	return out, nil
}
