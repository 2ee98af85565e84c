package dio

import (
	"github.com/leapstack-labs/id-translation/idtype"
	"github.com/leapstack-labs/id-translation/translation"
)

// SliceIO handles []idtype.Identifier and *[]idtype.Identifier. Like
// SingleValueIO, a bare slice carries no name of its own. Grounded on
// dio._sequence.SequenceIO.
type SliceIO struct{}

// HandlesType implements DataStructureIO.
func (SliceIO) HandlesType(v any) bool {
	switch v.(type) {
	case []idtype.Identifier, *[]idtype.Identifier:
		return true
	default:
		return false
	}
}

// Names implements DataStructureIO.
func (SliceIO) Names(any) ([]string, bool) { return nil, false }

// Extract implements DataStructureIO.
func (SliceIO) Extract(v any, names []string) (map[string][]idtype.Identifier, error) {
	ids, err := sliceValueOf(v)
	if err != nil {
		return nil, err
	}
	name := ""
	if len(names) > 0 {
		name = names[0]
	}
	out := make([]idtype.Identifier, len(ids))
	copy(out, ids)
	return map[string][]idtype.Identifier{name: out}, nil
}

// Insert implements DataStructureIO. *[]idtype.Identifier cannot become a
// *[]string in place — the element type itself would have to change — so
// copy=false always fails with *NotInPlaceTranslatableError, a deviation
// from the original's in-place sequence mutation (which Python permits
// because a list's elements are dynamically typed).
func (SliceIO) Insert(v any, names []string, dicts map[string]*translation.MagicDict, copy bool) (any, error) {
	if !copy {
		return nil, &NotInPlaceTranslatableError{TypeName: "slice"}
	}
	ids, err := sliceValueOf(v)
	if err != nil {
		return nil, err
	}
	name := ""
	if len(names) > 0 {
		name = names[0]
	}
	dict := dicts[name]
	out := make([]string, len(ids))
	for i, id := range ids {
		if dict == nil {
			continue
		}
		out[i], _ = dict.Get(id)
	}
	return out, nil
}

func sliceValueOf(v any) ([]idtype.Identifier, error) {
	switch t := v.(type) {
	case []idtype.Identifier:
		return t, nil
	case *[]idtype.Identifier:
		return *t, nil
	default:
		return nil, &UntranslatableTypeError{TypeName: "unsupported slice value"}
	}
}
