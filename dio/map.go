package dio

import (
	"github.com/leapstack-labs/id-translation/idtype"
	"github.com/leapstack-labs/id-translation/translation"
)

// MapIO handles map[string][]idtype.Identifier and
// map[string]idtype.Identifier: the keys are the names, so Names reports
// them instead of requiring the caller to supply one. Grounded on
// dio.default._dict.DictIO.
type MapIO struct{}

// HandlesType implements DataStructureIO.
func (MapIO) HandlesType(v any) bool {
	switch v.(type) {
	case map[string][]idtype.Identifier, map[string]idtype.Identifier:
		return true
	default:
		return false
	}
}

// Names implements DataStructureIO.
func (MapIO) Names(v any) ([]string, bool) {
	switch t := v.(type) {
	case map[string][]idtype.Identifier:
		names := make([]string, 0, len(t))
		for name := range t {
			names = append(names, name)
		}
		return names, true
	case map[string]idtype.Identifier:
		names := make([]string, 0, len(t))
		for name := range t {
			names = append(names, name)
		}
		return names, true
	default:
		return nil, false
	}
}

// Extract implements DataStructureIO.
func (MapIO) Extract(v any, names []string) (map[string][]idtype.Identifier, error) {
	out := map[string][]idtype.Identifier{}
	switch t := v.(type) {
	case map[string][]idtype.Identifier:
		for _, name := range names {
			out[name] = append([]idtype.Identifier{}, t[name]...)
		}
	case map[string]idtype.Identifier:
		for _, name := range names {
			out[name] = []idtype.Identifier{t[name]}
		}
	default:
		return nil, &UntranslatableTypeError{TypeName: "unsupported map value"}
	}
	return out, nil
}

// Insert implements DataStructureIO, translating each named entry through
// the per-name dict and leaving entries not in names untouched. Mirrors the
// original's DictIO.insert, which recurses into each value's own
// DataStructureIO; since every value here is already a bare identifier or
// identifier slice, Insert renders it directly rather than re-resolving.
func (MapIO) Insert(v any, names []string, dicts map[string]*translation.MagicDict, copy bool) (any, error) {
	wanted := make(map[string]struct{}, len(names))
	for _, name := range names {
		wanted[name] = struct{}{}
	}

	switch t := v.(type) {
	case map[string][]idtype.Identifier:
		out := make(map[string]any, len(t))
		for name, ids := range t {
			if _, ok := wanted[name]; !ok {
				out[name] = ids
				continue
			}
			dict := dicts[name]
			rendered := make([]string, len(ids))
			for i, id := range ids {
				if dict != nil {
					rendered[i], _ = dict.Get(id)
				}
			}
			out[name] = rendered
		}
		return finishInsert(out, copy)
	case map[string]idtype.Identifier:
		out := make(map[string]any, len(t))
		for name, id := range t {
			if _, ok := wanted[name]; !ok {
				out[name] = id
				continue
			}
			dict := dicts[name]
			var rendered string
			if dict != nil {
				rendered, _ = dict.Get(id)
			}
			out[name] = rendered
		}
		return finishInsert(out, copy)
	default:
		return nil, &UntranslatableTypeError{TypeName: "unsupported map value"}
	}
}

func finishInsert(out map[string]any, copy bool) (any, error) {
	if !copy {
		return nil, &NotInPlaceTranslatableError{TypeName: "map"}
	}
	return out, nil
}
