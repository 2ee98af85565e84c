package dio

import "fmt"

// Registry resolves a Go value to the DataStructureIO that handles its
// shape, trying implementations in registration order and keeping the
// first match. Grounded on dio._resolve.resolve_io /
// dio._resolve._RESOLUTION_ORDER in the original implementation.
type Registry struct {
	impls []DataStructureIO
}

// NewRegistry creates a Registry pre-populated with the built-in
// implementations, in the same precedence the original gives its defaults:
// maps, then sets, then slices, then single values.
func NewRegistry() *Registry {
	return &Registry{impls: []DataStructureIO{
		MapIO{},
		SetIO{},
		SliceIO{},
		SingleValueIO{},
	}}
}

// Register adds impl with the highest precedence (tried before any
// existing implementation).
func (r *Registry) Register(impl DataStructureIO) {
	r.impls = append([]DataStructureIO{impl}, r.impls...)
}

// Resolve returns the first registered DataStructureIO that handles v.
func (r *Registry) Resolve(v any) (DataStructureIO, error) {
	for _, impl := range r.impls {
		if impl.HandlesType(v) {
			return impl, nil
		}
	}
	return nil, &UntranslatableTypeError{TypeName: fmt.Sprintf("%T", v)}
}

// Default is the process-wide Registry used when a caller does not supply
// their own.
var Default = NewRegistry()
