package mapping

import "sync"

// FunctionRegistry looks up the built-in and user-registered scoring,
// filtering and heuristic functions by name, so a mapper can be assembled
// from a configuration document instead of Go code. Grounded on
// internal/registry.ModelRegistry in the teacher repository, generalized
// from "model path" lookups to "named function" lookups.
type FunctionRegistry struct {
	mu            sync.RWMutex
	scores        map[string]ScoreFunc[string, string]
	filters       map[string]FilterFunc[string, string]
	aliases       map[string]AliasHeuristic[string, string]
	shortCircuits map[string]ShortCircuitHeuristic[string, string]
}

// NewFunctionRegistry creates an empty registry.
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{
		scores:        map[string]ScoreFunc[string, string]{},
		filters:       map[string]FilterFunc[string, string]{},
		aliases:       map[string]AliasHeuristic[string, string]{},
		shortCircuits: map[string]ShortCircuitHeuristic[string, string]{},
	}
}

// RegisterScore registers a named ScoreFunc, overwriting any prior entry
// of the same name.
func (r *FunctionRegistry) RegisterScore(name string, fn ScoreFunc[string, string]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scores[name] = fn
}

// Score looks up a registered ScoreFunc by name.
func (r *FunctionRegistry) Score(name string) (ScoreFunc[string, string], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.scores[name]
	return fn, ok
}

// RegisterFilter registers a named FilterFunc.
func (r *FunctionRegistry) RegisterFilter(name string, fn FilterFunc[string, string]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.filters[name] = fn
}

// Filter looks up a registered FilterFunc by name.
func (r *FunctionRegistry) Filter(name string) (FilterFunc[string, string], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.filters[name]
	return fn, ok
}

// RegisterAlias registers a named AliasHeuristic.
func (r *FunctionRegistry) RegisterAlias(name string, fn AliasHeuristic[string, string]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases[name] = fn
}

// Alias looks up a registered AliasHeuristic by name.
func (r *FunctionRegistry) Alias(name string) (AliasHeuristic[string, string], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.aliases[name]
	return fn, ok
}

// RegisterShortCircuit registers a named ShortCircuitHeuristic.
func (r *FunctionRegistry) RegisterShortCircuit(name string, fn ShortCircuitHeuristic[string, string]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shortCircuits[name] = fn
}

// ShortCircuit looks up a registered ShortCircuitHeuristic by name.
func (r *FunctionRegistry) ShortCircuit(name string) (ShortCircuitHeuristic[string, string], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.shortCircuits[name]
	return fn, ok
}

// DefaultRegistry holds the built-in functions every Mapper can refer to
// by name without constructing them by hand.
var DefaultRegistry = newDefaultRegistry()

func newDefaultRegistry() *FunctionRegistry {
	r := NewFunctionRegistry()
	r.RegisterScore("equality", Equality[string])
	r.RegisterScore("modified_hamming", ModifiedHamming(true))
	r.RegisterScore("disabled", Disabled(true))
	r.RegisterAlias("force_lower_case", ForceLowerCase)
	r.RegisterAlias("like_database_table_plural", LikeDatabaseTablePlural)
	return r
}
