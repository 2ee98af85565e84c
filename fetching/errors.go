package fetching

import "fmt"

// UnknownSourceError reports a source name no known Fetcher recognizes.
type UnknownSourceError struct{ Source string }

func (e *UnknownSourceError) Error() string {
	return fmt.Sprintf("fetching: unknown source %q", e.Source)
}

// UnknownPlaceholderError reports a required placeholder a source cannot
// supply, after name mapping.
type UnknownPlaceholderError struct {
	Source      string
	Placeholder string
}

func (e *UnknownPlaceholderError) Error() string {
	return fmt.Sprintf("fetching: source %q has no placeholder matching %q", e.Source, e.Placeholder)
}

// ForbiddenOperationError reports an attempt to fetch all ids of a source
// that does not allow it.
type ForbiddenOperationError struct{ Msg string }

func (e *ForbiddenOperationError) Error() string { return e.Msg }

// SourceConflictError reports that more than one Fetcher in a MultiFetcher
// claims the same source and OnSourceConflict is "raise".
type SourceConflictError struct {
	Source string
}

func (e *SourceConflictError) Error() string {
	return fmt.Sprintf("fetching: source %q is claimed by more than one fetcher", e.Source)
}
