package translation

import "fmt"

// DuplicateKeyError is returned when two records in the same source
// canonicalize to the same identifier (e.g. two UUID strings differing
// only in case).
type DuplicateKeyError struct {
	Source string
	ID     fmt.Stringer
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("translation: source %q: duplicate identifier %s after canonicalization", e.Source, e.ID)
}

// MissingIDPlaceholderError is returned when a source's declared id
// placeholder is not among the placeholders it returned.
type MissingIDPlaceholderError struct {
	Source        string
	IDPlaceholder string
	Placeholders  []string
}

func (e *MissingIDPlaceholderError) Error() string {
	return fmt.Sprintf(
		"translation: source %q: id placeholder %q not found in %v",
		e.Source, e.IDPlaceholder, e.Placeholders,
	)
}
