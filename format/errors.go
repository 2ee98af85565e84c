package format

import (
	"fmt"
	"strings"
)

// BadDelimiterError is returned when optional-block delimiters ('[' / ']')
// in a format string are unbalanced or nested. Grounded on
// parse_format_string.BadDelimiterError in the original implementation.
type BadDelimiterError struct {
	Format  string
	OpenIdx int // -1 if there was no open block
	Idx     int // -1 if the block was never closed
}

func (e *BadDelimiterError) Error() string {
	markers := []rune(strings.Repeat(" ", len(e.Format)))
	if e.Idx != -1 {
		markers[e.Idx] = '^'
	}
	if e.OpenIdx != -1 {
		markers[e.OpenIdx] = '^'
	}

	if e.Idx == -1 {
		return fmt.Sprintf(
			"format: malformed optional block: block opened at i=%d was never closed\n%q\n %s",
			e.OpenIdx, e.Format, string(markers),
		)
	}

	var info string
	switch {
	case e.OpenIdx == -1:
		info = "there is no block to close"
	default:
		info = fmt.Sprintf("nested optional blocks are not supported (opened at %d)", e.OpenIdx)
	}

	return fmt.Sprintf(
		"format: malformed optional block: got %q at i=%d, but %s\n%q\n %s\nhint: double the bracket character to escape it, e.g. \"[[\" renders a literal \"[\"",
		e.Format[e.Idx], e.Idx, info, e.Format, string(markers),
	)
}

// KeyError reports a format string referencing a required placeholder that
// was not supplied.
type KeyError struct {
	Missing []string
	Have    []string
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("format: required placeholder(s) %v missing from %v", e.Missing, e.Have)
}

// FormatSpecError reports a placeholder segment that could not be parsed.
type FormatSpecError struct {
	Segment string
	Reason  string
}

func (e *FormatSpecError) Error() string {
	return fmt.Sprintf("format: cannot parse placeholder %q: %s", e.Segment, e.Reason)
}
