package idtype

import "fmt"

// Cardinality constrains how a Mapper may pair values with candidates; see
// spec.md §3/§4.2.
type Cardinality uint8

const (
	// ManyToMany allows any value or candidate to repeat; equivalent to
	// unconstrained selection.
	ManyToMany Cardinality = iota
	// OneToOne requires both value and candidate to be claimed at most once.
	OneToOne
	// OneToMany allows a value to match many candidates, but each candidate
	// may be claimed by at most one value.
	OneToMany
	// ManyToOne allows a candidate to be claimed by many values, but each
	// value may match at most one candidate.
	ManyToOne
)

// String implements fmt.Stringer.
func (c Cardinality) String() string {
	switch c {
	case OneToOne:
		return "1:1"
	case OneToMany:
		return "1:N"
	case ManyToOne:
		return "N:1"
	default:
		return "N:M"
	}
}

// ParseCardinality parses one of "1:1", "1:N", "N:1", "N:M" (case-sensitive,
// matching the glossary in spec.md).
func ParseCardinality(s string) (Cardinality, error) {
	switch s {
	case "1:1":
		return OneToOne, nil
	case "1:N":
		return OneToMany, nil
	case "N:1":
		return ManyToOne, nil
	case "N:M", "":
		return ManyToMany, nil
	default:
		return ManyToMany, fmt.Errorf("idtype: invalid cardinality %q, want one of 1:1, 1:N, N:1, N:M", s)
	}
}

// BoundsRightToOne reports whether candidates may be claimed by at most one
// value under this cardinality (1:1 and 1:N).
func (c Cardinality) BoundsRightToOne() bool {
	return c == OneToOne || c == OneToMany
}

// BoundsLeftToOne reports whether values may claim at most one candidate
// under this cardinality (1:1 and N:1).
func (c Cardinality) BoundsLeftToOne() bool {
	return c == OneToOne || c == ManyToOne
}
