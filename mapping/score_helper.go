package mapping

import (
	"math"
	"sort"

	"github.com/leapstack-labs/id-translation/idtype"
)

func isPosInf(f float64) bool { return math.IsInf(f, 1) }
func isNegInf(f float64) bool { return math.IsInf(f, -1) }

// ScoreHelper selects matches out of a ScoreMatrix under a Cardinality
// constraint. Grounded on mapping/matrix/_score_helper.ScoreHelper in the
// original implementation.
type ScoreHelper[V, C comparable] struct {
	matrix   *ScoreMatrix[V, C]
	minScore float64
	// Verbose, when true, also collects below-threshold records as
	// Rejects so callers can explain why a value failed to map.
	Verbose bool
}

// NewScoreHelper creates a helper over matrix, accepting only scores at or
// above minScore (ignoring the +Inf/-Inf override sentinels, which always
// win or lose respectively).
func NewScoreHelper[V, C comparable](matrix *ScoreMatrix[V, C], minScore float64) *ScoreHelper[V, C] {
	return &ScoreHelper[V, C]{matrix: matrix, minScore: minScore}
}

// Above returns every record scoring at or above the minimum.
func (h *ScoreHelper[V, C]) Above() []Record[V, C] {
	var out []Record[V, C]
	for p, s := range h.matrix.toDict() {
		if s >= h.minScore {
			out = append(out, Record[V, C]{Value: p.Value, Candidate: p.Candidate, Score: s})
		}
	}
	return out
}

// Below returns every record scoring below the minimum.
func (h *ScoreHelper[V, C]) Below() []Record[V, C] {
	var out []Record[V, C]
	for p, s := range h.matrix.toDict() {
		if s < h.minScore {
			out = append(out, Record[V, C]{Value: p.Value, Candidate: p.Candidate, Score: s})
		}
	}
	return out
}

// ToDirectionalMapping selects matches under cardinality and returns the
// resulting DirectionalMapping. It returns an *AmbiguousScoreError if two
// records tie for a slot that cardinality only allows one winner for.
func (h *ScoreHelper[V, C]) ToDirectionalMapping(cardinality idtype.Cardinality) (*DirectionalMapping[V, C], error) {
	matches, _, err := h.match(cardinality)
	if err != nil {
		return nil, err
	}

	leftToRight := map[V][]C{}
	for _, r := range matches {
		leftToRight[r.Value] = append(leftToRight[r.Value], r.Candidate)
	}

	return NewDirectionalMapping[V, C](cardinality, leftToRight, h.matrix.Values()), nil
}

// Explain returns the rejected records for value when the matrix was
// matched under cardinality with Verbose enabled, for diagnostics.
func (h *ScoreHelper[V, C]) Explain(cardinality idtype.Cardinality, value V) ([]Reject[V, C], error) {
	_, rejections, err := h.match(cardinality)
	if err != nil {
		return nil, err
	}
	var out []Reject[V, C]
	for _, r := range rejections {
		if r.Record.Value == value {
			out = append(out, r)
		}
	}
	return out, nil
}

func (h *ScoreHelper[V, C]) match(cardinality idtype.Cardinality) ([]Record[V, C], []Reject[V, C], error) {
	records := h.Above()
	var rejections []Reject[V, C]
	if h.Verbose {
		rejections = []Reject[V, C]{}
		records = append(records, h.Below()...)
	}

	sort.SliceStable(records, func(i, j int) bool { return records[i].Score > records[j].Score })

	switch cardinality {
	case idtype.OneToOne:
		return h.selectOneToOne(records, rejections)
	case idtype.OneToMany:
		return h.selectOneToMany(records, rejections)
	case idtype.ManyToOne:
		return h.selectManyToOne(records, rejections)
	default:
		return h.selectManyToMany(records, rejections)
	}
}

// scores lazily renders the diagnostic table, only when a tie is found.
func (h *ScoreHelper[V, C]) scores() string { return h.matrix.String() }

func raiseIfAmbiguousValue[V, C comparable](record Record[V, C], matches map[V]Record[V, C], cardinality idtype.Cardinality, scores func() string) error {
	if isPosInf(record.Score) {
		return nil
	}
	old, ok := matches[record.Value]
	if !ok || isPosInf(old.Score) {
		return nil
	}
	if record.Score == old.Score {
		return &AmbiguousScoreError[V, C]{Kind: "value", Match0: record, Match1: old, Cardinality: cardinality.String(), Scores: scores()}
	}
	return nil
}

func raiseIfAmbiguousCandidate[V, C comparable](record Record[V, C], matches map[C]Record[V, C], cardinality idtype.Cardinality, scores func() string) error {
	if isPosInf(record.Score) {
		return nil
	}
	old, ok := matches[record.Candidate]
	if !ok || isPosInf(old.Score) {
		return nil
	}
	if record.Score == old.Score {
		return &AmbiguousScoreError[V, C]{Kind: "candidate", Match0: record, Match1: old, Cardinality: cardinality.String(), Scores: scores()}
	}
	return nil
}

func (h *ScoreHelper[V, C]) selectOneToOne(records []Record[V, C], rejections []Reject[V, C]) ([]Record[V, C], []Reject[V, C], error) {
	mvs := map[V]Record[V, C]{}
	mcs := map[C]Record[V, C]{}
	var matches []Record[V, C]

	for _, record := range records {
		if err := raiseIfAmbiguousCandidate(record, mcs, idtype.OneToOne, h.scores); err != nil {
			return nil, nil, err
		}
		if err := raiseIfAmbiguousValue(record, mvs, idtype.OneToOne, h.scores); err != nil {
			return nil, nil, err
		}

		_, vTaken := mvs[record.Value]
		_, cTaken := mcs[record.Candidate]
		if record.Score < h.minScore || vTaken || cTaken {
			if rejections != nil {
				rejections = append(rejections, reject(record, mvs, mcs))
			}
			continue
		}
		mvs[record.Value] = record
		mcs[record.Candidate] = record
		matches = append(matches, record)
	}
	return matches, rejections, nil
}

func (h *ScoreHelper[V, C]) selectOneToMany(records []Record[V, C], rejections []Reject[V, C]) ([]Record[V, C], []Reject[V, C], error) {
	mcs := map[C]Record[V, C]{}
	var matches []Record[V, C]

	for _, record := range records {
		if err := raiseIfAmbiguousCandidate(record, mcs, idtype.OneToMany, h.scores); err != nil {
			return nil, nil, err
		}

		_, cTaken := mcs[record.Candidate]
		if record.Score < h.minScore || cTaken {
			if rejections != nil {
				rejections = append(rejections, reject(record, nil, mcs))
			}
			continue
		}
		mcs[record.Candidate] = record
		matches = append(matches, record)
	}
	return matches, rejections, nil
}

func (h *ScoreHelper[V, C]) selectManyToOne(records []Record[V, C], rejections []Reject[V, C]) ([]Record[V, C], []Reject[V, C], error) {
	mvs := map[V]Record[V, C]{}
	var matches []Record[V, C]

	for _, record := range records {
		if err := raiseIfAmbiguousValue(record, mvs, idtype.ManyToOne, h.scores); err != nil {
			return nil, nil, err
		}

		_, vTaken := mvs[record.Value]
		if record.Score < h.minScore || vTaken {
			if rejections != nil {
				rejections = append(rejections, reject(record, mvs, nil))
			}
			continue
		}
		mvs[record.Value] = record
		matches = append(matches, record)
	}
	return matches, rejections, nil
}

func (h *ScoreHelper[V, C]) selectManyToMany(records []Record[V, C], rejections []Reject[V, C]) ([]Record[V, C], []Reject[V, C], error) {
	var matches []Record[V, C]
	for _, record := range records {
		if record.Score < h.minScore {
			if rejections != nil {
				rejections = append(rejections, Reject[V, C]{Record: record})
			}
			continue
		}
		matches = append(matches, record)
	}
	return matches, rejections, nil
}

func reject[V, C comparable](record Record[V, C], mvs map[V]Record[V, C], mcs map[C]Record[V, C]) Reject[V, C] {
	r := Reject[V, C]{Record: record}
	if mvs != nil {
		if v, ok := mvs[record.Value]; ok {
			r.SupersedingValue = &v
		}
	}
	if mcs != nil {
		if c, ok := mcs[record.Candidate]; ok {
			r.SupersedingCandidate = &c
		}
	}
	return r
}
