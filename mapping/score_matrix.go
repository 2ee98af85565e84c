package mapping

import (
	"math"

	"github.com/leapstack-labs/id-translation/internal/xtable"
)

// ScoreMatrix holds a likeness score for every (value, candidate) pair.
// Unset cells default to -Inf. Grounded on
// mapping/matrix/_score_matrix.ScoreMatrix in the original implementation.
type ScoreMatrix[V, C comparable] struct {
	values        []V
	candidates    []C
	valueIndex    map[V]int
	candidateIndex map[C]int
	grid          [][]float64
}

// NewScoreMatrix creates a matrix over the given values and candidates,
// deduplicating both and filling every cell with -Inf.
func NewScoreMatrix[V, C comparable](values []V, candidates []C) *ScoreMatrix[V, C] {
	m := &ScoreMatrix[V, C]{
		valueIndex:     map[V]int{},
		candidateIndex: map[C]int{},
	}
	for _, v := range values {
		m.ensureValue(v)
	}
	for _, c := range candidates {
		m.ensureCandidate(c)
	}
	return m
}

func (m *ScoreMatrix[V, C]) ensureValue(v V) int {
	if i, ok := m.valueIndex[v]; ok {
		return i
	}
	i := len(m.values)
	m.values = append(m.values, v)
	m.valueIndex[v] = i
	row := make([]float64, len(m.candidates))
	for j := range row {
		row[j] = math.Inf(-1)
	}
	m.grid = append(m.grid, row)
	return i
}

func (m *ScoreMatrix[V, C]) ensureCandidate(c C) int {
	if j, ok := m.candidateIndex[c]; ok {
		return j
	}
	j := len(m.candidates)
	m.candidates = append(m.candidates, c)
	m.candidateIndex[c] = j
	for i := range m.grid {
		m.grid[i] = append(m.grid[i], math.Inf(-1))
	}
	return j
}

// Set stores the score for one (value, candidate) pair, growing the
// matrix if either side is new.
func (m *ScoreMatrix[V, C]) Set(value V, candidate C, score float64) {
	i := m.ensureValue(value)
	j := m.ensureCandidate(candidate)
	m.grid[i][j] = score
}

// Get returns the score for one (value, candidate) pair, or -Inf if
// either side is unknown.
func (m *ScoreMatrix[V, C]) Get(value V, candidate C) float64 {
	i, ok := m.valueIndex[value]
	if !ok {
		return math.Inf(-1)
	}
	j, ok := m.candidateIndex[candidate]
	if !ok {
		return math.Inf(-1)
	}
	return m.grid[i][j]
}

// SetRow sets every cell of value's row to score.
func (m *ScoreMatrix[V, C]) SetRow(value V, score float64) {
	i := m.ensureValue(value)
	for j := range m.grid[i] {
		m.grid[i][j] = score
	}
}

// SetColumn sets every cell of candidate's column to score.
func (m *ScoreMatrix[V, C]) SetColumn(candidate C, score float64) {
	j := m.ensureCandidate(candidate)
	for i := range m.grid {
		m.grid[i][j] = score
	}
}

// Values returns the unique values, in first-seen order.
func (m *ScoreMatrix[V, C]) Values() []V { return append([]V(nil), m.values...) }

// Candidates returns the unique candidates, in first-seen order.
func (m *ScoreMatrix[V, C]) Candidates() []C { return append([]C(nil), m.candidates...) }

// Size returns the total number of cells.
func (m *ScoreMatrix[V, C]) Size() int { return len(m.values) * len(m.candidates) }

type pair[V, C comparable] struct {
	Value     V
	Candidate C
}

func (m *ScoreMatrix[V, C]) toDict() map[pair[V, C]]float64 {
	out := make(map[pair[V, C]]float64, m.Size())
	for i, v := range m.values {
		for j, c := range m.candidates {
			out[pair[V, C]{v, c}] = m.grid[i][j]
		}
	}
	return out
}

// String renders the matrix as a diagnostic table via go-pretty/termenv.
func (m *ScoreMatrix[V, C]) String() string {
	header := make([]any, 0, len(m.candidates)+1)
	header = append(header, "v / c")
	for _, c := range m.candidates {
		header = append(header, c)
	}

	rows := make([][]any, 0, len(m.values))
	for i, v := range m.values {
		row := make([]any, 0, len(m.candidates)+1)
		row = append(row, v)
		for _, s := range m.grid[i] {
			row = append(row, xtable.FormatScore(s))
		}
		rows = append(rows, row)
	}

	return xtable.Render(header, rows)
}
