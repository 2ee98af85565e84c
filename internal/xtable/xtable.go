// Package xtable renders diagnostic tables (score matrices, ambiguous-match
// reports) for debug logging, the way the teacher renders lint/diff output:
// go-pretty for layout, termenv for color that degrades gracefully outside
// a terminal.
package xtable

import (
	"fmt"
	"math"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/muesli/termenv"
)

var profile = termenv.ColorProfile()

// FormatScore renders a match score for table display: +Inf/-Inf spelled
// out rather than printed as floating-point infinity literals.
func FormatScore(s float64) string {
	switch {
	case math.IsInf(s, 1):
		return termenv.String("+inf").Foreground(profile.Color("2")).String()
	case math.IsInf(s, -1):
		return termenv.String("-inf").Foreground(profile.Color("1")).String()
	default:
		return fmt.Sprintf("%.3f", s)
	}
}

// Render lays out a header row and data rows as a bordered table.
func Render(header []any, rows [][]any) string {
	t := table.NewWriter()
	t.AppendHeader(header)
	for _, r := range rows {
		t.AppendRow(r)
	}
	t.SetStyle(table.StyleLight)
	return t.Render()
}
