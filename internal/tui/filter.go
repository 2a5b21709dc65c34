package tui

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

type scored[T any] struct {
	row  T
	dist int
}

// rankRows filters rows against query. Substring matches come first in
// input order, then close fuzzy matches by edit distance.
func rankRows[T any](rows []T, query string, text func(T) string) []T {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return rows
	}
	var exact []T
	var fuzzy []scored[T]
	limit := max(1, len([]rune(q))/3)
	for _, r := range rows {
		s := strings.ToLower(text(r))
		if strings.Contains(s, q) {
			exact = append(exact, r)
			continue
		}
		if d := bestDistance(s, q); d <= limit {
			fuzzy = append(fuzzy, scored[T]{row: r, dist: d})
		}
	}
	sort.SliceStable(fuzzy, func(i, j int) bool { return fuzzy[i].dist < fuzzy[j].dist })
	out := make([]T, 0, len(exact)+len(fuzzy))
	out = append(out, exact...)
	for _, f := range fuzzy {
		out = append(out, f.row)
	}
	return out
}

// bestDistance compares q against s and each word of s.
func bestDistance(s, q string) int {
	best := levenshtein.ComputeDistance(s, q)
	for _, w := range strings.Fields(s) {
		if d := levenshtein.ComputeDistance(w, q); d < best {
			best = d
		}
	}
	return best
}
