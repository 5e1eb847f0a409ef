// Package matching scores and ranks candidate profiles by shared interests.
package matching

import (
	"sort"
	"strings"
)

// Weights applied to shared interests.
const (
	AcademicWeight    = 2
	NonAcademicWeight = 1
)

// InterestSet is a normalized set of interests.
type InterestSet map[string]struct{}

// ParseInterests splits a comma-separated list into a set of trimmed,
// lower-cased, non-empty entries.
func ParseInterests(raw string) InterestSet {
	set := make(InterestSet)
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		set[part] = struct{}{}
	}
	return set
}

// Shared counts the entries present in both sets.
func (s InterestSet) Shared(other InterestSet) int {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	n := 0
	for k := range small {
		if _, ok := large[k]; ok {
			n++
		}
	}
	return n
}

// Interests is a parsed pair of interest sets.
type Interests struct {
	Academic    InterestSet
	NonAcademic InterestSet
}

// Parse parses both raw interest lists.
func Parse(academic, nonAcademic string) Interests {
	return Interests{
		Academic:    ParseInterests(academic),
		NonAcademic: ParseInterests(nonAcademic),
	}
}

// Score is 2 per shared academic interest plus 1 per shared non-academic one.
func Score(a, b Interests) int {
	return AcademicWeight*a.Academic.Shared(b.Academic) +
		NonAcademicWeight*a.NonAcademic.Shared(b.NonAcademic)
}

// Scored pairs an item with its score.
type Scored[T any] struct {
	Item  T
	Score int
}

// Rank scores every candidate against the requester and returns them sorted
// by descending score. Ties keep input order.
func Rank[T any](requester Interests, candidates []T, interestsOf func(T) Interests) []Scored[T] {
	out := make([]Scored[T], len(candidates))
	for i, c := range candidates {
		out[i] = Scored[T]{Item: c, Score: Score(requester, interestsOf(c))}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}
