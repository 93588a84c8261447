// Package search ranks labels and pantry locations against typed text.
package search

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	sfuzzy "github.com/sahilm/fuzzy"

	"github.com/mmcdole/mcc/internal/domain"
)

// ErrNoMatch indicates no location resembles the query
var ErrNoMatch = errors.New("no matching location")

// AmbiguousError lists the locations a query could refer to
type AmbiguousError struct {
	Query      string
	Candidates []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("%q matches several locations: %s", e.Query, strings.Join(e.Candidates, ", "))
}

// LabelMatch is a ranked label with the matched character positions
type LabelMatch struct {
	Label          string
	MatchedIndexes []int
	Score          int // Higher is better
}

// labelIndex implements sahilm/fuzzy.Source over lowercased labels
type labelIndex struct {
	labels []string
	lower  []string
}

func (idx *labelIndex) String(i int) string { return idx.lower[i] }
func (idx *labelIndex) Len() int            { return len(idx.labels) }

// RankLabels returns the labels matching query, best first. An empty query
// returns every label in alphabetical order.
func RankLabels(query string, labels []string) []LabelMatch {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		sorted := append([]string(nil), labels...)
		sort.Strings(sorted)
		out := make([]LabelMatch, len(sorted))
		for i, l := range sorted {
			out[i] = LabelMatch{Label: l}
		}
		return out
	}

	idx := &labelIndex{labels: labels, lower: make([]string, len(labels))}
	for i, l := range labels {
		idx.lower[i] = strings.ToLower(l)
	}

	matches := sfuzzy.FindFrom(query, idx)
	out := make([]LabelMatch, len(matches))
	for i, m := range matches {
		out[i] = LabelMatch{
			Label:          labels[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}
	return out
}

// MatchLocation resolves a typed location name. An exact case-insensitive
// name or ID wins; otherwise the query must fuzzily match exactly one
// location, or the closest one when it is clearly closer than the rest.
func MatchLocation(query string, locations []domain.Location) (domain.Location, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.Location{}, ErrNoMatch
	}

	for _, loc := range locations {
		if loc.ID == query || strings.EqualFold(loc.Name, query) {
			return loc, nil
		}
	}

	names := make([]string, len(locations))
	for i, loc := range locations {
		names[i] = loc.Name
	}

	ranks := fuzzy.RankFindNormalizedFold(query, names)
	if len(ranks) == 0 {
		return domain.Location{}, ErrNoMatch
	}
	sort.Sort(ranks)

	if len(ranks) == 1 || ranks[0].Distance < ranks[1].Distance {
		return locations[ranks[0].OriginalIndex], nil
	}

	candidates := make([]string, 0, len(ranks))
	for _, r := range ranks {
		if r.Distance == ranks[0].Distance {
			candidates = append(candidates, r.Target)
		}
	}
	return domain.Location{}, &AmbiguousError{Query: query, Candidates: candidates}
}
