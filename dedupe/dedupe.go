// Package dedupe collapses profiles that describe the same person.
//
// Names are compared with the Ratcliff/Obershelp ratio from go-difflib after
// Unicode normalization with golang.org/x/text.
package dedupe

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fwojciec/roster"
	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Ensure Deduplicator implements roster.Deduplicator at compile time.
var _ roster.Deduplicator = (*Deduplicator)(nil)

// DefaultThreshold is the name similarity at or above which two profiles
// are considered the same person.
const DefaultThreshold = 0.85

// honorifics are dropped from the start of a name before comparison.
var honorifics = map[string]bool{"dr": true, "mr": true, "mrs": true, "ms": true, "prof": true}

// Deduplicator merges profiles whose names are similar, whose emails are
// equal, or whose first and last name tokens are equal.
type Deduplicator struct {
	Threshold float64
	Strategy  roster.MergeStrategy
}

// New returns a Deduplicator. A threshold outside (0, 1] and an unknown
// strategy fall back to the defaults.
func New(threshold float64, strategy roster.MergeStrategy) *Deduplicator {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	if !strategy.IsValid() {
		strategy = roster.MergePreferComplete
	}
	return &Deduplicator{Threshold: threshold, Strategy: strategy}
}

// Deduplicate returns the unique profiles in first-seen order. Each incoming
// profile is compared with the unique profiles accepted so far and merged
// into the first match. Passes repeat until nothing merges, so running
// Deduplicate on its own output changes nothing. Input profiles are never
// modified.
func (d *Deduplicator) Deduplicate(profiles []*roster.Profile) ([]*roster.Profile, roster.DedupStats) {
	var stats roster.DedupStats

	current := make([]*roster.Profile, 0, len(profiles))
	for _, p := range profiles {
		if p != nil {
			current = append(current, p.Clone())
		}
	}

	for {
		unique, merges := d.pass(current)
		stats.DuplicatesFound += merges
		stats.MergesPerformed += merges
		current = unique
		if merges == 0 {
			return current, stats
		}
	}
}

// pass runs one first-match merge pass and reports the merges performed.
func (d *Deduplicator) pass(profiles []*roster.Profile) ([]*roster.Profile, int) {
	unique := make([]*roster.Profile, 0, len(profiles))
	merges := 0
	for _, p := range profiles {
		i := d.findMatch(p, unique)
		if i < 0 {
			unique = append(unique, p)
			continue
		}
		unique[i] = d.merge(unique[i], p)
		merges++
	}
	return unique, merges
}

func (d *Deduplicator) findMatch(p *roster.Profile, unique []*roster.Profile) int {
	for i, u := range unique {
		if d.Match(u, p) {
			return i
		}
	}
	return -1
}

// Match reports whether a and b describe the same person.
func (d *Deduplicator) Match(a, b *roster.Profile) bool {
	na, nb := NormalizeName(a.Name), NormalizeName(b.Name)
	if na != "" && nb != "" && ratio(na, nb) >= d.Threshold {
		return true
	}
	ea, eb := strings.TrimSpace(a.Email), strings.TrimSpace(b.Email)
	if ea != "" && eb != "" && strings.EqualFold(ea, eb) {
		return true
	}
	return sameFirstLast(na, nb)
}

// sameFirstLast reports whether two normalized names of at least two words
// share their first and last words.
func sameFirstLast(a, b string) bool {
	ta, tb := strings.Fields(a), strings.Fields(b)
	if len(ta) < 2 || len(tb) < 2 {
		return false
	}
	return ta[0] == tb[0] && ta[len(ta)-1] == tb[len(tb)-1]
}

// Similarity returns the sequence similarity of two names after
// normalization, from 0 to 1. An empty name scores 0.
func Similarity(a, b string) float64 {
	a, b = NormalizeName(a), NormalizeName(b)
	if a == "" || b == "" {
		return 0
	}
	return ratio(a, b)
}

func ratio(a, b string) float64 {
	if a == b {
		return 1
	}
	return difflib.NewMatcher(splitRunes(a), splitRunes(b)).Ratio()
}

func splitRunes(s string) []string {
	out := make([]string, 0, utf8.RuneCountInString(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

// NormalizeName case-folds name, strips diacritics and punctuation, and
// collapses whitespace. Leading honorifics and single-letter middle
// initials are dropped, so "Dr. John A. Smith" becomes "john smith".
func NormalizeName(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(t, name)
	if err != nil {
		s = name
	}
	s = cases.Fold().String(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			return -1
		}
		return r
	}, s)

	words := strings.Fields(s)
	for len(words) > 2 && honorifics[words[0]] {
		words = words[1:]
	}
	if len(words) > 2 {
		kept := []string{words[0]}
		for _, w := range words[1 : len(words)-1] {
			if utf8.RuneCountInString(w) > 1 {
				kept = append(kept, w)
			}
		}
		words = append(kept, words[len(words)-1])
	}
	return strings.Join(words, " ")
}
