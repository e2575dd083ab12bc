package goquery

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fwojciec/roster"
)

// maxNameLength bounds the text considered as a person name.
const maxNameLength = 100

// nameRules decides whether a piece of text names a person.
type nameRules struct {
	generic []string
	service map[string]bool
}

func newNameRules(h roster.Heuristics) nameRules {
	r := nameRules{service: make(map[string]bool, len(h.ServiceKeywords))}
	for _, p := range h.GenericPhrases {
		if p = normalizeWords(p); p != "" {
			r.generic = append(r.generic, p)
		}
	}
	for _, k := range h.ServiceKeywords {
		r.service[strings.ToLower(strings.TrimSpace(k))] = true
	}
	return r
}

var defaultNameRules = newNameRules(roster.DefaultHeuristics())

// IsPersonName reports whether text looks like a person's name under the
// default heuristics: two to five words, capitalized, and free of
// navigation and service vocabulary.
func IsPersonName(text string) bool {
	return defaultNameRules.isPersonName(text, 5)
}

func (r nameRules) isPersonName(text string, maxTokens int) bool {
	text = cleanText(text)
	if text == "" || utf8.RuneCountInString(text) > maxNameLength {
		return false
	}
	tokens := strings.Fields(text)
	if len(tokens) < 2 || len(tokens) > maxTokens {
		return false
	}
	if strings.ContainsAny(text, "0123456789@#$%|/") {
		return false
	}
	first, _ := utf8.DecodeRuneInString(tokens[0])
	if !unicode.IsUpper(first) {
		return false
	}

	words := " " + normalizeWords(text) + " "
	for _, p := range r.generic {
		if strings.Contains(words, " "+p+" ") {
			return false
		}
	}
	if len(tokens) < 3 {
		for _, w := range strings.Fields(words) {
			if r.service[w] {
				return false
			}
		}
	}
	return true
}

// normalizeWords lowercases s and reduces it to words separated by single
// spaces.
func normalizeWords(s string) string {
	return strings.Join(strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}), " ")
}

// nameTokens returns the lowercase words of a name.
func nameTokens(name string) []string {
	return strings.Fields(normalizeWords(name))
}
