package goquery

import (
	"encoding/json"
	"maps"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// jsonLDPerson is a schema.org Person read from a JSON-LD block.
type jsonLDPerson struct {
	Name        string
	JobTitle    string
	Description string
	Image       string
	Email       string
	URL         string
	SameAs      []string
}

// jsonLDPeople returns every Person found in the document's JSON-LD
// blocks, including people nested in @graph arrays or organization fields.
// Blocks that fail to parse are skipped.
func jsonLDPeople(doc *goquery.Document) []jsonLDPerson {
	var people []jsonLDPerson
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var v any
		if err := json.Unmarshal([]byte(s.Text()), &v); err != nil {
			return
		}
		collectPeople(v, &people)
	})
	return people
}

func collectPeople(v any, people *[]jsonLDPerson) {
	switch v := v.(type) {
	case []any:
		for _, item := range v {
			collectPeople(item, people)
		}
	case map[string]any:
		if isPersonType(v["@type"]) {
			*people = append(*people, jsonLDPerson{
				Name:        cleanText(jsonString(v["name"])),
				JobTitle:    cleanText(jsonString(v["jobTitle"])),
				Description: cleanText(jsonString(v["description"])),
				Image:       jsonString(v["image"]),
				Email:       strings.TrimPrefix(jsonString(v["email"]), "mailto:"),
				URL:         jsonString(v["url"]),
				SameAs:      jsonStrings(v["sameAs"]),
			})
			return
		}
		for _, key := range slices.Sorted(maps.Keys(v)) {
			collectPeople(v[key], people)
		}
	}
}

func isPersonType(v any) bool {
	switch t := v.(type) {
	case string:
		return t == "Person" || strings.HasSuffix(t, "/Person")
	case []any:
		for _, item := range t {
			if isPersonType(item) {
				return true
			}
		}
	}
	return false
}

// jsonString reads a JSON-LD value that may be a string, an object with a
// url, @id or name, or an array of those. The first usable value wins.
func jsonString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case map[string]any:
		for _, key := range []string{"url", "contentUrl", "@id", "name"} {
			if s := jsonString(t[key]); s != "" {
				return s
			}
		}
	case []any:
		for _, item := range t {
			if s := jsonString(item); s != "" {
				return s
			}
		}
	}
	return ""
}

func jsonStrings(v any) []string {
	switch t := v.(type) {
	case []any:
		var out []string
		for _, item := range t {
			if s := jsonString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		if s := jsonString(t); s != "" {
			return []string{s}
		}
	}
	return nil
}
