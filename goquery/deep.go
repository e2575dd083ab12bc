package goquery

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/roster"
)

// widgetSelector matches the page-builder blocks and subheadings that hold a
// person's title on a dedicated profile page.
const widgetSelector = `[class*="widget"], [class*="elementor"], [class*="block"], [class*="module"], [class*="component"], h2, h3, h4, h5, h6`

const (
	maxWidgetText   = 300
	maxRoleLength   = 150
	minRoleLength   = 2
	minKeywordText  = 5
	minDeepBioRunes = 50
)

var (
	jobTitlePattern    = regexp.MustCompile(`(?i)\b(?:CEO|CTO|CFO|COO|CIO|CMO|President|Vice President|VP|Director|Manager|Head of|Head|Chief|Lead|Senior|Executive|Architect|Practice Head|Founder|Partner|Officer)\b`)
	roleKeywordPattern = regexp.MustCompile(`(?i)\b(?:ceo|cto|cfo|coo|cio|president|vp|vice president|director|chief|founder|partner|head of|head|manager|lead|senior)\b`)
	exactRoleClass     = regexp.MustCompile(`(?i)^(?:title|position|role|designation|job-title)$`)
	looseRoleClass     = regexp.MustCompile(`(?i)title|position|role`)
	deepBioPattern     = regexp.MustCompile(`(?i)bio|about|description|summary`)
	deepContentClass   = regexp.MustCompile(`(?i)content|text|body|main`)
)

// genericRoles are section labels that are never a person's title.
var genericRoles = map[string]bool{"leadership": true, "executive": true, "team": true}

// ExtractProfile extracts one person from a page dedicated to them. Fields
// that cannot be found are left empty.
func (e *Extractor) ExtractProfile(html, pageURL, knownName string) (*roster.Profile, error) {
	doc, base, err := parsePage(html, pageURL)
	if err != nil {
		return nil, err
	}

	name := cleanText(knownName)
	if name == "" {
		name = textOf(doc.Find("h1").First())
	}
	if name == "" {
		name = textOf(doc.Find(`[itemprop="name"]`).First())
	}

	p := &roster.Profile{Name: name, ProfileURL: resolveURL(base, pageURL)}
	p.Role = e.deepRole(doc, name)
	p.Bio = e.deepBio(doc, html)
	p.PhotoURL = e.photos.Select(doc.Selection, name, base)
	ExtractContact(textOf(doc.Find("body")), doc.Selection, e.placeholders).Apply(p)
	p.Department = roster.ClassifyDepartment(p.Role)
	return p, nil
}

// deepRole tries each role source in order and returns the first title found.
func (e *Extractor) deepRole(doc *goquery.Document, name string) string {
	sources := []func(*goquery.Document, string) string{
		e.roleFromWidgets,
		e.roleFromKeywords,
		e.roleFromClasses,
		roleFromMeta,
	}
	for _, source := range sources {
		if role := source(doc, name); role != "" {
			return role
		}
	}
	return ""
}

// roleFromWidgets scans innermost widget-like blocks for text carrying a
// job title keyword. Blocks wrapping other widgets are skipped so a title
// heading is not read together with the bio beside it. Noise phrases only
// disqualify text when they come before the first job keyword, so "Head of
// Digital Transformation" survives while "Learn more about our CEO" does not.
func (e *Extractor) roleFromWidgets(doc *goquery.Document, name string) string {
	var role string
	doc.Find(widgetSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.Find(widgetSelector).Length() > 0 {
			return true
		}
		text := textOf(s)
		n := runeLen(text)
		if n < minRoleLength || n > maxWidgetText || strings.EqualFold(text, name) {
			return true
		}
		loc := jobTitlePattern.FindStringIndex(text)
		if loc == nil || e.noiseBefore(text, loc[0]) {
			return true
		}
		if cleaned := stripName(text, name); isUsableRole(cleaned, jobTitlePattern) {
			role = cleaned
			return false
		}
		return true
	})
	return role
}

// noiseBefore reports whether a noise phrase occurs in text before index i.
func (e *Extractor) noiseBefore(text string, i int) bool {
	for _, phrase := range e.noise {
		if j := indexPhrase(text, phrase); j >= 0 && j < i {
			return true
		}
	}
	return false
}

// roleFromKeywords searches short text elements for a title keyword.
func (e *Extractor) roleFromKeywords(doc *goquery.Document, name string) string {
	var role string
	doc.Find("div, p, span").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := textOf(s)
		n := runeLen(text)
		if n <= minKeywordText || n >= maxRoleLength || strings.EqualFold(text, name) {
			return true
		}
		if !roleKeywordPattern.MatchString(text) || containsAny(text, e.skipTerms) {
			return true
		}
		if cleaned := stripName(text, name); isUsableRole(cleaned, roleKeywordPattern) {
			role = cleaned
			return false
		}
		return true
	})
	return role
}

// roleFromClasses reads elements whose class names a title.
func (e *Extractor) roleFromClasses(doc *goquery.Document, name string) string {
	candidates := []*goquery.Selection{
		doc.Find("[class]").FilterFunction(func(_ int, s *goquery.Selection) bool {
			for _, c := range strings.Fields(s.AttrOr("class", "")) {
				if exactRoleClass.MatchString(c) {
					return true
				}
			}
			return false
		}),
		doc.Find(`[itemprop="jobTitle"]`),
		doc.Find("h2, p, span").FilterFunction(func(_ int, s *goquery.Selection) bool {
			return classMatches(s, looseRoleClass)
		}),
	}
	for _, sel := range candidates {
		var role string
		sel.EachWithBreak(func(_ int, s *goquery.Selection) bool {
			text := stripName(textOf(s), name)
			if text == "" || runeLen(text) >= maxRoleLength || containsAny(text, e.skipTerms) {
				return true
			}
			role = text
			return false
		})
		if role != "" {
			return role
		}
	}
	return ""
}

// roleFromMeta reads a job title from meta tags.
func roleFromMeta(doc *goquery.Document, _ string) string {
	for _, selector := range []string{`meta[property="og:job_title"]`, `meta[name="job-title"]`} {
		if v := cleanText(doc.Find(selector).First().AttrOr("content", "")); v != "" {
			return v
		}
	}
	return ""
}

// deepBio returns the first long text in bio-like elements, then
// content-like elements, then paragraphs, then the page's main content.
func (e *Extractor) deepBio(doc *goquery.Document, html string) string {
	sources := []*goquery.Selection{
		doc.Find("div, section, article, p, span").FilterFunction(func(_ int, s *goquery.Selection) bool {
			return classMatches(s, deepBioPattern)
		}),
		doc.Find("div").FilterFunction(func(_ int, s *goquery.Selection) bool {
			return classMatches(s, deepContentClass)
		}),
		doc.Find("p"),
	}
	for _, sel := range sources {
		if bio := firstLongText(sel); bio != "" {
			return bio
		}
	}
	if e.fallback != nil {
		if res, err := e.fallback.Extract(html); err == nil && runeLen(res.Text) > minDeepBioRunes {
			return res.Text
		}
	}
	return ""
}

func firstLongText(sel *goquery.Selection) string {
	var found string
	sel.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if t := textOf(s); runeLen(t) > minDeepBioRunes {
			found = t
			return false
		}
		return true
	})
	return found
}

// isUsableRole reports whether a cleaned title still carries a keyword,
// fits the length bounds and is not a generic section label.
func isUsableRole(role string, keyword *regexp.Regexp) bool {
	n := runeLen(role)
	if n < minRoleLength || n >= maxRoleLength || genericRoles[strings.ToLower(role)] {
		return false
	}
	return keyword.MatchString(role)
}

// stripName removes the full name and then each of its words from the start
// and end of text, along with separators left behind.
func stripName(text, name string) string {
	text = trimAffix(text, name)
	for _, token := range strings.Fields(name) {
		text = trimAffix(text, token)
	}
	return text
}

// trimAffix removes word from the start and end of text when it appears there
// as a whole word, case-insensitively.
func trimAffix(text, word string) string {
	text = trimSeparators(text)
	if word == "" || text == "" {
		return text
	}
	if len(text) >= len(word) && strings.EqualFold(text[:len(word)], word) && isBoundary(text, len(word)) {
		text = trimSeparators(text[len(word):])
	}
	if len(text) >= len(word) && strings.EqualFold(text[len(text)-len(word):], word) && isBoundary(text, len(text)-len(word)-1) {
		text = trimSeparators(text[:len(text)-len(word)])
	}
	return text
}

func trimSeparators(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune("-–—|,:;•·", r)
	})
}
