// Package goquery mines HTML pages for people using goquery selectors:
// team page links, profile links, listing profiles, dedicated profile pages,
// photos and contact details.
package goquery

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/roster"
	"golang.org/x/net/html"
)

// maxListingBio caps bios captured from listing pages.
const maxListingBio = 500

// parsePage parses HTML and the URL it was served from.
func parsePage(rawHTML, pageURL string) (*goquery.Document, *url.URL, error) {
	base, err := url.Parse(pageURL)
	if err != nil || base.Host == "" {
		return nil, nil, roster.Errorf(roster.EINVALID, "invalid page URL %q", pageURL)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, nil, roster.Errorf(roster.EPARSE, "failed to parse HTML from %s: %v", pageURL, err)
	}
	return doc, base, nil
}

// resolveURL resolves href against base and returns an absolute http(s) URL
// without its fragment. Returns empty string if href cannot be resolved.
func resolveURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || isNonHTTPLink(href) {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	resolved.Fragment = ""
	return resolved.String()
}

// isSameSite reports whether rawURL is on the same host as base, ignoring a
// leading "www.".
func isSameSite(base *url.URL, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return trimWWW(u.Hostname()) == trimWWW(base.Hostname())
}

func trimWWW(host string) string {
	return strings.TrimPrefix(strings.ToLower(host), "www.")
}

// isSamePage reports whether two absolute URLs differ only by a trailing slash.
func isSamePage(a, b string) bool {
	return strings.TrimSuffix(a, "/") == strings.TrimSuffix(b, "/")
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:") ||
		strings.HasPrefix(href, "#")
}

// urlPath returns the path and query of rawURL, lowercased.
func urlPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return strings.ToLower(rawURL)
	}
	p := u.EscapedPath()
	if u.RawQuery != "" {
		p += "?" + u.RawQuery
	}
	return strings.ToLower(p)
}

// blockElements get whitespace around their text so adjacent blocks do not
// run together.
var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"br": true, "dd": true, "div": true, "dl": true, "dt": true,
	"figcaption": true, "figure": true, "footer": true, "h1": true,
	"h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "main": true, "nav": true,
	"ol": true, "p": true, "section": true, "table": true, "td": true,
	"th": true, "tr": true, "ul": true,
}

// textOf returns the visible text of the selection with whitespace
// collapsed. Script and style contents are skipped.
func textOf(sel *goquery.Selection) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(n.Data)
			return
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "noscript", "template":
				return
			}
		}
		block := n.Type == html.ElementNode && blockElements[n.Data]
		if block {
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			sb.WriteByte(' ')
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
		sb.WriteByte(' ')
	}
	return cleanText(sb.String())
}

// cleanText collapses all whitespace runs to single spaces.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate caps s at max runes.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:max]))
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// classMatches reports whether the element's class attribute matches re.
func classMatches(sel *goquery.Selection, re *regexp.Regexp) bool {
	class, ok := sel.Attr("class")
	return ok && re.MatchString(class)
}

// attrMatches reports whether the element's class or id matches re.
func attrMatches(sel *goquery.Selection, re *regexp.Regexp) bool {
	if classMatches(sel, re) {
		return true
	}
	id, ok := sel.Attr("id")
	return ok && re.MatchString(id)
}

// indexPhrase returns the byte index of the first occurrence of phrase in s
// that starts and ends on word boundaries, or -1. Both are compared
// case-insensitively.
func indexPhrase(s, phrase string) int {
	s = strings.ToLower(s)
	phrase = strings.ToLower(phrase)
	if phrase == "" {
		return -1
	}
	offset := 0
	for {
		i := strings.Index(s[offset:], phrase)
		if i < 0 {
			return -1
		}
		start := offset + i
		end := start + len(phrase)
		if isBoundary(s, start-1) && isBoundary(s, end) {
			return start
		}
		offset = start + 1
	}
}

// isBoundary reports whether the byte at i is outside s or not part of a word.
func isBoundary(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	if r == utf8.RuneError {
		r, _ = utf8.DecodeLastRuneInString(s[:i+1])
	}
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// containsAny reports whether lowercase s contains any of the substrings.
func containsAny(s string, subs []string) bool {
	s = strings.ToLower(s)
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}
