package goquery

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/roster"
)

// Ensure LinkDiscoverer implements roster.LinkDiscoverer at compile time.
var _ roster.LinkDiscoverer = (*LinkDiscoverer)(nil)

var (
	profileLinkPattern = regexp.MustCompile(`(?i)team|leadership|people|staff|employee|member|profile|person`)
	cardClassPattern   = regexp.MustCompile(`(?i)card|member|profile|team|person|people|staff|employee`)
	personTypePattern  = regexp.MustCompile(`(?i)schema\.org/Person$`)
)

// LinkDiscoverer finds team page links on a homepage and person links on a
// team page.
type LinkDiscoverer struct {
	names       nameRules
	teamPattern *regexp.Regexp
}

// NewLinkDiscoverer creates a LinkDiscoverer using the keyword tables of h.
func NewLinkDiscoverer(h roster.Heuristics) *LinkDiscoverer {
	return &LinkDiscoverer{
		names:       newNameRules(h),
		teamPattern: roster.KeywordPattern(h.TeamKeywords),
	}
}

// TeamPageLinks returns same-site links whose path or text contains a team
// keyword. Links inside nav, header and footer come first, followed by the
// rest of the page in document order.
func (d *LinkDiscoverer) TeamPageLinks(html, pageURL string) ([]string, error) {
	doc, base, err := parsePage(html, pageURL)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var links []string
	add := func(_ int, a *goquery.Selection) {
		u := resolveURL(base, a.AttrOr("href", ""))
		if u == "" || seen[u] || !isSameSite(base, u) || isSamePage(u, base.String()) {
			return
		}
		if !d.teamPattern.MatchString(urlPath(u)) && !d.teamPattern.MatchString(textOf(a)) {
			return
		}
		seen[u] = true
		links = append(links, u)
	}
	doc.Find("nav a[href], header a[href], footer a[href]").Each(add)
	doc.Find("a[href]").Each(add)
	return links, nil
}

// ProfileLinks returns the people on a team page. Three strategies run and
// their results are combined: profile-looking anchors, member cards, and
// schema.org Person microdata. Results are unique by URL and by
// case-insensitive name.
func (d *LinkDiscoverer) ProfileLinks(html, pageURL string) ([]roster.DiscoveryResult, error) {
	doc, base, err := parsePage(html, pageURL)
	if err != nil {
		return nil, err
	}
	page := base.String()

	var results []roster.DiscoveryResult
	seenURL := make(map[string]bool)
	seenName := make(map[string]bool)
	add := func(name, u string, kind roster.SourceKind) {
		name = cleanText(name)
		if u == "" || !d.names.isPersonName(name, maxListingNameTokens) {
			return
		}
		key := strings.ToLower(name)
		if seenName[key] {
			return
		}
		// Structured entries without their own link share the page URL.
		if !isSamePage(u, page) {
			if seenURL[u] {
				return
			}
			seenURL[u] = true
		}
		seenName[key] = true
		results = append(results, roster.DiscoveryResult{Name: name, URL: u, Source: kind})
	}

	// Anchors whose URL looks like a person page.
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		u := resolveURL(base, a.AttrOr("href", ""))
		if u == "" || !isSameSite(base, u) || isSamePage(u, page) || !profileLinkPattern.MatchString(urlPath(u)) {
			return
		}
		add(textOf(a), u, roster.SourceLink)
	})

	// Member cards: a named anchor, or a heading plus the card's first link.
	doc.Find("div, article, li, section").Each(func(_ int, c *goquery.Selection) {
		if !classMatches(c, cardClassPattern) {
			return
		}
		var found bool
		c.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
			name := textOf(a)
			if !d.names.isPersonName(name, maxListingNameTokens) {
				return true
			}
			if u := resolveURL(base, a.AttrOr("href", "")); u != "" && isSameSite(base, u) {
				add(name, u, roster.SourceContainer)
				found = true
			}
			return false
		})
		if found {
			return
		}
		name := textOf(c.Find("h2, h3, h4, h5").First())
		if u := firstPageLink(c, base); u != "" {
			add(name, u, roster.SourceContainer)
		}
	})

	// schema.org Person microdata.
	doc.Find("[itemtype]").Each(func(_ int, s *goquery.Selection) {
		if !personTypePattern.MatchString(strings.TrimSpace(s.AttrOr("itemtype", ""))) {
			return
		}
		nameSel := s.Find(`[itemprop="name"]`).First()
		name := nameSel.AttrOr("content", "")
		if name == "" {
			name = textOf(nameSel)
		}
		add(name, microdataURL(s, base, page), roster.SourceStructured)
	})

	return results, nil
}

// microdataURL returns the itemprop=url of a microdata item, or fallback.
func microdataURL(item *goquery.Selection, base *url.URL, fallback string) string {
	prop := item.Find(`[itemprop="url"]`).First()
	for _, attr := range []string{"href", "content"} {
		if u := resolveURL(base, prop.AttrOr(attr, "")); u != "" {
			return u
		}
	}
	return fallback
}
