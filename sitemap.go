package roster

import (
	"context"
	"regexp"
	"slices"
	"strings"
)

// SitemapService discovers URLs from website sitemaps.
type SitemapService interface {
	// DiscoverURLs returns the page URLs listed in a site's sitemaps.
	// Sitemaps are located through robots.txt directives and the common
	// sitemap paths; sitemap indexes are resolved recursively.
	//
	// If filter is nil, all URLs are returned.
	DiscoverURLs(ctx context.Context, baseURL string, filter *URLFilter) ([]string, error)
}

// URLFilter specifies patterns for including/excluding URLs.
type URLFilter struct {
	// Include patterns - if set, only URLs matching at least one pattern are included.
	Include []*regexp.Regexp

	// Exclude patterns - URLs matching any pattern are excluded.
	// Exclude is applied after Include.
	Exclude []*regexp.Regexp
}

// Match returns true if the URL passes the filter.
// If the filter is nil, all URLs pass.
func (f *URLFilter) Match(url string) bool {
	if f == nil {
		return true
	}
	matches := func(re *regexp.Regexp) bool { return re.MatchString(url) }
	if len(f.Include) > 0 && !slices.ContainsFunc(f.Include, matches) {
		return false
	}
	return !slices.ContainsFunc(f.Exclude, matches)
}

// KeywordPattern compiles a case-insensitive pattern that matches any of the
// keywords. Spaces inside a keyword also match a hyphen, an underscore, or
// nothing, so "about us" matches "/about-us" and "/aboutus".
func KeywordPattern(keywords []string) *regexp.Regexp {
	alts := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		alts = append(alts, strings.ReplaceAll(regexp.QuoteMeta(k), " ", `[-_ ]?`))
	}
	if len(alts) == 0 {
		return regexp.MustCompile(`[^\s\S]`)
	}
	return regexp.MustCompile(`(?i)(?:` + strings.Join(alts, "|") + `)`)
}
