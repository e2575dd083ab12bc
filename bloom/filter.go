// Package bloom remembers which candidate URLs have already been checked
// during team page discovery.
package bloom

import (
	"net/url"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
)

// Filter is a set of visited URLs backed by a Bloom filter. URLs are
// normalized before use, so "https://Acme.io/team/" and
// "https://acme.io/team#top" are the same entry.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a Filter sized for n expected URLs with the given false
// positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add records a URL as visited.
func (f *Filter) Add(rawURL string) {
	f.f.AddString(normalize(rawURL))
}

// Test returns true if the URL might have been visited.
// False positives are possible; false negatives are not.
func (f *Filter) Test(rawURL string) bool {
	return f.f.TestString(normalize(rawURL))
}

// TestAndAdd records the URL and reports whether it might have been
// visited before.
func (f *Filter) TestAndAdd(rawURL string) bool {
	return f.f.TestAndAddString(normalize(rawURL))
}

// EstimatedCount returns the approximate number of URLs in the filter.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}

// normalize lowercases the scheme and host, drops the fragment and a
// trailing slash. Unparseable input is used as is.
func normalize(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return rawURL
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	return strings.TrimSuffix(u.String(), "/")
}
