package mock

import "github.com/fwojciec/roster"

var _ roster.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of roster.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*roster.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*roster.ExtractResult, error) {
	return e.ExtractFn(html)
}

var _ roster.ProfileExtractor = (*ProfileExtractor)(nil)

// ProfileExtractor is a mock implementation of roster.ProfileExtractor.
type ProfileExtractor struct {
	ExtractListingFn func(html, pageURL string) (*roster.ListingResult, error)
	ExtractProfileFn func(html, pageURL, knownName string) (*roster.Profile, error)
}

func (e *ProfileExtractor) ExtractListing(html, pageURL string) (*roster.ListingResult, error) {
	return e.ExtractListingFn(html, pageURL)
}

func (e *ProfileExtractor) ExtractProfile(html, pageURL, knownName string) (*roster.Profile, error) {
	return e.ExtractProfileFn(html, pageURL, knownName)
}
