package roster

import "context"

// SourceKind records which heuristic discovered a profile link.
type SourceKind string

// SourceKind values.
const (
	SourceContainer  SourceKind = "container"
	SourceLink       SourceKind = "link"
	SourceStructured SourceKind = "structured"
)

// DiscoveryResult is a person found on a team page, before extraction.
type DiscoveryResult struct {
	Name   string     `json:"name"`
	URL    string     `json:"url"`
	Source SourceKind `json:"source"`
}

// TeamPageDiscoverer locates the page listing an organization's people.
type TeamPageDiscoverer interface {
	// DiscoverTeamPage returns the URL of the team page for the site at
	// baseURL. Returns ENOTEAMPAGE when no strategy finds one.
	DiscoverTeamPage(ctx context.Context, baseURL string) (string, error)
}

// LinkDiscoverer finds navigation targets in HTML pages.
type LinkDiscoverer interface {
	// TeamPageLinks returns absolute same-site URLs that look like team
	// pages, navigation links first.
	TeamPageLinks(html, pageURL string) ([]string, error)

	// ProfileLinks returns the people linked from a team page, deduplicated
	// by URL and by case-insensitive name.
	ProfileLinks(html, pageURL string) ([]DiscoveryResult, error)
}

// ListingResult holds the profiles found on a team listing page.
type ListingResult struct {
	// Strategy names the extraction strategy that produced the profiles.
	// Empty when no strategy found anything.
	Strategy string

	Profiles []*Profile
}

// ProfileExtractor extracts profiles from HTML.
type ProfileExtractor interface {
	// ExtractListing extracts every profile on a team listing page.
	// Bios are capped; an empty result is not an error.
	ExtractListing(html, pageURL string) (*ListingResult, error)

	// ExtractProfile extracts one profile from a page dedicated to a single
	// person. knownName is used when not empty, otherwise the name is read
	// from the page.
	ExtractProfile(html, pageURL, knownName string) (*Profile, error)
}
