package mock

import (
	"context"

	"github.com/fwojciec/roster"
)

var _ roster.TeamPageDiscoverer = (*TeamPageDiscoverer)(nil)

// TeamPageDiscoverer is a mock implementation of roster.TeamPageDiscoverer.
type TeamPageDiscoverer struct {
	DiscoverTeamPageFn func(ctx context.Context, baseURL string) (string, error)
}

func (d *TeamPageDiscoverer) DiscoverTeamPage(ctx context.Context, baseURL string) (string, error) {
	return d.DiscoverTeamPageFn(ctx, baseURL)
}

var _ roster.LinkDiscoverer = (*LinkDiscoverer)(nil)

// LinkDiscoverer is a mock implementation of roster.LinkDiscoverer.
type LinkDiscoverer struct {
	TeamPageLinksFn func(html, pageURL string) ([]string, error)
	ProfileLinksFn  func(html, pageURL string) ([]roster.DiscoveryResult, error)
}

func (d *LinkDiscoverer) TeamPageLinks(html, pageURL string) ([]string, error) {
	return d.TeamPageLinksFn(html, pageURL)
}

func (d *LinkDiscoverer) ProfileLinks(html, pageURL string) ([]roster.DiscoveryResult, error) {
	return d.ProfileLinksFn(html, pageURL)
}

var _ roster.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of roster.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}

var _ roster.Deduplicator = (*Deduplicator)(nil)

// Deduplicator is a mock implementation of roster.Deduplicator.
type Deduplicator struct {
	DeduplicateFn func(profiles []*roster.Profile) ([]*roster.Profile, roster.DedupStats)
}

func (d *Deduplicator) Deduplicate(profiles []*roster.Profile) ([]*roster.Profile, roster.DedupStats) {
	return d.DeduplicateFn(profiles)
}
