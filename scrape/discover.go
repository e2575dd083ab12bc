package scrape

import (
	"context"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/fwojciec/roster"
	"github.com/fwojciec/roster/bloom"
)

// Ensure TeamPageFinder implements roster.TeamPageDiscoverer at compile time.
var _ roster.TeamPageDiscoverer = (*TeamPageFinder)(nil)

// Seen-candidate filter sizing. A homepage rarely links more than a few
// hundred pages.
const (
	seenExpectedURLs      = 512
	seenFalsePositiveRate = 0.001
)

// TeamPageFinder locates a site's team page by probing well-known paths,
// then checking team-like links on the homepage, then searching the
// sitemaps. Prober is required; the homepage step needs Fetcher and Links,
// and the sitemap step needs Sitemaps. Steps with missing collaborators are
// skipped.
type TeamPageFinder struct {
	Prober   roster.Prober
	Fetcher  roster.Fetcher
	Links    roster.LinkDiscoverer
	Sitemaps roster.SitemapService

	// Paths are probed in order. Defaults to roster.DefaultHeuristics().TeamPaths.
	Paths []string

	// Keywords select sitemap URLs. Defaults to roster.DefaultHeuristics().TeamKeywords.
	Keywords []string

	ProbeTimeout time.Duration
	FetchTimeout time.Duration

	// Retry applies to the homepage fetch. Defaults to DefaultRetryPolicy.
	Retry *RetryPolicy

	Logger *slog.Logger
}

// discoveryStep is one way of finding the team page. It returns empty
// string when it finds nothing.
type discoveryStep struct {
	name string
	find func(ctx context.Context, base string, seen *bloom.Filter) (string, error)
}

func (f *TeamPageFinder) steps() []discoveryStep {
	return []discoveryStep{
		{"probe", f.probePaths},
		{"homepage", f.homepageLinks},
		{"sitemap", f.sitemapSearch},
	}
}

// DiscoverTeamPage returns the first team page found for the site at
// baseURL. Returns ENOTEAMPAGE when every step comes up empty.
func (f *TeamPageFinder) DiscoverTeamPage(ctx context.Context, baseURL string) (string, error) {
	if err := validateBaseURL(baseURL); err != nil {
		return "", err
	}
	logger := loggerOrDiscard(f.Logger)
	seen := bloom.NewFilter(seenExpectedURLs, seenFalsePositiveRate)

	for _, step := range f.steps() {
		found, err := step.find(ctx, baseURL, seen)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		if err != nil {
			logger.Debug("team page step failed", "step", step.name, "url", baseURL, "err", err)
			continue
		}
		if found != "" {
			logger.Debug("team page found", "step", step.name, "url", found)
			return found, nil
		}
	}
	return "", roster.Errorf(roster.ENOTEAMPAGE, "no team page found for %s", baseURL)
}

func (f *TeamPageFinder) probePaths(ctx context.Context, base string, seen *bloom.Filter) (string, error) {
	paths := f.Paths
	if paths == nil {
		paths = roster.DefaultHeuristics().TeamPaths
	}
	trimmed := strings.TrimSuffix(base, "/")
	for _, p := range paths {
		candidate := trimmed + p
		seen.Add(candidate)
		if f.exists(ctx, candidate) {
			return candidate, nil
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
	}
	return "", nil
}

func (f *TeamPageFinder) homepageLinks(ctx context.Context, base string, seen *bloom.Filter) (string, error) {
	if f.Fetcher == nil || f.Links == nil {
		return "", nil
	}
	policy := DefaultRetryPolicy()
	if f.Retry != nil {
		policy = *f.Retry
	}
	html, err := FetchWithRetry(ctx, base, timeoutFetch(f.Fetcher, f.FetchTimeout), policy, f.Logger)
	if err != nil {
		return "", err
	}
	candidates, err := f.Links.TeamPageLinks(html, base)
	if err != nil {
		return "", err
	}
	for _, candidate := range candidates {
		if seen.TestAndAdd(candidate) {
			continue
		}
		if f.exists(ctx, candidate) {
			return candidate, nil
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
	}
	return "", nil
}

func (f *TeamPageFinder) sitemapSearch(ctx context.Context, base string, _ *bloom.Filter) (string, error) {
	if f.Sitemaps == nil {
		return "", nil
	}
	keywords := f.Keywords
	if keywords == nil {
		keywords = roster.DefaultHeuristics().TeamKeywords
	}
	filter := &roster.URLFilter{Include: []*regexp.Regexp{pathKeywordPattern(keywords)}}
	urls, err := f.Sitemaps.DiscoverURLs(ctx, base, filter)
	if err != nil {
		return "", err
	}
	if len(urls) == 0 {
		return "", nil
	}
	return urls[0], nil
}

// exists probes a URL with its own timeout. Probe errors count as absent.
func (f *TeamPageFinder) exists(ctx context.Context, u string) bool {
	timeout := f.ProbeTimeout
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ok, err := f.Prober.Exists(ctx, u)
	return err == nil && ok
}

// pathKeywordPattern matches URLs whose path, not host, contains a keyword.
func pathKeywordPattern(keywords []string) *regexp.Regexp {
	return regexp.MustCompile(`^[^:/]+://[^/]+/.*` + roster.KeywordPattern(keywords).String())
}

// validateBaseURL checks that u is an absolute http(s) URL.
func validateBaseURL(u string) error {
	parsed, err := url.Parse(u)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return roster.Errorf(roster.EINVALID, "invalid URL %q: must be an absolute http(s) URL", u)
	}
	return nil
}

// timeoutFetch wraps a fetcher so each attempt gets its own deadline.
func timeoutFetch(fetcher roster.Fetcher, timeout time.Duration) FetchFunc {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return func(ctx context.Context, url string) (string, error) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return fetcher.Fetch(ctx, url)
	}
}

func loggerOrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l
}
