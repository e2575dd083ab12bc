// Package scrape orchestrates a team scrape: it finds the team page,
// extracts and optionally deep-scrapes the people on it, deduplicates them,
// and hands the result to a sink and a search indexer.
package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/fwojciec/roster"
	"golang.org/x/sync/errgroup"
)

// Default timeouts and pacing.
const (
	DefaultProbeTimeout = 10 * time.Second
	DefaultFetchTimeout = 30 * time.Second
	DefaultDelay        = 500 * time.Millisecond
	DefaultConcurrency  = 1
)

// Config holds the tunables of a scrape. The zero value of any field other
// than Delay falls back to its default; a zero Delay turns off per-host
// pacing.
type Config struct {
	ProbeTimeout   time.Duration        `yaml:"probe_timeout"`
	FetchTimeout   time.Duration        `yaml:"fetch_timeout"`
	MaxRetries     int                  `yaml:"max_retries"`
	RetryBaseDelay time.Duration        `yaml:"retry_base_delay"`
	Delay          time.Duration        `yaml:"delay"`
	Concurrency    int                  `yaml:"concurrency"`
	DedupThreshold float64              `yaml:"dedup_threshold"`
	MergeStrategy  roster.MergeStrategy `yaml:"merge_strategy"`
}

// DefaultConfig returns the default scrape configuration.
func DefaultConfig() Config {
	return Config{
		ProbeTimeout:   DefaultProbeTimeout,
		FetchTimeout:   DefaultFetchTimeout,
		MaxRetries:     DefaultMaxRetries,
		RetryBaseDelay: DefaultRetryBaseDelay,
		Delay:          DefaultDelay,
		Concurrency:    DefaultConcurrency,
		DedupThreshold: 0.85,
		MergeStrategy:  roster.MergePreferComplete,
	}
}

// Validate returns an error if the configuration contains invalid values.
func (c Config) Validate() error {
	if c.MaxRetries < 0 {
		return roster.Errorf(roster.EINVALID, "max_retries must not be negative")
	}
	if c.Delay < 0 {
		return roster.Errorf(roster.EINVALID, "delay must not be negative")
	}
	if c.Concurrency < 0 {
		return roster.Errorf(roster.EINVALID, "concurrency must not be negative")
	}
	if c.DedupThreshold < 0 || c.DedupThreshold > 1 {
		return roster.Errorf(roster.EINVALID, "dedup_threshold must be between 0 and 1")
	}
	if c.MergeStrategy != "" && !c.MergeStrategy.IsValid() {
		return roster.Errorf(roster.EINVALID, "unknown merge_strategy %q", c.MergeStrategy)
	}
	return nil
}

// DomainLimiter returns a per-host limiter spacing requests by Delay.
func (c Config) DomainLimiter() *DomainLimiter {
	return NewDomainLimiter(c.Delay)
}

// RetryPolicy returns the retry policy described by the configuration.
func (c Config) RetryPolicy() RetryPolicy {
	base := c.RetryBaseDelay
	if base <= 0 {
		base = DefaultRetryBaseDelay
	}
	return NewRetryPolicy(c.MaxRetries, base)
}

// RunOptions select optional behavior of a single run.
type RunOptions struct {
	// Deep fetches every profile's own page to fill in missing fields.
	Deep bool

	// Replace swaps all stored profiles for the new ones instead of
	// appending.
	Replace bool
}

// Result holds the outcome of a scrape.
type Result struct {
	TeamURL  string            `json:"teamUrl"`
	Profiles []*roster.Profile `json:"profiles"`
	Stats    Stats             `json:"stats"`
}

// Stats summarizes a scrape.
type Stats struct {
	UsedBaseURL       bool   `json:"usedBaseUrl"`
	Strategy          string `json:"strategy"`
	LinksDiscovered   int    `json:"linksDiscovered"`
	ProfilesExtracted int    `json:"profilesExtracted"`
	DeepAttempted     int    `json:"deepAttempted"`
	DeepFailed        int    `json:"deepFailed"`
	DuplicatesFound   int    `json:"duplicatesFound"`
	MergesPerformed   int    `json:"mergesPerformed"`
	EmailsFound       int    `json:"emailsFound"`
	PhonesFound       int    `json:"phonesFound"`
	PhotosFound       int    `json:"photosFound"`
	BiosFound         int    `json:"biosFound"`

	// IndexError holds the reindex failure, if any. A failed reindex does
	// not fail the scrape.
	IndexError string `json:"indexError,omitempty"`
}

// Scraper runs scrapes. Fetcher, Discoverer, Links, Extractor,
// Deduplicator and Sink are required; Indexer, Limiter and Logger are
// optional.
type Scraper struct {
	Fetcher      roster.Fetcher
	Discoverer   roster.TeamPageDiscoverer
	Links        roster.LinkDiscoverer
	Extractor    roster.ProfileExtractor
	Deduplicator roster.Deduplicator
	Sink         roster.ProfileSink
	Indexer      roster.Indexer

	// Limiter paces deep-scrape fetches per host. Defaults to a
	// DomainLimiter with Config.Delay.
	Limiter roster.DomainLimiter

	Config Config

	// Retry overrides the policy derived from Config.
	Retry *RetryPolicy

	Logger *slog.Logger
}

// Run scrapes the site at baseURL and stores the profiles found.
//
// When no team page can be discovered the base URL itself is used. A run
// that finds nobody returns ENOPROFILES. Nothing is written to the sink
// unless every stage before it completes, and cancellation is checked
// between stages and before each deep-scraped profile.
func (s *Scraper) Run(ctx context.Context, baseURL string, opts RunOptions, progress roster.ProgressFunc) (*Result, error) {
	if err := validateBaseURL(baseURL); err != nil {
		return nil, err
	}
	report := syncProgress(progress)
	logger := loggerOrDiscard(s.Logger)
	result := &Result{}

	// Stage 1: team page.
	report(roster.Progress{Stage: roster.StageDiscoveringTeamPage, Total: 1, Message: baseURL})
	teamURL, err := s.Discoverer.DiscoverTeamPage(ctx, baseURL)
	if err != nil {
		if roster.ErrorCode(err) != roster.ENOTEAMPAGE {
			return nil, err
		}
		logger.Info("no team page found, using base URL", "url", baseURL)
		teamURL = baseURL
		result.Stats.UsedBaseURL = true
	}
	result.TeamURL = teamURL
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 2: listing and profile links.
	report(roster.Progress{Stage: roster.StageDiscoveringProfileLinks, Total: 1, Message: teamURL})
	html, err := s.fetch(ctx, teamURL)
	if err != nil {
		return nil, fmt.Errorf("fetch team page: %w", err)
	}
	profiles := s.collect(html, teamURL, &result.Stats, logger)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 3: deep scrape.
	if opts.Deep {
		if err := s.deepScrape(ctx, teamURL, profiles, &result.Stats, report, logger); err != nil {
			return nil, err
		}
	}

	// Stage 4: deduplicate.
	report(roster.Progress{Stage: roster.StageDeduplicating, Total: len(profiles)})
	unique, dstats := s.Deduplicator.Deduplicate(profiles)
	result.Stats.DuplicatesFound = dstats.DuplicatesFound
	result.Stats.MergesPerformed = dstats.MergesPerformed
	if len(unique) == 0 {
		return nil, roster.Errorf(roster.ENOPROFILES, "no profiles found on %s", teamURL)
	}
	for _, p := range unique {
		p.SourceURL = teamURL
		p.Fingerprint = Fingerprint(p)
	}
	countFields(unique, &result.Stats)

	// Stage 5: persist and index.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	report(roster.Progress{Stage: roster.StagePersisting, Total: len(unique)})
	if opts.Replace {
		err = s.Sink.ReplaceProfiles(ctx, unique)
	} else {
		err = s.Sink.AppendProfiles(ctx, unique)
	}
	if err != nil {
		return nil, fmt.Errorf("store profiles: %w", err)
	}
	if s.Indexer != nil {
		if err := s.Indexer.Reindex(ctx, unique); err != nil {
			logger.Warn("reindex failed", "err", err)
			result.Stats.IndexError = err.Error()
		}
	}

	report(roster.Progress{Stage: roster.StageDone, Current: len(unique), Total: len(unique)})
	result.Profiles = unique
	return result, nil
}

// DiscoverProfileLinks fetches a team page and returns the people linked
// from it.
func (s *Scraper) DiscoverProfileLinks(ctx context.Context, teamURL string) ([]roster.DiscoveryResult, error) {
	if err := validateBaseURL(teamURL); err != nil {
		return nil, err
	}
	html, err := s.fetch(ctx, teamURL)
	if err != nil {
		return nil, err
	}
	return s.Links.ProfileLinks(html, teamURL)
}

// collect runs the listing extractor and the link discoverer over the team
// page. Listing profiles come first; discovered links fill in missing
// profile URLs or add name-only profiles. Failures of either are logged and
// treated as empty.
func (s *Scraper) collect(html, teamURL string, stats *Stats, logger *slog.Logger) []*roster.Profile {
	listing, err := s.Extractor.ExtractListing(html, teamURL)
	if err != nil {
		logger.Warn("listing extraction failed", "url", teamURL, "err", err)
		listing = &roster.ListingResult{}
	}
	links, err := s.Links.ProfileLinks(html, teamURL)
	if err != nil {
		logger.Warn("profile link discovery failed", "url", teamURL, "err", err)
		links = nil
	}
	stats.Strategy = listing.Strategy
	stats.LinksDiscovered = len(links)

	profiles := append([]*roster.Profile(nil), listing.Profiles...)
	byName := make(map[string]*roster.Profile, len(profiles))
	for _, p := range profiles {
		key := strings.ToLower(p.Name)
		if _, ok := byName[key]; !ok {
			byName[key] = p
		}
	}
	for _, link := range links {
		linkURL := link.URL
		if samePage(linkURL, teamURL) {
			linkURL = ""
		}
		key := strings.ToLower(link.Name)
		if p, ok := byName[key]; ok {
			if p.ProfileURL == "" {
				p.ProfileURL = linkURL
			}
			continue
		}
		p := &roster.Profile{
			Name:       link.Name,
			ProfileURL: linkURL,
			Department: roster.ClassifyDepartment(""),
		}
		byName[key] = p
		profiles = append(profiles, p)
	}
	stats.ProfilesExtracted = len(profiles)
	return profiles
}

// deepScrape fetches the dedicated page of every profile that has one on
// the team page's site and merges the richer fields in. Fetches run on a
// bounded pool, each paced by the per-host limiter and retried per policy.
// Per-profile failures are logged and counted; only cancellation aborts.
func (s *Scraper) deepScrape(ctx context.Context, teamURL string, profiles []*roster.Profile, stats *Stats, report roster.ProgressFunc, logger *slog.Logger) error {
	var targets []int
	for i, p := range profiles {
		if deepScrapable(p.ProfileURL, teamURL) {
			targets = append(targets, i)
		}
	}
	stats.DeepAttempted = len(targets)
	total := len(targets)
	report(roster.Progress{Stage: roster.StageDeepScraping, Total: total})
	if total == 0 {
		return nil
	}

	concurrency := s.Config.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	limiter := s.Limiter
	if limiter == nil {
		limiter = s.Config.DomainLimiter()
	}

	// Results are stored by position so merge order is discovery order.
	results := make([]*roster.Profile, total)
	var completed, failed atomic.Int64

	g := new(errgroup.Group)
	g.SetLimit(concurrency)
	for j, i := range targets {
		if err := ctx.Err(); err != nil {
			break
		}
		p := profiles[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			deep, err := s.deepProfile(ctx, limiter, p)
			n := int(completed.Add(1))
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				failed.Add(1)
				logger.Warn("deep scrape failed", "name", p.Name, "url", p.ProfileURL, "err", err)
				report(roster.Progress{Stage: roster.StageDeepScraping, Current: n, Total: total, Message: "failed: " + p.Name})
				return nil
			}
			results[j] = deep
			report(roster.Progress{Stage: roster.StageDeepScraping, Current: n, Total: total, Message: p.Name})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	stats.DeepFailed = int(failed.Load())
	for j, i := range targets {
		if results[j] != nil {
			mergeDeep(profiles[i], results[j])
		}
	}
	return nil
}

func (s *Scraper) deepProfile(ctx context.Context, limiter roster.DomainLimiter, p *roster.Profile) (*roster.Profile, error) {
	if err := limiter.Wait(ctx, hostOf(p.ProfileURL)); err != nil {
		return nil, err
	}
	html, err := s.fetch(ctx, p.ProfileURL)
	if err != nil {
		return nil, err
	}
	return s.Extractor.ExtractProfile(html, p.ProfileURL, p.Name)
}

// fetch retrieves a page with a per-attempt timeout under the retry policy.
func (s *Scraper) fetch(ctx context.Context, u string) (string, error) {
	policy := s.Config.RetryPolicy()
	if s.Retry != nil {
		policy = *s.Retry
	}
	return FetchWithRetry(ctx, u, timeoutFetch(s.Fetcher, s.Config.FetchTimeout), policy, s.Logger)
}

// mergeDeep fills empty listing fields from the deep profile. A longer deep
// bio replaces the capped listing bio.
func mergeDeep(listing, deep *roster.Profile) {
	fill := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	fill(&listing.Role, deep.Role)
	fill(&listing.PhotoURL, deep.PhotoURL)
	fill(&listing.Email, deep.Email)
	fill(&listing.Phone, deep.Phone)
	fill(&listing.LinkedIn, deep.LinkedIn)
	fill(&listing.Twitter, deep.Twitter)
	if utf8.RuneCountInString(deep.Bio) > utf8.RuneCountInString(listing.Bio) {
		listing.Bio = deep.Bio
	}
	listing.Department = roster.ClassifyDepartment(listing.Role)
}

func countFields(profiles []*roster.Profile, stats *Stats) {
	for _, p := range profiles {
		if p.Email != "" {
			stats.EmailsFound++
		}
		if p.Phone != "" {
			stats.PhonesFound++
		}
		if p.PhotoURL != "" {
			stats.PhotosFound++
		}
		if p.Bio != "" {
			stats.BiosFound++
		}
	}
}

// deepScrapable reports whether profileURL is a separate page on the team
// page's site.
func deepScrapable(profileURL, teamURL string) bool {
	if profileURL == "" || samePage(profileURL, teamURL) {
		return false
	}
	return strings.TrimPrefix(hostOf(profileURL), "www.") == strings.TrimPrefix(hostOf(teamURL), "www.")
}

func samePage(a, b string) bool {
	return strings.TrimSuffix(a, "/") == strings.TrimSuffix(b, "/")
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// syncProgress serializes calls to progress, which may come from several
// deep-scrape workers. A nil progress is a no-op.
func syncProgress(progress roster.ProgressFunc) roster.ProgressFunc {
	if progress == nil {
		return func(roster.Progress) {}
	}
	var mu sync.Mutex
	return func(p roster.Progress) {
		mu.Lock()
		defer mu.Unlock()
		progress(p)
	}
}
