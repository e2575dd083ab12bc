package http

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/roster"
)

// Ensure SitemapService implements roster.SitemapService.
var _ roster.SitemapService = (*SitemapService)(nil)

// fallbackSitemapPaths are tried when robots.txt declares no sitemap.
var fallbackSitemapPaths = []string{"/sitemap.xml", "/sitemap_index.xml", "/sitemap/"}

// SitemapService discovers URLs from website sitemaps via HTTP.
type SitemapService struct {
	client *http.Client
}

// NewSitemapService creates a new SitemapService with the given HTTP client.
// If client is nil, http.DefaultClient is used.
func NewSitemapService(client *http.Client) *SitemapService {
	if client == nil {
		client = http.DefaultClient
	}
	return &SitemapService{client: client}
}

// DiscoverURLs returns the page URLs listed in the sitemaps of the site at
// baseURL, in sitemap order without duplicates. Sitemaps that fail to load
// or parse are skipped. Returns an empty slice (not nil) if nothing is found.
func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *roster.URLFilter) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return nil, roster.Errorf(roster.EINVALID, "invalid base URL %q", baseURL)
	}
	root := &url.URL{Scheme: base.Scheme, Host: base.Host}

	sitemaps := s.robotsSitemaps(ctx, root)
	if len(sitemaps) == 0 {
		for _, p := range fallbackSitemapPaths {
			sitemaps = append(sitemaps, root.ResolveReference(&url.URL{Path: p}).String())
		}
	}

	urls := []string{}
	seenSitemaps := make(map[string]bool)
	seenURLs := make(map[string]bool)
	for _, sm := range sitemaps {
		found, err := s.processSitemap(ctx, sm, seenSitemaps)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			continue
		}
		for _, u := range found {
			if seenURLs[u] || !filter.Match(u) {
				continue
			}
			seenURLs[u] = true
			urls = append(urls, u)
		}
	}
	return urls, nil
}

// robotsSitemaps returns the Sitemap: directives of robots.txt. A missing or
// unreadable robots.txt yields none.
func (s *SitemapService) robotsSitemaps(ctx context.Context, root *url.URL) []string {
	robotsURL := root.ResolveReference(&url.URL{Path: "/robots.txt"})
	body, err := s.get(ctx, robotsURL.String())
	if err != nil {
		return nil
	}
	defer body.Close()

	var sitemaps []string
	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(strings.ToLower(line), "sitemap:") {
			continue
		}
		if u := strings.TrimSpace(line[len("sitemap:"):]); u != "" {
			sitemaps = append(sitemaps, u)
		}
	}
	return sitemaps
}

// processSitemap fetches and parses a sitemap. A sitemap index is resolved
// recursively; children that fail are skipped.
func (s *SitemapService) processSitemap(ctx context.Context, sitemapURL string, seen map[string]bool) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if seen[sitemapURL] {
		return nil, nil
	}
	seen[sitemapURL] = true

	body, err := s.get(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(body); err != nil {
		return nil, roster.Errorf(roster.EPARSE, "parsing sitemap %s: %v", sitemapURL, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, roster.Errorf(roster.EPARSE, "empty sitemap %s", sitemapURL)
	}

	if root.Tag != "sitemapindex" {
		return locs(root, "url"), nil
	}
	var urls []string
	for _, child := range locs(root, "sitemap") {
		found, err := s.processSitemap(ctx, child, seen)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			continue
		}
		urls = append(urls, found...)
	}
	return urls, nil
}

// locs returns the <loc> text of every child element with the given tag.
func locs(root *etree.Element, tag string) []string {
	var out []string
	for _, el := range root.SelectElements(tag) {
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		if u := strings.TrimSpace(loc.Text()); u != "" {
			out = append(out, u)
		}
	}
	return out
}

func (s *SitemapService) get(ctx context.Context, target string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &roster.FetchError{URL: target, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &roster.FetchError{URL: target, StatusCode: resp.StatusCode}
	}
	return resp.Body, nil
}
