package scrape

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/roster"
)

// computeHash computes a hash of the content using xxhash.
func computeHash(content string) string {
	h := xxhash.Sum64String(content)
	return fmt.Sprintf("%x", h)
}

// Fingerprint hashes the descriptive fields of a profile after collapsing
// whitespace and case. Two scrapes of an unchanged person produce the same
// fingerprint. ID, SourceURL, merge provenance and timestamps are not part
// of it.
func Fingerprint(p *roster.Profile) string {
	fields := []string{
		p.Name, p.Role, p.Bio, p.PhotoURL, p.Email, p.Phone,
		p.LinkedIn, p.Twitter, string(p.Department), p.ProfileURL,
	}
	for i, f := range fields {
		fields[i] = strings.ToLower(strings.Join(strings.Fields(f), " "))
	}
	return computeHash(strings.Join(fields, "\x00"))
}

// TruncateURL shortens a URL for display, keeping the end which is more informative.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}
