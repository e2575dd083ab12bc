package trafilatura

import (
	"strings"

	"github.com/fwojciec/roster"
	"github.com/markusmobius/go-trafilatura"
)

// Ensure Extractor implements roster.Extractor at compile time.
var _ roster.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to pull the main text out of a profile
// page when no bio-like element is found.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content as plain text
// with whitespace collapsed.
func (e *Extractor) Extract(rawHTML string) (*roster.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, roster.Errorf(roster.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
		ExcludeTables:  true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, roster.Errorf(roster.EPARSE, "extracting main content: %v", err)
	}

	return &roster.ExtractResult{
		Title: result.Metadata.Title,
		Text:  strings.Join(strings.Fields(result.ContentText), " "),
	}, nil
}
