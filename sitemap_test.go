package roster_test

import (
	"regexp"
	"testing"

	"github.com/fwojciec/roster"
	"github.com/stretchr/testify/assert"
)

func TestURLFilter_Match(t *testing.T) {
	t.Parallel()

	t.Run("nil filter passes everything", func(t *testing.T) {
		t.Parallel()

		var f *roster.URLFilter

		assert.True(t, f.Match("https://acme.io/anything"))
	})

	t.Run("include then exclude", func(t *testing.T) {
		t.Parallel()

		f := &roster.URLFilter{
			Include: []*regexp.Regexp{regexp.MustCompile(`/team`), regexp.MustCompile(`/people`)},
			Exclude: []*regexp.Regexp{regexp.MustCompile(`/jobs`)},
		}

		assert.True(t, f.Match("https://acme.io/team"))
		assert.True(t, f.Match("https://acme.io/people/jane"))
		assert.False(t, f.Match("https://acme.io/blog"))
		assert.False(t, f.Match("https://acme.io/team/jobs"))
	})

	t.Run("exclude only", func(t *testing.T) {
		t.Parallel()

		f := &roster.URLFilter{Exclude: []*regexp.Regexp{regexp.MustCompile(`\.pdf$`)}}

		assert.True(t, f.Match("https://acme.io/about"))
		assert.False(t, f.Match("https://acme.io/report.pdf"))
	})
}

func TestKeywordPattern(t *testing.T) {
	t.Parallel()

	t.Run("spaces match separators", func(t *testing.T) {
		t.Parallel()

		re := roster.KeywordPattern([]string{"about us", "team"})

		assert.True(t, re.MatchString("/about-us"))
		assert.True(t, re.MatchString("/About_Us"))
		assert.True(t, re.MatchString("/aboutus"))
		assert.True(t, re.MatchString("/our-TEAM"))
		assert.False(t, re.MatchString("/careers"))
	})

	t.Run("quotes regex characters", func(t *testing.T) {
		t.Parallel()

		re := roster.KeywordPattern([]string{"c++"})

		assert.True(t, re.MatchString("/c++-team"))
		assert.False(t, re.MatchString("/cc"))
	})

	t.Run("no keywords matches nothing", func(t *testing.T) {
		t.Parallel()

		re := roster.KeywordPattern([]string{"", "  "})

		assert.False(t, re.MatchString(""))
		assert.False(t, re.MatchString("/team"))
	})
}
