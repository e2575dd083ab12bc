package goquery_test

import (
	"strings"
	"testing"

	gq "github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/roster"
	"github.com/fwojciec/roster/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fragment(t *testing.T, html string) *gq.Selection {
	t.Helper()
	doc, err := gq.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc.Selection
}

func TestExtractContact(t *testing.T) {
	t.Parallel()

	placeholders := roster.DefaultHeuristics().PlaceholderDomains

	t.Run("finds email and phone in text", func(t *testing.T) {
		t.Parallel()

		c := goquery.ExtractContact("Reach Jane at jane@acme.io or 555-123-4567.", nil, placeholders)

		assert.Equal(t, "jane@acme.io", c.Email)
		assert.Equal(t, "555-123-4567", c.Phone)
	})

	t.Run("skips placeholder domains", func(t *testing.T) {
		t.Parallel()

		c := goquery.ExtractContact("info@example.com, sales@mail.test.com, jane@acme.io", nil, placeholders)

		assert.Equal(t, "jane@acme.io", c.Email)
	})

	t.Run("returns empty contact when nothing matches", func(t *testing.T) {
		t.Parallel()

		c := goquery.ExtractContact("No details here.", nil, placeholders)

		assert.Equal(t, roster.Contact{}, c)
	})

	t.Run("mailto and tel anchors override text", func(t *testing.T) {
		t.Parallel()

		sel := fragment(t, `<div>
			<p>Write to old@acme.io or call 555-000-1111</p>
			<a href="mailto:Jane.Doe@acme.io?subject=Hello">Email</a>
			<a href="tel:+1-555-222-3333">Call</a>
		</div>`)

		c := goquery.ExtractContact("Write to old@acme.io or call 555-000-1111", sel, placeholders)

		assert.Equal(t, "Jane.Doe@acme.io", c.Email)
		assert.Equal(t, "+1-555-222-3333", c.Phone)
	})

	t.Run("ignores placeholder mailto", func(t *testing.T) {
		t.Parallel()

		sel := fragment(t, `<a href="mailto:someone@example.com">Email</a>`)

		c := goquery.ExtractContact("", sel, placeholders)

		assert.Empty(t, c.Email)
	})

	t.Run("first social link per platform wins", func(t *testing.T) {
		t.Parallel()

		sel := fragment(t, `<div>
			<a href="https://www.linkedin.com/in/janedoe">LinkedIn</a>
			<a href="https://uk.linkedin.com/in/other">LinkedIn UK</a>
			<a href="https://x.com/janedoe">X</a>
			<a href="https://twitter.com/other">Twitter</a>
			<a href="https://notlinkedin.com/in/fake">Fake</a>
		</div>`)

		c := goquery.ExtractContact("", sel, placeholders)

		assert.Equal(t, "https://www.linkedin.com/in/janedoe", c.LinkedIn)
		assert.Equal(t, "https://x.com/janedoe", c.Twitter)
	})
}
