package trafilatura_test

import (
	"testing"

	"github.com/fwojciec/roster"
	"github.com/fwojciec/roster/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts the biography from a profile page", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head>
<title>Jane Doe | Acme</title>
<meta property="og:title" content="Jane Doe">
</head>
<body>
<nav class="main-nav"><a href="/">Home</a><a href="/team">Team</a><a href="/contact">Contact</a></nav>
<article>
<h1>Jane Doe</h1>
<p>Jane leads marketing at Acme, where she has built the brand team from three people to thirty over the past six years.</p>
<p>Before Acme she ran growth at two venture-backed startups and taught a course on product positioning.</p>
</article>
<footer><p>Copyright 2024 Acme Corp</p></footer>
</body>
</html>`

		result, err := trafilatura.NewExtractor().Extract(html)

		require.NoError(t, err)
		assert.NotEmpty(t, result.Title)
		assert.Contains(t, result.Text, "Jane leads marketing at Acme")
		assert.Contains(t, result.Text, "product positioning")
		assert.NotContains(t, result.Text, "Copyright 2024 Acme Corp")
	})

	t.Run("collapses whitespace", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title>Bob Lee</title></head><body>
<article>
<p>Bob   joined the company in 2015
    and now runs the sales organization across all three regions we operate in.</p>
</article>
</body></html>`

		result, err := trafilatura.NewExtractor().Extract(html)

		require.NoError(t, err)
		assert.NotContains(t, result.Text, "  ")
		assert.NotContains(t, result.Text, "\n")
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		_, err := trafilatura.NewExtractor().Extract("  ")

		assert.Equal(t, roster.EINVALID, roster.ErrorCode(err))
	})
}
