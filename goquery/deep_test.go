package goquery_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/roster"
	"github.com/fwojciec/roster/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// contentExtractor is a roster.Extractor returning fixed text.
type contentExtractor string

func (c contentExtractor) Extract(string) (*roster.ExtractResult, error) {
	return &roster.ExtractResult{Text: string(c)}, nil
}

const janeProfilePage = `<html><head><title>Jane Doe | Acme</title></head><body>
<nav><a href="/contact">Contact</a></nav>
<h1>Jane Doe</h1>
<div class="elementor-widget"><h2>Head of Digital Transformation</h2></div>
<div class="bio-content"><p>Jane has spent twenty years building digital platforms for global retailers and banks.</p></div>
<img src="/wp-content/uploads/jane-doe.jpg">
<a href="https://www.linkedin.com/in/janedoe">LinkedIn</a>
<a href="mailto:jane@acme.io">Email</a>
</body></html>`

func TestExtractor_ExtractProfile(t *testing.T) {
	t.Parallel()

	t.Run("extracts all fields from a profile page", func(t *testing.T) {
		t.Parallel()

		p, err := goquery.NewExtractor(roster.DefaultHeuristics()).ExtractProfile(janeProfilePage, "https://acme.io/team/jane-doe", "Jane Doe")

		require.NoError(t, err)
		assert.Equal(t, "Jane Doe", p.Name)
		assert.Equal(t, "Head of Digital Transformation", p.Role)
		assert.Equal(t, "Jane has spent twenty years building digital platforms for global retailers and banks.", p.Bio)
		assert.Equal(t, "https://acme.io/wp-content/uploads/jane-doe.jpg", p.PhotoURL)
		assert.Equal(t, "https://www.linkedin.com/in/janedoe", p.LinkedIn)
		assert.Equal(t, "jane@acme.io", p.Email)
		assert.Equal(t, "https://acme.io/team/jane-doe", p.ProfileURL)
		assert.Equal(t, roster.ClassifyDepartment(p.Role), p.Department)
	})

	t.Run("is idempotent", func(t *testing.T) {
		t.Parallel()

		e := goquery.NewExtractor(roster.DefaultHeuristics())

		first, err := e.ExtractProfile(janeProfilePage, "https://acme.io/team/jane-doe", "")
		require.NoError(t, err)
		second, err := e.ExtractProfile(janeProfilePage, "https://acme.io/team/jane-doe", "")
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, "Jane Doe", first.Name)
	})

	t.Run("noise before the title disqualifies a widget", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<h1>John Smith</h1>
<div class="block"><p>Learn more about our CEO</p></div>
<h2>Chief Financial Officer</h2>
</body></html>`

		p, err := goquery.NewExtractor(roster.DefaultHeuristics()).ExtractProfile(html, "https://acme.io/team/john-smith", "")

		require.NoError(t, err)
		assert.Equal(t, "John Smith", p.Name)
		assert.Equal(t, "Chief Financial Officer", p.Role)
		assert.Equal(t, roster.DepartmentFinance, p.Department)
	})

	t.Run("reads the title heading inside a wrapping block", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<h1>Jane Doe</h1>
<div class="profile-block"><h2>Chief Marketing Officer</h2><p>Jane has led brand strategy at Acme for ten years.</p></div>
</body></html>`

		p, err := goquery.NewExtractor(roster.DefaultHeuristics()).ExtractProfile(html, "https://acme.io/team/jane-doe", "")

		require.NoError(t, err)
		assert.Equal(t, "Chief Marketing Officer", p.Role)
		assert.Equal(t, roster.DepartmentMarketing, p.Department)
	})

	t.Run("keeps titles that contain noise words after the keyword", func(t *testing.T) {
		t.Parallel()

		titles := []string{
			"Head of Managed Testing Services",
			"Head of Digital Transformation",
			"Digital Marketing Director",
			"Cloud Practice Head",
		}
		for _, title := range titles {
			t.Run(title, func(t *testing.T) {
				t.Parallel()

				html := `<html><body><h1>Raj Kumar</h1><div class="elementor-widget"><h2>` + title + `</h2></div></body></html>`

				p, err := goquery.NewExtractor(roster.DefaultHeuristics()).ExtractProfile(html, "https://acme.io/team/raj-kumar", "")

				require.NoError(t, err)
				assert.Equal(t, title, p.Role)
			})
		}
	})

	t.Run("strips the name from a keyword match", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><h1>Ann Lee</h1><div><span>Ann Lee, Senior Partner</span></div></body></html>`

		p, err := goquery.NewExtractor(roster.DefaultHeuristics()).ExtractProfile(html, "https://acme.io/people/ann-lee", "")

		require.NoError(t, err)
		assert.Equal(t, "Senior Partner", p.Role)
	})

	t.Run("reads role from itemprop", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><h1>Ann Lee</h1><span itemprop="jobTitle">Treasurer</span></body></html>`

		p, err := goquery.NewExtractor(roster.DefaultHeuristics()).ExtractProfile(html, "https://acme.io/people/ann-lee", "")

		require.NoError(t, err)
		assert.Equal(t, "Treasurer", p.Role)
		assert.Equal(t, roster.DepartmentFinance, p.Department)
	})

	t.Run("reads role from meta tags", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><meta name="job-title" content="Treasurer"></head><body><h1>Ann Lee</h1></body></html>`

		p, err := goquery.NewExtractor(roster.DefaultHeuristics()).ExtractProfile(html, "https://acme.io/people/ann-lee", "")

		require.NoError(t, err)
		assert.Equal(t, "Treasurer", p.Role)
	})

	t.Run("leaves missing fields empty", func(t *testing.T) {
		t.Parallel()

		p, err := goquery.NewExtractor(roster.DefaultHeuristics()).ExtractProfile(`<html><body><h1>Ann Lee</h1></body></html>`, "https://acme.io/people/ann-lee", "")

		require.NoError(t, err)
		assert.Equal(t, "Ann Lee", p.Name)
		assert.Empty(t, p.Role)
		assert.Empty(t, p.Bio)
		assert.Empty(t, p.PhotoURL)
		assert.Equal(t, roster.DepartmentLeadership, p.Department)
	})

	t.Run("uses content extractor as last bio source", func(t *testing.T) {
		t.Parallel()

		text := strings.Repeat("Ann has led the firm for a decade. ", 3)
		e := goquery.NewExtractor(roster.DefaultHeuristics(), goquery.WithContentExtractor(contentExtractor(text)))

		p, err := e.ExtractProfile(`<html><body><h1>Ann Lee</h1></body></html>`, "https://acme.io/people/ann-lee", "")

		require.NoError(t, err)
		assert.Equal(t, text, p.Bio)
	})

	t.Run("returns error for invalid page URL", func(t *testing.T) {
		t.Parallel()

		_, err := goquery.NewExtractor(roster.DefaultHeuristics()).ExtractProfile(`<h1>Ann Lee</h1>`, "not a url", "")

		require.Error(t, err)
		assert.Equal(t, roster.EINVALID, roster.ErrorCode(err))
	})
}
