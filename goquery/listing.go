package goquery

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/roster"
)

// Ensure Extractor implements roster.ProfileExtractor at compile time.
var _ roster.ProfileExtractor = (*Extractor)(nil)

// Strategy names reported in roster.ListingResult.
const (
	StrategyLink       = "link"
	StrategyContainer  = "container"
	StrategyHeading    = "heading"
	StrategyStructured = "structured"
)

var (
	profileHrefPattern = regexp.MustCompile(`(?i)/(?:leadership|team-member|team|people|profile|person)s?/[^/?#]+`)
	memberClassPattern = regexp.MustCompile(`(?i)team|member|profile|person|employee|leader|executive`)
	roleClassPattern   = regexp.MustCompile(`(?i)title|position|role|designation|job`)
	listingBioPattern  = regexp.MustCompile(`(?i)bio|description|excerpt|about`)
)

const (
	maxCardClimb          = 3
	maxListingRoleLength  = 100
	maxListingNameTokens  = 6
	maxHeadingNameTokens  = 5
	maxSiblingRoleLookups = 3
)

// strategy is one way of finding people on a listing page.
type strategy interface {
	name() string
	extract(doc *goquery.Document, base *url.URL) []*roster.Profile
}

// Extractor extracts profiles from team listing pages and from pages
// dedicated to one person.
type Extractor struct {
	names        nameRules
	photos       *PhotoSelector
	placeholders []string
	noise        []string
	skipTerms    []string
	fallback     roster.Extractor
	strategies   []strategy
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithContentExtractor sets a main-content extractor used as the last
// source of a biography on dedicated profile pages.
func WithContentExtractor(ext roster.Extractor) Option {
	return func(e *Extractor) {
		e.fallback = ext
	}
}

// NewExtractor creates an Extractor using the keyword tables of h.
func NewExtractor(h roster.Heuristics, opts ...Option) *Extractor {
	e := &Extractor{
		names:        newNameRules(h),
		photos:       NewPhotoSelector(h),
		placeholders: h.PlaceholderDomains,
		noise:        h.NoisePhrases,
		skipTerms:    h.RoleSkipTerms,
	}
	e.strategies = []strategy{
		linkStrategy{e},
		containerStrategy{e},
		headingStrategy{e},
		structuredStrategy{e},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractListing runs the listing strategies in order and returns the
// profiles of the first strategy that finds any.
func (e *Extractor) ExtractListing(html, pageURL string) (*roster.ListingResult, error) {
	doc, base, err := parsePage(html, pageURL)
	if err != nil {
		return nil, err
	}
	for _, s := range e.strategies {
		profiles := s.extract(doc, base)
		if len(profiles) == 0 {
			continue
		}
		for _, p := range profiles {
			p.Bio = truncate(p.Bio, maxListingBio)
			p.Department = roster.ClassifyDepartment(p.Role)
		}
		return &roster.ListingResult{Strategy: s.name(), Profiles: profiles}, nil
	}
	return &roster.ListingResult{}, nil
}

// nameSet tracks names already extracted by a strategy.
type nameSet map[string]bool

// add records name and reports whether it was new.
func (s nameSet) add(name string) bool {
	key := strings.ToLower(name)
	if s[key] {
		return false
	}
	s[key] = true
	return true
}

// linkStrategy reads people from anchors pointing at individual profile URLs.
type linkStrategy struct{ e *Extractor }

func (linkStrategy) name() string { return StrategyLink }

func (s linkStrategy) extract(doc *goquery.Document, base *url.URL) []*roster.Profile {
	var profiles []*roster.Profile
	seen := nameSet{}
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href := a.AttrOr("href", "")
		if isNonHTTPLink(href) || !profileHrefPattern.MatchString(href) {
			return
		}
		profileURL := resolveURL(base, href)
		if profileURL == "" || !isSameSite(base, profileURL) {
			return
		}

		// An anchor wrapping a whole card carries the name in a heading.
		nameSel, anchorIsCard := a, false
		if h := a.Find("h1, h2, h3, h4, h5, h6").First(); h.Length() > 0 {
			nameSel, anchorIsCard = h, true
		}
		name := textOf(nameSel)
		if !s.e.names.isPersonName(name, maxListingNameTokens) || !seen.add(name) {
			return
		}

		card := a
		if !anchorIsCard {
			card = enclosingCard(a)
		}
		p := &roster.Profile{Name: name, ProfileURL: profileURL}
		if !anchorIsCard {
			p.Role = siblingRole(a.Parent(), name)
		}
		if p.Role == "" {
			p.Role = classedText(card, roleClassPattern, name, maxListingRoleLength)
		}
		if p.Role == "" && anchorIsCard {
			p.Role = firstShortParagraph(card, name)
		}
		p.Bio = classedText(card, listingBioPattern, name, 0)
		p.PhotoURL = s.e.photos.Select(card, name, base)
		ExtractContact(textOf(card), card, s.e.placeholders).Apply(p)
		profiles = append(profiles, p)
	})
	return profiles
}

// containerStrategy reads people from elements classed as member cards.
type containerStrategy struct{ e *Extractor }

func (containerStrategy) name() string { return StrategyContainer }

func (s containerStrategy) extract(doc *goquery.Document, base *url.URL) []*roster.Profile {
	var profiles []*roster.Profile
	seen := nameSet{}
	doc.Find("div, article, section, li").Each(func(_ int, c *goquery.Selection) {
		if !classMatches(c, memberClassPattern) || !isMemberCard(c) {
			return
		}
		name := textOf(c.Find("h2, h3, h4, h5").First())
		if name == "" {
			name = textOf(c.Find(`[class*="name"]`).First())
		}
		if !s.e.names.isPersonName(name, maxListingNameTokens) || !seen.add(name) {
			return
		}

		p := &roster.Profile{Name: name}
		p.Role = classedText(c, roleClassPattern, name, maxListingRoleLength)
		if p.Role == "" {
			p.Role = firstShortParagraph(c, name)
		}
		p.Bio = classedText(c, listingBioPattern, name, 0)
		if p.Bio == "" {
			p.Bio = remainingParagraphs(c, name, p.Role)
		}
		p.PhotoURL = s.e.photos.Select(c, name, base)
		p.ProfileURL = firstPageLink(c, base)
		ExtractContact(textOf(c), c, s.e.placeholders).Apply(p)
		profiles = append(profiles, p)
	})
	return profiles
}

// headingStrategy reads people from bare headings anywhere on the page.
type headingStrategy struct{ e *Extractor }

func (headingStrategy) name() string { return StrategyHeading }

func (s headingStrategy) extract(doc *goquery.Document, base *url.URL) []*roster.Profile {
	var profiles []*roster.Profile
	seen := nameSet{}
	doc.Find("h2, h3, h4").Each(func(_ int, h *goquery.Selection) {
		name := textOf(h)
		if !s.e.names.isPersonName(name, maxHeadingNameTokens) || !seen.add(name) {
			return
		}

		p := &roster.Profile{Name: name}
		if next := h.NextAllFiltered("p, span, div").First(); next.Length() > 0 {
			if role := textOf(next); role != "" && runeLen(role) < maxListingRoleLength && !strings.EqualFold(role, name) {
				p.Role = role
			}
		}
		parent := h.Parent()
		if isSinglePersonCard(parent) {
			p.PhotoURL = s.e.photos.Select(parent, name, base)
			ExtractContact(textOf(parent), parent, s.e.placeholders).Apply(p)
		} else {
			p.PhotoURL = s.e.photos.SelectByName(parent, name, base)
		}
		profiles = append(profiles, p)
	})
	return profiles
}

// structuredStrategy reads schema.org Person blocks from JSON-LD.
type structuredStrategy struct{ e *Extractor }

func (structuredStrategy) name() string { return StrategyStructured }

func (s structuredStrategy) extract(doc *goquery.Document, base *url.URL) []*roster.Profile {
	var profiles []*roster.Profile
	seen := nameSet{}
	for _, person := range jsonLDPeople(doc) {
		if len(strings.Fields(person.Name)) < 2 || !seen.add(person.Name) {
			continue
		}
		p := &roster.Profile{
			Name:       person.Name,
			Role:       person.JobTitle,
			Bio:        person.Description,
			PhotoURL:   resolveImage(base, person.Image),
			ProfileURL: resolveURL(base, person.URL),
		}
		if person.Email != "" && !isPlaceholderEmail(person.Email, s.e.placeholders) {
			p.Email = person.Email
		}
		for _, link := range person.SameAs {
			switch socialPlatform(link) {
			case "linkedin":
				if p.LinkedIn == "" {
					p.LinkedIn = link
				}
			case "twitter":
				if p.Twitter == "" {
					p.Twitter = link
				}
			}
		}
		profiles = append(profiles, p)
	}
	return profiles
}

// enclosingCard climbs from sel to the nearest ancestor that holds an image
// without holding other people. Falls back to the parent.
func enclosingCard(sel *goquery.Selection) *goquery.Selection {
	card := sel.Parent()
	cur := card
	for i := 0; i < maxCardClimb && cur.Length() > 0; i++ {
		if !isSinglePersonCard(cur) {
			break
		}
		card = cur
		if cur.Find("img").Length() > 0 {
			break
		}
		cur = cur.Parent()
	}
	return card
}

// isSinglePersonCard reports whether sel holds at most one heading, which
// separates a person's card from a section listing several people.
func isSinglePersonCard(sel *goquery.Selection) bool {
	if sel.Length() == 0 || sel.Is("body, html") {
		return false
	}
	return sel.Find("h1, h2, h3, h4, h5").Length() <= 1
}

// isMemberCard reports whether a member-classed element describes one
// person rather than wrapping a grid of cards.
func isMemberCard(sel *goquery.Selection) bool {
	return isSinglePersonCard(sel) && sel.Find(`[class*="name"]`).Length() <= 1
}

// siblingRole returns the first short text among the elements following sel.
func siblingRole(sel *goquery.Selection, name string) string {
	var role string
	siblings := sel.NextAllFiltered("p, span, div")
	siblings.Slice(0, min(siblings.Length(), maxSiblingRoleLookups)).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		t := textOf(s)
		if t != "" && runeLen(t) < maxListingRoleLength && !strings.EqualFold(t, name) {
			role = t
			return false
		}
		return true
	})
	return role
}

// classedText returns the text of the first element within sel whose class
// matches re, with a leading or trailing name removed. Texts equal to name
// are skipped. maxLen of zero means any length.
func classedText(sel *goquery.Selection, re *regexp.Regexp, name string, maxLen int) string {
	var found string
	sel.Find("*").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !classMatches(s, re) {
			return true
		}
		t := trimAffix(textOf(s), name)
		if t == "" || (maxLen > 0 && runeLen(t) >= maxLen) {
			return true
		}
		found = t
		return false
	})
	return found
}

// firstShortParagraph returns the first paragraph shorter than a role limit.
func firstShortParagraph(sel *goquery.Selection, name string) string {
	p := sel.Find("p").First()
	t := textOf(p)
	if t == "" || runeLen(t) >= maxListingRoleLength || strings.EqualFold(t, name) {
		return ""
	}
	return t
}

// remainingParagraphs joins the paragraphs after the first, skipping the
// name and role.
func remainingParagraphs(sel *goquery.Selection, name, role string) string {
	var parts []string
	sel.Find("p").Each(func(i int, p *goquery.Selection) {
		if i == 0 {
			return
		}
		t := textOf(p)
		if t == "" || strings.EqualFold(t, name) || strings.EqualFold(t, role) {
			return
		}
		parts = append(parts, t)
	})
	return strings.Join(parts, " ")
}

// firstPageLink returns the first anchor in sel pointing at another page of
// the same site.
func firstPageLink(sel *goquery.Selection, base *url.URL) string {
	var found string
	sel.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		u := resolveURL(base, a.AttrOr("href", ""))
		if u == "" || !isSameSite(base, u) || isSamePage(u, base.String()) {
			return true
		}
		found = u
		return false
	})
	return found
}
