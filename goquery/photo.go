package goquery

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/roster"
)

// maxPhotoContainers bounds how many photo containers are inspected.
const maxPhotoContainers = 3

var photoContainerPattern = regexp.MustCompile(`(?i)photo|avatar|profile|headshot|portrait|picture|image`)

// imageSourceAttrs are checked in order for an image's URL.
var imageSourceAttrs = []string{"src", "data-src", "data-lazy-src", "data-original", "data-full-src"}

// headshotSizes are common square headshot dimensions.
var headshotSizes = map[int]bool{300: true, 340: true, 400: true, 500: true}

// PhotoSelector picks the most likely profile photograph of a person.
type PhotoSelector struct {
	denylist  []string
	nicknames map[string][]string
}

// NewPhotoSelector returns a PhotoSelector using the photo denylist and
// nickname table of h.
func NewPhotoSelector(h roster.Heuristics) *PhotoSelector {
	return &PhotoSelector{denylist: h.PhotoDenylist, nicknames: h.Nicknames}
}

// Select returns the absolute URL of the best photo for name within sel, or
// empty string. Candidates are tried by file-name match, then photo
// containers, then image size, then the og:image tag.
func (s *PhotoSelector) Select(sel *goquery.Selection, name string, base *url.URL) string {
	tokens := s.nameTokens(name)
	if u := s.byName(sel, tokens, base); u != "" {
		return u
	}
	if u := s.byContainer(sel, base); u != "" {
		return u
	}
	if u := s.bySize(sel, base); u != "" {
		return u
	}
	return s.byMetadata(sel, tokens, base)
}

// SelectByName only accepts images whose URL contains the person's name.
func (s *PhotoSelector) SelectByName(sel *goquery.Selection, name string, base *url.URL) string {
	return s.byName(sel, s.nameTokens(name), base)
}

// nameTokens returns the strings searched for in image URLs: name words
// longer than two letters, their nicknames, and joined first/last forms.
func (s *PhotoSelector) nameTokens(name string) []string {
	words := nameTokens(name)
	var tokens []string
	if len(words) >= 2 {
		first, last := words[0], words[len(words)-1]
		tokens = append(tokens, first+"-"+last, first+last, last+"-"+first)
	}
	for _, w := range words {
		if len([]rune(w)) <= 2 {
			continue
		}
		tokens = append(tokens, w)
		tokens = append(tokens, s.nicknames[w]...)
	}
	return tokens
}

func (s *PhotoSelector) denied(src string) bool {
	return containsAny(src, s.denylist)
}

// images returns sel itself when it is an image, followed by its image
// descendants.
func images(sel *goquery.Selection) *goquery.Selection {
	return sel.Filter("img").AddSelection(sel.Find("img"))
}

func (s *PhotoSelector) byName(sel *goquery.Selection, tokens []string, base *url.URL) string {
	if len(tokens) == 0 {
		return ""
	}
	var found string
	images(sel).EachWithBreak(func(_ int, img *goquery.Selection) bool {
		for _, src := range imageSources(img) {
			if s.denied(src) {
				continue
			}
			path := urlPath(src)
			for _, t := range tokens {
				if strings.Contains(path, t) {
					found = resolveImage(base, src)
					return found == ""
				}
			}
		}
		return true
	})
	return found
}

func (s *PhotoSelector) byContainer(sel *goquery.Selection, base *url.URL) string {
	containers := sel.Find("div, figure, section, picture, span, img").FilterFunction(func(_ int, c *goquery.Selection) bool {
		return attrMatches(c, photoContainerPattern)
	})
	var found string
	containers.Slice(0, min(containers.Length(), maxPhotoContainers)).EachWithBreak(func(_ int, c *goquery.Selection) bool {
		img := images(c).First()
		if img.Length() == 0 {
			return true
		}
		if src := widestSrcset(img.AttrOr("srcset", "")); src != "" && !s.denied(src) {
			found = resolveImage(base, src)
		}
		if found == "" {
			for _, src := range imageSources(img) {
				if !s.denied(src) {
					found = resolveImage(base, src)
					break
				}
			}
		}
		return found == ""
	})
	return found
}

func (s *PhotoSelector) bySize(sel *goquery.Selection, base *url.URL) string {
	var best string
	bestScore := 0
	images(sel).Each(func(_ int, img *goquery.Selection) {
		sources := imageSources(img)
		if len(sources) == 0 || s.denied(sources[0]) {
			return
		}
		score := sizeScore(dimension(img, "width"), dimension(img, "height"))
		if score > bestScore {
			if u := resolveImage(base, sources[0]); u != "" {
				best, bestScore = u, score
			}
		}
	})
	return best
}

// sizeScore rates how much an image of w by h pixels looks like a headshot.
func sizeScore(w, h int) int {
	if w < 200 || w > 1000 || h < 200 || h > 1000 {
		return 0
	}
	score := w + h
	if float64(min(w, h))/float64(max(w, h)) >= 0.8 {
		score += 500
	}
	if w == h && headshotSizes[w] {
		score += 1000
	}
	return score
}

func (s *PhotoSelector) byMetadata(sel *goquery.Selection, tokens []string, base *url.URL) string {
	meta := sel.Find(`meta[property="og:image"]`).First()
	content := strings.TrimSpace(meta.AttrOr("content", ""))
	if content == "" || s.denied(content) {
		return ""
	}
	lower := strings.ToLower(content)
	ok := strings.Contains(lower, "team") || strings.Contains(lower, "profile")
	for _, t := range tokens {
		if ok {
			break
		}
		ok = strings.Contains(lower, t)
	}
	if !ok {
		return ""
	}
	return resolveImage(base, content)
}

// imageSources returns the candidate URLs of an image in attribute order,
// ending with the first srcset entry.
func imageSources(img *goquery.Selection) []string {
	var sources []string
	for _, attr := range imageSourceAttrs {
		if v := strings.TrimSpace(img.AttrOr(attr, "")); v != "" && !strings.HasPrefix(v, "data:") {
			sources = append(sources, v)
		}
	}
	if entries := parseSrcset(img.AttrOr("srcset", "")); len(entries) > 0 {
		sources = append(sources, entries[0].url)
	}
	return sources
}

type srcsetEntry struct {
	url   string
	width int
}

func parseSrcset(srcset string) []srcsetEntry {
	var entries []srcsetEntry
	for _, part := range strings.Split(srcset, ",") {
		fields := strings.Fields(part)
		if len(fields) == 0 || strings.HasPrefix(fields[0], "data:") {
			continue
		}
		e := srcsetEntry{url: fields[0]}
		if len(fields) > 1 && strings.HasSuffix(fields[1], "w") {
			e.width, _ = strconv.Atoi(strings.TrimSuffix(fields[1], "w"))
		}
		entries = append(entries, e)
	}
	return entries
}

// widestSrcset returns the srcset entry with the largest width descriptor.
func widestSrcset(srcset string) string {
	var best srcsetEntry
	for _, e := range parseSrcset(srcset) {
		if best.url == "" || e.width > best.width {
			best = e
		}
	}
	return best.url
}

// dimension reads a width or height attribute such as "300" or "300px".
func dimension(img *goquery.Selection, attr string) int {
	v := strings.TrimSuffix(strings.TrimSpace(img.AttrOr(attr, "")), "px")
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func resolveImage(base *url.URL, src string) string {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(src)), "data:") {
		return ""
	}
	return resolveURL(base, src)
}
