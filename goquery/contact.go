package goquery

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/roster"
)

var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePattern = regexp.MustCompile(`(\+?\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
)

// ExtractContact pulls an email address, phone number and social profile
// links from text and, when sel is not nil, from the anchors inside sel.
// mailto: and tel: anchors override values found in the text. Emails on
// placeholder domains are ignored.
func ExtractContact(text string, sel *goquery.Selection, placeholders []string) roster.Contact {
	var c roster.Contact

	for _, m := range emailPattern.FindAllString(text, -1) {
		if !isPlaceholderEmail(m, placeholders) {
			c.Email = m
			break
		}
	}
	if m := phonePattern.FindString(text); m != "" {
		c.Phone = strings.TrimSpace(m)
	}

	if sel == nil {
		return c
	}

	var mailto, tel string
	anchors := sel.Filter("a[href]").AddSelection(sel.Find("a[href]"))
	anchors.Each(func(_ int, a *goquery.Selection) {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		lower := strings.ToLower(href)
		switch {
		case strings.HasPrefix(lower, "mailto:"):
			if mailto == "" {
				if addr := mailtoAddress(href); addr != "" && !isPlaceholderEmail(addr, placeholders) {
					mailto = addr
				}
			}
		case strings.HasPrefix(lower, "tel:"):
			if tel == "" {
				tel = strings.TrimSpace(href[len("tel:"):])
			}
		default:
			switch socialPlatform(href) {
			case "linkedin":
				if c.LinkedIn == "" {
					c.LinkedIn = href
				}
			case "twitter":
				if c.Twitter == "" {
					c.Twitter = href
				}
			}
		}
	})

	if mailto != "" {
		c.Email = mailto
	}
	if tel != "" {
		c.Phone = tel
	}
	return c
}

// mailtoAddress returns the address of a mailto: href without its query.
func mailtoAddress(href string) string {
	addr := href[len("mailto:"):]
	if i := strings.IndexByte(addr, '?'); i >= 0 {
		addr = addr[:i]
	}
	if unescaped, err := url.PathUnescape(addr); err == nil {
		addr = unescaped
	}
	addr = strings.TrimSpace(addr)
	if !emailPattern.MatchString(addr) {
		return ""
	}
	return addr
}

func isPlaceholderEmail(email string, placeholders []string) bool {
	at := strings.LastIndexByte(email, '@')
	if at < 0 {
		return true
	}
	domain := strings.ToLower(email[at+1:])
	for _, p := range placeholders {
		p = strings.ToLower(p)
		if domain == p || strings.HasSuffix(domain, "."+p) {
			return true
		}
	}
	return false
}

// socialPlatform returns "linkedin" or "twitter" when href points at one of
// those sites, otherwise empty string.
func socialPlatform(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if u.Host == "" && !strings.Contains(href, "://") {
		if u, err = url.Parse("https://" + strings.TrimPrefix(href, "//")); err != nil {
			return ""
		}
	}
	host := trimWWW(u.Hostname())
	switch {
	case host == "linkedin.com" || strings.HasSuffix(host, ".linkedin.com"):
		return "linkedin"
	case host == "twitter.com" || host == "x.com" || strings.HasSuffix(host, ".twitter.com"):
		return "twitter"
	}
	return ""
}
