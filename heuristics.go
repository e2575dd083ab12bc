package roster

// Heuristics holds the keyword tables used by the HTML mining strategies.
// The zero value disables every table; use DefaultHeuristics as the base.
type Heuristics struct {
	// TeamPaths are path suffixes probed, in order, to find a team page.
	TeamPaths []string `yaml:"team_paths"`

	// TeamKeywords identify team pages in link hrefs, link text and sitemaps.
	TeamKeywords []string `yaml:"team_keywords"`

	// PhotoDenylist rejects image URLs containing any of these substrings.
	PhotoDenylist []string `yaml:"photo_denylist"`

	// Nicknames maps a lowercase given name to its short forms, which are
	// also searched for in image file names.
	Nicknames map[string][]string `yaml:"nicknames"`

	// GenericPhrases disqualify link or heading text as a person name.
	GenericPhrases []string `yaml:"generic_phrases"`

	// ServiceKeywords disqualify short (two-word) names, which are usually
	// service or product headings.
	ServiceKeywords []string `yaml:"service_keywords"`

	// NoisePhrases mark navigation and marketing text that is not a job title.
	NoisePhrases []string `yaml:"noise_phrases"`

	// RoleSkipTerms reject candidate job titles during the fallback searches.
	RoleSkipTerms []string `yaml:"role_skip_terms"`

	// PlaceholderDomains are email domains that are never real contacts.
	PlaceholderDomains []string `yaml:"placeholder_domains"`
}

// DefaultHeuristics returns the built-in keyword tables.
func DefaultHeuristics() Heuristics {
	return Heuristics{
		TeamPaths: []string{
			"/leadership-team",
			"/our-team",
			"/meet-the-team",
			"/about-us/team",
			"/about/team",
			"/about/leadership",
			"/about/people",
			"/company/team",
			"/company/leadership",
			"/team-members",
			"/team",
			"/leadership",
			"/people",
			"/our-people",
			"/executives",
			"/management",
			"/staff",
			"/employees",
			"/board",
			"/about-us",
			"/about",
		},
		TeamKeywords: []string{
			"team", "leadership", "people", "about us", "executives",
			"management", "staff", "our people", "meet the team", "board",
		},
		PhotoDenylist: []string{
			"logo", "icon", "banner", "header", "footer", "transforming",
			"containers", "ai-in", "ai-powered", "netsuite", "blog", "post",
			"e-commerce", "kubernetes", "security", "retail", "healthcare",
			"promotion", "infrastructure", "optimization", "testing",
			"bg-", "background", "certs",
		},
		Nicknames: map[string][]string{
			"balasubramanyam": {"balu", "bala"},
			"balasubramaniam": {"balu", "bala"},
			"gururaj":         {"guru"},
			"muralidhar":      {"murali"},
			"venkata":         {"venkat"},
			"srinivas":        {"srini"},
			"subrahmanyam":    {"subbu"},
			"ramakrishna":     {"rama", "krishna"},
			"venkateswara":    {"venkat", "venky"},
			"rajasekhar":      {"raja", "sekhar"},
		},
		GenericPhrases: []string{
			"read more", "learn more", "view profile", "view bio", "full bio",
			"see more", "click here", "contact", "about", "about us", "our team",
			"our people", "meet the team", "team", "leadership", "people",
			"staff", "careers", "services", "solutions", "home",
			"board of directors", "advisory board", "contact us", "get in touch",
			"join us", "who we are", "what we do", "our story", "our mission",
			"our values", "case studies", "testimonials", "privacy policy",
		},
		ServiceKeywords: []string{
			"ai", "ml", "automation", "strategy", "consulting", "services",
			"solutions", "development", "engineering", "design", "testing",
			"cloud", "data", "analytics", "software", "platform", "infrastructure",
		},
		NoisePhrases: []string{
			"keep yourself up to date", "keep yourself", "learn more",
			"read more", "click here", "home", "contact", "resources",
			"engagement models", "about us", "transforming", "containers",
			"how to", "ai-powered", "transform your", "invoice", "connector",
			"blog", "case study", "subscribe", "follow", "netsuite", "shopify",
			"digital", "cloud", "ai / ml", "erp",
		},
		RoleSkipTerms: []string{
			"consulting", "services", "digital solutions", "engagement model",
			"click", "learn more", "invoice", "connector",
			"keep yourself up to date", "subscribe", "follow us",
		},
		PlaceholderDomains: []string{"example.com", "test.com", "domain.com"},
	}
}
