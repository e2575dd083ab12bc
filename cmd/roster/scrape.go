package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fwojciec/roster"
	"github.com/fwojciec/roster/scrape"
)

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	var progress roster.ProgressFunc
	if !c.JSON {
		progress = progressPrinter(deps.Stderr)
	}

	result, err := deps.Scraper.Run(deps.Ctx, c.URL, scrape.RunOptions{Deep: c.Deep, Replace: c.Replace}, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", roster.ErrorMessage(err))
		if roster.ErrorCode(err) == roster.ENOPROFILES {
			fmt.Fprintln(deps.Stderr, "Hint: try --render for pages that load their team grid with JavaScript")
		}
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	s := result.Stats
	fmt.Fprintf(deps.Stdout, "Team page: %s\n", result.TeamURL)
	if s.UsedBaseURL {
		fmt.Fprintln(deps.Stdout, "  (no team page found, scraped the base URL)")
	}
	fmt.Fprintf(deps.Stdout, "Saved %d profiles (%d merged duplicates)\n", len(result.Profiles), s.MergesPerformed)
	fmt.Fprintf(deps.Stdout, "  emails %d, phones %d, photos %d, bios %d\n", s.EmailsFound, s.PhonesFound, s.PhotosFound, s.BiosFound)
	if s.DeepAttempted > 0 {
		fmt.Fprintf(deps.Stdout, "  deep scraped %d pages, %d failed\n", s.DeepAttempted, s.DeepFailed)
	}
	if s.IndexError != "" {
		fmt.Fprintf(deps.Stderr, "warning: search index not updated: %s\n", s.IndexError)
	}
	return nil
}

// progressPrinter reports scrape stages, one line per stage and one line
// per deep-scraped profile.
func progressPrinter(w io.Writer) roster.ProgressFunc {
	return func(p roster.Progress) {
		switch p.Stage {
		case roster.StageDiscoveringTeamPage:
			fmt.Fprintf(w, "Looking for team page on %s\n", scrape.TruncateURL(p.Message, 60))
		case roster.StageDiscoveringProfileLinks:
			fmt.Fprintf(w, "Reading %s\n", scrape.TruncateURL(p.Message, 60))
		case roster.StageDeepScraping:
			if p.Current == 0 {
				fmt.Fprintf(w, "Visiting %d profile pages\n", p.Total)
				return
			}
			fmt.Fprintf(w, "  [%d/%d] %s\n", p.Current, p.Total, p.Message)
		case roster.StageDeduplicating:
			fmt.Fprintf(w, "Deduplicating %d profiles\n", p.Total)
		case roster.StagePersisting:
			fmt.Fprintf(w, "Saving %d profiles\n", p.Total)
		}
	}
}

// Run executes the links command.
func (c *LinksCmd) Run(deps *Dependencies) error {
	links, err := deps.Scraper.DiscoverProfileLinks(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", roster.ErrorMessage(err))
		return err
	}
	if len(links) == 0 {
		fmt.Fprintln(deps.Stdout, "No profile links found.")
		return nil
	}
	for _, l := range links {
		fmt.Fprintf(deps.Stdout, "%s  %s  (%s)\n", l.Name, l.URL, l.Source)
	}
	return nil
}
