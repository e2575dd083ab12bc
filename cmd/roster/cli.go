package main

import (
	"context"
	"io"

	"github.com/fwojciec/roster"
	"github.com/fwojciec/roster/scrape"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Profiles roster.ProfileService
	Scraper  *scrape.Scraper
	Indexer  roster.Indexer
	Asker    roster.Asker
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB      string `name:"db" env:"ROSTER_DB" help:"Path to the profile database"`
	Config  string `short:"c" env:"ROSTER_CONFIG" type:"path" help:"YAML file with scrape settings and heuristics"`
	Verbose bool   `short:"v" help:"Log every request to stderr"`

	Scrape      ScrapeCmd      `cmd:"" help:"Find a site's team page and store the people on it"`
	Links       LinksCmd       `cmd:"" help:"List the profile links found on a team page"`
	List        ListCmd        `cmd:"" help:"List stored profiles"`
	Departments DepartmentsCmd `cmd:"" help:"List the departments of stored profiles"`
	Search      SearchCmd      `cmd:"" help:"Full-text search over stored profiles"`
	Ask         AskCmd         `cmd:"" help:"Ask a question about the stored team"`
	Reindex     ReindexCmd     `cmd:"" help:"Rebuild the semantic search index"`
}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	URL     string `arg:"" help:"Organization website URL"`
	Deep    bool   `short:"d" help:"Visit each person's own page for missing details"`
	Replace bool   `short:"r" help:"Replace stored profiles instead of appending"`
	Render  bool   `help:"Render pages in headless Chrome"`
	JSON    bool   `name:"json" help:"Print the result as JSON"`
}

// LinksCmd is the "links" subcommand.
type LinksCmd struct {
	URL    string `arg:"" help:"Team page URL"`
	Render bool   `help:"Render pages in headless Chrome"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Name       string `help:"Only profiles with this name"`
	Department string `short:"D" help:"Only profiles in this department"`
	Limit      int    `short:"n" help:"Maximum number of profiles"`
	Offset     int    `help:"Number of profiles to skip"`
	JSON       bool   `name:"json" help:"Print profiles as JSON"`
}

// DepartmentsCmd is the "departments" subcommand.
type DepartmentsCmd struct{}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query string `arg:"" help:"Search terms"`
	Limit int    `short:"n" default:"10" help:"Maximum number of results"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Question string `arg:"" help:"Question about the team"`
}

// ReindexCmd is the "reindex" subcommand.
type ReindexCmd struct {
	Force bool `short:"f" help:"Embed every profile again, even unchanged ones"`
}
