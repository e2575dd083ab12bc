package main

import (
	"fmt"

	"github.com/fwojciec/roster"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	answer, err := deps.Asker.Ask(deps.Ctx, c.Question)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", roster.ErrorMessage(err))
		if roster.ErrorCode(err) == roster.ENOTFOUND {
			fmt.Fprintln(deps.Stderr, "Hint: run 'roster scrape <url>' first")
		}
		return err
	}

	fmt.Fprintln(deps.Stdout, answer)
	return nil
}

// Run executes the reindex command.
func (c *ReindexCmd) Run(deps *Dependencies) error {
	var fresh []*roster.Profile
	if c.Force {
		all, err := deps.Profiles.FindProfiles(deps.Ctx, roster.ProfileFilter{})
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", roster.ErrorMessage(err))
			return err
		}
		fresh = all
	}
	if err := deps.Indexer.Reindex(deps.Ctx, fresh); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", roster.ErrorMessage(err))
		return err
	}
	fmt.Fprintln(deps.Stdout, "Search index rebuilt.")
	return nil
}
