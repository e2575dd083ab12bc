package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/roster"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	filter := roster.ProfileFilter{Offset: c.Offset, Limit: c.Limit}
	if c.Name != "" {
		filter.Name = &c.Name
	}
	if c.Department != "" {
		d := roster.Department(c.Department)
		if !d.IsValid() {
			err := roster.Errorf(roster.EINVALID, "unknown department %q", c.Department)
			fmt.Fprintf(deps.Stderr, "error: %s\n", roster.ErrorMessage(err))
			return err
		}
		filter.Department = &d
	}

	profiles, err := deps.Profiles.FindProfiles(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", roster.ErrorMessage(err))
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(profiles)
	}

	if len(profiles) == 0 {
		fmt.Fprintln(deps.Stdout, "No profiles found. Use 'roster scrape <url>' to add some.")
		return nil
	}
	printProfiles(deps, profiles)
	return nil
}

// Run executes the departments command.
func (c *DepartmentsCmd) Run(deps *Dependencies) error {
	departments, err := deps.Profiles.Departments(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", roster.ErrorMessage(err))
		return err
	}
	for _, d := range departments {
		fmt.Fprintln(deps.Stdout, d)
	}
	return nil
}

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	profiles, err := deps.Profiles.SearchProfiles(deps.Ctx, c.Query, c.Limit)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", roster.ErrorMessage(err))
		return err
	}
	if len(profiles) == 0 {
		fmt.Fprintf(deps.Stdout, "No profiles match %q.\n", c.Query)
		return nil
	}
	printProfiles(deps, profiles)
	return nil
}

func printProfiles(deps *Dependencies, profiles []*roster.Profile) {
	for _, p := range profiles {
		role := p.Role
		if role == "" {
			role = "-"
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  [%s]\n", p.ID, p.Name, role, p.Department)
		if p.Email != "" {
			fmt.Fprintf(deps.Stdout, "    %s\n", p.Email)
		}
	}
}
