package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/fwojciec/roster"
	main "github.com/fwojciec/roster/cmd/roster"
	"github.com/fwojciec/roster/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDeps(stdout, stderr *bytes.Buffer) *main.Dependencies {
	return &main.Dependencies{
		Ctx:    context.Background(),
		Stdout: stdout,
		Stderr: stderr,
	}
}

func TestListCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists profiles with ID, name, role and department", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := testDeps(stdout, stderr)
		deps.Profiles = &mock.ProfileService{
			FindProfilesFn: func(_ context.Context, filter roster.ProfileFilter) ([]*roster.Profile, error) {
				return []*roster.Profile{
					{ID: "p1", Name: "Jane Doe", Role: "VP Marketing", Department: roster.DepartmentMarketing, Email: "jane@acme.io"},
					{ID: "p2", Name: "Li Wei", Department: roster.DepartmentLeadership},
				}, nil
			},
		}

		err := (&main.ListCmd{}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t,
			"p1  Jane Doe  VP Marketing  [Marketing]\n    jane@acme.io\np2  Li Wei  -  [Leadership]\n",
			stdout.String())
		assert.Empty(t, stderr.String())
	})

	t.Run("passes the filter", func(t *testing.T) {
		t.Parallel()

		var got roster.ProfileFilter
		deps := testDeps(&bytes.Buffer{}, &bytes.Buffer{})
		deps.Profiles = &mock.ProfileService{
			FindProfilesFn: func(_ context.Context, filter roster.ProfileFilter) ([]*roster.Profile, error) {
				got = filter
				return nil, nil
			},
		}

		err := (&main.ListCmd{Name: "Jane Doe", Department: "Technology", Limit: 5, Offset: 10}).Run(deps)

		require.NoError(t, err)
		require.NotNil(t, got.Name)
		require.NotNil(t, got.Department)
		assert.Equal(t, "Jane Doe", *got.Name)
		assert.Equal(t, roster.DepartmentTechnology, *got.Department)
		assert.Equal(t, 5, got.Limit)
		assert.Equal(t, 10, got.Offset)
	})

	t.Run("rejects an unknown department", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := testDeps(&bytes.Buffer{}, stderr)

		err := (&main.ListCmd{Department: "Facilities"}).Run(deps)

		assert.Equal(t, roster.EINVALID, roster.ErrorCode(err))
		assert.Equal(t, "error: unknown department \"Facilities\"\n", stderr.String())
	})

	t.Run("shows helpful message when no profiles exist", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := testDeps(stdout, &bytes.Buffer{})
		deps.Profiles = &mock.ProfileService{
			FindProfilesFn: func(context.Context, roster.ProfileFilter) ([]*roster.Profile, error) {
				return nil, nil
			},
		}

		err := (&main.ListCmd{}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No profiles found")
	})

	t.Run("prints JSON", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := testDeps(stdout, &bytes.Buffer{})
		deps.Profiles = &mock.ProfileService{
			FindProfilesFn: func(context.Context, roster.ProfileFilter) ([]*roster.Profile, error) {
				return []*roster.Profile{{ID: "p1", Name: "Jane Doe"}}, nil
			},
		}

		err := (&main.ListCmd{JSON: true}).Run(deps)

		require.NoError(t, err)
		var out []map[string]any
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &out))
		require.Len(t, out, 1)
		assert.Equal(t, "Jane Doe", out[0]["name"])
	})

	t.Run("reports storage errors", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := testDeps(&bytes.Buffer{}, stderr)
		deps.Profiles = &mock.ProfileService{
			FindProfilesFn: func(context.Context, roster.ProfileFilter) ([]*roster.Profile, error) {
				return nil, roster.Errorf(roster.EINTERNAL, "database locked")
			},
		}

		err := (&main.ListCmd{}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, "error: database locked\n", stderr.String())
	})
}

func TestDepartmentsCmd_Run(t *testing.T) {
	t.Parallel()

	stdout := &bytes.Buffer{}
	deps := testDeps(stdout, &bytes.Buffer{})
	deps.Profiles = &mock.ProfileService{
		DepartmentsFn: func(context.Context) ([]roster.Department, error) {
			return []roster.Department{roster.DepartmentMarketing, roster.DepartmentTechnology}, nil
		},
	}

	err := (&main.DepartmentsCmd{}).Run(deps)

	require.NoError(t, err)
	assert.Equal(t, "Marketing\nTechnology\n", stdout.String())
}

func TestSearchCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints matches", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := testDeps(stdout, &bytes.Buffer{})
		deps.Profiles = &mock.ProfileService{
			SearchProfilesFn: func(_ context.Context, query string, limit int) ([]*roster.Profile, error) {
				assert.Equal(t, "marketing", query)
				assert.Equal(t, 3, limit)
				return []*roster.Profile{{ID: "p1", Name: "Jane Doe", Role: "VP Marketing", Department: roster.DepartmentMarketing}}, nil
			},
		}

		err := (&main.SearchCmd{Query: "marketing", Limit: 3}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "p1  Jane Doe  VP Marketing  [Marketing]\n", stdout.String())
	})

	t.Run("says when nothing matches", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := testDeps(stdout, &bytes.Buffer{})
		deps.Profiles = &mock.ProfileService{
			SearchProfilesFn: func(context.Context, string, int) ([]*roster.Profile, error) {
				return nil, nil
			},
		}

		err := (&main.SearchCmd{Query: "astronaut", Limit: 10}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "No profiles match \"astronaut\".\n", stdout.String())
	})
}
