package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/fwojciec/roster"
	main "github.com/fwojciec/roster/cmd/roster"
	"github.com/fwojciec/roster/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAskCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("asks question and prints answer", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := testDeps(stdout, &bytes.Buffer{})
		deps.Asker = &mock.Asker{
			AskFn: func(_ context.Context, question string) (string, error) {
				assert.Equal(t, "Who runs marketing?", question)
				return "Jane Doe is the VP Marketing.", nil
			},
		}

		err := (&main.AskCmd{Question: "Who runs marketing?"}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "Jane Doe is the VP Marketing.\n", stdout.String())
	})

	t.Run("hints at scraping when nothing is stored", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := testDeps(&bytes.Buffer{}, stderr)
		deps.Asker = &mock.Asker{
			AskFn: func(context.Context, string) (string, error) {
				return "", roster.Errorf(roster.ENOTFOUND, "no profiles stored; run a scrape first")
			},
		}

		err := (&main.AskCmd{Question: "Who?"}).Run(deps)

		assert.Equal(t, roster.ENOTFOUND, roster.ErrorCode(err))
		assert.Contains(t, stderr.String(), "error: no profiles stored")
		assert.Contains(t, stderr.String(), "roster scrape <url>")
	})
}

func TestReindexCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("reuses unchanged embeddings by default", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := testDeps(stdout, &bytes.Buffer{})
		deps.Indexer = &mock.Indexer{
			ReindexFn: func(_ context.Context, profiles []*roster.Profile) error {
				assert.Empty(t, profiles)
				return nil
			},
		}

		err := (&main.ReindexCmd{}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "Search index rebuilt.\n", stdout.String())
	})

	t.Run("force embeds every profile", func(t *testing.T) {
		t.Parallel()

		all := []*roster.Profile{{ID: "p1", Name: "Jane Doe"}, {ID: "p2", Name: "Li Wei"}}
		deps := testDeps(&bytes.Buffer{}, &bytes.Buffer{})
		deps.Profiles = &mock.ProfileService{
			FindProfilesFn: func(context.Context, roster.ProfileFilter) ([]*roster.Profile, error) {
				return all, nil
			},
		}
		deps.Indexer = &mock.Indexer{
			ReindexFn: func(_ context.Context, profiles []*roster.Profile) error {
				assert.Equal(t, all, profiles)
				return nil
			},
		}

		err := (&main.ReindexCmd{Force: true}).Run(deps)

		require.NoError(t, err)
	})

	t.Run("reports indexer errors", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := testDeps(&bytes.Buffer{}, stderr)
		deps.Indexer = &mock.Indexer{
			ReindexFn: func(context.Context, []*roster.Profile) error {
				return roster.Errorf(roster.EINTERNAL, "embedding quota exceeded")
			},
		}

		err := (&main.ReindexCmd{}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, "error: embedding quota exceeded\n", stderr.String())
	})
}
