package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/roster"
	"github.com/fwojciec/roster/mock"
	rosterslog "github.com/fwojciec/roster/slog"
	"github.com/stretchr/testify/assert"
)

func TestLoggingIndexer_Reindex(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	inner := &mock.Indexer{
		ReindexFn: func(ctx context.Context, profiles []*roster.Profile) error {
			return errors.New("quota exceeded")
		},
	}

	ix := rosterslog.NewLoggingIndexer(inner, slog.New(slog.NewTextHandler(&buf, nil)))
	err := ix.Reindex(context.Background(), []*roster.Profile{{Name: "Jane Doe"}, {Name: "Bob Lee"}})

	assert.EqualError(t, err, "quota exceeded")
	output := buf.String()
	assert.Contains(t, output, "msg=reindex")
	assert.Contains(t, output, "fresh=2")
	assert.Contains(t, output, "err=\"quota exceeded\"")
}
