package sqlite_test

import (
	"context"
	"testing"

	"github.com/fwojciec/roster"
	"github.com/fwojciec/roster/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddingService(t *testing.T) {
	t.Parallel()

	t.Run("stores and reads vectors in profile order", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		profiles := sqlite.NewProfileService(db)
		svc := sqlite.NewEmbeddingService(db)
		ctx := context.Background()

		a := named("Jane Doe", "CEO", roster.DepartmentExecutive)
		b := named("John Smith", "CTO", roster.DepartmentTechnology)
		require.NoError(t, profiles.AppendProfiles(ctx, []*roster.Profile{a, b}))

		in := []*roster.Embedding{
			{ProfileID: b.ID, Model: "gemini-embedding-001", Vector: []float32{-1.5, 0, 3.25}, Text: "Name: John Smith"},
			{ProfileID: a.ID, Model: "gemini-embedding-001", Vector: []float32{0.1, 0.2, 0.3}, Text: "Name: Jane Doe"},
		}
		require.NoError(t, svc.ReplaceEmbeddings(ctx, in))

		got, err := svc.FindEmbeddings(ctx)

		require.NoError(t, err)
		assert.Equal(t, []*roster.Embedding{in[1], in[0]}, got)
	})

	t.Run("replace drops previous embeddings", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		profiles := sqlite.NewProfileService(db)
		svc := sqlite.NewEmbeddingService(db)
		ctx := context.Background()

		a := named("Jane Doe", "CEO", roster.DepartmentExecutive)
		require.NoError(t, profiles.AppendProfiles(ctx, []*roster.Profile{a}))
		require.NoError(t, svc.ReplaceEmbeddings(ctx, []*roster.Embedding{{ProfileID: a.ID, Vector: []float32{1}}}))
		require.NoError(t, svc.ReplaceEmbeddings(ctx, nil))

		got, err := svc.FindEmbeddings(ctx)

		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("embeddings go with their profiles", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		profiles := sqlite.NewProfileService(db)
		svc := sqlite.NewEmbeddingService(db)
		ctx := context.Background()

		a := named("Jane Doe", "CEO", roster.DepartmentExecutive)
		require.NoError(t, profiles.AppendProfiles(ctx, []*roster.Profile{a}))
		require.NoError(t, svc.ReplaceEmbeddings(ctx, []*roster.Embedding{{ProfileID: a.ID, Vector: []float32{1}}}))
		require.NoError(t, profiles.ReplaceProfiles(ctx, []*roster.Profile{named("John Smith", "CTO", roster.DepartmentTechnology)}))

		got, err := svc.FindEmbeddings(ctx)

		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("rejects embeddings for unknown profiles", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewEmbeddingService(db)

		err := svc.ReplaceEmbeddings(context.Background(), []*roster.Embedding{{ProfileID: "missing", Vector: []float32{1}}})

		require.Error(t, err)
	})

	t.Run("rejects embeddings without a vector", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewEmbeddingService(db)

		err := svc.ReplaceEmbeddings(context.Background(), []*roster.Embedding{{ProfileID: "p1"}})

		assert.Equal(t, roster.EINVALID, roster.ErrorCode(err))
	})
}
