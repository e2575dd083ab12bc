package gemini_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/roster"
	"github.com/fwojciec/roster/gemini"
	"github.com/fwojciec/roster/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexer_Reindex(t *testing.T) {
	t.Parallel()

	stored := func(profiles ...*roster.Profile) *mock.ProfileService {
		return &mock.ProfileService{
			FindProfilesFn: func(_ context.Context, filter roster.ProfileFilter) ([]*roster.Profile, error) {
				assert.Equal(t, roster.ProfileFilter{}, filter)
				return profiles, nil
			},
		}
	}

	t.Run("embeds new profiles and reuses unchanged ones", func(t *testing.T) {
		t.Parallel()

		kept := &roster.Embedding{ProfileID: "p1", Model: gemini.EmbeddingModel, Text: roster.ProfileText(jane), Vector: []float32{1}}
		stale := &roster.Embedding{ProfileID: "p2", Model: gemini.EmbeddingModel, Text: "Name: Bob Lee", Vector: []float32{2}}
		otherModel := &roster.Embedding{ProfileID: "p3", Model: "old-model", Text: roster.ProfileText(priya), Vector: []float32{3}}

		var replaced []*roster.Embedding
		embeddings := &mock.EmbeddingService{
			FindEmbeddingsFn: func(context.Context) ([]*roster.Embedding, error) {
				return []*roster.Embedding{kept, stale, otherModel}, nil
			},
			ReplaceEmbeddingsFn: func(_ context.Context, e []*roster.Embedding) error {
				replaced = e
				return nil
			},
		}
		embedder := &mock.Embedder{
			EmbedDocumentsFn: func(_ context.Context, texts []string) ([][]float32, error) {
				assert.Equal(t, []string{roster.ProfileText(bob), roster.ProfileText(priya)}, texts)
				return [][]float32{{20}, {30}}, nil
			},
		}

		ix := &gemini.Indexer{Profiles: stored(jane, bob, priya), Embeddings: embeddings, Embedder: embedder}
		err := ix.Reindex(context.Background(), nil)

		require.NoError(t, err)
		require.Len(t, replaced, 3)
		assert.Same(t, kept, replaced[0])
		assert.Equal(t, &roster.Embedding{ProfileID: "p2", Model: gemini.EmbeddingModel, Text: roster.ProfileText(bob), Vector: []float32{20}}, replaced[1])
		assert.Equal(t, []float32{30}, replaced[2].Vector)
		assert.Equal(t, gemini.EmbeddingModel, replaced[2].Model)
	})

	t.Run("always embeds fresh profiles", func(t *testing.T) {
		t.Parallel()

		embeddings := &mock.EmbeddingService{
			FindEmbeddingsFn: func(context.Context) ([]*roster.Embedding, error) {
				return []*roster.Embedding{{ProfileID: "p1", Model: "m", Text: roster.ProfileText(jane), Vector: []float32{1}}}, nil
			},
			ReplaceEmbeddingsFn: func(_ context.Context, e []*roster.Embedding) error {
				require.Len(t, e, 1)
				assert.Equal(t, []float32{9}, e[0].Vector)
				return nil
			},
		}
		var calls int
		embedder := &mock.Embedder{
			EmbedDocumentsFn: func(context.Context, []string) ([][]float32, error) {
				calls++
				return [][]float32{{9}}, nil
			},
		}

		ix := &gemini.Indexer{Profiles: stored(jane), Embeddings: embeddings, Embedder: embedder, Model: "m"}
		err := ix.Reindex(context.Background(), []*roster.Profile{jane})

		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("clears embeddings when no profiles are stored", func(t *testing.T) {
		t.Parallel()

		var called bool
		embeddings := &mock.EmbeddingService{
			FindEmbeddingsFn: func(context.Context) ([]*roster.Embedding, error) {
				return nil, nil
			},
			ReplaceEmbeddingsFn: func(_ context.Context, e []*roster.Embedding) error {
				called = true
				assert.Empty(t, e)
				return nil
			},
		}

		ix := &gemini.Indexer{Profiles: stored(), Embeddings: embeddings, Embedder: &mock.Embedder{}}
		err := ix.Reindex(context.Background(), nil)

		require.NoError(t, err)
		assert.True(t, called)
	})

	t.Run("does not store anything when embedding fails", func(t *testing.T) {
		t.Parallel()

		embeddings := &mock.EmbeddingService{
			FindEmbeddingsFn: func(context.Context) ([]*roster.Embedding, error) {
				return nil, nil
			},
			ReplaceEmbeddingsFn: func(context.Context, []*roster.Embedding) error {
				t.Error("ReplaceEmbeddings should not be called")
				return nil
			},
		}
		embedder := &mock.Embedder{
			EmbedDocumentsFn: func(context.Context, []string) ([][]float32, error) {
				return nil, errors.New("quota exceeded")
			},
		}

		ix := &gemini.Indexer{Profiles: stored(jane), Embeddings: embeddings, Embedder: embedder}
		err := ix.Reindex(context.Background(), nil)

		assert.EqualError(t, err, "quota exceeded")
	})

	t.Run("rejects a short vector batch", func(t *testing.T) {
		t.Parallel()

		embeddings := &mock.EmbeddingService{
			FindEmbeddingsFn: func(context.Context) ([]*roster.Embedding, error) {
				return nil, nil
			},
		}
		embedder := &mock.Embedder{
			EmbedDocumentsFn: func(context.Context, []string) ([][]float32, error) {
				return [][]float32{{1}}, nil
			},
		}

		ix := &gemini.Indexer{Profiles: stored(jane, bob), Embeddings: embeddings, Embedder: embedder}
		err := ix.Reindex(context.Background(), nil)

		assert.Equal(t, roster.EINTERNAL, roster.ErrorCode(err))
	})
}
