package gemini

import (
	"context"

	"github.com/fwojciec/roster"
)

// Ensure Indexer implements roster.Indexer at compile time.
var _ roster.Indexer = (*Indexer)(nil)

// Indexer keeps the embedding store in line with the stored profiles.
type Indexer struct {
	Profiles   roster.ProfileService
	Embeddings roster.EmbeddingService
	Embedder   roster.Embedder

	// Model is recorded with each embedding. Defaults to EmbeddingModel.
	Model string
}

// Reindex embeds every stored profile and replaces the stored embeddings.
// An existing embedding is reused when the profile text and model are
// unchanged, except for the given profiles, which are always embedded anew.
func (ix *Indexer) Reindex(ctx context.Context, fresh []*roster.Profile) error {
	model := ix.Model
	if model == "" {
		model = EmbeddingModel
	}

	stored, err := ix.Profiles.FindProfiles(ctx, roster.ProfileFilter{})
	if err != nil {
		return err
	}
	existing, err := ix.Embeddings.FindEmbeddings(ctx)
	if err != nil {
		return err
	}

	reembed := make(map[string]bool, len(fresh))
	for _, p := range fresh {
		reembed[p.ID] = true
	}
	reusable := make(map[string]*roster.Embedding, len(existing))
	for _, e := range existing {
		if e.Model == model && !reembed[e.ProfileID] {
			reusable[e.ProfileID] = e
		}
	}

	embeddings := make([]*roster.Embedding, len(stored))
	var pending []int
	var texts []string
	for i, p := range stored {
		text := roster.ProfileText(p)
		if e, ok := reusable[p.ID]; ok && e.Text == text {
			embeddings[i] = e
			continue
		}
		embeddings[i] = &roster.Embedding{ProfileID: p.ID, Model: model, Text: text}
		pending = append(pending, i)
		texts = append(texts, text)
	}

	if len(texts) > 0 {
		vectors, err := ix.Embedder.EmbedDocuments(ctx, texts)
		if err != nil {
			return err
		}
		if len(vectors) != len(texts) {
			return roster.Errorf(roster.EINTERNAL, "embedder returned %d vectors for %d texts", len(vectors), len(texts))
		}
		for j, i := range pending {
			embeddings[i].Vector = vectors[j]
		}
	}

	return ix.Embeddings.ReplaceEmbeddings(ctx, embeddings)
}
