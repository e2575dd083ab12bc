package mock

import (
	"context"

	"github.com/fwojciec/roster"
)

var _ roster.EmbeddingService = (*EmbeddingService)(nil)

// EmbeddingService is a mock implementation of roster.EmbeddingService.
type EmbeddingService struct {
	ReplaceEmbeddingsFn func(ctx context.Context, embeddings []*roster.Embedding) error
	FindEmbeddingsFn    func(ctx context.Context) ([]*roster.Embedding, error)
}

func (s *EmbeddingService) ReplaceEmbeddings(ctx context.Context, embeddings []*roster.Embedding) error {
	return s.ReplaceEmbeddingsFn(ctx, embeddings)
}

func (s *EmbeddingService) FindEmbeddings(ctx context.Context) ([]*roster.Embedding, error) {
	return s.FindEmbeddingsFn(ctx)
}

var _ roster.Embedder = (*Embedder)(nil)

// Embedder is a mock implementation of roster.Embedder.
type Embedder struct {
	EmbedDocumentsFn func(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQueryFn     func(ctx context.Context, text string) ([]float32, error)
}

func (e *Embedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	return e.EmbedDocumentsFn(ctx, texts)
}

func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return e.EmbedQueryFn(ctx, text)
}

var _ roster.Indexer = (*Indexer)(nil)

// Indexer is a mock implementation of roster.Indexer.
type Indexer struct {
	ReindexFn func(ctx context.Context, profiles []*roster.Profile) error
}

func (i *Indexer) Reindex(ctx context.Context, profiles []*roster.Profile) error {
	return i.ReindexFn(ctx, profiles)
}

var _ roster.Asker = (*Asker)(nil)

// Asker is a mock implementation of roster.Asker.
type Asker struct {
	AskFn func(ctx context.Context, question string) (string, error)
}

func (a *Asker) Ask(ctx context.Context, question string) (string, error) {
	return a.AskFn(ctx, question)
}

var _ roster.TokenCounter = (*TokenCounter)(nil)

// TokenCounter is a mock implementation of roster.TokenCounter.
type TokenCounter struct {
	CountTokensFn func(ctx context.Context, text string) (int, error)
}

func (c *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	return c.CountTokensFn(ctx, text)
}
