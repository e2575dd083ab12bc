package roster

import (
	"context"
	"math"
	"sort"
)

// Embedding is the vector representation of one stored profile.
type Embedding struct {
	ProfileID string
	Model     string
	Vector    []float32

	// Text is the input that produced the vector, see ProfileText.
	Text string
}

// EmbeddingService stores profile embeddings.
type EmbeddingService interface {
	// ReplaceEmbeddings removes all stored embeddings and stores the given ones.
	ReplaceEmbeddings(ctx context.Context, embeddings []*Embedding) error

	// FindEmbeddings returns all stored embeddings.
	FindEmbeddings(ctx context.Context) ([]*Embedding, error)
}

// Embedder converts text to vectors.
type Embedder interface {
	// EmbedDocuments returns one vector per text, in order.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery returns the vector for a search query.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Indexer rebuilds the semantic search index after profiles are stored.
type Indexer interface {
	Reindex(ctx context.Context, profiles []*Profile) error
}

// Asker answers natural language questions about stored profiles.
type Asker interface {
	// Ask answers a question using the most relevant stored profiles.
	// Returns ENOTFOUND if no profiles are stored.
	Ask(ctx context.Context, question string) (string, error)
}

// ScoredEmbedding pairs an embedding with its similarity to a query.
type ScoredEmbedding struct {
	Embedding *Embedding
	Score     float64
}

// CosineSimilarity returns the cosine of the angle between a and b.
// Vectors of different length or zero magnitude score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// RankBySimilarity scores embeddings against the query vector and returns
// the best k, highest score first. Equal scores keep their input order.
func RankBySimilarity(query []float32, embeddings []*Embedding, k int) []ScoredEmbedding {
	scored := make([]ScoredEmbedding, 0, len(embeddings))
	for _, e := range embeddings {
		scored = append(scored, ScoredEmbedding{Embedding: e, Score: CosineSimilarity(query, e.Vector)})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if k > 0 && len(scored) > k {
		scored = scored[:k]
	}
	return scored
}

// TokenCounter counts tokens in text for a specific model.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}
