package gemini

import (
	"context"

	"github.com/fwojciec/roster"
	"google.golang.org/genai"
)

// EmbeddingModel is the model used for profile and query embeddings.
const EmbeddingModel = "gemini-embedding-001"

// maxEmbedBatch is the most texts sent in one EmbedContent call.
const maxEmbedBatch = 100

// Ensure Embedder implements roster.Embedder at compile time.
var _ roster.Embedder = (*Embedder)(nil)

// Embedder implements roster.Embedder using the Gemini embedding API.
// Documents and queries use the matching retrieval task types.
type Embedder struct {
	client *genai.Client
	model  string
}

// NewEmbedder creates a new Embedder. An empty model selects EmbeddingModel.
func NewEmbedder(client *genai.Client, model string) *Embedder {
	if model == "" {
		model = EmbeddingModel
	}
	return &Embedder{client: client, model: model}
}

// Model returns the embedding model name.
func (e *Embedder) Model() string {
	return e.model
}

// EmbedDocuments returns one vector per text, in order. Texts are sent in
// batches.
func (e *Embedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += maxEmbedBatch {
		batch := texts[start:min(start+maxEmbedBatch, len(texts))]
		out, err := e.embed(ctx, batch, "RETRIEVAL_DOCUMENT")
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, out...)
	}
	return vectors, nil
}

// EmbedQuery returns the vector for a search query.
func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, roster.Errorf(roster.EINVALID, "query text required")
	}
	out, err := e.embed(ctx, []string{text}, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func (e *Embedder) embed(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	if e.client == nil {
		return nil, roster.Errorf(roster.EINTERNAL, "gemini client not configured")
	}
	contents := make([]*genai.Content, len(texts))
	for i, t := range texts {
		contents[i] = genai.NewContentFromText(t, "user")
	}

	resp, err := e.client.Models.EmbedContent(ctx, e.model, contents, &genai.EmbedContentConfig{TaskType: taskType})
	if err != nil {
		return nil, err
	}
	if resp == nil || len(resp.Embeddings) != len(texts) {
		return nil, roster.Errorf(roster.EINTERNAL, "gemini returned %d embeddings for %d texts", embeddingCount(resp), len(texts))
	}

	vectors := make([][]float32, len(texts))
	for i, emb := range resp.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, roster.Errorf(roster.EINTERNAL, "gemini returned an empty embedding")
		}
		vectors[i] = emb.Values
	}
	return vectors, nil
}

func embeddingCount(resp *genai.EmbedContentResponse) int {
	if resp == nil {
		return 0
	}
	return len(resp.Embeddings)
}
