package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/roster"
	"google.golang.org/genai"
)

// AnswerModel is the model that writes answers.
const AnswerModel = "gemini-2.5-flash"

// DefaultTopK is the number of profiles given to the model as context.
const DefaultTopK = 5

// Ensure Asker implements roster.Asker at compile time.
var _ roster.Asker = (*Asker)(nil)

// Asker implements roster.Asker using Google Gemini. It retrieves the
// profiles closest to the question by embedding similarity, falling back to
// full-text search when no embeddings are stored, and asks the model to
// answer from them.
type Asker struct {
	client     *genai.Client
	profiles   roster.ProfileService
	embeddings roster.EmbeddingService
	embedder   roster.Embedder

	topK      int
	counter   roster.TokenCounter
	maxTokens int
}

// AskerOption configures an Asker.
type AskerOption func(*Asker)

// WithTopK sets how many profiles are used as context.
// Defaults to DefaultTopK.
func WithTopK(k int) AskerOption {
	return func(a *Asker) {
		if k > 0 {
			a.topK = k
		}
	}
}

// WithTokenBudget drops the least relevant profiles until the prompt fits
// in maxTokens as counted by counter. At least one profile is always kept.
func WithTokenBudget(counter roster.TokenCounter, maxTokens int) AskerOption {
	return func(a *Asker) {
		a.counter = counter
		a.maxTokens = maxTokens
	}
}

// NewAsker creates a new Asker.
func NewAsker(client *genai.Client, profiles roster.ProfileService, embeddings roster.EmbeddingService, embedder roster.Embedder, opts ...AskerOption) *Asker {
	a := &Asker{
		client:     client,
		profiles:   profiles,
		embeddings: embeddings,
		embedder:   embedder,
		topK:       DefaultTopK,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Ask answers a natural language question about the stored profiles.
func (a *Asker) Ask(ctx context.Context, question string) (string, error) {
	profiles, err := a.Retrieve(ctx, question)
	if err != nil {
		return "", err
	}
	prompt, err := a.fit(ctx, profiles, question)
	if err != nil {
		return "", err
	}
	if a.client == nil {
		return "", roster.Errorf(roster.EINTERNAL, "gemini client not configured")
	}

	result, err := a.client.Models.GenerateContent(ctx, AnswerModel,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		BuildConfig(),
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", roster.Errorf(roster.EINTERNAL, "gemini returned nil result")
	}
	return result.Text(), nil
}

// Retrieve returns the profiles most relevant to question, best first.
// Returns ENOTFOUND when no profiles are stored.
func (a *Asker) Retrieve(ctx context.Context, question string) ([]*roster.Profile, error) {
	if strings.TrimSpace(question) == "" {
		return nil, roster.Errorf(roster.EINVALID, "question required")
	}

	embeddings, err := a.embeddings.FindEmbeddings(ctx)
	if err != nil {
		return nil, err
	}
	if len(embeddings) > 0 {
		return a.bySimilarity(ctx, question, embeddings)
	}

	profiles, err := a.profiles.SearchProfiles(ctx, question, a.topK)
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		profiles, err = a.profiles.FindProfiles(ctx, roster.ProfileFilter{Limit: a.topK})
		if err != nil {
			return nil, err
		}
	}
	if len(profiles) == 0 {
		return nil, roster.Errorf(roster.ENOTFOUND, "no profiles stored; run a scrape first")
	}
	return profiles, nil
}

func (a *Asker) bySimilarity(ctx context.Context, question string, embeddings []*roster.Embedding) ([]*roster.Profile, error) {
	query, err := a.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, err
	}

	var profiles []*roster.Profile
	for _, scored := range roster.RankBySimilarity(query, embeddings, a.topK) {
		p, err := a.profiles.FindProfileByID(ctx, scored.Embedding.ProfileID)
		if roster.ErrorCode(err) == roster.ENOTFOUND {
			continue
		}
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	if len(profiles) == 0 {
		return nil, roster.Errorf(roster.ENOTFOUND, "no profiles stored; run a scrape first")
	}
	return profiles, nil
}

// fit builds the prompt, dropping trailing profiles while it is over the
// token budget.
func (a *Asker) fit(ctx context.Context, profiles []*roster.Profile, question string) (string, error) {
	prompt := BuildUserPrompt(profiles, question)
	if a.counter == nil || a.maxTokens <= 0 {
		return prompt, nil
	}
	for len(profiles) > 1 {
		n, err := a.counter.CountTokens(ctx, prompt)
		if err != nil {
			return "", err
		}
		if n <= a.maxTokens {
			break
		}
		profiles = profiles[:len(profiles)-1]
		prompt = BuildUserPrompt(profiles, question)
	}
	return prompt, nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.2)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You answer questions about an organization's team using only the profiles provided. Name the people your answer relies on. If the profiles do not contain the answer, say so.",
			}},
		},
		Temperature: &temp,
	}
}

// BuildUserPrompt builds the user prompt containing the profiles and the
// question.
func BuildUserPrompt(profiles []*roster.Profile, question string) string {
	var sb strings.Builder
	sb.WriteString("<profiles>\n")
	for i, p := range profiles {
		sb.WriteString("<profile>\n")
		fmt.Fprintf(&sb, "<index>%d</index>\n", i+1)
		fmt.Fprintf(&sb, "<details>%s</details>\n", roster.ProfileText(p))
		if p.ProfileURL != "" {
			fmt.Fprintf(&sb, "<source>%s</source>\n", p.ProfileURL)
		}
		sb.WriteString("</profile>\n")
	}
	sb.WriteString("</profiles>\n\n")
	fmt.Fprintf(&sb, "Question: %s", question)
	return sb.String()
}
