package gemini

import (
	"context"

	"github.com/fwojciec/roster"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

// TokenizerModel is the model whose local tokenizer approximates the
// answer model's prompt size.
const TokenizerModel = "gemini-2.0-flash"

var _ roster.TokenCounter = (*TokenCounter)(nil)

// TokenCounter counts prompt tokens offline, without an API call.
type TokenCounter struct {
	tok *tokenizer.LocalTokenizer
}

// NewTokenCounter creates a TokenCounter for model. An empty model selects
// TokenizerModel.
func NewTokenCounter(model string) (*TokenCounter, error) {
	if model == "" {
		model = TokenizerModel
	}
	tok, err := tokenizer.NewLocalTokenizer(model)
	if err != nil {
		return nil, roster.Errorf(roster.EINVALID, "no local tokenizer for model %q: %v", model, err)
	}
	return &TokenCounter{tok: tok}, nil
}

// CountTokens returns the number of tokens text takes as a user turn.
func (tc *TokenCounter) CountTokens(_ context.Context, text string) (int, error) {
	if text == "" {
		return 0, nil
	}
	result, err := tc.tok.CountTokens([]*genai.Content{genai.NewContentFromText(text, "user")}, nil)
	if err != nil {
		return 0, err
	}
	return int(result.TotalTokens), nil
}
