// internal/triage/budget.go
package triage

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// budget bounds the transcript portion of a classification request so an
// arbitrarily long call cannot blow past the model's context window.
type budget struct {
	tokenizer *tiktoken.Tiktoken
	maxTokens int
}

// newBudget creates a budget using the tokenizer for the given model,
// falling back to cl100k_base for unknown models.
func newBudget(model string, maxTokens int) (*budget, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, fmt.Errorf("get tokenizer: %w", err)
		}
	}
	return &budget{tokenizer: enc, maxTokens: maxTokens}, nil
}

// truncate returns the text cut down to the token budget. Text within budget
// is returned unchanged.
func (b *budget) truncate(text string) string {
	tokens := b.tokenizer.Encode(text, nil, nil)
	if len(tokens) <= b.maxTokens {
		return text
	}
	return b.tokenizer.Decode(tokens[:b.maxTokens])
}
