package descriptions

import (
	"context"
	"fmt"
)

// Fixed prompt pair and sampling parameters for company descriptions.
// These are configuration, not caller inputs; callers only supply the
// company name.
const (
	systemPrompt = "You are a sustainable financial analyst specialized in biodiversity loss. You never use markdowns."
	userPromptf  = "Write a detailed but concise description of the company %s. Use max 150 words"

	temperature = 0.7
	maxTokens   = 250
)

// Provider is the text-generation collaborator.
type Provider interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

func userPrompt(companyName string) string {
	return fmt.Sprintf(userPromptf, companyName)
}
