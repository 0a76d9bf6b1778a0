package driving

import (
	"context"

	"github.com/custodia-labs/calbridge/internal/core/domain"
)

// AssistantService turns raw mail content into a summary plus candidate
// calendar events, ready to be submitted as sync requests.
type AssistantService interface {
	// Summarise cleans the raw mail body, prompts the text-generation
	// service, and splits the response into a summary and extracted events.
	// Returns domain.ErrLLMUnavailable when no LLM is configured.
	Summarise(ctx context.Context, rawBody string) (*domain.MailSummary, error)
}
