package driven

import "context"

// LLMService provides text generation for the mail assistant features.
// This is an optional service - when nil, summarisation and event extraction
// are disabled while calendar sync keeps working.
//
// Implementations may include:
//   - Gemini (generateContent API)
//   - Any compatible backend proxy
type LLMService interface {
	// Generate produces a text completion from a prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}
