package ai

import "context"

// Completer is a synchronous text-completion capability. Output may be empty
// or malformed; callers are responsible for validating it.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Model() string
}

// Providers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)
