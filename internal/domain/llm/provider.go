// internal/domain/llm/provider.go
package llm

import (
	"context"
	"errors"
	"fmt"
)

// ErrMalformedOutput marks a successful call whose content cannot be used.
var ErrMalformedOutput = errors.New("provider returned malformed output")

// CompletionOptions tune a single completion request.
type CompletionOptions struct {
	// StructuredOutput asks the provider for a JSON object. The caller still validates it.
	StructuredOutput bool
}

// Provider is a generative text backend.
type Provider interface {
	Complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error)
	// Name returns the provider name (e.g., "openrouter", "gemini").
	Name() string
}

// ProviderError wraps network, auth and timeout failures of a provider call.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s provider error: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
