package llm

import (
	"context"
	"fmt"
	"time"

	domain "reminder_assistant_bot/internal/domain/llm"

	"google.golang.org/genai"
)

const providerGemini = "gemini"

// contentGenerator is the part of genai.Models the provider uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiProvider generates text with Google's Gemini API.
type GeminiProvider struct {
	models  contentGenerator
	model   string
	timeout time.Duration
}

func NewGeminiProvider(ctx context.Context, apiKey, model string, timeout time.Duration) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiProvider{models: client.Models, model: model, timeout: timeout}, nil
}

func (p *GeminiProvider) Name() string { return providerGemini }

func (p *GeminiProvider) Complete(ctx context.Context, prompt string, opts domain.CompletionOptions) (string, error) {
	ctx, cancel := withTimeout(ctx, p.timeout)
	defer cancel()

	var genCfg *genai.GenerateContentConfig
	if opts.StructuredOutput {
		genCfg = &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}
	}

	resp, err := p.models.GenerateContent(ctx, p.model, genai.Text(prompt), genCfg)
	if err != nil {
		return "", &domain.ProviderError{Provider: providerGemini, Err: err}
	}
	if resp == nil {
		return "", fmt.Errorf("%w: no response", domain.ErrMalformedOutput)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%w: empty candidate", domain.ErrMalformedOutput)
	}
	return text, nil
}
