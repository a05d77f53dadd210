package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	domain "reminder_assistant_bot/internal/domain/llm"
)

const (
	providerOpenRouter    = "openrouter"
	maxOpenRouterResponse = 1 << 20
)

// OpenRouterConfig configures the OpenRouter chat completions client.
type OpenRouterConfig struct {
	APIKey   string
	BaseURL  string
	Model    string
	Timeout  time.Duration
	SiteName string // Sent as X-Title
}

type openRouterMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openRouterResponseFormat struct {
	Type string `json:"type"`
}

type openRouterRequest struct {
	Model          string                    `json:"model"`
	Messages       []openRouterMessage       `json:"messages"`
	ResponseFormat *openRouterResponseFormat `json:"response_format,omitempty"`
}

type openRouterResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// OpenRouterProvider talks to any OpenAI-compatible /chat/completions endpoint.
type OpenRouterProvider struct {
	cfg        OpenRouterConfig
	httpClient *http.Client
}

func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenRouter API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://openrouter.ai/api/v1"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &OpenRouterProvider{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

func (p *OpenRouterProvider) Name() string { return providerOpenRouter }

// Complete issues exactly one request; there is no retry.
func (p *OpenRouterProvider) Complete(ctx context.Context, prompt string, opts domain.CompletionOptions) (string, error) {
	reqBody := openRouterRequest{
		Model:    p.cfg.Model,
		Messages: []openRouterMessage{{Role: "user", Content: prompt}},
	}
	if opts.StructuredOutput {
		reqBody.ResponseFormat = &openRouterResponseFormat{Type: "json_object"}
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", p.fail(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
	if p.cfg.SiteName != "" {
		req.Header.Set("X-Title", p.cfg.SiteName)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", p.fail(fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxOpenRouterResponse))
	if err != nil {
		return "", p.fail(fmt.Errorf("failed to read response: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		return "", p.fail(fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	var orResp openRouterResponse
	if err := json.Unmarshal(body, &orResp); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrMalformedOutput, err)
	}
	if orResp.Error != nil {
		return "", p.fail(fmt.Errorf("API error: %s", orResp.Error.Message))
	}
	if len(orResp.Choices) == 0 {
		return "", fmt.Errorf("%w: no completion returned", domain.ErrMalformedOutput)
	}
	return orResp.Choices[0].Message.Content, nil
}

func (p *OpenRouterProvider) fail(err error) error {
	return &domain.ProviderError{Provider: providerOpenRouter, Err: err}
}
