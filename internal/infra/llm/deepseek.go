package llm

import (
	"context"
	"fmt"
	"time"

	domain "reminder_assistant_bot/internal/domain/llm"

	"github.com/go-deepseek/deepseek"
	"github.com/go-deepseek/deepseek/request"
)

const (
	providerDeepSeek = "deepseek"
	jsonOnlySystem   = "Respond with a single JSON object and nothing else."
)

// chatCompleter sends one chat request and returns the content of each choice.
type chatCompleter func(ctx context.Context, req *request.ChatCompletionsRequest) ([]string, error)

// DeepSeekProvider implements domain.Provider for the DeepSeek API.
type DeepSeekProvider struct {
	complete chatCompleter
	model    string
	timeout  time.Duration
}

func NewDeepSeekProvider(apiKey, model string, timeout time.Duration) (*DeepSeekProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("DeepSeek API key is required")
	}

	client, err := deepseek.NewClient(apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create DeepSeek client: %w", err)
	}

	return newDeepSeekProvider(sdkCompleter(client), model, timeout), nil
}

func newDeepSeekProvider(complete chatCompleter, model string, timeout time.Duration) *DeepSeekProvider {
	return &DeepSeekProvider{complete: complete, model: model, timeout: timeout}
}

func sdkCompleter(client deepseek.Client) chatCompleter {
	return func(ctx context.Context, req *request.ChatCompletionsRequest) ([]string, error) {
		resp, err := client.CallChatCompletionsChat(ctx, req)
		if err != nil {
			return nil, err
		}
		if resp == nil {
			return nil, nil
		}
		contents := make([]string, 0, len(resp.Choices))
		for _, choice := range resp.Choices {
			contents = append(contents, choice.Message.Content)
		}
		return contents, nil
	}
}

func (p *DeepSeekProvider) Name() string { return providerDeepSeek }

func (p *DeepSeekProvider) Complete(ctx context.Context, prompt string, opts domain.CompletionOptions) (string, error) {
	ctx, cancel := withTimeout(ctx, p.timeout)
	defer cancel()

	messages := make([]*request.Message, 0, 2)
	if opts.StructuredOutput {
		messages = append(messages, &request.Message{Role: "system", Content: jsonOnlySystem})
	}
	messages = append(messages, &request.Message{Role: "user", Content: prompt})

	contents, err := p.complete(ctx, &request.ChatCompletionsRequest{
		Model:    p.model,
		Messages: messages,
		Stream:   false,
	})
	if err != nil {
		return "", &domain.ProviderError{Provider: providerDeepSeek, Err: err}
	}
	if len(contents) == 0 {
		return "", fmt.Errorf("%w: no completion returned", domain.ErrMalformedOutput)
	}
	return contents[0], nil
}

// withTimeout bounds ctx by d unless ctx already has an earlier deadline.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < d {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
