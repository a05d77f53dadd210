// internal/app/tone_engine.go
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"reminder_assistant_bot/internal/domain/llm"

	"github.com/sirupsen/logrus"
)

// Deterministic messages used whenever generation is unavailable.
const (
	ToneEnergetic = "¡Estás en racha! 🚀 Sigue así."
	ToneNeutral   = "Es hora de tu actividad programada. ⏰"
	DefaultAdvice = "¡Tú puedes con esto! ⚡"

	energeticStreakThreshold = 5
)

var errProviderDisabled = errors.New("no generative provider configured")

// Urgency grades how pressing a reminder is.
type Urgency string

const (
	UrgencyNormal Urgency = "normal"
	UrgencyHigh   Urgency = "high"
)

// ContextAdvice is the structured result of EvaluateContext.
type ContextAdvice struct {
	Advice  string  `json:"advice"`
	Urgency Urgency `json:"urgency"`
}

// DefaultContextAdvice is returned when the provider cannot produce usable advice.
func DefaultContextAdvice() ContextAdvice {
	return ContextAdvice{Advice: DefaultAdvice, Urgency: UrgencyNormal}
}

// FallbackTone is the rule-based tone for a streak.
func FallbackTone(streakCount int) string {
	if streakCount >= energeticStreakThreshold {
		return ToneEnergetic
	}
	return ToneNeutral
}

// ToneEngine turns a performance snapshot into a short motivational message.
// Its methods never fail: every provider problem degrades to a canned result.
type ToneEngine struct {
	provider llm.Provider // nil disables generation
	logger   *logrus.Entry
}

func NewToneEngine(provider llm.Provider, logger *logrus.Entry) *ToneEngine {
	return &ToneEngine{provider: provider, logger: logger}
}

// ComputeTone asks the provider once for a message of at most ~150 characters.
func (e *ToneEngine) ComputeTone(ctx context.Context, streakCount, failureCount int, reminderText string) string {
	prompt := fmt.Sprintf(`Eres Tonalli AI, un asistente de bienestar.
Usuario: En racha de %d días, ha fallado %d veces recientemente.
Actividad: %s
Genera un mensaje corto (máximo 150 caracteres) motivador o empático según el estado.
Si la racha es alta, sé muy animado. Si ha fallado, sé comprensivo pero impulsador.
Responde SOLO con el mensaje, sin comillas ni explicaciones.`, streakCount, failureCount, reminderText)

	out, err := e.complete(ctx, prompt, llm.CompletionOptions{})
	if err == nil {
		out = cleanTone(out)
		if out == "" {
			err = fmt.Errorf("%w: empty tone", llm.ErrMalformedOutput)
		}
	}
	if err != nil {
		e.recordFallback("compute_tone", err)
		return FallbackTone(streakCount)
	}
	return out
}

// EvaluateContext asks the provider for {"advice", "urgency"} as strict JSON.
// Call failures and unparseable output both yield DefaultContextAdvice.
func (e *ToneEngine) EvaluateContext(ctx context.Context, userContext map[string]any) ContextAdvice {
	encoded, err := json.Marshal(userContext)
	if err != nil {
		e.recordFallback("evaluate_context", fmt.Errorf("encode context: %w", err))
		return DefaultContextAdvice()
	}

	prompt := fmt.Sprintf(`Analiza este contexto de usuario: %s
Genera un consejo breve y determina la urgencia (high o normal).
Responde estrictamente en formato JSON: {"advice": "mensaje", "urgency": "high/normal"}`, encoded)

	out, err := e.complete(ctx, prompt, llm.CompletionOptions{StructuredOutput: true})
	if err != nil {
		e.recordFallback("evaluate_context", err)
		return DefaultContextAdvice()
	}

	advice, err := parseContextAdvice(out)
	if err != nil {
		e.recordFallback("evaluate_context", err)
		return DefaultContextAdvice()
	}
	return advice
}

// complete performs the single provider call, converting a panic into an error.
func (e *ToneEngine) complete(ctx context.Context, prompt string, opts llm.CompletionOptions) (out string, err error) {
	if e.provider == nil {
		return "", errProviderDisabled
	}
	defer func() {
		if r := recover(); r != nil {
			err = &llm.ProviderError{Provider: e.provider.Name(), Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	return e.provider.Complete(ctx, prompt, opts)
}

func (e *ToneEngine) recordFallback(op string, err error) {
	entry := e.logger.WithField("op", op).WithError(err)
	if errors.Is(err, errProviderDisabled) {
		entry.Debug("Generation disabled, using fallback")
		return
	}
	if e.provider != nil {
		entry = entry.WithField("provider", e.provider.Name())
	}
	entry.Warn("Generative provider failed, using fallback")
}

func cleanTone(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "\"'“”")
	return strings.TrimSpace(s)
}

func parseContextAdvice(raw string) (ContextAdvice, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var payload struct {
		Advice  string `json:"advice"`
		Urgency string `json:"urgency"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &payload); err != nil {
		return ContextAdvice{}, fmt.Errorf("%w: %v", llm.ErrMalformedOutput, err)
	}

	advice := strings.TrimSpace(payload.Advice)
	if advice == "" {
		return ContextAdvice{}, fmt.Errorf("%w: missing advice", llm.ErrMalformedOutput)
	}

	var urgency Urgency
	switch strings.ToLower(strings.TrimSpace(payload.Urgency)) {
	case "high", "alta":
		urgency = UrgencyHigh
	case "normal":
		urgency = UrgencyNormal
	default:
		return ContextAdvice{}, fmt.Errorf("%w: urgency %q", llm.ErrMalformedOutput, payload.Urgency)
	}
	return ContextAdvice{Advice: advice, Urgency: urgency}, nil
}
