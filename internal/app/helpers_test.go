package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"reminder_assistant_bot/internal/domain/llm"
	"reminder_assistant_bot/internal/domain/telegram"
	"reminder_assistant_bot/internal/infra/memory"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

var testNow = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

type fakeProvider struct {
	mu       sync.Mutex
	out      string
	err      error
	panicMsg string
	calls    int
	prompts  []string
	opts     []llm.CompletionOptions
}

func (p *fakeProvider) Complete(_ context.Context, prompt string, opts llm.CompletionOptions) (string, error) {
	p.mu.Lock()
	p.calls++
	p.prompts = append(p.prompts, prompt)
	p.opts = append(p.opts, opts)
	p.mu.Unlock()

	if p.panicMsg != "" {
		panic(p.panicMsg)
	}
	return p.out, p.err
}

func (p *fakeProvider) Name() string { return "fake" }

func failingProvider() *fakeProvider {
	return &fakeProvider{err: &llm.ProviderError{Provider: "fake", Err: context.DeadlineExceeded}}
}

type sentMessage struct {
	chatID  int64
	text    string
	buttons []telegram.Button
}

type fakeClient struct {
	mu   sync.Mutex
	err  error
	sent []sentMessage
}

func (c *fakeClient) SendMessage(chatID int64, text string, buttons []telegram.Button) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, sentMessage{chatID: chatID, text: text, buttons: buttons})
	return nil
}

type testEnv struct {
	store      *memory.Store
	perf       *PerformanceAggregator
	tone       *ToneEngine
	lifecycle  *Lifecycle
	dispatcher *Dispatcher
	hook       *test.Hook
}

// newTestEnv wires the application on the memory store with a fixed clock.
// A nil provider disables generation.
func newTestEnv(t *testing.T, provider llm.Provider) *testEnv {
	t.Helper()

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	entry := logrus.NewEntry(logger)

	store := memory.NewStore()
	store.SetClock(func() time.Time { return testNow })

	perf := NewPerformanceAggregator(store)
	tone := NewToneEngine(provider, entry)
	lc := NewLifecycle(store, store, perf, 20*time.Minute, entry)
	lc.now = func() time.Time { return testNow }

	return &testEnv{
		store:      store,
		perf:       perf,
		tone:       tone,
		lifecycle:  lc,
		dispatcher: NewDispatcher(lc, store, perf, tone, time.Hour, entry),
		hook:       hook,
	}
}
