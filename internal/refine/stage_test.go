package refine

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profileforge/internal/llm"
	"profileforge/internal/logging"
)

type scriptedClient struct {
	mu      sync.Mutex
	calls   int
	prompts []string
	fn      func(call int, prompt string) (string, error)
}

func (c *scriptedClient) Generate(ctx context.Context, model llm.ModelConfig, parts []llm.Part) (string, error) {
	prompt := ""
	if len(parts) > 0 {
		prompt = parts[len(parts)-1].Text
	}
	c.mu.Lock()
	c.calls++
	n := c.calls
	c.prompts = append(c.prompts, prompt)
	c.mu.Unlock()
	return c.fn(n, prompt)
}

func newStageInvoker(t *testing.T, client llm.Client) *llm.Invoker {
	t.Helper()
	cache := llm.NewCache(filepath.Join(t.TempDir(), "cache.json"), logging.NewNop())
	return llm.NewInvoker(client, cache, logging.NewNop(),
		llm.WithThrottleDelay(0),
		llm.WithSleepFunc(func(ctx context.Context, d time.Duration) error { return nil }),
	)
}

func TestFactStageThreadsCritiqueIntoRevision(t *testing.T) {
	client := &scriptedClient{fn: func(call int, prompt string) (string, error) {
		if call == 1 {
			return "CRITIQUE: revenue figure unsupported", nil
		}
		return "<p>revised content</p>", nil
	}}
	stage := NewFactStage(newStageInvoker(t, client), llm.BaseModel(llm.DefaultModelName))

	improved, err := stage.Refine(context.Background(), "instruction", "<p>draft</p>", nil)
	require.NoError(t, err)
	assert.Equal(t, "<p>revised content</p>", improved)
	require.Equal(t, 2, client.calls)
	assert.Contains(t, client.prompts[1], "CRITIQUE: revenue figure unsupported")
	assert.Contains(t, client.prompts[1], "<p>draft</p>")
}

func TestInsightStageMakesTwoCalls(t *testing.T) {
	client := &scriptedClient{fn: func(call int, prompt string) (string, error) {
		if call == 1 {
			return "insight critique", nil
		}
		return "<p>deeper content</p>", nil
	}}
	stage := NewInsightStage(newStageInvoker(t, client), llm.BaseModel(llm.DefaultModelName))

	improved, err := stage.Refine(context.Background(), "instruction", "<p>draft</p>", nil)
	require.NoError(t, err)
	assert.Equal(t, "<p>deeper content</p>", improved)
	assert.Equal(t, 2, client.calls)
}

func TestQuestionStageZeroQuestionsIsNoop(t *testing.T) {
	client := &scriptedClient{fn: func(call int, prompt string) (string, error) {
		return "", errors.New("should not be called")
	}}
	stage := NewQuestionStage(newStageInvoker(t, client), llm.BaseModel(llm.DefaultModelName), 0)

	improved, err := stage.Refine(context.Background(), "instruction", "<p>draft</p>", nil)
	require.NoError(t, err)
	assert.Equal(t, "<p>draft</p>", improved)
	assert.Equal(t, 0, client.calls)
}

func TestQuestionStageAsksThenWeaves(t *testing.T) {
	client := &scriptedClient{fn: func(call int, prompt string) (string, error) {
		if call == 1 {
			return "1. What is the leverage?\n2. Who owns the float?", nil
		}
		return "<p>woven content</p>", nil
	}}
	stage := NewQuestionStage(newStageInvoker(t, client), llm.BaseModel(llm.DefaultModelName), 2)

	improved, err := stage.Refine(context.Background(), "instruction", "<p>draft</p>", nil)
	require.NoError(t, err)
	assert.Equal(t, "<p>woven content</p>", improved)
	require.Equal(t, 2, client.calls)
	assert.Contains(t, client.prompts[0], "exactly 2 follow-up questions")
	assert.Contains(t, client.prompts[1], "What is the leverage?")
}

func TestStageSurfacesCritiqueFailure(t *testing.T) {
	client := &scriptedClient{fn: func(call int, prompt string) (string, error) {
		return "", errors.New("model unavailable")
	}}
	stage := NewFactStage(newStageInvoker(t, client), llm.BaseModel(llm.DefaultModelName))

	_, err := stage.Refine(context.Background(), "instruction", "<p>draft</p>", nil)
	require.Error(t, err)
	assert.Equal(t, 1, client.calls)
}
