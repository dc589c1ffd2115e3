// Package refine implements the critique-then-revise passes applied to a
// section's current best content. Stages are best-effort: a failed stage is
// logged by the caller and the prior content stands.
package refine

import (
	"context"

	"profileforge/internal/llm"
)

// Stage is one refinement pass over a section's current content.
type Stage interface {
	Name() string
	// Refine returns an improved revision of content. The caller repairs
	// the result before accepting it and keeps the prior content on error.
	Refine(ctx context.Context, instruction, content string, docs []llm.Part) (string, error)
}

// critiqueReviseStage is the shared two-call shape: one model call produces
// a critique of the current content, a second rewrites the content to
// address it.
type critiqueReviseStage struct {
	name           string
	inv            *llm.Invoker
	model          llm.ModelConfig
	critiquePrompt func(instruction, content string) string
	revisePrompt   func(instruction, content, critique string) string
}

func (s *critiqueReviseStage) Name() string { return s.name }

func (s *critiqueReviseStage) Refine(ctx context.Context, instruction, content string, docs []llm.Part) (string, error) {
	critique, err := s.invoke(ctx, s.critiquePrompt(instruction, content), docs)
	if err != nil {
		return "", err
	}
	return s.invoke(ctx, s.revisePrompt(instruction, content, critique), docs)
}

func (s *critiqueReviseStage) invoke(ctx context.Context, prompt string, docs []llm.Part) (string, error) {
	parts := make([]llm.Part, 0, len(docs)+1)
	parts = append(parts, docs...)
	parts = append(parts, llm.TextPart(prompt))
	return s.inv.Invoke(ctx, s.model, parts, llm.Options{})
}

// NewFactStage builds the factual-accuracy pass, run on the conservative
// preset derived from base.
func NewFactStage(inv *llm.Invoker, base llm.ModelConfig) Stage {
	return &critiqueReviseStage{
		name:           "fact",
		inv:            inv,
		model:          llm.FactModel(base),
		critiquePrompt: factCritiquePrompt,
		revisePrompt:   factRevisePrompt,
	}
}

// NewInsightStage builds the analytical-depth pass, run on the creative
// preset derived from base.
func NewInsightStage(inv *llm.Invoker, base llm.ModelConfig) Stage {
	return &critiqueReviseStage{
		name:           "insight",
		inv:            inv,
		model:          llm.InsightModel(base),
		critiquePrompt: insightCritiquePrompt,
		revisePrompt:   insightRevisePrompt,
	}
}
