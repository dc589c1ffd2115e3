package refine

import (
	"context"

	"profileforge/internal/llm"
)

// questionStage probes the current content for gaps: one call generates
// follow-up questions, a second answers them and weaves the answers back
// into the content. With zero questions configured the stage is a no-op and
// performs no model calls.
type questionStage struct {
	inv        *llm.Invoker
	askModel   llm.ModelConfig
	weaveModel llm.ModelConfig
	questions  int
}

func NewQuestionStage(inv *llm.Invoker, base llm.ModelConfig, questions int) Stage {
	return &questionStage{
		inv:        inv,
		askModel:   llm.FactModel(base),
		weaveModel: llm.InsightModel(base),
		questions:  questions,
	}
}

func (s *questionStage) Name() string { return "question" }

func (s *questionStage) Refine(ctx context.Context, instruction, content string, docs []llm.Part) (string, error) {
	if s.questions <= 0 {
		return content, nil
	}
	questions, err := s.invoke(ctx, s.askModel, questionListPrompt(instruction, content, s.questions), docs)
	if err != nil {
		return "", err
	}
	return s.invoke(ctx, s.weaveModel, answerWeavePrompt(instruction, content, questions), docs)
}

func (s *questionStage) invoke(ctx context.Context, model llm.ModelConfig, prompt string, docs []llm.Part) (string, error) {
	parts := make([]llm.Part, 0, len(docs)+1)
	parts = append(parts, docs...)
	parts = append(parts, llm.TextPart(prompt))
	return s.inv.Invoke(ctx, model, parts, llm.Options{})
}
