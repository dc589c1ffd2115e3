package section

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"time"

	"profileforge/internal/htmlfix"
	"profileforge/internal/llm"
	"profileforge/internal/logging"
	"profileforge/internal/refine"
)

// DefaultGenerateTimeout is the budget for the primary content call, larger
// than the single-call default since it carries the whole document set.
const DefaultGenerateTimeout = 240 * time.Second

// Result is the always-valued outcome of one topic's pipeline. Err records
// why the content fell back to an error fragment; it is never propagated as
// a failure.
type Result struct {
	TopicID int
	Content string
	Err     error
}

// Config tunes a Pipeline.
type Config struct {
	// Model is the base model configuration; the generation and rating
	// calls derive their task presets from it.
	Model           llm.ModelConfig
	GenerateTimeout time.Duration
	MaxRetries      int
	// ScoreResults logs a model-rated quality score for each finished
	// section. Costs one extra call per section.
	ScoreResults bool
}

// Pipeline turns one topic plus the shared document set into a repaired,
// persisted HTML fragment: cache check, generation, repair, optional
// refinement stages, final persist. Each instance may be shared across
// workers; all per-topic state lives on the stack.
type Pipeline struct {
	inv    *llm.Invoker
	store  *Store
	stages []refine.Stage
	log    *logging.Logger
	cfg    Config
}

func NewPipeline(inv *llm.Invoker, store *Store, stages []refine.Stage, log *logging.Logger, cfg Config) *Pipeline {
	if cfg.Model.Name == "" {
		cfg.Model = llm.BaseModel(llm.DefaultModelName)
	}
	if cfg.GenerateTimeout <= 0 {
		cfg.GenerateTimeout = DefaultGenerateTimeout
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = llm.DefaultMaxRetries
	}
	return &Pipeline{inv: inv, store: store, stages: stages, log: log, cfg: cfg}
}

// Process runs the state machine for one topic. It always returns content:
// a previously refined artifact, a freshly generated fragment, or an error
// fragment when generation fails.
func (p *Pipeline) Process(ctx context.Context, topic Topic, docs []llm.Part) Result {
	refinedKey := strconv.Itoa(topic.ID) + "_refined"
	if content, ok := p.store.Load(refinedKey); ok {
		p.log.Infow("loaded previously refined section", "section", topic.ID)
		return Result{TopicID: topic.ID, Content: content}
	}

	instruction := Instruction(topic)
	parts := make([]llm.Part, 0, len(docs)+1)
	parts = append(parts, docs...)
	parts = append(parts, llm.TextPart(Persona+"\n\n"+instruction+"\n\n"+OutputFormat))

	raw, err := p.inv.Invoke(ctx, llm.InsightModel(p.cfg.Model), parts, llm.Options{
		MaxRetries: p.cfg.MaxRetries,
		Timeout:    p.cfg.GenerateTimeout,
		Topic:      strconv.Itoa(topic.ID),
	})
	if err != nil {
		p.log.Errorw("section generation failed", "section", topic.ID, "error", err)
		return Result{TopicID: topic.ID, Content: ErrorFragment(topic, err), Err: err}
	}

	content := htmlfix.Repair(raw, topic.ID, topic.Title)
	// Persisting the initial artifact before refinement makes interrupted
	// refinement runs resumable from here.
	if err := p.store.Save(strconv.Itoa(topic.ID), content); err != nil {
		p.log.Warnw("could not persist initial section", "section", topic.ID, "error", err)
	}

	best := content
	for _, stage := range p.stages {
		improved, err := stage.Refine(ctx, instruction, best, docs)
		if err != nil {
			p.log.Warnw("refinement stage failed, keeping prior content",
				"stage", stage.Name(), "section", topic.ID, "error", err)
			continue
		}
		best = htmlfix.Repair(improved, topic.ID, topic.Title)
	}

	best = htmlfix.Repair(best, topic.ID, topic.Title)
	if err := p.store.Save(refinedKey, best); err != nil {
		p.log.Warnw("could not persist refined section", "section", topic.ID, "error", err)
	}

	if p.cfg.ScoreResults {
		score := p.inv.RateAnswer(ctx, llm.FactModel(p.cfg.Model), instruction, best)
		p.log.Infow("section quality score", "section", topic.ID, "score", score)
	}

	return Result{TopicID: topic.ID, Content: best}
}

// ErrorFragment is the self-contained fallback for a topic whose generation
// failed: the heading is preserved, the error is shown, and diagnostics sit
// behind a details toggle. The fragment satisfies htmlfix.Validate.
func ErrorFragment(topic Topic, cause error) string {
	detail := "no further details"
	if cause != nil {
		detail = cause.Error()
	}
	return fmt.Sprintf(`<div class="section" id="section-%d"><h2>%d. %s</h2><p class="error">ERROR: Could not generate section %d: %s</p><details><summary>View error details</summary><pre>%s</pre></details></div>`,
		topic.ID, topic.ID, html.EscapeString(topic.Title), topic.ID,
		html.EscapeString(detail), html.EscapeString(detail))
}
