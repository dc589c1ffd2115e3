package runner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"profileforge/internal/llm"
	"profileforge/internal/logging"
	"profileforge/internal/section"
)

// DefaultTopicTimeout is the soft per-topic deadline; a topic that blows it
// falls back to an error fragment without affecting its siblings.
const DefaultTopicTimeout = 600 * time.Second

// Controller fans independent topic pipelines out over a bounded worker
// pool, collects results in completion order, and keeps the run metadata
// marker accurate after every completion.
type Controller struct {
	pipeline     *section.Pipeline
	log          *logging.Logger
	maxWorkers   int
	topicTimeout time.Duration
}

func NewController(pipeline *section.Pipeline, log *logging.Logger, maxWorkers int) *Controller {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &Controller{
		pipeline:     pipeline,
		log:          log,
		maxWorkers:   maxWorkers,
		topicTimeout: DefaultTopicTimeout,
	}
}

// SetTopicTimeout overrides the per-topic soft deadline.
func (c *Controller) SetTopicTimeout(d time.Duration) {
	c.topicTimeout = d
}

// Run processes every topic and returns a complete topicID → content map.
// No per-topic failure surfaces as an error: failed units contribute an
// error fragment and their siblings keep running. The metadata marker, when
// provided, is updated after each completion.
func (c *Controller) Run(ctx context.Context, topics []section.Topic, docs []llm.Part, meta *MetadataFile) map[int]string {
	if meta != nil {
		if err := meta.MarkProcessing(); err != nil {
			c.log.Warnw("could not update run metadata", "error", err)
		}
	}

	var mu sync.Mutex
	results := make(map[int]string, len(topics))

	g := &errgroup.Group{}
	g.SetLimit(c.maxWorkers)
	for _, topic := range topics {
		topic := topic
		g.Go(func() error {
			content := c.runOne(ctx, topic, docs)

			mu.Lock()
			results[topic.ID] = content
			mu.Unlock()

			if meta != nil {
				if err := meta.SectionCompleted(); err != nil {
					c.log.Warnw("could not update run metadata", "section", topic.ID, "error", err)
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	if meta != nil {
		if err := meta.MarkCompleted(); err != nil {
			c.log.Warnw("could not finalize run metadata", "error", err)
		}
	}
	return results
}

// runOne isolates a single unit of work: its own soft deadline, and panic
// recovery so a defect in one unit cannot cancel or corrupt the others.
func (c *Controller) runOne(ctx context.Context, topic section.Topic, docs []llm.Part) (content string) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Errorw("section worker panicked", "section", topic.ID, "panic", r)
			content = section.ErrorFragment(topic, fmt.Errorf("internal failure: %v", r))
		}
	}()

	topicCtx, cancel := context.WithTimeout(ctx, c.topicTimeout)
	defer cancel()

	res := c.pipeline.Process(topicCtx, topic, docs)
	if res.Err != nil {
		c.log.Warnw("section completed with error fallback", "section", topic.ID, "error", res.Err)
	} else {
		c.log.Infow("section completed", "section", topic.ID)
	}
	return res.Content
}
