package llm

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
)

const scoreCalibration = `Score calibration reference:
0-20: Very poor. Missing critical information, contains major factual errors, or fails to address the core question.
21-40: Below average. Addresses some aspects of the question but has significant gaps, errors, or lacks coherence.
41-60: Average. Covers the basics correctly, no fundamental formatting issues, but lacks depth of insight.
61-80: Good. Comprehensive, factually accurate, well-structured, and provides some useful insights.
81-95: Excellent. Exceptionally thorough, perfectly accurate, well-organized, concise, and offers valuable insights.`

var numberPattern = regexp.MustCompile(`\d+`)

// RateAnswer asks a conservative model to score an answer against its
// instruction on a 0-100 scale, normalized to [0,1]. Ratings are capped at
// 0.95; unparseable or failed responses fall back to 0.7 after three
// attempts.
func (iv *Invoker) RateAnswer(ctx context.Context, model ModelConfig, instruction, answer string) float64 {
	prompt := fmt.Sprintf(`Initial Instruction: %s

Answer: %s

Rate the quality of this answer on a scale from 0 to 100, considering:
- Factual accuracy
- Completeness
- Insight
- Conciseness
- Coherence

%s

IMPORTANT: Your response must contain ONLY a single number between 0-100.`,
		instruction, answer, scoreCalibration)

	const maxAttempts = 3
	for attempt := 0; attempt < maxAttempts; attempt++ {
		text, err := iv.Invoke(ctx, model, []Part{TextPart(prompt)}, Options{})
		if err != nil {
			iv.log.Warnw("rating call failed", "attempt", attempt+1, "error", err)
			continue
		}
		match := numberPattern.FindString(text)
		if match == "" {
			iv.log.Warnw("no rating found in response", "attempt", attempt+1)
			continue
		}
		rating, err := strconv.Atoi(match)
		if err != nil || rating < 0 || rating > 100 {
			iv.log.Warnw("rating out of range", "attempt", attempt+1, "rating", match)
			continue
		}
		if rating > 95 {
			rating = 95
		}
		return float64(rating) / 100.0
	}
	return 0.7
}
