package coach

import (
	"context"
	"log"
)

// ReflectionThreshold is the critique score below which a draft reply is
// regenerated. Scores run 1..5.
const ReflectionThreshold = 4

const maxConfidence = 5

// Critique is the structured outcome of the self-reflection pass.
type Critique struct {
	Score  int      `json:"score"` // 1..5
	Issues []string `json:"issues"`
}

// Reflect scores a draft coaching reply against the quality rubric. A
// failed critique call returns nil: reflection is an improvement pass,
// never a gate.
func (c *Coach) Reflect(ctx context.Context, message, draft string) *Critique {
	var critique Critique
	if err := c.llm.CompleteJSON(ctx, reflectSystemPrompt, reflectUserPrompt(message, draft), &critique); err != nil {
		log.Printf("[Coach] Reflection failed, keeping draft: %v", err)
		return nil
	}
	if critique.Score < 1 {
		critique.Score = 1
	}
	if critique.Score > maxConfidence {
		critique.Score = maxConfidence
	}
	return &critique
}

// refine is the second reflection stage: draft -> critique -> regenerate.
// The improved reply's confidence is the critique score plus one per pass,
// capped at 5.
func (c *Coach) refine(ctx context.Context, system, message, draft string, critique *Critique) (string, int) {
	improved, err := c.llm.Complete(ctx, system, refinePrompt(message, draft, critique))
	if err != nil {
		log.Printf("[Coach] Regeneration failed, keeping draft: %v", err)
		return draft, critique.Score
	}
	confidence := critique.Score + 1
	if confidence > maxConfidence {
		confidence = maxConfidence
	}
	return improved, confidence
}
