package coach

import (
	"context"
	"log"
	"time"

	"easymode/internal/scoring"
)

// decideCandidateCount is how many top-scored candidates the model chooses
// between.
const decideCandidateCount = 5

// Decision is the "coach decides" outcome. Task is never nil when the
// catalog has at least one candidate: an unrecognized model pick falls back
// to the top-scored one.
type Decision struct {
	Success bool               `json:"success"`
	Error   string             `json:"error,omitempty"`
	Task    *scoring.Candidate `json:"task"`
	Reason  string             `json:"reason"`
	Source  string             `json:"source"` // coach, fallback
}

// Decide gathers the behavior profile, the top-scored candidates, the
// current plan snapshot and today's moment into one model call that picks
// exactly one task.
func (c *Coach) Decide(ctx context.Context, userID uint, now time.Time) (*Decision, error) {
	u := c.loadUser(userID)
	profile := c.profileFor(userID, now)

	candidates, err := scoring.LoadCandidates(c.db)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return &Decision{Success: false, Error: "no available tasks", Reason: "The task catalog is empty."}, nil
	}
	scored := scoring.ScoreTasks(candidates, profile, now.Hour())
	if len(scored) > decideCandidateCount {
		scored = scored[:decideCandidateCount]
	}
	top := scored[0]

	tr := c.trace.StartTrace("coach_decide", userID, map[string]interface{}{
		"candidates": len(scored),
		"goal":       u.Goal,
	})
	defer func() {
		tr.End()
		c.flushTraces()
	}()

	var pick struct {
		TaskID string `json:"taskId"`
		Reason string `json:"reason"`
	}
	err = c.llm.CompleteJSON(ctx, decideSystemPrompt,
		decideUserPrompt(u, profile, scored, c.currentPlan(userID, now), c.momentFor(userID, now)), &pick)
	if err != nil {
		log.Printf("[Coach] Decide failed for user %d, falling back to top-scored: %v", userID, err)
		tr.Update(map[string]interface{}{"error": err.Error()})
		return &Decision{
			Success: false,
			Error:   err.Error(),
			Task:    &top,
			Reason:  "Picked your highest-scoring task while the coach is unavailable.",
			Source:  "fallback",
		}, nil
	}

	for i := range scored {
		if scored[i].ID == pick.TaskID {
			tr.Update(map[string]interface{}{"taskId": pick.TaskID})
			return &Decision{Success: true, Task: &scored[i], Reason: pick.Reason, Source: "coach"}, nil
		}
	}

	// The model chose an id outside the candidate set: use the top-scored one.
	log.Printf("[Coach] Decide picked unknown task %q for user %d, using top-scored", pick.TaskID, userID)
	tr.Update(map[string]interface{}{"taskId": top.ID, "unknownPick": pick.TaskID})
	return &Decision{Success: true, Task: &top, Reason: pick.Reason, Source: "fallback"}, nil
}
