package coach

import (
	"context"
	"log"
	"math/rand"
	"time"

	"easymode/internal/scoring"
)

const recommendCandidateCount = 3

// Personalization rewrites a catalog task for one user. On model failure
// the original title and description pass through unchanged.
type Personalization struct {
	Success     bool   `json:"success"`
	Error       string `json:"error,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (c *Coach) PersonalizeTask(ctx context.Context, userID uint, title, description, taskType string) (*Personalization, error) {
	u := c.loadUser(userID)

	var out struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	err := c.llm.CompleteJSON(ctx, personalizeSystemPrompt,
		personalizeUserPrompt(u, title, description, taskType), &out)
	if err != nil || out.Title == "" {
		if err != nil {
			log.Printf("[Coach] Personalization failed for user %d: %v", userID, err)
		}
		return &Personalization{
			Success:     false,
			Error:       errString(err, "empty personalization"),
			Title:       title,
			Description: description,
		}, nil
	}
	return &Personalization{Success: true, Title: out.Title, Description: out.Description}, nil
}

// Insight is the once-a-day observation about the user's momentum.
type Insight struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message"`
}

const fallbackInsight = "Small steps add up. Pick one thing today and give it ten minutes."

func (c *Coach) DailyInsight(ctx context.Context, userID uint, now time.Time) (*Insight, error) {
	u := c.loadUser(userID)
	profile := c.profileFor(userID, now)

	message, err := c.llm.Complete(ctx, insightSystemPrompt, insightUserPrompt(u, profile))
	if err != nil || message == "" {
		if err != nil {
			log.Printf("[Coach] Insight failed for user %d: %v", userID, err)
		}
		return &Insight{Success: false, Error: errString(err, "empty insight"), Message: fallbackInsight}, nil
	}
	return &Insight{Success: true, Message: message}, nil
}

// Recommendation is the lighter sibling of Decide: top-3 scored candidates,
// one model pick, falling back to the top-scored (or a random candidate
// when scoring itself found nothing to separate).
type Recommendation struct {
	Success bool               `json:"success"`
	Error   string             `json:"error,omitempty"`
	Task    *scoring.Candidate `json:"task"`
	Reason  string             `json:"reason"`
}

func (c *Coach) Recommend(ctx context.Context, userID uint, now time.Time) (*Recommendation, error) {
	profile := c.profileFor(userID, now)
	candidates, err := scoring.LoadCandidates(c.db)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return &Recommendation{Success: false, Error: "no available tasks"}, nil
	}

	scored := scoring.ScoreTasks(candidates, profile, now.Hour())
	if len(scored) > recommendCandidateCount {
		scored = scored[:recommendCandidateCount]
	}
	fallback := scored[0]
	if profile.TotalTasksCompleted == 0 {
		// No history to rank on: any candidate is as good as another.
		fallback = scored[rand.Intn(len(scored))]
	}

	var pick struct {
		TaskID string `json:"taskId"`
		Reason string `json:"reason"`
	}
	err = c.llm.CompleteJSON(ctx, recommendSystemPrompt, recommendUserPrompt(profile, scored), &pick)
	if err != nil {
		log.Printf("[Coach] Recommendation failed for user %d: %v", userID, err)
		return &Recommendation{
			Success: false,
			Error:   err.Error(),
			Task:    &fallback,
			Reason:  "Recommended from your recent activity.",
		}, nil
	}
	for i := range scored {
		if scored[i].ID == pick.TaskID {
			return &Recommendation{Success: true, Task: &scored[i], Reason: pick.Reason}, nil
		}
	}
	return &Recommendation{Success: true, Task: &fallback, Reason: pick.Reason}, nil
}

// Nudge is a short push-notification-sized prompt to act.
type Nudge struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message"`
}

const fallbackNudge = "Your daily task is ready! Let's make today count."

func (c *Coach) ProactiveNudge(ctx context.Context, userID uint, now time.Time) (*Nudge, error) {
	u := c.loadUser(userID)
	profile := c.profileFor(userID, now)

	message, err := c.llm.Complete(ctx, nudgeSystemPrompt, nudgeUserPrompt(u, profile, c.momentFor(userID, now)))
	if err != nil || message == "" {
		if err != nil {
			log.Printf("[Coach] Nudge failed for user %d: %v", userID, err)
		}
		return &Nudge{Success: false, Error: errString(err, "empty nudge"), Message: fallbackNudge}, nil
	}
	return &Nudge{Success: true, Message: message}, nil
}

// Support is the post-setback encouragement response.
type Support struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message"`
}

const fallbackSupport = "One rough day doesn't undo your progress. Tomorrow, start with the smallest version of the task."

func (c *Coach) ResilienceSupport(ctx context.Context, userID uint, setback string) (*Support, error) {
	u := c.loadUser(userID)

	message, err := c.llm.Complete(ctx, resilienceSystemPrompt, resilienceUserPrompt(u, setback))
	if err != nil || message == "" {
		if err != nil {
			log.Printf("[Coach] Resilience support failed for user %d: %v", userID, err)
		}
		return &Support{Success: false, Error: errString(err, "empty support message"), Message: fallbackSupport}, nil
	}
	return &Support{Success: true, Message: message}, nil
}

func errString(err error, empty string) string {
	if err != nil {
		return err.Error()
	}
	return empty
}
