package coach

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"

	"easymode/internal/agent"
	"easymode/internal/behavior"
	"easymode/internal/llm"
	"easymode/internal/memory"
	"easymode/internal/trace"
	"easymode/internal/user"
)

// Coach composes the profiler, scorer, memory store and LLM into the
// user-facing coaching operations. Every AI operation here degrades
// gracefully: a model failure produces a success-shaped response with
// Success=false and fallback content, never a different schema.
type Coach struct {
	db       *gorm.DB
	llm      llm.Completer
	memories *memory.Store
	trace    *trace.Client
}

func New(dbc *gorm.DB, completer llm.Completer, store *memory.Store, tr *trace.Client) *Coach {
	return &Coach{db: dbc, llm: completer, memories: store, trace: tr}
}

// moment captures "today" for a single coaching decision.
type moment struct {
	Day            string
	Hour           int
	TasksDoneToday int
}

// loadUser degrades a missing user to empty defaults; authentication is the
// caller's concern, not this layer's.
func (c *Coach) loadUser(userID uint) *user.User {
	var u user.User
	if err := c.db.First(&u, userID).Error; err != nil {
		log.Printf("[Coach] User %d not found, using empty profile", userID)
		return &user.User{ID: userID}
	}
	return &u
}

func (c *Coach) profileFor(userID uint, now time.Time) *behavior.Profile {
	profile, err := behavior.AnalyzeUser(c.db, userID, now)
	if err != nil {
		log.Printf("[Coach] Behavior profile failed for user %d: %v", userID, err)
		return behavior.Analyze(nil, nil)
	}
	return profile
}

// currentPlan returns the user's plan covering now, nil when there is none.
func (c *Coach) currentPlan(userID uint, now time.Time) *agent.WeeklyPlan {
	today := now.Format("2006-01-02")
	var plan agent.WeeklyPlan
	err := c.db.Where("user_id = ? AND start_date <= ? AND end_date >= ?", userID, today, today).
		First(&plan).Error
	if err != nil {
		return nil
	}
	return &plan
}

func (c *Coach) momentFor(userID uint, now time.Time) moment {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var doneToday int64
	c.db.Table("completed_tasks").
		Where("user_id = ? AND completed_at >= ?", userID, dayStart).
		Count(&doneToday)
	return moment{
		Day:            now.Weekday().String(),
		Hour:           now.Hour(),
		TasksDoneToday: int(doneToday),
	}
}

func (c *Coach) flushTraces() {
	trace.BestEffort("coach trace flush", trace.FlushTimeout, func(ctx context.Context) error {
		return c.trace.Flush(ctx)
	})
}
