package agent

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"easymode/internal/user"
)

const (
	simplifyBelowPercent = 60
	increaseAbovePercent = 80
	// fallbackPlannedTasks stands in when the current milestone has no
	// recorded daily tasks. Kept from the original behavior even though a
	// milestone without tasks arguably should not produce a rate at all.
	fallbackPlannedTasks = 7
)

// ClassifyCompletion maps a completion percentage to an adjustment type.
// Below 60% simplifies, above 80% increases, the inclusive 60-80 band
// maintains.
func ClassifyCompletion(rate int) AdjustmentType {
	switch {
	case rate < simplifyBelowPercent:
		return AdjustSimplify
	case rate > increaseAbovePercent:
		return AdjustIncrease
	default:
		return AdjustMaintain
	}
}

// AdjustedDifficulty applies an adjustment to a difficulty level, clamped
// to [1,5].
func AdjustedDifficulty(current int, t AdjustmentType) int {
	switch t {
	case AdjustSimplify:
		return clampDifficulty(current - 1)
	case AdjustIncrease:
		return clampDifficulty(current + 1)
	default:
		return clampDifficulty(current)
	}
}

// ReplanResult summarizes a replanning batch run.
type ReplanResult struct {
	Processed int `json:"processed"`
	Adjusted  int `json:"adjusted"`
}

// Replan is the weekly scheduled job: for every user with a plan covering
// the current week it recomputes the completion rate, classifies it and
// appends a difficulty adjustment. One user's failure is logged and
// skipped, never aborting the batch. Users without a current-week plan are
// skipped silently.
func (p *Planner) Replan(ctx context.Context, now time.Time) (*ReplanResult, error) {
	var users []user.User
	if err := p.db.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	today := now.Format(isoDate)
	result := &ReplanResult{}
	for _, u := range users {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		adjusted, err := p.replanUser(u.ID, today)
		if err != nil {
			log.Printf("[Agent] Replan failed for user %d: %v", u.ID, err)
			continue
		}
		result.Processed++
		if adjusted {
			result.Adjusted++
		}
	}
	log.Printf("[Agent] Replan batch done: %d processed, %d adjusted", result.Processed, result.Adjusted)
	return result, nil
}

func (p *Planner) replanUser(userID uint, today string) (bool, error) {
	var plan WeeklyPlan
	err := p.db.Where("user_id = ? AND start_date <= ? AND end_date >= ?", userID, today, today).
		First(&plan).Error
	if err != nil {
		// No current-week plan: skip, not an error.
		return false, nil
	}

	completed, planned := completionCounts(&plan)
	rate := int(math.Round(float64(completed) / float64(planned) * 100))
	adjType := ClassifyCompletion(rate)

	previous := plan.DifficultyLevel
	next := AdjustedDifficulty(previous, adjType)

	plan.CompletionRate = rate
	plan.DifficultyLevel = next
	plan.AdjustmentHistory = append(plan.AdjustmentHistory, Adjustment{
		Date:               today,
		Type:               adjType,
		Reason:             adjustmentReason(rate, adjType),
		PreviousDifficulty: previous,
		NewDifficulty:      next,
	})
	if err := p.db.Save(&plan).Error; err != nil {
		return false, fmt.Errorf("failed to save adjusted plan: %w", err)
	}
	return adjType != AdjustMaintain, nil
}

// completionCounts finds the milestone for the plan's week and counts its
// completed vs planned tasks. A milestone with no recorded tasks (or a
// missing milestone) falls back to a planned count of 7.
func completionCounts(plan *WeeklyPlan) (completed, planned int) {
	for _, m := range plan.Milestones {
		if m.WeekNumber != plan.WeekNumber {
			continue
		}
		planned = len(m.DailyTasks)
		for _, task := range m.DailyTasks {
			if task.Completed {
				completed++
			}
		}
		break
	}
	if planned == 0 {
		planned = fallbackPlannedTasks
	}
	return completed, planned
}

func adjustmentReason(rate int, t AdjustmentType) string {
	switch t {
	case AdjustSimplify:
		return fmt.Sprintf("Completion rate %d%% is below %d%%, easing the plan", rate, simplifyBelowPercent)
	case AdjustIncrease:
		return fmt.Sprintf("Completion rate %d%% is above %d%%, raising the challenge", rate, increaseAbovePercent)
	default:
		return fmt.Sprintf("Completion rate %d%% is in the target range", rate)
	}
}
