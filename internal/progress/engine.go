package progress

import (
	"fmt"
	"log"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"easymode/internal/user"
)

// CompleteRequest carries everything needed to record a finished task.
type CompleteRequest struct {
	TaskID          string
	Title           string
	Type            string // action, audacity, enjoy
	Category        string
	DurationSeconds float64
	Outcome         string // success, partial, fail (audacity only)
}

// CompleteResult reports what the completion earned.
type CompleteResult struct {
	XPAwarded int          `json:"xpAwarded"`
	NewTotal  int          `json:"newTotal"`
	Level     int          `json:"level"`
	Streak    int          `json:"streak"`
	NewBadges []user.Badge `json:"newBadges"`
}

// CompleteTask records a completed task, updates the streak, applies the
// streak multiplier, bumps XP/level and awards badges. A missing user is
// treated as a no-op default, not an error.
func CompleteTask(dbc *gorm.DB, userID uint, req CompleteRequest, now time.Time) (*CompleteResult, error) {
	var u user.User
	if err := dbc.First(&u, userID).Error; err != nil {
		log.Printf("[Progress] User %d not found, skipping completion", userID)
		return &CompleteResult{}, nil
	}

	// Streak first: the multiplier applies to the streak including today.
	newStreak := UpdateStreak(&u, now)
	if newStreak != u.Streak {
		u.Streak = newStreak
		logAnalytics(dbc, "streak_increase", userID, datatypes.JSONMap{"newStreak": newStreak})
	}

	baseXP := BaseXPForTask(req.Type, req.Outcome)
	finalXP := XPWithStreak(baseXP, u.Streak)

	record := CompletedTask{
		UserID:          userID,
		TaskID:          req.TaskID,
		Title:           req.Title,
		Type:            req.Type,
		Category:        req.Category,
		DurationSeconds: req.DurationSeconds,
		Outcome:         req.Outcome,
		XPEarned:        finalXP,
		CompletedAt:     now,
	}
	if err := dbc.Create(&record).Error; err != nil {
		return nil, fmt.Errorf("failed to record completed task: %w", err)
	}
	if req.Type == "audacity" {
		attempt := AudacityAttempt{UserID: userID, Outcome: req.Outcome, AttemptDate: now}
		if err := dbc.Create(&attempt).Error; err != nil {
			return nil, fmt.Errorf("failed to record audacity attempt: %w", err)
		}
	}

	u.XPTotal += finalXP
	u.Level = LevelForXP(u.XPTotal)
	u.LastActivity = &now

	newBadges := AwardBadges(dbc, &u, req.Type, now)

	if err := dbc.Save(&u).Error; err != nil {
		return nil, fmt.Errorf("failed to update user progress: %w", err)
	}

	log.Printf("[Progress] Awarded %d XP to user %d (total %d, level %d, streak %d)",
		finalXP, userID, u.XPTotal, u.Level, u.Streak)
	return &CompleteResult{
		XPAwarded: finalXP,
		NewTotal:  u.XPTotal,
		Level:     u.Level,
		Streak:    u.Streak,
		NewBadges: newBadges,
	}, nil
}

// UpdateStreak returns the streak after an activity at `now`. Same calendar
// day leaves it unchanged, the following day increments it, any larger gap
// resets it to 1.
func UpdateStreak(u *user.User, now time.Time) int {
	if u.LastActivity == nil {
		return 1
	}
	today := truncateToDay(now)
	lastDay := truncateToDay(*u.LastActivity)
	daysDiff := int(today.Sub(lastDay).Hours() / 24)

	switch {
	case daysDiff == 0:
		if u.Streak == 0 {
			return 1
		}
		return u.Streak
	case daysDiff == 1:
		return u.Streak + 1
	default:
		return 1
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

var levelBadges = []struct {
	level   int
	badgeID string
}{
	{5, "level_5"},
	{10, "level_10"},
	{25, "level_25"},
	{50, "level_50"},
}

// AwardBadges appends any newly earned badges to the user and returns them.
// The user row itself is persisted by the caller.
func AwardBadges(dbc *gorm.DB, u *user.User, taskType string, now time.Time) []user.Badge {
	var toAward []string

	if !u.HasBadge("first_step") {
		toAward = append(toAward, "first_step")
	}
	for _, lb := range levelBadges {
		if u.Level >= lb.level && !u.HasBadge(lb.badgeID) {
			toAward = append(toAward, lb.badgeID)
		}
	}
	if taskType == "audacity" && !u.HasBadge("bold_beginner") {
		toAward = append(toAward, "bold_beginner")
	}
	if u.Streak >= 7 && !u.HasBadge("week_warrior") {
		toAward = append(toAward, "week_warrior")
	}

	var earned []user.Badge
	for _, badgeID := range toAward {
		b := user.Badge{BadgeID: badgeID, EarnedAt: now.UTC().Format(time.RFC3339)}
		u.Badges = append(u.Badges, b)
		earned = append(earned, b)
		logAnalytics(dbc, "badge_earned", u.ID, datatypes.JSONMap{"badgeId": badgeID})
	}
	return earned
}

func logAnalytics(dbc *gorm.DB, event string, userID uint, payload datatypes.JSONMap) {
	e := AnalyticsEvent{Event: event, UserID: userID, Payload: payload, CreatedAt: time.Now()}
	if err := dbc.Create(&e).Error; err != nil {
		log.Printf("[Progress] Failed to log analytics event %s: %v", event, err)
	}
}
