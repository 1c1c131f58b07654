package agent

import (
	"time"

	"gorm.io/datatypes"
)

// AdjustmentType classifies a difficulty change.
type AdjustmentType string

const (
	AdjustSimplify AdjustmentType = "simplify"
	AdjustMaintain AdjustmentType = "maintain"
	AdjustIncrease AdjustmentType = "increase"
)

// DailyPlanTask is one concrete task inside a planned week.
type DailyPlanTask struct {
	DayOfWeek        string `json:"dayOfWeek"` // monday..sunday
	Title            string `json:"title"`
	Type             string `json:"type"` // action, audacity, enjoy
	EstimatedMinutes int    `json:"estimatedMinutes"`
	Difficulty       int    `json:"difficulty"` // 1..5
	WhyToday         string `json:"whyToday"`
	Completed        bool   `json:"completed"`
}

// WeeklyMilestone is a one-week sub-goal of a 4-week plan.
type WeeklyMilestone struct {
	WeekNumber      int             `json:"weekNumber"` // 1..4
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	FocusArea       string          `json:"focusArea"` // action, audacity, enjoyment
	DifficultyLevel int             `json:"difficultyLevel"`
	DailyTasks      []DailyPlanTask `json:"dailyTasks"`
}

// Adjustment is one entry in a plan's difficulty history. A zero
// NewDifficulty means the adjustment carried no explicit target.
type Adjustment struct {
	Date               string         `json:"date"`
	Type               AdjustmentType `json:"type"`
	Reason             string         `json:"reason"`
	PreviousDifficulty int            `json:"previousDifficulty,omitempty"`
	NewDifficulty      int            `json:"newDifficulty,omitempty"`
}

// WeeklyPlan is the persisted output of the planning agent, one per
// (user, week number). Mutated weekly by adaptive replanning; never
// deleted by the core.
type WeeklyPlan struct {
	ID                string                                 `gorm:"primaryKey;size:36" json:"id"`
	UserID            uint                                   `gorm:"index:idx_plan_user_week,unique" json:"userId"`
	WeekNumber        int                                    `gorm:"index:idx_plan_user_week,unique" json:"weekNumber"`
	StartDate         string                                 `gorm:"size:10;index" json:"startDate"` // ISO date, Monday
	EndDate           string                                 `gorm:"size:10;index" json:"endDate"`   // ISO date, Sunday
	UserGoal          string                                 `gorm:"size:512" json:"userGoal"`
	Milestones        datatypes.JSONSlice[WeeklyMilestone]   `json:"milestones"`
	CurrentMilestone  int                                    `json:"currentMilestone"`
	DifficultyLevel   int                                    `json:"difficultyLevel"` // 1..5
	CompletionRate    int                                    `json:"completionRate"`  // percent
	AdjustmentHistory datatypes.JSONSlice[Adjustment]        `json:"adjustmentHistory"`
	AgentReasoning    string                                 `gorm:"size:4096" json:"agentReasoning"`
	CreatedAt         time.Time                              `json:"createdAt"`
	UpdatedAt         time.Time                              `json:"updatedAt"`
}

const isoDate = "2006-01-02"

// WeekBounds returns the Monday and Sunday of the week containing now.
func WeekBounds(now time.Time) (time.Time, time.Time) {
	weekday := int(now.Weekday())
	if weekday == 0 { // Sunday
		weekday = 7
	}
	monday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, -(weekday - 1))
	sunday := monday.AddDate(0, 0, 6)
	return monday, sunday
}

func clampDifficulty(d int) int {
	if d < 1 {
		return 1
	}
	if d > 5 {
		return 5
	}
	return d
}
