package behavior

import "time"

// TaskType is the fixed task taxonomy. Every profile map is pre-seeded with
// all three types so downstream ratio math never hits a missing key.
type TaskType string

const (
	TypeAction   TaskType = "action"
	TypeAudacity TaskType = "audacity"
	TypeEnjoy    TaskType = "enjoy"
)

// AllTaskTypes lists the fixed type set in a stable order.
var AllTaskTypes = []TaskType{TypeAction, TypeAudacity, TypeEnjoy}

// DefaultPeakHour is assumed when a user has no recorded activity.
const DefaultPeakHour = 9

// TaskRecord is one completed task from the trailing 30-day window.
// Optional fields are pointers; missing values are skipped, never an error.
type TaskRecord struct {
	TaskID          string
	Type            TaskType
	Category        string
	DurationSeconds float64
	CompletedAt     *time.Time
}

// AttemptRecord is one audacity attempt from the same window.
type AttemptRecord struct {
	Outcome     string // success, partial, fail
	AttemptDate *time.Time
}

// Profile is the derived statistical summary of a user's recent history.
// It is recomputed per request and never persisted.
type Profile struct {
	PreferredTaskTypes  map[TaskType]int     `json:"preferredTaskTypes"`
	PreferredCategories map[string]int       `json:"preferredCategories"`
	SuccessRateByType   map[TaskType]float64 `json:"successRateByType"`
	AvgCompletionTime   float64              `json:"avgCompletionTime"` // seconds
	TotalTasksCompleted int                  `json:"totalTasksCompleted"`
	RecentTaskIDs       map[string]struct{}  `json:"-"`
	PeakActivityHour    int                  `json:"peakActivityHour"`
}
