package progress

import (
	"time"

	"gorm.io/datatypes"
)

// CompletedTask is one finished task in a user's history. Duration is in
// seconds to match how the behavior profiler consumes it.
type CompletedTask struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"index" json:"userId"`
	TaskID          string    `gorm:"size:64" json:"taskId"`
	Title           string    `gorm:"size:256" json:"title"`
	Type            string    `gorm:"size:16;index" json:"type"` // action, audacity, enjoy
	Category        string    `gorm:"size:64" json:"category"`
	DurationSeconds float64   `json:"durationSeconds"`
	Outcome         string    `gorm:"size:16" json:"outcome"` // success, partial, fail or empty
	XPEarned        int       `json:"xpEarned"`
	CompletedAt     time.Time `gorm:"index" json:"completedAt"`
}

// AudacityAttempt logs a bold-action attempt independent of task completion.
type AudacityAttempt struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index" json:"userId"`
	Outcome     string    `gorm:"size:16" json:"outcome"` // success, partial, fail
	AttemptDate time.Time `gorm:"index" json:"attemptDate"`
}

// AnalyticsEvent is a fire-and-forget audit record (streak_increase,
// badge_earned). Failures writing it never fail the primary operation.
type AnalyticsEvent struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	Event     string            `gorm:"size:64;index" json:"event"`
	UserID    uint              `gorm:"index" json:"userId"`
	Payload   datatypes.JSONMap `json:"payload"`
	CreatedAt time.Time         `json:"createdAt"`
}
