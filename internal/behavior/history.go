package behavior

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"easymode/internal/progress"
)

// HistoryWindowDays is the trailing window the profiler looks at.
const HistoryWindowDays = 30

// LoadHistory pulls the trailing-30-day task and attempt slices for a user.
func LoadHistory(dbc *gorm.DB, userID uint, now time.Time) ([]TaskRecord, []AttemptRecord, error) {
	cutoff := now.AddDate(0, 0, -HistoryWindowDays)

	var completed []progress.CompletedTask
	if err := dbc.Where("user_id = ? AND completed_at >= ?", userID, cutoff).
		Order("completed_at asc").Find(&completed).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to load completed tasks: %w", err)
	}

	var attempts []progress.AudacityAttempt
	if err := dbc.Where("user_id = ? AND attempt_date >= ?", userID, cutoff).
		Order("attempt_date asc").Find(&attempts).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to load audacity attempts: %w", err)
	}

	tasks := make([]TaskRecord, 0, len(completed))
	for _, c := range completed {
		rec := TaskRecord{
			TaskID:          c.TaskID,
			Type:            TaskType(c.Type),
			Category:        c.Category,
			DurationSeconds: c.DurationSeconds,
		}
		if !c.CompletedAt.IsZero() {
			completedAt := c.CompletedAt
			rec.CompletedAt = &completedAt
		}
		tasks = append(tasks, rec)
	}

	attemptRecs := make([]AttemptRecord, 0, len(attempts))
	for _, a := range attempts {
		rec := AttemptRecord{Outcome: a.Outcome}
		if !a.AttemptDate.IsZero() {
			attemptDate := a.AttemptDate
			rec.AttemptDate = &attemptDate
		}
		attemptRecs = append(attemptRecs, rec)
	}

	return tasks, attemptRecs, nil
}

// AnalyzeUser is the convenience entry point: load the window, then profile.
func AnalyzeUser(dbc *gorm.DB, userID uint, now time.Time) (*Profile, error) {
	tasks, attempts, err := LoadHistory(dbc, userID, now)
	if err != nil {
		return nil, err
	}
	return Analyze(tasks, attempts), nil
}
