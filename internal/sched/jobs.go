package sched

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"easymode/internal/agent"
	"easymode/internal/notify"
	"easymode/internal/user"
)

const (
	// NudgeHourUTC is when the daily nudge fires.
	NudgeHourUTC = 9
	// ReplanWeekday and ReplanHourUTC place the weekly replanning batch on
	// Sunday evening, after the plan week has fully elapsed.
	ReplanWeekday = time.Sunday
	ReplanHourUTC = 20

	nudgeTitle = "Easy Mode Moment"
	nudgeBody  = "Your daily task is ready! Let's make today count."
)

// Jobs holds the scheduled entry points. Each is a pure function of the
// current time and the dataset, so tests drive them directly.
type Jobs struct {
	db      *gorm.DB
	sender  *notify.Sender
	planner *agent.Planner
}

func NewJobs(dbc *gorm.DB, sender *notify.Sender, planner *agent.Planner) *Jobs {
	return &Jobs{db: dbc, sender: sender, planner: planner}
}

// RunDailyNudge pushes the daily reminder to every opted-in user with a
// registered device token. Delivery is best-effort per recipient.
func (j *Jobs) RunDailyNudge(ctx context.Context) (int, error) {
	var users []user.User
	err := j.db.Where("notifications_enabled = ? AND fcm_token <> ''", true).Find(&users).Error
	if err != nil {
		return 0, fmt.Errorf("failed to list nudge recipients: %w", err)
	}
	if len(users) == 0 {
		return 0, nil
	}

	msgs := make([]notify.Message, 0, len(users))
	for _, u := range users {
		msgs = append(msgs, notify.Message{Token: u.FCMToken, Title: nudgeTitle, Body: nudgeBody})
	}
	sent := j.sender.SendEach(ctx, msgs)
	log.Printf("[Sched] Daily nudge: %d/%d delivered", sent, len(msgs))
	return sent, nil
}

// RunWeeklyReplan runs the adaptive replanning batch.
func (j *Jobs) RunWeeklyReplan(ctx context.Context, now time.Time) (*agent.ReplanResult, error) {
	return j.planner.Replan(ctx, now)
}
