package sched

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Worker drives the scheduled jobs from an hourly ticker. Due times are
// checked against UTC; a job fires at most once per due window.
type Worker struct {
	jobs     *Jobs
	interval time.Duration
	stopChan chan struct{}

	lastNudgeDay   string
	lastReplanWeek string
}

func NewWorker(jobs *Jobs) *Worker {
	return &Worker{
		jobs:     jobs,
		interval: time.Hour,
		stopChan: make(chan struct{}),
	}
}

// Start begins the scheduling loop. It runs until Stop is called.
func (w *Worker) Start() {
	log.Printf("[Sched] Starting scheduler (nudge daily at %02d:00 UTC, replan %s at %02d:00 UTC)",
		NudgeHourUTC, ReplanWeekday, ReplanHourUTC)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.Tick(context.Background(), time.Now())
	for {
		select {
		case <-ticker.C:
			w.Tick(context.Background(), time.Now())
		case <-w.stopChan:
			log.Printf("[Sched] Stopping scheduler")
			return
		}
	}
}

// Stop gracefully stops the worker.
func (w *Worker) Stop() {
	close(w.stopChan)
}

// Tick fires whichever jobs are due at now. Exposed so tests can drive the
// schedule without a ticker.
func (w *Worker) Tick(ctx context.Context, now time.Time) {
	utc := now.UTC()

	day := utc.Format("2006-01-02")
	if utc.Hour() == NudgeHourUTC && w.lastNudgeDay != day {
		w.lastNudgeDay = day
		if _, err := w.jobs.RunDailyNudge(ctx); err != nil {
			log.Printf("[Sched] Daily nudge failed: %v", err)
		}
	}

	year, week := utc.ISOWeek()
	weekKey := fmt.Sprintf("%d-%02d", year, week)
	if utc.Weekday() == ReplanWeekday && utc.Hour() == ReplanHourUTC && w.lastReplanWeek != weekKey {
		w.lastReplanWeek = weekKey
		if _, err := w.jobs.RunWeeklyReplan(ctx, utc); err != nil {
			log.Printf("[Sched] Weekly replan failed: %v", err)
		}
	}
}
