package progress

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"easymode/internal/user"
)

func setupProgressDB(t *testing.T) *gorm.DB {
	t.Helper()
	dbc, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := dbc.AutoMigrate(&user.User{}, &CompletedTask{}, &AudacityAttempt{}, &AnalyticsEvent{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	for _, table := range []string{"users", "completed_tasks", "audacity_attempts", "analytics_events"} {
		if err := dbc.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("failed to reset %s: %v", table, err)
		}
	}
	return dbc
}

func TestUpdateStreak(t *testing.T) {
	now := time.Date(2026, 8, 28, 14, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	lastWeek := now.AddDate(0, 0, -7)

	cases := []struct {
		name string
		last *time.Time
		cur  int
		want int
	}{
		{"no activity yet", nil, 0, 1},
		{"same day unchanged", &now, 3, 3},
		{"consecutive day increments", &yesterday, 3, 4},
		{"gap resets", &lastWeek, 9, 1},
	}
	for _, tc := range cases {
		u := user.User{Streak: tc.cur, LastActivity: tc.last}
		if got := UpdateStreak(&u, now); got != tc.want {
			t.Errorf("%s: got %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestCompleteTask_AwardsXPAndLevels(t *testing.T) {
	dbc := setupProgressDB(t)
	now := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)

	// Streak of 4 maintained today: multiplier 1.2, 380 + 120 = 500 -> level 2.
	u := user.User{Username: "streaker", PasswordHash: "x", XPTotal: 380, Level: 1, Streak: 4, LastActivity: &now}
	if err := dbc.Create(&u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	res, err := CompleteTask(dbc, u.ID, CompleteRequest{TaskID: "t1", Title: "Morning walk", Type: "action"}, now)
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if res.XPAwarded != 120 {
		t.Errorf("expected 120 XP, got %d", res.XPAwarded)
	}
	if res.NewTotal != 500 {
		t.Errorf("expected total 500, got %d", res.NewTotal)
	}
	if res.Level != 2 {
		t.Errorf("expected level 2, got %d", res.Level)
	}

	var record CompletedTask
	if err := dbc.Where("user_id = ?", u.ID).First(&record).Error; err != nil {
		t.Fatalf("completed task not recorded: %v", err)
	}
	if record.XPEarned != 120 {
		t.Errorf("expected recorded XP 120, got %d", record.XPEarned)
	}
}

func TestCompleteTask_MissingUserIsNoop(t *testing.T) {
	dbc := setupProgressDB(t)
	res, err := CompleteTask(dbc, 99999, CompleteRequest{TaskID: "t1", Type: "action"}, time.Now())
	if err != nil {
		t.Fatalf("missing user should not error: %v", err)
	}
	if res.XPAwarded != 0 {
		t.Errorf("expected no XP for missing user, got %d", res.XPAwarded)
	}
}

func TestCompleteTask_AudacityBadgeAndAttemptLog(t *testing.T) {
	dbc := setupProgressDB(t)
	now := time.Now()
	u := user.User{Username: "bold", PasswordHash: "x"}
	if err := dbc.Create(&u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	res, err := CompleteTask(dbc, u.ID, CompleteRequest{TaskID: "a1", Type: "audacity", Outcome: "success"}, now)
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	// 200 attempt + 100 success, streak 1 so no multiplier.
	if res.XPAwarded != 300 {
		t.Errorf("expected 300 XP, got %d", res.XPAwarded)
	}

	var got user.User
	if err := dbc.First(&got, u.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if !got.HasBadge("first_step") || !got.HasBadge("bold_beginner") {
		t.Errorf("expected first_step and bold_beginner badges, got %+v", got.Badges)
	}

	var attempts int64
	dbc.Model(&AudacityAttempt{}).Where("user_id = ?", u.ID).Count(&attempts)
	if attempts != 1 {
		t.Errorf("expected 1 audacity attempt, got %d", attempts)
	}
}

func TestAwardBadges_NoDuplicates(t *testing.T) {
	dbc := setupProgressDB(t)
	now := time.Now()
	u := user.User{Username: "dup", PasswordHash: "x", Level: 5}
	u.Badges = append(u.Badges, user.Badge{BadgeID: "first_step", EarnedAt: "2026-01-01"})
	if err := dbc.Create(&u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	earned := AwardBadges(dbc, &u, "action", now)
	for _, b := range earned {
		if b.BadgeID == "first_step" {
			t.Errorf("first_step should not be re-awarded")
		}
	}
	found := false
	for _, b := range earned {
		if b.BadgeID == "level_5" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected level_5 badge at level 5, earned: %+v", earned)
	}
}
