package coach

import (
	"fmt"
	"strings"

	"easymode/internal/agent"
	"easymode/internal/behavior"
	"easymode/internal/memory"
	"easymode/internal/scoring"
	"easymode/internal/user"
)

const decideSystemPrompt = `You are a habit coach deciding the single best task for this user right now.
Pick exactly one task from the candidate list.
Reply with JSON only: {"taskId": "<id of the chosen candidate>", "reason": "<one short sentence for the user>"}`

func decideUserPrompt(u *user.User, p *behavior.Profile, candidates []scoring.Candidate, plan *agent.WeeklyPlan, m moment) string {
	var b strings.Builder
	writeProfile(&b, u, p)
	fmt.Fprintf(&b, "Right now it is %s, %d:00. Tasks completed today: %d.\n", m.Day, m.Hour, m.TasksDoneToday)
	if plan != nil {
		fmt.Fprintf(&b, "Current plan (week %d, difficulty %d): %s\n", plan.WeekNumber, plan.DifficultyLevel, plan.UserGoal)
	}
	b.WriteString("Candidates:\n")
	for _, c := range candidates {
		fmt.Fprintf(&b, "- id=%s type=%s score=%d title=%q (%d min)\n", c.ID, c.Type, c.Score, c.Title, c.EstimatedMinutes)
	}
	return b.String()
}

func chatSystemPrompt(u *user.User, p *behavior.Profile, memories []memory.Entry) string {
	var b strings.Builder
	b.WriteString("You are a warm, practical habit coach. Keep replies short, concrete and encouraging.\n")
	writeProfile(&b, u, p)
	if len(memories) > 0 {
		b.WriteString("Relevant things you remember about this user:\n")
		for _, m := range memories {
			fmt.Fprintf(&b, "- [%s] %s\n", m.Type, m.Content)
		}
	}
	return b.String()
}

const reflectSystemPrompt = `You review a habit coach's draft reply before it is sent.
Score it 1-5 against this rubric: is it actionable, does it acknowledge the user's current state, is the tone right, does it stay on coaching principles, is it safe.
Reply with JSON only: {"score": <1-5>, "issues": ["<each concrete problem>"]}`

func reflectUserPrompt(message, draft string) string {
	return fmt.Sprintf("User message:\n%s\n\nDraft reply:\n%s", message, draft)
}

func refinePrompt(message, draft string, critique *Critique) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User message:\n%s\n\nYour previous draft scored %d/5. Problems found:\n", message, critique.Score)
	for _, issue := range critique.Issues {
		fmt.Fprintf(&b, "- %s\n", issue)
	}
	fmt.Fprintf(&b, "\nPrevious draft:\n%s\n\nWrite an improved reply that fixes these problems.", draft)
	return b.String()
}

const personalizeSystemPrompt = `You adapt a generic habit task to one specific user.
Keep the task's intent, shrink it to fit the user's time budget, and phrase it around their goal.
Reply with JSON only: {"title": "...", "description": "..."}`

func personalizeUserPrompt(u *user.User, title, description, taskType string) string {
	var b strings.Builder
	writeProfile(&b, u, nil)
	fmt.Fprintf(&b, "Task to adapt (%s):\nTitle: %s\nDescription: %s\n", taskType, title, description)
	return b.String()
}

const insightSystemPrompt = `You are a habit coach writing the user's single daily insight.
One or two sentences, grounded in their actual numbers, ending with a concrete suggestion. Plain text only.`

func insightUserPrompt(u *user.User, p *behavior.Profile) string {
	var b strings.Builder
	writeProfile(&b, u, p)
	fmt.Fprintf(&b, "Current streak: %d days, level %d, %d XP total.\n", u.Streak, u.Level, u.XPTotal)
	return b.String()
}

const recommendSystemPrompt = `Pick the one task this user is most likely to actually do today.
Reply with JSON only: {"taskId": "<id>", "reason": "<one short sentence>"}`

func recommendUserPrompt(p *behavior.Profile, candidates []scoring.Candidate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Tasks completed in the last 30 days: %d. Peak hour: %d:00.\n", p.TotalTasksCompleted, p.PeakActivityHour)
	b.WriteString("Candidates:\n")
	for _, c := range candidates {
		fmt.Fprintf(&b, "- id=%s type=%s score=%d title=%q\n", c.ID, c.Type, c.Score, c.Title)
	}
	return b.String()
}

const nudgeSystemPrompt = `Write one short push-notification nudge (under 140 characters) that makes this user want to do their task now. Plain text only, no quotes.`

func nudgeUserPrompt(u *user.User, p *behavior.Profile, m moment) string {
	var b strings.Builder
	writeProfile(&b, u, p)
	fmt.Fprintf(&b, "It is %s, %d:00. Tasks done today: %d. Streak: %d days.\n", m.Day, m.Hour, m.TasksDoneToday, u.Streak)
	return b.String()
}

const resilienceSystemPrompt = `The user just hit a setback. Write a short, honest, encouraging reply: acknowledge it, normalize it, and offer one tiny next step. Plain text only.`

func resilienceUserPrompt(u *user.User, setback string) string {
	var b strings.Builder
	writeProfile(&b, u, nil)
	fmt.Fprintf(&b, "Setback in the user's words: %s\n", setback)
	return b.String()
}

// writeProfile renders the shared user/profile header used by every prompt.
func writeProfile(b *strings.Builder, u *user.User, p *behavior.Profile) {
	if u.Goal != "" {
		fmt.Fprintf(b, "User goal: %s\n", u.Goal)
	}
	if u.PainPoint != "" {
		fmt.Fprintf(b, "Pain point: %s\n", u.PainPoint)
	}
	if u.TimeBudgetMinutes > 0 {
		fmt.Fprintf(b, "Daily time budget: %d minutes\n", u.TimeBudgetMinutes)
	}
	if p == nil {
		return
	}
	fmt.Fprintf(b, "Tasks completed in the last 30 days: %d\n", p.TotalTasksCompleted)
	for _, tt := range behavior.AllTaskTypes {
		fmt.Fprintf(b, "- %s: %d completed, success rate %.0f%%\n", tt, p.PreferredTaskTypes[tt], p.SuccessRateByType[tt]*100)
	}
	fmt.Fprintf(b, "Peak activity hour: %d:00\n", p.PeakActivityHour)
}
