package agent

import (
	"fmt"
	"strings"

	"easymode/internal/behavior"
	"easymode/internal/user"
)

const planSystemPrompt = `You are a habit-building coach planning a 4-week program.
Use the tools to build the plan:
- Call create_milestone exactly 4 times, once per week (week_number 1 to 4).
- Call create_daily_task for each day of the week currently being planned (7 tasks).
- Call adjust_difficulty at most once, only if the user's completion history clearly warrants easing or raising difficulty.
Keep tasks small and concrete. Balance action, audacity and enjoy task types across the week.
When you are done calling tools, reply with a short summary of your reasoning in plain text.`

func planUserPrompt(u *user.User, p *behavior.Profile, weekNumber, pendingDifficulty int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Plan week %d of 4.\n", weekNumber)
	if u.Goal != "" {
		fmt.Fprintf(&b, "Goal: %s\n", u.Goal)
	}
	if u.PainPoint != "" {
		fmt.Fprintf(&b, "Pain point: %s\n", u.PainPoint)
	}
	if u.TimeBudgetMinutes > 0 {
		fmt.Fprintf(&b, "Daily time budget: %d minutes\n", u.TimeBudgetMinutes)
	}
	fmt.Fprintf(&b, "Completed tasks in the last 30 days: %d\n", p.TotalTasksCompleted)
	for _, tt := range behavior.AllTaskTypes {
		fmt.Fprintf(&b, "- %s: %d completed, success rate %.0f%%\n",
			tt, p.PreferredTaskTypes[tt], p.SuccessRateByType[tt]*100)
	}
	fmt.Fprintf(&b, "Peak activity hour: %d:00\n", p.PeakActivityHour)
	if pendingDifficulty > 0 {
		fmt.Fprintf(&b, "A previous weekly review set the difficulty target to %d.\n", pendingDifficulty)
	}
	return b.String()
}
