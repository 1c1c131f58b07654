package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"easymode/internal/behavior"
	"easymode/internal/llm"
	"easymode/internal/trace"
	"easymode/internal/user"
)

// ErrPlanGeneration marks an LLM failure during plan generation. Unlike
// the coaching endpoints there is no partial-plan fallback: the error
// surfaces to the caller.
var ErrPlanGeneration = errors.New("plan generation failed")

// DefaultDifficulty applies when no adjustment fires during generation.
const DefaultDifficulty = 3

// Planner generates and adapts weekly plans.
type Planner struct {
	db    *gorm.DB
	llm   llm.ToolCaller
	trace *trace.Client
}

func NewPlanner(dbc *gorm.DB, tc llm.ToolCaller, tr *trace.Client) *Planner {
	return &Planner{db: dbc, llm: tc, trace: tr}
}

// PlanResult is the generation outcome. Source is "generated" or "cached";
// Steps counts executed tool calls (including daily tasks that end up
// dropped because no milestone matched the requested week).
type PlanResult struct {
	Plan   *WeeklyPlan `json:"plan"`
	Source string      `json:"source"`
	Steps  int         `json:"steps"`
}

// planAccumulator collects what the model builds through tool calls.
type planAccumulator struct {
	milestones []WeeklyMilestone
	tasks      []DailyPlanTask
	adjustment *Adjustment
}

// GeneratePlan runs the planning state machine:
// gather context -> milestone loop -> assign current-week tasks -> persist.
func (p *Planner) GeneratePlan(ctx context.Context, userID uint, weekNumber int, force bool, now time.Time) (*PlanResult, error) {
	// GATHER_CONTEXT: user profile (missing user degrades to empty
	// defaults), cached-plan short circuit, behavior profile.
	var u user.User
	if err := p.db.First(&u, userID).Error; err != nil {
		log.Printf("[Agent] User %d not found, planning with empty profile", userID)
		u = user.User{ID: userID}
	}

	var existing WeeklyPlan
	found := p.db.Where("user_id = ? AND week_number = ?", userID, weekNumber).
		First(&existing).Error == nil
	if found && !force {
		return &PlanResult{Plan: &existing, Source: "cached"}, nil
	}

	profile, err := behavior.AnalyzeUser(p.db, userID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to build behavior profile: %w", err)
	}
	pendingDifficulty := p.pendingDifficulty(userID)

	tr := p.trace.StartTrace("weekly_plan", userID, map[string]interface{}{
		"weekNumber": weekNumber,
		"goal":       u.Goal,
	})

	// MILESTONE_LOOP: bounded tool-calling loop over the three plan tools.
	acc := &planAccumulator{}
	messages := []llm.Message{
		{Role: "system", Content: planSystemPrompt},
		{Role: "user", Content: planUserPrompt(&u, profile, weekNumber, pendingDifficulty)},
	}
	reasoning, steps, err := RunLoop(ctx, p.llm, messages, planTools(), acc.registry(), MaxLoopIterations)
	if err != nil {
		tr.Update(map[string]interface{}{"error": err.Error()})
		tr.End()
		p.flushTraces()
		return nil, fmt.Errorf("%w: %v", ErrPlanGeneration, err)
	}

	// ASSIGN_CURRENT_WEEK_TASKS: tasks attach to the milestone matching the
	// requested week. With no matching milestone they are silently dropped
	// from the stored plan but still counted in Steps.
	for i := range acc.milestones {
		if acc.milestones[i].WeekNumber == weekNumber {
			acc.milestones[i].DailyTasks = acc.tasks
			break
		}
	}

	// PERSIST: Monday-Sunday bounds around now; difficulty comes from the
	// adjustment if one fired, else the stash left by replanning, else 3.
	monday, sunday := WeekBounds(now)
	difficulty := DefaultDifficulty
	if pendingDifficulty > 0 {
		difficulty = clampDifficulty(pendingDifficulty)
	}
	var history []Adjustment
	if acc.adjustment != nil {
		adj := *acc.adjustment
		adj.Date = now.Format(isoDate)
		if adj.NewDifficulty > 0 {
			difficulty = clampDifficulty(adj.NewDifficulty)
		}
		history = append(history, adj)
	}

	plan := WeeklyPlan{
		ID:                uuid.New().String(),
		UserID:            userID,
		WeekNumber:        weekNumber,
		StartDate:         monday.Format(isoDate),
		EndDate:           sunday.Format(isoDate),
		UserGoal:          u.Goal,
		Milestones:        acc.milestones,
		CurrentMilestone:  weekNumber,
		DifficultyLevel:   difficulty,
		AdjustmentHistory: history,
		AgentReasoning:    reasoning,
	}
	if found {
		plan.ID = existing.ID
		plan.CreatedAt = existing.CreatedAt
		if err := p.db.Save(&plan).Error; err != nil {
			return nil, fmt.Errorf("failed to update plan: %w", err)
		}
	} else if err := p.db.Create(&plan).Error; err != nil {
		return nil, fmt.Errorf("failed to persist plan: %w", err)
	}

	tr.Update(map[string]interface{}{
		"milestones": len(plan.Milestones),
		"steps":      steps,
		"difficulty": difficulty,
	})
	tr.End()
	p.flushTraces()

	return &PlanResult{Plan: &plan, Source: "generated", Steps: steps}, nil
}

// pendingDifficulty returns the difficulty target stashed by the most
// recent adaptive adjustment, 0 when there is none.
func (p *Planner) pendingDifficulty(userID uint) int {
	var latest WeeklyPlan
	if err := p.db.Where("user_id = ?", userID).
		Order("week_number desc").First(&latest).Error; err != nil {
		return 0
	}
	if len(latest.AdjustmentHistory) == 0 {
		return 0
	}
	return latest.AdjustmentHistory[len(latest.AdjustmentHistory)-1].NewDifficulty
}

func (p *Planner) flushTraces() {
	trace.BestEffort("plan trace flush", trace.FlushTimeout, func(ctx context.Context) error {
		return p.trace.Flush(ctx)
	})
}

// registry wires the three plan tools to the accumulator.
func (acc *planAccumulator) registry() Registry {
	return Registry{
		"create_milestone": func(args json.RawMessage) (string, error) {
			var in struct {
				WeekNumber      int    `json:"week_number"`
				Title           string `json:"title"`
				Description     string `json:"description"`
				FocusArea       string `json:"focus_area"`
				DifficultyLevel int    `json:"difficulty_level"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return "", fmt.Errorf("invalid milestone arguments: %w", err)
			}
			acc.milestones = append(acc.milestones, WeeklyMilestone{
				WeekNumber:      in.WeekNumber,
				Title:           in.Title,
				Description:     in.Description,
				FocusArea:       in.FocusArea,
				DifficultyLevel: clampDifficulty(in.DifficultyLevel),
			})
			return fmt.Sprintf("Milestone recorded for week %d: %s", in.WeekNumber, in.Title), nil
		},
		"create_daily_task": func(args json.RawMessage) (string, error) {
			var in struct {
				DayOfWeek        string `json:"day_of_week"`
				Title            string `json:"title"`
				Type             string `json:"type"`
				EstimatedMinutes int    `json:"estimated_minutes"`
				Difficulty       int    `json:"difficulty"`
				WhyToday         string `json:"why_today"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return "", fmt.Errorf("invalid daily task arguments: %w", err)
			}
			acc.tasks = append(acc.tasks, DailyPlanTask{
				DayOfWeek:        in.DayOfWeek,
				Title:            in.Title,
				Type:             in.Type,
				EstimatedMinutes: in.EstimatedMinutes,
				Difficulty:       clampDifficulty(in.Difficulty),
				WhyToday:         in.WhyToday,
			})
			return fmt.Sprintf("Daily task recorded for %s: %s", in.DayOfWeek, in.Title), nil
		},
		"adjust_difficulty": func(args json.RawMessage) (string, error) {
			var in struct {
				AdjustmentType      string `json:"adjustment_type"`
				Reason              string `json:"reason"`
				NewDifficultyTarget int    `json:"new_difficulty_target"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return "", fmt.Errorf("invalid adjustment arguments: %w", err)
			}
			acc.adjustment = &Adjustment{
				Type:          AdjustmentType(in.AdjustmentType),
				Reason:        in.Reason,
				NewDifficulty: in.NewDifficultyTarget,
			}
			return fmt.Sprintf("Difficulty adjustment recorded: %s", in.AdjustmentType), nil
		},
	}
}

func planTools() []llm.Tool {
	intProp := func(desc string) map[string]interface{} {
		return map[string]interface{}{"type": "integer", "description": desc}
	}
	strProp := func(desc string) map[string]interface{} {
		return map[string]interface{}{"type": "string", "description": desc}
	}
	enumProp := func(desc string, values ...string) map[string]interface{} {
		return map[string]interface{}{"type": "string", "description": desc, "enum": values}
	}
	return []llm.Tool{
		llm.NewTool("create_milestone", "Record one weekly milestone of the 4-week plan.",
			map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"week_number":      intProp("Week number, 1 to 4"),
					"title":            strProp("Short milestone title"),
					"description":      strProp("What this week builds toward"),
					"focus_area":       enumProp("Primary focus", "action", "audacity", "enjoyment"),
					"difficulty_level": intProp("Difficulty, 1 to 5"),
				},
				"required": []string{"week_number", "title", "description", "focus_area", "difficulty_level"},
			}),
		llm.NewTool("create_daily_task", "Record one daily task for the week being planned.",
			map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"day_of_week":       enumProp("Day", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"),
					"title":             strProp("Task title"),
					"type":              enumProp("Task type", "action", "audacity", "enjoy"),
					"estimated_minutes": intProp("Time estimate in minutes"),
					"difficulty":        intProp("Difficulty, 1 to 5"),
					"why_today":         strProp("Why this task fits this day"),
				},
				"required": []string{"day_of_week", "title", "type", "estimated_minutes", "difficulty", "why_today"},
			}),
		llm.NewTool("adjust_difficulty", "Adjust overall plan difficulty based on the user's history. Call at most once.",
			map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"adjustment_type":       enumProp("Direction", "simplify", "maintain", "increase"),
					"reason":                strProp("Why the adjustment is warranted"),
					"new_difficulty_target": intProp("Target difficulty, 1 to 5"),
				},
				"required": []string{"adjustment_type", "reason"},
			}),
	}
}
