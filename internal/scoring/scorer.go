package scoring

import (
	"fmt"
	"math"
	"sort"

	"easymode/internal/behavior"
)

// Candidate is one available task being evaluated for a specific user at a
// specific moment. Score is a signed accumulator: no clamping is applied,
// so values below 0 or above 100 are legitimate.
type Candidate struct {
	ID               string            `json:"id"`
	Title            string            `json:"title"`
	Description      string            `json:"description"`
	Type             behavior.TaskType `json:"type"`
	Category         string            `json:"category,omitempty"`
	EstimatedMinutes int               `json:"estimatedMinutes"`
	Score            int               `json:"score"`
	ScoreReasons     []string          `json:"scoreReasons"`
}

// Scoring constants. The rule order in ScoreTasks is load-bearing: reasons
// accumulate in the order the rules fire.
const (
	baseScore            = 50
	recentPenalty        = 30
	preferredTypeBonus   = 15
	highSuccessBonus     = 10
	buildingSkillPenalty = 5
	categoryBonus        = 10
	peakHourBonus        = 5
	durationMatchBonus   = 5
	varietyBonus         = 8

	preferredTypeThreshold = 3
	highSuccessRate        = 0.7
	lowSuccessRate         = 0.3
	minTasksForSkillRule   = 5
	categoryThreshold      = 2
	peakHourWindow         = 2
	durationMatchSeconds   = 120
	varietyMinCompletions  = 10
	varietyMaxShare        = 0.2
)

// ScoreTasks ranks candidates against a behavior profile. The heuristic is
// deterministic; ties keep their input order (sort is stable), which keeps
// two identical invocations byte-for-byte reproducible.
func ScoreTasks(candidates []Candidate, p *behavior.Profile, currentHour int) []Candidate {
	scored := make([]Candidate, len(candidates))
	copy(scored, candidates)

	for i := range scored {
		scoreCandidate(&scored[i], p, currentHour)
	}

	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].Score > scored[b].Score
	})
	return scored
}

func scoreCandidate(c *Candidate, p *behavior.Profile, currentHour int) {
	c.Score = baseScore
	c.ScoreReasons = nil

	if _, recent := p.RecentTaskIDs[c.ID]; recent {
		c.Score -= recentPenalty
		c.ScoreReasons = append(c.ScoreReasons, "Recently completed")
	}

	if p.PreferredTaskTypes[c.Type] > preferredTypeThreshold {
		c.Score += preferredTypeBonus
		c.ScoreReasons = append(c.ScoreReasons, fmt.Sprintf("User prefers %s tasks", c.Type))
	}

	rate := p.SuccessRateByType[c.Type]
	if rate > highSuccessRate {
		c.Score += highSuccessBonus
		c.ScoreReasons = append(c.ScoreReasons, fmt.Sprintf("High success rate with %s", c.Type))
	} else if rate < lowSuccessRate && p.TotalTasksCompleted > minTasksForSkillRule {
		c.Score -= buildingSkillPenalty
		c.ScoreReasons = append(c.ScoreReasons, fmt.Sprintf("Building skills in %s", c.Type))
	}

	if c.Category != "" && p.PreferredCategories[c.Category] > categoryThreshold {
		c.Score += categoryBonus
		c.ScoreReasons = append(c.ScoreReasons, fmt.Sprintf("Enjoys %s category", c.Category))
	}

	if abs(currentHour-p.PeakActivityHour) <= peakHourWindow {
		c.Score += peakHourBonus
		c.ScoreReasons = append(c.ScoreReasons, "Peak activity time")
	}

	if p.AvgCompletionTime > 0 &&
		math.Abs(float64(c.EstimatedMinutes*60)-p.AvgCompletionTime) < durationMatchSeconds {
		c.Score += durationMatchBonus
		c.ScoreReasons = append(c.ScoreReasons, "Matches typical task duration")
	}

	total := 0
	for _, count := range p.PreferredTaskTypes {
		total += count
	}
	if total > varietyMinCompletions &&
		float64(p.PreferredTaskTypes[c.Type])/float64(total) < varietyMaxShare {
		c.Score += varietyBonus
		c.ScoreReasons = append(c.ScoreReasons, fmt.Sprintf("Encourages variety with %s", c.Type))
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
