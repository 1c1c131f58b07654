package behavior

// Analyze aggregates a user's trailing-30-day history into a Profile in a
// single pass. It is pure: the caller supplies the window slices.
//
// A task completion counts as both an attempt and a success for its type.
// Audacity attempts contribute an attempt, and a success only when their
// outcome is "success".
func Analyze(tasks []TaskRecord, attempts []AttemptRecord) *Profile {
	p := &Profile{
		PreferredTaskTypes:  make(map[TaskType]int),
		PreferredCategories: make(map[string]int),
		SuccessRateByType:   make(map[TaskType]float64),
		RecentTaskIDs:       make(map[string]struct{}),
		PeakActivityHour:    DefaultPeakHour,
	}
	attemptCount := make(map[TaskType]int)
	successCount := make(map[TaskType]int)
	for _, tt := range AllTaskTypes {
		p.PreferredTaskTypes[tt] = 0
		p.SuccessRateByType[tt] = 0
		attemptCount[tt] = 0
		successCount[tt] = 0
	}

	var hourHistogram [24]int
	haveHours := false
	var totalDuration float64

	for _, t := range tasks {
		p.PreferredTaskTypes[t.Type]++
		if t.Category != "" {
			p.PreferredCategories[t.Category]++
		}
		if t.TaskID != "" {
			p.RecentTaskIDs[t.TaskID] = struct{}{}
		}
		attemptCount[t.Type]++
		successCount[t.Type]++
		totalDuration += t.DurationSeconds
		if t.CompletedAt != nil {
			hourHistogram[t.CompletedAt.Hour()]++
			haveHours = true
		}
	}

	for _, a := range attempts {
		attemptCount[TypeAudacity]++
		if a.Outcome == "success" {
			successCount[TypeAudacity]++
		}
		if a.AttemptDate != nil {
			hourHistogram[a.AttemptDate.Hour()]++
			haveHours = true
		}
	}

	for _, tt := range AllTaskTypes {
		if attemptCount[tt] > 0 {
			p.SuccessRateByType[tt] = float64(successCount[tt]) / float64(attemptCount[tt])
		}
	}

	p.TotalTasksCompleted = len(tasks)
	if len(tasks) > 0 {
		p.AvgCompletionTime = totalDuration / float64(len(tasks))
	}

	// Peak hour: argmax over the histogram. Ties break toward the smallest
	// hour (iteration is in ascending hour order, strict > keeps the first).
	if haveHours {
		peak, peakCount := 0, 0
		for hour, count := range hourHistogram {
			if count > peakCount {
				peak, peakCount = hour, count
			}
		}
		p.PeakActivityHour = peak
	}

	return p
}
