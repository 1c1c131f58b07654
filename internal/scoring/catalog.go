package scoring

import (
	"gorm.io/gorm"

	"easymode/internal/behavior"
)

// AvailableTask is a row of the candidate-task catalog.
type AvailableTask struct {
	ID               string `gorm:"primaryKey;size:64" json:"id"`
	Title            string `gorm:"size:256" json:"title"`
	Description      string `gorm:"size:1024" json:"description"`
	Type             string `gorm:"size:16;index" json:"type"`
	Category         string `gorm:"size:64" json:"category"`
	EstimatedMinutes int    `json:"estimatedMinutes"`
}

// Candidate converts a catalog row into a scoring candidate.
func (a AvailableTask) Candidate() Candidate {
	return Candidate{
		ID:               a.ID,
		Title:            a.Title,
		Description:      a.Description,
		Type:             behavior.TaskType(a.Type),
		Category:         a.Category,
		EstimatedMinutes: a.EstimatedMinutes,
	}
}

// LoadCandidates reads the whole catalog in insertion order.
func LoadCandidates(dbc *gorm.DB) ([]Candidate, error) {
	var rows []AvailableTask
	if err := dbc.Order("id asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	candidates := make([]Candidate, 0, len(rows))
	for _, row := range rows {
		candidates = append(candidates, row.Candidate())
	}
	return candidates, nil
}
