package memory

import (
	"time"

	"gorm.io/datatypes"
)

// Kind categorizes a memory entry.
type Kind string

const (
	KindConversation Kind = "conversation"
	KindAchievement  Kind = "achievement"
	KindSetback      Kind = "setback"
	KindInsight      Kind = "insight"
	KindPreference   Kind = "preference"
)

// Entry is one salient user event. The journal is append-only: the core
// never edits or deletes an entry, only scores and ranks at read time.
type Entry struct {
	ID         string            `gorm:"primaryKey;size:36" json:"id"`
	UserID     uint              `gorm:"index" json:"userId"`
	Type       Kind              `gorm:"size:16" json:"type"`
	Content    string            `gorm:"size:4096" json:"content"`
	Metadata   datatypes.JSONMap `json:"metadata"`
	Importance int               `json:"importance"` // 1..5
	CreatedAt  time.Time         `gorm:"index" json:"createdAt"`
}
