package user

import (
	"time"

	"gorm.io/datatypes"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Badge is an earned achievement, stored denormalized on the user row
// (array-union semantics: a badge id is appended at most once).
type Badge struct {
	BadgeID  string `json:"badgeId"`
	EarnedAt string `json:"earnedAt"`
}

type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"uniqueIndex;size:32;not null" json:"username"`
	PasswordHash string `gorm:"size:128;not null" json:"-"`
	Role         Role   `gorm:"type:varchar(10);not null;default:'user'" json:"role"`

	// Coaching profile
	Goal              string `gorm:"size:512" json:"goal"`
	PainPoint         string `gorm:"size:512" json:"painPoint"`
	TimeBudgetMinutes int    `json:"timeBudgetMinutes"`

	// Progress
	XPTotal      int                        `json:"xpTotal"`
	Level        int                        `gorm:"default:1" json:"level"`
	Streak       int                        `json:"streak"`
	LastActivity *time.Time                 `json:"lastActivity"`
	Badges       datatypes.JSONSlice[Badge] `json:"badges"`

	// Notifications
	NotificationsEnabled bool   `json:"notificationsEnabled"`
	FCMToken             string `gorm:"size:512" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasBadge reports whether the user already earned the given badge.
func (u *User) HasBadge(badgeID string) bool {
	for _, b := range u.Badges {
		if b.BadgeID == badgeID {
			return true
		}
	}
	return false
}
