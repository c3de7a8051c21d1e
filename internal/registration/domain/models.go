package domain

import (
	"time"

	"gorm.io/datatypes"
)

// TeamStatus is the review lifecycle of an application.
type TeamStatus string

const (
	StatusPending    TeamStatus = "PENDING"
	StatusApproved   TeamStatus = "APPROVED"
	StatusRejected   TeamStatus = "REJECTED"
	StatusWaitlisted TeamStatus = "WAITLISTED"
)

// ValidReviewStatus reports whether s is a status an organizer may assign.
func ValidReviewStatus(s TeamStatus) bool {
	switch s {
	case StatusApproved, StatusRejected, StatusWaitlisted:
		return true
	default:
		return false
	}
}

type Team struct {
	ID           string         `gorm:"primaryKey;size:32" json:"id"`
	Name         string         `gorm:"size:128" json:"name"`
	Slug         string         `gorm:"size:160;uniqueIndex" json:"slug"`
	ContactEmail string         `gorm:"size:320" json:"contact_email"`
	Track        string         `gorm:"size:64" json:"track"`
	Status       TeamStatus     `gorm:"size:16;index" json:"status"`
	Answers      datatypes.JSON `json:"answers,omitempty"`
	Members      []TeamMember   `gorm:"foreignKey:TeamID" json:"members"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func (Team) TableName() string { return "teams" }

type TeamMember struct {
	ID        string    `gorm:"primaryKey;size:32" json:"id"`
	TeamID    string    `gorm:"size:32;index" json:"team_id"`
	Name      string    `gorm:"size:128" json:"name"`
	Email     string    `gorm:"size:320" json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func (TeamMember) TableName() string { return "team_members" }
