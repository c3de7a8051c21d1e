package domain

import "time"

// Score is one judge's evaluation of one team. A judge resubmitting for the
// same team replaces their previous score; the newest submission wins.
type Score struct {
	ID           string    `gorm:"primaryKey;size:32" json:"id"`
	TeamID       string    `gorm:"size:32;index:idx_scores_team_judge,unique" json:"team_id"`
	JudgeID      string    `gorm:"size:128;index:idx_scores_team_judge,unique" json:"judge_id"`
	Innovation   int       `json:"innovation"`
	Execution    int       `json:"execution"`
	Presentation int       `json:"presentation"`
	Total        int       `json:"total"`
	Notes        string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Score) TableName() string { return "scores" }

// LeaderboardEntry is a team's aggregate standing across all judges.
type LeaderboardEntry struct {
	TeamID   string `json:"team_id"`
	TeamName string `json:"team_name"`
	TeamSlug string `json:"team_slug"`
	Total    int    `json:"total"`
	Judges   int    `json:"judges"`
}
