package domain

import (
	"context"
	"errors"
)

type Service interface {
	Submit(ctx context.Context, req SubmitRequest) (*Score, error)
	TeamScores(ctx context.Context, teamID string) ([]*Score, error)
	Leaderboard(ctx context.Context) ([]LeaderboardEntry, error)
}

type SubmitRequest struct {
	TeamID       string `json:"team_id"`
	JudgeID      string `json:"judge_id"`
	Innovation   int    `json:"innovation"`
	Execution    int    `json:"execution"`
	Presentation int    `json:"presentation"`
	Notes        string `json:"notes"`
}

var (
	ErrInvalidSubmission = errors.New("invalid score submission")
	ErrScoreOutOfRange   = errors.New("scores must be between 0 and 10")
)
