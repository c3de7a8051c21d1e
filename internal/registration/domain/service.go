package domain

import (
	"context"
	"errors"
)

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*Team, error)
	Get(ctx context.Context, idOrSlug string) (*Team, error)
	List(ctx context.Context, status TeamStatus) ([]*Team, error)
	SetStatus(ctx context.Context, teamID string, status TeamStatus, note string) (*Team, error)
}

type RegisterRequest struct {
	Name         string         `json:"name"`
	ContactEmail string         `json:"contact_email"`
	Track        string         `json:"track"`
	Answers      map[string]any `json:"answers"`
	Members      []MemberInput  `json:"members"`
}

type MemberInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

var (
	ErrInvalidRequest = errors.New("invalid registration request")
	ErrInvalidEmail   = errors.New("invalid email address")
	ErrTeamNotFound   = errors.New("team not found")
	ErrDuplicateTeam  = errors.New("a team with this name is already registered")
	ErrInvalidStatus  = errors.New("invalid review status")
)
