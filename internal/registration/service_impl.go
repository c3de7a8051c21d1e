package registration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/forgehack/platform/internal/mailer"
	maildomain "github.com/forgehack/platform/internal/mailer/domain"
	"github.com/forgehack/platform/internal/registration/domain"
	"github.com/forgehack/platform/pkg/db"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const maxTeamMembers = 5

type service struct {
	repo      Repository
	genID     *snowflake.Node
	mail      maildomain.Service
	templates *mailer.Templates
	log       *zap.Logger
}

func NewService(
	repo Repository,
	genID *snowflake.Node,
	mail maildomain.Service,
	templates *mailer.Templates,
	log *zap.Logger,
) domain.Service {
	return &service{
		repo:      repo,
		genID:     genID,
		mail:      mail,
		templates: templates,
		log:       log.Named("registration"),
	}
}

// Register persists the team and its members, then sends the confirmation
// emails. Delivery runs after commit and never affects the stored team.
func (s *service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.Team, error) {
	team, err := s.buildTeam(req)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.SlugExists(ctx, team.Slug)
	if err != nil {
		return nil, fmt.Errorf("check slug: %w", err)
	}
	if exists {
		return nil, domain.ErrDuplicateTeam
	}

	if err := s.repo.Create(ctx, team); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDuplicateTeam
		}
		return nil, fmt.Errorf("create team: %w", err)
	}

	s.sendRegistrationEmails(ctx, team)
	return team, nil
}

func (s *service) buildTeam(req domain.RegisterRequest) (*domain.Team, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidRequest
	}
	if len(req.Members) > maxTeamMembers {
		return nil, domain.ErrInvalidRequest
	}
	if v := mailer.ValidateAddress(strings.TrimSpace(req.ContactEmail)); !v.Valid {
		return nil, domain.ErrInvalidEmail
	}

	team := &domain.Team{
		ID:           s.genID.Generate().String(),
		Name:         name,
		Slug:         slug.Make(name),
		ContactEmail: strings.TrimSpace(req.ContactEmail),
		Track:        strings.TrimSpace(req.Track),
		Status:       domain.StatusPending,
	}

	if req.Answers != nil {
		raw, err := json.Marshal(req.Answers)
		if err != nil {
			return nil, domain.ErrInvalidRequest
		}
		team.Answers = datatypes.JSON(raw)
	}

	for _, m := range req.Members {
		memberName := strings.TrimSpace(m.Name)
		memberEmail := strings.TrimSpace(m.Email)
		if memberName == "" {
			return nil, domain.ErrInvalidRequest
		}
		if v := mailer.ValidateAddress(memberEmail); !v.Valid {
			return nil, domain.ErrInvalidEmail
		}
		team.Members = append(team.Members, domain.TeamMember{
			ID:     s.genID.Generate().String(),
			TeamID: team.ID,
			Name:   memberName,
			Email:  memberEmail,
		})
	}

	return team, nil
}

// sendRegistrationEmails dispatches the confirmation to the contact and one
// notification per member in a single batch. Failures are logged, never
// returned: the registration already committed.
func (s *service) sendRegistrationEmails(ctx context.Context, team *domain.Team) {
	msgs := make([]*maildomain.EmailMessage, 0, len(team.Members)+1)
	msgs = append(msgs, s.templates.RegistrationConfirmation(team.ContactEmail, team.Name, team.Track))
	for _, m := range team.Members {
		msgs = append(msgs, s.templates.MemberNotification(m.Email, m.Name, team.Name))
	}

	results := s.mail.SendBatch(ctx, msgs)
	failed := 0
	for _, res := range results {
		if !res.Success {
			failed++
		}
	}
	if failed > 0 {
		s.log.Warn("some registration emails failed",
			zap.String("team_id", team.ID),
			zap.Int("failed", failed),
			zap.Int("total", len(msgs)),
		)
	}
}

// Get resolves a team by id first, then by slug.
func (s *service) Get(ctx context.Context, idOrSlug string) (*domain.Team, error) {
	team, err := s.repo.GetByID(ctx, idOrSlug)
	if err == nil {
		return team, nil
	}
	if !errors.Is(err, domain.ErrTeamNotFound) {
		return nil, err
	}
	return s.repo.GetBySlug(ctx, idOrSlug)
}

func (s *service) List(ctx context.Context, status domain.TeamStatus) ([]*domain.Team, error) {
	if status != "" && status != domain.StatusPending && !domain.ValidReviewStatus(status) {
		return nil, domain.ErrInvalidStatus
	}
	return s.repo.List(ctx, status)
}

// SetStatus records the review decision and notifies the team contact.
func (s *service) SetStatus(ctx context.Context, teamID string, status domain.TeamStatus, note string) (*domain.Team, error) {
	if !domain.ValidReviewStatus(status) {
		return nil, domain.ErrInvalidStatus
	}

	if err := s.repo.UpdateStatus(ctx, teamID, status); err != nil {
		return nil, err
	}

	team, err := s.repo.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}

	msg := s.templates.StatusUpdate(team.ContactEmail, team.Name, strings.ToLower(string(status)), note)
	if res := s.mail.Send(ctx, msg); !res.Success {
		s.log.Warn("status update email failed",
			zap.String("team_id", team.ID),
			zap.String("error", res.Error),
		)
	}
	return team, nil
}
