package judging

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/forgehack/platform/internal/cache"
	"github.com/forgehack/platform/internal/judging/domain"
	"github.com/forgehack/platform/internal/ratelimit"
	regdomain "github.com/forgehack/platform/internal/registration/domain"
	"github.com/forgehack/platform/pkg/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	minCriterion = 0
	maxCriterion = 10

	submitLockTTL = 5 * time.Second

	leaderboardKey = "leaderboard"
	leaderboardTTL = 15 * time.Second
)

type service struct {
	scores repository.Repository[domain.Score]
	db     *gorm.DB
	teams  regdomain.Service
	locker *ratelimit.Locker
	genID  *snowflake.Node
	board  cache.Cache[string, []domain.LeaderboardEntry]
	log    *zap.Logger
}

func NewService(
	db *gorm.DB,
	teams regdomain.Service,
	locker *ratelimit.Locker,
	genID *snowflake.Node,
	log *zap.Logger,
) domain.Service {
	return &service{
		scores: repository.ProvideStore[domain.Score](db),
		db:     db,
		teams:  teams,
		locker: locker,
		genID:  genID,
		board:  cache.NewTTLCache[string, []domain.LeaderboardEntry](),
		log:    log.Named("judging"),
	}
}

// Submit records a judge's score for a team. A resubmission by the same
// judge overwrites the previous row; the lock serializes the replace across
// instances so the newest submission is the one that sticks.
func (s *service) Submit(ctx context.Context, req domain.SubmitRequest) (*domain.Score, error) {
	teamID := strings.TrimSpace(req.TeamID)
	judgeID := strings.TrimSpace(req.JudgeID)
	if teamID == "" || judgeID == "" {
		return nil, domain.ErrInvalidSubmission
	}
	for _, v := range []int{req.Innovation, req.Execution, req.Presentation} {
		if v < minCriterion || v > maxCriterion {
			return nil, domain.ErrScoreOutOfRange
		}
	}

	// Surface ErrTeamNotFound before writing anything.
	if _, err := s.teams.Get(ctx, teamID); err != nil {
		return nil, err
	}

	lockKey := fmt.Sprintf("judging:%s:%s", teamID, judgeID)
	if token, ok, err := s.locker.TryLock(ctx, lockKey, submitLockTTL); err == nil && ok {
		defer func() {
			if rerr := s.locker.Release(ctx, lockKey, token); rerr != nil {
				s.log.Warn("failed to release submit lock", zap.String("key", lockKey), zap.Error(rerr))
			}
		}()
	} else if err != nil {
		// Lock service unavailable: proceed unlocked rather than refusing
		// the submission.
		s.log.Warn("submit lock unavailable", zap.Error(err))
	}

	total := req.Innovation + req.Execution + req.Presentation

	existing, err := s.scores.FindOne(ctx, &domain.Score{TeamID: teamID, JudgeID: judgeID})
	if err != nil {
		return nil, fmt.Errorf("find score: %w", err)
	}
	if existing != nil {
		update := map[string]any{
			"innovation":   req.Innovation,
			"execution":    req.Execution,
			"presentation": req.Presentation,
			"total":        total,
			"notes":        req.Notes,
		}
		if err := s.scores.Update(ctx, existing.ID, update); err != nil {
			return nil, fmt.Errorf("update score: %w", err)
		}
		s.board.Delete(leaderboardKey)
		return s.scores.FindOne(ctx, &domain.Score{ID: existing.ID})
	}

	score := &domain.Score{
		ID:           s.genID.Generate().String(),
		TeamID:       teamID,
		JudgeID:      judgeID,
		Innovation:   req.Innovation,
		Execution:    req.Execution,
		Presentation: req.Presentation,
		Total:        total,
		Notes:        req.Notes,
	}
	if err := s.scores.Create(ctx, score); err != nil {
		return nil, fmt.Errorf("create score: %w", err)
	}
	s.board.Delete(leaderboardKey)
	return score, nil
}

func (s *service) TeamScores(ctx context.Context, teamID string) ([]*domain.Score, error) {
	if _, err := s.teams.Get(ctx, teamID); err != nil {
		return nil, err
	}
	return s.scores.Find(ctx, &domain.Score{TeamID: teamID})
}

// Leaderboard aggregates every judge's score per team, highest total first.
// Results are cached briefly; submissions invalidate the cache.
func (s *service) Leaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	if cached, ok := s.board.Get(leaderboardKey); ok {
		return cached, nil
	}

	var entries []domain.LeaderboardEntry
	err := s.db.WithContext(ctx).
		Table("scores").
		Select("scores.team_id AS team_id, teams.name AS team_name, teams.slug AS team_slug, SUM(scores.total) AS total, COUNT(scores.id) AS judges").
		Joins("JOIN teams ON teams.id = scores.team_id").
		Group("scores.team_id, teams.name, teams.slug").
		Order("total DESC").
		Scan(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	s.board.Set(leaderboardKey, entries, leaderboardTTL)
	return entries, nil
}
