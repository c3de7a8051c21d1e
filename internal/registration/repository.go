package registration

import (
	"context"
	"errors"

	"github.com/forgehack/platform/internal/registration/domain"
	"gorm.io/gorm"
)

// Repository is the registration-specific persistence surface. Teams always
// load with their members.
type Repository interface {
	Create(ctx context.Context, team *domain.Team) error
	GetByID(ctx context.Context, id string) (*domain.Team, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Team, error)
	List(ctx context.Context, status domain.TeamStatus) ([]*domain.Team, error)
	UpdateStatus(ctx context.Context, id string, status domain.TeamStatus) error
	SlugExists(ctx context.Context, slug string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Create writes the team and its members in one transaction; gorm persists
// the association rows with the parent.
func (r *repository) Create(ctx context.Context, team *domain.Team) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(team).Error
	})
}

func (r *repository) GetByID(ctx context.Context, id string) (*domain.Team, error) {
	return r.getBy(ctx, "id = ?", id)
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (*domain.Team, error) {
	return r.getBy(ctx, "slug = ?", slug)
}

func (r *repository) getBy(ctx context.Context, cond string, arg string) (*domain.Team, error) {
	var team domain.Team
	err := r.db.WithContext(ctx).Preload("Members").Where(cond, arg).First(&team).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrTeamNotFound
	}
	if err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *repository) List(ctx context.Context, status domain.TeamStatus) ([]*domain.Team, error) {
	q := r.db.WithContext(ctx).Preload("Members").Order("created_at ASC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var teams []*domain.Team
	if err := q.Find(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id string, status domain.TeamStatus) error {
	res := r.db.WithContext(ctx).Model(&domain.Team{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrTeamNotFound
	}
	return nil
}

func (r *repository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Team{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}
