package blackout

import (
	"context"
	"time"

	"go-pto/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=blackout_repo.go -destination=mock/blackout_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, b *PtoBlackout) error
	FindAllByCompany(ctx context.Context, companyID string) ([]PtoBlackout, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*PtoBlackout, error)
	Update(ctx context.Context, b *PtoBlackout) error
	Delete(ctx context.Context, companyID, id string) error
	// FindOverlapping returns active blackouts whose range intersects
	// [startDate, endDate], inclusive on both ends.
	FindOverlapping(ctx context.Context, companyID string, startDate, endDate time.Time) ([]PtoBlackout, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, b *PtoBlackout) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]PtoBlackout, error) {
	var blackouts []PtoBlackout
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("start_date ASC").
		Find(&blackouts).Error
	return blackouts, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*PtoBlackout, error) {
	var b PtoBlackout
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&b, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) Update(ctx context.Context, b *PtoBlackout) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *repository) Delete(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&PtoBlackout{}, "id = ?", id).Error
}

func (r *repository) FindOverlapping(ctx context.Context, companyID string, startDate, endDate time.Time) ([]PtoBlackout, error) {
	var blackouts []PtoBlackout
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("is_active = ?", true).
		Where("start_date <= ? AND end_date >= ?", endDate, startDate).
		Order("start_date ASC").
		Find(&blackouts).Error
	return blackouts, err
}
