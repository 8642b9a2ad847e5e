package policy

import (
	"context"

	"go-pto/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=policy_repo.go -destination=mock/policy_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, p *PtoPolicy) error
	FindAllByCompany(ctx context.Context, companyID string) ([]PtoPolicy, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*PtoPolicy, error)
	// FindActive returns the single active policy for (user, type), or
	// gorm.ErrRecordNotFound.
	FindActive(ctx context.Context, companyID, userID, ptoTypeID string) (*PtoPolicy, error)
	ListActiveByCompany(ctx context.Context, companyID string) ([]PtoPolicy, error)
	Update(ctx context.Context, p *PtoPolicy) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *PtoPolicy) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]PtoPolicy, error) {
	var policies []PtoPolicy
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("created_at DESC").
		Find(&policies).Error
	return policies, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*PtoPolicy, error) {
	var p PtoPolicy
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) FindActive(ctx context.Context, companyID, userID, ptoTypeID string) (*PtoPolicy, error) {
	var p PtoPolicy
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("user_id = ? AND pto_type_id = ? AND is_active = ?", userID, ptoTypeID, true).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) ListActiveByCompany(ctx context.Context, companyID string) ([]PtoPolicy, error) {
	var policies []PtoPolicy
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("is_active = ?", true).
		Order("user_id ASC, pto_type_id ASC").
		Find(&policies).Error
	return policies, err
}

func (r *repository) Update(ctx context.Context, p *PtoPolicy) error {
	return r.db.WithContext(ctx).Save(p).Error
}
