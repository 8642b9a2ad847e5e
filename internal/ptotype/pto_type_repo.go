package ptotype

import (
	"context"
	"database/sql"

	"go-pto/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=pto_type_repo.go -destination=mock/pto_type_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, t *PtoType) error
	FindAllByCompany(ctx context.Context, companyID string) ([]PtoType, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*PtoType, error)
	Update(ctx context.Context, t *PtoType) error
	Delete(ctx context.Context, companyID, id string) error
	ReplaceApprovers(ctx context.Context, typeID string, approvers []TypeApprover) error
	// InUse reports whether any policy, balance or request references the type.
	InUse(ctx context.Context, companyID, id string) (bool, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, t *PtoType) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]PtoType, error) {
	var types []PtoType
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("SpecificApprovers", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC")
		}).
		Order("sort_order ASC, name ASC").
		Find(&types).Error
	return types, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*PtoType, error) {
	var t PtoType
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("SpecificApprovers", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC")
		}).
		First(&t, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repository) Update(ctx context.Context, t *PtoType) error {
	return r.db.WithContext(ctx).Omit("SpecificApprovers").Save(t).Error
}

func (r *repository) Delete(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&PtoType{}, "id = ?", id).Error
}

func (r *repository) ReplaceApprovers(ctx context.Context, typeID string, approvers []TypeApprover) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("pto_type_id = ?", typeID).Delete(&TypeApprover{}).Error; err != nil {
			return err
		}
		if len(approvers) == 0 {
			return nil
		}
		return tx.Create(&approvers).Error
	})
}

func (r *repository) InUse(ctx context.Context, companyID, id string) (bool, error) {
	for _, table := range []string{"pto_policies", "pto_balances", "pto_requests"} {
		var count int64
		err := r.db.WithContext(ctx).
			Table(table).
			Where("company_id = ?", companyID).
			Where("pto_type_id = ?", id).
			Count(&count).Error
		if err != nil {
			return false, err
		}
		if count > 0 {
			return true, nil
		}
	}
	return false, nil
}
