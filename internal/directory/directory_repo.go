package directory

import (
	"context"

	"go-pto/internal/tenant"

	"gorm.io/gorm"
)

// maxChainDepth bounds the manager walk so a cyclic manager_id reference in
// the identity data cannot loop forever.
const maxChainDepth = 10

//go:generate mockgen -source=directory_repo.go -destination=mock/directory_repo_mock.go -package=mock
type Directory interface {
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Employee, error)
	BelongsToCompany(ctx context.Context, companyID, employeeID string) (bool, error)
	ManagerOf(ctx context.Context, companyID, employeeID string) (*Employee, error)
	// ManagementChain returns the employee's managers from direct manager
	// upward, nearest first.
	ManagementChain(ctx context.Context, companyID, employeeID string) ([]Employee, error)
}

type directory struct {
	db *gorm.DB
}

func NewDirectory(db *gorm.DB) Directory {
	return &directory{db: db}
}

func (d *directory) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Employee, error) {
	var emp Employee
	err := d.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&emp, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (d *directory) BelongsToCompany(ctx context.Context, companyID, employeeID string) (bool, error) {
	var count int64
	err := d.db.WithContext(ctx).
		Model(&Employee{}).
		Where("id = ?", employeeID).
		Where("company_id = ?", companyID).
		Count(&count).Error
	return count > 0, err
}

func (d *directory) ManagerOf(ctx context.Context, companyID, employeeID string) (*Employee, error) {
	emp, err := d.FindByIDAndCompany(ctx, companyID, employeeID)
	if err != nil {
		return nil, err
	}
	if emp.ManagerID == nil {
		return nil, nil
	}
	return d.FindByIDAndCompany(ctx, companyID, emp.ManagerID.String())
}

func (d *directory) ManagementChain(ctx context.Context, companyID, employeeID string) ([]Employee, error) {
	var chain []Employee

	seen := map[string]bool{employeeID: true}
	currentID := employeeID

	for depth := 0; depth < maxChainDepth; depth++ {
		mgr, err := d.ManagerOf(ctx, companyID, currentID)
		if err != nil {
			return nil, err
		}
		if mgr == nil {
			break
		}
		if seen[mgr.ID.String()] {
			break
		}
		seen[mgr.ID.String()] = true
		chain = append(chain, *mgr)
		currentID = mgr.ID.String()
	}

	return chain, nil
}
