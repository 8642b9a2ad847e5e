package request_test

import (
	"context"
	"errors"
	"testing"

	"go-pto/internal/directory"
	"go-pto/internal/ptotype"
	"go-pto/internal/request"
	requesterrors "go-pto/internal/request/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeDirectory struct {
	findByIDAndCompanyFn func(ctx context.Context, companyID, id string) (*directory.Employee, error)
	belongsToCompanyFn   func(ctx context.Context, companyID, employeeID string) (bool, error)
	managerOfFn          func(ctx context.Context, companyID, employeeID string) (*directory.Employee, error)
	managementChainFn    func(ctx context.Context, companyID, employeeID string) ([]directory.Employee, error)
}

func (f *fakeDirectory) FindByIDAndCompany(ctx context.Context, companyID, id string) (*directory.Employee, error) {
	if f.findByIDAndCompanyFn != nil {
		return f.findByIDAndCompanyFn(ctx, companyID, id)
	}
	return &directory.Employee{ID: uuid.MustParse(id)}, nil
}

func (f *fakeDirectory) BelongsToCompany(ctx context.Context, companyID, employeeID string) (bool, error) {
	if f.belongsToCompanyFn != nil {
		return f.belongsToCompanyFn(ctx, companyID, employeeID)
	}
	return true, nil
}

func (f *fakeDirectory) ManagerOf(ctx context.Context, companyID, employeeID string) (*directory.Employee, error) {
	if f.managerOfFn != nil {
		return f.managerOfFn(ctx, companyID, employeeID)
	}
	return nil, nil
}

func (f *fakeDirectory) ManagementChain(ctx context.Context, companyID, employeeID string) ([]directory.Employee, error) {
	if f.managementChainFn != nil {
		return f.managementChainFn(ctx, companyID, employeeID)
	}
	return nil, nil
}

func chainRequest() *request.PtoRequest {
	return &request.PtoRequest{
		ID:        uuid.New(),
		CompanyID: uuid.New(),
		UserID:    uuid.New(),
	}
}

func TestChainBuilder_Build(t *testing.T) {
	ctx := context.Background()

	t.Run("specific approvers keep configured order", func(t *testing.T) {
		first := uuid.New()
		second := uuid.New()
		ptoType := &ptotype.PtoType{
			DisableHierarchyApproval: true,
			MultiLevelApproval:       true,
			SpecificApprovers: []ptotype.TypeApprover{
				{ApproverID: first},
				{ApproverID: second},
			},
		}

		builder := request.NewChainBuilder(&fakeDirectory{})
		req := chainRequest()
		approvals, err := builder.Build(ctx, req, ptoType)

		assert.NoError(t, err)
		assert.Len(t, approvals, 2)
		assert.Equal(t, first, approvals[0].ApproverID)
		assert.Equal(t, second, approvals[1].ApproverID)
		assert.Equal(t, 1, approvals[0].Level)
		assert.Equal(t, 0, approvals[0].Sequence)
		assert.Equal(t, 2, approvals[1].Level)
		assert.Equal(t, request.StatusPending, approvals[1].Status)
		assert.Equal(t, req.ID, approvals[0].RequestID)
	})

	t.Run("single level truncates specific approvers to the first", func(t *testing.T) {
		first := uuid.New()
		ptoType := &ptotype.PtoType{
			DisableHierarchyApproval: true,
			MultiLevelApproval:       false,
			SpecificApprovers: []ptotype.TypeApprover{
				{ApproverID: first},
				{ApproverID: uuid.New()},
			},
		}

		builder := request.NewChainBuilder(&fakeDirectory{})
		approvals, err := builder.Build(ctx, chainRequest(), ptoType)

		assert.NoError(t, err)
		assert.Len(t, approvals, 1)
		assert.Equal(t, first, approvals[0].ApproverID)
	})

	t.Run("single level resolves the direct manager", func(t *testing.T) {
		manager := uuid.New()
		dir := &fakeDirectory{
			managerOfFn: func(ctx context.Context, companyID, employeeID string) (*directory.Employee, error) {
				return &directory.Employee{ID: manager}, nil
			},
		}

		builder := request.NewChainBuilder(dir)
		approvals, err := builder.Build(ctx, chainRequest(), &ptotype.PtoType{})

		assert.NoError(t, err)
		assert.Len(t, approvals, 1)
		assert.Equal(t, manager, approvals[0].ApproverID)
	})

	t.Run("multi level walks the management chain nearest first", func(t *testing.T) {
		lead := uuid.New()
		head := uuid.New()
		ceo := uuid.New()
		dir := &fakeDirectory{
			managementChainFn: func(ctx context.Context, companyID, employeeID string) ([]directory.Employee, error) {
				return []directory.Employee{{ID: lead}, {ID: head}, {ID: ceo}}, nil
			},
		}

		builder := request.NewChainBuilder(dir)
		approvals, err := builder.Build(ctx, chainRequest(), &ptotype.PtoType{MultiLevelApproval: true})

		assert.NoError(t, err)
		assert.Len(t, approvals, 3)
		assert.Equal(t, lead, approvals[0].ApproverID)
		assert.Equal(t, ceo, approvals[2].ApproverID)
		assert.Equal(t, 3, approvals[2].Level)
	})

	t.Run("negative no manager resolved", func(t *testing.T) {
		builder := request.NewChainBuilder(&fakeDirectory{})
		_, err := builder.Build(ctx, chainRequest(), &ptotype.PtoType{})
		assert.ErrorIs(t, err, requesterrors.ErrNoApproverResolved)
	})

	t.Run("negative empty specific approver list", func(t *testing.T) {
		builder := request.NewChainBuilder(&fakeDirectory{})
		_, err := builder.Build(ctx, chainRequest(), &ptotype.PtoType{DisableHierarchyApproval: true})
		assert.ErrorIs(t, err, requesterrors.ErrNoApproverResolved)
	})

	t.Run("negative directory lookup failure", func(t *testing.T) {
		boom := errors.New("directory unavailable")
		dir := &fakeDirectory{
			managementChainFn: func(ctx context.Context, companyID, employeeID string) ([]directory.Employee, error) {
				return nil, boom
			},
		}

		builder := request.NewChainBuilder(dir)
		_, err := builder.Build(ctx, chainRequest(), &ptotype.PtoType{MultiLevelApproval: true})
		assert.ErrorIs(t, err, boom)
	})
}
