package request

import (
	"context"

	"go-pto/internal/directory"
	"go-pto/internal/ptotype"
	requesterrors "go-pto/internal/request/errors"

	"github.com/google/uuid"
)

// ChainBuilder resolves who has to approve a request and materializes one
// PtoApproval row per approver. Resolution happens once at submit time; the
// chain is never rebuilt afterwards.
//
//go:generate mockgen -source=chain.go -destination=mock/chain_builder_mock.go -package=mock
type ChainBuilder interface {
	Build(ctx context.Context, req *PtoRequest, ptoType *ptotype.PtoType) ([]PtoApproval, error)
}

type chainBuilder struct {
	dir directory.Directory
}

func NewChainBuilder(dir directory.Directory) ChainBuilder {
	return &chainBuilder{dir: dir}
}

// Build never returns an empty chain: a request without approvers could
// never leave pending, so resolution failure is a configuration error.
func (b *chainBuilder) Build(ctx context.Context, req *PtoRequest, ptoType *ptotype.PtoType) ([]PtoApproval, error) {
	approverIDs, err := b.resolveApprovers(ctx, req, ptoType)
	if err != nil {
		return nil, err
	}
	if len(approverIDs) == 0 {
		return nil, requesterrors.ErrNoApproverResolved
	}

	approvals := make([]PtoApproval, len(approverIDs))
	for i, approverID := range approverIDs {
		approvals[i] = PtoApproval{
			ID:         uuid.New(),
			CompanyID:  req.CompanyID,
			RequestID:  req.ID,
			ApproverID: approverID,
			Level:      i + 1,
			Sequence:   i,
			Status:     StatusPending,
		}
	}
	return approvals, nil
}

func (b *chainBuilder) resolveApprovers(ctx context.Context, req *PtoRequest, ptoType *ptotype.PtoType) ([]uuid.UUID, error) {
	if ptoType.DisableHierarchyApproval {
		ids := make([]uuid.UUID, 0, len(ptoType.SpecificApprovers))
		for _, a := range ptoType.SpecificApprovers {
			ids = append(ids, a.ApproverID)
		}
		if !ptoType.MultiLevelApproval && len(ids) > 1 {
			ids = ids[:1]
		}
		return ids, nil
	}

	if !ptoType.MultiLevelApproval {
		manager, err := b.dir.ManagerOf(ctx, req.CompanyID.String(), req.UserID.String())
		if err != nil {
			return nil, err
		}
		if manager == nil {
			return nil, nil
		}
		return []uuid.UUID{manager.ID}, nil
	}

	chain, err := b.dir.ManagementChain(ctx, req.CompanyID.String(), req.UserID.String())
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(chain))
	for _, m := range chain {
		ids = append(ids, m.ID)
	}
	return ids, nil
}
