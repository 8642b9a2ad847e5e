package ptotype

import (
	"context"
	"errors"
	"strings"

	ptotypeerrors "go-pto/internal/ptotype/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

//go:generate mockgen -source=pto_type_service.go -destination=mock/pto_type_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreateTypeRequest) (TypeResponse, error)
	GetAll(ctx context.Context, companyID string) ([]TypeResponse, error)
	GetByID(ctx context.Context, companyID, id string) (TypeResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateTypeRequest) (TypeResponse, error)
	Delete(ctx context.Context, companyID, id string) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("ptotype.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("ptotype.service")
	}
	return &service{repo: repo, logger: l}
}

func parseMaxNegative(v string) (decimal.Decimal, error) {
	if v == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil || d.IsNegative() || !d.Mod(decimal.NewFromFloat(0.5)).IsZero() {
		return decimal.Zero, ptotypeerrors.ErrInvalidMaxNegative
	}
	return d, nil
}

func parseApprovers(typeID uuid.UUID, ids []string) []TypeApprover {
	approvers := make([]TypeApprover, 0, len(ids))
	for i, id := range ids {
		approvers = append(approvers, TypeApprover{
			PtoTypeID:  typeID,
			ApproverID: uuid.MustParse(id),
			Sequence:   i,
		})
	}
	return approvers
}

func (s *service) Create(ctx context.Context, companyID string, req CreateTypeRequest) (TypeResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return TypeResponse{}, ptotypeerrors.ErrInvalidCompanyID
	}

	maxNegative, err := parseMaxNegative(req.MaxNegativeBalance)
	if err != nil {
		return TypeResponse{}, err
	}

	usesBalance := true
	if req.UsesBalance != nil {
		usesBalance = *req.UsesBalance
	}

	t := &PtoType{
		ID:                       uuid.New(),
		CompanyID:                companyUUID,
		Name:                     req.Name,
		Code:                     strings.ToUpper(req.Code),
		Color:                    req.Color,
		UsesBalance:              usesBalance,
		MultiLevelApproval:       req.MultiLevelApproval,
		DisableHierarchyApproval: req.DisableHierarchyApproval,
		NegativeAllowed:          req.NegativeAllowed,
		CarryoverAllowed:         req.CarryoverAllowed,
		MaxNegativeBalance:       maxNegative,
		IsActive:                 true,
		SortOrder:                req.SortOrder,
	}

	if err := s.repo.Create(ctx, t); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return TypeResponse{}, ptotypeerrors.ErrDuplicateCode
		}
		s.logger.Error("create pto type persist failed", zap.Error(err))
		return TypeResponse{}, err
	}

	if len(req.SpecificApproverIDs) > 0 {
		if err := s.repo.ReplaceApprovers(ctx, t.ID.String(), parseApprovers(t.ID, req.SpecificApproverIDs)); err != nil {
			return TypeResponse{}, err
		}
	}

	s.logger.Info("create pto type success",
		zap.String("pto_type_id", t.ID.String()),
		zap.String("code", t.Code),
	)

	created, err := s.repo.FindByIDAndCompany(ctx, companyID, t.ID.String())
	if err != nil {
		return TypeResponse{}, err
	}
	return mapToTypeResponse(*created), nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]TypeResponse, error) {
	types, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	resp := make([]TypeResponse, len(types))
	for i, t := range types {
		resp[i] = mapToTypeResponse(t)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (TypeResponse, error) {
	t, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TypeResponse{}, ptotypeerrors.ErrTypeNotFound
		}
		return TypeResponse{}, err
	}
	return mapToTypeResponse(*t), nil
}

func (s *service) Update(ctx context.Context, companyID, id string, req UpdateTypeRequest) (TypeResponse, error) {
	t, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TypeResponse{}, ptotypeerrors.ErrTypeNotFound
		}
		return TypeResponse{}, err
	}

	maxNegative, err := parseMaxNegative(req.MaxNegativeBalance)
	if err != nil {
		return TypeResponse{}, err
	}

	t.Name = req.Name
	t.Color = req.Color
	if req.UsesBalance != nil {
		t.UsesBalance = *req.UsesBalance
	}
	t.MultiLevelApproval = req.MultiLevelApproval
	t.DisableHierarchyApproval = req.DisableHierarchyApproval
	t.NegativeAllowed = req.NegativeAllowed
	t.CarryoverAllowed = req.CarryoverAllowed
	t.MaxNegativeBalance = maxNegative
	if req.IsActive != nil {
		t.IsActive = *req.IsActive
	}
	t.SortOrder = req.SortOrder

	if err := s.repo.Update(ctx, t); err != nil {
		s.logger.Error("update pto type persist failed", zap.String("pto_type_id", id), zap.Error(err))
		return TypeResponse{}, err
	}

	if req.SpecificApproverIDs != nil {
		if err := s.repo.ReplaceApprovers(ctx, id, parseApprovers(t.ID, req.SpecificApproverIDs)); err != nil {
			return TypeResponse{}, err
		}
	}

	updated, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return TypeResponse{}, err
	}
	return mapToTypeResponse(*updated), nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	if _, err := s.repo.FindByIDAndCompany(ctx, companyID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ptotypeerrors.ErrTypeNotFound
		}
		return err
	}

	inUse, err := s.repo.InUse(ctx, companyID, id)
	if err != nil {
		return err
	}
	if inUse {
		return ptotypeerrors.ErrTypeInUse
	}

	return s.repo.Delete(ctx, companyID, id)
}

func mapToTypeResponse(t PtoType) TypeResponse {
	resp := TypeResponse{
		ID:                       t.ID.String(),
		Name:                     t.Name,
		Code:                     t.Code,
		Color:                    t.Color,
		UsesBalance:              t.UsesBalance,
		MultiLevelApproval:       t.MultiLevelApproval,
		DisableHierarchyApproval: t.DisableHierarchyApproval,
		NegativeAllowed:          t.NegativeAllowed,
		CarryoverAllowed:         t.CarryoverAllowed,
		MaxNegativeBalance:       t.MaxNegativeBalance.String(),
		IsActive:                 t.IsActive,
		SortOrder:                t.SortOrder,
	}
	for _, a := range t.SpecificApprovers {
		resp.SpecificApproverIDs = append(resp.SpecificApproverIDs, a.ApproverID.String())
	}
	return resp
}
