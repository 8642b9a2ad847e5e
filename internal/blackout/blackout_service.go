package blackout

import (
	"context"
	"errors"
	"time"

	blackouterrors "go-pto/internal/blackout/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// CheckResult summarizes blackout conflicts for a proposed date range.
// Strict is true when at least one applicable blackout is a hard block;
// Overridable is true only when every strict hit permits emergency override.
type CheckResult struct {
	Overlaps    bool
	Strict      bool
	Overridable bool
	Conflicts   []Conflict
}

//go:generate mockgen -source=blackout_service.go -destination=mock/blackout_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreateBlackoutRequest) (BlackoutResponse, error)
	GetAll(ctx context.Context, companyID string) ([]BlackoutResponse, error)
	GetByID(ctx context.Context, companyID, id string) (BlackoutResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateBlackoutRequest) (BlackoutResponse, error)
	Delete(ctx context.Context, companyID, id string) error

	// Check evaluates a proposed range against the company's blackouts.
	// A blackout applies when it is company-wide or scoped to the user's
	// current position.
	Check(ctx context.Context, companyID string, positionID *uuid.UUID, startDate, endDate time.Time) (CheckResult, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("blackout.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("blackout.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Check(ctx context.Context, companyID string, positionID *uuid.UUID, startDate, endDate time.Time) (CheckResult, error) {
	candidates, err := s.repo.FindOverlapping(ctx, companyID, startDate, endDate)
	if err != nil {
		return CheckResult{}, err
	}

	result := CheckResult{Overridable: true}
	for _, b := range candidates {
		if !applies(b, positionID) {
			continue
		}

		result.Overlaps = true
		overridable := !b.IsStrict || b.AllowEmergencyOverride
		if b.IsStrict {
			result.Strict = true
			if !b.AllowEmergencyOverride {
				result.Overridable = false
			}
		}
		result.Conflicts = append(result.Conflicts, Conflict{
			BlackoutID:  b.ID.String(),
			Name:        b.Name,
			StartDate:   b.StartDate.Format(dateLayout),
			EndDate:     b.EndDate.Format(dateLayout),
			IsStrict:    b.IsStrict,
			Overridable: overridable,
		})
	}

	if !result.Overlaps {
		result.Overridable = false
	}
	return result, nil
}

func applies(b PtoBlackout, positionID *uuid.UUID) bool {
	if b.IsCompanyWide {
		return true
	}
	return b.PositionID != nil && positionID != nil && *b.PositionID == *positionID
}

func (s *service) Create(ctx context.Context, companyID string, req CreateBlackoutRequest) (BlackoutResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return BlackoutResponse{}, blackouterrors.ErrInvalidCompanyID
	}

	startDate, endDate, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return BlackoutResponse{}, err
	}

	isCompanyWide := true
	if req.IsCompanyWide != nil {
		isCompanyWide = *req.IsCompanyWide
	}

	var positionID *uuid.UUID
	if req.PositionID != nil && *req.PositionID != "" {
		v := uuid.MustParse(*req.PositionID)
		positionID = &v
	}
	if !isCompanyWide && positionID == nil {
		return BlackoutResponse{}, blackouterrors.ErrScopeRequired
	}

	b := &PtoBlackout{
		ID:                     uuid.New(),
		CompanyID:              companyUUID,
		Name:                   req.Name,
		Description:            req.Description,
		StartDate:              startDate,
		EndDate:                endDate,
		IsCompanyWide:          isCompanyWide,
		PositionID:             positionID,
		IsHoliday:              req.IsHoliday,
		IsStrict:               req.IsStrict,
		AllowEmergencyOverride: req.AllowEmergencyOverride,
		RestrictionType:        req.RestrictionType,
		MaxRequestsAllowed:     req.MaxRequestsAllowed,
		IsActive:               true,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		s.logger.Error("create blackout persist failed", zap.Error(err))
		return BlackoutResponse{}, err
	}

	s.logger.Info("create blackout success",
		zap.String("blackout_id", b.ID.String()),
		zap.Bool("is_strict", b.IsStrict),
	)
	return mapToBlackoutResponse(*b), nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]BlackoutResponse, error) {
	blackouts, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	resp := make([]BlackoutResponse, len(blackouts))
	for i, b := range blackouts {
		resp[i] = mapToBlackoutResponse(b)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (BlackoutResponse, error) {
	b, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BlackoutResponse{}, blackouterrors.ErrBlackoutNotFound
		}
		return BlackoutResponse{}, err
	}
	return mapToBlackoutResponse(*b), nil
}

func (s *service) Update(ctx context.Context, companyID, id string, req UpdateBlackoutRequest) (BlackoutResponse, error) {
	b, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BlackoutResponse{}, blackouterrors.ErrBlackoutNotFound
		}
		return BlackoutResponse{}, err
	}

	startDate, endDate, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return BlackoutResponse{}, err
	}

	isCompanyWide := b.IsCompanyWide
	if req.IsCompanyWide != nil {
		isCompanyWide = *req.IsCompanyWide
	}

	var positionID *uuid.UUID
	if req.PositionID != nil && *req.PositionID != "" {
		v := uuid.MustParse(*req.PositionID)
		positionID = &v
	}
	if !isCompanyWide && positionID == nil {
		return BlackoutResponse{}, blackouterrors.ErrScopeRequired
	}

	b.Name = req.Name
	b.Description = req.Description
	b.StartDate = startDate
	b.EndDate = endDate
	b.IsCompanyWide = isCompanyWide
	b.PositionID = positionID
	b.IsHoliday = req.IsHoliday
	b.IsStrict = req.IsStrict
	b.AllowEmergencyOverride = req.AllowEmergencyOverride
	b.RestrictionType = req.RestrictionType
	b.MaxRequestsAllowed = req.MaxRequestsAllowed
	if req.IsActive != nil {
		b.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, b); err != nil {
		s.logger.Error("update blackout persist failed", zap.String("blackout_id", id), zap.Error(err))
		return BlackoutResponse{}, err
	}

	return mapToBlackoutResponse(*b), nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	if _, err := s.repo.FindByIDAndCompany(ctx, companyID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return blackouterrors.ErrBlackoutNotFound
		}
		return err
	}
	return s.repo.Delete(ctx, companyID, id)
}

func parseRange(start, end string) (time.Time, time.Time, error) {
	startDate, err := time.Parse(dateLayout, start)
	if err != nil {
		return time.Time{}, time.Time{}, blackouterrors.ErrInvalidDateFormat
	}
	endDate, err := time.Parse(dateLayout, end)
	if err != nil {
		return time.Time{}, time.Time{}, blackouterrors.ErrInvalidDateFormat
	}
	if startDate.After(endDate) {
		return time.Time{}, time.Time{}, blackouterrors.ErrInvalidDateRange
	}
	return startDate, endDate, nil
}

func mapToBlackoutResponse(b PtoBlackout) BlackoutResponse {
	resp := BlackoutResponse{
		ID:                     b.ID.String(),
		Name:                   b.Name,
		Description:            b.Description,
		StartDate:              b.StartDate.Format(dateLayout),
		EndDate:                b.EndDate.Format(dateLayout),
		IsCompanyWide:          b.IsCompanyWide,
		IsHoliday:              b.IsHoliday,
		IsStrict:               b.IsStrict,
		AllowEmergencyOverride: b.AllowEmergencyOverride,
		RestrictionType:        b.RestrictionType,
		MaxRequestsAllowed:     b.MaxRequestsAllowed,
		IsActive:               b.IsActive,
	}
	if b.PositionID != nil {
		v := b.PositionID.String()
		resp.PositionID = &v
	}
	return resp
}
