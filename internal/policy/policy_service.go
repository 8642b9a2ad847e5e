package policy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go-pto/internal/balance"
	"go-pto/internal/directory"
	"go-pto/internal/events"
	kafkamsg "go-pto/internal/messaging/kafka"
	policyerrors "go-pto/internal/policy/errors"
	"go-pto/internal/ptotype"
	ptotypeerrors "go-pto/internal/ptotype/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	dateLayout      = "2006-01-02"
	uniqueViolation = "23505"
)

//go:generate mockgen -source=policy_service.go -destination=mock/policy_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID, actorID string, req CreatePolicyRequest) (PolicyResponse, error)
	GetAll(ctx context.Context, companyID string) ([]PolicyResponse, error)
	GetByID(ctx context.Context, companyID, id string) (PolicyResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdatePolicyRequest) (PolicyResponse, error)

	// HasActivePolicy satisfies balance.PolicySource.
	HasActivePolicy(ctx context.Context, companyID, userID, ptoTypeID string) (bool, error)

	// ResetForNewYear projects every active policy of the company onto a
	// fresh year of balances. Users who already have a balance row for that
	// year are skipped, so re-running is safe.
	ResetForNewYear(ctx context.Context, companyID, actorID string, year int) (ResetSummary, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	types    ptotype.Repository
	balances balance.Repository
	ledger   balance.Ledger
	dir      directory.Directory
	outbox   kafkamsg.Recorder
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	types ptotype.Repository,
	balances balance.Repository,
	ledger balance.Ledger,
	dir directory.Directory,
	outbox kafkamsg.Recorder,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("policy.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("policy.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		types:    types,
		balances: balances,
		ledger:   ledger,
		dir:      dir,
		outbox:   outbox,
		logger:   l,
	}
}

func parseAmount(v string) (decimal.Decimal, error) {
	if v == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil || d.IsNegative() || !balance.ValidStep(d) {
		return decimal.Decimal{}, policyerrors.ErrInvalidAccrualAmount
	}
	return d, nil
}

func parseOptionalAmount(v *string) (*decimal.Decimal, error) {
	if v == nil || *v == "" {
		return nil, nil
	}
	d, err := parseAmount(*v)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *service) Create(ctx context.Context, companyID, actorID string, req CreatePolicyRequest) (PolicyResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return PolicyResponse{}, policyerrors.ErrInvalidCompanyID
	}

	belongs, err := s.dir.BelongsToCompany(ctx, companyID, req.UserID)
	if err != nil {
		return PolicyResponse{}, err
	}
	if !belongs {
		return PolicyResponse{}, policyerrors.ErrUserNotInCompany
	}

	ptoType, err := s.types.FindByIDAndCompany(ctx, companyID, req.PtoTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PolicyResponse{}, ptotypeerrors.ErrTypeNotFound
		}
		return PolicyResponse{}, err
	}
	if !ptoType.IsActive {
		return PolicyResponse{}, ptotypeerrors.ErrTypeInactive
	}

	initialDays, err := parseAmount(req.InitialDays)
	if err != nil {
		return PolicyResponse{}, err
	}
	annualAccrual, err := parseAmount(req.AnnualAccrualAmount)
	if err != nil {
		return PolicyResponse{}, err
	}
	bonusPerYear, err := parseAmount(req.BonusDaysPerYear)
	if err != nil {
		return PolicyResponse{}, err
	}
	maxNegative, err := parseAmount(req.MaxNegativeBalance)
	if err != nil {
		return PolicyResponse{}, err
	}
	maxRollover, err := parseOptionalAmount(req.MaxRolloverDays)
	if err != nil {
		return PolicyResponse{}, err
	}

	effectiveDate, err := time.Parse(dateLayout, req.EffectiveDate)
	if err != nil {
		return PolicyResponse{}, policyerrors.ErrInvalidDateFormat
	}
	var endDate *time.Time
	if req.EndDate != nil && *req.EndDate != "" {
		d, err := time.Parse(dateLayout, *req.EndDate)
		if err != nil {
			return PolicyResponse{}, policyerrors.ErrInvalidDateFormat
		}
		endDate = &d
	}

	frequency := req.AccrualFrequency
	if frequency == "" {
		frequency = "annual"
	}

	p := &PtoPolicy{
		ID:                  uuid.New(),
		CompanyID:           companyUUID,
		UserID:              uuid.MustParse(req.UserID),
		PtoTypeID:           ptoType.ID,
		InitialDays:         initialDays,
		AnnualAccrualAmount: annualAccrual,
		BonusDaysPerYear:    bonusPerYear,
		YearsForBonus:       req.YearsForBonus,
		RolloverEnabled:     req.RolloverEnabled,
		MaxRolloverDays:     maxRollover,
		MaxNegativeBalance:  maxNegative,
		AccrualFrequency:    frequency,
		EffectiveDate:       effectiveDate,
		EndDate:             endDate,
		IsActive:            true,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return PolicyResponse{}, policyerrors.ErrDuplicateActivePolicy
		}
		s.logger.Error("create policy persist failed", zap.Error(err))
		return PolicyResponse{}, err
	}

	if ptoType.UsesBalance && initialDays.IsPositive() {
		if err := s.seedInitialBalance(ctx, p, actorID); err != nil {
			// The policy row exists; the balance will be created lazily on
			// first access, so surface the failure without rolling back.
			s.logger.Error("seed initial balance failed",
				zap.String("policy_id", p.ID.String()),
				zap.Error(err),
			)
			return PolicyResponse{}, err
		}
	}

	s.logger.Info("create policy success",
		zap.String("policy_id", p.ID.String()),
		zap.String("user_id", req.UserID),
		zap.String("pto_type_id", req.PtoTypeID),
	)
	return mapToPolicyResponse(*p), nil
}

func (s *service) seedInitialBalance(ctx context.Context, p *PtoPolicy, actorID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	m := balance.Mutation{
		CompanyID: p.CompanyID.String(),
		UserID:    p.UserID.String(),
		PtoTypeID: p.PtoTypeID.String(),
		Year:      p.EffectiveDate.Year(),
		ActorID:   actorID,
		Reason:    "Initial grant from policy",
	}
	if err := s.ledger.Grant(ctx, tx, m, balance.TxInitial, p.InitialDays); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]PolicyResponse, error) {
	policies, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	resp := make([]PolicyResponse, len(policies))
	for i, p := range policies {
		resp[i] = mapToPolicyResponse(p)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (PolicyResponse, error) {
	p, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PolicyResponse{}, policyerrors.ErrPolicyNotFound
		}
		return PolicyResponse{}, err
	}
	return mapToPolicyResponse(*p), nil
}

func (s *service) Update(ctx context.Context, companyID, id string, req UpdatePolicyRequest) (PolicyResponse, error) {
	p, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PolicyResponse{}, policyerrors.ErrPolicyNotFound
		}
		return PolicyResponse{}, err
	}

	annualAccrual, err := parseAmount(req.AnnualAccrualAmount)
	if err != nil {
		return PolicyResponse{}, err
	}
	bonusPerYear, err := parseAmount(req.BonusDaysPerYear)
	if err != nil {
		return PolicyResponse{}, err
	}
	maxNegative, err := parseAmount(req.MaxNegativeBalance)
	if err != nil {
		return PolicyResponse{}, err
	}
	maxRollover, err := parseOptionalAmount(req.MaxRolloverDays)
	if err != nil {
		return PolicyResponse{}, err
	}

	var endDate *time.Time
	if req.EndDate != nil && *req.EndDate != "" {
		d, err := time.Parse(dateLayout, *req.EndDate)
		if err != nil {
			return PolicyResponse{}, policyerrors.ErrInvalidDateFormat
		}
		endDate = &d
	}

	p.AnnualAccrualAmount = annualAccrual
	p.BonusDaysPerYear = bonusPerYear
	p.YearsForBonus = req.YearsForBonus
	p.RolloverEnabled = req.RolloverEnabled
	p.MaxRolloverDays = maxRollover
	p.MaxNegativeBalance = maxNegative
	if req.AccrualFrequency != "" {
		p.AccrualFrequency = req.AccrualFrequency
	}
	p.EndDate = endDate
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, p); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return PolicyResponse{}, policyerrors.ErrDuplicateActivePolicy
		}
		s.logger.Error("update policy persist failed", zap.String("policy_id", id), zap.Error(err))
		return PolicyResponse{}, err
	}

	return mapToPolicyResponse(*p), nil
}

func (s *service) HasActivePolicy(ctx context.Context, companyID, userID, ptoTypeID string) (bool, error) {
	_, err := s.repo.FindActive(ctx, companyID, userID, ptoTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *service) ResetForNewYear(ctx context.Context, companyID, actorID string, year int) (ResetSummary, error) {
	if year < 2000 || year > 2200 {
		return ResetSummary{}, policyerrors.ErrInvalidResetYear
	}

	policies, err := s.repo.ListActiveByCompany(ctx, companyID)
	if err != nil {
		return ResetSummary{}, err
	}

	summary := ResetSummary{Year: year}
	for _, p := range policies {
		applied, err := s.resetOne(ctx, p, actorID, year)
		if err != nil {
			s.logger.Error("annual reset failed for policy",
				zap.String("policy_id", p.ID.String()),
				zap.String("user_id", p.UserID.String()),
				zap.Int("year", year),
				zap.Error(err),
			)
			return summary, err
		}
		if applied {
			summary.PoliciesReset++
		} else {
			summary.PoliciesSkipped++
		}
	}

	if err := s.recordResetEvent(ctx, companyID, actorID, summary); err != nil {
		s.logger.Error("record reset event failed", zap.Error(err))
		return summary, err
	}

	s.logger.Info("annual reset complete",
		zap.String("company_id", companyID),
		zap.Int("year", year),
		zap.Int("reset", summary.PoliciesReset),
		zap.Int("skipped", summary.PoliciesSkipped),
	)
	return summary, nil
}

// resetOne projects a single policy onto the new year. Returns false when
// the user already has a balance row for that year.
func (s *service) resetOne(ctx context.Context, p PtoPolicy, actorID string, year int) (bool, error) {
	companyID := p.CompanyID.String()
	userID := p.UserID.String()
	typeID := p.PtoTypeID.String()

	if _, err := s.balances.Find(ctx, companyID, userID, typeID, year); err == nil {
		return false, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	ptoType, err := s.types.FindByIDAndCompany(ctx, companyID, typeID)
	if err != nil {
		return false, err
	}
	if !ptoType.UsesBalance {
		return false, nil
	}

	emp, err := s.dir.FindByIDAndCompany(ctx, companyID, userID)
	if err != nil {
		return false, err
	}

	var previous *balance.PtoBalance
	if prev, err := s.balances.Find(ctx, companyID, userID, typeID, year-1); err == nil {
		previous = prev
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	amount := ProjectAnnual(p, ptoType.CarryoverAllowed, emp.StartDate, previous, year)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	m := balance.Mutation{
		CompanyID: companyID,
		UserID:    userID,
		PtoTypeID: typeID,
		Year:      year,
		ActorID:   actorID,
		Reason:    fmt.Sprintf("Annual reset for %d", year),
	}
	if err := s.ledger.Grant(ctx, tx, m, balance.TxAnnualReset, amount); err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

func (s *service) recordResetEvent(ctx context.Context, companyID, actorID string, summary ResetSummary) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	event := events.PtoBalanceResetEvent{
		EventType:       events.PtoBalanceAnnualReset,
		CompanyID:       companyID,
		Year:            summary.Year,
		PoliciesReset:   summary.PoliciesReset,
		PoliciesSkipped: summary.PoliciesSkipped,
		ActorID:         actorID,
		OccurredAt:      time.Now().UTC(),
	}
	if err := s.outbox.RecordBalanceReset(ctx, tx, event); err != nil {
		return err
	}
	return tx.Commit()
}

func mapToPolicyResponse(p PtoPolicy) PolicyResponse {
	resp := PolicyResponse{
		ID:                  p.ID.String(),
		UserID:              p.UserID.String(),
		PtoTypeID:           p.PtoTypeID.String(),
		InitialDays:         p.InitialDays.String(),
		AnnualAccrualAmount: p.AnnualAccrualAmount.String(),
		BonusDaysPerYear:    p.BonusDaysPerYear.String(),
		YearsForBonus:       p.YearsForBonus,
		RolloverEnabled:     p.RolloverEnabled,
		MaxNegativeBalance:  p.MaxNegativeBalance.String(),
		AccrualFrequency:    p.AccrualFrequency,
		EffectiveDate:       p.EffectiveDate.Format(dateLayout),
		IsActive:            p.IsActive,
	}
	if p.MaxRolloverDays != nil {
		v := p.MaxRolloverDays.String()
		resp.MaxRolloverDays = &v
	}
	if p.EndDate != nil {
		v := p.EndDate.Format(dateLayout)
		resp.EndDate = &v
	}
	return resp
}
