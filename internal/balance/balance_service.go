package balance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	balanceerrors "go-pto/internal/balance/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PolicySource answers whether a user has an active accrual policy for a
// type. Implemented by the policy package; defined here so the ledger has no
// dependency on it.
type PolicySource interface {
	HasActivePolicy(ctx context.Context, companyID, userID, ptoTypeID string) (bool, error)
}

//go:generate mockgen -source=balance_service.go -destination=mock/balance_service_mock.go -package=mock
type Service interface {
	GetBalance(ctx context.Context, companyID, userID, ptoTypeID string, year int) (BalanceResponse, error)
	Summary(ctx context.Context, companyID, userID string, year int) ([]BalanceResponse, error)
	History(ctx context.Context, companyID, userID, ptoTypeID string, year int) ([]TransactionResponse, error)
	Adjust(ctx context.Context, companyID, actorID string, req AdjustBalanceRequest) (BalanceResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	ledger   Ledger
	policies PolicySource
	logger   *zap.Logger
}

func NewService(db *sql.DB, repo Repository, ledger Ledger, policies PolicySource, logger ...*zap.Logger) Service {
	l := zap.L().Named("balance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.service")
	}
	return &service{db: db, repo: repo, ledger: ledger, policies: policies, logger: l}
}

func (s *service) GetBalance(ctx context.Context, companyID, userID, ptoTypeID string, year int) (BalanceResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return BalanceResponse{}, balanceerrors.ErrInvalidCompanyID
	}
	if _, err := uuid.Parse(userID); err != nil {
		return BalanceResponse{}, balanceerrors.ErrInvalidUserID
	}
	if _, err := uuid.Parse(ptoTypeID); err != nil {
		return BalanceResponse{}, balanceerrors.ErrInvalidTypeID
	}

	b, err := s.repo.Find(ctx, companyID, userID, ptoTypeID, year)
	if err == nil {
		return mapToBalanceResponse(*b), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return BalanceResponse{}, err
	}

	// First access: a zero-valued row exists only for users with an active
	// policy. Without one this is a true not-found, not an implicit zero.
	hasPolicy, err := s.policies.HasActivePolicy(ctx, companyID, userID, ptoTypeID)
	if err != nil {
		return BalanceResponse{}, err
	}
	if !hasPolicy {
		return BalanceResponse{}, balanceerrors.ErrNoActivePolicy
	}

	created, err := s.createZeroBalance(ctx, companyID, userID, ptoTypeID, year)
	if err != nil {
		return BalanceResponse{}, err
	}
	return mapToBalanceResponse(*created), nil
}

func (s *service) createZeroBalance(ctx context.Context, companyID, userID, ptoTypeID string, year int) (*PtoBalance, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	b := &PtoBalance{
		CompanyID:      uuid.MustParse(companyID),
		UserID:         uuid.MustParse(userID),
		PtoTypeID:      uuid.MustParse(ptoTypeID),
		Year:           year,
		Balance:        decimal.Zero,
		PendingBalance: decimal.Zero,
		UsedBalance:    decimal.Zero,
	}
	if err := s.repo.WithTx(tx).Create(ctx, b); err != nil {
		// A concurrent first access may have created the row already.
		if existing, findErr := s.repo.Find(ctx, companyID, userID, ptoTypeID, year); findErr == nil {
			return existing, nil
		}
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("balance row created on first access",
		zap.String("user_id", userID),
		zap.String("pto_type_id", ptoTypeID),
		zap.Int("year", year),
	)
	return b, nil
}

func (s *service) Summary(ctx context.Context, companyID, userID string, year int) ([]BalanceResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, balanceerrors.ErrInvalidUserID
	}

	balances, err := s.repo.ListForUser(ctx, companyID, userID, year)
	if err != nil {
		return nil, err
	}

	resp := make([]BalanceResponse, len(balances))
	for i, b := range balances {
		resp[i] = mapToBalanceResponse(b)
	}
	return resp, nil
}

func (s *service) History(ctx context.Context, companyID, userID, ptoTypeID string, year int) ([]TransactionResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, balanceerrors.ErrInvalidUserID
	}
	if _, err := uuid.Parse(ptoTypeID); err != nil {
		return nil, balanceerrors.ErrInvalidTypeID
	}

	txs, err := s.repo.ListTransactions(ctx, companyID, userID, ptoTypeID, year)
	if err != nil {
		return nil, err
	}

	resp := make([]TransactionResponse, len(txs))
	for i, t := range txs {
		resp[i] = mapToTransactionResponse(t)
	}
	return resp, nil
}

func (s *service) Adjust(ctx context.Context, companyID, actorID string, req AdjustBalanceRequest) (BalanceResponse, error) {
	s.logger.Debug("adjust balance requested",
		zap.String("company_id", companyID),
		zap.String("actor_id", actorID),
		zap.String("user_id", req.UserID),
		zap.String("delta", req.Delta),
	)

	delta, err := decimal.NewFromString(req.Delta)
	if err != nil {
		return BalanceResponse{}, balanceerrors.ErrInvalidAdjustment
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("adjust balance begin tx failed", zap.Error(err))
		return BalanceResponse{}, err
	}
	defer tx.Rollback()

	m := Mutation{
		CompanyID: companyID,
		UserID:    req.UserID,
		PtoTypeID: req.PtoTypeID,
		Year:      req.Year,
		ActorID:   actorID,
		Reason:    req.Reason,
	}
	if err := s.ledger.Adjust(ctx, tx, m, delta); err != nil {
		s.logger.Warn("adjust balance rejected", zap.Error(err))
		return BalanceResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("adjust balance commit failed", zap.Error(err))
		return BalanceResponse{}, err
	}

	b, err := s.repo.Find(ctx, companyID, req.UserID, req.PtoTypeID, req.Year)
	if err != nil {
		return BalanceResponse{}, err
	}

	s.logger.Info("adjust balance success",
		zap.String("balance_id", b.ID.String()),
		zap.String("delta", delta.String()),
	)
	return mapToBalanceResponse(*b), nil
}

func mapToBalanceResponse(b PtoBalance) BalanceResponse {
	// Available is reported unclamped: reserve-time enforcement keeps it
	// non-negative for types that disallow negative balances, and types that
	// allow them should show the real figure.
	return BalanceResponse{
		ID:        b.ID.String(),
		UserID:    b.UserID.String(),
		PtoTypeID: b.PtoTypeID.String(),
		Year:      b.Year,
		Balance:   b.Balance.String(),
		Pending:   b.PendingBalance.String(),
		Used:      b.UsedBalance.String(),
		Available: b.Available().String(),
	}
}

func mapToTransactionResponse(t PtoTransaction) TransactionResponse {
	resp := TransactionResponse{
		ID:        t.ID.String(),
		Kind:      t.Kind,
		Amount:    t.Amount.String(),
		Reason:    t.Reason,
		ActorID:   t.ActorID.String(),
		CreatedAt: t.CreatedAt.Format(time.RFC3339),
	}
	if t.RequestID != nil {
		v := t.RequestID.String()
		resp.RequestID = &v
	}
	return resp
}
