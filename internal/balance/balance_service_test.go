package balance_test

import (
	"context"
	"database/sql"
	"testing"

	"go-pto/internal/balance"
	balanceerrors "go-pto/internal/balance/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakePolicySource struct {
	hasActivePolicyFn func(ctx context.Context, companyID, userID, ptoTypeID string) (bool, error)
}

func (f *fakePolicySource) HasActivePolicy(ctx context.Context, companyID, userID, ptoTypeID string) (bool, error) {
	if f.hasActivePolicyFn != nil {
		return f.hasActivePolicyFn(ctx, companyID, userID, ptoTypeID)
	}
	return false, nil
}

type fakeServiceLedger struct {
	adjustFn func(ctx context.Context, tx *sql.Tx, m balance.Mutation, delta decimal.Decimal) error
}

func (f *fakeServiceLedger) Reserve(ctx context.Context, tx *sql.Tx, m balance.Mutation, rule balance.TypeRule) error {
	return nil
}

func (f *fakeServiceLedger) Release(ctx context.Context, tx *sql.Tx, m balance.Mutation) error {
	return nil
}

func (f *fakeServiceLedger) Consume(ctx context.Context, tx *sql.Tx, m balance.Mutation) error {
	return nil
}

func (f *fakeServiceLedger) Restore(ctx context.Context, tx *sql.Tx, m balance.Mutation) error {
	return nil
}

func (f *fakeServiceLedger) Adjust(ctx context.Context, tx *sql.Tx, m balance.Mutation, delta decimal.Decimal) error {
	if f.adjustFn != nil {
		return f.adjustFn(ctx, tx, m, delta)
	}
	return nil
}

func (f *fakeServiceLedger) Grant(ctx context.Context, tx *sql.Tx, m balance.Mutation, kind string, amount decimal.Decimal) error {
	return nil
}

func TestBalanceService_GetBalance(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	userID := uuid.New().String()
	typeID := uuid.New().String()

	t.Run("returns the stored balance", func(t *testing.T) {
		repo := &fakeBalanceRepository{
			findFn: func(ctx context.Context, companyID, userID, ptoTypeID string, year int) (*balance.PtoBalance, error) {
				return balanceRow("10", "3", "2"), nil
			},
		}
		svc := balance.NewService(nil, repo, &fakeServiceLedger{}, &fakePolicySource{})

		resp, err := svc.GetBalance(ctx, companyID, userID, typeID, 2026)

		assert.NoError(t, err)
		assert.Equal(t, "10", resp.Balance)
		assert.Equal(t, "3", resp.Pending)
		assert.Equal(t, "2", resp.Used)
		assert.Equal(t, "7", resp.Available)
	})

	t.Run("first access creates a zero row for covered users", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		var created *balance.PtoBalance
		repo := &fakeBalanceRepository{
			findFn: func(ctx context.Context, companyID, userID, ptoTypeID string, year int) (*balance.PtoBalance, error) {
				return nil, gorm.ErrRecordNotFound
			},
			createFn: func(ctx context.Context, b *balance.PtoBalance) error {
				created = b
				return nil
			},
		}
		policies := &fakePolicySource{
			hasActivePolicyFn: func(ctx context.Context, companyID, userID, ptoTypeID string) (bool, error) {
				return true, nil
			},
		}
		svc := balance.NewService(db, repo, &fakeServiceLedger{}, policies)

		mock.ExpectBegin()
		mock.ExpectCommit()

		resp, err := svc.GetBalance(ctx, companyID, userID, typeID, 2026)

		assert.NoError(t, err)
		assert.Equal(t, "0", resp.Balance)
		assert.Equal(t, "0", resp.Available)
		assert.NotNil(t, created)
		assert.Equal(t, 2026, created.Year)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative no active policy means no balance", func(t *testing.T) {
		repo := &fakeBalanceRepository{
			findFn: func(ctx context.Context, companyID, userID, ptoTypeID string, year int) (*balance.PtoBalance, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}
		svc := balance.NewService(nil, repo, &fakeServiceLedger{}, &fakePolicySource{})

		_, err := svc.GetBalance(ctx, companyID, userID, typeID, 2026)
		assert.ErrorIs(t, err, balanceerrors.ErrNoActivePolicy)
	})

	t.Run("negative malformed user id", func(t *testing.T) {
		svc := balance.NewService(nil, &fakeBalanceRepository{}, &fakeServiceLedger{}, &fakePolicySource{})

		_, err := svc.GetBalance(ctx, companyID, "not-a-uuid", typeID, 2026)
		assert.ErrorIs(t, err, balanceerrors.ErrInvalidUserID)
	})
}

func TestBalanceService_Adjust(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()

	req := balance.AdjustBalanceRequest{
		UserID:    uuid.New().String(),
		PtoTypeID: uuid.New().String(),
		Year:      2026,
		Delta:     "-1.5",
		Reason:    "correcting an import error",
	}

	t.Run("success applies the delta in a transaction", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		var applied decimal.Decimal
		ledger := &fakeServiceLedger{
			adjustFn: func(ctx context.Context, tx *sql.Tx, m balance.Mutation, delta decimal.Decimal) error {
				applied = delta
				assert.NotNil(t, tx)
				return nil
			},
		}
		repo := &fakeBalanceRepository{
			findFn: func(ctx context.Context, companyID, userID, ptoTypeID string, year int) (*balance.PtoBalance, error) {
				return balanceRow("8.5", "0", "0"), nil
			},
		}
		svc := balance.NewService(db, repo, ledger, &fakePolicySource{})

		mock.ExpectBegin()
		mock.ExpectCommit()

		resp, err := svc.Adjust(ctx, companyID, actorID, req)

		assert.NoError(t, err)
		assert.Equal(t, "-1.5", applied.String())
		assert.Equal(t, "8.5", resp.Balance)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative rejected delta rolls back", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		ledger := &fakeServiceLedger{
			adjustFn: func(ctx context.Context, tx *sql.Tx, m balance.Mutation, delta decimal.Decimal) error {
				return balanceerrors.ErrInvalidAdjustment
			},
		}
		svc := balance.NewService(db, &fakeBalanceRepository{}, ledger, &fakePolicySource{})

		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err = svc.Adjust(ctx, companyID, actorID, req)

		assert.ErrorIs(t, err, balanceerrors.ErrInvalidAdjustment)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative unparseable delta", func(t *testing.T) {
		svc := balance.NewService(nil, &fakeBalanceRepository{}, &fakeServiceLedger{}, &fakePolicySource{})

		bad := req
		bad.Delta = "one and a half"

		_, err := svc.Adjust(ctx, companyID, actorID, bad)
		assert.ErrorIs(t, err, balanceerrors.ErrInvalidAdjustment)
	})
}
