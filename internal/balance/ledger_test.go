package balance_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"go-pto/internal/balance"
	"go-pto/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type fakeBalanceRepository struct {
	findForUpdateFn     func(ctx context.Context, companyID, userID, ptoTypeID string, year int) (*balance.PtoBalance, error)
	findFn              func(ctx context.Context, companyID, userID, ptoTypeID string, year int) (*balance.PtoBalance, error)
	listForUserFn       func(ctx context.Context, companyID, userID string, year int) ([]balance.PtoBalance, error)
	createFn            func(ctx context.Context, b *balance.PtoBalance) error
	saveFn              func(ctx context.Context, b *balance.PtoBalance) error
	appendTransactionFn func(ctx context.Context, t *balance.PtoTransaction) error
	listTransactionsFn  func(ctx context.Context, companyID, userID, ptoTypeID string, year int) ([]balance.PtoTransaction, error)
}

func (f *fakeBalanceRepository) WithTx(tx *sql.Tx) balance.Repository { return f }

func (f *fakeBalanceRepository) FindForUpdate(ctx context.Context, companyID, userID, ptoTypeID string, year int) (*balance.PtoBalance, error) {
	if f.findForUpdateFn != nil {
		return f.findForUpdateFn(ctx, companyID, userID, ptoTypeID, year)
	}
	return nil, sql.ErrNoRows
}

func (f *fakeBalanceRepository) Find(ctx context.Context, companyID, userID, ptoTypeID string, year int) (*balance.PtoBalance, error) {
	if f.findFn != nil {
		return f.findFn(ctx, companyID, userID, ptoTypeID, year)
	}
	return nil, sql.ErrNoRows
}

func (f *fakeBalanceRepository) ListForUser(ctx context.Context, companyID, userID string, year int) ([]balance.PtoBalance, error) {
	if f.listForUserFn != nil {
		return f.listForUserFn(ctx, companyID, userID, year)
	}
	return nil, nil
}

func (f *fakeBalanceRepository) Create(ctx context.Context, b *balance.PtoBalance) error {
	if f.createFn != nil {
		return f.createFn(ctx, b)
	}
	return nil
}

func (f *fakeBalanceRepository) Save(ctx context.Context, b *balance.PtoBalance) error {
	if f.saveFn != nil {
		return f.saveFn(ctx, b)
	}
	return nil
}

func (f *fakeBalanceRepository) AppendTransaction(ctx context.Context, t *balance.PtoTransaction) error {
	if f.appendTransactionFn != nil {
		return f.appendTransactionFn(ctx, t)
	}
	return nil
}

func (f *fakeBalanceRepository) ListTransactions(ctx context.Context, companyID, userID, ptoTypeID string, year int) ([]balance.PtoTransaction, error) {
	if f.listTransactionsFn != nil {
		return f.listTransactionsFn(ctx, companyID, userID, ptoTypeID, year)
	}
	return nil, nil
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testMutation(days string) balance.Mutation {
	return balance.Mutation{
		CompanyID: uuid.New().String(),
		UserID:    uuid.New().String(),
		PtoTypeID: uuid.New().String(),
		Year:      2026,
		Days:      dec(days),
		ActorID:   uuid.New().String(),
		Reason:    "test",
	}
}

func balanceRow(bal, pending, used string) *balance.PtoBalance {
	return &balance.PtoBalance{
		ID:             uuid.New(),
		CompanyID:      uuid.New(),
		UserID:         uuid.New(),
		PtoTypeID:      uuid.New(),
		Year:           2026,
		Balance:        dec(bal),
		PendingBalance: dec(pending),
		UsedBalance:    dec(used),
	}
}

func TestLedger_Reserve(t *testing.T) {
	ctx := context.Background()

	t.Run("success moves days into pending and journals", func(t *testing.T) {
		row := balanceRow("10", "0", "0")
		var saved *balance.PtoBalance
		var journal *balance.PtoTransaction

		repo := &fakeBalanceRepository{
			findForUpdateFn: func(ctx context.Context, companyID, userID, ptoTypeID string, year int) (*balance.PtoBalance, error) {
				return row, nil
			},
			saveFn: func(ctx context.Context, b *balance.PtoBalance) error {
				saved = b
				return nil
			},
			appendTransactionFn: func(ctx context.Context, tr *balance.PtoTransaction) error {
				journal = tr
				return nil
			},
		}

		ledger := balance.NewLedger(repo)
		err := ledger.Reserve(ctx, nil, testMutation("3"), balance.TypeRule{})

		assert.NoError(t, err)
		assert.Equal(t, "10", saved.Balance.String())
		assert.Equal(t, "3", saved.PendingBalance.String())
		assert.Equal(t, "0", saved.UsedBalance.String())
		assert.Equal(t, "7", saved.Available().String())
		assert.Equal(t, balance.TxReserve, journal.Kind)
		assert.Equal(t, "3", journal.Amount.String())
	})

	t.Run("negative insufficient balance", func(t *testing.T) {
		repo := &fakeBalanceRepository{
			findForUpdateFn: func(ctx context.Context, companyID, userID, ptoTypeID string, year int) (*balance.PtoBalance, error) {
				return balanceRow("2", "0", "0"), nil
			},
		}

		ledger := balance.NewLedger(repo)
		err := ledger.Reserve(ctx, nil, testMutation("3"), balance.TypeRule{})

		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperror.CodeInsufficientBalance, appErr.Code)
	})

	t.Run("negative allowed within cap", func(t *testing.T) {
		var saved *balance.PtoBalance
		repo := &fakeBalanceRepository{
			findForUpdateFn: func(ctx context.Context, companyID, userID, ptoTypeID string, year int) (*balance.PtoBalance, error) {
				return balanceRow("1", "0", "0"), nil
			},
			saveFn: func(ctx context.Context, b *balance.PtoBalance) error {
				saved = b
				return nil
			},
		}

		ledger := balance.NewLedger(repo)
		rule := balance.TypeRule{NegativeAllowed: true, MaxNegative: dec("5")}
		err := ledger.Reserve(ctx, nil, testMutation("3"), rule)

		assert.NoError(t, err)
		assert.Equal(t, "-2", saved.Available().String())
	})

	t.Run("negative allowed beyond cap", func(t *testing.T) {
		repo := &fakeBalanceRepository{
			findForUpdateFn: func(ctx context.Context, companyID, userID, ptoTypeID string, year int) (*balance.PtoBalance, error) {
				return balanceRow("1", "0", "0"), nil
			},
		}

		ledger := balance.NewLedger(repo)
		rule := balance.TypeRule{NegativeAllowed: true, MaxNegative: dec("1.5")}
		err := ledger.Reserve(ctx, nil, testMutation("3"), rule)

		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperror.CodeInsufficientBalance, appErr.Code)
	})

	t.Run("negative rejects non half-day step", func(t *testing.T) {
		ledger := balance.NewLedger(&fakeBalanceRepository{})
		err := ledger.Reserve(ctx, nil, testMutation("1.3"), balance.TypeRule{})
		assert.Error(t, err)
	})

	t.Run("creates zero row when none exists", func(t *testing.T) {
		var created *balance.PtoBalance
		repo := &fakeBalanceRepository{
			createFn: func(ctx context.Context, b *balance.PtoBalance) error {
				created = b
				return nil
			},
		}

		ledger := balance.NewLedger(repo)
		err := ledger.Reserve(ctx, nil, testMutation("1"), balance.TypeRule{NegativeAllowed: true})

		assert.NoError(t, err)
		assert.NotNil(t, created)
		assert.Equal(t, "0", created.Balance.String())
	})
}

func TestLedger_ReserveThenConsume(t *testing.T) {
	ctx := context.Background()

	row := balanceRow("10", "0", "0")
	var kinds []string
	repo := &fakeBalanceRepository{
		findForUpdateFn: func(ctx context.Context, companyID, userID, ptoTypeID string, year int) (*balance.PtoBalance, error) {
			return row, nil
		},
		appendTransactionFn: func(ctx context.Context, tr *balance.PtoTransaction) error {
			kinds = append(kinds, tr.Kind)
			return nil
		},
	}

	ledger := balance.NewLedger(repo)

	assert.NoError(t, ledger.Reserve(ctx, nil, testMutation("3"), balance.TypeRule{}))
	assert.Equal(t, "10", row.Balance.String())
	assert.Equal(t, "3", row.PendingBalance.String())
	assert.Equal(t, "7", row.Available().String())

	assert.NoError(t, ledger.Consume(ctx, nil, testMutation("3")))
	assert.Equal(t, "7", row.Balance.String())
	assert.Equal(t, "0", row.PendingBalance.String())
	assert.Equal(t, "3", row.UsedBalance.String())

	assert.Equal(t, []string{balance.TxReserve, balance.TxConsume}, kinds)
}

func TestLedger_Release(t *testing.T) {
	ctx := context.Background()

	t.Run("success returns reserved days", func(t *testing.T) {
		row := balanceRow("10", "3", "0")
		repo := &fakeBalanceRepository{
			findForUpdateFn: func(ctx context.Context, companyID, userID, ptoTypeID string, year int) (*balance.PtoBalance, error) {
				return row, nil
			},
		}

		ledger := balance.NewLedger(repo)
		assert.NoError(t, ledger.Release(ctx, nil, testMutation("3")))
		assert.Equal(t, "0", row.PendingBalance.String())
	})

	t.Run("double release clamps at zero", func(t *testing.T) {
		row := balanceRow("10", "1", "0")
		repo := &fakeBalanceRepository{
			findForUpdateFn: func(ctx context.Context, companyID, userID, ptoTypeID string, year int) (*balance.PtoBalance, error) {
				return row, nil
			},
		}

		ledger := balance.NewLedger(repo)
		assert.NoError(t, ledger.Release(ctx, nil, testMutation("3")))
		assert.Equal(t, "0", row.PendingBalance.String())
	})
}

func TestLedger_Restore(t *testing.T) {
	ctx := context.Background()

	row := balanceRow("7", "0", "3")
	repo := &fakeBalanceRepository{
		findForUpdateFn: func(ctx context.Context, companyID, userID, ptoTypeID string, year int) (*balance.PtoBalance, error) {
			return row, nil
		},
	}

	ledger := balance.NewLedger(repo)
	assert.NoError(t, ledger.Restore(ctx, nil, testMutation("3")))
	assert.Equal(t, "10", row.Balance.String())
	assert.Equal(t, "0", row.UsedBalance.String())
}

func TestLedger_Adjust(t *testing.T) {
	ctx := context.Background()

	t.Run("success applies signed delta", func(t *testing.T) {
		row := balanceRow("10", "0", "0")
		var journal *balance.PtoTransaction
		repo := &fakeBalanceRepository{
			findForUpdateFn: func(ctx context.Context, companyID, userID, ptoTypeID string, year int) (*balance.PtoBalance, error) {
				return row, nil
			},
			appendTransactionFn: func(ctx context.Context, tr *balance.PtoTransaction) error {
				journal = tr
				return nil
			},
		}

		ledger := balance.NewLedger(repo)
		assert.NoError(t, ledger.Adjust(ctx, nil, testMutation("0"), dec("-1.5")))
		assert.Equal(t, "8.5", row.Balance.String())
		assert.Equal(t, balance.TxAdjust, journal.Kind)
		assert.Equal(t, "-1.5", journal.Amount.String())
	})

	t.Run("negative zero delta rejected", func(t *testing.T) {
		ledger := balance.NewLedger(&fakeBalanceRepository{})
		err := ledger.Adjust(ctx, nil, testMutation("0"), decimal.Zero)
		assert.Error(t, err)
	})
}

func TestLedger_RepositoryErrorPropagates(t *testing.T) {
	ctx := context.Background()

	boom := errors.New("connection reset")
	repo := &fakeBalanceRepository{
		findForUpdateFn: func(ctx context.Context, companyID, userID, ptoTypeID string, year int) (*balance.PtoBalance, error) {
			return nil, boom
		},
	}

	ledger := balance.NewLedger(repo)
	err := ledger.Consume(ctx, nil, testMutation("1"))
	assert.ErrorIs(t, err, boom)
}
