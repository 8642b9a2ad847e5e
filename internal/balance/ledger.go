package balance

import (
	"context"
	"database/sql"
	"errors"

	balanceerrors "go-pto/internal/balance/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var halfDay = decimal.NewFromFloat(0.5)

// ValidStep reports whether d is a multiple of half a day.
func ValidStep(d decimal.Decimal) bool {
	return d.Mod(halfDay).IsZero()
}

// Mutation identifies the balance row a ledger operation targets and the
// audit context recorded with it.
type Mutation struct {
	CompanyID string
	UserID    string
	PtoTypeID string
	Year      int
	Days      decimal.Decimal
	RequestID *uuid.UUID
	ActorID   string
	Reason    string
}

// TypeRule carries the pieces of PtoType configuration the ledger needs to
// decide whether a reservation may push the balance negative.
type TypeRule struct {
	NegativeAllowed bool
	MaxNegative     decimal.Decimal
}

// Ledger is the only write path into pto_balances. Every method runs inside
// the caller's transaction, locks the balance row, applies exactly one
// mutation and appends exactly one journal entry. Callers own commit and
// rollback, so a failed operation leaves the ledger untouched.
//
//go:generate mockgen -source=ledger.go -destination=mock/ledger_mock.go -package=mock
type Ledger interface {
	// Reserve moves days into pending_balance. Fails with
	// ErrInsufficientBalance when available < days and the type does not
	// allow negative balances (or would exceed the negative cap).
	Reserve(ctx context.Context, tx *sql.Tx, m Mutation, rule TypeRule) error

	// Release returns reserved days, clamped at zero against double-release.
	Release(ctx context.Context, tx *sql.Tx, m Mutation) error

	// Consume finalizes an approval: pending and balance go down, used goes up.
	Consume(ctx context.Context, tx *sql.Tx, m Mutation) error

	// Restore reverses a consume after an approved request is cancelled.
	Restore(ctx context.Context, tx *sql.Tx, m Mutation) error

	// Adjust applies a signed manual correction to the entitlement.
	Adjust(ctx context.Context, tx *sql.Tx, m Mutation, delta decimal.Decimal) error

	// Grant adds entitlement with an explicit journal kind (initial grant,
	// annual reset). Creates the balance row when absent.
	Grant(ctx context.Context, tx *sql.Tx, m Mutation, kind string, amount decimal.Decimal) error
}

type ledger struct {
	repo   Repository
	logger *zap.Logger
}

func NewLedger(repo Repository, logger ...*zap.Logger) Ledger {
	l := zap.L().Named("balance.ledger")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.ledger")
	}
	return &ledger{repo: repo, logger: l}
}

// lockOrCreate locks the balance row for the mutation's key, creating a
// zero-valued row first when none exists. The insert happens inside the
// caller's transaction, so the new row is equally protected.
func (l *ledger) lockOrCreate(ctx context.Context, tx *sql.Tx, m Mutation) (*PtoBalance, error) {
	qtx := l.repo.WithTx(tx)

	b, err := qtx.FindForUpdate(ctx, m.CompanyID, m.UserID, m.PtoTypeID, m.Year)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	b = &PtoBalance{
		CompanyID:      uuid.MustParse(m.CompanyID),
		UserID:         uuid.MustParse(m.UserID),
		PtoTypeID:      uuid.MustParse(m.PtoTypeID),
		Year:           m.Year,
		Balance:        decimal.Zero,
		PendingBalance: decimal.Zero,
		UsedBalance:    decimal.Zero,
	}
	if err := qtx.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (l *ledger) journal(ctx context.Context, tx *sql.Tx, b *PtoBalance, m Mutation, kind string, amount decimal.Decimal) error {
	return l.repo.WithTx(tx).AppendTransaction(ctx, &PtoTransaction{
		CompanyID: b.CompanyID,
		BalanceID: b.ID,
		UserID:    b.UserID,
		PtoTypeID: b.PtoTypeID,
		Year:      b.Year,
		Kind:      kind,
		Amount:    amount,
		Reason:    m.Reason,
		RequestID: m.RequestID,
		ActorID:   uuid.MustParse(m.ActorID),
	})
}

func (l *ledger) Reserve(ctx context.Context, tx *sql.Tx, m Mutation, rule TypeRule) error {
	if !m.Days.IsPositive() || !ValidStep(m.Days) {
		return balanceerrors.ErrInvalidAmount
	}

	b, err := l.lockOrCreate(ctx, tx, m)
	if err != nil {
		return err
	}

	available := b.Available()
	remaining := available.Sub(m.Days)

	insufficient := false
	if !rule.NegativeAllowed {
		insufficient = available.LessThan(m.Days)
	} else if rule.MaxNegative.IsPositive() {
		insufficient = remaining.LessThan(rule.MaxNegative.Neg())
	}
	if insufficient {
		l.logger.Warn("reserve rejected",
			zap.String("user_id", m.UserID),
			zap.String("pto_type_id", m.PtoTypeID),
			zap.Int("year", m.Year),
			zap.String("requested", m.Days.String()),
			zap.String("available", available.String()),
		)
		return balanceerrors.ErrInsufficientBalance.WithDetails(map[string]string{
			"requested": m.Days.String(),
			"available": available.String(),
		})
	}

	b.PendingBalance = b.PendingBalance.Add(m.Days)
	if err := l.repo.WithTx(tx).Save(ctx, b); err != nil {
		return err
	}
	return l.journal(ctx, tx, b, m, TxReserve, m.Days)
}

func (l *ledger) Release(ctx context.Context, tx *sql.Tx, m Mutation) error {
	if !m.Days.IsPositive() || !ValidStep(m.Days) {
		return balanceerrors.ErrInvalidAmount
	}

	b, err := l.lockOrCreate(ctx, tx, m)
	if err != nil {
		return err
	}

	b.PendingBalance = b.PendingBalance.Sub(m.Days)
	if b.PendingBalance.IsNegative() {
		b.PendingBalance = decimal.Zero
	}
	if err := l.repo.WithTx(tx).Save(ctx, b); err != nil {
		return err
	}
	return l.journal(ctx, tx, b, m, TxRelease, m.Days.Neg())
}

func (l *ledger) Consume(ctx context.Context, tx *sql.Tx, m Mutation) error {
	if !m.Days.IsPositive() || !ValidStep(m.Days) {
		return balanceerrors.ErrInvalidAmount
	}

	b, err := l.lockOrCreate(ctx, tx, m)
	if err != nil {
		return err
	}

	b.PendingBalance = b.PendingBalance.Sub(m.Days)
	if b.PendingBalance.IsNegative() {
		b.PendingBalance = decimal.Zero
	}
	b.Balance = b.Balance.Sub(m.Days)
	b.UsedBalance = b.UsedBalance.Add(m.Days)

	if err := l.repo.WithTx(tx).Save(ctx, b); err != nil {
		return err
	}
	return l.journal(ctx, tx, b, m, TxConsume, m.Days.Neg())
}

func (l *ledger) Restore(ctx context.Context, tx *sql.Tx, m Mutation) error {
	if !m.Days.IsPositive() || !ValidStep(m.Days) {
		return balanceerrors.ErrInvalidAmount
	}

	b, err := l.lockOrCreate(ctx, tx, m)
	if err != nil {
		return err
	}

	b.Balance = b.Balance.Add(m.Days)
	b.UsedBalance = b.UsedBalance.Sub(m.Days)
	if b.UsedBalance.IsNegative() {
		b.UsedBalance = decimal.Zero
	}

	if err := l.repo.WithTx(tx).Save(ctx, b); err != nil {
		return err
	}
	return l.journal(ctx, tx, b, m, TxRestore, m.Days)
}

func (l *ledger) Adjust(ctx context.Context, tx *sql.Tx, m Mutation, delta decimal.Decimal) error {
	if delta.IsZero() || !ValidStep(delta) {
		return balanceerrors.ErrInvalidAdjustment
	}

	b, err := l.lockOrCreate(ctx, tx, m)
	if err != nil {
		return err
	}

	b.Balance = b.Balance.Add(delta)
	if err := l.repo.WithTx(tx).Save(ctx, b); err != nil {
		return err
	}
	return l.journal(ctx, tx, b, m, TxAdjust, delta)
}

func (l *ledger) Grant(ctx context.Context, tx *sql.Tx, m Mutation, kind string, amount decimal.Decimal) error {
	if amount.IsNegative() || !ValidStep(amount) {
		return balanceerrors.ErrInvalidAmount
	}

	b, err := l.lockOrCreate(ctx, tx, m)
	if err != nil {
		return err
	}

	b.Balance = b.Balance.Add(amount)
	if err := l.repo.WithTx(tx).Save(ctx, b); err != nil {
		return err
	}
	return l.journal(ctx, tx, b, m, kind, amount)
}
