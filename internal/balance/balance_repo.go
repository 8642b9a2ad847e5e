package balance

import (
	"context"
	"database/sql"
	"time"

	"go-pto/internal/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=balance_repo.go -destination=mock/balance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	// FindForUpdate takes a row-level lock; callers must hold a transaction.
	FindForUpdate(ctx context.Context, companyID, userID, ptoTypeID string, year int) (*PtoBalance, error)
	Find(ctx context.Context, companyID, userID, ptoTypeID string, year int) (*PtoBalance, error)
	ListForUser(ctx context.Context, companyID, userID string, year int) ([]PtoBalance, error)
	Create(ctx context.Context, b *PtoBalance) error
	Save(ctx context.Context, b *PtoBalance) error

	AppendTransaction(ctx context.Context, t *PtoTransaction) error
	ListTransactions(ctx context.Context, companyID, userID, ptoTypeID string, year int) ([]PtoTransaction, error)
}

type repository struct {
	db    *gorm.DB
	sqlDB *sql.DB
	tx    *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	sqlDB, _ := db.DB()
	return &repository{db: db, sqlDB: sqlDB}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, sqlDB: r.sqlDB, tx: tx}
}

const balanceColumns = `
	id::text, company_id::text, user_id::text, pto_type_id::text, year,
	balance, pending_balance, used_balance, created_at, updated_at
`

func (r *repository) FindForUpdate(ctx context.Context, companyID, userID, ptoTypeID string, year int) (*PtoBalance, error) {
	query := `
SELECT ` + balanceColumns + `
FROM pto_balances
WHERE company_id = $1 AND user_id = $2 AND pto_type_id = $3 AND year = $4
FOR UPDATE
`
	row := r.queryer().QueryRowContext(ctx, query, companyID, userID, ptoTypeID, year)
	return scanBalance(row)
}

func (r *repository) Find(ctx context.Context, companyID, userID, ptoTypeID string, year int) (*PtoBalance, error) {
	var b PtoBalance
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("user_id = ? AND pto_type_id = ? AND year = ?", userID, ptoTypeID, year).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) ListForUser(ctx context.Context, companyID, userID string, year int) ([]PtoBalance, error) {
	var balances []PtoBalance
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("user_id = ? AND year = ?", userID, year).
		Order("pto_type_id").
		Find(&balances).Error
	return balances, err
}

func (r *repository) Create(ctx context.Context, b *PtoBalance) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now

	query := `
INSERT INTO pto_balances (
	id, company_id, user_id, pto_type_id, year,
	balance, pending_balance, used_balance, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`
	_, err := r.execer().ExecContext(
		ctx, query,
		b.ID, b.CompanyID, b.UserID, b.PtoTypeID, b.Year,
		b.Balance, b.PendingBalance, b.UsedBalance, b.CreatedAt, b.UpdatedAt,
	)
	return err
}

func (r *repository) Save(ctx context.Context, b *PtoBalance) error {
	query := `
UPDATE pto_balances
SET balance = $2, pending_balance = $3, used_balance = $4, updated_at = NOW()
WHERE id = $1
`
	_, err := r.execer().ExecContext(
		ctx, query,
		b.ID, b.Balance, b.PendingBalance, b.UsedBalance,
	)
	return err
}

func (r *repository) AppendTransaction(ctx context.Context, t *PtoTransaction) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.CreatedAt = time.Now().UTC()

	query := `
INSERT INTO pto_transactions (
	id, company_id, balance_id, user_id, pto_type_id, year,
	kind, amount, reason, request_id, actor_id, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
`
	_, err := r.execer().ExecContext(
		ctx, query,
		t.ID, t.CompanyID, t.BalanceID, t.UserID, t.PtoTypeID, t.Year,
		t.Kind, t.Amount, t.Reason, t.RequestID, t.ActorID, t.CreatedAt,
	)
	return err
}

func (r *repository) ListTransactions(ctx context.Context, companyID, userID, ptoTypeID string, year int) ([]PtoTransaction, error) {
	var txs []PtoTransaction
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("user_id = ? AND pto_type_id = ? AND year = ?", userID, ptoTypeID, year).
		Order("created_at ASC").
		Find(&txs).Error
	return txs, err
}

func scanBalance(row *sql.Row) (*PtoBalance, error) {
	var (
		b                             PtoBalance
		id, companyID, userID, typeID string
	)
	err := row.Scan(
		&id, &companyID, &userID, &typeID, &b.Year,
		&b.Balance, &b.PendingBalance, &b.UsedBalance, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.ID = uuid.MustParse(id)
	b.CompanyID = uuid.MustParse(companyID)
	b.UserID = uuid.MustParse(userID)
	b.PtoTypeID = uuid.MustParse(typeID)
	return &b, nil
}

func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.sqlDB
}

func (r *repository) queryer() interface {
	QueryRowContext(context.Context, string, ...any) *sql.Row
} {
	if r.tx != nil {
		return r.tx
	}
	return r.sqlDB
}
