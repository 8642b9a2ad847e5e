package balance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction kinds. Every mutation of a balance row appends exactly one
// journal entry with one of these kinds.
const (
	TxReserve     = "reserve"
	TxRelease     = "release"
	TxConsume     = "consume"
	TxRestore     = "restore"
	TxAdjust      = "adjust"
	TxInitial     = "initial_grant"
	TxAnnualReset = "annual_reset"
)

type PtoBalance struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index:idx_pto_balances_company"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_pto_balances_user_type_year"`
	PtoTypeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_pto_balances_user_type_year"`
	Year      int       `gorm:"not null;uniqueIndex:idx_pto_balances_user_type_year"`

	Balance        decimal.Decimal `gorm:"type:numeric(6,1);not null;default:0"`
	PendingBalance decimal.Decimal `gorm:"type:numeric(6,1);not null;default:0"`
	UsedBalance    decimal.Decimal `gorm:"type:numeric(6,1);not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Available is what the user can still request: entitlement minus what is
// reserved by in-flight requests minus what has been consumed. It can be
// negative only for types that allow negative balances.
func (b *PtoBalance) Available() decimal.Decimal {
	return b.Balance.Sub(b.PendingBalance).Sub(b.UsedBalance)
}

// PtoTransaction is an append-only journal entry. Rows are never updated or
// deleted; corrections happen through new entries.
type PtoTransaction struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null"`
	BalanceID uuid.UUID `gorm:"type:uuid;not null;index:idx_pto_transactions_balance"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_pto_transactions_user"`
	PtoTypeID uuid.UUID `gorm:"type:uuid;not null"`
	Year      int       `gorm:"not null"`

	Kind string `gorm:"type:varchar(20);not null"`
	// Amount is the signed delta applied to the figure the kind touches:
	// reserve/release move pending_balance, consume/restore/adjust move balance.
	Amount    decimal.Decimal `gorm:"type:numeric(6,1);not null"`
	Reason    string          `gorm:"type:text"`
	RequestID *uuid.UUID      `gorm:"type:uuid"`
	ActorID   uuid.UUID       `gorm:"type:uuid;not null"`

	CreatedAt time.Time
}
