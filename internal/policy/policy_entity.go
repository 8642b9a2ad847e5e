package policy

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PtoPolicy is the accrual contract between a user and a pto type. At most
// one active policy may exist per (company, user, type); the partial unique
// index enforces it while still allowing inactive historical rows.
type PtoPolicy struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_pto_policies_active,where:is_active"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_pto_policies_active"`
	PtoTypeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_pto_policies_active"`

	InitialDays         decimal.Decimal `gorm:"type:numeric(6,1);not null;default:0"`
	AnnualAccrualAmount decimal.Decimal `gorm:"type:numeric(6,1);not null;default:0"`
	BonusDaysPerYear    decimal.Decimal `gorm:"type:numeric(6,1);not null;default:0"`
	// YearsForBonus is the tenure in full years required before the per-year
	// bonus starts counting. Zero means the bonus applies from year one.
	YearsForBonus int `gorm:"not null;default:0"`

	RolloverEnabled bool `gorm:"not null;default:false"`
	// MaxRolloverDays caps carried-over days; nil means uncapped.
	MaxRolloverDays *decimal.Decimal `gorm:"type:numeric(6,1)"`

	MaxNegativeBalance decimal.Decimal `gorm:"type:numeric(6,1);not null;default:0"`
	AccrualFrequency   string          `gorm:"size:20;not null;default:'annual'"`

	EffectiveDate time.Time  `gorm:"type:date;not null"`
	EndDate       *time.Time `gorm:"type:date"`

	IsActive bool `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (PtoPolicy) TableName() string {
	return "pto_policies"
}
