package blackout

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PtoBlackout struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index:idx_pto_blackouts_company_dates"`

	Name        string `gorm:"size:150;not null"`
	Description string `gorm:"type:text"`

	StartDate time.Time `gorm:"type:date;not null;index:idx_pto_blackouts_company_dates"`
	EndDate   time.Time `gorm:"type:date;not null;index:idx_pto_blackouts_company_dates"`

	// Company-wide blackouts apply to everyone; otherwise PositionID scopes
	// the blackout to employees holding that position.
	IsCompanyWide bool       `gorm:"not null;default:true"`
	PositionID    *uuid.UUID `gorm:"type:uuid"`

	IsHoliday              bool   `gorm:"not null;default:false"`
	IsStrict               bool   `gorm:"not null;default:false"`
	AllowEmergencyOverride bool   `gorm:"not null;default:false"`
	RestrictionType        string `gorm:"size:30"`
	MaxRequestsAllowed     int    `gorm:"not null;default:0"`

	IsActive bool `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (PtoBlackout) TableName() string {
	return "pto_blackouts"
}
