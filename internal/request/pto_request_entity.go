package request

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusDenied    = "denied"
	StatusCancelled = "cancelled"
)

const (
	DayPartFull      = "full_day"
	DayPartMorning   = "morning"
	DayPartAfternoon = "afternoon"
)

type PtoRequest struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index:idx_pto_requests_company_status"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_pto_requests_user_dates"`
	PtoTypeID uuid.UUID `gorm:"type:uuid;not null"`

	// RequestNumber is the human-readable identifier shown in notifications,
	// e.g. PTO-2026-00042.
	RequestNumber string `gorm:"size:20;not null;uniqueIndex"`

	StartDate    time.Time `gorm:"type:date;not null;index:idx_pto_requests_user_dates"`
	EndDate      time.Time `gorm:"type:date;not null;index:idx_pto_requests_user_dates"`
	StartDayPart string    `gorm:"size:10;not null;default:'full_day'"`
	EndDayPart   string    `gorm:"size:10;not null;default:'full_day'"`

	TotalDays decimal.Decimal `gorm:"type:numeric(6,1);not null"`

	Status       string  `gorm:"size:20;not null;default:'pending';index:idx_pto_requests_company_status"`
	Reason       string  `gorm:"type:text"`
	DenialReason *string `gorm:"type:text"`

	SubmittedAt time.Time  `gorm:"not null"`
	ApprovedAt  *time.Time
	DeniedAt    *time.Time
	CancelledAt *time.Time

	ApprovedBy  *uuid.UUID `gorm:"type:uuid"`
	DeniedBy    *uuid.UUID `gorm:"type:uuid"`
	CancelledBy *uuid.UUID `gorm:"type:uuid"`

	Approvals []PtoApproval `gorm:"foreignKey:RequestID"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (PtoRequest) TableName() string {
	return "pto_requests"
}

// PtoApproval is one approver's slot in a request's chain. Level and
// Sequence order the chain for display; completion only looks at status.
type PtoApproval struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null"`
	RequestID  uuid.UUID `gorm:"type:uuid;not null;index:idx_pto_approvals_request"`
	ApproverID uuid.UUID `gorm:"type:uuid;not null;index:idx_pto_approvals_approver_status"`

	Level    int `gorm:"not null;default:1"`
	Sequence int `gorm:"not null;default:0"`

	Status      string     `gorm:"size:20;not null;default:'pending';index:idx_pto_approvals_approver_status"`
	Comments    string     `gorm:"type:text"`
	RespondedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (PtoApproval) TableName() string {
	return "pto_approvals"
}
