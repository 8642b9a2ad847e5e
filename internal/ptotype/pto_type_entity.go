package ptotype

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PtoType struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_pto_types_company_code"`

	Name  string `gorm:"size:100;not null"`
	Code  string `gorm:"size:20;not null;uniqueIndex:idx_pto_types_company_code"`
	Color string `gorm:"size:7"`

	UsesBalance              bool `gorm:"not null;default:true"`
	MultiLevelApproval       bool `gorm:"not null;default:false"`
	DisableHierarchyApproval bool `gorm:"not null;default:false"`
	NegativeAllowed          bool `gorm:"not null;default:false"`
	CarryoverAllowed         bool `gorm:"not null;default:false"`
	// MaxNegativeBalance caps how far below zero a negative-allowed type may
	// go; zero means no cap.
	MaxNegativeBalance decimal.Decimal `gorm:"type:numeric(6,1);not null;default:0"`

	IsActive  bool `gorm:"not null;default:true"`
	SortOrder int  `gorm:"not null;default:0"`

	SpecificApprovers []TypeApprover `gorm:"foreignKey:PtoTypeID"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (PtoType) TableName() string {
	return "pto_types"
}

// TypeApprover is one entry of a type's configured approver list, used when
// hierarchy approval is disabled.
type TypeApprover struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PtoTypeID  uuid.UUID `gorm:"type:uuid;not null;index"`
	ApproverID uuid.UUID `gorm:"type:uuid;not null"`
	Sequence   int       `gorm:"not null;default:0"`
}

func (TypeApprover) TableName() string {
	return "pto_type_approvers"
}
