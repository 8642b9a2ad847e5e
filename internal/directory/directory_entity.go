package directory

import (
	"time"

	"github.com/google/uuid"
)

// Employee is a read-only projection of the identity provider's employee
// record. This service never writes to it.
type Employee struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CompanyID  uuid.UUID  `gorm:"type:uuid;index"`
	PositionID *uuid.UUID `gorm:"type:uuid"`
	ManagerID  *uuid.UUID `gorm:"type:uuid"`
	FullName   string
	Email      string    `gorm:"uniqueIndex"`
	StartDate  time.Time `gorm:"type:date"`
}

func (Employee) TableName() string {
	return "employees"
}
