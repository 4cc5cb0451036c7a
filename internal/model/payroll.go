package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payroll is one pay-period record for a worker at a branch.
// GrossAmt and NetAmt are derived on every write:
//
//	gross = hours_worked * hourly_rate + bonus_amt
//	net   = gross - deduction_amt
type Payroll struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	WorkerID    uuid.UUID `gorm:"type:uuid;not null;index"`
	BranchID    uuid.UUID `gorm:"type:uuid;not null;index"`
	PeriodStart time.Time `gorm:"type:date;not null;index"`
	PeriodEnd   time.Time `gorm:"type:date;not null"`

	HoursWorked  decimal.Decimal `gorm:"type:decimal(7,2);not null"`
	HourlyRate   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	BonusAmt     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	DeductionAmt decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	GrossAmt     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	NetAmt       decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	ReviewState        string  `gorm:"type:varchar(20);not null;default:'pending';index"`
	ReviewObservations *string `gorm:"type:varchar(1000)"`

	CreatedAt time.Time

	Worker *User   `gorm:"foreignKey:WorkerID"`
	Branch *Branch `gorm:"foreignKey:BranchID"`
}
