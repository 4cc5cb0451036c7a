package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense is a single back-office expense entry for a branch.
type Expense struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BranchID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	UserID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ExpenseDate  time.Time       `gorm:"type:date;not null;index"`
	Category     string          `gorm:"type:varchar(50);not null;index"`
	Description  string          `gorm:"not null"`
	Amount       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Reimbursable bool            `gorm:"not null;default:false"`

	ReviewState        string  `gorm:"type:varchar(20);not null;default:'pending';index"`
	ReviewObservations *string `gorm:"type:text"`

	CreatedAt time.Time

	User   *User   `gorm:"foreignKey:UserID"`
	Branch *Branch `gorm:"foreignKey:BranchID"`
}
