package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Review states shared by Closure, Expense and Payroll.
// The transition is a soft state machine: pending → approved | rejected,
// with re-review back to pending allowed by an explicit admin action.
const (
	ReviewPending  = "pending"
	ReviewApproved = "approved"
	ReviewRejected = "rejected"
)

// Closure is one daily cash-register reconciliation event for a branch.
//
// Raw fields come from the submitting cashier; derived fields are always
// recomputed by reconcile.Compute before persisting and are never accepted
// from callers. (branch_id, closure_date, closure_number) is unique.
//
// CardITPV is the amount the ITPV card subsystem reports. It is tracked but
// deliberately excluded from CardTotal — the old formula that included it
// double-counted the ITPV/Kiwi overlap and was corrected across historical
// data. Whether ITPV is truly a subtotal of the Kiwi channel is still an
// open product question.
type Closure struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	WorkerID      uuid.UUID `gorm:"type:uuid;not null;index"`
	BranchID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_closure_triple,priority:1"`
	ClosureDate   time.Time `gorm:"type:date;not null;uniqueIndex:idx_closure_triple,priority:2"`
	ClosureNumber int       `gorm:"not null;uniqueIndex:idx_closure_triple,priority:3"`
	PaymentsNbr   int       `gorm:"not null;default:0"`

	// Raw amounts
	SalesTotal   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CardITPV     decimal.Decimal `gorm:"column:card_itpv;type:decimal(12,2);not null"`
	CardRefund   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CardKiwi     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TransferAmt  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CashAmt      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CashRefund   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	KiwiFeeTotal decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	// Derived amounts — computed, never supplied
	CardTotal        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CashTotal        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Discrepancy      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	AvgSale          decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CardKiwiMinusFee decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	RevenueTotal     decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Notes              *string
	ReviewState        string  `gorm:"type:varchar(20);not null;default:'pending';index"`
	ReviewObservations *string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"index"`

	Worker *User   `gorm:"foreignKey:WorkerID"`
	Branch *Branch `gorm:"foreignKey:BranchID"`
}
