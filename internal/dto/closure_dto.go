package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CreateClosureRequest carries the raw fields of one closure submission.
// Derived totals are never accepted here — they are recomputed server-side.
type CreateClosureRequest struct {
	ClosureDate   string          `json:"closure_date"   validate:"required,datetime=2006-01-02"`
	ClosureNumber int             `json:"closure_number" validate:"required,min=1"`
	WorkerID      string          `json:"worker_id"      validate:"required,uuid"`
	BranchID      string          `json:"branch_id"      validate:"required,uuid"`
	PaymentsNbr   int             `json:"payments_nbr"   validate:"min=0"`
	SalesTotal    decimal.Decimal `json:"sales_total"    validate:"min=0"`
	CardITPV      decimal.Decimal `json:"card_itpv"      validate:"min=0"`
	CardRefund    decimal.Decimal `json:"card_refund"    validate:"min=0"`
	CardKiwi      decimal.Decimal `json:"card_kiwi"      validate:"min=0"`
	TransferAmt   decimal.Decimal `json:"transfer_amt"   validate:"min=0"`
	CashAmt       decimal.Decimal `json:"cash_amt"       validate:"min=0"`
	CashRefund    decimal.Decimal `json:"cash_refund"    validate:"min=0"`
	KiwiFeeTotal  decimal.Decimal `json:"kiwi_fee_total" validate:"min=0"`
	Notes         *string         `json:"notes"`
}

// UpdateClosureRequest is a partial amendment. Any present raw field replaces
// the stored one; derived fields are always fully recomputed afterwards.
type UpdateClosureRequest struct {
	ClosureDate   *string          `json:"closure_date"   validate:"omitempty,datetime=2006-01-02"`
	ClosureNumber *int             `json:"closure_number" validate:"omitempty,min=1"`
	WorkerID      *string          `json:"worker_id"      validate:"omitempty,uuid"`
	BranchID      *string          `json:"branch_id"      validate:"omitempty,uuid"`
	PaymentsNbr   *int             `json:"payments_nbr"   validate:"omitempty,min=0"`
	SalesTotal    *decimal.Decimal `json:"sales_total"    validate:"omitempty,min=0"`
	CardITPV      *decimal.Decimal `json:"card_itpv"      validate:"omitempty,min=0"`
	CardRefund    *decimal.Decimal `json:"card_refund"    validate:"omitempty,min=0"`
	CardKiwi      *decimal.Decimal `json:"card_kiwi"      validate:"omitempty,min=0"`
	TransferAmt   *decimal.Decimal `json:"transfer_amt"   validate:"omitempty,min=0"`
	CashAmt       *decimal.Decimal `json:"cash_amt"       validate:"omitempty,min=0"`
	CashRefund    *decimal.Decimal `json:"cash_refund"    validate:"omitempty,min=0"`
	KiwiFeeTotal  *decimal.Decimal `json:"kiwi_fee_total" validate:"omitempty,min=0"`
	Notes         *string          `json:"notes"`
}

// ReviewUpdateRequest moves a record through the review workflow.
type ReviewUpdateRequest struct {
	ReviewState        string  `json:"review_state" validate:"required,oneof=pending approved rejected"`
	ReviewObservations *string `json:"review_observations"`
}

// ClosureFilter narrows listing queries. Zero values mean "no filter".
type ClosureFilter struct {
	WorkerID       string
	BranchID       string
	StartDate      string
	EndDate        string
	ClosureNumber  int
	HasDiscrepancy *bool
	OrderBy        string // date_desc | date_asc | sales_desc | sales_asc | discrepancy_desc
	Offset         int
	Limit          int
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ClosureResponse struct {
	ID            string `json:"id"`
	ClosureDate   string `json:"closure_date"`
	ClosureNumber int    `json:"closure_number"`
	WorkerID      string `json:"worker_id"`
	BranchID      string `json:"branch_id"`
	PaymentsNbr   int    `json:"payments_nbr"`

	SalesTotal   decimal.Decimal `json:"sales_total"`
	CardITPV     decimal.Decimal `json:"card_itpv"`
	CardRefund   decimal.Decimal `json:"card_refund"`
	CardKiwi     decimal.Decimal `json:"card_kiwi"`
	TransferAmt  decimal.Decimal `json:"transfer_amt"`
	CashAmt      decimal.Decimal `json:"cash_amt"`
	CashRefund   decimal.Decimal `json:"cash_refund"`
	KiwiFeeTotal decimal.Decimal `json:"kiwi_fee_total"`

	CardTotal        decimal.Decimal `json:"card_total"`
	CashTotal        decimal.Decimal `json:"cash_total"`
	Discrepancy      decimal.Decimal `json:"discrepancy"`
	AvgSale          decimal.Decimal `json:"avg_sale"`
	CardKiwiMinusFee decimal.Decimal `json:"card_kiwi_minus_fee"`
	RevenueTotal     decimal.Decimal `json:"revenue_total"`
	HasDiscrepancy   bool            `json:"has_discrepancy"`

	Notes              *string `json:"notes"`
	ReviewState        string  `json:"review_state"`
	ReviewObservations *string `json:"review_observations"`
	CreatedAt          string  `json:"created_at"`

	WorkerUsername string `json:"worker_username,omitempty"`
	BranchName     string `json:"branch_name,omitempty"`
}

type ClosureListResponse struct {
	Closures   []ClosureResponse `json:"closures"`
	TotalCount int64             `json:"total_count"`
	Offset     int               `json:"offset"`
	Limit      int               `json:"limit"`
	HasNext    bool              `json:"has_next"`
}
