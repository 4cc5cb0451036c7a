package dto

import "github.com/shopspring/decimal"

type CreateExpenseRequest struct {
	BranchID     string          `json:"branch_id"    validate:"required,uuid"`
	UserID       string          `json:"user_id"      validate:"required,uuid"`
	ExpenseDate  string          `json:"expense_date" validate:"required,datetime=2006-01-02"`
	Category     string          `json:"category"     validate:"required,min=2,max=50"`
	Description  string          `json:"description"  validate:"required,min=3"`
	Amount       decimal.Decimal `json:"amount"       validate:"required,gt=0"`
	Reimbursable bool            `json:"reimbursable"`
}

type UpdateExpenseRequest struct {
	ExpenseDate  *string          `json:"expense_date" validate:"omitempty,datetime=2006-01-02"`
	Category     *string          `json:"category"     validate:"omitempty,min=2,max=50"`
	Description  *string          `json:"description"  validate:"omitempty,min=3"`
	Amount       *decimal.Decimal `json:"amount"       validate:"omitempty,gt=0"`
	Reimbursable *bool            `json:"reimbursable"`
}

type ExpenseResponse struct {
	ID                 string          `json:"id"`
	BranchID           string          `json:"branch_id"`
	UserID             string          `json:"user_id"`
	ExpenseDate        string          `json:"expense_date"`
	Category           string          `json:"category"`
	Description        string          `json:"description"`
	Amount             decimal.Decimal `json:"amount"`
	Reimbursable       bool            `json:"reimbursable"`
	ReviewState        string          `json:"review_state"`
	ReviewObservations *string         `json:"review_observations"`
	CreatedAt          string          `json:"created_at"`
}

// ExpensePeriodSummary aggregates expenses over a date range.
type ExpensePeriodSummary struct {
	TotalAmount       decimal.Decimal            `json:"total_amount"`
	TotalCount        int64                      `json:"total_count"`
	ReimbursableTotal decimal.Decimal            `json:"reimbursable_total"`
	ByCategory        map[string]decimal.Decimal `json:"by_category"`
}
