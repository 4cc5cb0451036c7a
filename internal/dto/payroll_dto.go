package dto

import "github.com/shopspring/decimal"

type CreatePayrollRequest struct {
	WorkerID     string          `json:"worker_id"     validate:"required,uuid"`
	BranchID     string          `json:"branch_id"     validate:"required,uuid"`
	PeriodStart  string          `json:"period_start"  validate:"required,datetime=2006-01-02"`
	PeriodEnd    string          `json:"period_end"    validate:"required,datetime=2006-01-02"`
	HoursWorked  decimal.Decimal `json:"hours_worked"  validate:"min=0"`
	HourlyRate   decimal.Decimal `json:"hourly_rate"   validate:"min=0"`
	BonusAmt     decimal.Decimal `json:"bonus_amt"     validate:"min=0"`
	DeductionAmt decimal.Decimal `json:"deduction_amt" validate:"min=0"`
}

type UpdatePayrollRequest struct {
	PeriodStart  *string          `json:"period_start"  validate:"omitempty,datetime=2006-01-02"`
	PeriodEnd    *string          `json:"period_end"    validate:"omitempty,datetime=2006-01-02"`
	HoursWorked  *decimal.Decimal `json:"hours_worked"  validate:"omitempty,min=0"`
	HourlyRate   *decimal.Decimal `json:"hourly_rate"   validate:"omitempty,min=0"`
	BonusAmt     *decimal.Decimal `json:"bonus_amt"     validate:"omitempty,min=0"`
	DeductionAmt *decimal.Decimal `json:"deduction_amt" validate:"omitempty,min=0"`
}

type PayrollResponse struct {
	ID                 string          `json:"id"`
	WorkerID           string          `json:"worker_id"`
	BranchID           string          `json:"branch_id"`
	PeriodStart        string          `json:"period_start"`
	PeriodEnd          string          `json:"period_end"`
	HoursWorked        decimal.Decimal `json:"hours_worked"`
	HourlyRate         decimal.Decimal `json:"hourly_rate"`
	BonusAmt           decimal.Decimal `json:"bonus_amt"`
	DeductionAmt       decimal.Decimal `json:"deduction_amt"`
	GrossAmt           decimal.Decimal `json:"gross_amt"`
	NetAmt             decimal.Decimal `json:"net_amt"`
	ReviewState        string          `json:"review_state"`
	ReviewObservations *string         `json:"review_observations"`
	CreatedAt          string          `json:"created_at"`
}
