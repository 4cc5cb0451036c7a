package dto

import "github.com/shopspring/decimal"

// PeriodSummary aggregates closures over a date range.
// TotalDiscrepancy is a signed sum — shortfalls and surpluses cancel out;
// use the discrepancy report for magnitudes.
type PeriodSummary struct {
	TotalSales       decimal.Decimal `json:"total_sales"`
	TotalPayments    int64           `json:"total_payments"`
	TotalDiscrepancy decimal.Decimal `json:"total_discrepancy"`
	AverageSale      decimal.Decimal `json:"average_sale"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	TotalFees        decimal.Decimal `json:"total_fees"`
	CardPercentage   decimal.Decimal `json:"card_percentage"`
	CashPercentage   decimal.Decimal `json:"cash_percentage"`
}

type DailyTotal struct {
	Date  string          `json:"date"`
	Total decimal.Decimal `json:"total"`
}

type PeriodReport struct {
	StartDate   string                     `json:"start_date"`
	EndDate     string                     `json:"end_date"`
	Summary     PeriodSummary              `json:"summary"`
	ByBranch    map[string]decimal.Decimal `json:"by_branch"`
	ByWorker    map[string]decimal.Decimal `json:"by_worker"`
	DailyTotals []DailyTotal               `json:"daily_totals"`
}

// DiscrepancyReport lists the closures needing manual review, capped at the
// N largest absolute discrepancies.
type DiscrepancyReport struct {
	TotalDiscrepancies     int               `json:"total_discrepancies"`
	TotalDiscrepancyAmount decimal.Decimal   `json:"total_discrepancy_amount"`
	LargestDiscrepancy     decimal.Decimal   `json:"largest_discrepancy"`
	AverageDiscrepancy     decimal.Decimal   `json:"average_discrepancy"`
	Records                []ClosureResponse `json:"discrepancy_records"`
}

// ReportParams are the shared filters of the aggregation endpoints.
type ReportParams struct {
	StartDate      string
	EndDate        string
	BranchID       string
	WorkerID       string
	MinDiscrepancy *decimal.Decimal
}
