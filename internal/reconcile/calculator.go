// Package reconcile implements the cash-register closure reconciliation
// calculator: a pure mapping from the raw amounts a cashier submits to the
// derived totals stored on a closure. No I/O, no persistence — callers
// validate with Validate, then compute with Compute.
package reconcile

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DiscrepancyTolerance is the two-decimal monetary tolerance below which a
// closure is not considered discrepant. |discrepancy| must strictly exceed
// it to be flagged, so exactly 0.01 passes clean.
var DiscrepancyTolerance = decimal.NewFromFloat(0.01)

// Inputs are the raw fields of one closure submission. All monetary amounts
// must be non-negative; PaymentsNbr may be zero (a day with no payments).
type Inputs struct {
	ClosureNumber int
	PaymentsNbr   int
	SalesTotal    decimal.Decimal
	CardITPV      decimal.Decimal
	CardRefund    decimal.Decimal
	CardKiwi      decimal.Decimal
	TransferAmt   decimal.Decimal
	CashAmt       decimal.Decimal
	CashRefund    decimal.Decimal
	KiwiFeeTotal  decimal.Decimal
}

// Derived are the computed fields of a closure. They are a function of
// Inputs alone: computing twice from the same inputs yields identical values.
type Derived struct {
	CardTotal        decimal.Decimal
	CashTotal        decimal.Decimal
	Discrepancy      decimal.Decimal
	AvgSale          decimal.Decimal
	CardKiwiMinusFee decimal.Decimal
	RevenueTotal     decimal.Decimal
}

// ValidationError reports a raw input that violates a field-level invariant.
// The caller must correct the field and resubmit; nothing is clamped.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Validate rejects inputs before any computation happens.
func Validate(in Inputs) error {
	if in.ClosureNumber < 1 {
		return &ValidationError{Field: "closure_number", Reason: "must be >= 1"}
	}
	if in.PaymentsNbr < 0 {
		return &ValidationError{Field: "payments_nbr", Reason: "must be non-negative"}
	}
	amounts := []struct {
		field string
		v     decimal.Decimal
	}{
		{"sales_total", in.SalesTotal},
		{"card_itpv", in.CardITPV},
		{"card_refund", in.CardRefund},
		{"card_kiwi", in.CardKiwi},
		{"transfer_amt", in.TransferAmt},
		{"cash_amt", in.CashAmt},
		{"cash_refund", in.CashRefund},
		{"kiwi_fee_total", in.KiwiFeeTotal},
	}
	for _, a := range amounts {
		if a.v.IsNegative() {
			return &ValidationError{Field: a.field, Reason: "must be non-negative"}
		}
	}
	return nil
}

// Compute derives the closure totals. Inputs must have passed Validate;
// Compute itself is total over validated inputs (the only division is
// guarded by the PaymentsNbr check).
//
// CardTotal deliberately excludes CardITPV: the pre-correction formula
// (card_itpv + card_kiwi + transfer_amt - card_refund) double-counted the
// ITPV/Kiwi overlap and was fixed retroactively across stored data.
func Compute(in Inputs) (Derived, error) {
	if err := Validate(in); err != nil {
		return Derived{}, err
	}

	var d Derived
	d.CardTotal = in.CardKiwi.Add(in.TransferAmt).Sub(in.CardRefund)
	d.CashTotal = in.CashAmt.Sub(in.CashRefund)
	d.Discrepancy = d.CardTotal.Add(d.CashTotal).Sub(in.SalesTotal)
	if in.PaymentsNbr > 0 {
		d.AvgSale = in.SalesTotal.Div(decimal.NewFromInt(int64(in.PaymentsNbr))).Round(2)
	} else {
		d.AvgSale = decimal.Zero
	}
	d.CardKiwiMinusFee = in.CardKiwi.Sub(in.KiwiFeeTotal)
	d.RevenueTotal = in.SalesTotal.Sub(in.KiwiFeeTotal)
	return d, nil
}

// HasDiscrepancy reports whether a discrepancy amount exceeds the tolerance.
// The comparison is decimal-exact: amounts are expected to carry two decimal
// places, so 0.01 is tolerated and 0.02 is flagged.
func HasDiscrepancy(discrepancy decimal.Decimal) bool {
	return discrepancy.Abs().GreaterThan(DiscrepancyTolerance)
}
