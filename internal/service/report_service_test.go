package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/sushitlalpan/sushi-be/internal/dto"
	"github.com/sushitlalpan/sushi-be/internal/model"
	"github.com/sushitlalpan/sushi-be/internal/reconcile"
	"github.com/sushitlalpan/sushi-be/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reportFixture struct {
	svc        service.ReportService
	repo       *fakeClosureRepo
	dispatcher *fakeDispatcher
	branchA    *model.Branch
	branchB    *model.Branch
	worker     *model.User
}

func newReportFixture(t *testing.T) *reportFixture {
	t.Helper()
	repo := newFakeClosureRepo()
	dispatcher := &fakeDispatcher{}
	return &reportFixture{
		svc:        service.NewReportService(repo, dispatcher, nil, 0),
		repo:       repo,
		dispatcher: dispatcher,
		branchA:    &model.Branch{ID: uuid.New(), Name: "Tlalpan Centro"},
		branchB:    &model.Branch{ID: uuid.New(), Name: "Coyoacan"},
		worker:     &model.User{ID: uuid.New(), Username: "cajero1"},
	}
}

// seed stores a closure with derived fields computed the same way the
// closure service does on write.
func (f *reportFixture) seed(t *testing.T, branch *model.Branch, date string, number int, in reconcile.Inputs) {
	t.Helper()
	derived, err := reconcile.Compute(in)
	require.NoError(t, err)
	day, err := time.Parse("2006-01-02", date)
	require.NoError(t, err)

	closure := &model.Closure{
		WorkerID:      f.worker.ID,
		BranchID:      branch.ID,
		ClosureDate:   day,
		ClosureNumber: number,
		PaymentsNbr:   in.PaymentsNbr,

		SalesTotal:   in.SalesTotal,
		CardKiwi:     in.CardKiwi,
		TransferAmt:  in.TransferAmt,
		CashAmt:      in.CashAmt,
		CashRefund:   in.CashRefund,
		KiwiFeeTotal: in.KiwiFeeTotal,

		CardTotal:        derived.CardTotal,
		CashTotal:        derived.CashTotal,
		Discrepancy:      derived.Discrepancy,
		AvgSale:          derived.AvgSale,
		CardKiwiMinusFee: derived.CardKiwiMinusFee,
		RevenueTotal:     derived.RevenueTotal,

		ReviewState: model.ReviewPending,
		Worker:      f.worker,
		Branch:      branch,
	}
	require.NoError(t, f.repo.Create(context.Background(), closure))
}

func augustParams() dto.ReportParams {
	return dto.ReportParams{StartDate: "2026-08-01", EndDate: "2026-08-31"}
}

func TestPeriodSummaryTotalsAndSplit(t *testing.T) {
	f := newReportFixture(t)

	// 300 card + 100 cash on 400 of sales, no discrepancy
	f.seed(t, f.branchA, "2026-08-10", 1, reconcile.Inputs{
		ClosureNumber: 1, PaymentsNbr: 10,
		SalesTotal: decimal.RequireFromString("400.00"),
		CardKiwi:   decimal.RequireFromString("300.00"),
		CashAmt:    decimal.RequireFromString("100.00"),
	})
	// pure cash day, 10.00 shortfall
	f.seed(t, f.branchB, "2026-08-11", 1, reconcile.Inputs{
		ClosureNumber: 1, PaymentsNbr: 5,
		SalesTotal: decimal.RequireFromString("110.00"),
		CashAmt:    decimal.RequireFromString("100.00"),
	})

	summary, err := f.svc.PeriodSummary(context.Background(), augustParams())
	require.NoError(t, err)

	assert.Equal(t, "510.00", summary.TotalSales.StringFixed(2))
	assert.Equal(t, int64(15), summary.TotalPayments)
	assert.Equal(t, "-10.00", summary.TotalDiscrepancy.StringFixed(2))
	assert.Equal(t, "34.00", summary.AverageSale.StringFixed(2))
	// collected = 300 card + 200 cash
	assert.Equal(t, "60.00", summary.CardPercentage.StringFixed(2))
	assert.Equal(t, "40.00", summary.CashPercentage.StringFixed(2))
	assert.Equal(t, "100.00", summary.CardPercentage.Add(summary.CashPercentage).StringFixed(2))
}

func TestPeriodSummaryEmptyPeriod(t *testing.T) {
	f := newReportFixture(t)

	summary, err := f.svc.PeriodSummary(context.Background(), augustParams())
	require.NoError(t, err)

	assert.True(t, summary.TotalSales.IsZero())
	assert.Zero(t, summary.TotalPayments)
	assert.True(t, summary.AverageSale.IsZero())
	assert.True(t, summary.CardPercentage.IsZero())
	assert.True(t, summary.CashPercentage.IsZero())
}

func TestPeriodSummaryRequiresDates(t *testing.T) {
	f := newReportFixture(t)

	_, err := f.svc.PeriodSummary(context.Background(), dto.ReportParams{StartDate: "2026-08-01"})
	var verr *reconcile.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = f.svc.PeriodSummary(context.Background(), dto.ReportParams{StartDate: "2026-08-31", EndDate: "2026-08-01"})
	assert.ErrorAs(t, err, &verr)
}

func TestPeriodReportBranchPartition(t *testing.T) {
	f := newReportFixture(t)

	f.seed(t, f.branchA, "2026-08-10", 1, reconcile.Inputs{
		ClosureNumber: 1, PaymentsNbr: 10,
		SalesTotal: decimal.RequireFromString("400.00"),
		CashAmt:    decimal.RequireFromString("400.00"),
	})
	f.seed(t, f.branchB, "2026-08-11", 1, reconcile.Inputs{
		ClosureNumber: 1, PaymentsNbr: 5,
		SalesTotal: decimal.RequireFromString("100.00"),
		CashAmt:    decimal.RequireFromString("100.00"),
	})

	report, err := f.svc.PeriodReport(context.Background(), augustParams())
	require.NoError(t, err)

	require.Len(t, report.ByBranch, 2)
	partition := report.ByBranch["Tlalpan Centro"].Add(report.ByBranch["Coyoacan"])
	assert.True(t, partition.Equal(report.Summary.TotalSales), "branch partition must sum to total sales")
	assert.Len(t, report.DailyTotals, 2)
}

func TestPeriodReportOmitsBranchBreakdownWhenFiltered(t *testing.T) {
	f := newReportFixture(t)

	f.seed(t, f.branchA, "2026-08-10", 1, reconcile.Inputs{
		ClosureNumber: 1, PaymentsNbr: 10,
		SalesTotal: decimal.RequireFromString("400.00"),
		CashAmt:    decimal.RequireFromString("400.00"),
	})

	params := augustParams()
	params.BranchID = f.branchA.ID.String()
	report, err := f.svc.PeriodReport(context.Background(), params)
	require.NoError(t, err)

	assert.Nil(t, report.ByBranch)
	assert.Len(t, report.ByWorker, 1)
}

func TestDiscrepancyReportMinFilter(t *testing.T) {
	f := newReportFixture(t)

	// shortfalls of 10.00 and 200.00
	f.seed(t, f.branchA, "2026-08-10", 1, reconcile.Inputs{
		ClosureNumber: 1, PaymentsNbr: 1,
		SalesTotal: decimal.RequireFromString("110.00"),
		CashAmt:    decimal.RequireFromString("100.00"),
	})
	f.seed(t, f.branchA, "2026-08-11", 1, reconcile.Inputs{
		ClosureNumber: 1, PaymentsNbr: 1,
		SalesTotal: decimal.RequireFromString("300.00"),
		CashAmt:    decimal.RequireFromString("100.00"),
	})
	// clean closure must never appear
	f.seed(t, f.branchA, "2026-08-12", 1, reconcile.Inputs{
		ClosureNumber: 1, PaymentsNbr: 1,
		SalesTotal: decimal.RequireFromString("50.00"),
		CashAmt:    decimal.RequireFromString("50.00"),
	})

	report, err := f.svc.DiscrepancyReport(context.Background(), augustParams())
	require.NoError(t, err)
	assert.Equal(t, 2, report.TotalDiscrepancies)
	assert.Equal(t, "-210.00", report.TotalDiscrepancyAmount.StringFixed(2))
	assert.Equal(t, "200.00", report.LargestDiscrepancy.StringFixed(2))
	assert.Equal(t, "105.00", report.AverageDiscrepancy.StringFixed(2))
	assert.Len(t, report.Records, 2)

	min := decimal.RequireFromString("100.00")
	params := augustParams()
	params.MinDiscrepancy = &min
	filtered, err := f.svc.DiscrepancyReport(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, 1, filtered.TotalDiscrepancies)
	assert.Len(t, filtered.Records, 1)
	assert.Equal(t, "-200.00", filtered.Records[0].Discrepancy.StringFixed(2))
}

func TestEnqueueDiscrepancyPDF(t *testing.T) {
	f := newReportFixture(t)

	err := f.svc.EnqueueDiscrepancyPDF(context.Background(), augustParams(), "gerencia@sushitlalpan.com")
	require.NoError(t, err)
	require.Len(t, f.dispatcher.pdfs, 1)
	assert.Equal(t, "gerencia@sushitlalpan.com", f.dispatcher.pdfs[0].ToEmail)
	assert.Equal(t, "2026-08-01", f.dispatcher.pdfs[0].StartDate)

	var verr *reconcile.ValidationError
	err = f.svc.EnqueueDiscrepancyPDF(context.Background(), dto.ReportParams{StartDate: "bad"}, "x@y.z")
	assert.ErrorAs(t, err, &verr)
	assert.Len(t, f.dispatcher.pdfs, 1)
}
