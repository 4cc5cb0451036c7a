package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/sushitlalpan/sushi-be/internal/dto"
	"github.com/sushitlalpan/sushi-be/internal/model"
	"github.com/sushitlalpan/sushi-be/internal/reconcile"
	"github.com/sushitlalpan/sushi-be/internal/repository"
	"github.com/sushitlalpan/sushi-be/internal/service"
	"github.com/sushitlalpan/sushi-be/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── In-memory fakes ──────────────────────────────────────────────────────────

type fakeClosureRepo struct {
	closures map[uuid.UUID]*model.Closure
}

func newFakeClosureRepo() *fakeClosureRepo {
	return &fakeClosureRepo{closures: make(map[uuid.UUID]*model.Closure)}
}

func (r *fakeClosureRepo) Create(_ context.Context, c *model.Closure) error {
	for _, existing := range r.closures {
		if existing.BranchID == c.BranchID &&
			existing.ClosureDate.Equal(c.ClosureDate) &&
			existing.ClosureNumber == c.ClosureNumber {
			return repository.ErrConflict
		}
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = time.Now()
	r.closures[c.ID] = c
	return nil
}

func (r *fakeClosureRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Closure, error) {
	c, ok := r.closures[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return c, nil
}

func (r *fakeClosureRepo) Update(_ context.Context, c *model.Closure) error {
	if _, ok := r.closures[c.ID]; !ok {
		return repository.ErrNotFound
	}
	r.closures[c.ID] = c
	return nil
}

func (r *fakeClosureRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.closures[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.closures, id)
	return nil
}

func (r *fakeClosureRepo) TripleTaken(_ context.Context, branchID uuid.UUID, date time.Time, number int, excludeID uuid.UUID) (bool, error) {
	for _, c := range r.closures {
		if c.ID != excludeID && c.BranchID == branchID && c.ClosureDate.Equal(date) && c.ClosureNumber == number {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeClosureRepo) List(_ context.Context, f dto.ClosureFilter) ([]model.Closure, int64, error) {
	var out []model.Closure
	for _, c := range r.closures {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *fakeClosureRepo) ListByReviewState(_ context.Context, state string, _, _ int) ([]model.Closure, error) {
	var out []model.Closure
	for _, c := range r.closures {
		if c.ReviewState == state {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeClosureRepo) CountPendingOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	var count int64
	for _, c := range r.closures {
		if c.ReviewState == model.ReviewPending && c.CreatedAt.Before(cutoff) {
			count++
		}
	}
	return count, nil
}

func (r *fakeClosureRepo) PeriodTotals(_ context.Context, f repository.PeriodFilter) (*repository.PeriodTotals, error) {
	row := &repository.PeriodTotals{}
	for _, c := range r.inPeriod(f) {
		row.TotalSales = row.TotalSales.Add(c.SalesTotal)
		row.TotalPayments += int64(c.PaymentsNbr)
		row.TotalDiscrepancy = row.TotalDiscrepancy.Add(c.Discrepancy)
		row.TotalRevenue = row.TotalRevenue.Add(c.RevenueTotal)
		row.TotalFees = row.TotalFees.Add(c.KiwiFeeTotal)
		row.TotalCard = row.TotalCard.Add(c.CardTotal)
		row.TotalCash = row.TotalCash.Add(c.CashTotal)
		row.TotalRecords++
	}
	return row, nil
}

func (r *fakeClosureRepo) BranchBreakdown(_ context.Context, f repository.PeriodFilter) ([]repository.NameTotal, error) {
	sums := make(map[string]decimal.Decimal)
	for _, c := range r.inPeriod(f) {
		name := c.BranchID.String()
		if c.Branch != nil {
			name = c.Branch.Name
		}
		sums[name] = sums[name].Add(c.SalesTotal)
	}
	return toNameTotals(sums), nil
}

func (r *fakeClosureRepo) WorkerBreakdown(_ context.Context, f repository.PeriodFilter) ([]repository.NameTotal, error) {
	sums := make(map[string]decimal.Decimal)
	for _, c := range r.inPeriod(f) {
		name := c.WorkerID.String()
		if c.Worker != nil {
			name = c.Worker.Username
		}
		sums[name] = sums[name].Add(c.SalesTotal)
	}
	return toNameTotals(sums), nil
}

func (r *fakeClosureRepo) DailyTotals(_ context.Context, f repository.PeriodFilter) ([]repository.DateTotal, error) {
	sums := make(map[time.Time]decimal.Decimal)
	for _, c := range r.inPeriod(f) {
		sums[c.ClosureDate] = sums[c.ClosureDate].Add(c.SalesTotal)
	}
	out := make([]repository.DateTotal, 0, len(sums))
	for d, total := range sums {
		out = append(out, repository.DateTotal{Date: d, Total: total})
	}
	return out, nil
}

func (r *fakeClosureRepo) DiscrepancyStats(_ context.Context, f repository.PeriodFilter, minAbs *decimal.Decimal) (*repository.DiscrepancyStats, error) {
	stats := &repository.DiscrepancyStats{}
	var absSum decimal.Decimal
	for _, c := range r.discrepant(f, minAbs) {
		stats.Count++
		stats.TotalAmount = stats.TotalAmount.Add(c.Discrepancy)
		absSum = absSum.Add(c.Discrepancy.Abs())
		if c.Discrepancy.Abs().GreaterThan(stats.Largest) {
			stats.Largest = c.Discrepancy.Abs()
		}
	}
	if stats.Count > 0 {
		stats.Average = absSum.Div(decimal.NewFromInt(stats.Count))
	}
	return stats, nil
}

func (r *fakeClosureRepo) DiscrepancyRecords(_ context.Context, f repository.PeriodFilter, minAbs *decimal.Decimal, limit int) ([]model.Closure, error) {
	records := r.discrepant(f, minAbs)
	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (r *fakeClosureRepo) inPeriod(f repository.PeriodFilter) []model.Closure {
	var out []model.Closure
	for _, c := range r.closures {
		if !f.StartDate.IsZero() && c.ClosureDate.Before(f.StartDate) {
			continue
		}
		if !f.EndDate.IsZero() && c.ClosureDate.After(f.EndDate) {
			continue
		}
		if f.BranchID != uuid.Nil && c.BranchID != f.BranchID {
			continue
		}
		if f.WorkerID != uuid.Nil && c.WorkerID != f.WorkerID {
			continue
		}
		out = append(out, *c)
	}
	return out
}

func (r *fakeClosureRepo) discrepant(f repository.PeriodFilter, minAbs *decimal.Decimal) []model.Closure {
	var out []model.Closure
	for _, c := range r.inPeriod(f) {
		if !reconcile.HasDiscrepancy(c.Discrepancy) {
			continue
		}
		if minAbs != nil && c.Discrepancy.Abs().LessThan(*minAbs) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func toNameTotals(sums map[string]decimal.Decimal) []repository.NameTotal {
	out := make([]repository.NameTotal, 0, len(sums))
	for name, total := range sums {
		out = append(out, repository.NameTotal{Name: name, Total: total})
	}
	return out
}

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func (r *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, includeInactive bool) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		if includeInactive || u.Active {
			out = append(out, *u)
		}
	}
	return out, nil
}

type fakeBranchRepo struct {
	branches map[uuid.UUID]*model.Branch
}

func (r *fakeBranchRepo) Create(_ context.Context, b *model.Branch) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	r.branches[b.ID] = b
	return nil
}

func (r *fakeBranchRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Branch, error) {
	b, ok := r.branches[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return b, nil
}

func (r *fakeBranchRepo) Update(_ context.Context, b *model.Branch) error {
	r.branches[b.ID] = b
	return nil
}

func (r *fakeBranchRepo) List(_ context.Context, includeInactive bool) ([]model.Branch, error) {
	var out []model.Branch
	for _, b := range r.branches {
		if includeInactive || b.Active {
			out = append(out, *b)
		}
	}
	return out, nil
}

type fakeDispatcher struct {
	alerts []worker.AlertEmailPayload
	pdfs   []worker.DiscrepancyPDFPayload
}

func (d *fakeDispatcher) EnqueueAlertEmail(_ context.Context, p worker.AlertEmailPayload) error {
	d.alerts = append(d.alerts, p)
	return nil
}

func (d *fakeDispatcher) EnqueueDiscrepancyPDF(_ context.Context, p worker.DiscrepancyPDFPayload) error {
	d.pdfs = append(d.pdfs, p)
	return nil
}

// ── Fixture ──────────────────────────────────────────────────────────────────

type closureFixture struct {
	svc        service.ClosureService
	repo       *fakeClosureRepo
	dispatcher *fakeDispatcher
	workerID   uuid.UUID
	branchID   uuid.UUID
}

func newClosureFixture(t *testing.T) *closureFixture {
	t.Helper()

	repo := newFakeClosureRepo()
	users := &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
	branches := &fakeBranchRepo{branches: make(map[uuid.UUID]*model.Branch)}
	dispatcher := &fakeDispatcher{}

	workerRec := &model.User{Username: "cajero1", FullName: "Cajero Uno", Role: model.RoleStaff, Active: true}
	require.NoError(t, users.Create(context.Background(), workerRec))
	branchRec := &model.Branch{Name: "Tlalpan Centro", Active: true}
	require.NoError(t, branches.Create(context.Background(), branchRec))

	svc := service.NewClosureService(
		repo, users, branches, dispatcher, nil,
		decimal.NewFromInt(100), "admin@sushitlalpan.com",
	)
	return &closureFixture{
		svc:        svc,
		repo:       repo,
		dispatcher: dispatcher,
		workerID:   workerRec.ID,
		branchID:   branchRec.ID,
	}
}

func (f *closureFixture) createRequest() dto.CreateClosureRequest {
	return dto.CreateClosureRequest{
		ClosureDate:   "2026-08-15",
		ClosureNumber: 1,
		WorkerID:      f.workerID.String(),
		BranchID:      f.branchID.String(),
		PaymentsNbr:   25,
		SalesTotal:    decimal.RequireFromString("1250.50"),
		CardITPV:      decimal.RequireFromString("800.00"),
		CardRefund:    decimal.RequireFromString("25.00"),
		CardKiwi:      decimal.RequireFromString("300.00"),
		TransferAmt:   decimal.RequireFromString("50.00"),
		CashAmt:       decimal.RequireFromString("500.00"),
		CashRefund:    decimal.RequireFromString("24.50"),
		KiwiFeeTotal:  decimal.RequireFromString("12.50"),
	}
}

// balancedRequest has zero discrepancy: cash covers sales exactly.
func (f *closureFixture) balancedRequest(number int) dto.CreateClosureRequest {
	return dto.CreateClosureRequest{
		ClosureDate:   "2026-08-15",
		ClosureNumber: number,
		WorkerID:      f.workerID.String(),
		BranchID:      f.branchID.String(),
		PaymentsNbr:   4,
		SalesTotal:    decimal.RequireFromString("100.00"),
		CashAmt:       decimal.RequireFromString("100.00"),
	}
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestCreateClosureDerivesTotals(t *testing.T) {
	f := newClosureFixture(t)

	resp, err := f.svc.Create(context.Background(), f.createRequest())
	require.NoError(t, err)

	assert.Equal(t, "325.00", resp.CardTotal.StringFixed(2))
	assert.Equal(t, "475.50", resp.CashTotal.StringFixed(2))
	assert.Equal(t, "-450.00", resp.Discrepancy.StringFixed(2))
	assert.Equal(t, "50.02", resp.AvgSale.StringFixed(2))
	assert.Equal(t, "287.50", resp.CardKiwiMinusFee.StringFixed(2))
	assert.Equal(t, "1238.00", resp.RevenueTotal.StringFixed(2))
	assert.True(t, resp.HasDiscrepancy)
	assert.Equal(t, model.ReviewPending, resp.ReviewState)
}

func TestCreateClosureDuplicateTripleConflicts(t *testing.T) {
	f := newClosureFixture(t)

	_, err := f.svc.Create(context.Background(), f.createRequest())
	require.NoError(t, err)

	_, err = f.svc.Create(context.Background(), f.createRequest())
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestCreateClosureUnknownWorker(t *testing.T) {
	f := newClosureFixture(t)

	req := f.createRequest()
	req.WorkerID = uuid.NewString()

	_, err := f.svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCreateClosureUnknownBranch(t *testing.T) {
	f := newClosureFixture(t)

	req := f.createRequest()
	req.BranchID = uuid.NewString()

	_, err := f.svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdateClosureUnknownWorker(t *testing.T) {
	f := newClosureFixture(t)

	created, err := f.svc.Create(context.Background(), f.createRequest())
	require.NoError(t, err)

	ghost := uuid.NewString()
	_, err = f.svc.Update(context.Background(), uuid.MustParse(created.ID), dto.UpdateClosureRequest{
		WorkerID: &ghost,
	})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCreateClosureAlertsAboveThreshold(t *testing.T) {
	f := newClosureFixture(t)

	// |−450.00| crosses the 100.00 threshold
	_, err := f.svc.Create(context.Background(), f.createRequest())
	require.NoError(t, err)
	require.Len(t, f.dispatcher.alerts, 1)
	assert.Equal(t, "admin@sushitlalpan.com", f.dispatcher.alerts[0].ToEmail)
	assert.Contains(t, f.dispatcher.alerts[0].Body, "-450.00")
}

func TestCreateClosureNoAlertWhenBalanced(t *testing.T) {
	f := newClosureFixture(t)

	resp, err := f.svc.Create(context.Background(), f.balancedRequest(1))
	require.NoError(t, err)
	assert.Equal(t, "0.00", resp.Discrepancy.StringFixed(2))
	assert.False(t, resp.HasDiscrepancy)
	assert.Empty(t, f.dispatcher.alerts)
}

func TestUpdateClosureRecomputesDerived(t *testing.T) {
	f := newClosureFixture(t)

	created, err := f.svc.Create(context.Background(), f.balancedRequest(1))
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	newCash := decimal.RequireFromString("80.00")
	updated, err := f.svc.Update(context.Background(), id, dto.UpdateClosureRequest{CashAmt: &newCash})
	require.NoError(t, err)

	assert.Equal(t, "80.00", updated.CashTotal.StringFixed(2))
	assert.Equal(t, "-20.00", updated.Discrepancy.StringFixed(2))
	assert.True(t, updated.HasDiscrepancy)
}

func TestUpdateClosureRejectsNegativeAmount(t *testing.T) {
	f := newClosureFixture(t)

	created, err := f.svc.Create(context.Background(), f.balancedRequest(1))
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	negative := decimal.RequireFromString("-5.00")
	_, err = f.svc.Update(context.Background(), id, dto.UpdateClosureRequest{CashRefund: &negative})
	var verr *reconcile.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "cash_refund", verr.Field)
}

func TestUpdateClosureIntoExistingTripleConflicts(t *testing.T) {
	f := newClosureFixture(t)

	_, err := f.svc.Create(context.Background(), f.balancedRequest(1))
	require.NoError(t, err)
	second, err := f.svc.Create(context.Background(), f.balancedRequest(2))
	require.NoError(t, err)

	one := 1
	_, err = f.svc.Update(context.Background(), uuid.MustParse(second.ID), dto.UpdateClosureRequest{ClosureNumber: &one})
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestReviewWorkflowTransitions(t *testing.T) {
	f := newClosureFixture(t)

	created, err := f.svc.Create(context.Background(), f.balancedRequest(1))
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	obs := "cuadra con el corte fisico"
	approved, err := f.svc.UpdateReview(context.Background(), id, dto.ReviewUpdateRequest{
		ReviewState:        model.ReviewApproved,
		ReviewObservations: &obs,
	})
	require.NoError(t, err)
	assert.Equal(t, model.ReviewApproved, approved.ReviewState)
	require.NotNil(t, approved.ReviewObservations)
	assert.Equal(t, obs, *approved.ReviewObservations)

	// approved -> rejected must go through pending
	_, err = f.svc.UpdateReview(context.Background(), id, dto.ReviewUpdateRequest{ReviewState: model.ReviewRejected})
	var verr *reconcile.ValidationError
	require.ErrorAs(t, err, &verr)

	reopened, err := f.svc.UpdateReview(context.Background(), id, dto.ReviewUpdateRequest{ReviewState: model.ReviewPending})
	require.NoError(t, err)
	assert.Equal(t, model.ReviewPending, reopened.ReviewState)

	rejected, err := f.svc.UpdateReview(context.Background(), id, dto.ReviewUpdateRequest{ReviewState: model.ReviewRejected})
	require.NoError(t, err)
	assert.Equal(t, model.ReviewRejected, rejected.ReviewState)
}

func TestListByReviewStateRejectsUnknownState(t *testing.T) {
	f := newClosureFixture(t)

	_, err := f.svc.ListByReviewState(context.Background(), "archived", 0, 10)
	var verr *reconcile.ValidationError
	assert.ErrorAs(t, err, &verr)
}
