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

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePayrollRepo struct {
	records map[uuid.UUID]*model.Payroll
}

func (r *fakePayrollRepo) Create(_ context.Context, p *model.Payroll) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()
	r.records[p.ID] = p
	return nil
}

func (r *fakePayrollRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Payroll, error) {
	p, ok := r.records[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (r *fakePayrollRepo) Update(_ context.Context, p *model.Payroll) error {
	r.records[p.ID] = p
	return nil
}

func (r *fakePayrollRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.records[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.records, id)
	return nil
}

func (r *fakePayrollRepo) List(_ context.Context, _, _ uuid.UUID, _, _ time.Time, _, _ int) ([]model.Payroll, int64, error) {
	var out []model.Payroll
	for _, p := range r.records {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *fakePayrollRepo) ListByReviewState(_ context.Context, state string, _, _ int) ([]model.Payroll, error) {
	var out []model.Payroll
	for _, p := range r.records {
		if p.ReviewState == state {
			out = append(out, *p)
		}
	}
	return out, nil
}

func newPayrollFixture(t *testing.T) (service.PayrollService, uuid.UUID, uuid.UUID) {
	t.Helper()
	users := &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
	branches := &fakeBranchRepo{branches: make(map[uuid.UUID]*model.Branch)}

	workerRec := &model.User{Username: "cajero1", Role: model.RoleStaff, Active: true}
	require.NoError(t, users.Create(context.Background(), workerRec))
	branchRec := &model.Branch{Name: "Tlalpan Centro", Active: true}
	require.NoError(t, branches.Create(context.Background(), branchRec))

	svc := service.NewPayrollService(&fakePayrollRepo{records: make(map[uuid.UUID]*model.Payroll)}, users, branches)
	return svc, workerRec.ID, branchRec.ID
}

func TestPayrollCreateDerivesGrossAndNet(t *testing.T) {
	svc, workerID, branchID := newPayrollFixture(t)

	resp, err := svc.Create(context.Background(), dto.CreatePayrollRequest{
		WorkerID:     workerID.String(),
		BranchID:     branchID.String(),
		PeriodStart:  "2026-08-01",
		PeriodEnd:    "2026-08-15",
		HoursWorked:  decimal.RequireFromString("80.00"),
		HourlyRate:   decimal.RequireFromString("62.50"),
		BonusAmt:     decimal.RequireFromString("500.00"),
		DeductionAmt: decimal.RequireFromString("350.00"),
	})
	require.NoError(t, err)

	// gross = 80*62.50 + 500 = 5500; net = 5500 - 350
	assert.Equal(t, "5500.00", resp.GrossAmt.StringFixed(2))
	assert.Equal(t, "5150.00", resp.NetAmt.StringFixed(2))
	assert.Equal(t, model.ReviewPending, resp.ReviewState)
}

func TestPayrollUpdateRecomputes(t *testing.T) {
	svc, workerID, branchID := newPayrollFixture(t)

	created, err := svc.Create(context.Background(), dto.CreatePayrollRequest{
		WorkerID:    workerID.String(),
		BranchID:    branchID.String(),
		PeriodStart: "2026-08-01",
		PeriodEnd:   "2026-08-15",
		HoursWorked: decimal.RequireFromString("40.00"),
		HourlyRate:  decimal.RequireFromString("100.00"),
	})
	require.NoError(t, err)

	hours := decimal.RequireFromString("45.00")
	updated, err := svc.Update(context.Background(), uuid.MustParse(created.ID), dto.UpdatePayrollRequest{
		HoursWorked: &hours,
	})
	require.NoError(t, err)
	assert.Equal(t, "4500.00", updated.GrossAmt.StringFixed(2))
	assert.Equal(t, "4500.00", updated.NetAmt.StringFixed(2))
}

func TestPayrollRejectsInvertedPeriod(t *testing.T) {
	svc, workerID, branchID := newPayrollFixture(t)

	_, err := svc.Create(context.Background(), dto.CreatePayrollRequest{
		WorkerID:    workerID.String(),
		BranchID:    branchID.String(),
		PeriodStart: "2026-08-15",
		PeriodEnd:   "2026-08-01",
	})
	var verr *reconcile.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "period_end", verr.Field)
}

func TestPayrollCreateUnknownWorker(t *testing.T) {
	svc, _, branchID := newPayrollFixture(t)

	_, err := svc.Create(context.Background(), dto.CreatePayrollRequest{
		WorkerID:    uuid.NewString(),
		BranchID:    branchID.String(),
		PeriodStart: "2026-08-01",
		PeriodEnd:   "2026-08-15",
	})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPayrollReviewTransition(t *testing.T) {
	svc, workerID, branchID := newPayrollFixture(t)

	created, err := svc.Create(context.Background(), dto.CreatePayrollRequest{
		WorkerID:    workerID.String(),
		BranchID:    branchID.String(),
		PeriodStart: "2026-08-01",
		PeriodEnd:   "2026-08-15",
	})
	require.NoError(t, err)

	approved, err := svc.UpdateReview(context.Background(), uuid.MustParse(created.ID), dto.ReviewUpdateRequest{
		ReviewState: model.ReviewApproved,
	})
	require.NoError(t, err)
	assert.Equal(t, model.ReviewApproved, approved.ReviewState)
}
