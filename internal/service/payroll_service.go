package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sushitlalpan/sushi-be/internal/dto"
	"github.com/sushitlalpan/sushi-be/internal/model"
	"github.com/sushitlalpan/sushi-be/internal/reconcile"
	"github.com/sushitlalpan/sushi-be/internal/repository"

	"github.com/google/uuid"
)

type PayrollService interface {
	Create(ctx context.Context, req dto.CreatePayrollRequest) (*dto.PayrollResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.PayrollResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdatePayrollRequest) (*dto.PayrollResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, workerID, branchID, start, end string, offset, limit int) ([]dto.PayrollResponse, int64, error)
	UpdateReview(ctx context.Context, id uuid.UUID, req dto.ReviewUpdateRequest) (*dto.PayrollResponse, error)
}

type payrollService struct {
	payroll  repository.PayrollRepository
	users    repository.UserRepository
	branches repository.BranchRepository
}

func NewPayrollService(payroll repository.PayrollRepository, users repository.UserRepository, branches repository.BranchRepository) PayrollService {
	return &payrollService{payroll: payroll, users: users, branches: branches}
}

// derivePayroll recomputes the stored totals from the raw fields. Runs on
// every write so gross and net are never stale.
func derivePayroll(p *model.Payroll) {
	p.GrossAmt = p.HoursWorked.Mul(p.HourlyRate).Add(p.BonusAmt)
	p.NetAmt = p.GrossAmt.Sub(p.DeductionAmt)
}

func (s *payrollService) Create(ctx context.Context, req dto.CreatePayrollRequest) (*dto.PayrollResponse, error) {
	workerID, err := uuid.Parse(req.WorkerID)
	if err != nil {
		return nil, &reconcile.ValidationError{Field: "worker_id", Reason: "uuid invalido"}
	}
	branchID, err := uuid.Parse(req.BranchID)
	if err != nil {
		return nil, &reconcile.ValidationError{Field: "branch_id", Reason: "uuid invalido"}
	}
	periodStart, err := time.Parse(closureDateLayout, req.PeriodStart)
	if err != nil {
		return nil, &reconcile.ValidationError{Field: "period_start", Reason: "formato invalido, se espera YYYY-MM-DD"}
	}
	periodEnd, err := time.Parse(closureDateLayout, req.PeriodEnd)
	if err != nil {
		return nil, &reconcile.ValidationError{Field: "period_end", Reason: "formato invalido, se espera YYYY-MM-DD"}
	}
	if periodEnd.Before(periodStart) {
		return nil, &reconcile.ValidationError{Field: "period_end", Reason: "debe ser mayor o igual a period_start"}
	}

	if _, err := s.users.FindByID(ctx, workerID); err != nil {
		return nil, fmt.Errorf("worker_id: %w", err)
	}
	if _, err := s.branches.FindByID(ctx, branchID); err != nil {
		return nil, fmt.Errorf("branch_id: %w", err)
	}

	record := &model.Payroll{
		WorkerID:     workerID,
		BranchID:     branchID,
		PeriodStart:  periodStart,
		PeriodEnd:    periodEnd,
		HoursWorked:  req.HoursWorked,
		HourlyRate:   req.HourlyRate,
		BonusAmt:     req.BonusAmt,
		DeductionAmt: req.DeductionAmt,
		ReviewState:  model.ReviewPending,
	}
	derivePayroll(record)

	if err := s.payroll.Create(ctx, record); err != nil {
		return nil, err
	}
	resp := toPayrollResponse(record)
	return &resp, nil
}

func (s *payrollService) GetByID(ctx context.Context, id uuid.UUID) (*dto.PayrollResponse, error) {
	record, err := s.payroll.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toPayrollResponse(record)
	return &resp, nil
}

func (s *payrollService) Update(ctx context.Context, id uuid.UUID, req dto.UpdatePayrollRequest) (*dto.PayrollResponse, error) {
	record, err := s.payroll.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.PeriodStart != nil {
		d, err := time.Parse(closureDateLayout, *req.PeriodStart)
		if err != nil {
			return nil, &reconcile.ValidationError{Field: "period_start", Reason: "formato invalido, se espera YYYY-MM-DD"}
		}
		record.PeriodStart = d
	}
	if req.PeriodEnd != nil {
		d, err := time.Parse(closureDateLayout, *req.PeriodEnd)
		if err != nil {
			return nil, &reconcile.ValidationError{Field: "period_end", Reason: "formato invalido, se espera YYYY-MM-DD"}
		}
		record.PeriodEnd = d
	}
	if record.PeriodEnd.Before(record.PeriodStart) {
		return nil, &reconcile.ValidationError{Field: "period_end", Reason: "debe ser mayor o igual a period_start"}
	}
	if req.HoursWorked != nil {
		record.HoursWorked = *req.HoursWorked
	}
	if req.HourlyRate != nil {
		record.HourlyRate = *req.HourlyRate
	}
	if req.BonusAmt != nil {
		record.BonusAmt = *req.BonusAmt
	}
	if req.DeductionAmt != nil {
		record.DeductionAmt = *req.DeductionAmt
	}
	derivePayroll(record)

	if err := s.payroll.Update(ctx, record); err != nil {
		return nil, err
	}
	resp := toPayrollResponse(record)
	return &resp, nil
}

func (s *payrollService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.payroll.Delete(ctx, id)
}

func (s *payrollService) List(ctx context.Context, workerID, branchID, start, end string, offset, limit int) ([]dto.PayrollResponse, int64, error) {
	var wid, bid uuid.UUID
	var err error
	if workerID != "" {
		if wid, err = uuid.Parse(workerID); err != nil {
			return nil, 0, &reconcile.ValidationError{Field: "worker_id", Reason: "uuid invalido"}
		}
	}
	bid2, startDate, endDate, err := parseExpenseScope(branchID, start, end)
	if err != nil {
		return nil, 0, err
	}
	bid = bid2
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	records, total, err := s.payroll.List(ctx, wid, bid, startDate, endDate, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.PayrollResponse, 0, len(records))
	for i := range records {
		out = append(out, toPayrollResponse(&records[i]))
	}
	return out, total, nil
}

func (s *payrollService) UpdateReview(ctx context.Context, id uuid.UUID, req dto.ReviewUpdateRequest) (*dto.PayrollResponse, error) {
	record, err := s.payroll.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateReviewTransition(record.ReviewState, req.ReviewState); err != nil {
		return nil, err
	}
	record.ReviewState = req.ReviewState
	if req.ReviewObservations != nil {
		record.ReviewObservations = req.ReviewObservations
	}
	if err := s.payroll.Update(ctx, record); err != nil {
		return nil, err
	}
	resp := toPayrollResponse(record)
	return &resp, nil
}

func toPayrollResponse(p *model.Payroll) dto.PayrollResponse {
	return dto.PayrollResponse{
		ID:                 p.ID.String(),
		WorkerID:           p.WorkerID.String(),
		BranchID:           p.BranchID.String(),
		PeriodStart:        p.PeriodStart.Format(closureDateLayout),
		PeriodEnd:          p.PeriodEnd.Format(closureDateLayout),
		HoursWorked:        p.HoursWorked,
		HourlyRate:         p.HourlyRate,
		BonusAmt:           p.BonusAmt,
		DeductionAmt:       p.DeductionAmt,
		GrossAmt:           p.GrossAmt,
		NetAmt:             p.NetAmt,
		ReviewState:        p.ReviewState,
		ReviewObservations: p.ReviewObservations,
		CreatedAt:          p.CreatedAt.UTC().Format(time.RFC3339),
	}
}
