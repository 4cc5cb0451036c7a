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
	"github.com/shopspring/decimal"
)

type ExpenseService interface {
	Create(ctx context.Context, req dto.CreateExpenseRequest) (*dto.ExpenseResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.ExpenseResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateExpenseRequest) (*dto.ExpenseResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, branchID string, start, end string, offset, limit int) ([]dto.ExpenseResponse, int64, error)
	UpdateReview(ctx context.Context, id uuid.UUID, req dto.ReviewUpdateRequest) (*dto.ExpenseResponse, error)
	PeriodSummary(ctx context.Context, branchID string, start, end string) (*dto.ExpensePeriodSummary, error)
}

type expenseService struct {
	expenses repository.ExpenseRepository
	branches repository.BranchRepository
	users    repository.UserRepository
}

func NewExpenseService(expenses repository.ExpenseRepository, branches repository.BranchRepository, users repository.UserRepository) ExpenseService {
	return &expenseService{expenses: expenses, branches: branches, users: users}
}

func (s *expenseService) Create(ctx context.Context, req dto.CreateExpenseRequest) (*dto.ExpenseResponse, error) {
	branchID, err := uuid.Parse(req.BranchID)
	if err != nil {
		return nil, &reconcile.ValidationError{Field: "branch_id", Reason: "uuid invalido"}
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, &reconcile.ValidationError{Field: "user_id", Reason: "uuid invalido"}
	}
	expenseDate, err := time.Parse(closureDateLayout, req.ExpenseDate)
	if err != nil {
		return nil, &reconcile.ValidationError{Field: "expense_date", Reason: "formato invalido, se espera YYYY-MM-DD"}
	}

	if _, err := s.branches.FindByID(ctx, branchID); err != nil {
		return nil, fmt.Errorf("branch_id: %w", err)
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("user_id: %w", err)
	}

	expense := &model.Expense{
		BranchID:     branchID,
		UserID:       userID,
		ExpenseDate:  expenseDate,
		Category:     req.Category,
		Description:  req.Description,
		Amount:       req.Amount,
		Reimbursable: req.Reimbursable,
		ReviewState:  model.ReviewPending,
	}
	if err := s.expenses.Create(ctx, expense); err != nil {
		return nil, err
	}
	resp := toExpenseResponse(expense)
	return &resp, nil
}

func (s *expenseService) GetByID(ctx context.Context, id uuid.UUID) (*dto.ExpenseResponse, error) {
	expense, err := s.expenses.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toExpenseResponse(expense)
	return &resp, nil
}

func (s *expenseService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateExpenseRequest) (*dto.ExpenseResponse, error) {
	expense, err := s.expenses.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.ExpenseDate != nil {
		d, err := time.Parse(closureDateLayout, *req.ExpenseDate)
		if err != nil {
			return nil, &reconcile.ValidationError{Field: "expense_date", Reason: "formato invalido, se espera YYYY-MM-DD"}
		}
		expense.ExpenseDate = d
	}
	if req.Category != nil {
		expense.Category = *req.Category
	}
	if req.Description != nil {
		expense.Description = *req.Description
	}
	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			return nil, &reconcile.ValidationError{Field: "amount", Reason: "debe ser mayor a cero"}
		}
		expense.Amount = *req.Amount
	}
	if req.Reimbursable != nil {
		expense.Reimbursable = *req.Reimbursable
	}
	if err := s.expenses.Update(ctx, expense); err != nil {
		return nil, err
	}
	resp := toExpenseResponse(expense)
	return &resp, nil
}

func (s *expenseService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.expenses.Delete(ctx, id)
}

func (s *expenseService) List(ctx context.Context, branchID string, start, end string, offset, limit int) ([]dto.ExpenseResponse, int64, error) {
	bid, startDate, endDate, err := parseExpenseScope(branchID, start, end)
	if err != nil {
		return nil, 0, err
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	expenses, total, err := s.expenses.List(ctx, bid, startDate, endDate, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.ExpenseResponse, 0, len(expenses))
	for i := range expenses {
		out = append(out, toExpenseResponse(&expenses[i]))
	}
	return out, total, nil
}

func (s *expenseService) UpdateReview(ctx context.Context, id uuid.UUID, req dto.ReviewUpdateRequest) (*dto.ExpenseResponse, error) {
	expense, err := s.expenses.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateReviewTransition(expense.ReviewState, req.ReviewState); err != nil {
		return nil, err
	}
	expense.ReviewState = req.ReviewState
	if req.ReviewObservations != nil {
		expense.ReviewObservations = req.ReviewObservations
	}
	if err := s.expenses.Update(ctx, expense); err != nil {
		return nil, err
	}
	resp := toExpenseResponse(expense)
	return &resp, nil
}

func (s *expenseService) PeriodSummary(ctx context.Context, branchID string, start, end string) (*dto.ExpensePeriodSummary, error) {
	bid, startDate, endDate, err := parseExpenseScope(branchID, start, end)
	if err != nil {
		return nil, err
	}

	totals, err := s.expenses.PeriodTotals(ctx, bid, startDate, endDate)
	if err != nil {
		return nil, err
	}
	categories, err := s.expenses.CategoryBreakdown(ctx, bid, startDate, endDate)
	if err != nil {
		return nil, err
	}

	summary := &dto.ExpensePeriodSummary{
		TotalAmount:       totals.TotalAmount,
		TotalCount:        totals.TotalCount,
		ReimbursableTotal: totals.ReimbursableTotal,
		ByCategory:        make(map[string]decimal.Decimal, len(categories)),
	}
	for _, row := range categories {
		summary.ByCategory[row.Name] = row.Total
	}
	return summary, nil
}

func parseExpenseScope(branchID, start, end string) (uuid.UUID, time.Time, time.Time, error) {
	var bid uuid.UUID
	var startDate, endDate time.Time
	var err error

	if branchID != "" {
		if bid, err = uuid.Parse(branchID); err != nil {
			return bid, startDate, endDate, &reconcile.ValidationError{Field: "branch_id", Reason: "uuid invalido"}
		}
	}
	if start != "" {
		if startDate, err = time.Parse(closureDateLayout, start); err != nil {
			return bid, startDate, endDate, &reconcile.ValidationError{Field: "start_date", Reason: "formato invalido, se espera YYYY-MM-DD"}
		}
	}
	if end != "" {
		if endDate, err = time.Parse(closureDateLayout, end); err != nil {
			return bid, startDate, endDate, &reconcile.ValidationError{Field: "end_date", Reason: "formato invalido, se espera YYYY-MM-DD"}
		}
	}
	return bid, startDate, endDate, nil
}

func toExpenseResponse(e *model.Expense) dto.ExpenseResponse {
	return dto.ExpenseResponse{
		ID:                 e.ID.String(),
		BranchID:           e.BranchID.String(),
		UserID:             e.UserID.String(),
		ExpenseDate:        e.ExpenseDate.Format(closureDateLayout),
		Category:           e.Category,
		Description:        e.Description,
		Amount:             e.Amount,
		Reimbursable:       e.Reimbursable,
		ReviewState:        e.ReviewState,
		ReviewObservations: e.ReviewObservations,
		CreatedAt:          e.CreatedAt.UTC().Format(time.RFC3339),
	}
}
