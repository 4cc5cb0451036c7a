package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sushitlalpan/sushi-be/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ExpenseTotals is the aggregation row behind an expense period summary.
type ExpenseTotals struct {
	TotalAmount       decimal.Decimal
	TotalCount        int64
	ReimbursableTotal decimal.Decimal
}

type ExpenseRepository interface {
	Create(ctx context.Context, e *model.Expense) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Expense, error)
	Update(ctx context.Context, e *model.Expense) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, branchID uuid.UUID, start, end time.Time, offset, limit int) ([]model.Expense, int64, error)
	ListByReviewState(ctx context.Context, state string, offset, limit int) ([]model.Expense, error)
	PeriodTotals(ctx context.Context, branchID uuid.UUID, start, end time.Time) (*ExpenseTotals, error)
	CategoryBreakdown(ctx context.Context, branchID uuid.UUID, start, end time.Time) ([]NameTotal, error)
}

type expenseRepo struct{ db *gorm.DB }

func NewExpenseRepository(db *gorm.DB) ExpenseRepository { return &expenseRepo{db: db} }

func (r *expenseRepo) Create(ctx context.Context, e *model.Expense) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *expenseRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Expense, error) {
	var e model.Expense
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &e, err
}

func (r *expenseRepo) Update(ctx context.Context, e *model.Expense) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *expenseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Expense{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func expenseScope(q *gorm.DB, branchID uuid.UUID, start, end time.Time) *gorm.DB {
	if branchID != uuid.Nil {
		q = q.Where("branch_id = ?", branchID)
	}
	if !start.IsZero() {
		q = q.Where("expense_date >= ?", start)
	}
	if !end.IsZero() {
		q = q.Where("expense_date <= ?", end)
	}
	return q
}

func (r *expenseRepo) List(ctx context.Context, branchID uuid.UUID, start, end time.Time, offset, limit int) ([]model.Expense, int64, error) {
	q := expenseScope(r.db.WithContext(ctx).Model(&model.Expense{}), branchID, start, end)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var expenses []model.Expense
	err := q.Order("expense_date DESC, created_at DESC").
		Offset(offset).Limit(limit).
		Find(&expenses).Error
	return expenses, total, err
}

func (r *expenseRepo) ListByReviewState(ctx context.Context, state string, offset, limit int) ([]model.Expense, error) {
	var expenses []model.Expense
	err := r.db.WithContext(ctx).
		Where("review_state = ?", state).
		Order("expense_date DESC").
		Offset(offset).Limit(limit).
		Find(&expenses).Error
	return expenses, err
}

func (r *expenseRepo) PeriodTotals(ctx context.Context, branchID uuid.UUID, start, end time.Time) (*ExpenseTotals, error) {
	var row ExpenseTotals
	q := expenseScope(r.db.WithContext(ctx).Model(&model.Expense{}), branchID, start, end)
	err := q.Select(`
		COALESCE(SUM(amount), 0) AS total_amount,
		COUNT(id)                AS total_count,
		COALESCE(SUM(CASE WHEN reimbursable THEN amount ELSE 0 END), 0) AS reimbursable_total`).
		Scan(&row).Error
	return &row, err
}

func (r *expenseRepo) CategoryBreakdown(ctx context.Context, branchID uuid.UUID, start, end time.Time) ([]NameTotal, error) {
	var rows []NameTotal
	q := expenseScope(r.db.WithContext(ctx).Model(&model.Expense{}), branchID, start, end)
	err := q.Select("category AS name, SUM(amount) AS total").
		Group("category").
		Scan(&rows).Error
	return rows, err
}
