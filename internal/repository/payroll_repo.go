package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sushitlalpan/sushi-be/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PayrollRepository interface {
	Create(ctx context.Context, p *model.Payroll) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Payroll, error)
	Update(ctx context.Context, p *model.Payroll) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, workerID, branchID uuid.UUID, start, end time.Time, offset, limit int) ([]model.Payroll, int64, error)
	ListByReviewState(ctx context.Context, state string, offset, limit int) ([]model.Payroll, error)
}

type payrollRepo struct{ db *gorm.DB }

func NewPayrollRepository(db *gorm.DB) PayrollRepository { return &payrollRepo{db: db} }

func (r *payrollRepo) Create(ctx context.Context, p *model.Payroll) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *payrollRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Payroll, error) {
	var p model.Payroll
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &p, err
}

func (r *payrollRepo) Update(ctx context.Context, p *model.Payroll) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *payrollRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Payroll{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *payrollRepo) List(ctx context.Context, workerID, branchID uuid.UUID, start, end time.Time, offset, limit int) ([]model.Payroll, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Payroll{})
	if workerID != uuid.Nil {
		q = q.Where("worker_id = ?", workerID)
	}
	if branchID != uuid.Nil {
		q = q.Where("branch_id = ?", branchID)
	}
	if !start.IsZero() {
		q = q.Where("period_start >= ?", start)
	}
	if !end.IsZero() {
		q = q.Where("period_end <= ?", end)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []model.Payroll
	err := q.Order("period_start DESC").
		Offset(offset).Limit(limit).
		Find(&records).Error
	return records, total, err
}

func (r *payrollRepo) ListByReviewState(ctx context.Context, state string, offset, limit int) ([]model.Payroll, error) {
	var records []model.Payroll
	err := r.db.WithContext(ctx).
		Where("review_state = ?", state).
		Order("period_start DESC").
		Offset(offset).Limit(limit).
		Find(&records).Error
	return records, err
}
