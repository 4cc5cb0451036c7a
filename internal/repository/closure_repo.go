package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sushitlalpan/sushi-be/internal/dto"
	"github.com/sushitlalpan/sushi-be/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// discrepancyTolerance mirrors reconcile.DiscrepancyTolerance for SQL filters.
const discrepancyTolerance = "0.01"

// PeriodTotals is the raw aggregation row behind a period summary.
type PeriodTotals struct {
	TotalSales       decimal.Decimal
	TotalPayments    int64
	TotalDiscrepancy decimal.Decimal
	TotalRevenue     decimal.Decimal
	TotalFees        decimal.Decimal
	TotalCard        decimal.Decimal
	TotalCash        decimal.Decimal
	TotalRecords     int64
}

// NameTotal is one breakdown row (branch name or worker username → summed sales).
type NameTotal struct {
	Name  string
	Total decimal.Decimal
}

// DateTotal is one daily time-series row.
type DateTotal struct {
	Date  time.Time
	Total decimal.Decimal
}

// DiscrepancyStats summarizes the discrepant closures in a range.
type DiscrepancyStats struct {
	Count       int64
	TotalAmount decimal.Decimal // signed sum
	Largest     decimal.Decimal // largest absolute discrepancy
	Average     decimal.Decimal // average absolute discrepancy
}

// PeriodFilter narrows aggregation queries. Zero UUIDs mean "no filter".
type PeriodFilter struct {
	StartDate time.Time
	EndDate   time.Time
	BranchID  uuid.UUID
	WorkerID  uuid.UUID
}

type ClosureRepository interface {
	// Create persists a new closure. The unique index on
	// (branch_id, closure_date, closure_number) is the authority on
	// duplicates: concurrent submissions of the same triple yield exactly
	// one success, the loser gets ErrConflict.
	Create(ctx context.Context, c *model.Closure) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Closure, error)
	// Update saves an amended closure; duplicate triples map to ErrConflict.
	Update(ctx context.Context, c *model.Closure) error
	Delete(ctx context.Context, id uuid.UUID) error

	// TripleTaken reports whether another closure (id != excludeID) already
	// occupies (branch, date, number). Used as a pre-flight check on update;
	// the unique index still backs it atomically.
	TripleTaken(ctx context.Context, branchID uuid.UUID, date time.Time, number int, excludeID uuid.UUID) (bool, error)

	List(ctx context.Context, f dto.ClosureFilter) ([]model.Closure, int64, error)
	ListByReviewState(ctx context.Context, state string, offset, limit int) ([]model.Closure, error)
	CountPendingOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	// Aggregations for the period reports. All sums are SQL-side and
	// decimal-safe (NUMERIC columns).
	PeriodTotals(ctx context.Context, f PeriodFilter) (*PeriodTotals, error)
	BranchBreakdown(ctx context.Context, f PeriodFilter) ([]NameTotal, error)
	WorkerBreakdown(ctx context.Context, f PeriodFilter) ([]NameTotal, error)
	DailyTotals(ctx context.Context, f PeriodFilter) ([]DateTotal, error)
	DiscrepancyStats(ctx context.Context, f PeriodFilter, minAbs *decimal.Decimal) (*DiscrepancyStats, error)
	// DiscrepancyRecords returns the limit largest |discrepancy| closures,
	// eager-loading worker and branch.
	DiscrepancyRecords(ctx context.Context, f PeriodFilter, minAbs *decimal.Decimal, limit int) ([]model.Closure, error)
}

type closureRepo struct{ db *gorm.DB }

func NewClosureRepository(db *gorm.DB) ClosureRepository { return &closureRepo{db: db} }

func (r *closureRepo) Create(ctx context.Context, c *model.Closure) error {
	err := r.db.WithContext(ctx).Create(c).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrConflict
	}
	return err
}

func (r *closureRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Closure, error) {
	var c model.Closure
	err := r.db.WithContext(ctx).Preload("Worker").Preload("Branch").First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &c, err
}

func (r *closureRepo) Update(ctx context.Context, c *model.Closure) error {
	err := r.db.WithContext(ctx).Save(c).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrConflict
	}
	return err
}

func (r *closureRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Closure{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *closureRepo) TripleTaken(ctx context.Context, branchID uuid.UUID, date time.Time, number int, excludeID uuid.UUID) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&model.Closure{}).
		Where("branch_id = ? AND closure_date = ? AND closure_number = ?", branchID, date, number)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *closureRepo) List(ctx context.Context, f dto.ClosureFilter) ([]model.Closure, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Closure{})

	if f.WorkerID != "" {
		q = q.Where("worker_id = ?", f.WorkerID)
	}
	if f.BranchID != "" {
		q = q.Where("branch_id = ?", f.BranchID)
	}
	if f.StartDate != "" {
		q = q.Where("closure_date >= ?", f.StartDate)
	}
	if f.EndDate != "" {
		q = q.Where("closure_date <= ?", f.EndDate)
	}
	if f.ClosureNumber > 0 {
		q = q.Where("closure_number = ?", f.ClosureNumber)
	}
	if f.HasDiscrepancy != nil {
		if *f.HasDiscrepancy {
			q = q.Where("ABS(discrepancy) > " + discrepancyTolerance)
		} else {
			q = q.Where("ABS(discrepancy) <= " + discrepancyTolerance)
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Date sorts break ties by closure_number descending: the most recent
	// closure of a day lists first.
	switch f.OrderBy {
	case "date_asc":
		q = q.Order("closure_date ASC, closure_number DESC")
	case "sales_desc":
		q = q.Order("sales_total DESC, closure_date DESC, closure_number DESC")
	case "sales_asc":
		q = q.Order("sales_total ASC, closure_date DESC, closure_number DESC")
	case "discrepancy_desc":
		q = q.Order("ABS(discrepancy) DESC, closure_date DESC, closure_number DESC")
	default: // date_desc
		q = q.Order("closure_date DESC, closure_number DESC")
	}

	var closures []model.Closure
	err := q.Preload("Worker").Preload("Branch").
		Offset(f.Offset).Limit(f.Limit).
		Find(&closures).Error
	return closures, total, err
}

func (r *closureRepo) ListByReviewState(ctx context.Context, state string, offset, limit int) ([]model.Closure, error) {
	var closures []model.Closure
	err := r.db.WithContext(ctx).
		Where("review_state = ?", state).
		Order("closure_date DESC, closure_number DESC").
		Preload("Worker").Preload("Branch").
		Offset(offset).Limit(limit).
		Find(&closures).Error
	return closures, err
}

func (r *closureRepo) CountPendingOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Closure{}).
		Where("review_state = ? AND created_at < ?", model.ReviewPending, cutoff).
		Count(&count).Error
	return count, err
}

func periodScope(q *gorm.DB, f PeriodFilter) *gorm.DB {
	if !f.StartDate.IsZero() {
		q = q.Where("closure_date >= ?", f.StartDate)
	}
	if !f.EndDate.IsZero() {
		q = q.Where("closure_date <= ?", f.EndDate)
	}
	if f.BranchID != uuid.Nil {
		q = q.Where("branch_id = ?", f.BranchID)
	}
	if f.WorkerID != uuid.Nil {
		q = q.Where("worker_id = ?", f.WorkerID)
	}
	return q
}

func (r *closureRepo) PeriodTotals(ctx context.Context, f PeriodFilter) (*PeriodTotals, error) {
	var row PeriodTotals
	q := periodScope(r.db.WithContext(ctx).Model(&model.Closure{}), f)
	err := q.Select(`
		COALESCE(SUM(sales_total), 0)    AS total_sales,
		COALESCE(SUM(payments_nbr), 0)   AS total_payments,
		COALESCE(SUM(discrepancy), 0)    AS total_discrepancy,
		COALESCE(SUM(revenue_total), 0)  AS total_revenue,
		COALESCE(SUM(kiwi_fee_total), 0) AS total_fees,
		COALESCE(SUM(card_total), 0)     AS total_card,
		COALESCE(SUM(cash_total), 0)     AS total_cash,
		COUNT(id)                        AS total_records`).
		Scan(&row).Error
	return &row, err
}

func (r *closureRepo) BranchBreakdown(ctx context.Context, f PeriodFilter) ([]NameTotal, error) {
	var rows []NameTotal
	q := periodScope(r.db.WithContext(ctx).Model(&model.Closure{}), f)
	err := q.
		Joins("JOIN branches ON branches.id = closures.branch_id").
		Select("branches.name AS name, SUM(closures.sales_total) AS total").
		Group("branches.name").
		Scan(&rows).Error
	return rows, err
}

func (r *closureRepo) WorkerBreakdown(ctx context.Context, f PeriodFilter) ([]NameTotal, error) {
	var rows []NameTotal
	q := periodScope(r.db.WithContext(ctx).Model(&model.Closure{}), f)
	err := q.
		Joins("JOIN users ON users.id = closures.worker_id").
		Select("users.username AS name, SUM(closures.sales_total) AS total").
		Group("users.username").
		Scan(&rows).Error
	return rows, err
}

func (r *closureRepo) DailyTotals(ctx context.Context, f PeriodFilter) ([]DateTotal, error) {
	var rows []DateTotal
	q := periodScope(r.db.WithContext(ctx).Model(&model.Closure{}), f)
	err := q.
		Select("closure_date AS date, SUM(sales_total) AS total").
		Group("closure_date").
		Order("closure_date ASC").
		Scan(&rows).Error
	return rows, err
}

func discrepancyScope(q *gorm.DB, f PeriodFilter, minAbs *decimal.Decimal) *gorm.DB {
	q = periodScope(q, f).Where("ABS(discrepancy) > " + discrepancyTolerance)
	if minAbs != nil {
		q = q.Where("ABS(discrepancy) >= ?", *minAbs)
	}
	return q
}

func (r *closureRepo) DiscrepancyStats(ctx context.Context, f PeriodFilter, minAbs *decimal.Decimal) (*DiscrepancyStats, error) {
	var row DiscrepancyStats
	q := discrepancyScope(r.db.WithContext(ctx).Model(&model.Closure{}), f, minAbs)
	err := q.Select(`
		COUNT(id)                             AS count,
		COALESCE(SUM(discrepancy), 0)         AS total_amount,
		COALESCE(MAX(ABS(discrepancy)), 0)    AS largest,
		COALESCE(AVG(ABS(discrepancy)), 0)    AS average`).
		Scan(&row).Error
	return &row, err
}

func (r *closureRepo) DiscrepancyRecords(ctx context.Context, f PeriodFilter, minAbs *decimal.Decimal, limit int) ([]model.Closure, error) {
	var closures []model.Closure
	q := discrepancyScope(r.db.WithContext(ctx).Model(&model.Closure{}), f, minAbs)
	err := q.
		Order("ABS(discrepancy) DESC, closure_date DESC, closure_number DESC").
		Preload("Worker").Preload("Branch").
		Limit(limit).
		Find(&closures).Error
	return closures, err
}
