package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sushitlalpan/sushi-be/internal/dto"
	"github.com/sushitlalpan/sushi-be/internal/reconcile"
	"github.com/sushitlalpan/sushi-be/internal/repository"
	"github.com/sushitlalpan/sushi-be/internal/worker"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	reportCachePrefix     = "report:"
	discrepancyReportCap  = 50
	defaultReportCacheTTL = 5 * time.Minute
)

var oneHundred = decimal.NewFromInt(100)

// ReportService aggregates closures into period reports. Responses are cached
// in Redis and invalidated on every closure write.
type ReportService interface {
	PeriodSummary(ctx context.Context, params dto.ReportParams) (*dto.PeriodSummary, error)
	PeriodReport(ctx context.Context, params dto.ReportParams) (*dto.PeriodReport, error)
	DiscrepancyReport(ctx context.Context, params dto.ReportParams) (*dto.DiscrepancyReport, error)
	EnqueueDiscrepancyPDF(ctx context.Context, params dto.ReportParams, toEmail string) error
}

// ReportDispatcher is the slice of the job dispatcher the report service
// needs. Satisfied by *worker.Dispatcher.
type ReportDispatcher interface {
	EnqueueDiscrepancyPDF(ctx context.Context, payload worker.DiscrepancyPDFPayload) error
}

type reportService struct {
	closures   repository.ClosureRepository
	dispatcher ReportDispatcher
	rdb        *redis.Client
	cacheTTL   time.Duration
}

func NewReportService(closures repository.ClosureRepository, dispatcher ReportDispatcher, rdb *redis.Client, cacheTTL time.Duration) ReportService {
	if cacheTTL <= 0 {
		cacheTTL = defaultReportCacheTTL
	}
	return &reportService{closures: closures, dispatcher: dispatcher, rdb: rdb, cacheTTL: cacheTTL}
}

// ── Period summary ────────────────────────────────────────────────────────────

func (s *reportService) PeriodSummary(ctx context.Context, params dto.ReportParams) (*dto.PeriodSummary, error) {
	filter, err := parseReportParams(params)
	if err != nil {
		return nil, err
	}

	cacheKey := reportCacheKey("summary", params)
	var cached dto.PeriodSummary
	if cacheGet(ctx, s.rdb, cacheKey, &cached) {
		return &cached, nil
	}

	totals, err := s.closures.PeriodTotals(ctx, filter)
	if err != nil {
		return nil, err
	}

	summary := buildSummary(totals)
	cacheSet(s.rdb, cacheKey, summary, s.cacheTTL)
	return summary, nil
}

func buildSummary(t *repository.PeriodTotals) *dto.PeriodSummary {
	summary := &dto.PeriodSummary{
		TotalSales:       t.TotalSales,
		TotalPayments:    t.TotalPayments,
		TotalDiscrepancy: t.TotalDiscrepancy,
		TotalRevenue:     t.TotalRevenue,
		TotalFees:        t.TotalFees,
		AverageSale:      decimal.Zero,
		CardPercentage:   decimal.Zero,
		CashPercentage:   decimal.Zero,
	}
	if t.TotalPayments > 0 {
		summary.AverageSale = t.TotalSales.Div(decimal.NewFromInt(t.TotalPayments)).Round(2)
	}
	// The split is over collected money (card + cash), not over sales: the two
	// percentages always sum to 100 even when the period has discrepancies.
	collected := t.TotalCard.Add(t.TotalCash)
	if collected.IsPositive() {
		summary.CardPercentage = t.TotalCard.Mul(oneHundred).Div(collected).Round(2)
		summary.CashPercentage = oneHundred.Sub(summary.CardPercentage)
	}
	return summary
}

// ── Full period report ────────────────────────────────────────────────────────

func (s *reportService) PeriodReport(ctx context.Context, params dto.ReportParams) (*dto.PeriodReport, error) {
	filter, err := parseReportParams(params)
	if err != nil {
		return nil, err
	}

	cacheKey := reportCacheKey("period", params)
	var cached dto.PeriodReport
	if cacheGet(ctx, s.rdb, cacheKey, &cached) {
		return &cached, nil
	}

	totals, err := s.closures.PeriodTotals(ctx, filter)
	if err != nil {
		return nil, err
	}

	report := &dto.PeriodReport{
		StartDate: params.StartDate,
		EndDate:   params.EndDate,
		Summary:   *buildSummary(totals),
	}

	// A branch-scoped report has a single branch; the breakdown adds nothing.
	if filter.BranchID == uuid.Nil {
		branches, err := s.closures.BranchBreakdown(ctx, filter)
		if err != nil {
			return nil, err
		}
		report.ByBranch = make(map[string]decimal.Decimal, len(branches))
		for _, row := range branches {
			report.ByBranch[row.Name] = row.Total
		}
	}

	workers, err := s.closures.WorkerBreakdown(ctx, filter)
	if err != nil {
		return nil, err
	}
	report.ByWorker = make(map[string]decimal.Decimal, len(workers))
	for _, row := range workers {
		report.ByWorker[row.Name] = row.Total
	}

	days, err := s.closures.DailyTotals(ctx, filter)
	if err != nil {
		return nil, err
	}
	report.DailyTotals = make([]dto.DailyTotal, 0, len(days))
	for _, row := range days {
		report.DailyTotals = append(report.DailyTotals, dto.DailyTotal{
			Date:  row.Date.Format(closureDateLayout),
			Total: row.Total,
		})
	}

	cacheSet(s.rdb, cacheKey, report, s.cacheTTL)
	return report, nil
}

// ── Discrepancy report ────────────────────────────────────────────────────────

func (s *reportService) DiscrepancyReport(ctx context.Context, params dto.ReportParams) (*dto.DiscrepancyReport, error) {
	filter, err := parseReportParams(params)
	if err != nil {
		return nil, err
	}

	cacheKey := reportCacheKey("discrepancies", params)
	var cached dto.DiscrepancyReport
	if cacheGet(ctx, s.rdb, cacheKey, &cached) {
		return &cached, nil
	}

	stats, err := s.closures.DiscrepancyStats(ctx, filter, params.MinDiscrepancy)
	if err != nil {
		return nil, err
	}
	records, err := s.closures.DiscrepancyRecords(ctx, filter, params.MinDiscrepancy, discrepancyReportCap)
	if err != nil {
		return nil, err
	}

	report := &dto.DiscrepancyReport{
		TotalDiscrepancies:     int(stats.Count),
		TotalDiscrepancyAmount: stats.TotalAmount,
		LargestDiscrepancy:     stats.Largest,
		AverageDiscrepancy:     stats.Average.Round(2),
		Records:                make([]dto.ClosureResponse, 0, len(records)),
	}
	for i := range records {
		report.Records = append(report.Records, toClosureResponse(&records[i]))
	}

	cacheSet(s.rdb, cacheKey, report, s.cacheTTL)
	return report, nil
}

func (s *reportService) EnqueueDiscrepancyPDF(ctx context.Context, params dto.ReportParams, toEmail string) error {
	if _, err := parseReportParams(params); err != nil {
		return err
	}
	return s.dispatcher.EnqueueDiscrepancyPDF(ctx, worker.DiscrepancyPDFPayload{
		StartDate: params.StartDate,
		EndDate:   params.EndDate,
		BranchID:  params.BranchID,
		WorkerID:  params.WorkerID,
		ToEmail:   toEmail,
	})
}

// ── Params parsing ────────────────────────────────────────────────────────────

func parseReportParams(p dto.ReportParams) (repository.PeriodFilter, error) {
	var f repository.PeriodFilter
	var err error

	if p.StartDate == "" || p.EndDate == "" {
		return f, &reconcile.ValidationError{Field: "start_date", Reason: "start_date y end_date son obligatorios"}
	}
	if f.StartDate, err = time.Parse(closureDateLayout, p.StartDate); err != nil {
		return f, &reconcile.ValidationError{Field: "start_date", Reason: "formato invalido, se espera YYYY-MM-DD"}
	}
	if f.EndDate, err = time.Parse(closureDateLayout, p.EndDate); err != nil {
		return f, &reconcile.ValidationError{Field: "end_date", Reason: "formato invalido, se espera YYYY-MM-DD"}
	}
	if f.EndDate.Before(f.StartDate) {
		return f, &reconcile.ValidationError{Field: "end_date", Reason: "debe ser mayor o igual a start_date"}
	}
	if p.BranchID != "" {
		if f.BranchID, err = uuid.Parse(p.BranchID); err != nil {
			return f, &reconcile.ValidationError{Field: "branch_id", Reason: "uuid invalido"}
		}
	}
	if p.WorkerID != "" {
		if f.WorkerID, err = uuid.Parse(p.WorkerID); err != nil {
			return f, &reconcile.ValidationError{Field: "worker_id", Reason: "uuid invalido"}
		}
	}
	if p.MinDiscrepancy != nil && p.MinDiscrepancy.IsNegative() {
		return f, &reconcile.ValidationError{Field: "min_discrepancy", Reason: "debe ser no negativo"}
	}
	return f, nil
}

// ── Redis cache helpers ───────────────────────────────────────────────────────
// Cache-aside: reads try Redis first, misses hit the DB and populate the key
// best-effort. Every closure write clears the whole report namespace.

func reportCacheKey(kind string, p dto.ReportParams) string {
	min := ""
	if p.MinDiscrepancy != nil {
		min = p.MinDiscrepancy.String()
	}
	return fmt.Sprintf("%s%s:%s:%s:%s:%s:%s", reportCachePrefix, kind, p.StartDate, p.EndDate, p.BranchID, p.WorkerID, min)
}

func cacheGet(ctx context.Context, rdb *redis.Client, key string, dest interface{}) bool {
	if rdb == nil {
		return false
	}
	cached, err := rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(cached, dest) == nil
}

func cacheSet(rdb *redis.Client, key string, value interface{}, ttl time.Duration) {
	if rdb == nil {
		return
	}
	b, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = rdb.Set(context.Background(), key, b, ttl).Err()
}

func invalidateReportCache(ctx context.Context, rdb *redis.Client) {
	if rdb == nil {
		return
	}
	iter := rdb.Scan(ctx, 0, reportCachePrefix+"*", 100).Iterator()
	keys := make([]string, 0, 16)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Error().Err(err).Msg("report cache scan failed")
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := rdb.Del(ctx, keys...).Err(); err != nil {
		log.Error().Err(err).Msg("report cache invalidation failed")
	}
}
