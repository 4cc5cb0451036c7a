package worker

// report_worker.go
// Processes discrepancy PDF jobs from QueueReports. Builds the report from
// the database, renders it to PDF storage and mails it to the requester.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sushitlalpan/sushi-be/internal/dto"
	"github.com/sushitlalpan/sushi-be/internal/infra"
	"github.com/sushitlalpan/sushi-be/internal/model"
	"github.com/sushitlalpan/sushi-be/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const pdfRecordLimit = 50

// DiscrepancyPDFPayload is the job envelope sent to QueueReports.
type DiscrepancyPDFPayload struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	BranchID  string `json:"branch_id,omitempty"`
	WorkerID  string `json:"worker_id,omitempty"`
	ToEmail   string `json:"to_email"`
}

type ReportWorker struct {
	closures    repository.ClosureRepository
	mailer      *infra.Mailer
	cb          *infra.CircuitBreaker
	storagePath string
}

func NewReportWorker(closures repository.ClosureRepository, mailer *infra.Mailer, cb *infra.CircuitBreaker, storagePath string) *ReportWorker {
	return &ReportWorker{closures: closures, mailer: mailer, cb: cb, storagePath: storagePath}
}

// Process generates the PDF and mails it. Query and render errors are
// retryable; a malformed payload is dropped.
func (w *ReportWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload DiscrepancyPDFPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("report_worker: invalid payload")
		return nil
	}

	filter, err := payload.periodFilter()
	if err != nil {
		log.Error().Err(err).Msg("report_worker: invalid period filter")
		return nil
	}

	stats, err := w.closures.DiscrepancyStats(ctx, filter, nil)
	if err != nil {
		return fmt.Errorf("report_worker: stats query: %w", err)
	}
	records, err := w.closures.DiscrepancyRecords(ctx, filter, nil, pdfRecordLimit)
	if err != nil {
		return fmt.Errorf("report_worker: records query: %w", err)
	}

	report := &dto.DiscrepancyReport{
		TotalDiscrepancies:     int(stats.Count),
		TotalDiscrepancyAmount: stats.TotalAmount,
		LargestDiscrepancy:     stats.Largest,
		AverageDiscrepancy:     stats.Average,
		Records:                make([]dto.ClosureResponse, 0, len(records)),
	}
	for i := range records {
		report.Records = append(report.Records, pdfRecord(&records[i]))
	}

	filePath, err := infra.GenerateDiscrepancyPDF(report, payload.StartDate, payload.EndDate, w.storagePath)
	if err != nil {
		return err
	}
	log.Info().Str("path", filePath).Int("records", len(records)).Msg("report_worker: PDF generated")

	if payload.ToEmail == "" {
		return nil
	}

	subject := fmt.Sprintf("Reporte de discrepancias %s a %s", payload.StartDate, payload.EndDate)
	body := fmt.Sprintf(
		"Se adjunta el reporte de discrepancias del periodo %s a %s.\n\nCierres con discrepancia: %d\nDiscrepancia total: %s",
		payload.StartDate, payload.EndDate, stats.Count, stats.TotalAmount.StringFixed(2))

	err = w.cb.Execute(func() error {
		return w.mailer.Send(payload.ToEmail, subject, body, filePath)
	})
	if err != nil {
		log.Error().Err(err).Str("to", payload.ToEmail).Msg("report_worker: failed to mail report")
		return err
	}

	log.Info().Str("to", payload.ToEmail).Msg("report_worker: report mailed")
	return nil
}

func (p DiscrepancyPDFPayload) periodFilter() (repository.PeriodFilter, error) {
	var f repository.PeriodFilter
	var err error

	if f.StartDate, err = time.Parse("2006-01-02", p.StartDate); err != nil {
		return f, fmt.Errorf("start_date: %w", err)
	}
	if f.EndDate, err = time.Parse("2006-01-02", p.EndDate); err != nil {
		return f, fmt.Errorf("end_date: %w", err)
	}
	if p.BranchID != "" {
		if f.BranchID, err = uuid.Parse(p.BranchID); err != nil {
			return f, fmt.Errorf("branch_id: %w", err)
		}
	}
	if p.WorkerID != "" {
		if f.WorkerID, err = uuid.Parse(p.WorkerID); err != nil {
			return f, fmt.Errorf("worker_id: %w", err)
		}
	}
	return f, nil
}

// pdfRecord maps only the columns the PDF table renders.
func pdfRecord(c *model.Closure) dto.ClosureResponse {
	rec := dto.ClosureResponse{
		ID:            c.ID.String(),
		ClosureDate:   c.ClosureDate.Format("2006-01-02"),
		ClosureNumber: c.ClosureNumber,
		SalesTotal:    c.SalesTotal,
		Discrepancy:   c.Discrepancy,
	}
	if c.Worker != nil {
		rec.WorkerUsername = c.Worker.Username
	}
	if c.Branch != nil {
		rec.BranchName = c.Branch.Name
	}
	return rec
}
