package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueAlerts  = "jobs:alerts"
	QueueReports = "jobs:reports"

	JobTypeAlertEmail     = "alert_email"
	JobTypeDiscrepancyPDF = "discrepancy_pdf"
)

// MaxJobRetries is how many times a failed job is re-enqueued before it
// lands in the DLQ.
const MaxJobRetries = 3

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueAlertEmail pushes a discrepancy or reminder mail job to Redis.
func (d *Dispatcher) EnqueueAlertEmail(ctx context.Context, payload AlertEmailPayload) error {
	return d.enqueue(ctx, QueueAlerts, JobTypeAlertEmail, payload)
}

// EnqueueDiscrepancyPDF pushes a PDF report generation job to Redis.
func (d *Dispatcher) EnqueueDiscrepancyPDF(ctx context.Context, payload DiscrepancyPDFPayload) error {
	return d.enqueue(ctx, QueueReports, JobTypeDiscrepancyPDF, payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// Handler processes one job payload. A non-nil error triggers a retry,
// and eventually the DLQ.
type Handler func(ctx context.Context, payload json.RawMessage) error

// Pool consumes the job queues with a fixed set of goroutines.
type Pool struct {
	rdb      *redis.Client
	handlers map[string]Handler
}

func NewPool(rdb *redis.Client, alerts *AlertWorker, reports *ReportWorker) *Pool {
	return &Pool{
		rdb: rdb,
		handlers: map[string]Handler{
			JobTypeAlertEmail:     alerts.Process,
			JobTypeDiscrepancyPDF: reports.Process,
		},
	}
}

// Start launches numWorkers goroutines consuming both queues.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go p.runWorker(ctx, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func (p *Pool) runWorker(ctx context.Context, id int) {
	queues := []string{QueueAlerts, QueueReports}
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := p.rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			p.processJob(ctx, result[0], result[1])
		}
	}
}

func (p *Pool) processJob(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}

	handler, ok := p.handlers[job.Type]
	if !ok {
		log.Error().Str("type", job.Type).Str("queue", queue).Msg("no handler for job type")
		SendToDLQ(ctx, p.rdb, queue, job.Type, job.Payload, "no handler registered", job.Attempts)
		return
	}

	log.Info().Str("type", job.Type).Str("queue", queue).Int("attempt", job.Attempts+1).Msg("processing job")

	if err := handler(ctx, job.Payload); err != nil {
		job.Attempts++
		if job.Attempts >= MaxJobRetries {
			SendToDLQ(ctx, p.rdb, queue, job.Type, job.Payload, err.Error(), job.Attempts)
			return
		}
		encoded, merr := json.Marshal(job)
		if merr != nil {
			log.Error().Err(merr).Msg("failed to re-encode job for retry")
			return
		}
		if perr := p.rdb.LPush(ctx, queue, encoded).Err(); perr != nil {
			log.Error().Err(perr).Str("queue", queue).Msg("failed to re-enqueue job")
			return
		}
		log.Warn().
			Str("type", job.Type).
			Int("attempts", job.Attempts).
			Err(err).
			Msg("job failed, re-enqueued")
	}
}
