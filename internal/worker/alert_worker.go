package worker

// alert_worker.go
// Processes mail jobs from QueueAlerts: discrepancy alerts raised on closure
// creation and the periodic pending-review reminders. Delivery goes through
// the circuit breaker so a downed relay fails the batch fast.

import (
	"context"
	"encoding/json"

	"github.com/sushitlalpan/sushi-be/internal/infra"

	"github.com/rs/zerolog/log"
)

// AlertEmailPayload is the job envelope sent to QueueAlerts.
type AlertEmailPayload struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type AlertWorker struct {
	mailer *infra.Mailer
	cb     *infra.CircuitBreaker
}

func NewAlertWorker(mailer *infra.Mailer, cb *infra.CircuitBreaker) *AlertWorker {
	return &AlertWorker{mailer: mailer, cb: cb}
}

// Process sends one alert mail. The returned error drives the pool's
// retry-then-DLQ path; a malformed payload is dropped instead of retried
// since no retry can fix it.
func (w *AlertWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload AlertEmailPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("alert_worker: invalid payload")
		return nil
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("alert_worker: empty to_email, skipping")
		return nil
	}

	err := w.cb.Execute(func() error {
		return w.mailer.Send(payload.ToEmail, payload.Subject, payload.Body, "")
	})
	if err != nil {
		log.Error().Err(err).Str("to", payload.ToEmail).Msg("alert_worker: failed to send mail")
		return err
	}

	log.Info().Str("to", payload.ToEmail).Str("subject", payload.Subject).Msg("alert_worker: mail sent")
	return nil
}
