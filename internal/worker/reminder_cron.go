package worker

// reminder_cron.go
// Background goroutine that nudges the admin about closures sitting in
// review_state='pending' for too long. Counts them once a day and, when any
// exist, enqueues a reminder mail through the alerts queue so delivery gets
// the same retry and DLQ treatment as every other mail.

import (
	"context"
	"fmt"
	"time"

	"github.com/sushitlalpan/sushi-be/internal/repository"

	"github.com/rs/zerolog/log"
)

const reminderTickInterval = 24 * time.Hour

// ReminderConfig holds the dependencies of the reminder goroutine.
type ReminderConfig struct {
	ClosureRepo   repository.ClosureRepository
	Dispatcher    *Dispatcher
	Recipient     string
	OlderThanDays int
}

// StartReviewReminder launches the daily reminder goroutine. It respects the
// context for graceful shutdown.
func StartReviewReminder(ctx context.Context, cfg ReminderConfig) {
	go func() {
		ticker := time.NewTicker(reminderTickInterval)
		defer ticker.Stop()

		log.Info().Int("older_than_days", cfg.OlderThanDays).Msg("review_reminder: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("review_reminder: shutting down")
				return
			case <-ticker.C:
				sendReminder(ctx, cfg)
			}
		}
	}()
}

func sendReminder(ctx context.Context, cfg ReminderConfig) {
	cutoff := time.Now().AddDate(0, 0, -cfg.OlderThanDays)
	count, err := cfg.ClosureRepo.CountPendingOlderThan(ctx, cutoff)
	if err != nil {
		log.Error().Err(err).Msg("review_reminder: failed to count pending closures")
		return
	}
	if count == 0 {
		return
	}

	payload := AlertEmailPayload{
		ToEmail: cfg.Recipient,
		Subject: fmt.Sprintf("Cierres pendientes de revision: %d", count),
		Body: fmt.Sprintf(
			"Hay %d cierres de caja en estado pendiente desde hace mas de %d dias.\nRevisalos en el panel de administracion.",
			count, cfg.OlderThanDays),
	}
	if err := cfg.Dispatcher.EnqueueAlertEmail(ctx, payload); err != nil {
		log.Error().Err(err).Msg("review_reminder: failed to enqueue reminder mail")
		return
	}

	log.Info().Int64("pending", count).Msg("review_reminder: reminder enqueued")
}
