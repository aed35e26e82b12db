package digest

import (
	"context"
	"encoding/json"
	"time"

	"app/internal/config"
	"app/internal/email"
	"app/internal/model"
	"app/internal/pgmq"
	"app/internal/repository"
	"app/internal/service"

	"github.com/rs/zerolog"
)

// Run starts the digest delivery worker. It drains the digest queue and
// sends one email per job, retrying with exponential backoff before moving
// a job to the dead-letter table.
func Run(ctx context.Context, logger zerolog.Logger, client *pgmq.Client, sender email.Sender, dlqRepo repository.DLQRepository) error {
	// Load digest-specific config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Msgf("Error loading config in digest worker: %v", err)
	}
	queue := cfg.DigestQueueName
	logger.Info().Str("queue", queue).Msg("Starting digest worker")
	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Shutting down digest worker")
			return nil
		default:
		}
		// Read one message from the digest queue
		msgs, err := client.ReadWithPoll(ctx, queue, cfg.DigestPollTimeoutSec, cfg.DigestPollMaxMsg)
		if err != nil {
			logger.Error().Err(err).Msg("Error reading digest queue")
			time.Sleep(time.Second)
			continue
		}
		if len(msgs) == 0 {
			continue
		}

		msg := msgs[0]
		logger.Info().Int64("msg_id", msg.ID).Msg("Received digest job")

		var job service.DigestJob
		if err := json.Unmarshal(msg.Data, &job); err != nil {
			logger.Error().Err(err).Msg("Failed to unmarshal digest payload; deleting message")
			client.Delete(ctx, queue, []int64{msg.ID})
			continue
		}

		// Send the digest email with retry/backoff
		backoff := time.Duration(cfg.DigestBackoffInitialSec) * time.Second
		var sendErr error
		for attempt := 1; attempt <= cfg.DigestMaxRetries; attempt++ {
			sendErr = sender.SendTaskDigest(job.Email, job.Frequency, job.Tasks, job.DaysWindow)
			if sendErr == nil {
				break
			}
			logger.Error().Err(sendErr).Int("attempt", attempt).Str("userID", job.UserID).Msg("Digest send failed, retrying")
			time.Sleep(backoff)
			backoff *= 2
			if backoff > time.Duration(cfg.DigestBackoffMaxSec)*time.Second {
				backoff = time.Duration(cfg.DigestBackoffMaxSec) * time.Second
			}
		}
		if sendErr != nil {
			// Record the failed job, then archive it so it stops retrying.
			lastError := sendErr.Error()
			dead := &model.DeadLetterMessage{
				QueueName: queue,
				MessageID: msg.ID,
				Payload:   string(msg.Data),
				LastError: &lastError,
				Status:    "failed",
			}
			if err := dlqRepo.Create(ctx, dead); err != nil {
				logger.Error().Err(err).Msg("Failed to record dead-lettered digest job")
			}
			if err := client.Archive(ctx, queue, msg.ID); err != nil {
				logger.Error().Err(err).Msg("Error archiving digest message after failure")
			}
			logger.Warn().
				Int("attempts", cfg.DigestMaxRetries).
				Str("userID", job.UserID).
				Err(sendErr).
				Msg("Exhausted all digest retries; moving job to DLQ")
			continue
		}

		// Acknowledge message
		if err := client.Delete(ctx, queue, []int64{msg.ID}); err != nil {
			logger.Error().Err(err).Msg("Error deleting digest message")
		}
	}
}

// RunDispatcher periodically walks all recipients and enqueues digest jobs
// for those with upcoming tasks.
func RunDispatcher(ctx context.Context, logger zerolog.Logger, notifications service.NotificationService) error {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Msgf("Error loading config in digest dispatcher: %v", err)
	}
	interval := time.Duration(cfg.DigestDispatchIntervalMin) * time.Minute
	logger.Info().Dur("interval", interval).Msg("Starting digest dispatcher")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Shutting down digest dispatcher")
			return nil
		case <-ticker.C:
			enqueued, err := notifications.DispatchDigests(ctx)
			if err != nil {
				logger.Error().Err(err).Msg("Digest dispatch failed")
				continue
			}
			logger.Info().Int("enqueued", enqueued).Msg("Digest dispatch completed")
		}
	}
}
