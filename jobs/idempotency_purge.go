package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// DefaultIdempotencyRetention is how long submission keys are kept.
const DefaultIdempotencyRetention = 72 * time.Hour

// KeyCleaner removes stale idempotency keys.
type KeyCleaner interface {
	Cleanup(ctx context.Context, olderThan time.Duration) error
}

// HandleIdempotencyPurge returns the handler for TaskIdempotencyPurge.
func HandleIdempotencyPurge(cleaner KeyCleaner, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload IdempotencyPurgePayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		if payload.Retention <= 0 {
			payload.Retention = DefaultIdempotencyRetention
		}
		if err := cleaner.Cleanup(ctx, payload.Retention); err != nil {
			if logger != nil {
				logger.Error("purge idempotency keys", slog.Any("error", err))
			}
			return err
		}
		if logger != nil {
			logger.Info("purged idempotency keys", slog.Duration("retention", payload.Retention))
		}
		return nil
	}
}
