package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/rentkart/backend-rentkart/internal/notify"
)

// WebhookHandler executes webhook delivery tasks.
type WebhookHandler struct {
	Worker notify.DeliveryWorker
	Log    zerolog.Logger
}

// HandleDeliver processes a webhook:deliver task. A returned error makes asynq
// retry with its backoff; the last permitted attempt dead-letters the delivery
// instead of erroring so the task is not re-queued.
func (h WebhookHandler) HandleDeliver(ctx context.Context, task *asynq.Task) error {
	var payload webhookDeliverPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("webhook deliver: decode payload: %w", asynq.SkipRetry)
	}
	retried, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)
	final := retried >= maxRetry

	err := h.Worker.Handle(ctx, payload.DeliveryID, final)
	if err != nil {
		h.Log.Warn().
			Err(err).
			Str("deliveryId", payload.DeliveryID).
			Int("attempt", retried+1).
			Bool("final", final).
			Msg("webhook delivery attempt failed")
	}
	return err
}
