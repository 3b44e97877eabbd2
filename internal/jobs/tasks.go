package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/hibiken/asynq"
)

const (
	// TypeWebhookDeliver carries a single webhook delivery attempt.
	TypeWebhookDeliver = "webhook:deliver"
	// TypeCartSweep removes carts that outlived their TTL.
	TypeCartSweep = "cart:sweep"
	// TypePaymentSweep expires rentals whose payment intent lapsed.
	TypePaymentSweep = "payment:sweep"
)

const (
	QueueWebhooks    = "webhooks"
	QueueMaintenance = "maintenance"
)

type webhookDeliverPayload struct {
	DeliveryID string `json:"deliveryId"`
}

// Enqueuer publishes background tasks through asynq.
type Enqueuer struct {
	Client *asynq.Client
}

// EnqueueWebhookDelivery schedules a delivery attempt. maxAttempts covers the
// first attempt plus retries, so asynq's retry budget is maxAttempts-1.
func (e *Enqueuer) EnqueueWebhookDelivery(ctx context.Context, deliveryID string, maxAttempts int) error {
	if e == nil || e.Client == nil {
		return errors.New("jobs: task client not configured")
	}
	deliveryID = strings.TrimSpace(deliveryID)
	if deliveryID == "" {
		return errors.New("jobs: delivery id is required")
	}
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	payload, err := json.Marshal(webhookDeliverPayload{DeliveryID: deliveryID})
	if err != nil {
		return err
	}
	task := asynq.NewTask(TypeWebhookDeliver, payload)
	_, err = e.Client.EnqueueContext(ctx, task,
		asynq.Queue(QueueWebhooks),
		asynq.MaxRetry(maxAttempts-1),
		asynq.TaskID("webhook:deliver:"+deliveryID),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

// NewCartSweepTask builds the periodic cart cleanup task.
func NewCartSweepTask() *asynq.Task {
	return asynq.NewTask(TypeCartSweep, nil, asynq.Queue(QueueMaintenance), asynq.MaxRetry(0))
}

// NewPaymentSweepTask builds the periodic payment expiry task.
func NewPaymentSweepTask() *asynq.Task {
	return asynq.NewTask(TypePaymentSweep, nil, asynq.Queue(QueueMaintenance), asynq.MaxRetry(0))
}
