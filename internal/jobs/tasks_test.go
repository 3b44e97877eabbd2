package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"
)

func TestEnqueuerRequiresClient(t *testing.T) {
	var e *Enqueuer
	require.Error(t, e.EnqueueWebhookDelivery(context.Background(), "id", 3))

	e = &Enqueuer{}
	require.Error(t, e.EnqueueWebhookDelivery(context.Background(), "id", 3))
}

func TestWebhookRetryDelayCaps(t *testing.T) {
	task := asynq.NewTask(TypeWebhookDeliver, nil)
	require.Equal(t, 30*time.Second, webhookRetryDelay(0, nil, task))
	require.Equal(t, time.Minute, webhookRetryDelay(1, nil, task))
	require.Equal(t, 2*time.Minute, webhookRetryDelay(2, nil, task))
	require.Equal(t, time.Hour, webhookRetryDelay(10, nil, task))
}

func TestMaintenanceTaskTypes(t *testing.T) {
	require.Equal(t, TypeCartSweep, NewCartSweepTask().Type())
	require.Equal(t, TypePaymentSweep, NewPaymentSweepTask().Type())
}
