package jobs

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// NewServeMux wires the task handlers onto an asynq mux.
func NewServeMux(webhooks WebhookHandler, sweeper Sweeper) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeWebhookDeliver, webhooks.HandleDeliver)
	mux.HandleFunc(TypeCartSweep, sweeper.HandleCartSweep)
	mux.HandleFunc(TypePaymentSweep, sweeper.HandlePaymentSweep)
	return mux
}

// NewServer builds the asynq server that consumes the task queues.
func NewServer(redisAddr string, concurrency int, log zerolog.Logger) *asynq.Server {
	if concurrency <= 0 {
		concurrency = 10
	}
	return asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				QueueWebhooks:    6,
				QueueMaintenance: 2,
				"default":        2,
			},
			RetryDelayFunc: webhookRetryDelay,
			ErrorHandler: asynq.ErrorHandlerFunc(func(_ context.Context, task *asynq.Task, err error) {
				log.Error().Err(err).Str("task", task.Type()).Msg("task failed")
			}),
		},
	)
}

// NewScheduler registers the periodic maintenance tasks.
func NewScheduler(redisAddr string, log zerolog.Logger) (*asynq.Scheduler, error) {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: redisAddr},
		&asynq.SchedulerOpts{
			PostEnqueueFunc: func(info *asynq.TaskInfo, err error) {
				if err != nil {
					log.Error().Err(err).Msg("schedule periodic task")
					return
				}
				log.Debug().Str("task", info.Type).Msg("periodic task enqueued")
			},
		},
	)
	if _, err := scheduler.Register("@every 10m", NewCartSweepTask()); err != nil {
		return nil, err
	}
	if _, err := scheduler.Register("@every 1m", NewPaymentSweepTask()); err != nil {
		return nil, err
	}
	return scheduler, nil
}

// webhookRetryDelay backs off exponentially from 30s, capped at one hour.
func webhookRetryDelay(n int, _ error, task *asynq.Task) time.Duration {
	if task.Type() != TypeWebhookDeliver {
		return asynq.DefaultRetryDelayFunc(n, nil, task)
	}
	delay := 30 * time.Second << uint(n)
	if delay > time.Hour {
		delay = time.Hour
	}
	return delay
}
