// Package queue dispatches notification mail through asynq so that SMTP
// latency never blocks an HTTP request.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/ikkim/bookshelf-backend/config"
	"github.com/ikkim/bookshelf-backend/internal/metrics"
	"github.com/ikkim/bookshelf-backend/pkg/logger"
	"github.com/ikkim/bookshelf-backend/pkg/mailer"
)

const (
	TaskTypePasswordReset = "mail:password_reset"
	mailQueueName         = "mail"
)

// PasswordResetPayload is the task body for TaskTypePasswordReset.
type PasswordResetPayload struct {
	To        string `json:"to"`
	ResetLink string `json:"reset_link"`
}

// MailQueue implements mailer.Sender by enqueueing tasks; its worker hands
// them to the wrapped delivery sender.
type MailQueue struct {
	client   *asynq.Client
	server   *asynq.Server
	mux      *asynq.ServeMux
	delivery mailer.Sender
	metrics  *metrics.Metrics
}

func NewMailQueue(cfg config.QueueConfig, delivery mailer.Sender, m *metrics.Metrics) (*MailQueue, error) {
	if delivery == nil {
		return nil, errors.New("delivery sender is nil")
	}
	opt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse queue redis url: %w", err)
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	q := &MailQueue{
		client: asynq.NewClient(opt),
		server: asynq.NewServer(opt, asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				mailQueueName: 1,
			},
		}),
		mux:      asynq.NewServeMux(),
		delivery: delivery,
		metrics:  m,
	}
	q.mux.HandleFunc(TaskTypePasswordReset, q.handlePasswordReset)
	return q, nil
}

// SendPasswordReset enqueues the message. Delivery happens on a worker and
// is not retried.
func (q *MailQueue) SendPasswordReset(ctx context.Context, to, resetLink string) error {
	body, err := json.Marshal(PasswordResetPayload{To: to, ResetLink: resetLink})
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypePasswordReset, body, asynq.Queue(mailQueueName))
	info, err := q.client.EnqueueContext(ctx, task, asynq.MaxRetry(0))
	if err != nil {
		logger.Error("Failed to enqueue password reset email", err, map[string]interface{}{
			"to": to,
		})
		return fmt.Errorf("enqueue password reset email: %w", err)
	}

	q.metrics.RecordMailDelivery(metrics.MailQueued)
	logger.Debug("Password reset email enqueued", map[string]interface{}{
		"task_id": info.ID,
		"to":      to,
	})
	return nil
}

func (q *MailQueue) StartWorkers() {
	go func() {
		if err := q.server.Run(q.mux); err != nil && !errors.Is(err, asynq.ErrServerClosed) {
			logger.Error("Mail queue worker stopped with error", err)
		}
	}()
	logger.Info("Mail queue worker started", map[string]interface{}{
		"queue": mailQueueName,
	})
}

func (q *MailQueue) Shutdown() {
	q.server.Shutdown()
	if err := q.client.Close(); err != nil {
		logger.Error("Failed to close mail queue client", err)
	}
	logger.Info("Mail queue stopped")
}

func (q *MailQueue) handlePasswordReset(ctx context.Context, task *asynq.Task) error {
	var payload PasswordResetPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode password reset payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.To == "" || payload.ResetLink == "" {
		return fmt.Errorf("incomplete password reset payload: %w", asynq.SkipRetry)
	}

	if err := q.delivery.SendPasswordReset(ctx, payload.To, payload.ResetLink); err != nil {
		q.metrics.RecordMailDelivery(metrics.MailFailed)
		return fmt.Errorf("deliver password reset email: %w", err)
	}

	q.metrics.RecordMailDelivery(metrics.MailSent)
	return nil
}
