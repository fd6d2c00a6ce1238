package worker

import (
	"context"
	"encoding/json"
	"time"

	"cotizaciones/internal/domain/entities"
	"cotizaciones/internal/usecase/interfaces"

	"github.com/redis/go-redis/v9"
)

const (
	QueueNotifications = "jobs:notificaciones"

	JobNotification = "notification"
)

// Queue is the subset of the Redis client the queue and pool use.
type Queue interface {
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	BRPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
	LLen(ctx context.Context, key string) *redis.IntCmd
}

var _ Queue = (*redis.Client)(nil)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

var _ interfaces.INotifier = (*QueueNotifier)(nil)

// QueueNotifier hands notifications to the worker pool instead of delivering
// them inline. A successful Send means the job was enqueued.
type QueueNotifier struct {
	q Queue
}

func NewQueueNotifier(q Queue) *QueueNotifier {
	return &QueueNotifier{q: q}
}

func (d *QueueNotifier) Send(ctx context.Context, n entities.Notification) error {
	return enqueue(ctx, d.q, QueueNotifications, JobNotification, n)
}

func enqueue(ctx context.Context, q Queue, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return q.LPush(ctx, queue, encoded).Err()
}
