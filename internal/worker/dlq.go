package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
)

// A job whose delivery failed is parked on a Redis list named after its
// source queue ("dlq:jobs:notificaciones") until someone resends it by hand.

// DeadLetter is one parked job.
type DeadLetter struct {
	Queue    string          `json:"queue"`
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Error    string          `json:"error"`
	FailedAt time.Time       `json:"failed_at"`
	Attempts int             `json:"attempts"`
}

func DeadLetterKey(queue string) string { return "dlq:" + queue }

// park records a failed job. If the push itself fails the job is lost and
// only the log line remains.
func (p *Pool) park(ctx context.Context, queue string, job Job, cause error, attempts int) {
	letter := DeadLetter{
		Queue:    queue,
		Type:     job.Type,
		Payload:  job.Payload,
		Error:    cause.Error(),
		FailedAt: time.Now().UTC(),
		Attempts: attempts,
	}
	data, err := json.Marshal(letter)
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("worker: encode dead letter")
		return
	}

	key := DeadLetterKey(queue)
	if err := p.q.LPush(ctx, key, data).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Str("type", job.Type).RawJSON("payload", payloadOrNull(job.Payload)).Msg("worker: dead letter lost")
		return
	}
	log.Warn().Str("key", key).Str("type", job.Type).Int("attempts", attempts).Err(cause).Msg("worker: job parked")
}

// DeadLetters counts the parked jobs of the notification queue.
func (p *Pool) DeadLetters(ctx context.Context) (int64, error) {
	return p.q.LLen(ctx, DeadLetterKey(QueueNotifications)).Result()
}

func (p *Pool) reportDeadLetters(ctx context.Context) {
	n, err := p.DeadLetters(ctx)
	switch {
	case err != nil:
		log.Warn().Err(err).Msg("worker: dead letter count unavailable")
	case n > 0:
		log.Warn().Int64("dead_letters", n).Str("key", DeadLetterKey(QueueNotifications)).Msg("worker: notifications awaiting manual resend")
	}
}

func payloadOrNull(raw json.RawMessage) json.RawMessage {
	if !json.Valid(raw) {
		return json.RawMessage("null")
	}
	return raw
}
