package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"cotizaciones/internal/domain/entities"
	"cotizaciones/internal/usecase/interfaces"

	"github.com/cenkalti/backoff/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const pollTimeout = 5 * time.Second

// Pause between polls while the queue is unreachable.
var (
	brokerRetryInitial = 200 * time.Millisecond
	brokerRetryMax     = 10 * time.Second
)

// Pool consumes notification jobs and delivers each one exactly once through
// the configured transport. Failed deliveries go to the dead letter queue.
type Pool struct {
	q         Queue
	transport interfaces.INotifier
	size      int
	wg        sync.WaitGroup
}

func NewPool(q Queue, transport interfaces.INotifier, size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{q: q, transport: transport, size: size}
}

// Start launches the workers. They stop when ctx is cancelled; Wait blocks
// until all of them have returned.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			p.run(ctx, id)
		}(i)
	}
	log.Info().Msgf("worker pool started with %d workers", p.size)
	p.reportDeadLetters(ctx)
}

func (p *Pool) Wait() { p.wg.Wait() }

func (p *Pool) run(ctx context.Context, id int) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = brokerRetryInitial
	b.MaxInterval = brokerRetryMax

	for {
		if ctx.Err() != nil {
			log.Info().Msgf("worker %d shutting down", id)
			return
		}
		// Blocking pop; waits up to pollTimeout then loops to check ctx
		result, err := p.q.BRPop(ctx, pollTimeout, QueueNotifications).Result()
		switch {
		case err == nil:
			b.Reset()
			if len(result) == 2 {
				p.processJob(ctx, result[0], result[1])
			}
		case errors.Is(err, redis.Nil), ctx.Err() != nil:
		default:
			wait := b.NextBackOff()
			log.Warn().Err(err).Int("worker", id).Dur("retry_in", wait).Msg("worker: queue unavailable")
			select {
			case <-ctx.Done():
			case <-time.After(wait):
			}
		}
	}
}

func (p *Pool) processJob(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		quoted, _ := json.Marshal(raw)
		p.park(ctx, queue, Job{Payload: quoted}, fmt.Errorf("malformed job: %w", err), 0)
		return
	}

	if err := p.handle(ctx, job); err != nil {
		log.Error().Str("type", job.Type).Str("queue", queue).Err(err).Msg("job failed")
		p.park(ctx, queue, job, err, 1)
		return
	}
	log.Info().Str("type", job.Type).Str("queue", queue).Msg("job done")
}

func (p *Pool) handle(ctx context.Context, job Job) (err error) {
	switch job.Type {
	case JobNotification:
		var n entities.Notification
		if err := json.Unmarshal(job.Payload, &n); err != nil {
			return fmt.Errorf("decode notification: %w", err)
		}
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("transport panic: %v", r)
			}
		}()
		return p.transport.Send(ctx, n)
	default:
		return fmt.Errorf("unknown job type %q", job.Type)
	}
}
