package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"cotizaciones/internal/domain/entities"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeQueue is an in-memory list store with Redis LPUSH/BRPOP semantics.
type fakeQueue struct {
	mu      sync.Mutex
	lists   map[string][]string
	pushErr error
	popErr  error
	pops    int
}

func newFakeQueue() *fakeQueue { return &fakeQueue{lists: map[string][]string{}} }

func (f *fakeQueue) LPush(_ context.Context, key string, values ...interface{}) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pushErr != nil {
		return redis.NewIntResult(0, f.pushErr)
	}
	for _, v := range values {
		var s string
		switch t := v.(type) {
		case []byte:
			s = string(t)
		case string:
			s = t
		default:
			s = fmt.Sprint(t)
		}
		f.lists[key] = append([]string{s}, f.lists[key]...)
	}
	return redis.NewIntResult(int64(len(f.lists[key])), nil)
}

func (f *fakeQueue) BRPop(ctx context.Context, _ time.Duration, keys ...string) *redis.StringSliceCmd {
	f.mu.Lock()
	f.pops++
	if f.popErr != nil {
		f.mu.Unlock()
		return redis.NewStringSliceResult(nil, f.popErr)
	}
	for _, k := range keys {
		if l := f.lists[k]; len(l) > 0 {
			v := l[len(l)-1]
			f.lists[k] = l[:len(l)-1]
			f.mu.Unlock()
			return redis.NewStringSliceResult([]string{k, v}, nil)
		}
	}
	f.mu.Unlock()
	select {
	case <-ctx.Done():
		return redis.NewStringSliceResult(nil, ctx.Err())
	case <-time.After(time.Millisecond):
		return redis.NewStringSliceResult(nil, redis.Nil)
	}
}

func (f *fakeQueue) LLen(_ context.Context, key string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	return redis.NewIntResult(int64(len(f.lists[key])), nil)
}

func (f *fakeQueue) popCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pops
}

func (f *fakeQueue) dlq(t *testing.T) []DeadLetter {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []DeadLetter
	for _, raw := range f.lists[DeadLetterKey(QueueNotifications)] {
		var e DeadLetter
		require.NoError(t, json.Unmarshal([]byte(raw), &e))
		out = append(out, e)
	}
	return out
}

type recordingTransport struct {
	mu    sync.Mutex
	sent  []entities.Notification
	err   error
	panic bool
}

func (r *recordingTransport) Send(_ context.Context, n entities.Notification) error {
	if r.panic {
		panic("boom")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return r.err
}

func (r *recordingTransport) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

func sampleNotification() entities.Notification {
	return entities.Notification{
		To:      []string{"ana@comercialav.com"},
		Subject: "Cotización #COT-2025-09-001 ganada",
		Kind:    entities.NotificationGanada,
		Payload: entities.NotificationPayload{Numero: "COT-2025-09-001", Estado: entities.EstadoGanada},
	}
}

func TestQueueNotifier_Enqueues(t *testing.T) {
	q := newFakeQueue()
	require.NoError(t, NewQueueNotifier(q).Send(context.Background(), sampleNotification()))

	n, err := q.LLen(context.Background(), QueueNotifications).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var job Job
	require.NoError(t, json.Unmarshal([]byte(q.lists[QueueNotifications][0]), &job))
	assert.Equal(t, JobNotification, job.Type)
}

func TestQueueNotifier_PushFailure(t *testing.T) {
	q := newFakeQueue()
	q.pushErr = errors.New("connection refused")

	err := NewQueueNotifier(q).Send(context.Background(), sampleNotification())
	assert.ErrorContains(t, err, "connection refused")
}

func TestPool_DeliversQueuedNotification(t *testing.T) {
	q := newFakeQueue()
	transport := &recordingTransport{}
	require.NoError(t, NewQueueNotifier(q).Send(context.Background(), sampleNotification()))

	ctx, cancel := context.WithCancel(context.Background())
	pool := NewPool(q, transport, 2)
	pool.Start(ctx)

	require.Eventually(t, func() bool { return transport.count() == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	pool.Wait()

	assert.Equal(t, "COT-2025-09-001", transport.sent[0].Payload.Numero)
	assert.Empty(t, q.dlq(t))
}

func TestProcessJob_FailuresGoToDLQOnce(t *testing.T) {
	cases := []struct {
		name      string
		transport *recordingTransport
		raw       func(t *testing.T) string
		jobType   string
		attempts  int
	}{
		{
			name:      "transport error",
			transport: &recordingTransport{err: errors.New("smtp: 554")},
			raw:       encodedJob(JobNotification),
			jobType:   JobNotification,
			attempts:  1,
		},
		{
			name:      "transport panic",
			transport: &recordingTransport{panic: true},
			raw:       encodedJob(JobNotification),
			jobType:   JobNotification,
			attempts:  1,
		},
		{
			name:      "unknown job",
			transport: &recordingTransport{},
			raw:       encodedJob("fax"),
			jobType:   "fax",
			attempts:  1,
		},
		{
			name:      "malformed",
			transport: &recordingTransport{},
			raw:       func(*testing.T) string { return "{not json" },
			jobType:   "",
			attempts:  0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := newFakeQueue()
			pool := NewPool(q, tc.transport, 1)

			pool.processJob(context.Background(), QueueNotifications, tc.raw(t))

			entries := q.dlq(t)
			require.Len(t, entries, 1)
			assert.Equal(t, QueueNotifications, entries[0].Queue)
			assert.Equal(t, tc.jobType, entries[0].Type)
			assert.Equal(t, tc.attempts, entries[0].Attempts)
			assert.NotEmpty(t, entries[0].Error)
			assert.False(t, entries[0].FailedAt.IsZero())

			n, err := pool.DeadLetters(context.Background())
			require.NoError(t, err)
			assert.Equal(t, int64(1), n)
		})
	}
}

func TestPool_BacksOffWhileQueueUnreachable(t *testing.T) {
	q := newFakeQueue()
	q.popErr = errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")

	ctx, cancel := context.WithCancel(context.Background())
	pool := NewPool(q, &recordingTransport{}, 1)
	pool.Start(ctx)
	time.Sleep(300 * time.Millisecond)
	cancel()
	pool.Wait()

	// 200ms initial pause with jitter allows at most a handful of polls
	assert.GreaterOrEqual(t, q.popCount(), 1)
	assert.LessOrEqual(t, q.popCount(), 4)
}

func TestPool_ReportsDeadLettersOnStart(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(zerolog.SyncWriter(&buf))
	t.Cleanup(func() { log.Logger = prev })

	q := newFakeQueue()
	pool := NewPool(q, &recordingTransport{err: errors.New("smtp: 554")}, 1)
	pool.processJob(context.Background(), QueueNotifications, encodedJob(JobNotification)(t))
	pool.processJob(context.Background(), QueueNotifications, encodedJob(JobNotification)(t))

	n, err := pool.DeadLetters(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)
	cancel()
	pool.Wait()

	assert.Contains(t, buf.String(), `"dead_letters":2`)
}

func encodedJob(jobType string) func(t *testing.T) string {
	return func(t *testing.T) string {
		payload, err := json.Marshal(sampleNotification())
		require.NoError(t, err)
		raw, err := json.Marshal(Job{Type: jobType, Payload: payload})
		require.NoError(t, err)
		return string(raw)
	}
}
