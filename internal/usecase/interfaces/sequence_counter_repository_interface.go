package interfaces

import (
	"context"
	"errors"
	"time"
)

// ErrCounterConflict reports that a concurrent writer committed first.
// The whole read-modify-write must be retried.
var ErrCounterConflict = errors.New("sequence counter write conflict")

// ISequenceCounterRepository abstracts the transactional counter store.
//
// Next performs exactly one isolated read-modify-write attempt on counterID:
// read seq (0 when the counter does not exist), write seq+1 stamped with now,
// and return seq+1 only once that write is durable.

type ISequenceCounterRepository interface {
	Next(ctx context.Context, counterID string, now time.Time) (int64, error)
}
