package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cotizaciones/internal/domain/numbering"
	"cotizaciones/internal/usecase/interfaces"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog/log"
)

const defaultAllocatorMaxTries = 8

// SequenceAllocator issues the per-period sequence used to build a numero.
//
// Every allocation is one isolated read-modify-write on the period counter.
// Conflicts and transient store failures retry the whole transaction; a value
// is returned only after its write committed.
type SequenceAllocator struct {
	repo     interfaces.ISequenceCounterRepository
	scheme   numbering.Scheme
	location *time.Location
	maxTries uint
	newBack  func() backoff.BackOff
}

type AllocatorOption func(*SequenceAllocator)

// WithMaxTries bounds the number of transaction attempts per allocation.
func WithMaxTries(n uint) AllocatorOption {
	return func(a *SequenceAllocator) {
		if n > 0 {
			a.maxTries = n
		}
	}
}

// WithBackOff replaces the wait policy between attempts.
func WithBackOff(f func() backoff.BackOff) AllocatorOption {
	return func(a *SequenceAllocator) {
		if f != nil {
			a.newBack = f
		}
	}
}

// WithLocation sets the time zone in which periods are computed.
func WithLocation(loc *time.Location) AllocatorOption {
	return func(a *SequenceAllocator) {
		if loc != nil {
			a.location = loc
		}
	}
}

func NewSequenceAllocator(repo interfaces.ISequenceCounterRepository, scheme numbering.Scheme, opts ...AllocatorOption) *SequenceAllocator {
	a := &SequenceAllocator{
		repo:     repo,
		scheme:   scheme,
		location: time.UTC,
		maxTries: defaultAllocatorMaxTries,
		newBack: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 20 * time.Millisecond
			b.MaxInterval = 500 * time.Millisecond
			return b
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Scheme returns the active numbering scheme.
func (a *SequenceAllocator) Scheme() numbering.Scheme { return a.scheme }

// Period returns the numbering period that contains now.
func (a *SequenceAllocator) Period(now time.Time) numbering.PeriodKey {
	return a.scheme.Period(now.In(a.location))
}

// Allocate returns the next unused sequence of period.
func (a *SequenceAllocator) Allocate(ctx context.Context, period numbering.PeriodKey) (int64, error) {
	counterID := a.scheme.CounterID(period)
	attempts := 0

	seq, err := backoff.Retry(ctx, func() (int64, error) {
		attempts++
		seq, err := a.repo.Next(ctx, counterID, time.Now().UTC())
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return 0, backoff.Permanent(ctxErr)
			}
			if !errors.Is(err, interfaces.ErrCounterConflict) {
				log.Warn().Err(err).Str("counter", counterID).Int("attempt", attempts).Msg("allocator: counter transaction failed")
			}
			return 0, err
		}
		if seq < 1 {
			return 0, backoff.Permanent(fmt.Errorf("counter %s returned non-positive sequence %d", counterID, seq))
		}
		return seq, nil
	}, backoff.WithBackOff(a.newBack()), backoff.WithMaxTries(a.maxTries))
	if err != nil {
		log.Error().Err(err).Str("counter", counterID).Int("attempts", attempts).Msg("allocator: giving up")
		return 0, fmt.Errorf("%w: period %s: %v", ErrAllocation, period, err)
	}
	return seq, nil
}

// NextNumero allocates within the period containing now and formats the numero.
func (a *SequenceAllocator) NextNumero(ctx context.Context, now time.Time) (string, error) {
	period := a.Period(now)
	seq, err := a.Allocate(ctx, period)
	if err != nil {
		return "", err
	}
	return a.scheme.Format(period, seq), nil
}
