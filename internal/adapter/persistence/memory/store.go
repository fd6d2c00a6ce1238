// Package memory keeps quotations and sequence counters in process memory.
// It serves local runs (STORE_DRIVER=memory) and tests; data is lost on exit.
package memory

import (
	"context"
	"sync"
	"time"

	"cotizaciones/internal/domain/entities"
	"cotizaciones/internal/usecase/interfaces"

	"github.com/google/uuid"
)

type QuotationStore struct {
	mu    sync.RWMutex
	items map[string]entities.Quotation
}

var _ interfaces.IQuotationRepository = (*QuotationStore)(nil)

func NewQuotationStore() *QuotationStore {
	return &QuotationStore{items: make(map[string]entities.Quotation)}
}

func (s *QuotationStore) Create(_ context.Context, q entities.Quotation) (entities.Quotation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	s.items[q.ID] = clone(q)
	return clone(q), nil
}

func (s *QuotationStore) GetByID(_ context.Context, id string) (entities.Quotation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.items[id]
	if !ok {
		return entities.Quotation{}, nil
	}
	return clone(q), nil
}

func (s *QuotationStore) List(_ context.Context) ([]entities.Quotation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entities.Quotation, 0, len(s.items))
	for _, q := range s.items {
		out = append(out, clone(q))
	}
	return out, nil
}

func (s *QuotationStore) UpdateLifecycle(_ context.Context, id string, change entities.LifecycleChange) (entities.Quotation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.items[id]
	if !ok {
		return entities.Quotation{}, nil
	}
	if change.MovesState() && q.Estado.IsTerminal() {
		return entities.Quotation{}, interfaces.ErrQuotationClosed
	}
	q = change.Apply(q)
	s.items[id] = clone(q)
	return clone(q), nil
}

func clone(q entities.Quotation) entities.Quotation {
	q.Articulos = append([]entities.LineItem(nil), q.Articulos...)
	q.ComentariosPrivados = append([]entities.ComentarioPrivado{}, q.ComentariosPrivados...)
	return q
}

// CounterStore runs each read-modify-write under one lock, so an attempt
// never conflicts.
type CounterStore struct {
	mu       sync.Mutex
	counters map[string]entities.SequenceCounter
}

var _ interfaces.ISequenceCounterRepository = (*CounterStore)(nil)

func NewCounterStore() *CounterStore {
	return &CounterStore{counters: make(map[string]entities.SequenceCounter)}
}

func (s *CounterStore) Next(ctx context.Context, counterID string, now time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.counters[counterID]
	c.ID = counterID
	c.Seq++
	c.UpdatedAt = now
	s.counters[counterID] = c
	return c.Seq, nil
}

// Current returns the last issued sequence of counterID (0 when unused).
func (s *CounterStore) Current(counterID string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counters[counterID].Seq
}

// Seed sets a counter, e.g. when migrating numbering from another store.
func (s *CounterStore) Seed(counterID string, seq int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[counterID] = entities.SequenceCounter{ID: counterID, Seq: seq, UpdatedAt: time.Now().UTC()}
}
