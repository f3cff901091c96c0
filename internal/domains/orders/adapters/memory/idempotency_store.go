package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Apurer/go-gin-inventory-server/internal/domains/orders/ports"
)

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore keeps placement keys in memory for development and tests.
type IdempotencyStore struct {
	mu      sync.RWMutex
	records map[string]ports.IdempotencyRecord
	now     func() time.Time
}

func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{records: map[string]ports.IdempotencyRecord{}, now: time.Now}
}

// WithClock overrides the time source for deterministic testing.
func (s *IdempotencyStore) WithClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

func (s *IdempotencyStore) Get(_ context.Context, key string) (*ports.IdempotencyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[key]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

func (s *IdempotencyStore) Reserve(_ context.Context, key, requestHash string) (*ports.IdempotencyRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.records[key]; ok {
		if existing.RequestHash != requestHash {
			return &existing, false, ports.ErrIdempotencyConflict
		}
		return &existing, false, nil
	}
	now := s.now()
	record := ports.IdempotencyRecord{Key: key, RequestHash: requestHash, CreatedAt: now, UpdatedAt: now}
	s.records[key] = record
	return &record, true, nil
}

func (s *IdempotencyStore) Complete(_ context.Context, key string, orderID int64) (*ports.IdempotencyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[key]
	if !ok {
		return nil, fmt.Errorf("idempotency key %q is not reserved", key)
	}
	if !record.Pending() {
		if record.OrderID != orderID {
			return &record, ports.ErrIdempotencyConflict
		}
		return &record, nil
	}
	record.OrderID = orderID
	record.UpdatedAt = s.now()
	s.records[key] = record
	return &record, nil
}

func (s *IdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record, ok := s.records[key]; ok && record.Pending() {
		delete(s.records, key)
	}
	return nil
}
