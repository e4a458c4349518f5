package payout

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
)

type memoryStore struct {
	mu      sync.RWMutex
	payouts map[string]Payout
}

// NewMemoryStore constructs a concurrency-safe in-memory store used by unit
// tests and when the service boots without a database.
func NewMemoryStore() Store {
	return &memoryStore{payouts: make(map[string]Payout)}
}

func (s *memoryStore) Create(_ context.Context, p Payout) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.payouts[p.Reference]; exists {
		return ErrDuplicateReference
	}
	s.payouts[p.Reference] = p
	return nil
}

func (s *memoryStore) ListByMerchant(_ context.Context, merchantCode string) ([]Payout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Payout
	for _, p := range s.payouts {
		if p.MerchantCode == merchantCode {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Reference < out[j].Reference
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *memoryStore) SumProcessed(_ context.Context, merchantCode string) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := decimal.Zero
	for _, p := range s.payouts {
		if p.MerchantCode == merchantCode && p.Status == StatusProcessed {
			total = total.Add(p.Amount)
		}
	}
	return total, nil
}
