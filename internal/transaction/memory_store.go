package transaction

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
)

type memoryStore struct {
	mu          sync.RWMutex
	byReference map[string]Transaction
}

// NewMemoryStore constructs a concurrency-safe in-memory store used by unit
// tests and when the service boots without a database.
func NewMemoryStore() Store {
	return &memoryStore{byReference: make(map[string]Transaction)}
}

func (s *memoryStore) Create(_ context.Context, tx Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byReference[tx.Reference]; exists {
		return ErrDuplicateReference
	}
	s.byReference[tx.Reference] = tx
	return nil
}

func (s *memoryStore) FindByReference(_ context.Context, reference string) (Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tx, ok := s.byReference[reference]
	if !ok {
		return Transaction{}, ErrNotFound
	}
	return tx, nil
}

func (s *memoryStore) UpdateStatus(_ context.Context, reference string, from, to Status) (Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.byReference[reference]
	if !ok {
		return Transaction{}, ErrNotFound
	}
	if tx.Status != from {
		return Transaction{}, ErrStatusConflict
	}
	tx.Status = to
	s.byReference[reference] = tx
	return tx, nil
}

func (s *memoryStore) List(_ context.Context) ([]Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Transaction, 0, len(s.byReference))
	for _, tx := range s.byReference {
		out = append(out, tx)
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *memoryStore) ListByMerchant(_ context.Context, merchantCode string) ([]Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Transaction
	for _, tx := range s.byReference {
		if tx.MerchantCode == merchantCode {
			out = append(out, tx)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *memoryStore) SumByStatus(_ context.Context, merchantCode string, status Status) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := decimal.Zero
	for _, tx := range s.byReference {
		if tx.MerchantCode != merchantCode || tx.Status != status {
			continue
		}
		if status == StatusPending {
			total = total.Add(tx.Value)
		} else {
			total = total.Add(tx.NetAmount)
		}
	}
	return total, nil
}

func sortNewestFirst(txs []Transaction) {
	sort.Slice(txs, func(i, j int) bool {
		if txs[i].CreatedAt.Equal(txs[j].CreatedAt) {
			return txs[i].Reference < txs[j].Reference
		}
		return txs[i].CreatedAt.After(txs[j].CreatedAt)
	})
}
