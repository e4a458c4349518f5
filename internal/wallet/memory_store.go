package wallet

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

type memoryStore struct {
	mu      sync.RWMutex
	wallets map[string]Wallet
}

// NewMemoryStore constructs a concurrency-safe in-memory store used by unit
// tests and when the service boots without a database.
func NewMemoryStore() Store {
	return &memoryStore{wallets: make(map[string]Wallet)}
}

func (s *memoryStore) Create(_ context.Context, w Wallet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.wallets[w.MerchantCode]; exists {
		return ErrExists
	}
	s.wallets[w.MerchantCode] = w
	return nil
}

func (s *memoryStore) FindByMerchant(_ context.Context, merchantCode string) (Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.wallets[merchantCode]
	if !ok {
		return Wallet{}, ErrNotFound
	}
	return w, nil
}

func (s *memoryStore) Adjust(_ context.Context, merchantCode string, availableDelta, pendingDelta decimal.Decimal) (Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.wallets[merchantCode]
	if !ok {
		return Wallet{}, ErrNotFound
	}

	available := w.AvailableBalance.Add(availableDelta)
	pending := w.PendingBalance.Add(pendingDelta)
	if available.IsNegative() || pending.IsNegative() {
		return Wallet{}, ErrInsufficientFunds
	}

	w.AvailableBalance = available
	w.PendingBalance = pending
	w.UpdatedAt = time.Now().UTC()
	s.wallets[merchantCode] = w
	return w, nil
}
