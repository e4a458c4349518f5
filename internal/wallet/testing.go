package wallet

import "github.com/shopspring/decimal"

// SeedBalances is a test helper that sets a wallet's balances directly when
// using the in-memory store.
func SeedBalances(s Store, merchantCode string, available, pending decimal.Decimal) {
	if mem, ok := s.(*memoryStore); ok {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		w := mem.wallets[merchantCode]
		w.AvailableBalance = available
		w.PendingBalance = pending
		mem.wallets[merchantCode] = w
	}
}
