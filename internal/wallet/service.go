package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ledger owns per-merchant balance state. Every balance movement in the
// system goes through its adjust operations; nothing else mutates a wallet.
type Ledger struct {
	store Store
}

// NewLedger builds a wallet ledger over the given store.
func NewLedger(store Store) *Ledger {
	return &Ledger{store: store}
}

// EnsureWallet get-or-creates the wallet for a merchant. Safe to call
// concurrently for the same merchant; the losing creator re-reads the
// winner's wallet.
func (l *Ledger) EnsureWallet(ctx context.Context, merchantCode, currency string) (Wallet, error) {
	if merchantCode == "" {
		return Wallet{}, fmt.Errorf("merchant code is required")
	}

	w, err := l.store.FindByMerchant(ctx, merchantCode)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Wallet{}, fmt.Errorf("find wallet: %w", err)
	}

	if currency == "" {
		currency = DefaultCurrency
	}

	w = Wallet{
		ID:               uuid.NewString(),
		MerchantCode:     merchantCode,
		AvailableBalance: decimal.Zero,
		PendingBalance:   decimal.Zero,
		Currency:         currency,
		UpdatedAt:        time.Now().UTC(),
	}

	if err := l.store.Create(ctx, w); err != nil {
		if errors.Is(err, ErrExists) {
			return l.store.FindByMerchant(ctx, merchantCode)
		}
		return Wallet{}, fmt.Errorf("create wallet: %w", err)
	}
	return w, nil
}

// AdjustAvailable moves the available balance by delta, rejecting any
// movement that would take it negative.
func (l *Ledger) AdjustAvailable(ctx context.Context, merchantCode string, delta decimal.Decimal) (Wallet, error) {
	return l.store.Adjust(ctx, merchantCode, delta, decimal.Zero)
}

// AdjustPending moves the pending balance by delta, rejecting any movement
// that would take it negative.
func (l *Ledger) AdjustPending(ctx context.Context, merchantCode string, delta decimal.Decimal) (Wallet, error) {
	return l.store.Adjust(ctx, merchantCode, decimal.Zero, delta)
}

// Settle releases a settled card transaction's reservation: the gross value
// leaves pending and the net amount lands in available, as one adjustment.
func (l *Ledger) Settle(ctx context.Context, merchantCode string, value, netAmount decimal.Decimal) (Wallet, error) {
	return l.store.Adjust(ctx, merchantCode, netAmount, value.Neg())
}

// Balance returns a point-in-time snapshot of the merchant's wallet.
func (l *Ledger) Balance(ctx context.Context, merchantCode string) (Balance, error) {
	w, err := l.store.FindByMerchant(ctx, merchantCode)
	if err != nil {
		return Balance{}, err
	}
	return Balance{
		MerchantCode: w.MerchantCode,
		Available:    w.AvailableBalance,
		Pending:      w.PendingBalance,
		Currency:     w.Currency,
		AsOf:         time.Now().UTC(),
	}, nil
}
