package wallet

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound indicates no wallet exists for the merchant code.
	ErrNotFound = errors.New("wallet not found")

	// ErrInsufficientFunds indicates an adjustment would drive a balance
	// below zero and was rejected without applying any part of it.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrExists indicates a wallet already exists for the merchant code.
	ErrExists = errors.New("wallet exists")
)

// Store persists merchant wallets. Adjust is the only mutation path for
// balances: it applies both deltas as a single compare-and-adjust so that
// concurrent adjustments never lose updates and neither balance is ever
// observed below zero.
type Store interface {
	Create(ctx context.Context, w Wallet) error
	FindByMerchant(ctx context.Context, merchantCode string) (Wallet, error)
	Adjust(ctx context.Context, merchantCode string, availableDelta, pendingDelta decimal.Decimal) (Wallet, error)
}
