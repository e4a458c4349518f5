package payout

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrDuplicateReference indicates the generated payout reference already
// exists.
var ErrDuplicateReference = errors.New("duplicate payout reference")

// Store persists payout records.
type Store interface {
	Create(ctx context.Context, p Payout) error
	ListByMerchant(ctx context.Context, merchantCode string) ([]Payout, error)
	// SumProcessed totals every processed payout for a merchant.
	SumProcessed(ctx context.Context, merchantCode string) (decimal.Decimal, error)
}
