package payout

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is a payout's lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusProcessed Status = "processed"
)

// Payout records a sweep of a merchant's entire available balance. It is
// created together with the wallet debit and immutable afterwards.
type Payout struct {
	ID           string
	Reference    string
	Amount       decimal.Decimal
	Currency     string
	MerchantCode string
	Status       Status
	CreatedAt    time.Time
}
