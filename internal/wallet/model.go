package wallet

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is applied when a merchant's first transaction carries no
// explicit currency.
const DefaultCurrency = "NGN"

// Wallet tracks a merchant's settled and in-flight funds. One wallet exists
// per merchant code; it is created lazily on the first transaction and never
// deleted.
type Wallet struct {
	ID               string
	MerchantCode     string
	AvailableBalance decimal.Decimal
	PendingBalance   decimal.Decimal
	Currency         string
	UpdatedAt        time.Time
}

// Balance is the read model returned to callers of the ledger.
type Balance struct {
	MerchantCode string
	Available    decimal.Decimal
	Pending      decimal.Decimal
	Currency     string
	AsOf         time.Time
}
