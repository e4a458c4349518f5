package transaction

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod identifies the rails a transaction came in on.
type PaymentMethod string

const (
	// MethodCard is a card payment; it settles asynchronously.
	MethodCard PaymentMethod = "card"
	// MethodVirtualAccount is a bank-transfer payment; it settles instantly.
	MethodVirtualAccount PaymentMethod = "virtualAccount"
)

// Status is a transaction's lifecycle state. Failed is part of the stored
// enum but nothing in this service transitions into it.
type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Transaction is a single payment accepted on behalf of a merchant. Card
// details are reduced to the last four digits before the record is built;
// the PAN and CVV are never stored.
type Transaction struct {
	ID           string
	Reference    string
	MerchantCode string
	Value        decimal.Decimal
	Description  string
	Method       PaymentMethod
	CardLastFour string
	CardHolder   string
	Expiry       string
	AccountName  string
	AccountNum   string
	BankCode     string
	Currency     string
	Status       Status
	Fee          decimal.Decimal
	NetAmount    decimal.Decimal
	CreatedAt    time.Time
}
