package transaction

import (
	"time"

	"github.com/shopspring/decimal"
)

// CardRequest is the JSON payload for a card payment submission.
type CardRequest struct {
	MerchantCode string          `json:"merchantCode"`
	Value        decimal.Decimal `json:"value"`
	Description  string          `json:"description"`
	CardNumber   string          `json:"cardNumber"`
	CardHolder   string          `json:"cardHolderName"`
	Expiry       string          `json:"expirationDate"`
	CVV          string          `json:"cvv"`
	Currency     string          `json:"currency"`
}

// VirtualAccountRequest is the JSON payload for a bank-transfer submission.
type VirtualAccountRequest struct {
	MerchantCode string          `json:"merchantCode"`
	Value        decimal.Decimal `json:"value"`
	Description  string          `json:"description"`
	AccountName  string          `json:"accountName"`
	AccountNum   string          `json:"accountNumber"`
	BankCode     string          `json:"bankCode"`
	Currency     string          `json:"currency"`
}

// SettlementRequest is the JSON payload for a card settlement confirmation.
type SettlementRequest struct {
	Reference    string          `json:"reference"`
	Amount       decimal.Decimal `json:"amount"`
	CardNumber   string          `json:"cardNumber"`
	Currency     string          `json:"currency"`
	MerchantCode string          `json:"merchantCode"`
}

// Response is the transaction representation returned to callers. Card
// fields carry only the redacted last four digits.
type Response struct {
	Reference     string          `json:"reference"`
	MerchantCode  string          `json:"merchantCode"`
	Value         decimal.Decimal `json:"value"`
	Description   string          `json:"description"`
	PaymentMethod string          `json:"paymentMethod"`
	CardLastFour  string          `json:"cardLastFour,omitempty"`
	CardHolder    string          `json:"cardHolderName,omitempty"`
	AccountName   string          `json:"accountName,omitempty"`
	AccountNum    string          `json:"accountNumber,omitempty"`
	BankCode      string          `json:"bankCode,omitempty"`
	Currency      string          `json:"currency"`
	Status        string          `json:"status"`
	Fee           decimal.Decimal `json:"fee"`
	NetAmount     decimal.Decimal `json:"netAmount"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ToResponse converts a transaction into its API representation.
func ToResponse(tx Transaction) Response {
	return Response{
		Reference:     tx.Reference,
		MerchantCode:  tx.MerchantCode,
		Value:         tx.Value,
		Description:   tx.Description,
		PaymentMethod: string(tx.Method),
		CardLastFour:  tx.CardLastFour,
		CardHolder:    tx.CardHolder,
		AccountName:   tx.AccountName,
		AccountNum:    tx.AccountNum,
		BankCode:      tx.BankCode,
		Currency:      tx.Currency,
		Status:        string(tx.Status),
		Fee:           tx.Fee,
		NetAmount:     tx.NetAmount,
		CreatedAt:     tx.CreatedAt,
	}
}
