package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nairapay/nairapay/internal/validate"
	"github.com/nairapay/nairapay/internal/wallet"
)

const (
	cardReferencePrefix = "CARD-"
	vaReferencePrefix   = "VA-"
)

// FeeSchedule holds the per-method fee rates as fractions (3% = 0.03).
type FeeSchedule struct {
	CardRate           decimal.Decimal
	VirtualAccountRate decimal.Decimal
}

// FeesFromPercent converts percentage figures into a FeeSchedule.
func FeesFromPercent(cardPercent, vaPercent decimal.Decimal) FeeSchedule {
	hundred := decimal.NewFromInt(100)
	return FeeSchedule{
		CardRate:           cardPercent.Div(hundred),
		VirtualAccountRate: vaPercent.Div(hundred),
	}
}

// Processor accepts payment submissions, prices them and reserves or credits
// merchant funds through the wallet ledger.
type Processor struct {
	store   Store
	wallets *wallet.Ledger
	fees    FeeSchedule
}

// NewProcessor builds a transaction processor.
func NewProcessor(store Store, wallets *wallet.Ledger, fees FeeSchedule) *Processor {
	return &Processor{store: store, wallets: wallets, fees: fees}
}

// CardInput captures a card payment submission. The PAN and CVV live only in
// this input; the persisted record keeps the last four digits.
type CardInput struct {
	MerchantCode string          `validate:"required"`
	Value        decimal.Decimal `validate:"-"`
	Description  string          `validate:"required"`
	CardNumber   string          `validate:"required"`
	CardHolder   string          `validate:"required"`
	Expiry       string          `validate:"required"`
	CVV          string          `validate:"required,numeric,min=3,max=4"`
	Currency     string          `validate:"required,len=3,alpha"`
}

// VirtualAccountInput captures a bank-transfer payment submission.
type VirtualAccountInput struct {
	MerchantCode string          `validate:"required"`
	Value        decimal.Decimal `validate:"-"`
	Description  string          `validate:"required"`
	AccountName  string          `validate:"required"`
	AccountNum   string          `validate:"required,numeric"`
	BankCode     string          `validate:"required"`
	Currency     string          `validate:"required,len=3,alpha"`
}

// ProcessCard prices and records a card payment. The transaction starts
// pending and the gross value is reserved against the merchant's pending
// balance until a settlement confirmation resolves the fee split.
func (p *Processor) ProcessCard(ctx context.Context, input CardInput) (Transaction, error) {
	if verr := validate.Struct(input); verr != nil {
		return Transaction{}, verr
	}
	if verr := validateValue(input.Value); verr != nil {
		return Transaction{}, verr
	}
	if !validCardNumber(input.CardNumber) {
		return Transaction{}, validate.NewError("CardNumber", "must be a valid card number")
	}
	if !validExpiry(input.Expiry) {
		return Transaction{}, validate.NewError("Expiry", "must be in MM/YY format")
	}

	if _, err := p.wallets.EnsureWallet(ctx, input.MerchantCode, input.Currency); err != nil {
		return Transaction{}, fmt.Errorf("ensure wallet: %w", err)
	}

	fee := input.Value.Mul(p.fees.CardRate).Round(2)
	tx := Transaction{
		ID:           uuid.NewString(),
		Reference:    cardReferencePrefix + uuid.NewString(),
		MerchantCode: input.MerchantCode,
		Value:        input.Value,
		Description:  input.Description,
		Method:       MethodCard,
		CardLastFour: lastFour(input.CardNumber),
		CardHolder:   input.CardHolder,
		Expiry:       input.Expiry,
		Currency:     input.Currency,
		Status:       StatusPending,
		Fee:          fee,
		NetAmount:    input.Value.Sub(fee),
		CreatedAt:    time.Now().UTC(),
	}

	// Reserve the gross value before the record becomes visible; a failed
	// insert releases the reservation.
	if _, err := p.wallets.AdjustPending(ctx, input.MerchantCode, input.Value); err != nil {
		return Transaction{}, fmt.Errorf("reserve pending balance: %w", err)
	}
	if err := p.store.Create(ctx, tx); err != nil {
		_, _ = p.wallets.AdjustPending(ctx, input.MerchantCode, input.Value.Neg())
		return Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	return tx, nil
}

// ProcessVirtualAccount prices and records a bank-transfer payment. Virtual
// account rails settle instantly, so the transaction is created successful
// and the net amount is credited straight to the available balance.
func (p *Processor) ProcessVirtualAccount(ctx context.Context, input VirtualAccountInput) (Transaction, error) {
	if verr := validate.Struct(input); verr != nil {
		return Transaction{}, verr
	}
	if verr := validateValue(input.Value); verr != nil {
		return Transaction{}, verr
	}

	if _, err := p.wallets.EnsureWallet(ctx, input.MerchantCode, input.Currency); err != nil {
		return Transaction{}, fmt.Errorf("ensure wallet: %w", err)
	}

	fee := input.Value.Mul(p.fees.VirtualAccountRate).Round(2)
	tx := Transaction{
		ID:           uuid.NewString(),
		Reference:    vaReferencePrefix + uuid.NewString(),
		MerchantCode: input.MerchantCode,
		Value:        input.Value,
		Description:  input.Description,
		Method:       MethodVirtualAccount,
		AccountName:  input.AccountName,
		AccountNum:   input.AccountNum,
		BankCode:     input.BankCode,
		Currency:     input.Currency,
		Status:       StatusSuccess,
		Fee:          fee,
		NetAmount:    input.Value.Sub(fee),
		CreatedAt:    time.Now().UTC(),
	}

	if _, err := p.wallets.AdjustAvailable(ctx, input.MerchantCode, tx.NetAmount); err != nil {
		return Transaction{}, fmt.Errorf("credit available balance: %w", err)
	}
	if err := p.store.Create(ctx, tx); err != nil {
		_, _ = p.wallets.AdjustAvailable(ctx, input.MerchantCode, tx.NetAmount.Neg())
		return Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	return tx, nil
}

// List returns every transaction, newest first.
func (p *Processor) List(ctx context.Context) ([]Transaction, error) {
	return p.store.List(ctx)
}

// ListByMerchant returns a merchant's transactions, newest first.
func (p *Processor) ListByMerchant(ctx context.Context, merchantCode string) ([]Transaction, error) {
	if merchantCode == "" {
		return nil, validate.NewError("MerchantCode", "is required")
	}
	return p.store.ListByMerchant(ctx, merchantCode)
}

func validateValue(value decimal.Decimal) *validate.Error {
	if !value.IsPositive() {
		return validate.NewError("Value", "must be a positive amount")
	}
	if value.Exponent() < -2 {
		return validate.NewError("Value", "must have at most two decimal places")
	}
	return nil
}
