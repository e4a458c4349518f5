package payout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nairapay/nairapay/internal/notification"
	"github.com/nairapay/nairapay/internal/validate"
	"github.com/nairapay/nairapay/internal/wallet"
)

const referencePrefix = "PO-"

// ErrNoFunds indicates the merchant has no available balance to sweep.
var ErrNoFunds = errors.New("no funds available for payout")

// Issuer sweeps merchant available balances into payout records.
type Issuer struct {
	store    Store
	wallets  *wallet.Ledger
	notifier notification.Notifier
}

// NewIssuer builds a payout issuer.
func NewIssuer(store Store, wallets *wallet.Ledger, notifier notification.Notifier) *Issuer {
	return &Issuer{store: store, wallets: wallets, notifier: notifier}
}

// Issue sweeps the merchant's entire available balance into a new payout.
// The debit is conditional on the amount read still being present, so a
// concurrent payout that already consumed the balance fails here with
// ErrNoFunds and a credit arriving between the read and the debit is kept.
func (i *Issuer) Issue(ctx context.Context, merchantCode string) (Payout, error) {
	if merchantCode == "" {
		return Payout{}, validate.NewError("MerchantCode", "is required")
	}

	balance, err := i.wallets.Balance(ctx, merchantCode)
	if err != nil {
		if errors.Is(err, wallet.ErrNotFound) {
			return Payout{}, wallet.ErrNotFound
		}
		return Payout{}, fmt.Errorf("read balance: %w", err)
	}
	if !balance.Available.IsPositive() {
		return Payout{}, ErrNoFunds
	}

	if _, err := i.wallets.AdjustAvailable(ctx, merchantCode, balance.Available.Neg()); err != nil {
		if errors.Is(err, wallet.ErrInsufficientFunds) {
			return Payout{}, ErrNoFunds
		}
		return Payout{}, fmt.Errorf("debit available balance: %w", err)
	}

	p := Payout{
		ID:           uuid.NewString(),
		Reference:    referencePrefix + uuid.NewString(),
		Amount:       balance.Available,
		Currency:     balance.Currency,
		MerchantCode: merchantCode,
		Status:       StatusProcessed,
		CreatedAt:    time.Now().UTC(),
	}

	if err := i.store.Create(ctx, p); err != nil {
		// Return the swept funds if the record cannot be written.
		_, _ = i.wallets.AdjustAvailable(ctx, merchantCode, balance.Available)
		return Payout{}, fmt.Errorf("create payout: %w", err)
	}

	if i.notifier != nil {
		_ = i.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindPayoutProcessed,
			Destination: merchantCode,
			Body:        fmt.Sprintf("Payout %s processed for %s %s", p.Reference, p.Amount, p.Currency),
		})
	}

	return p, nil
}

// ListByMerchant returns a merchant's payouts, newest first.
func (i *Issuer) ListByMerchant(ctx context.Context, merchantCode string) ([]Payout, error) {
	if merchantCode == "" {
		return nil, validate.NewError("MerchantCode", "is required")
	}
	return i.store.ListByMerchant(ctx, merchantCode)
}

// TotalProcessed returns the sum a merchant has been paid out.
func (i *Issuer) TotalProcessed(ctx context.Context, merchantCode string) (decimal.Decimal, error) {
	return i.store.SumProcessed(ctx, merchantCode)
}
