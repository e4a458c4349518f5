package transaction

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/nairapay/nairapay/internal/notification"
	"github.com/nairapay/nairapay/internal/validate"
	"github.com/nairapay/nairapay/internal/wallet"
)

// ErrAlreadySettled indicates a settlement confirmation was replayed for a
// reference that already settled. The balance movement is never re-applied.
var ErrAlreadySettled = errors.New("transaction already settled")

// MismatchError reports the settlement fields that disagree with the stored
// transaction. The transaction and wallet are untouched when it is returned.
type MismatchError struct {
	Fields []string
}

func (e *MismatchError) Error() string {
	return "settlement does not match transaction: " + strings.Join(e.Fields, ", ")
}

// SettlementInput is a card settlement confirmation from the processor rails.
type SettlementInput struct {
	Reference    string          `validate:"required"`
	Amount       decimal.Decimal `validate:"-"`
	CardNumber   string          `validate:"required"`
	Currency     string          `validate:"required,len=3,alpha"`
	MerchantCode string          `validate:"required"`
}

// Settler finalizes pending card transactions against settlement
// confirmations.
type Settler struct {
	store    Store
	wallets  *wallet.Ledger
	notifier notification.Notifier
}

// NewSettler builds a settlement matcher.
func NewSettler(store Store, wallets *wallet.Ledger, notifier notification.Notifier) *Settler {
	return &Settler{store: store, wallets: wallets, notifier: notifier}
}

// SettleCard matches a confirmation against the pending card transaction it
// references. On a full match the transaction flips to success, the gross
// value leaves the pending balance and the net amount lands in available.
// The status transition is a compare-and-set, so a replayed confirmation
// fails with ErrAlreadySettled without moving funds again.
func (s *Settler) SettleCard(ctx context.Context, input SettlementInput) (Transaction, error) {
	if verr := validate.Struct(input); verr != nil {
		return Transaction{}, verr
	}
	if verr := validateValue(input.Amount); verr != nil {
		return Transaction{}, verr
	}

	tx, err := s.store.FindByReference(ctx, input.Reference)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Transaction{}, ErrNotFound
		}
		return Transaction{}, fmt.Errorf("find transaction: %w", err)
	}

	if tx.Method != MethodCard {
		return Transaction{}, &MismatchError{Fields: []string{"paymentMethod"}}
	}
	if tx.Status == StatusSuccess {
		return Transaction{}, ErrAlreadySettled
	}
	if tx.Status != StatusPending {
		return Transaction{}, &MismatchError{Fields: []string{"status"}}
	}

	var mismatched []string
	if !input.Amount.Equal(tx.Value) {
		mismatched = append(mismatched, "amount")
	}
	if input.Currency != tx.Currency {
		mismatched = append(mismatched, "currency")
	}
	if lastFour(input.CardNumber) != tx.CardLastFour {
		mismatched = append(mismatched, "cardNumber")
	}
	if input.MerchantCode != tx.MerchantCode {
		mismatched = append(mismatched, "merchantCode")
	}
	if len(mismatched) > 0 {
		return Transaction{}, &MismatchError{Fields: mismatched}
	}

	settled, err := s.store.UpdateStatus(ctx, tx.Reference, StatusPending, StatusSuccess)
	if err != nil {
		if errors.Is(err, ErrStatusConflict) {
			// A concurrent settlement won the compare-and-set.
			return Transaction{}, ErrAlreadySettled
		}
		return Transaction{}, fmt.Errorf("update status: %w", err)
	}

	if _, err := s.wallets.Settle(ctx, settled.MerchantCode, settled.Value, settled.NetAmount); err != nil {
		// Release the transition so a retried confirmation can settle.
		_, _ = s.store.UpdateStatus(ctx, settled.Reference, StatusSuccess, StatusPending)
		return Transaction{}, fmt.Errorf("move settled funds: %w", err)
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindCardSettled,
			Destination: settled.MerchantCode,
			Body:        fmt.Sprintf("Card transaction %s settled for %s %s", settled.Reference, settled.NetAmount, settled.Currency),
		})
	}

	return settled, nil
}
