// Package reconciliation cross-checks wallet balances against the amounts
// derivable from the transaction and payout ledgers.
package reconciliation

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nairapay/nairapay/internal/payout"
	"github.com/nairapay/nairapay/internal/transaction"
	"github.com/nairapay/nairapay/internal/validate"
	"github.com/nairapay/nairapay/internal/wallet"
)

// Report compares a merchant's wallet balances with what the transaction and
// payout histories say they should be.
type Report struct {
	MerchantCode     string
	Currency         string
	WalletAvailable  decimal.Decimal
	WalletPending    decimal.Decimal
	DerivedAvailable decimal.Decimal
	DerivedPending   decimal.Decimal
	TotalPaidOut     decimal.Decimal
	Balanced         bool
}

// Service derives per-merchant reconciliation reports.
type Service struct {
	transactions transaction.Store
	payouts      payout.Store
	wallets      *wallet.Ledger
}

// NewService builds a reconciliation service.
func NewService(transactions transaction.Store, payouts payout.Store, wallets *wallet.Ledger) *Service {
	return &Service{transactions: transactions, payouts: payouts, wallets: wallets}
}

// Report computes the merchant's derived balances: pending is the sum of
// gross values still awaiting settlement, available is the settled net total
// minus everything already paid out.
func (s *Service) Report(ctx context.Context, merchantCode string) (Report, error) {
	if merchantCode == "" {
		return Report{}, validate.NewError("MerchantCode", "is required")
	}

	balance, err := s.wallets.Balance(ctx, merchantCode)
	if err != nil {
		return Report{}, err
	}

	pendingSum, err := s.transactions.SumByStatus(ctx, merchantCode, transaction.StatusPending)
	if err != nil {
		return Report{}, fmt.Errorf("sum pending transactions: %w", err)
	}
	settledNet, err := s.transactions.SumByStatus(ctx, merchantCode, transaction.StatusSuccess)
	if err != nil {
		return Report{}, fmt.Errorf("sum settled transactions: %w", err)
	}
	paidOut, err := s.payouts.SumProcessed(ctx, merchantCode)
	if err != nil {
		return Report{}, fmt.Errorf("sum payouts: %w", err)
	}

	derivedAvailable := settledNet.Sub(paidOut)
	report := Report{
		MerchantCode:     merchantCode,
		Currency:         balance.Currency,
		WalletAvailable:  balance.Available,
		WalletPending:    balance.Pending,
		DerivedAvailable: derivedAvailable,
		DerivedPending:   pendingSum,
		TotalPaidOut:     paidOut,
		Balanced:         balance.Available.Equal(derivedAvailable) && balance.Pending.Equal(pendingSum),
	}
	return report, nil
}
