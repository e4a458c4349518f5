package transaction

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/nairapay/nairapay/internal/wallet"
)

func settlementFixture(t *testing.T) (*Settler, Transaction, wallet.Store) {
	t.Helper()
	txStore := NewMemoryStore()
	walletStore := wallet.NewMemoryStore()
	ledger := wallet.NewLedger(walletStore)
	p := NewProcessor(txStore, ledger, testFees())

	tx, err := p.ProcessCard(context.Background(), cardInput())
	if err != nil {
		t.Fatalf("process card: %v", err)
	}
	return NewSettler(txStore, ledger, nil), tx, walletStore
}

func matchingSettlement(tx Transaction) SettlementInput {
	return SettlementInput{
		Reference:    tx.Reference,
		Amount:       tx.Value,
		CardNumber:   "4242424242424242",
		Currency:     tx.Currency,
		MerchantCode: tx.MerchantCode,
	}
}

func TestSettleCard(t *testing.T) {
	settler, tx, walletStore := settlementFixture(t)
	ctx := context.Background()

	settled, err := settler.SettleCard(ctx, matchingSettlement(tx))
	if err != nil {
		t.Fatalf("settle card: %v", err)
	}
	if settled.Status != StatusSuccess {
		t.Fatalf("expected success status, got %s", settled.Status)
	}

	w, err := walletStore.FindByMerchant(ctx, tx.MerchantCode)
	if err != nil {
		t.Fatalf("find wallet: %v", err)
	}
	if !w.PendingBalance.IsZero() {
		t.Fatalf("expected pending 0 after settlement, got %s", w.PendingBalance)
	}
	if !w.AvailableBalance.Equal(dec("4850")) {
		t.Fatalf("expected available 4850 after settlement, got %s", w.AvailableBalance)
	}
}

func TestSettleCardUnknownReference(t *testing.T) {
	settler, tx, _ := settlementFixture(t)

	input := matchingSettlement(tx)
	input.Reference = "CARD-does-not-exist"
	if _, err := settler.SettleCard(context.Background(), input); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSettleCardMismatch(t *testing.T) {
	cases := map[string]struct {
		mutate func(*SettlementInput)
		field  string
	}{
		"amount":       {func(in *SettlementInput) { in.Amount = dec("4999") }, "amount"},
		"currency":     {func(in *SettlementInput) { in.Currency = "USD" }, "currency"},
		"cardNumber":   {func(in *SettlementInput) { in.CardNumber = "4111111111111111" }, "cardNumber"},
		"merchantCode": {func(in *SettlementInput) { in.MerchantCode = "MCH-999" }, "merchantCode"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			settler, tx, walletStore := settlementFixture(t)
			ctx := context.Background()

			input := matchingSettlement(tx)
			tc.mutate(&input)

			_, err := settler.SettleCard(ctx, input)
			var mm *MismatchError
			if !errors.As(err, &mm) {
				t.Fatalf("expected mismatch error, got %v", err)
			}
			found := false
			for _, f := range mm.Fields {
				if f == tc.field {
					found = true
				}
			}
			if !found {
				t.Fatalf("expected %s in mismatched fields, got %v", tc.field, mm.Fields)
			}

			// Balances must be untouched on a mismatch.
			w, _ := walletStore.FindByMerchant(ctx, tx.MerchantCode)
			if !w.PendingBalance.Equal(dec("5000")) || !w.AvailableBalance.IsZero() {
				t.Fatalf("mismatch must not move balances, got %+v", w)
			}
		})
	}
}

func TestSettleCardCollectsAllMismatchedFields(t *testing.T) {
	settler, tx, _ := settlementFixture(t)

	input := matchingSettlement(tx)
	input.Amount = dec("1")
	input.Currency = "USD"

	_, err := settler.SettleCard(context.Background(), input)
	var mm *MismatchError
	if !errors.As(err, &mm) {
		t.Fatalf("expected mismatch error, got %v", err)
	}
	if len(mm.Fields) != 2 {
		t.Fatalf("expected two mismatched fields, got %v", mm.Fields)
	}
}

func TestSettleCardReplay(t *testing.T) {
	settler, tx, walletStore := settlementFixture(t)
	ctx := context.Background()

	if _, err := settler.SettleCard(ctx, matchingSettlement(tx)); err != nil {
		t.Fatalf("first settlement: %v", err)
	}
	if _, err := settler.SettleCard(ctx, matchingSettlement(tx)); !errors.Is(err, ErrAlreadySettled) {
		t.Fatalf("expected already settled, got %v", err)
	}

	// Balances equal the post-first-settlement state exactly.
	w, _ := walletStore.FindByMerchant(ctx, tx.MerchantCode)
	if !w.AvailableBalance.Equal(dec("4850")) || !w.PendingBalance.IsZero() {
		t.Fatalf("replay must not move balances again, got %+v", w)
	}
}

func TestSettleCardConcurrentReplay(t *testing.T) {
	settler, tx, walletStore := settlementFixture(t)
	ctx := context.Background()

	const workers = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := settler.SettleCard(ctx, matchingSettlement(tx)); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			} else if !errors.Is(err, ErrAlreadySettled) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if succeeded != 1 {
		t.Fatalf("expected exactly one settlement to win, got %d", succeeded)
	}
	w, _ := walletStore.FindByMerchant(ctx, tx.MerchantCode)
	if !w.AvailableBalance.Equal(dec("4850")) || !w.PendingBalance.IsZero() {
		t.Fatalf("unexpected balances after concurrent replay: %+v", w)
	}
}

func TestSettleVirtualAccountRejected(t *testing.T) {
	txStore := NewMemoryStore()
	walletStore := wallet.NewMemoryStore()
	ledger := wallet.NewLedger(walletStore)
	p := NewProcessor(txStore, ledger, testFees())
	settler := NewSettler(txStore, ledger, nil)
	ctx := context.Background()

	tx, err := p.ProcessVirtualAccount(ctx, vaInput())
	if err != nil {
		t.Fatalf("process virtual account: %v", err)
	}

	input := matchingSettlement(tx)
	_, err = settler.SettleCard(ctx, input)
	var mm *MismatchError
	if !errors.As(err, &mm) {
		t.Fatalf("expected mismatch error, got %v", err)
	}
	if mm.Fields[0] != "paymentMethod" {
		t.Fatalf("expected paymentMethod mismatch, got %v", mm.Fields)
	}
}
