package reconciliation

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/nairapay/nairapay/internal/payout"
	"github.com/nairapay/nairapay/internal/transaction"
	"github.com/nairapay/nairapay/internal/wallet"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", s, err)
	}
	return d
}

// Runs a merchant through the full lifecycle and checks the wallet balances
// line up with the amounts derived from the transaction and payout records.
func TestReportBalancedAfterFullLifecycle(t *testing.T) {
	ctx := context.Background()
	txStore := transaction.NewMemoryStore()
	poStore := payout.NewMemoryStore()
	ledger := wallet.NewLedger(wallet.NewMemoryStore())
	fees := transaction.FeesFromPercent(decimal.NewFromInt(3), decimal.NewFromInt(5))

	processor := transaction.NewProcessor(txStore, ledger, fees)
	settler := transaction.NewSettler(txStore, ledger, nil)
	issuer := payout.NewIssuer(poStore, ledger, nil)
	svc := NewService(txStore, poStore, ledger)

	// Card payment awaiting settlement: 5000 gross reserved as pending.
	cardTx, err := processor.ProcessCard(ctx, transaction.CardInput{
		MerchantCode: "m-100",
		Value:        dec(t, "5000"),
		Description:  "POS purchase",
		CardNumber:   "4242 4242 4242 4242",
		CardHolder:   "Ada Obi",
		Expiry:       "09/27",
		CVV:          "123",
		Currency:     "NGN",
	})
	if err != nil {
		t.Fatalf("process card: %v", err)
	}

	// Transfer payment: 2000 gross, 1900 net credited immediately.
	if _, err := processor.ProcessVirtualAccount(ctx, transaction.VirtualAccountInput{
		MerchantCode: "m-100",
		Value:        dec(t, "2000"),
		Description:  "bank transfer",
		AccountName:  "Ada Obi",
		AccountNum:   "0123456789",
		BankCode:     "058",
		Currency:     "NGN",
	}); err != nil {
		t.Fatalf("process virtual account: %v", err)
	}

	report, err := svc.Report(ctx, "m-100")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if !report.Balanced {
		t.Fatalf("expected balanced report before settlement, got %+v", report)
	}
	if !report.WalletPending.Equal(dec(t, "5000")) {
		t.Fatalf("expected pending 5000, got %s", report.WalletPending)
	}
	if !report.WalletAvailable.Equal(dec(t, "1900")) {
		t.Fatalf("expected available 1900, got %s", report.WalletAvailable)
	}

	// Settlement releases the card reservation: 5000 leaves pending, 4850
	// lands in available.
	if _, err := settler.SettleCard(ctx, transaction.SettlementInput{
		Reference:    cardTx.Reference,
		Amount:       dec(t, "5000"),
		CardNumber:   "4242424242424242",
		Currency:     "NGN",
		MerchantCode: "m-100",
	}); err != nil {
		t.Fatalf("settle card: %v", err)
	}

	report, err = svc.Report(ctx, "m-100")
	if err != nil {
		t.Fatalf("report after settlement: %v", err)
	}
	if !report.Balanced {
		t.Fatalf("expected balanced report after settlement, got %+v", report)
	}
	if !report.WalletAvailable.Equal(dec(t, "6750")) {
		t.Fatalf("expected available 6750, got %s", report.WalletAvailable)
	}
	if !report.WalletPending.IsZero() {
		t.Fatalf("expected pending 0, got %s", report.WalletPending)
	}

	// Payout sweeps everything; derived available drops to 0 with it.
	if _, err := issuer.Issue(ctx, "m-100"); err != nil {
		t.Fatalf("issue payout: %v", err)
	}

	report, err = svc.Report(ctx, "m-100")
	if err != nil {
		t.Fatalf("report after payout: %v", err)
	}
	if !report.Balanced {
		t.Fatalf("expected balanced report after payout, got %+v", report)
	}
	if !report.WalletAvailable.IsZero() || !report.DerivedAvailable.IsZero() {
		t.Fatalf("expected drained balances, got wallet=%s derived=%s",
			report.WalletAvailable, report.DerivedAvailable)
	}
	if !report.TotalPaidOut.Equal(dec(t, "6750")) {
		t.Fatalf("expected total paid out 6750, got %s", report.TotalPaidOut)
	}
}

func TestReportDetectsDrift(t *testing.T) {
	ctx := context.Background()
	walletStore := wallet.NewMemoryStore()
	ledger := wallet.NewLedger(walletStore)
	if _, err := ledger.EnsureWallet(ctx, "m-101", "NGN"); err != nil {
		t.Fatalf("ensure wallet: %v", err)
	}

	// Balance injected outside the transaction history cannot be derived.
	wallet.SeedBalances(walletStore, "m-101", dec(t, "300"), decimal.Zero)

	svc := NewService(transaction.NewMemoryStore(), payout.NewMemoryStore(), ledger)
	report, err := svc.Report(ctx, "m-101")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.Balanced {
		t.Fatalf("expected drift to be flagged, got %+v", report)
	}
	if !report.DerivedAvailable.IsZero() {
		t.Fatalf("expected derived available 0, got %s", report.DerivedAvailable)
	}
}

func TestReportRequiresMerchantCode(t *testing.T) {
	svc := NewService(transaction.NewMemoryStore(), payout.NewMemoryStore(), wallet.NewLedger(wallet.NewMemoryStore()))
	if _, err := svc.Report(context.Background(), ""); err == nil {
		t.Fatal("expected validation error for empty merchant code")
	}
}
