package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PostgresStore persists wallets in PostgreSQL. Balance mutations happen in a
// single guarded UPDATE so the floor-at-zero check and the adjustment are one
// atomic statement.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore builds a store backed by PostgreSQL.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Create inserts a wallet record.
func (s *PostgresStore) Create(ctx context.Context, w Wallet) error {
	id, err := uuid.Parse(w.ID)
	if err != nil {
		return fmt.Errorf("parse wallet id: %w", err)
	}
	tag, err := s.db.Exec(ctx, `INSERT INTO merchant_wallets (id, merchant_code, available_balance, pending_balance, currency, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (merchant_code) DO NOTHING`,
		id, w.MerchantCode, w.AvailableBalance.String(), w.PendingBalance.String(), w.Currency, w.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert wallet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrExists
	}
	return nil
}

// FindByMerchant fetches the wallet owned by the merchant code.
func (s *PostgresStore) FindByMerchant(ctx context.Context, merchantCode string) (Wallet, error) {
	row := s.db.QueryRow(ctx, `SELECT id, merchant_code, available_balance::text, pending_balance::text, currency, updated_at
        FROM merchant_wallets WHERE merchant_code = $1`, merchantCode)
	return scanWallet(row)
}

// Adjust applies both balance deltas in one statement. The WHERE clause
// carries the floor-at-zero guards, so a rejected adjustment leaves the row
// untouched and concurrent adjustments serialize on the row lock.
func (s *PostgresStore) Adjust(ctx context.Context, merchantCode string, availableDelta, pendingDelta decimal.Decimal) (Wallet, error) {
	row := s.db.QueryRow(ctx, `UPDATE merchant_wallets
        SET available_balance = available_balance + $2,
            pending_balance   = pending_balance + $3,
            updated_at        = now()
        WHERE merchant_code = $1
          AND available_balance + $2 >= 0
          AND pending_balance + $3 >= 0
        RETURNING id, merchant_code, available_balance::text, pending_balance::text, currency, updated_at`,
		merchantCode, availableDelta.String(), pendingDelta.String())

	w, err := scanWallet(row)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Wallet{}, err
	}

	// No row updated: either the wallet is missing or a guard rejected the
	// adjustment. Tell the two apart for the caller.
	var exists bool
	if qerr := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM merchant_wallets WHERE merchant_code = $1)`, merchantCode).Scan(&exists); qerr != nil {
		return Wallet{}, fmt.Errorf("check wallet exists: %w", qerr)
	}
	if exists {
		return Wallet{}, ErrInsufficientFunds
	}
	return Wallet{}, ErrNotFound
}

type pgxRow interface {
	Scan(dest ...any) error
}

func scanWallet(row pgxRow) (Wallet, error) {
	var (
		w         Wallet
		id        uuid.UUID
		available string
		pending   string
		updatedAt time.Time
	)
	if err := row.Scan(&id, &w.MerchantCode, &available, &pending, &w.Currency, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Wallet{}, ErrNotFound
		}
		return Wallet{}, fmt.Errorf("scan wallet: %w", err)
	}
	w.ID = id.String()
	w.UpdatedAt = updatedAt.UTC()

	var err error
	if w.AvailableBalance, err = decimal.NewFromString(available); err != nil {
		return Wallet{}, fmt.Errorf("parse available balance: %w", err)
	}
	if w.PendingBalance, err = decimal.NewFromString(pending); err != nil {
		return Wallet{}, fmt.Errorf("parse pending balance: %w", err)
	}
	return w, nil
}
