package payout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const uniqueViolationCode = "23505"

// PostgresStore persists payouts in PostgreSQL.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore builds a store backed by PostgreSQL.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Create inserts a payout record.
func (s *PostgresStore) Create(ctx context.Context, p Payout) error {
	id, err := uuid.Parse(p.ID)
	if err != nil {
		return fmt.Errorf("parse payout id: %w", err)
	}
	_, err = s.db.Exec(ctx, `INSERT INTO payouts (id, reference, amount, currency, merchant_code, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, p.Reference, p.Amount.String(), p.Currency, p.MerchantCode, string(p.Status), p.CreatedAt.UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return ErrDuplicateReference
		}
		return fmt.Errorf("insert payout: %w", err)
	}
	return nil
}

// ListByMerchant returns a merchant's payouts, newest first.
func (s *PostgresStore) ListByMerchant(ctx context.Context, merchantCode string) ([]Payout, error) {
	rows, err := s.db.Query(ctx, `SELECT id, reference, amount::text, currency, merchant_code, status, created_at
        FROM payouts WHERE merchant_code = $1 ORDER BY created_at DESC`, merchantCode)
	if err != nil {
		return nil, fmt.Errorf("list payouts: %w", err)
	}
	defer rows.Close()

	var out []Payout
	for rows.Next() {
		var (
			p         Payout
			id        uuid.UUID
			amount    string
			status    string
			createdAt time.Time
		)
		if err := rows.Scan(&id, &p.Reference, &amount, &p.Currency, &p.MerchantCode, &status, &createdAt); err != nil {
			return nil, fmt.Errorf("scan payout: %w", err)
		}
		p.ID = id.String()
		p.Status = Status(status)
		p.CreatedAt = createdAt.UTC()
		if p.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("parse payout amount: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payouts: %w", err)
	}
	return out, nil
}

// SumProcessed totals processed payouts for a merchant.
func (s *PostgresStore) SumProcessed(ctx context.Context, merchantCode string) (decimal.Decimal, error) {
	var total string
	err := s.db.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0)::text FROM payouts
        WHERE merchant_code = $1 AND status = $2`, merchantCode, string(StatusProcessed)).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum payouts: %w", err)
	}
	sum, err := decimal.NewFromString(total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse payout sum: %w", err)
	}
	return sum, nil
}
