package transaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const uniqueViolationCode = "23505"

const transactionColumns = `id, reference, merchant_code, value::text, description, payment_method,
        card_last_four, card_holder_name, expiration_date, account_name, account_number, bank_code,
        currency, status, fee::text, net_amount::text, created_at`

// PostgresStore persists transactions in PostgreSQL.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore builds a store backed by PostgreSQL.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Create inserts a transaction record. A reference collision surfaces as
// ErrDuplicateReference via the unique constraint.
func (s *PostgresStore) Create(ctx context.Context, tx Transaction) error {
	id, err := uuid.Parse(tx.ID)
	if err != nil {
		return fmt.Errorf("parse transaction id: %w", err)
	}
	_, err = s.db.Exec(ctx, `INSERT INTO transactions
        (id, reference, merchant_code, value, description, payment_method, card_last_four,
         card_holder_name, expiration_date, account_name, account_number, bank_code,
         currency, status, fee, net_amount, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		id, tx.Reference, tx.MerchantCode, tx.Value.String(), tx.Description, string(tx.Method),
		tx.CardLastFour, tx.CardHolder, tx.Expiry, tx.AccountName, tx.AccountNum, tx.BankCode,
		tx.Currency, string(tx.Status), tx.Fee.String(), tx.NetAmount.String(), tx.CreatedAt.UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return ErrDuplicateReference
		}
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// FindByReference fetches a transaction by its unique reference.
func (s *PostgresStore) FindByReference(ctx context.Context, reference string) (Transaction, error) {
	row := s.db.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE reference = $1`, reference)
	return scanTransaction(row)
}

// UpdateStatus transitions the transaction from one status to another. The
// stored status is part of the predicate, so a replayed transition finds zero
// rows and reports ErrStatusConflict instead of re-applying.
func (s *PostgresStore) UpdateStatus(ctx context.Context, reference string, from, to Status) (Transaction, error) {
	row := s.db.QueryRow(ctx, `UPDATE transactions SET status = $3
        WHERE reference = $1 AND status = $2
        RETURNING `+transactionColumns, reference, string(from), string(to))

	tx, err := scanTransaction(row)
	if err == nil {
		return tx, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Transaction{}, err
	}

	var exists bool
	if qerr := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM transactions WHERE reference = $1)`, reference).Scan(&exists); qerr != nil {
		return Transaction{}, fmt.Errorf("check transaction exists: %w", qerr)
	}
	if exists {
		return Transaction{}, ErrStatusConflict
	}
	return Transaction{}, ErrNotFound
}

// List returns all transactions, newest first.
func (s *PostgresStore) List(ctx context.Context) ([]Transaction, error) {
	rows, err := s.db.Query(ctx, `SELECT `+transactionColumns+` FROM transactions ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

// ListByMerchant returns a merchant's transactions, newest first.
func (s *PostgresStore) ListByMerchant(ctx context.Context, merchantCode string) ([]Transaction, error) {
	rows, err := s.db.Query(ctx, `SELECT `+transactionColumns+` FROM transactions
        WHERE merchant_code = $1 ORDER BY created_at DESC`, merchantCode)
	if err != nil {
		return nil, fmt.Errorf("list merchant transactions: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

// SumByStatus totals net amounts for settled transactions and gross values
// for pending ones.
func (s *PostgresStore) SumByStatus(ctx context.Context, merchantCode string, status Status) (decimal.Decimal, error) {
	column := "net_amount"
	if status == StatusPending {
		column = "value"
	}
	var total string
	err := s.db.QueryRow(ctx, `SELECT COALESCE(SUM(`+column+`), 0)::text FROM transactions
        WHERE merchant_code = $1 AND status = $2`, merchantCode, string(status)).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum transactions: %w", err)
	}
	sum, err := decimal.NewFromString(total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse transaction sum: %w", err)
	}
	return sum, nil
}

func collectTransactions(rows pgx.Rows) ([]Transaction, error) {
	var out []Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

type pgxRow interface {
	Scan(dest ...any) error
}

func scanTransaction(row pgxRow) (Transaction, error) {
	var (
		tx        Transaction
		id        uuid.UUID
		method    string
		status    string
		value     string
		fee       string
		netAmount string
		createdAt time.Time
	)
	err := row.Scan(&id, &tx.Reference, &tx.MerchantCode, &value, &tx.Description, &method,
		&tx.CardLastFour, &tx.CardHolder, &tx.Expiry, &tx.AccountName, &tx.AccountNum, &tx.BankCode,
		&tx.Currency, &status, &fee, &netAmount, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Transaction{}, ErrNotFound
		}
		return Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	tx.ID = id.String()
	tx.Method = PaymentMethod(method)
	tx.Status = Status(status)
	tx.CreatedAt = createdAt.UTC()

	if tx.Value, err = decimal.NewFromString(value); err != nil {
		return Transaction{}, fmt.Errorf("parse value: %w", err)
	}
	if tx.Fee, err = decimal.NewFromString(fee); err != nil {
		return Transaction{}, fmt.Errorf("parse fee: %w", err)
	}
	if tx.NetAmount, err = decimal.NewFromString(netAmount); err != nil {
		return Transaction{}, fmt.Errorf("parse net amount: %w", err)
	}
	return tx, nil
}
