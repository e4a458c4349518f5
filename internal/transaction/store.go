package transaction

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound indicates no transaction exists for the reference.
	ErrNotFound = errors.New("transaction not found")

	// ErrDuplicateReference indicates the generated reference already
	// exists. References are random 128-bit tokens, so hitting this means
	// a replayed create rather than a collision.
	ErrDuplicateReference = errors.New("duplicate reference")

	// ErrStatusConflict indicates a conditional status transition found the
	// record in a different state than expected.
	ErrStatusConflict = errors.New("transaction status conflict")
)

// Store persists transactions. UpdateStatus is a compare-and-set: the
// transition applies only when the stored status still equals from, which is
// what makes settlement idempotent against replays.
type Store interface {
	Create(ctx context.Context, tx Transaction) error
	FindByReference(ctx context.Context, reference string) (Transaction, error)
	UpdateStatus(ctx context.Context, reference string, from, to Status) (Transaction, error)
	List(ctx context.Context) ([]Transaction, error)
	ListByMerchant(ctx context.Context, merchantCode string) ([]Transaction, error)
	// SumByStatus totals a merchant's transactions in the given status:
	// net amounts for settled transactions, gross values for pending ones.
	SumByStatus(ctx context.Context, merchantCode string, status Status) (decimal.Decimal, error)
}
