package repositories

import (
	"context"
	"time"

	"fidelite/internal/models"
)

// TransactionFilter narrows a transaction history query. Zero fields match
// everything.
type TransactionFilter struct {
	MerchantID uint
	CustomerID uint
	From       *time.Time
	To         *time.Time
}

// LedgerRepository is the store behind point awards: lookups, the append-only
// transaction log and the balance increment, all runnable inside one database
// transaction.
type LedgerRepository interface {
	// ExecuteInTransaction runs fn against a repository bound to a single
	// database transaction. Returning an error rolls everything back.
	ExecuteInTransaction(ctx context.Context, fn func(LedgerRepository) error) error

	FindCustomerByLookupCode(ctx context.Context, code string) (*models.Customer, error)
	GetCustomer(ctx context.Context, id uint) (*models.Customer, error)
	GetMerchant(ctx context.Context, id uint) (*models.Merchant, error)
	GetOffer(ctx context.Context, id uint) (*models.Offer, error)

	// LockCustomer reloads the customer row with SELECT ... FOR UPDATE. Only
	// meaningful inside ExecuteInTransaction.
	LockCustomer(ctx context.Context, id uint) (*models.Customer, error)

	AppendTransaction(ctx context.Context, tx *models.Transaction) error
	IncrementPoints(ctx context.Context, customerID uint, delta int64) error
	FindByIdempotencyKey(ctx context.Context, merchantID uint, key string) (*models.Transaction, error)

	ListTransactions(ctx context.Context, filter TransactionFilter, limit, offset int) ([]models.Transaction, int64, error)
	AllTransactions(ctx context.Context, filter TransactionFilter) ([]models.Transaction, error)
}
