package repositories

import (
	"context"

	"fidelite/internal/models"
)

// AccountRepository defines the identity records and profile creation.
type AccountRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)

	// CreateWithProfile inserts the account and its customer or merchant
	// profile in one transaction. Exactly one of customer/merchant is set.
	CreateWithProfile(ctx context.Context, account *models.Account, customer *models.Customer, merchant *models.Merchant) error

	// ProfileID returns the id of the customer or merchant row owned by the account.
	ProfileID(ctx context.Context, account *models.Account) (uint, error)

	IncrementTokenVersion(ctx context.Context, id uint) error
	TouchLastLogin(ctx context.Context, id uint) error
}
