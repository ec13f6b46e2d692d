package repositories

import (
	"context"

	"fidelite/internal/models"
)

// CustomerRepository defines the customer profile records.
type CustomerRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Customer, error)
	FindByLookupCode(ctx context.Context, code string) (*models.Customer, error)
	UpdateProfile(ctx context.Context, id uint, name string, age *int, city string) error
	UpdateLookupCode(ctx context.Context, id uint, code string) error

	// ListByMerchant returns the distinct customers with at least one
	// transaction at the merchant.
	ListByMerchant(ctx context.Context, merchantID uint) ([]models.Customer, error)

	ActiveOffers(ctx context.Context, customerID uint) ([]models.Offer, error)
	AddActiveOffer(ctx context.Context, customerID, offerID uint) error
	RemoveActiveOffer(ctx context.Context, customerID, offerID uint) error

	// DeleteCascade removes the customer's ratings, offer links, profile and
	// account. Transactions are left in place.
	DeleteCascade(ctx context.Context, customerID uint) error
}
