package analytics

import (
	"context"

	"fidelite/internal/logger"
	"fidelite/internal/repositories"

	"go.uber.org/zap"
)

type Service interface {
	// ForMerchant describes the customers who have transacted with the merchant.
	ForMerchant(ctx context.Context, merchantID uint) (Distribution, error)
}

type service struct {
	customers repositories.CustomerRepository
}

func NewService(customers repositories.CustomerRepository) Service {
	if customers == nil {
		panic("customer repository is required")
	}
	return &service{customers: customers}
}

func (s *service) ForMerchant(ctx context.Context, merchantID uint) (Distribution, error) {
	customers, err := s.customers.ListByMerchant(ctx, merchantID)
	if err != nil {
		return Distribution{}, err
	}

	dist := Customers(ProfilesOf(customers))
	logger.FromContext(ctx).Debug("customer analytics computed",
		zap.Uint("merchant_id", merchantID),
		zap.Int("customers", dist.Customers),
	)
	return dist, nil
}
