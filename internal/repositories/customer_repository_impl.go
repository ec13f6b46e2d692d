package repositories

import (
	"context"
	"strings"

	domainErrors "fidelite/internal/errors"
	"fidelite/internal/models"

	"gorm.io/gorm"
)

type customerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) GetByID(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).First(&customer, id).Error; err != nil {
		return nil, notFoundOr(err, ErrCustomerNotFound)
	}
	return &customer, nil
}

func (r *customerRepository) FindByLookupCode(ctx context.Context, code string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).
		Where("lookup_code = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&customer).Error
	if err != nil {
		return nil, notFoundOr(err, ErrCustomerNotFound)
	}
	return &customer, nil
}

func (r *customerRepository) UpdateProfile(ctx context.Context, id uint, name string, age *int, city string) error {
	result := r.db.WithContext(ctx).Model(&models.Customer{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"name": name,
			"age":  age,
			"city": city,
		})
	if result.Error != nil {
		return domainErrors.Provider(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCustomerNotFound
	}
	return nil
}

func (r *customerRepository) UpdateLookupCode(ctx context.Context, id uint, code string) error {
	result := r.db.WithContext(ctx).Model(&models.Customer{}).
		Where("id = ?", id).
		Update("lookup_code", code)
	if result.Error != nil {
		return duplicateOr(result.Error, ErrLookupCodeTaken)
	}
	if result.RowsAffected == 0 {
		return ErrCustomerNotFound
	}
	return nil
}

func (r *customerRepository) ListByMerchant(ctx context.Context, merchantID uint) ([]models.Customer, error) {
	db := r.db.WithContext(ctx)
	sub := db.Model(&models.Transaction{}).Select("customer_id").Where("merchant_id = ?", merchantID)

	var customers []models.Customer
	if err := db.Where("id IN (?)", sub).Order("id").Find(&customers).Error; err != nil {
		return nil, domainErrors.Provider(err)
	}
	return customers, nil
}

func (r *customerRepository) ActiveOffers(ctx context.Context, customerID uint) ([]models.Offer, error) {
	var offers []models.Offer
	err := r.db.WithContext(ctx).
		Model(&models.Customer{ID: customerID}).
		Order("offers.is_boosted DESC, offers.created_at DESC").
		Association("ActiveOffers").
		Find(&offers)
	if err != nil {
		return nil, domainErrors.Provider(err)
	}
	return offers, nil
}

func (r *customerRepository) AddActiveOffer(ctx context.Context, customerID, offerID uint) error {
	err := r.db.WithContext(ctx).
		Model(&models.Customer{ID: customerID}).
		Omit("ActiveOffers.*").
		Association("ActiveOffers").
		Append(&models.Offer{ID: offerID})
	if err != nil {
		return domainErrors.Provider(err)
	}
	return nil
}

func (r *customerRepository) RemoveActiveOffer(ctx context.Context, customerID, offerID uint) error {
	err := r.db.WithContext(ctx).
		Model(&models.Customer{ID: customerID}).
		Association("ActiveOffers").
		Delete(&models.Offer{ID: offerID})
	if err != nil {
		return domainErrors.Provider(err)
	}
	return nil
}

func (r *customerRepository) DeleteCascade(ctx context.Context, customerID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.First(&customer, customerID).Error; err != nil {
			return notFoundOr(err, ErrCustomerNotFound)
		}

		if err := tx.Where("customer_id = ?", customerID).Delete(&models.Rating{}).Error; err != nil {
			return domainErrors.Provider(err)
		}
		if err := tx.Model(&customer).Association("ActiveOffers").Clear(); err != nil {
			return domainErrors.Provider(err)
		}
		if err := tx.Delete(&customer).Error; err != nil {
			return domainErrors.Provider(err)
		}
		if err := tx.Delete(&models.Account{}, customer.AccountID).Error; err != nil {
			return domainErrors.Provider(err)
		}
		return nil
	})
}
