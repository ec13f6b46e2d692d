package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	domainErrors "fidelite/internal/errors"
	"fidelite/internal/models"

	"gorm.io/gorm"
)

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) GetByID(ctx context.Context, id uint) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).First(&account, id).Error; err != nil {
		return nil, notFoundOr(err, ErrAccountNotFound)
	}
	return &account, nil
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&account).Error
	if err != nil {
		return nil, notFoundOr(err, ErrAccountNotFound)
	}
	return &account, nil
}

func (r *accountRepository) CreateWithProfile(ctx context.Context, account *models.Account, customer *models.Customer, merchant *models.Merchant) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(account).Error; err != nil {
			return duplicateOr(err, ErrEmailTaken)
		}

		switch {
		case customer != nil:
			customer.AccountID = account.ID
			if err := tx.Create(customer).Error; err != nil {
				return duplicateOr(err, ErrLookupCodeTaken)
			}
		case merchant != nil:
			merchant.AccountID = account.ID
			if err := tx.Create(merchant).Error; err != nil {
				return domainErrors.Provider(err)
			}
		}
		return nil
	})
}

func (r *accountRepository) ProfileID(ctx context.Context, account *models.Account) (uint, error) {
	var id uint
	var err error
	switch account.Role {
	case models.RoleCustomer:
		err = r.db.WithContext(ctx).Model(&models.Customer{}).
			Where("account_id = ?", account.ID).Select("id").Scan(&id).Error
	case models.RoleMerchant:
		err = r.db.WithContext(ctx).Model(&models.Merchant{}).
			Where("account_id = ?", account.ID).Select("id").Scan(&id).Error
	default:
		return 0, nil
	}
	if err != nil {
		return 0, domainErrors.Provider(err)
	}
	if id == 0 {
		return 0, errors.New("account has no profile")
	}
	return id, nil
}

func (r *accountRepository) IncrementTokenVersion(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Model(&models.Account{}).
		Where("id = ?", id).
		UpdateColumn("token_version", gorm.Expr("token_version + 1"))
	if result.Error != nil {
		return domainErrors.Provider(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (r *accountRepository) TouchLastLogin(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Model(&models.Account{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", time.Now()).Error
	if err != nil {
		return domainErrors.Provider(err)
	}
	return nil
}
