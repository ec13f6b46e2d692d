package repositories

import (
	"context"
	"errors"

	domainErrors "fidelite/internal/errors"
	"fidelite/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ledgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) ExecuteInTransaction(ctx context.Context, fn func(LedgerRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ledgerRepository{db: tx})
	})
}

func (r *ledgerRepository) FindCustomerByLookupCode(ctx context.Context, code string) (*models.Customer, error) {
	return NewCustomerRepository(r.db).FindByLookupCode(ctx, code)
}

func (r *ledgerRepository) GetCustomer(ctx context.Context, id uint) (*models.Customer, error) {
	return NewCustomerRepository(r.db).GetByID(ctx, id)
}

func (r *ledgerRepository) GetMerchant(ctx context.Context, id uint) (*models.Merchant, error) {
	return NewMerchantRepository(r.db).GetByID(ctx, id)
}

func (r *ledgerRepository) GetOffer(ctx context.Context, id uint) (*models.Offer, error) {
	return NewOfferRepository(r.db).GetByID(ctx, id)
}

func (r *ledgerRepository) LockCustomer(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&customer, id).Error
	if err != nil {
		return nil, notFoundOr(err, ErrCustomerNotFound)
	}
	return &customer, nil
}

func (r *ledgerRepository) AppendTransaction(ctx context.Context, tx *models.Transaction) error {
	if err := r.db.WithContext(ctx).Create(tx).Error; err != nil {
		return duplicateOr(err, ErrDuplicateIdempotent)
	}
	return nil
}

// IncrementPoints adds delta server-side so concurrent writers never lose an
// update. The points >= 0 check constraint rejects overdrafts.
func (r *ledgerRepository) IncrementPoints(ctx context.Context, customerID uint, delta int64) error {
	result := r.db.WithContext(ctx).Model(&models.Customer{}).
		Where("id = ?", customerID).
		UpdateColumn("points", gorm.Expr("points + ?", delta))
	if result.Error != nil {
		return domainErrors.Provider(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCustomerNotFound
	}
	return nil
}

func (r *ledgerRepository) FindByIdempotencyKey(ctx context.Context, merchantID uint, key string) (*models.Transaction, error) {
	var txn models.Transaction
	err := r.db.WithContext(ctx).
		Where("merchant_id = ? AND idempotency_key = ?", merchantID, key).
		First(&txn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, domainErrors.Provider(err)
	}
	return &txn, nil
}

func (r *ledgerRepository) filtered(ctx context.Context, filter TransactionFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.Transaction{})
	if filter.MerchantID != 0 {
		query = query.Where("merchant_id = ?", filter.MerchantID)
	}
	if filter.CustomerID != 0 {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at < ?", *filter.To)
	}
	return query
}

func (r *ledgerRepository) ListTransactions(ctx context.Context, filter TransactionFilter, limit, offset int) ([]models.Transaction, int64, error) {
	var total int64
	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, domainErrors.Provider(err)
	}

	var txns []models.Transaction
	err := r.filtered(ctx, filter).
		Order("created_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&txns).Error
	if err != nil {
		return nil, 0, domainErrors.Provider(err)
	}
	return txns, total, nil
}

func (r *ledgerRepository) AllTransactions(ctx context.Context, filter TransactionFilter) ([]models.Transaction, error) {
	var txns []models.Transaction
	if err := r.filtered(ctx, filter).Order("created_at ASC, id ASC").Find(&txns).Error; err != nil {
		return nil, domainErrors.Provider(err)
	}
	return txns, nil
}
