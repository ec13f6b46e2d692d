package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction kinds
const (
	TransactionKindPurchase        = "purchase"
	TransactionKindOfferRedemption = "offer_redemption"
)

var (
	ErrImmutableTransaction  = errors.New("transactions are append-only")
	ErrUnbalancedTransaction = errors.New("net points must equal points added minus points deducted")
)

// Transaction is one point-award event. Rows are appended once and never
// updated or deleted.
type Transaction struct {
	ID             uint            `gorm:"primarykey" json:"id"`
	Reference      string          `gorm:"uniqueIndex;size:36;not null" json:"reference"`
	Kind           string          `gorm:"not null;default:'purchase'" json:"kind"`
	MerchantID     uint            `gorm:"not null;index;uniqueIndex:idx_transactions_idempotency,priority:1" json:"merchant_id"`
	CustomerID     uint            `gorm:"not null;index" json:"customer_id"`
	OfferID        *uint           `gorm:"index" json:"offer_id,omitempty"`
	PointsAdded    int64           `gorm:"not null" json:"points_added"`
	PointsDeducted int64           `gorm:"not null" json:"points_deducted"`
	NetPoints      int64           `gorm:"not null" json:"net_points"`
	PurchaseAmount decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"purchase_amount"`
	TotalRevenue   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_revenue"`
	DiscountPct    decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"discount_pct"`
	UsedBons       int             `gorm:"not null;default:0" json:"used_bons"`
	IdempotencyKey *string         `gorm:"size:64;uniqueIndex:idx_transactions_idempotency,priority:2" json:"idempotency_key,omitempty"`
	CreatedAt      time.Time       `gorm:"index" json:"created_at"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.NetPoints != t.PointsAdded-t.PointsDeducted {
		return ErrUnbalancedTransaction
	}
	if t.Reference == "" {
		t.Reference = uuid.NewString()
	}
	return nil
}

func (t *Transaction) BeforeUpdate(tx *gorm.DB) error {
	return ErrImmutableTransaction
}

func (t *Transaction) BeforeDelete(tx *gorm.DB) error {
	return ErrImmutableTransaction
}
