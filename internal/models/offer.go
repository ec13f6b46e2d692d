package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Offer struct {
	ID             uint             `gorm:"primarykey" json:"id"`
	MerchantID     uint             `gorm:"index;not null" json:"merchant_id"`
	Name           string           `gorm:"not null" json:"name"`
	Description    string           `gorm:"type:text" json:"description"`
	Discount       *decimal.Decimal `gorm:"type:numeric(5,2)" json:"discount,omitempty"`
	IsBoosted      bool             `gorm:"index;default:false" json:"is_boosted"`
	DurationMonths int              `gorm:"not null;default:1" json:"duration_months"`
	ExpiresAt      time.Time        `gorm:"index;not null" json:"expires_at"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// BeforeSave keeps ExpiresAt in step with the duration.
func (o *Offer) BeforeSave(tx *gorm.DB) error {
	start := o.CreatedAt
	if start.IsZero() {
		start = time.Now()
	}
	o.ExpiresAt = start.AddDate(0, o.DurationMonths, 0)
	return nil
}

// ActiveAt reports whether the offer can still be redeemed at t.
func (o *Offer) ActiveAt(t time.Time) bool {
	return t.Before(o.ExpiresAt)
}

// FilterActive returns the offers still active at t, reusing the backing array.
func FilterActive(offers []Offer, at time.Time) []Offer {
	active := offers[:0]
	for _, o := range offers {
		if o.ActiveAt(at) {
			active = append(active, o)
		}
	}
	return active
}
