package models

import "time"

type Customer struct {
	ID         uint   `gorm:"primarykey" json:"id"`
	AccountID  uint   `gorm:"uniqueIndex;not null" json:"account_id"`
	Name       string `gorm:"not null" json:"name"`
	Email      string `gorm:"not null" json:"email"`
	Points     int64  `gorm:"not null;default:0;check:chk_customers_points,points >= 0" json:"points"`
	LookupCode string `gorm:"uniqueIndex;size:16;not null" json:"lookup_code"`
	Age        *int   `json:"age,omitempty"`
	City       string `json:"city,omitempty"`

	ActiveOffers []Offer `gorm:"many2many:customer_offers;constraint:OnDelete:CASCADE" json:"active_offers,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
