package models

import "time"

// Rating is the customer-merchant fidelity link; one per pair.
type Rating struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	CustomerID uint      `gorm:"not null;uniqueIndex:idx_ratings_pair,priority:1" json:"customer_id"`
	MerchantID uint      `gorm:"not null;index;uniqueIndex:idx_ratings_pair,priority:2" json:"merchant_id"`
	Rating     int       `gorm:"not null;check:chk_ratings_range,rating BETWEEN 1 AND 5" json:"rating"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
