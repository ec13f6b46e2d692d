package models

import "time"

type Merchant struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	AccountID   uint      `gorm:"uniqueIndex;not null" json:"account_id"`
	Name        string    `gorm:"not null" json:"name"`
	Address     string    `json:"address"`
	City        string    `gorm:"index" json:"city"`
	Category    string    `gorm:"index" json:"category"`
	Description string    `gorm:"type:text" json:"description"`
	LogoURL     string    `json:"logo_url,omitempty"`
	CoverURL    string    `json:"cover_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
