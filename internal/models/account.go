package models

import "time"

// Account roles
const (
	RoleCustomer = "customer"
	RoleMerchant = "merchant"
	RoleAdmin    = "admin"
)

// Account is the identity record behind a customer or merchant profile.
type Account struct {
	ID           uint       `gorm:"primarykey" json:"id"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	Password     string     `gorm:"not null" json:"-"`
	Role         string     `gorm:"not null;default:'customer'" json:"role"`
	TokenVersion int        `gorm:"default:1" json:"-"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// ValidRole reports whether role can be self-registered.
func ValidRole(role string) bool {
	return role == RoleCustomer || role == RoleMerchant
}
