package models

import "github.com/golang-jwt/jwt/v5"

// Application permissions
const (
	PermissionProfileRead  = "profile:read"
	PermissionProfileWrite = "profile:write"

	PermissionOffersRead  = "offers:read"
	PermissionOffersWrite = "offers:write"

	PermissionRatingsWrite = "ratings:write"

	PermissionMerchantRead  = "merchant:read"
	PermissionMerchantWrite = "merchant:write"

	PermissionLedgerRead  = "ledger:read"
	PermissionLedgerWrite = "ledger:write"

	PermissionAnalyticsRead = "analytics:read"
)

// UserClaims are carried in access tokens. ProfileID is the customer or
// merchant id matching Role.
type UserClaims struct {
	jwt.RegisteredClaims
	AccountID    uint     `json:"account_id"`
	ProfileID    uint     `json:"profile_id"`
	Email        string   `json:"email"`
	Role         string   `json:"role"`
	Permissions  []string `json:"permissions"`
	TokenVersion int      `json:"token_version"`
}

// HasPermission checks if the claims include a specific permission
func (c *UserClaims) HasPermission(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// GetDefaultPermissions returns default permissions based on role
func GetDefaultPermissions(role string) []string {
	switch role {
	case RoleAdmin:
		return []string{
			PermissionProfileRead,
			PermissionOffersRead,
			PermissionMerchantRead,
			PermissionLedgerRead,
			PermissionAnalyticsRead,
		}
	case RoleMerchant:
		return []string{
			PermissionOffersRead,
			PermissionOffersWrite,
			PermissionMerchantRead,
			PermissionMerchantWrite,
			PermissionLedgerRead,
			PermissionLedgerWrite,
			PermissionAnalyticsRead,
		}
	case RoleCustomer:
		return []string{
			PermissionProfileRead,
			PermissionProfileWrite,
			PermissionOffersRead,
			PermissionRatingsWrite,
			PermissionLedgerRead,
		}
	default:
		return []string{}
	}
}
