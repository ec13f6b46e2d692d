package cache

import "fmt"

type EntityType string

const (
	EntityCustomer   EntityType = "customer"
	EntityMerchant   EntityType = "merchant"
	EntityOffers     EntityType = "offers"
	EntityStorefront EntityType = "storefront"
)

type KeyType string

const (
	KeyID   KeyType = "id"
	KeyPage KeyType = "page"
)

// GenerateKey creates a standardized cache key
func GenerateKey(entity EntityType, keyType KeyType, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entity, keyType, value)
}

// Pattern matches every key of an entity, for bulk invalidation.
func Pattern(entity EntityType) string {
	return string(entity) + ":*"
}
