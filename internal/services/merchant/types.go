package merchant

import (
	"fidelite/internal/models"
	"fidelite/internal/repositories"
)

type UpdateProfileRequest struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	City        string `json:"city"`
	Category    string `json:"category"`
	Description string `json:"description"`
	LogoURL     string `json:"logo_url"`
	CoverURL    string `json:"cover_url"`
}

// Storefront is the public view of a merchant.
type Storefront struct {
	Merchant *models.Merchant         `json:"merchant"`
	Rating   repositories.RatingStats `json:"rating"`
	Offers   []models.Offer           `json:"offers"`
}

type Page struct {
	Merchants []models.Merchant `json:"merchants"`
	Total     int64             `json:"total"`
}

// CacheMetrics records cache effectiveness; optional.
type CacheMetrics interface {
	RecordCacheHit(entity string)
	RecordCacheMiss(entity string)
}

type noopCacheMetrics struct{}

func (noopCacheMetrics) RecordCacheHit(string)  {}
func (noopCacheMetrics) RecordCacheMiss(string) {}
