package validation

import (
	"fidelite/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Registration validates the identity part of a sign-up request
func (v *Validator) Registration(email, password, role, name string) {
	v.Required("email", email)
	v.Email("email", email)
	v.Password("password", password)
	v.Check(models.ValidRole(role), "role", "must be customer or merchant")
	v.Required("name", name)
	v.MaxLength("name", name, MaxNameLength)
}

// Offer validates an offer before it is persisted
func (v *Validator) Offer(o *models.Offer) {
	v.Required("name", o.Name)
	v.MaxLength("name", o.Name, MaxNameLength)
	v.MaxLength("description", o.Description, MaxDescriptionLength)
	v.IntRange("duration_months", o.DurationMonths, MinOfferDurationMonths, MaxOfferDurationMonths)
	if o.Discount != nil {
		v.DecimalRange("discount", *o.Discount, decimal.Zero, hundred)
	}
}

// CustomerProfile validates the editable customer fields
func (v *Validator) CustomerProfile(name string, age *int, city string) {
	v.Required("name", name)
	v.MaxLength("name", name, MaxNameLength)
	if age != nil {
		v.IntRange("age", *age, MinAge, MaxAge)
	}
	v.MaxLength("city", city, MaxCityLength)
}

// MerchantProfile validates a storefront
func (v *Validator) MerchantProfile(m *models.Merchant) {
	v.Required("name", m.Name)
	v.MaxLength("name", m.Name, MaxNameLength)
	v.MaxLength("description", m.Description, MaxDescriptionLength)
	v.MaxLength("city", m.City, MaxCityLength)
	v.MaxLength("logo_url", m.LogoURL, MaxURLLength)
	v.MaxLength("cover_url", m.CoverURL, MaxURLLength)
}

// Rating validates a 1-5 star rating
func (v *Validator) Rating(value int) {
	v.IntRange("rating", value, MinRating, MaxRating)
}
