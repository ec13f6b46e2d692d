package validation

const (
	// Password requirements. bcrypt ignores bytes past 72.
	MinPasswordLength = 8
	MaxPasswordLength = 72

	// String lengths
	MaxNameLength        = 120
	MaxDescriptionLength = 2000
	MaxCityLength        = 80
	MaxURLLength         = 512

	// Offers
	MinOfferDurationMonths = 1
	MaxOfferDurationMonths = 36

	// Customer profile
	MinAge = 0
	MaxAge = 130

	MinRating = 1
	MaxRating = 5
)
