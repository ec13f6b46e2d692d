package customer

import domainErrors "fidelite/internal/errors"

var (
	ErrOfferExpired     = domainErrors.Validation("OFFER_EXPIRED", "offer has expired")
	ErrLookupCodeFailed = domainErrors.Conflict("LOOKUP_CODE_EXHAUSTED", "could not allocate a unique lookup code")
)
