package ledger

import domainErrors "fidelite/internal/errors"

var (
	ErrInvalidAmount     = domainErrors.Validation("INVALID_AMOUNT", "purchase amount must be greater than zero")
	ErrInvalidCoupons    = domainErrors.Validation("INVALID_COUPONS", "coupon count must not be negative")
	ErrTooManyCoupons    = domainErrors.Validation("TOO_MANY_COUPONS", "coupon count exceeds the available coupons")
	ErrInvalidDiscount   = domainErrors.Validation("INVALID_DISCOUNT", "offer discount must be between 0 and 100")
	ErrNonPositivePoints = domainErrors.Validation("NON_POSITIVE_POINTS", "purchase earns no points after discounts")
	ErrMissingLookupCode = domainErrors.Validation("MISSING_LOOKUP_CODE", "customer lookup code is required")
	ErrOfferExpired      = domainErrors.Validation("OFFER_EXPIRED", "offer has expired")
	ErrOfferNotOwned     = domainErrors.Forbidden("OFFER_NOT_OWNED", "offer belongs to another merchant")

	ErrIdempotencyKeyReused = domainErrors.Conflict("IDEMPOTENCY_KEY_REUSED", "idempotency key was used for a different request")
)
