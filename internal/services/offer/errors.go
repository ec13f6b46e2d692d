package offer

import domainErrors "fidelite/internal/errors"

var (
	ErrNotOwner = domainErrors.Forbidden("OFFER_NOT_OWNED", "offer belongs to another merchant")
	ErrExpired  = domainErrors.Validation("OFFER_EXPIRED", "offer has expired")
)
