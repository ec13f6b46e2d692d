package repositories

import (
	"errors"

	domainErrors "fidelite/internal/errors"

	"gorm.io/gorm"
)

var (
	ErrAccountNotFound     = domainErrors.NotFound("ACCOUNT_NOT_FOUND", "account not found")
	ErrCustomerNotFound    = domainErrors.NotFound("CUSTOMER_NOT_FOUND", "customer not found")
	ErrMerchantNotFound    = domainErrors.NotFound("MERCHANT_NOT_FOUND", "merchant not found")
	ErrOfferNotFound       = domainErrors.NotFound("OFFER_NOT_FOUND", "offer not found")
	ErrTransactionNotFound = domainErrors.NotFound("TRANSACTION_NOT_FOUND", "transaction not found")

	ErrEmailTaken          = domainErrors.Conflict("EMAIL_TAKEN", "email already registered")
	ErrLookupCodeTaken     = domainErrors.Conflict("LOOKUP_CODE_TAKEN", "lookup code already in use")
	ErrDuplicateIdempotent = domainErrors.Conflict("DUPLICATE_IDEMPOTENCY_KEY", "idempotency key already used")
)

// notFoundOr maps gorm's record-not-found to sentinel and wraps anything else
// as a provider failure.
func notFoundOr(err error, sentinel *domainErrors.DomainError) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return domainErrors.Provider(err)
}

// duplicateOr maps a unique-constraint violation to sentinel. The DB handle
// must be opened with TranslateError for gorm to report ErrDuplicatedKey.
func duplicateOr(err error, sentinel *domainErrors.DomainError) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return sentinel.Wrap(err)
	}
	return domainErrors.Provider(err)
}
