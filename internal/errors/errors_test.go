package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_IsMatchesWrappedCopies(t *testing.T) {
	sentinel := Validation("TOO_MANY_COUPONS", "too many coupons")

	wrapped := fmt.Errorf("award: %w", sentinel.WithMessage("requested %d, available %d", 3, 2))

	assert.True(t, stderrors.Is(wrapped, sentinel))
	assert.Equal(t, KindValidation, KindOf(wrapped))
	assert.Equal(t, "TOO_MANY_COUPONS", CodeOf(wrapped))
	assert.Contains(t, wrapped.Error(), "requested 3, available 2")
}

func TestProvider(t *testing.T) {
	cause := stderrors.New("connection refused")

	err := Provider(cause)

	assert.Equal(t, KindProvider, KindOf(err))
	assert.True(t, stderrors.Is(err, cause))
	assert.True(t, stderrors.Is(err, ErrProvider))
	assert.Nil(t, Provider(nil))

	notFound := NotFound("CUSTOMER_NOT_FOUND", "customer not found")
	assert.Same(t, notFound, Provider(notFound))
}

func TestKindOf_PlainError(t *testing.T) {
	assert.Equal(t, KindUnknown, KindOf(stderrors.New("boom")))
	assert.Equal(t, "INTERNAL", CodeOf(stderrors.New("boom")))
	assert.Equal(t, "not_found", KindNotFound.String())
}
