package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_MessageAndKind(t *testing.T) {
	err := NotFound("no order found with id: %d", 7)

	assert.Equal(t, "no order found with id: 7", err.Error())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, ErrNotFound, KindOf(err))
}

func TestWrap_KeepsCauseReachable(t *testing.T) {
	cause := errors.New("product missing")
	wrapped := fmt.Errorf("create order: %w", Wrap(ErrNotFound, cause, "product not found"))

	assert.ErrorIs(t, wrapped, cause)
	assert.ErrorIs(t, wrapped, ErrNotFound)
	assert.True(t, IsPermanent(wrapped))
}

func TestIsPermanent_UnclassifiedErrorsAreRetryable(t *testing.T) {
	assert.False(t, IsPermanent(nil))
	assert.False(t, IsPermanent(errors.New("connection refused")))
	assert.True(t, IsPermanent(InvalidTransition("only transition allowed is to DISPATCHED")))
}

func TestValidation_CarriesFields(t *testing.T) {
	err := fmt.Errorf("decode: %w", Validation(FieldViolation{Field: "id", Message: "is required"}))

	fields := FieldsOf(err)
	require.Len(t, fields, 1)
	assert.Equal(t, "id", fields[0].Field)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestKindByName(t *testing.T) {
	assert.Equal(t, ErrDuplicateKey, KindByName(ErrDuplicateKey.Error()))
	assert.Nil(t, KindByName("something else"))
}
