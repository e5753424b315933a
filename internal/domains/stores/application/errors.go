package application

import (
	"errors"
	"strings"

	"github.com/Apurer/store-orders-api/internal/domains/stores/domain"
	"github.com/Apurer/store-orders-api/internal/domains/stores/ports"
	"github.com/Apurer/store-orders-api/internal/shared/apperrors"
)

var invalidInputErrors = []error{
	domain.ErrInvalidCNPJ,
	domain.ErrEmptyCorporateName,
	domain.ErrCorporateNameTooLong,
	domain.ErrInvalidEmail,
	domain.ErrInvalidPhone,
	domain.ErrWeakPassword,
	domain.ErrEmptyProductCode,
	domain.ErrEmptyProductName,
	domain.ErrProductNameTooLong,
	domain.ErrDescriptionTooLong,
	domain.ErrNegativePrice,
	domain.ErrPricePrecision,
	domain.ErrNegativeQuantity,
	domain.ErrMissingProductStore,
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return err
	}
	for _, candidate := range invalidInputErrors {
		if errors.Is(err, candidate) {
			return apperrors.Wrap(apperrors.ErrInvalidInput, err, "%s", err.Error())
		}
	}
	switch {
	case errors.Is(err, ports.ErrDuplicateProduct):
		return apperrors.Wrap(apperrors.ErrInvalidInput, err, "%s", err.Error())
	case errors.Is(err, ports.ErrDuplicate):
		return apperrors.Wrap(apperrors.ErrDuplicateKey, err, "%s", err.Error())
	case errors.Is(err, ports.ErrInvalidCredentials), errors.Is(err, ports.ErrSessionNotFound):
		return apperrors.Wrap(apperrors.ErrUnauthorized, err, "%s", err.Error())
	}
	return err
}

func duplicateStoreError(fields []string) error {
	violations := make([]apperrors.FieldViolation, 0, len(fields))
	for _, field := range fields {
		violations = append(violations, apperrors.FieldViolation{Field: field, Message: "already registered"})
	}
	return &apperrors.Error{
		Kind:    apperrors.ErrDuplicateKey,
		Message: "store already registered with " + strings.Join(fields, ", "),
		Fields:  violations,
	}
}

func storeNotFound(cause error, format string, args ...any) error {
	if errors.Is(cause, ports.ErrNotFound) {
		return apperrors.Wrap(apperrors.ErrNotFound, cause, format, args...)
	}
	return cause
}

func productNotFound(cause error, format string, args ...any) error {
	if errors.Is(cause, ports.ErrProductNotFound) {
		return apperrors.Wrap(apperrors.ErrNotFound, cause, format, args...)
	}
	return cause
}
