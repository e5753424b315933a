package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/store-orders-api/internal/domains/orders/domain"
	"github.com/Apurer/store-orders-api/internal/domains/orders/ports"
	storesports "github.com/Apurer/store-orders-api/internal/domains/stores/ports"
	"github.com/Apurer/store-orders-api/internal/shared/apperrors"
)

var invalidInputErrors = []error{
	domain.ErrInvalidOrderID,
	domain.ErrMissingStore,
	domain.ErrMissingClient,
	domain.ErrMissingAddress,
	domain.ErrNoLineItems,
	domain.ErrEmptyItemCode,
	domain.ErrInvalidItemAmount,
	domain.ErrMoneyPrecision,
	domain.ErrInvalidState,
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
	if errors.Is(err, domain.ErrTransitionNotAllowed) {
		return apperrors.Wrap(apperrors.ErrInvalidTransition, err, "%s", err.Error())
	}
	return err
}

func orderNotFound(id int64) error {
	return apperrors.NotFound("no order found with id: %d", id)
}

// lookupError turns a missing-entity failure from a collaborator into a
// NotFound error with msg, and passes infrastructure failures through.
func lookupError(err error, msg string) error {
	if errors.Is(err, apperrors.ErrNotFound) ||
		errors.Is(err, ports.ErrNotFound) ||
		errors.Is(err, storesports.ErrNotFound) ||
		errors.Is(err, storesports.ErrProductNotFound) {
		return apperrors.Wrap(apperrors.ErrNotFound, err, "%s", msg)
	}
	return err
}

func duplicateOrder(err error, id int64) error {
	if errors.Is(err, ports.ErrDuplicate) {
		return apperrors.Wrap(apperrors.ErrDuplicateKey, err, "order already exists with id: %d", id)
	}
	return fmt.Errorf("persist order %d: %w", id, err)
}

func alreadyDelivered(order *domain.Order) error {
	return apperrors.Wrap(apperrors.ErrInvalidTransition, domain.ErrAlreadyDelivered,
		"order already delivered on: %s", domain.FormatDate(order.DeliveredOn))
}
