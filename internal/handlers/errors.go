package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/example/cakeshop/internal/services"
)

// mapServiceError translates service errors to HTTP responses. Unknown errors
// pass through and surface as 500s via the fiber error handler.
func mapServiceError(err error) error {
	var couponErr *services.CouponInvalidError
	if errors.As(err, &couponErr) {
		return fiber.NewError(fiber.StatusBadRequest, couponErr.Error())
	}

	switch {
	case errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrInsufficientStock),
		errors.Is(err, services.ErrCouponNotFound),
		errors.Is(err, services.ErrCancelReasonRequired),
		errors.Is(err, services.ErrInvalidPaymentMethod),
		errors.Is(err, services.ErrInvalidStatus):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrAlreadyPaid),
		errors.Is(err, services.ErrNotCancellable):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, services.ErrSignatureInvalid):
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrAddressNotFound),
		errors.Is(err, services.ErrVariantNotFound),
		errors.Is(err, services.ErrCartItemNotFound),
		errors.Is(err, services.ErrInvoiceNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrGatewayUnavailable):
		return fiber.NewError(fiber.StatusBadGateway, "failed to initiate payment, please try again later")
	default:
		return err
	}
}
