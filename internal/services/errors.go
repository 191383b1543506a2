package services

import "errors"

// Validation errors: reported to the caller, no state change.
var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInvalidQuantity      = errors.New("quantity must be at least 1")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrCouponNotFound       = errors.New("invalid coupon code")
	ErrCancelReasonRequired = errors.New("cancellation reason required")
	ErrInvalidPaymentMethod = errors.New("unsupported payment method")
	ErrInvalidStatus        = errors.New("illegal status transition")
)

// Conflict errors: reported with no state change, usually a race lost by this request.
var (
	ErrAlreadyPaid    = errors.New("order is already paid")
	ErrNotCancellable = errors.New("order cannot be cancelled at this stage")
)

// Trust errors: permanently rejected, never retried.
var ErrSignatureInvalid = errors.New("payment signature verification failed")

// Not-found errors.
var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrAddressNotFound  = errors.New("address not found")
	ErrVariantNotFound  = errors.New("variant not found")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrInvoiceNotFound  = errors.New("invoice not found")
)

// Integration errors: the failed operation aborts but is safe to retry.
var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

// CouponInvalidError carries the specific reason a coupon was rejected.
type CouponInvalidError struct {
	Reason string
}

func (e *CouponInvalidError) Error() string {
	return "coupon error: " + e.Reason
}
