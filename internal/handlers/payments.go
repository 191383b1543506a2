package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/cakeshop/internal/middleware"
	"github.com/example/cakeshop/internal/services"
)

// PaymentHandler serves payment-intent creation and the gateway callback.
type PaymentHandler struct {
	payments *services.PaymentService
	currency string
}

func NewPaymentHandler(payments *services.PaymentService, currency string) *PaymentHandler {
	return &PaymentHandler{payments: payments, currency: currency}
}

// InitiatePayment creates a gateway payment intent for an unpaid order.
func (h *PaymentHandler) InitiatePayment(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	order, err := h.payments.CreateIntent(c.Context(), userID, orderID)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"order_id":         order.ID,
			"order_number":     order.OrderNumber,
			"gateway_order_id": order.GatewayOrderID,
			"amount":           services.AmountMinorUnits(order),
			"currency":         h.currency,
		},
	})
}

type paymentCallbackRequest struct {
	GatewayOrderID   string `json:"gateway_order_id"`
	GatewayPaymentID string `json:"gateway_payment_id"`
	GatewaySignature string `json:"gateway_signature"`
}

// Callback receives the gateway's asynchronous payment confirmation. The
// route is unauthenticated; the signature check inside the service is the
// trust boundary.
func (h *PaymentHandler) Callback(c *fiber.Ctx) error {
	var req paymentCallbackRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.GatewayOrderID == "" || req.GatewayPaymentID == "" || req.GatewaySignature == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing payment fields")
	}

	order, err := h.payments.Confirm(c.Context(), req.GatewayOrderID, req.GatewayPaymentID, req.GatewaySignature)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"order_number": order.OrderNumber,
			"status":       order.Status,
			"is_paid":      order.IsPaid,
		},
	})
}
