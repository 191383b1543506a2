package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/cakeshop/internal/middleware"
	"github.com/example/cakeshop/internal/services"
	"github.com/example/cakeshop/internal/utils"
)

// OrderHandler serves checkout, order history and the order lifecycle.
type OrderHandler struct {
	checkout *services.CheckoutService
	orders   *services.OrderService
	invoices *services.InvoiceService
}

func NewOrderHandler(checkout *services.CheckoutService, orders *services.OrderService, invoices *services.InvoiceService) *OrderHandler {
	return &OrderHandler{checkout: checkout, orders: orders, invoices: invoices}
}

type checkoutRequest struct {
	AddressID     string `json:"address_id"`
	PaymentMethod string `json:"payment_method"`
	CouponCode    string `json:"coupon_code"`
}

// Checkout converts the user's cart into an order.
func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	addressID, err := uuid.Parse(req.AddressID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid address_id")
	}

	order, err := h.checkout.Checkout(c.Context(), userID, services.CheckoutInput{
		AddressID:     addressID,
		PaymentMethod: req.PaymentMethod,
		CouponCode:    req.CouponCode,
	})
	if err != nil {
		return mapServiceError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": order})
}

// ListOrders returns the authenticated user's orders.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	pg := utils.ParsePagination(c)
	orders, total, err := h.orders.List(c.Context(), userID, c.Query("status"), pg.Limit, pg.Offset)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    orders,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetOrder returns a single order for the authenticated user.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	order, err := h.orders.Get(c.Context(), userID, id)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

type cancelOrderRequest struct {
	Reason string `json:"reason"`
}

// CancelOrder cancels an eligible order with the buyer's reason.
func (h *OrderHandler) CancelOrder(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req cancelOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	order, err := h.orders.Cancel(c.Context(), userID, id, req.Reason)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

type advanceStatusRequest struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

// AdvanceStatus moves an order one step forward; seller/admin only.
func (h *OrderHandler) AdvanceStatus(c *fiber.Ctx) error {
	actorID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req advanceStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	order, err := h.orders.AdvanceStatus(c.Context(), actorID, id, req.Status, req.Note)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

// DownloadInvoice serves the generated invoice of a paid order.
func (h *OrderHandler) DownloadInvoice(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	order, err := h.orders.Get(c.Context(), userID, id)
	if err != nil {
		return mapServiceError(err)
	}
	if !order.IsPaid {
		return fiber.NewError(fiber.StatusNotFound, "invoice not available for unpaid orders")
	}

	path, err := h.invoices.Path(order.OrderNumber)
	if err != nil {
		return mapServiceError(err)
	}

	return c.Download(path, "invoice_"+order.OrderNumber+".txt")
}
