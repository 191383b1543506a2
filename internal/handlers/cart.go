package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/cakeshop/internal/middleware"
	"github.com/example/cakeshop/internal/models"
	"github.com/example/cakeshop/internal/services"
)

// CartHandler manages the buyer's shopping cart.
type CartHandler struct {
	carts *services.CartService
}

func NewCartHandler(carts *services.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

func cartResponse(c *fiber.Ctx, cart *models.Cart) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"cart":        cart,
			"total_price": cart.TotalPrice(),
			"total_items": cart.TotalItems(),
		},
	})
}

// GetCart returns the authenticated user's cart with totals.
func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	cart, err := h.carts.Get(c.Context(), userID)
	if err != nil {
		return mapServiceError(err)
	}
	return cartResponse(c, cart)
}

type addCartItemRequest struct {
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

// AddItem adds a variant to the cart or increments its quantity.
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req addCartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	variantID, err := uuid.Parse(req.VariantID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid variant_id")
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	cart, err := h.carts.AddItem(c.Context(), userID, variantID, req.Quantity)
	if err != nil {
		return mapServiceError(err)
	}
	return cartResponse(c, cart)
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateItem sets a line's quantity; zero or less removes the line.
func (h *CartHandler) UpdateItem(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	itemID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req updateCartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	cart, err := h.carts.SetQuantity(c.Context(), userID, itemID, req.Quantity)
	if err != nil {
		return mapServiceError(err)
	}
	return cartResponse(c, cart)
}

// RemoveItem deletes a cart line.
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	itemID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	cart, err := h.carts.RemoveItem(c.Context(), userID, itemID)
	if err != nil {
		return mapServiceError(err)
	}
	return cartResponse(c, cart)
}
