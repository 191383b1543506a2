package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/example/cakeshop/internal/middleware"
	"github.com/example/cakeshop/internal/models"
	"github.com/example/cakeshop/internal/utils"
)

// CatalogHandler serves cake browsing and seller cake management.
type CatalogHandler struct {
	db *gorm.DB
}

func NewCatalogHandler(db *gorm.DB) *CatalogHandler {
	return &CatalogHandler{db: db}
}

// ListCakes returns active cakes with their variants.
func (h *CatalogHandler) ListCakes(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Cake{}).Where("is_active = ?", true)

	if categoryID := c.Query("category_id"); categoryID != "" {
		id, err := uuid.Parse(categoryID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid category_id")
		}
		query = query.Where("category_id = ?", id)
	}
	if c.QueryBool("todays_special") {
		query = query.Where("is_todays_special = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var cakes []models.Cake
	if err := query.Preload("Variants").Preload("Category").
		Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&cakes).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    cakes,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetCake returns a single cake with variants.
func (h *CatalogHandler) GetCake(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var cake models.Cake
	if err := h.db.Preload("Variants").Preload("Category").
		First(&cake, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "cake not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": cake})
}

type cakeVariantRequest struct {
	Weight string `json:"weight"`
	Price  string `json:"price"`
	Stock  int    `json:"stock"`
}

type createCakeRequest struct {
	Title           string               `json:"title"`
	Description     string               `json:"description"`
	CategoryID      string               `json:"category_id"`
	Tags            string               `json:"tags"`
	Flavor          string               `json:"flavor"`
	Dietary         string               `json:"dietary"`
	IsTodaysSpecial bool                 `json:"is_todays_special"`
	Variants        []cakeVariantRequest `json:"variants"`
}

// CreateCake lets an approved seller add a cake with priced variants.
func (h *CatalogHandler) CreateCake(c *fiber.Ctx) error {
	sellerID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req createCakeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Title == "" || len(req.Variants) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "title and at least one variant are required")
	}

	cake := models.Cake{
		SellerID:        sellerID,
		Title:           req.Title,
		Description:     req.Description,
		Tags:            req.Tags,
		Flavor:          req.Flavor,
		Dietary:         req.Dietary,
		IsTodaysSpecial: req.IsTodaysSpecial,
		IsActive:        true,
	}
	if req.CategoryID != "" {
		if id, err := uuid.Parse(req.CategoryID); err == nil {
			cake.CategoryID = &id
		}
	}

	for _, v := range req.Variants {
		price, err := decimal.NewFromString(v.Price)
		if err != nil || price.IsNegative() {
			return fiber.NewError(fiber.StatusBadRequest, "variant price must be a non-negative decimal")
		}
		if v.Stock < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "variant stock must not be negative")
		}
		cake.Variants = append(cake.Variants, models.CakeVariant{
			Weight: v.Weight,
			Price:  price,
			Stock:  v.Stock,
		})
	}

	if err := h.db.Create(&cake).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": cake})
}
