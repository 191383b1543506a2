package middleware

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/cakeshop/internal/models"
)

// RequireRole loads the authenticated user and rejects the request unless the
// user holds one of the given roles and is approved.
func RequireRole(db *gorm.DB, roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := GetCurrentUserID(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
		}

		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
		}

		if !user.IsApproved {
			return fiber.NewError(fiber.StatusForbidden, "account pending approval")
		}

		for _, role := range roles {
			if user.Role == role {
				return c.Next()
			}
		}

		return fiber.NewError(fiber.StatusForbidden, "insufficient permissions")
	}
}
