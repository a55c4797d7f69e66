package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pc-maintenance/api/db"
	"github.com/pc-maintenance/api/models"
	"github.com/pc-maintenance/api/utils"
)

// RequireAdmin gates a route on the domain is_admin flag. The flag is
// re-read from the database so a demotion takes effect before the
// user's token expires.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("userID").(uint)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(utils.ErrorResponse{
				Message: "User ID not found in context",
			})
		}

		var user models.User
		if err := db.DB.First(&user, userID).Error; err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(utils.ErrorResponse{
				Message: "User not found",
			})
		}

		if !user.IsAdmin {
			return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
				Message: "You don't have permission to perform this action",
			})
		}

		c.Locals("isAdmin", true)
		return c.Next()
	}
}
