package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pc-maintenance/api/controllers"
	"github.com/pc-maintenance/api/middleware"
)

// SetupAuthRoutes configures all authentication related routes
func SetupAuthRoutes(app *fiber.App) {
	auth := app.Group("/api/auth")

	// Public routes
	auth.Post("/register", controllers.Register)
	auth.Post("/login", controllers.Login)
	auth.Post("/token/refresh", controllers.RefreshToken)

	// Protected routes
	auth.Get("/user", middleware.Protected(), controllers.GetUser)
	auth.Put("/profile", middleware.Protected(), controllers.UpdateProfile)
	auth.Patch("/profile", middleware.Protected(), controllers.UpdateProfile)
	auth.Post("/change-password", middleware.Protected(), controllers.ChangePassword)
	auth.Post("/logout", middleware.Protected(), controllers.Logout)
}
