package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pc-maintenance/api/controllers"
	"github.com/pc-maintenance/api/middleware"
)

func SetupServiceRoutes(app *fiber.App) {
	service := app.Group("/api/services")

	service.Get("/", controllers.GetAllServices)
	// registered before /:id so "stats" is not read as an id
	service.Get("/stats", middleware.Protected(), middleware.RequireAdmin(), controllers.GetServiceStats)
	service.Get("/:id", controllers.GetService)
	service.Post("/", middleware.Protected(), middleware.RequireAdmin(), controllers.CreateService)
	service.Put("/:id", middleware.Protected(), middleware.RequireAdmin(), controllers.UpdateService)
	service.Patch("/:id", middleware.Protected(), middleware.RequireAdmin(), controllers.UpdateService)
	service.Delete("/:id", middleware.Protected(), middleware.RequireAdmin(), controllers.DeleteService)
}
