package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pc-maintenance/api/controllers"
	"github.com/pc-maintenance/api/middleware"
)

// SetupBookingRoutes configures all booking related routes
func SetupBookingRoutes(app *fiber.App) {
	booking := app.Group("/api/bookings", middleware.Protected())

	booking.Get("/", controllers.GetAllBookings)
	booking.Post("/", controllers.CreateBooking)
	// registered before /:id so "stats" and "admin" are not read as ids
	booking.Get("/stats", controllers.GetBookingStats)
	booking.Get("/admin", middleware.RequireAdmin(), controllers.AdminListBookings)
	booking.Get("/:id", controllers.GetBooking)
	booking.Put("/:id", middleware.RequireAdmin(), controllers.UpdateBooking)
	booking.Patch("/:id", middleware.RequireAdmin(), controllers.UpdateBooking)
	booking.Delete("/:id", controllers.DeleteBooking)
	booking.Post("/:id/cancel", controllers.CancelBooking)
}
