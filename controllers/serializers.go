package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/pc-maintenance/api/models"
)

// Response shaping is deliberately explicit: each view below is a plain
// function producing the JSON shape for one action, picked by the
// handler for that action and role.

// ServiceListView is the minimal shape used by the catalog listing.
func ServiceListView(s *models.Service) fiber.Map {
	return fiber.Map{
		"id":        s.ID,
		"name":      s.Name,
		"price":     s.Price,
		"is_active": s.IsActive,
	}
}

// BookingListView is the minimal shape used by booking listings.
func BookingListView(b *models.Booking) fiber.Map {
	return fiber.Map{
		"id":             b.ID,
		"service_name":   b.Service.Name,
		"preferred_date": b.PreferredDate,
		"status":         b.Status,
		"payment_method": b.PaymentMethod,
		"created_at":     b.CreatedAt.Format(time.RFC3339),
	}
}

// BookingDetailView is the full shape, with the denormalised service
// and owner fields the frontend renders.
func BookingDetailView(b *models.Booking) fiber.Map {
	return fiber.Map{
		"id":                  b.ID,
		"user":                b.UserID,
		"user_name":           b.User.Username,
		"user_email":          b.User.Email,
		"service":             b.ServiceID,
		"service_name":        b.Service.Name,
		"service_price":       b.Service.Price,
		"problem_description": b.ProblemDescription,
		"preferred_date":      b.PreferredDate,
		"status":              b.Status,
		"address":             b.Address,
		"phone":               b.Phone,
		"payment_method":      b.PaymentMethod,
		"notes":               b.Notes,
		"created_at":          b.CreatedAt.Format(time.RFC3339),
		"updated_at":          b.UpdatedAt.Format(time.RFC3339),
	}
}
