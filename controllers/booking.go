package controllers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pc-maintenance/api/db"
	"github.com/pc-maintenance/api/models"
	"github.com/pc-maintenance/api/utils"
)

type BookingInput struct {
	Service            uint   `json:"service"`
	ProblemDescription string `json:"problem_description"`
	PreferredDate      string `json:"preferred_date"`
	Address            string `json:"address"`
	Phone              string `json:"phone"`
	PaymentMethod      string `json:"payment_method"`
	Notes              string `json:"notes"`
}

// GetAllBookings lists bookings, newest first. Admins see everything
// and may filter by status; everyone else sees only their own.
func GetAllBookings(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	isAdmin, _ := c.Locals("isAdmin").(bool)

	query := db.DB.Preload("Service").Order("created_at desc")
	if isAdmin {
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}
	} else {
		query = query.Where("user_id = ?", userID)
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}
	}

	var bookings []models.Booking
	if err := query.Find(&bookings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch bookings",
			Error:   err.Error(),
		})
	}

	out := make([]fiber.Map, 0, len(bookings))
	for i := range bookings {
		out = append(out, BookingListView(&bookings[i]))
	}
	return c.JSON(out)
}

// GetBooking returns one booking. A non-admin asking for someone
// else's booking gets the same 404 as for an unknown id.
func GetBooking(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	isAdmin, _ := c.Locals("isAdmin").(bool)
	id := c.Params("id")

	var booking models.Booking
	if err := db.DB.Preload("Service").Preload("User").First(&booking, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Booking not found",
		})
	}
	if !isAdmin && booking.UserID != userID {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Booking not found",
		})
	}
	return c.JSON(BookingDetailView(&booking))
}

// CreateBooking books a service for the caller. The owner and the
// pending status are set server-side whatever the client sends.
func CreateBooking(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	input := new(BookingInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cannot parse JSON",
			Error:   err.Error(),
		})
	}

	errs := utils.FieldErrors{}
	if input.PreferredDate == "" {
		errs.Add("preferred_date", "This field is required.")
	}
	if input.PaymentMethod != "" && !models.ValidPaymentMethod(input.PaymentMethod) {
		errs.Add("payment_method", "Invalid payment method.")
	}
	var preferredDate models.Date
	if input.PreferredDate != "" {
		var err error
		preferredDate, err = models.ParseDate(input.PreferredDate)
		if err != nil {
			errs.Add("preferred_date", "Date has wrong format. Use YYYY-MM-DD.")
		}
	}
	if len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(errs)
	}

	// Inactive services stay bookable on purpose; the catalog only stops
	// advertising them.
	var service models.Service
	if err := db.DB.First(&service, input.Service).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Service not found",
		})
	}

	var user models.User
	if err := db.DB.First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(utils.ErrorResponse{
			Message: "User not found",
		})
	}

	booking := models.Booking{
		UserID:             userID,
		ServiceID:          service.ID,
		ProblemDescription: input.ProblemDescription,
		PreferredDate:      preferredDate,
		Status:             models.StatusPending,
		Address:            input.Address,
		Phone:              input.Phone,
		PaymentMethod:      input.PaymentMethod,
		Notes:              input.Notes,
	}
	if err := db.DB.Create(&booking).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create booking",
			Error:   err.Error(),
		})
	}

	booking.Service = service
	booking.User = user
	return c.Status(fiber.StatusCreated).JSON(BookingDetailView(&booking))
}

// UpdateBooking lets an admin set status and notes (admin only, gated
// by middleware). The admin path deliberately skips the transition
// graph: any status can be set from any status.
func UpdateBooking(c *fiber.Ctx) error {
	id := c.Params("id")

	type UpdateInput struct {
		Status *models.BookingStatus `json:"status"`
		Notes  *string               `json:"notes"`
	}
	input := new(UpdateInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cannot parse JSON",
			Error:   err.Error(),
		})
	}
	if input.Status != nil && !input.Status.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(utils.FieldErrors{
			"status": {"Invalid status value."},
		})
	}

	var booking models.Booking
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&booking, id).Error; err != nil {
			return err
		}
		if input.Status != nil {
			booking.Status = *input.Status
		}
		if input.Notes != nil {
			booking.Notes = *input.Notes
		}
		return tx.Save(&booking).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Booking not found",
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to update booking",
			Error:   err.Error(),
		})
	}

	if err := db.DB.Preload("Service").Preload("User").First(&booking, booking.ID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch booking",
			Error:   err.Error(),
		})
	}
	return c.JSON(BookingDetailView(&booking))
}

// DeleteBooking removes a booking. Owners may delete their own, admins
// any.
func DeleteBooking(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	isAdmin, _ := c.Locals("isAdmin").(bool)
	id := c.Params("id")

	var booking models.Booking
	if err := db.DB.First(&booking, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Booking not found",
		})
	}
	if !isAdmin && booking.UserID != userID {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Booking not found",
		})
	}

	if err := db.DB.Delete(&booking).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to delete booking",
			Error:   err.Error(),
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CancelBooking is the only transition a non-admin may trigger, and
// only on their own booking. The read-check-write runs in one
// transaction so two concurrent calls cannot both succeed.
func CancelBooking(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	isAdmin, _ := c.Locals("isAdmin").(bool)
	id := c.Params("id")

	var booking models.Booking
	var denied, invalid bool
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		// lock the row so two concurrent cancels cannot both pass the
		// terminal check
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, id).Error; err != nil {
			return err
		}
		caller := models.User{ID: userID, IsAdmin: isAdmin}
		if !caller.CanModifyBooking(&booking) {
			denied = true
			return nil
		}
		if booking.Status.Terminal() {
			invalid = true
			return nil
		}
		return booking.Cancel(tx)
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Booking not found",
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to cancel booking",
			Error:   err.Error(),
		})
	}
	if denied {
		return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
			Message: "You can only cancel your own bookings",
		})
	}
	if invalid {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cannot cancel a completed or already cancelled booking",
		})
	}

	if err := db.DB.Preload("Service").Preload("User").First(&booking, booking.ID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch booking",
			Error:   err.Error(),
		})
	}
	return c.JSON(BookingDetailView(&booking))
}

// GetBookingStats returns aggregate counts. Admins additionally get
// revenue, which is recomputed from current service prices each call
// rather than snapshotted at booking time.
func GetBookingStats(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	isAdmin, _ := c.Locals("isAdmin").(bool)

	if isAdmin {
		var total, pending, completed, cancelled int64
		db.DB.Model(&models.Booking{}).Count(&total)
		db.DB.Model(&models.Booking{}).Where("status = ?", models.StatusPending).Count(&pending)
		db.DB.Model(&models.Booking{}).Where("status = ?", models.StatusCompleted).Count(&completed)
		db.DB.Model(&models.Booking{}).Where("status = ?", models.StatusCancelled).Count(&cancelled)

		var revenue float64
		db.DB.Table("bookings").
			Joins("JOIN services ON bookings.service_id = services.id").
			Where("bookings.status = ?", models.StatusCompleted).
			Select("COALESCE(SUM(services.price), 0)").
			Scan(&revenue)

		return c.JSON(fiber.Map{
			"total_bookings":     total,
			"pending_bookings":   pending,
			"completed_bookings": completed,
			"cancelled_bookings": cancelled,
			"revenue":            revenue,
		})
	}

	var total, pending, completed int64
	db.DB.Model(&models.Booking{}).Where("user_id = ?", userID).Count(&total)
	db.DB.Model(&models.Booking{}).Where("user_id = ? AND status = ?", userID, models.StatusPending).Count(&pending)
	db.DB.Model(&models.Booking{}).Where("user_id = ? AND status = ?", userID, models.StatusCompleted).Count(&completed)

	return c.JSON(fiber.Map{
		"total_bookings":     total,
		"pending_bookings":   pending,
		"completed_bookings": completed,
	})
}

// AdminListBookings returns all bookings in full shape (admin only,
// gated by middleware), filterable by status and by a case-insensitive
// username substring.
func AdminListBookings(c *fiber.Ctx) error {
	query := db.DB.Preload("Service").Preload("User").
		Joins("JOIN users ON users.id = bookings.user_id").
		Order("bookings.created_at desc")

	if status := c.Query("status"); status != "" {
		query = query.Where("bookings.status = ?", status)
	}
	if user := c.Query("user"); user != "" {
		query = query.Where("LOWER(users.username) LIKE ?", "%"+strings.ToLower(user)+"%")
	}

	var bookings []models.Booking
	if err := query.Find(&bookings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch bookings",
			Error:   err.Error(),
		})
	}

	out := make([]fiber.Map, 0, len(bookings))
	for i := range bookings {
		out = append(out, BookingDetailView(&bookings[i]))
	}
	return c.JSON(out)
}
