package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/pc-maintenance/api/db"
	"github.com/pc-maintenance/api/models"
	"github.com/pc-maintenance/api/utils"
)

type ServiceInput struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Price       *float64 `json:"price" validate:"required"`
	IsActive    *bool    `json:"is_active"`
}

// GetAllServices returns the catalog, ordered by name. Anyone may read;
// pass is_active=true to hide retired services.
func GetAllServices(c *fiber.Ctx) error {
	query := db.DB.Model(&models.Service{}).Order("name asc")

	if isActive := c.Query("is_active"); isActive != "" {
		query = query.Where("is_active = ?", strings.EqualFold(isActive, "true"))
	}

	var services []models.Service
	if err := query.Find(&services).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch services",
			Error:   err.Error(),
		})
	}

	out := make([]fiber.Map, 0, len(services))
	for i := range services {
		out = append(out, ServiceListView(&services[i]))
	}
	return c.JSON(out)
}

func GetService(c *fiber.Ctx) error {
	id := c.Params("id")
	var service models.Service
	if err := db.DB.First(&service, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Service not found",
		})
	}
	return c.JSON(service)
}

// CreateService creates a new service (admin only, gated by middleware)
func CreateService(c *fiber.Ctx) error {
	input := new(ServiceInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cannot parse JSON",
			Error:   err.Error(),
		})
	}
	if errs := validateServiceInput(input); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(errs)
	}

	service := models.Service{
		Name:        input.Name,
		Description: input.Description,
		Price:       *input.Price,
		IsActive:    true,
	}
	if input.IsActive != nil {
		service.IsActive = *input.IsActive
	}

	if err := db.DB.Create(&service).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create service",
			Error:   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(service)
}

// UpdateService updates a service (admin only, gated by middleware)
func UpdateService(c *fiber.Ctx) error {
	id := c.Params("id")

	var service models.Service
	if err := db.DB.First(&service, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Service not found",
		})
	}

	type UpdateInput struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
		IsActive    *bool    `json:"is_active"`
	}
	input := new(UpdateInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cannot parse JSON",
			Error:   err.Error(),
		})
	}

	if input.Price != nil && *input.Price < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(utils.FieldErrors{
			"price": {"Price must not be negative."},
		})
	}

	if input.Name != nil {
		service.Name = *input.Name
	}
	if input.Description != nil {
		service.Description = *input.Description
	}
	if input.Price != nil {
		service.Price = *input.Price
	}
	if input.IsActive != nil {
		service.IsActive = *input.IsActive
	}

	if err := db.DB.Save(&service).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to update service",
			Error:   err.Error(),
		})
	}
	return c.JSON(service)
}

// DeleteService deletes a service and, through the FK constraint, its
// bookings (admin only, gated by middleware)
func DeleteService(c *fiber.Ctx) error {
	id := c.Params("id")
	var service models.Service
	if err := db.DB.First(&service, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Service not found",
		})
	}
	if err := db.DB.Delete(&service).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to delete service",
			Error:   err.Error(),
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetServiceStats returns catalog counts (admin only, gated by middleware)
func GetServiceStats(c *fiber.Ctx) error {
	var total, active int64
	db.DB.Model(&models.Service{}).Count(&total)
	db.DB.Model(&models.Service{}).Where("is_active = ?", true).Count(&active)

	return c.JSON(fiber.Map{
		"total_services":  total,
		"active_services": active,
	})
}

func validateServiceInput(input *ServiceInput) utils.FieldErrors {
	errs := utils.FieldErrors{}
	if input.Name == "" {
		errs.Add("name", "This field is required.")
	}
	if input.Price == nil {
		errs.Add("price", "This field is required.")
	} else if *input.Price < 0 {
		errs.Add("price", "Price must not be negative.")
	}
	return errs
}
