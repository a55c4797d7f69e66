package controllers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/pc-maintenance/api/db"
	"github.com/pc-maintenance/api/middleware"
	"github.com/pc-maintenance/api/models"
	"github.com/pc-maintenance/api/redis"
	"github.com/pc-maintenance/api/utils"
)

var validate = validator.New()

type RegisterInput struct {
	Username        string `json:"username" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Phone           string `json:"phone"`
	Address         string `json:"address"`
}

// Register handles user registration. Admin and platform role flags are
// never taken from the client.
func Register(c *fiber.Ctx) error {
	input := new(RegisterInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cannot parse JSON",
			Error:   err.Error(),
		})
	}

	errs := utils.FieldErrors{}
	if err := validate.Struct(input); err != nil {
		for _, fe := range err.(validator.ValidationErrors) {
			switch fe.Field() {
			case "Username":
				errs.Add("username", "This field is required.")
			case "Email":
				if fe.Tag() == "email" {
					errs.Add("email", "Enter a valid email address.")
				} else {
					errs.Add("email", "This field is required.")
				}
			case "Password":
				errs.Add("password", "This field is required.")
			case "PasswordConfirm":
				errs.Add("password_confirm", "This field is required.")
			}
		}
		return c.Status(fiber.StatusBadRequest).JSON(errs)
	}

	if input.Password != input.PasswordConfirm {
		errs.Add("password", "Password fields didn't match.")
		return c.Status(fiber.StatusBadRequest).JSON(errs)
	}
	if err := utils.ValidatePassword(input.Password, input.Username, input.Email); err != nil {
		errs.Add("password", err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(errs)
	}

	var existing models.User
	if db.DB.Where("username = ?", input.Username).First(&existing).RowsAffected > 0 {
		errs.Add("username", "A user with that username already exists.")
	}
	if db.DB.Where("email = ?", input.Email).First(&existing).RowsAffected > 0 {
		errs.Add("email", "A user with that email already exists.")
	}
	if len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(errs)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to hash password",
		})
	}

	user := models.User{
		Username:  input.Username,
		Email:     input.Email,
		Password:  string(hashed),
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
		Address:   input.Address,
	}
	if err := db.DB.Create(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create user",
			Error:   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login handles user authentication
func Login(c *fiber.Ctx) error {
	type LoginInput struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	input := new(LoginInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cannot parse JSON",
		})
	}

	var user models.User
	if db.DB.Where("username = ?", input.Username).First(&user).RowsAffected == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(utils.ErrorResponse{
			Message: "Invalid credentials",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(utils.ErrorResponse{
			Message: "Invalid credentials",
		})
	}

	access, err := utils.GenerateAccessToken(&user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to generate token",
		})
	}
	refresh, err := utils.GenerateRefreshToken(&user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to generate refresh token",
		})
	}

	return c.JSON(fiber.Map{
		"access":  access,
		"refresh": refresh,
		"user":    user,
	})
}

// RefreshToken issues a new access token from a valid refresh token.
func RefreshToken(c *fiber.Ctx) error {
	type RefreshInput struct {
		Refresh string `json:"refresh"`
	}

	input := new(RefreshInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cannot parse JSON",
		})
	}

	claims, err := utils.ParseToken(input.Refresh)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(utils.ErrorResponse{
			Message: "Invalid refresh token",
		})
	}
	if typ, _ := claims["type"].(string); typ != "refresh" {
		return c.Status(fiber.StatusUnauthorized).JSON(utils.ErrorResponse{
			Message: "Invalid refresh token",
		})
	}
	if redis.IsRevoked(input.Refresh) {
		return c.Status(fiber.StatusUnauthorized).JSON(utils.ErrorResponse{
			Message: "Refresh token has been revoked",
		})
	}

	id, _ := claims["id"].(float64)
	var user models.User
	if err := db.DB.First(&user, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(utils.ErrorResponse{
			Message: "User not found",
		})
	}

	access, err := utils.GenerateAccessToken(&user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to generate token",
		})
	}

	return c.JSON(fiber.Map{"access": access})
}

// GetUser returns the current user's profile
func GetUser(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var user models.User
	if err := db.DB.First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "User not found",
		})
	}
	return c.JSON(user)
}

// UpdateProfile updates the caller's own profile fields. Role flags and
// credentials are not settable here.
func UpdateProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	type ProfileInput struct {
		FirstName *string `json:"first_name"`
		LastName  *string `json:"last_name"`
		Email     *string `json:"email"`
		Phone     *string `json:"phone"`
		Address   *string `json:"address"`
	}

	input := new(ProfileInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cannot parse JSON",
		})
	}

	var user models.User
	if err := db.DB.First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "User not found",
		})
	}

	if input.Email != nil && *input.Email != user.Email {
		if err := validate.Var(*input.Email, "required,email"); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(utils.FieldErrors{
				"email": {"Enter a valid email address."},
			})
		}
		var existing models.User
		if db.DB.Where("email = ? AND id <> ?", *input.Email, userID).First(&existing).RowsAffected > 0 {
			return c.Status(fiber.StatusBadRequest).JSON(utils.FieldErrors{
				"email": {"A user with that email already exists."},
			})
		}
		user.Email = *input.Email
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Address != nil {
		user.Address = *input.Address
	}

	if err := db.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to update profile",
			Error:   err.Error(),
		})
	}
	return c.JSON(user)
}

// ChangePassword verifies the old password and applies the policy to
// the new one.
func ChangePassword(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	type ChangePasswordInput struct {
		OldPassword        string `json:"old_password"`
		NewPassword        string `json:"new_password"`
		NewPasswordConfirm string `json:"new_password_confirm"`
	}

	input := new(ChangePasswordInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cannot parse JSON",
		})
	}

	var user models.User
	if err := db.DB.First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "User not found",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.OldPassword)); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.FieldErrors{
			"old_password": {"Old password is not correct."},
		})
	}
	if input.NewPassword != input.NewPasswordConfirm {
		return c.Status(fiber.StatusBadRequest).JSON(utils.FieldErrors{
			"new_password": {"Password fields didn't match."},
		})
	}
	if err := utils.ValidatePassword(input.NewPassword, user.Username, user.Email); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.FieldErrors{
			"new_password": {err.Error()},
		})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to hash password",
		})
	}
	user.Password = string(hashed)

	if err := db.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to change password",
			Error:   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "Password changed successfully"})
}

// Logout revokes the presented access token (and the refresh token when
// supplied) until they would have expired anyway.
func Logout(c *fiber.Ctx) error {
	type LogoutInput struct {
		Refresh string `json:"refresh"`
	}

	input := new(LogoutInput)
	_ = c.BodyParser(input) // body is optional

	if raw := middleware.BearerToken(c); raw != "" {
		if claims, err := utils.ParseToken(raw); err == nil {
			if err := redis.Revoke(raw, utils.TokenRemainingTTL(claims)); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
					Message: "Failed to revoke token",
					Error:   err.Error(),
				})
			}
		}
	}
	if input.Refresh != "" {
		if claims, err := utils.ParseToken(input.Refresh); err == nil {
			if err := redis.Revoke(input.Refresh, utils.TokenRemainingTTL(claims)); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
					Message: "Failed to revoke token",
					Error:   err.Error(),
				})
			}
		}
	}

	return c.JSON(fiber.Map{"message": "Successfully logged out"})
}
