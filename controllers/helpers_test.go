package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pc-maintenance/api/db"
	"github.com/pc-maintenance/api/models"
	"github.com/pc-maintenance/api/routes"
	"github.com/pc-maintenance/api/utils"
)

// setupApp wires a fresh in-memory database and a fiber app with the
// full route table, the same way main does.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&models.User{}, &models.Service{}, &models.Booking{}))
	db.DB = gdb

	app := fiber.New()
	routes.SetupAuthRoutes(app)
	routes.SetupServiceRoutes(app)
	routes.SetupBookingRoutes(app)
	return app
}

func createUser(t *testing.T, username string, admin bool) *models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("sturdy passphrase"), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hashed),
		IsAdmin:  admin,
	}
	require.NoError(t, db.DB.Create(user).Error)
	return user
}

func accessToken(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := utils.GenerateAccessToken(user)
	require.NoError(t, err)
	return token
}

func createService(t *testing.T, name string, price float64, active bool) *models.Service {
	t.Helper()
	service := &models.Service{Name: name, Price: price, IsActive: active}
	require.NoError(t, db.DB.Create(service).Error)
	return service
}

func createBooking(t *testing.T, user *models.User, service *models.Service, status models.BookingStatus) *models.Booking {
	t.Helper()
	booking := &models.Booking{
		UserID:        user.ID,
		ServiceID:     service.ID,
		PreferredDate: models.NewDate(2025, 5, 20),
		Status:        status,
	}
	require.NoError(t, db.DB.Create(booking).Error)
	return booking
}

// doRequest performs a JSON request against the app. A nil body sends
// no payload; an empty token sends no Authorization header.
func doRequest(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeMap(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func decodeList(t *testing.T, resp *http.Response) []map[string]any {
	t.Helper()
	var out []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}
