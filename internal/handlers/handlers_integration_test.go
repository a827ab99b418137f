package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"lapak/internal/handlers"
	"lapak/internal/middleware"
	"lapak/internal/models"
	"lapak/internal/repositories"
	"lapak/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupApp wires the full HTTP stack against an in-memory SQLite database,
// mirroring the wiring in main.go. Events are not published during tests.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	assert.NoError(t, err)

	err = db.AutoMigrate(
		&models.Account{},
		&models.Product{},
		&models.Inventory{},
		&models.Order{},
		&models.OrderActivity{},
	)
	assert.NoError(t, err)

	store := repositories.NewGORMStore(db)
	activityService := services.NewActivityService(store)
	orderService := services.NewOrderService(store, activityService, nil)
	catalogService := services.NewCatalogService(store)
	authService := services.NewAuthService(store.Accounts(), "integration-test-secret")

	app := fiber.New()
	apiV1 := app.Group("/api/v1")
	handlers.NewAuthHandler(authService).RegisterRoutes(apiV1)

	protectedRoutes := apiV1.Group("", middleware.AuthRequired(authService))
	handlers.NewProductHandler(catalogService).RegisterRoutes(protectedRoutes)
	handlers.NewOrderHandler(orderService).RegisterRoutes(protectedRoutes)

	return app
}

// doRequest performs an HTTP request against the app and decodes the JSON
// response body into a map. A non-empty token is sent as a Bearer credential.
func doRequest(t *testing.T, app *fiber.App, method, path string, body interface{}, token string) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, path, reader)
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)

	var decoded map[string]interface{}
	if len(raw) > 0 && raw[0] == '{' {
		assert.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp.StatusCode, decoded
}

// doRequestList is doRequest for endpoints returning a JSON array.
func doRequestList(t *testing.T, app *fiber.App, method, path, token string) (int, []map[string]interface{}) {
	t.Helper()

	req, err := http.NewRequest(method, path, nil)
	assert.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)

	var decoded []map[string]interface{}
	if len(raw) > 0 && raw[0] == '[' {
		assert.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp.StatusCode, decoded
}

// registerAndLogin creates an account through the API and returns its token.
func registerAndLogin(t *testing.T, app *fiber.App, username string) string {
	t.Helper()

	status, _ := doRequest(t, app, http.MethodPost, "/api/v1/auth/register", fiber.Map{
		"username": username,
		"email":    username + "@example.com",
		"password": "rahasia123",
	}, "")
	assert.Equal(t, http.StatusCreated, status)

	status, body := doRequest(t, app, http.MethodPost, "/api/v1/auth/login", fiber.Map{
		"username": username,
		"password": "rahasia123",
	}, "")
	assert.Equal(t, http.StatusOK, status)

	token, _ := body["token"].(string)
	assert.NotEmpty(t, token)
	return token
}

// createProduct adds a catalog item with stock through the API and returns its ID.
func createProduct(t *testing.T, app *fiber.App, token string, price float64, stock int) string {
	t.Helper()

	status, body := doRequest(t, app, http.MethodPost, "/api/v1/products/", fiber.Map{
		"name":          "Mechanical Keyboard",
		"description":   "87 keys, brown switches",
		"price":         price,
		"initial_stock": stock,
	}, token)
	assert.Equal(t, http.StatusCreated, status)

	id, _ := body["id"].(string)
	assert.NotEmpty(t, id)
	return id
}

func TestIntegration_RegisterAndLogin(t *testing.T) {
	app := setupApp(t)

	token := registerAndLogin(t, app, "ani")
	assert.NotEmpty(t, token)

	// duplicate username is refused
	status, body := doRequest(t, app, http.MethodPost, "/api/v1/auth/register", fiber.Map{
		"username": "ani",
		"email":    "other@example.com",
		"password": "rahasia123",
	}, "")
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, body["error"], "already taken")

	// wrong password is refused
	status, _ = doRequest(t, app, http.MethodPost, "/api/v1/auth/login", fiber.Map{
		"username": "ani",
		"password": "salah",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestIntegration_AuthRequired(t *testing.T) {
	app := setupApp(t)

	status, _ := doRequest(t, app, http.MethodGet, "/api/v1/orders/", nil, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = doRequest(t, app, http.MethodGet, "/api/v1/orders/", nil, "not-a-real-token")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestIntegration_OrderLifecycle(t *testing.T) {
	app := setupApp(t)
	token := registerAndLogin(t, app, "ani")
	productID := createProduct(t, app, token, 150.0, 10)

	// create an order: 2 x 150.0
	status, body := doRequest(t, app, http.MethodPost, "/api/v1/orders/", fiber.Map{
		"product_id":       productID,
		"quantity":         2,
		"shipping_address": "Jl. Sudirman 1, Jakarta",
	}, token)
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "pending", body["status"])
	assert.Equal(t, 300.0, body["total_amount"])
	assert.NotNil(t, body["product"])
	orderID, _ := body["id"].(string)
	assert.NotEmpty(t, orderID)

	// the order shows up in the listing
	status, orders := doRequestList(t, app, http.MethodGet, "/api/v1/orders/", token)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, orders, 1)

	// track its status
	status, body = doRequest(t, app, http.MethodGet, "/api/v1/orders/"+orderID+"/status", nil, token)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "pending", body["status"])

	// walk it through the lifecycle
	for _, step := range []struct {
		action string
		want   string
	}{
		{"process", "processing"},
		{"ship", "shipped"},
		{"deliver", "delivered"},
	} {
		status, _ = doRequest(t, app, http.MethodPost, "/api/v1/orders/"+orderID+"/"+step.action, nil, token)
		assert.Equal(t, http.StatusOK, status, "transition %s", step.action)

		status, body = doRequest(t, app, http.MethodGet, "/api/v1/orders/"+orderID, nil, token)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, step.want, body["status"])
	}

	// delivered orders cannot be cancelled
	status, _ = doRequest(t, app, http.MethodPost, "/api/v1/orders/"+orderID+"/cancel", nil, token)
	assert.Equal(t, http.StatusConflict, status)

	// creation and processing left an audit trail
	status, activities := doRequestList(t, app, http.MethodGet, "/api/v1/orders/"+orderID+"/activities", token)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, activities, 2)

	status, activities = doRequestList(t, app, http.MethodGet, "/api/v1/orders/"+orderID+"/activities?action=created", token)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, activities, 1)
}

func TestIntegration_OrderCancellation(t *testing.T) {
	app := setupApp(t)
	token := registerAndLogin(t, app, "ani")
	productID := createProduct(t, app, token, 50.0, 5)

	status, body := doRequest(t, app, http.MethodPost, "/api/v1/orders/", fiber.Map{
		"product_id": productID,
		"quantity":   1,
	}, token)
	assert.Equal(t, http.StatusCreated, status)
	orderID, _ := body["id"].(string)

	status, _ = doRequest(t, app, http.MethodPost, "/api/v1/orders/"+orderID+"/cancel", nil, token)
	assert.Equal(t, http.StatusOK, status)

	// cancelled orders disappear from the listing but stay fetchable
	status, orders := doRequestList(t, app, http.MethodGet, "/api/v1/orders/", token)
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, orders)

	status, body = doRequest(t, app, http.MethodGet, "/api/v1/orders/"+orderID, nil, token)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "cancelled", body["status"])

	// a second cancel conflicts, as does processing
	status, _ = doRequest(t, app, http.MethodPost, "/api/v1/orders/"+orderID+"/cancel", nil, token)
	assert.Equal(t, http.StatusConflict, status)
	status, _ = doRequest(t, app, http.MethodPost, "/api/v1/orders/"+orderID+"/process", nil, token)
	assert.Equal(t, http.StatusConflict, status)
}

func TestIntegration_InsufficientStock(t *testing.T) {
	app := setupApp(t)
	token := registerAndLogin(t, app, "ani")
	productID := createProduct(t, app, token, 25.0, 2)

	status, body := doRequest(t, app, http.MethodPost, "/api/v1/orders/", fiber.Map{
		"product_id": productID,
		"quantity":   3,
	}, token)
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, body["error"], "insufficient stock")

	// nothing was created
	status, orders := doRequestList(t, app, http.MethodGet, "/api/v1/orders/", token)
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, orders)
}

func TestIntegration_AccountIsolation(t *testing.T) {
	app := setupApp(t)
	aniToken := registerAndLogin(t, app, "ani")
	budiToken := registerAndLogin(t, app, "budi")
	productID := createProduct(t, app, aniToken, 80.0, 4)

	status, body := doRequest(t, app, http.MethodPost, "/api/v1/orders/", fiber.Map{
		"product_id": productID,
		"quantity":   1,
	}, aniToken)
	assert.Equal(t, http.StatusCreated, status)
	orderID, _ := body["id"].(string)

	// another user's listing does not include it
	status, orders := doRequestList(t, app, http.MethodGet, "/api/v1/orders/", budiToken)
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, orders)

	// tracking and activities read as not-found for non-owners
	status, _ = doRequest(t, app, http.MethodGet, "/api/v1/orders/"+orderID+"/status", nil, budiToken)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestIntegration_OrderNotFound(t *testing.T) {
	app := setupApp(t)
	token := registerAndLogin(t, app, "ani")

	status, _ := doRequest(t, app, http.MethodGet, "/api/v1/orders/no-such-order", nil, token)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = doRequest(t, app, http.MethodPost, "/api/v1/orders/no-such-order/process", nil, token)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestIntegration_InvalidOrderRequest(t *testing.T) {
	app := setupApp(t)
	token := registerAndLogin(t, app, "ani")

	// missing product_id fails validation
	status, body := doRequest(t, app, http.MethodPost, "/api/v1/orders/", fiber.Map{
		"quantity": 1,
	}, token)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Validation failed", body["message"])

	// malformed activity filter
	status, _ = doRequest(t, app, http.MethodGet, "/api/v1/orders/x/activities?from=yesterday", nil, token)
	assert.Equal(t, http.StatusBadRequest, status)
}
