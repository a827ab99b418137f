package handlers

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"lapak/internal/models"
	"lapak/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the order routes with the Fiber app. All routes
// expect the JWT middleware to have populated account_id and role.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Patch("/:id", h.HandleUpdateOrder)
	orderRoutes.Get("/:id/status", h.HandleTrackOrderStatus)
	orderRoutes.Get("/:id/activities", h.HandleGetOrderActivities)
	orderRoutes.Post("/:id/process", h.HandleProcessOrder)
	orderRoutes.Post("/:id/ship", h.HandleShipOrder)
	orderRoutes.Post("/:id/deliver", h.HandleDeliverOrder)
	orderRoutes.Post("/:id/cancel", h.HandleCancelOrder)
}

// actorFromCtx builds the audit actor from the JWT locals and the request.
func actorFromCtx(c *fiber.Ctx) services.Actor {
	accountID, _ := c.Locals("account_id").(string)
	return services.Actor{
		AccountID:   accountID,
		IPAddress:   c.IP(),
		BrowserInfo: c.Get("User-Agent"),
	}
}

// statusForServiceError maps the order service's typed errors to HTTP status
// codes. Unknown errors fall through to 500.
func statusForServiceError(err error) int {
	var stockErr *services.InsufficientStockError
	var cancelErr *services.OrderNotCancellableError
	var processErr *services.OrderNotProcessableError
	switch {
	case errors.Is(err, services.ErrAccountNotFound),
		errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrInventoryMissing),
		errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrUnauthorizedAccess):
		// Unauthorized access reads as not-found so callers cannot probe
		// other accounts' orders.
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrProductUnavailable),
		errors.Is(err, services.ErrOrderAlreadyCancelled),
		errors.As(err, &stockErr),
		errors.As(err, &cancelErr),
		errors.As(err, &processErr):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// CreateOrderRequest is the request body for order creation. The account and
// actor details come from the authenticated context, not the body.
type CreateOrderRequest struct {
	ProductID       string `json:"product_id" validate:"required"`
	Quantity        int    `json:"quantity" validate:"gte=0"`
	ShippingAddress string `json:"shipping_address" validate:"omitempty,max=500"`
}

// HandleCreateOrder creates a new order for the authenticated account.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create order request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	actor := actorFromCtx(c)
	order, err := h.service.CreateOrder(services.CreateOrderInput{
		AccountID:       actor.AccountID,
		ProductID:       req.ProductID,
		Quantity:        req.Quantity,
		ShippingAddress: req.ShippingAddress,
		IPAddress:       actor.IPAddress,
		BrowserInfo:     actor.BrowserInfo,
	})
	if err != nil {
		log.Printf("Error creating order: %v", err)
		return c.Status(statusForServiceError(err)).JSON(fiber.Map{
			"message": "Could not create order",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleGetOrders lists the orders visible to the authenticated account,
// gated by its role.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	role, _ := c.Locals("role").(string)
	accountID, _ := c.Locals("account_id").(string)

	orders, err := h.service.GetAllOrders(models.Role(role), accountID)
	if err != nil {
		log.Printf("Error getting orders: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve orders",
			"error":   err.Error(),
		})
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, err := h.service.GetOrderByID(orderID)
	if err != nil {
		log.Printf("Error getting order by ID %s: %v", orderID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve order",
			"error":   err.Error(),
		})
	}
	if order == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("Order with ID %s not found", orderID),
		})
	}
	return c.JSON(order)
}

// HandleUpdateOrder applies a patch to an order.
func (h *OrderHandler) HandleUpdateOrder(c *fiber.Ctx) error {
	orderID := c.Params("id")
	var patch services.OrderPatch
	if err := c.BodyParser(&patch); err != nil {
		log.Printf("Error parsing update request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	order, err := h.service.UpdateOrder(orderID, patch, actorFromCtx(c))
	if err != nil {
		log.Printf("Error updating order %s: %v", orderID, err)
		return c.Status(statusForServiceError(err)).JSON(fiber.Map{
			"message": "Could not update order",
			"error":   err.Error(),
		})
	}
	return c.JSON(order)
}

// HandleTrackOrderStatus returns only the status of an order owned by the
// authenticated account.
func (h *OrderHandler) HandleTrackOrderStatus(c *fiber.Ctx) error {
	orderID := c.Params("id")
	accountID, _ := c.Locals("account_id").(string)

	status, err := h.service.TrackOrderStatus(orderID, accountID)
	if err != nil {
		log.Printf("Error tracking order %s: %v", orderID, err)
		return c.Status(statusForServiceError(err)).JSON(fiber.Map{
			"message": "Could not track order",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"order_id": orderID,
		"status":   status,
	})
}

// HandleGetOrderActivities returns the audit trail for an order, narrowed by
// optional query parameters (action, from, to as RFC3339, limit).
func (h *OrderHandler) HandleGetOrderActivities(c *fiber.Ctx) error {
	orderID := c.Params("id")
	accountID, _ := c.Locals("account_id").(string)

	filter := models.ActivityFilter{Action: c.Query("action")}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid 'from' timestamp, expected RFC3339",
			})
		}
		filter.From = t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid 'to' timestamp, expected RFC3339",
			})
		}
		filter.To = t
	}
	if limit := c.Query("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid 'limit', expected a non-negative integer",
			})
		}
		filter.Limit = n
	}

	activities, err := h.service.GetOrderActivities(orderID, accountID, filter)
	if err != nil {
		log.Printf("Error getting activities for order %s: %v", orderID, err)
		return c.Status(statusForServiceError(err)).JSON(fiber.Map{
			"message": "Could not retrieve order activities",
			"error":   err.Error(),
		})
	}
	return c.JSON(activities)
}

// HandleProcessOrder moves an order to processing.
func (h *OrderHandler) HandleProcessOrder(c *fiber.Ctx) error {
	return h.handleTransition(c, "processing", func(id string) error {
		return h.service.ProcessOrder(id, actorFromCtx(c))
	})
}

// HandleShipOrder moves an order to shipped.
func (h *OrderHandler) HandleShipOrder(c *fiber.Ctx) error {
	return h.handleTransition(c, "shipped", h.service.ShipOrder)
}

// HandleDeliverOrder moves an order to delivered.
func (h *OrderHandler) HandleDeliverOrder(c *fiber.Ctx) error {
	return h.handleTransition(c, "delivered", h.service.DeliverOrder)
}

// HandleCancelOrder cancels an order.
func (h *OrderHandler) HandleCancelOrder(c *fiber.Ctx) error {
	return h.handleTransition(c, "cancelled", func(id string) error {
		return h.service.CancelOrder(id, actorFromCtx(c))
	})
}

func (h *OrderHandler) handleTransition(c *fiber.Ctx, target string, fn func(id string) error) error {
	orderID := c.Params("id")
	if err := fn(orderID); err != nil {
		log.Printf("Error transitioning order %s to %s: %v", orderID, target, err)
		return c.Status(statusForServiceError(err)).JSON(fiber.Map{
			"message": fmt.Sprintf("Could not move order to %s", target),
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Order %s status updated successfully to %s", orderID, target),
	})
}
