package services

import (
	"encoding/json"
	"fmt"
	"log"

	"lapak/internal/models"
	"lapak/internal/repositories"

	"github.com/google/uuid"
)

// Publisher is the surface the order service needs for emitting lifecycle
// events. *rabbitmq.Client satisfies it.
type Publisher interface {
	Publish(routingKey string, body []byte) error
}

// ActivityLogger is the narrow interface to the audit subsystem. The order
// service delegates activity queries to it; filter semantics belong to the
// logger.
type ActivityLogger interface {
	Record(accountID, orderID, action, description, ipAddress, browserInfo string) error
	Query(accountID, orderID string, filter models.ActivityFilter) ([]models.OrderActivity, error)
}

// Actor identifies who performed an operation and from where, for the audit
// trail.
type Actor struct {
	AccountID   string
	IPAddress   string
	BrowserInfo string
}

// CreateOrderInput carries everything needed to create an order. A
// non-positive Quantity means the default of 1.
type CreateOrderInput struct {
	AccountID       string `json:"account_id" validate:"required"`
	ProductID       string `json:"product_id" validate:"required"`
	Quantity        int    `json:"quantity" validate:"gte=0"`
	ShippingAddress string `json:"shipping_address" validate:"omitempty,max=500"`
	IPAddress       string `json:"-"`
	BrowserInfo     string `json:"-"`
}

// OrderPatch enumerates the order fields a caller may update. Quantity,
// total amount, product and owning account are fixed at creation and are
// deliberately absent here.
type OrderPatch struct {
	Status          *models.OrderStatus `json:"status"`
	ShippingAddress *string             `json:"shipping_address"`
}

// AccountSummary is the account projection attached to order views.
type AccountSummary struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// ProductSummary is the product projection attached to order views.
type ProductSummary struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// OrderDetail is an order joined with its account and product projections.
// Account is omitted for callers who are only shown their own orders.
type OrderDetail struct {
	models.Order
	Account *AccountSummary `json:"account,omitempty"`
	Product ProductSummary  `json:"product"`
}

// OrderService orchestrates order creation, status transitions, role-gated
// queries and audit emission across the backing stores. All cross-entity
// coordination lives here; no store knows about the others.
type OrderService struct {
	store      repositories.Store
	activities ActivityLogger
	publisher  Publisher
}

// NewOrderService creates a new OrderService.
func NewOrderService(store repositories.Store, activities ActivityLogger, publisher Publisher) *OrderService {
	return &OrderService{
		store:      store,
		activities: activities,
		publisher:  publisher,
	}
}

// listedStatuses are the statuses visible in order listings. Cancelled orders
// are hidden from listings for every role.
var listedStatuses = []models.OrderStatus{
	models.StatusPending,
	models.StatusProcessing,
	models.StatusShipped,
	models.StatusDelivered,
}

// CreateOrder validates the request against the catalog and inventory, then
// persists the order, its creation activity and the inventory decrement in a
// single transaction. Validation fails fast: the first violated rule wins.
func (s *OrderService) CreateOrder(input CreateOrderInput) (*OrderDetail, error) {
	account, err := s.store.Accounts().GetByID(input.AccountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}

	product, err := s.store.Products().GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if product.Status != models.ProductActive {
		return nil, ErrProductUnavailable
	}

	inventory, err := s.store.Inventories().GetByProduct(input.ProductID)
	if err != nil {
		return nil, err
	}
	if inventory == nil {
		return nil, ErrInventoryMissing
	}

	// Zero means "default of one"; negative quantities must never reach the
	// stock check, where they would slip past the comparison and inflate
	// inventory on decrement.
	quantity := input.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	if quantity > inventory.Quantity {
		return nil, &InsufficientStockError{
			ProductID: input.ProductID,
			Requested: quantity,
			Available: inventory.Quantity,
		}
	}

	order := &models.Order{
		ID:              uuid.New().String(),
		AccountID:       input.AccountID,
		ProductID:       input.ProductID,
		Quantity:        quantity,
		TotalAmount:     product.Price * float64(quantity), // price at creation time
		Status:          models.StatusPending,
		ShippingAddress: input.ShippingAddress,
	}

	err = s.store.Transaction(func(tx repositories.Store) error {
		if err := tx.Orders().Create(order); err != nil {
			return err
		}
		if err := tx.Activities().Create(&models.OrderActivity{
			AccountID:   input.AccountID,
			OrderID:     order.ID,
			Action:      models.ActivityCreated,
			Description: fmt.Sprintf("order created with status %s", order.Status),
			IPAddress:   input.IPAddress,
			BrowserInfo: input.BrowserInfo,
		}); err != nil {
			return err
		}
		// Re-checked under the transaction: the earlier read may be stale if
		// another creation for the same product raced past it.
		ok, err := tx.Inventories().Decrement(input.ProductID, quantity)
		if err != nil {
			return err
		}
		if !ok {
			current, err := tx.Inventories().GetByProduct(input.ProductID)
			if err != nil {
				return err
			}
			available := 0
			if current != nil {
				available = current.Quantity
			}
			return &InsufficientStockError{
				ProductID: input.ProductID,
				Requested: quantity,
				Available: available,
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent("order.created", order)

	return &OrderDetail{
		Order:   *order,
		Account: &AccountSummary{ID: account.ID, Email: account.Email},
		Product: ProductSummary{ID: product.ID, Name: product.Name, Price: product.Price},
	}, nil
}

// ProcessOrder moves a pending (or already processing) order to processing.
// Orders that have shipped or been delivered cannot go back to processing.
func (s *OrderService) ProcessOrder(id string, actor Actor) error {
	var processed *models.Order
	err := s.store.Transaction(func(tx repositories.Store) error {
		order, err := tx.Orders().GetByID(id)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if order.Status.IsCancelled() {
			return ErrOrderAlreadyCancelled
		}
		if !order.Status.Processable() {
			return &OrderNotProcessableError{OrderID: order.ID, From: order.Status}
		}

		prior := order.Status
		order.Status = models.StatusProcessing
		if err := tx.Orders().Update(order); err != nil {
			return err
		}
		if err := tx.Activities().Create(&models.OrderActivity{
			AccountID:   actor.AccountID,
			OrderID:     order.ID,
			Action:      models.ActivityProcessing,
			Description: fmt.Sprintf("order status changed from %s to %s", prior, order.Status),
			IPAddress:   actor.IPAddress,
			BrowserInfo: actor.BrowserInfo,
		}); err != nil {
			return err
		}
		processed = order
		return nil
	})
	if err != nil {
		return err
	}

	s.publishEvent("order.status_changed", processed)
	return nil
}

// ShipOrder moves an order to shipped. Only cancelled orders are refused;
// there is no enforced linear progression, and no activity is recorded for
// shipping.
func (s *OrderService) ShipOrder(id string) error {
	return s.transition(id, models.StatusShipped)
}

// DeliverOrder moves an order to delivered. Only cancelled orders are
// refused, and no activity is recorded for delivery.
func (s *OrderService) DeliverOrder(id string) error {
	return s.transition(id, models.StatusDelivered)
}

// transition applies a status change guarded only by cancelled-exclusivity.
// No activity is written; ship and deliver have no audit trail.
func (s *OrderService) transition(id string, to models.OrderStatus) error {
	var updated *models.Order
	err := s.store.Transaction(func(tx repositories.Store) error {
		order, err := tx.Orders().GetByID(id)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if order.Status.IsCancelled() {
			return ErrOrderAlreadyCancelled
		}

		order.Status = to
		if err := tx.Orders().Update(order); err != nil {
			return err
		}
		updated = order
		return nil
	})
	if err != nil {
		return err
	}

	s.publishEvent("order.status_changed", updated)
	return nil
}

// CancelOrder cancels a pending or processing order. Shipped and delivered
// orders are past cancellation. As a catalog policy the associated product is
// deactivated alongside, in the same transaction.
func (s *OrderService) CancelOrder(id string, actor Actor) error {
	var cancelled *models.Order
	err := s.store.Transaction(func(tx repositories.Store) error {
		order, err := tx.Orders().GetByID(id)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if order.Status.IsCancelled() {
			return ErrOrderAlreadyCancelled
		}
		if !order.Status.Cancellable() {
			return &OrderNotCancellableError{OrderID: order.ID, From: order.Status}
		}

		prior := order.Status
		order.Status = models.StatusCancelled
		if err := tx.Orders().Update(order); err != nil {
			return err
		}

		product, err := tx.Products().GetByID(order.ProductID)
		if err != nil {
			return err
		}
		if product != nil {
			product.IsAvailable = false
			if err := tx.Products().Update(product); err != nil {
				return err
			}
		}

		if err := tx.Activities().Create(&models.OrderActivity{
			AccountID:   actor.AccountID,
			OrderID:     order.ID,
			Action:      models.ActivityCancelled,
			Description: fmt.Sprintf("order status changed from %s to %s", prior, order.Status),
			IPAddress:   actor.IPAddress,
			BrowserInfo: actor.BrowserInfo,
		}); err != nil {
			return err
		}
		cancelled = order
		return nil
	})
	if err != nil {
		return err
	}

	s.publishEvent("order.status_changed", cancelled)
	return nil
}

// UpdateOrder applies a patch to a non-cancelled order. An `updated` activity
// carrying the old and new status text is recorded even when the status did
// not change.
func (s *OrderService) UpdateOrder(id string, patch OrderPatch, actor Actor) (*models.Order, error) {
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, fmt.Errorf("invalid order status: %s", *patch.Status)
	}

	var updated *models.Order
	err := s.store.Transaction(func(tx repositories.Store) error {
		order, err := tx.Orders().GetByID(id)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if order.Status.IsCancelled() {
			return ErrOrderAlreadyCancelled
		}

		prior := order.Status
		if patch.Status != nil {
			order.Status = *patch.Status
		}
		if patch.ShippingAddress != nil {
			order.ShippingAddress = *patch.ShippingAddress
		}
		if err := tx.Orders().Update(order); err != nil {
			return err
		}

		if err := tx.Activities().Create(&models.OrderActivity{
			AccountID:   actor.AccountID,
			OrderID:     order.ID,
			Action:      models.ActivityUpdated,
			Description: fmt.Sprintf("order status changed from %s to %s", prior, order.Status),
			IPAddress:   actor.IPAddress,
			BrowserInfo: actor.BrowserInfo,
		}); err != nil {
			return err
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent("order.status_changed", updated)
	return updated, nil
}

// GetAllOrders returns the order listing visible to the caller. A User sees
// only their own orders; any other role sees every account's orders and the
// account projection alongside. Cancelled orders never appear, for any role.
// Results are newest first.
func (s *OrderService) GetAllOrders(role models.Role, accountID string) ([]OrderDetail, error) {
	ownerFilter := accountID
	if role != models.RoleUser {
		ownerFilter = "" // privileged roles see all accounts
	}

	orders, err := s.store.Orders().List(ownerFilter, listedStatuses)
	if err != nil {
		return nil, err
	}

	products := make(map[string]*models.Product)
	accounts := make(map[string]*models.Account)

	details := make([]OrderDetail, 0, len(orders))
	for _, order := range orders {
		detail := OrderDetail{Order: order}

		product, ok := products[order.ProductID]
		if !ok {
			product, err = s.store.Products().GetByID(order.ProductID)
			if err != nil {
				return nil, err
			}
			products[order.ProductID] = product
		}
		detail.Product = ProductSummary{ID: order.ProductID}
		if product != nil {
			detail.Product = ProductSummary{ID: product.ID, Name: product.Name, Price: product.Price}
		}

		if role != models.RoleUser {
			account, ok := accounts[order.AccountID]
			if !ok {
				account, err = s.store.Accounts().GetByID(order.AccountID)
				if err != nil {
					return nil, err
				}
				accounts[order.AccountID] = account
			}
			if account != nil {
				detail.Account = &AccountSummary{ID: account.ID, Email: account.Email}
			}
		}

		details = append(details, detail)
	}
	return details, nil
}

// GetOrderByID retrieves a single order by its ID. It returns (nil, nil) when
// the order does not exist; callers decide whether that is an error.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	return s.store.Orders().GetByID(id)
}

// TrackOrderStatus returns the status of an order owned by the given account.
// The lookup requires both to match, regardless of role, so callers cannot
// probe other accounts' orders.
func (s *OrderService) TrackOrderStatus(id, accountID string) (models.OrderStatus, error) {
	order, err := s.store.Orders().GetByIDAndAccount(id, accountID)
	if err != nil {
		return "", err
	}
	if order == nil {
		return "", ErrUnauthorizedAccess
	}
	return order.Status, nil
}

// GetOrderActivities returns the audit trail for an order. The order must
// exist; the account and filter are passed through to the activity logger
// opaquely.
func (s *OrderService) GetOrderActivities(orderID, accountID string, filter models.ActivityFilter) ([]models.OrderActivity, error) {
	order, err := s.store.Orders().GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return s.activities.Query(accountID, orderID, filter)
}

// publishEvent emits an order lifecycle event. Publishing is best-effort: a
// failure is logged and never fails the operation that triggered it.
func (s *OrderService) publishEvent(routingKey string, order *models.Order) {
	if s.publisher == nil {
		return
	}

	message := map[string]interface{}{
		"orderID":   order.ID,
		"accountID": order.AccountID,
		"productID": order.ProductID,
		"status":    order.Status,
		"total":     order.TotalAmount,
	}
	body, err := json.Marshal(message)
	if err != nil {
		log.Printf("Failed to marshal order event to JSON: %v", err)
		return
	}
	if err := s.publisher.Publish(routingKey, body); err != nil {
		log.Printf("Warning: Failed to publish %s event for order %s: %v", routingKey, order.ID, err)
	} else {
		log.Printf("Successfully published %s event for order %s", routingKey, order.ID)
	}
}
