package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"lapak/internal/models"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory implementation of Store. It backs the service
// tests and local development without a database. Transactions get rollback
// semantics by snapshotting all state before running and restoring the
// snapshot on error.
type MemoryStore struct {
	mu   sync.RWMutex
	txMu sync.Mutex // serializes transactions with each other

	accounts    map[string]models.Account
	products    map[string]models.Product
	inventories map[string]models.Inventory // keyed by product ID
	orders      map[string]models.Order
	activities  []models.OrderActivity
}

// NewMemoryStore creates a new instance of MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts:    make(map[string]models.Account),
		products:    make(map[string]models.Product),
		inventories: make(map[string]models.Inventory),
		orders:      make(map[string]models.Order),
	}
}

// Accounts returns the in-memory account repository.
func (s *MemoryStore) Accounts() AccountRepository { return &memoryAccountRepo{s} }

// Products returns the in-memory product repository.
func (s *MemoryStore) Products() ProductRepository { return &memoryProductRepo{s} }

// Inventories returns the in-memory inventory repository.
func (s *MemoryStore) Inventories() InventoryRepository { return &memoryInventoryRepo{s} }

// Orders returns the in-memory order repository.
func (s *MemoryStore) Orders() OrderRepository { return &memoryOrderRepo{s} }

// Activities returns the in-memory activity repository.
func (s *MemoryStore) Activities() ActivityRepository { return &memoryActivityRepo{s} }

// Transaction runs fn and restores the pre-transaction snapshot if fn returns
// an error, so failed operations leave no partial effects behind.
func (s *MemoryStore) Transaction(fn func(tx Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snapshot := s.snapshot()
	if err := fn(s); err != nil {
		s.restore(snapshot)
		return err
	}
	return nil
}

type memorySnapshot struct {
	accounts    map[string]models.Account
	products    map[string]models.Product
	inventories map[string]models.Inventory
	orders      map[string]models.Order
	activities  []models.OrderActivity
}

func (s *MemoryStore) snapshot() memorySnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := memorySnapshot{
		accounts:    make(map[string]models.Account, len(s.accounts)),
		products:    make(map[string]models.Product, len(s.products)),
		inventories: make(map[string]models.Inventory, len(s.inventories)),
		orders:      make(map[string]models.Order, len(s.orders)),
		activities:  make([]models.OrderActivity, len(s.activities)),
	}
	for k, v := range s.accounts {
		snap.accounts[k] = v
	}
	for k, v := range s.products {
		snap.products[k] = v
	}
	for k, v := range s.inventories {
		snap.inventories[k] = v
	}
	for k, v := range s.orders {
		snap.orders[k] = v
	}
	copy(snap.activities, s.activities)
	return snap
}

func (s *MemoryStore) restore(snap memorySnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts = snap.accounts
	s.products = snap.products
	s.inventories = snap.inventories
	s.orders = snap.orders
	s.activities = snap.activities
}

// --- accounts ---

type memoryAccountRepo struct{ s *MemoryStore }

func (r *memoryAccountRepo) Create(account *models.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if account.ID == "" {
		account.ID = uuid.New().String()
	}
	if account.Role == "" {
		account.Role = models.RoleUser
	}
	r.s.accounts[account.ID] = *account
	return nil
}

func (r *memoryAccountRepo) GetByID(id string) (*models.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	account, ok := r.s.accounts[id]
	if !ok {
		return nil, nil
	}
	return &account, nil
}

func (r *memoryAccountRepo) GetByUsername(username string) (*models.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, account := range r.s.accounts {
		if account.Username == username {
			a := account
			return &a, nil
		}
	}
	return nil, nil
}

func (r *memoryAccountRepo) GetByEmail(email string) (*models.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, account := range r.s.accounts {
		if account.Email == email {
			a := account
			return &a, nil
		}
	}
	return nil, nil
}

// --- products ---

type memoryProductRepo struct{ s *MemoryStore }

func (r *memoryProductRepo) GetAll() ([]models.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	products := make([]models.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		products = append(products, p)
	}
	return products, nil
}

func (r *memoryProductRepo) GetByID(id string) (*models.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	product, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &product, nil
}

func (r *memoryProductRepo) Create(product *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if product.Status == "" {
		product.Status = models.ProductActive
	}
	r.s.products[product.ID] = *product
	return nil
}

func (r *memoryProductRepo) Update(product *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.products[product.ID]; !ok {
		return fmt.Errorf("product with ID %s not found for update", product.ID)
	}
	r.s.products[product.ID] = *product
	return nil
}

func (r *memoryProductRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.products[id]; !ok {
		return fmt.Errorf("product with ID %s not found for deletion", id)
	}
	delete(r.s.products, id)
	return nil
}

// --- inventories ---

type memoryInventoryRepo struct{ s *MemoryStore }

func (r *memoryInventoryRepo) GetByProduct(productID string) (*models.Inventory, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	inventory, ok := r.s.inventories[productID]
	if !ok {
		return nil, nil
	}
	return &inventory, nil
}

func (r *memoryInventoryRepo) Create(inventory *models.Inventory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if inventory.ID == "" {
		inventory.ID = uuid.New().String()
	}
	r.s.inventories[inventory.ProductID] = *inventory
	return nil
}

func (r *memoryInventoryRepo) Update(inventory *models.Inventory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.inventories[inventory.ProductID]; !ok {
		return fmt.Errorf("inventory for product %s not found for update", inventory.ProductID)
	}
	r.s.inventories[inventory.ProductID] = *inventory
	return nil
}

func (r *memoryInventoryRepo) Decrement(productID string, quantity int) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	inventory, ok := r.s.inventories[productID]
	if !ok || inventory.Quantity < quantity {
		return false, nil
	}
	inventory.Quantity -= quantity
	r.s.inventories[productID] = inventory
	return true, nil
}

// --- orders ---

type memoryOrderRepo struct{ s *MemoryStore }

func (r *memoryOrderRepo) List(accountID string, statuses []models.OrderStatus) ([]models.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	wanted := make(map[models.OrderStatus]bool, len(statuses))
	for _, st := range statuses {
		wanted[st] = true
	}

	orders := make([]models.Order, 0, len(r.s.orders))
	for _, order := range r.s.orders {
		if accountID != "" && order.AccountID != accountID {
			continue
		}
		if len(statuses) > 0 && !wanted[order.Status] {
			continue
		}
		orders = append(orders, order)
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (r *memoryOrderRepo) GetByID(id string) (*models.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	order, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	return &order, nil
}

func (r *memoryOrderRepo) GetByIDAndAccount(id, accountID string) (*models.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	order, ok := r.s.orders[id]
	if !ok || order.AccountID != accountID {
		return nil, nil
	}
	return &order, nil
}

func (r *memoryOrderRepo) Create(order *models.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	order.UpdatedAt = time.Now()
	r.s.orders[order.ID] = *order
	return nil
}

func (r *memoryOrderRepo) Update(order *models.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.orders[order.ID]; !ok {
		return fmt.Errorf("order with ID %s not found for update", order.ID)
	}
	order.UpdatedAt = time.Now()
	r.s.orders[order.ID] = *order
	return nil
}

// --- activities ---

type memoryActivityRepo struct{ s *MemoryStore }

func (r *memoryActivityRepo) Create(activity *models.OrderActivity) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if activity.ID == "" {
		activity.ID = uuid.New().String()
	}
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now()
	}
	r.s.activities = append(r.s.activities, *activity)
	return nil
}

func (r *memoryActivityRepo) Query(accountID, orderID string, filter models.ActivityFilter) ([]models.OrderActivity, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var activities []models.OrderActivity
	for _, a := range r.s.activities {
		if a.OrderID != orderID {
			continue
		}
		if accountID != "" && a.AccountID != accountID {
			continue
		}
		if filter.Action != "" && a.Action != filter.Action {
			continue
		}
		if !filter.From.IsZero() && a.CreatedAt.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && a.CreatedAt.After(filter.To) {
			continue
		}
		activities = append(activities, a)
	}
	sort.Slice(activities, func(i, j int) bool {
		return activities[i].CreatedAt.After(activities[j].CreatedAt)
	})
	if filter.Limit > 0 && len(activities) > filter.Limit {
		activities = activities[:filter.Limit]
	}
	return activities, nil
}
