package repositories_test

import (
	"fmt"
	"testing"

	"lapak/internal/models"
	"lapak/internal/repositories"

	"github.com/stretchr/testify/assert"
)

func TestMemoryStore_TransactionRollback(t *testing.T) {
	store := repositories.NewMemoryStore()

	assert.NoError(t, store.Products().Create(&models.Product{ID: "prod-1", Name: "Laptop", Price: 10}))
	assert.NoError(t, store.Inventories().Create(&models.Inventory{ProductID: "prod-1", Quantity: 5}))

	err := store.Transaction(func(tx repositories.Store) error {
		if err := tx.Orders().Create(&models.Order{ID: "order-1", AccountID: "acc-1", ProductID: "prod-1", Quantity: 2, Status: models.StatusPending}); err != nil {
			return err
		}
		if err := tx.Activities().Create(&models.OrderActivity{OrderID: "order-1", AccountID: "acc-1", Action: models.ActivityCreated}); err != nil {
			return err
		}
		if _, err := tx.Inventories().Decrement("prod-1", 2); err != nil {
			return err
		}
		return fmt.Errorf("boom")
	})
	assert.EqualError(t, err, "boom")

	// every write inside the failed transaction is rolled back
	order, err := store.Orders().GetByID("order-1")
	assert.NoError(t, err)
	assert.Nil(t, order)

	activities, err := store.Activities().Query("", "order-1", models.ActivityFilter{})
	assert.NoError(t, err)
	assert.Empty(t, activities)

	inventory, err := store.Inventories().GetByProduct("prod-1")
	assert.NoError(t, err)
	assert.Equal(t, 5, inventory.Quantity)
}

func TestMemoryStore_TransactionCommit(t *testing.T) {
	store := repositories.NewMemoryStore()

	err := store.Transaction(func(tx repositories.Store) error {
		return tx.Orders().Create(&models.Order{ID: "order-1", AccountID: "acc-1", ProductID: "prod-1", Status: models.StatusPending})
	})
	assert.NoError(t, err)

	order, err := store.Orders().GetByID("order-1")
	assert.NoError(t, err)
	assert.NotNil(t, order)
	assert.Equal(t, models.StatusPending, order.Status)
}

func TestMemoryStore_Decrement(t *testing.T) {
	store := repositories.NewMemoryStore()
	assert.NoError(t, store.Inventories().Create(&models.Inventory{ProductID: "prod-1", Quantity: 3}))

	// decrement succeeds only while enough stock remains
	ok, err := store.Inventories().Decrement("prod-1", 2)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Inventories().Decrement("prod-1", 2)
	assert.NoError(t, err)
	assert.False(t, ok)

	inventory, err := store.Inventories().GetByProduct("prod-1")
	assert.NoError(t, err)
	assert.Equal(t, 1, inventory.Quantity)

	// draining to exactly zero is allowed
	ok, err = store.Inventories().Decrement("prod-1", 1)
	assert.NoError(t, err)
	assert.True(t, ok)

	inventory, err = store.Inventories().GetByProduct("prod-1")
	assert.NoError(t, err)
	assert.Equal(t, 0, inventory.Quantity)

	// unknown product is a refused decrement, not an error
	ok, err = store.Inventories().Decrement("prod-missing", 1)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore_OrderList(t *testing.T) {
	store := repositories.NewMemoryStore()

	orders := []models.Order{
		{ID: "order-1", AccountID: "acc-1", Status: models.StatusPending},
		{ID: "order-2", AccountID: "acc-1", Status: models.StatusCancelled},
		{ID: "order-3", AccountID: "acc-2", Status: models.StatusShipped},
	}
	for i := range orders {
		assert.NoError(t, store.Orders().Create(&orders[i]))
	}

	all, err := store.Orders().List("", nil)
	assert.NoError(t, err)
	assert.Len(t, all, 3)

	mine, err := store.Orders().List("acc-1", nil)
	assert.NoError(t, err)
	assert.Len(t, mine, 2)

	open, err := store.Orders().List("acc-1", []models.OrderStatus{
		models.StatusPending, models.StatusProcessing, models.StatusShipped, models.StatusDelivered,
	})
	assert.NoError(t, err)
	assert.Len(t, open, 1)
	assert.Equal(t, "order-1", open[0].ID)
}
