package repositories

import (
	"gorm.io/gorm"
)

// GORMStore is a GORM-backed implementation of Store.
type GORMStore struct {
	db *gorm.DB
}

// NewGORMStore creates a new instance of GORMStore.
func NewGORMStore(db *gorm.DB) *GORMStore {
	return &GORMStore{
		db: db,
	}
}

// Accounts returns the account repository bound to this store's connection.
func (s *GORMStore) Accounts() AccountRepository {
	return NewGORMAccountRepository(s.db)
}

// Products returns the product repository bound to this store's connection.
func (s *GORMStore) Products() ProductRepository {
	return NewGORMProductRepository(s.db)
}

// Inventories returns the inventory repository bound to this store's connection.
func (s *GORMStore) Inventories() InventoryRepository {
	return NewGORMInventoryRepository(s.db)
}

// Orders returns the order repository bound to this store's connection.
func (s *GORMStore) Orders() OrderRepository {
	return NewGORMOrderRepository(s.db)
}

// Activities returns the activity repository bound to this store's connection.
func (s *GORMStore) Activities() ActivityRepository {
	return NewGORMActivityRepository(s.db)
}

// Transaction runs fn inside a database transaction. All repositories handed
// to fn share the same underlying transaction, so either every write commits
// or none do.
func (s *GORMStore) Transaction(fn func(tx Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewGORMStore(tx))
	})
}
