package repositories

// Store bundles the per-entity repositories and provides the transaction
// boundary for operations that must mutate several entities atomically
// (order creation with its inventory decrement, cancellation with its
// product deactivation).
type Store interface {
	Accounts() AccountRepository
	Products() ProductRepository
	Inventories() InventoryRepository
	Orders() OrderRepository
	Activities() ActivityRepository

	// Transaction runs fn against a Store whose repositories are bound to a
	// single transaction. If fn returns an error the transaction is rolled
	// back and no partial effects survive; otherwise it is committed.
	Transaction(fn func(tx Store) error) error
}
