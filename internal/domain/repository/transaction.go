package repository

import "context"

// TransactionManager defines the interface for managing database transactions.
// It lets the use case layer run multi-step atomic operations without
// depending on a specific DB driver.
type TransactionManager interface {
	// Execute runs a function within a database transaction. If the function
	// returns an error, the transaction is rolled back; otherwise it commits.
	// All repository operations obtained from the factory share the same
	// transaction.
	Execute(ctx context.Context, fn func(repos RepositoryFactory) error) error
}

// RepositoryFactory hands out repository instances bound to one transaction.
type RepositoryFactory interface {
	// Users returns a UserRepository bound to the current transaction.
	Users() UserRepository

	// Auth returns an AuthRepository bound to the current transaction.
	Auth() AuthRepository

	// Businesses returns a BusinessRepository bound to the current transaction.
	Businesses() BusinessRepository

	// Customers returns a CustomerRepository bound to the current transaction.
	Customers() CustomerRepository

	// Deals returns a DealRepository bound to the current transaction.
	Deals() DealRepository

	// Tickets returns a TicketRepository bound to the current transaction.
	Tickets() TicketRepository
}
