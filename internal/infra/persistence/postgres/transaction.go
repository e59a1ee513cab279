// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"fmt"

	"crm/internal/domain/repository"

	"gorm.io/gorm"
)

// gormTransactionManager implements the domain's TransactionManager interface using GORM.
type gormTransactionManager struct {
	db *gorm.DB
}

// gormRepositoryFactory implements the domain's RepositoryFactory interface.
// It holds a specific GORM transaction object and hands out repository
// instances bound to that single transaction.
type gormRepositoryFactory struct {
	tx *gorm.DB // In GORM, a transaction object is also a *gorm.DB
}

// Users returns a user repository bound to the transaction.
func (f *gormRepositoryFactory) Users() repository.UserRepository {
	return NewUserRepository(f.tx)
}

// Auth returns an auth repository bound to the transaction.
func (f *gormRepositoryFactory) Auth() repository.AuthRepository {
	return NewAuthRepository(f.tx)
}

// Businesses returns a business repository bound to the transaction.
func (f *gormRepositoryFactory) Businesses() repository.BusinessRepository {
	return NewBusinessRepository(f.tx)
}

// Customers returns a customer repository bound to the transaction.
func (f *gormRepositoryFactory) Customers() repository.CustomerRepository {
	return NewCustomerRepository(f.tx)
}

// Deals returns a deal repository bound to the transaction.
func (f *gormRepositoryFactory) Deals() repository.DealRepository {
	return NewDealRepository(f.tx)
}

// Tickets returns a ticket repository bound to the transaction.
func (f *gormRepositoryFactory) Tickets() repository.TicketRepository {
	return NewTicketRepository(f.tx)
}

// NewTransactionManager is the constructor for gormTransactionManager.
// This function will be used as an Fx provider.
func NewTransactionManager(db *gorm.DB) repository.TransactionManager {
	return &gormTransactionManager{db: db}
}

// Execute runs the given function within a single database transaction.
func (tm *gormTransactionManager) Execute(ctx context.Context, fn func(repos repository.RepositoryFactory) error) error {
	tx := tm.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	// Roll back on panic so a failing handler never leaks an open transaction.
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	factory := &gormRepositoryFactory{tx: tx}

	if err := fn(factory); err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil {
			return fmt.Errorf("transaction rollback failed: %v (original error: %w)", rbErr, err)
		}

		return err
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
