package repository

import (
	"context"
	"time"

	"github.com/Satheshwaran26/rentr/internal/domain"
	"gorm.io/gorm"
)

// Repositories groups every repository bound to the same database handle.
// Inside Store.Atomic the handle is the open transaction.
type Repositories struct {
	Users         *UserRepository
	Properties    *PropertyRepository
	Vendors       *VendorRepository
	WorkOrders    *WorkOrderRepository
	StatusHistory *StatusHistoryRepository
	Proposals     *ProposalRepository
	Tasks         *TaskRepository
	Invoices      *InvoiceRepository
	Events        *EventRepository
	Notifications *NotificationRepository
}

// NewRepositories binds all repositories to db
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(db),
		Properties:    NewPropertyRepository(db),
		Vendors:       NewVendorRepository(db),
		WorkOrders:    NewWorkOrderRepository(db),
		StatusHistory: NewStatusHistoryRepository(db),
		Proposals:     NewProposalRepository(db),
		Tasks:         NewTaskRepository(db),
		Invoices:      NewInvoiceRepository(db),
		Events:        NewEventRepository(db),
		Notifications: NewNotificationRepository(db),
	}
}

// Store is the unit of work over the entity repositories
type Store struct {
	db          *gorm.DB
	locks       *KeyedLocker
	lockTimeout time.Duration
	repos       *Repositories
}

// NewStore creates a store. lockTimeout bounds how long a command waits for its
// entity locks; zero means wait until the caller's context is done.
func NewStore(db *gorm.DB, lockTimeout time.Duration) *Store {
	return &Store{
		db:          db,
		locks:       NewKeyedLocker(),
		lockTimeout: lockTimeout,
		repos:       NewRepositories(db),
	}
}

// Repos returns repositories for reads outside a unit of work
func (s *Store) Repos() *Repositories {
	return s.repos
}

// DB returns the underlying database handle
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Atomic locks keys, then runs fn inside one transaction. Any error returned by fn
// rolls back every write made through the repositories it was given.
// fn must only use the repositories passed to it.
func (s *Store) Atomic(ctx context.Context, keys []string, fn func(r *Repositories) error) error {
	if len(keys) > 0 {
		lockCtx := ctx
		if s.lockTimeout > 0 {
			var cancel context.CancelFunc
			lockCtx, cancel = context.WithTimeout(ctx, s.lockTimeout)
			defer cancel()
		}
		release, err := s.locks.Acquire(lockCtx, keys...)
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			return &domain.Error{
				Kind:    domain.KindBusy,
				Message: "The record is being changed by another request, please try again",
				Cause:   err,
			}
		}
		defer release()
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
