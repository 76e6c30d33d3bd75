package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrStaleVersion a version-guarded update matched no row.
	ErrStaleVersion = errors.New("stale version")
)

// Repositories VSM repository set
type Repositories struct {
	User         *UserRepository
	Customer     *CustomerRepository
	Request      *RequestRepository
	History      *HistoryRepository
	Part         *PartRepository
	Bill         *BillRepository
	Category     *CategoryRepository
	Notification *NotificationRepository
}

// NewRepositories creates the repository set
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Customer:     NewCustomerRepository(db),
		Request:      NewRequestRepository(db),
		History:      NewHistoryRepository(db),
		Part:         NewPartRepository(db),
		Bill:         NewBillRepository(db),
		Category:     NewCategoryRepository(db),
		Notification: NewNotificationRepository(db),
	}
}

// forUpdate adds SELECT ... FOR UPDATE where the dialect supports row locks.
// SQLite serialises writers at the database level instead.
func forUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "postgres" {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
