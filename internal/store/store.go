package store

import (
	"errors"

	"aruanda-service/internal/model"
)

// Store errors
var (
	// ErrNotFound is returned when a record does not exist in the store.
	ErrNotFound = errors.New("record not found")
	// ErrNegativeAmount is returned for financial records with a negative amount.
	ErrNegativeAmount = errors.New("amount must not be negative")
	// ErrSupplierOnIncome is returned when an income record references a supplier.
	ErrSupplierOnIncome = errors.New("supplier reference is only valid on expense records")
	// ErrSupplierNotFound is returned when an expense references a supplier
	// that does not exist in the temple.
	ErrSupplierNotFound = errors.New("referenced supplier not found")
)

// Store is the persistence contract shared by the in-memory (demo) backend
// and the hosted PostgreSQL backend. Temples and users are global; every
// other collection is scoped to one temple and all lookups require the
// temple id. Listings are returned newest first.
type Store interface {
	// Temple directory
	CreateTemple(t *model.Temple) error
	UpdateTemple(t *model.Temple) error
	// DeleteTemple removes the temple and cascades to every user scoped to it.
	DeleteTemple(id string) error
	GetTemple(id string) (*model.Temple, error)
	ListTemples() ([]model.Temple, error)
	ListActiveTemples() ([]model.Temple, error)

	// User directory
	CreateUser(u *model.User) error
	UpdateUser(u *model.User) error
	DeleteUser(id string) error
	GetUser(id string) (*model.User, error)
	GetUserByEmail(email string) (*model.User, error)
	GetUserByEmailAndTemple(email, templeID string) (*model.User, error)
	ListUsers() ([]model.User, error)
	ListTempleUsers(templeID string) ([]model.User, error)

	// Mediums
	CreateMedium(m *model.Medium) error
	UpdateMedium(m *model.Medium) error
	DeleteMedium(templeID, id string) error
	GetMedium(templeID, id string) (*model.Medium, error)
	ListMediums(templeID string) ([]model.Medium, error)

	// Suppliers
	CreateSupplier(s *model.Supplier) error
	UpdateSupplier(s *model.Supplier) error
	DeleteSupplier(templeID, id string) error
	GetSupplier(templeID, id string) (*model.Supplier, error)
	ListSuppliers(templeID string) ([]model.Supplier, error)

	// Financial records
	CreateFinancialRecord(r *model.FinancialRecord) error
	UpdateFinancialRecord(r *model.FinancialRecord) error
	DeleteFinancialRecord(templeID, id string) error
	GetFinancialRecord(templeID, id string) (*model.FinancialRecord, error)
	ListFinancialRecords(templeID string) ([]model.FinancialRecord, error)

	// Events
	CreateEvent(e *model.Event) error
	UpdateEvent(e *model.Event) error
	DeleteEvent(templeID, id string) error
	GetEvent(templeID, id string) (*model.Event, error)
	ListEvents(templeID string) ([]model.Event, error)

	// Notifications
	CreateNotification(n *model.Notification) error
	DeleteNotification(templeID, id string) error
	GetNotification(templeID, id string) (*model.Notification, error)
	MarkNotificationRead(templeID, id string) error
	ListNotifications(templeID string) ([]model.Notification, error)
}
