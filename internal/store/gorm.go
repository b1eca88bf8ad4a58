package store

import (
	"errors"
	"time"

	"aruanda-service/internal/model"

	"gorm.io/gorm"
)

// GormStore is the hosted PostgreSQL backend. Unlike the memory backend it
// is fail-fast: write errors propagate to the caller.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an initialized gorm connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func wrapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// --- Temple directory ---

func (s *GormStore) CreateTemple(t *model.Temple) error {
	if t.ID == "" {
		t.ID = newID()
	}
	if t.Status == "" {
		t.Status = model.StatusActive
	}
	return s.db.Create(t).Error
}

func (s *GormStore) UpdateTemple(t *model.Temple) error {
	var existing model.Temple
	if err := s.db.First(&existing, "id = ?", t.ID).Error; err != nil {
		return wrapNotFound(err)
	}
	t.CreatedAt = existing.CreatedAt
	return s.db.Save(t).Error
}

func (s *GormStore) DeleteTemple(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&model.Temple{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		// Cascade: remove every user scoped to the temple.
		return tx.Delete(&model.User{}, "temple_id = ?", id).Error
	})
}

func (s *GormStore) GetTemple(id string) (*model.Temple, error) {
	var t model.Temple
	if err := s.db.First(&t, "id = ?", id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &t, nil
}

func (s *GormStore) ListTemples() ([]model.Temple, error) {
	var rows []model.Temple
	err := s.db.Order("created_at DESC").Find(&rows).Error
	return rows, err
}

func (s *GormStore) ListActiveTemples() ([]model.Temple, error) {
	var rows []model.Temple
	err := s.db.Where("status = ?", model.StatusActive).Order("created_at DESC").Find(&rows).Error
	return rows, err
}

// --- User directory ---

func (s *GormStore) CreateUser(u *model.User) error {
	if u.ID == "" {
		u.ID = newID()
	}
	return s.db.Create(u).Error
}

func (s *GormStore) UpdateUser(u *model.User) error {
	var existing model.User
	if err := s.db.First(&existing, "id = ?", u.ID).Error; err != nil {
		return wrapNotFound(err)
	}
	u.CreatedAt = existing.CreatedAt
	return s.db.Save(u).Error
}

func (s *GormStore) DeleteUser(id string) error {
	res := s.db.Delete(&model.User{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) GetUser(id string) (*model.User, error) {
	var u model.User
	if err := s.db.First(&u, "id = ?", id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &u, nil
}

func (s *GormStore) GetUserByEmail(email string) (*model.User, error) {
	var u model.User
	if err := s.db.First(&u, "email = ?", email).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &u, nil
}

func (s *GormStore) GetUserByEmailAndTemple(email, templeID string) (*model.User, error) {
	var u model.User
	if err := s.db.First(&u, "email = ? AND temple_id = ?", email, templeID).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &u, nil
}

func (s *GormStore) ListUsers() ([]model.User, error) {
	var rows []model.User
	err := s.db.Order("created_at DESC").Find(&rows).Error
	return rows, err
}

func (s *GormStore) ListTempleUsers(templeID string) ([]model.User, error) {
	var rows []model.User
	err := s.db.Where("temple_id = ?", templeID).Order("created_at DESC").Find(&rows).Error
	return rows, err
}

// --- Mediums ---

func (s *GormStore) CreateMedium(m *model.Medium) error {
	if m.ID == "" {
		m.ID = newID()
	}
	if m.Status == "" {
		m.Status = model.StatusActive
	}
	return s.db.Create(m).Error
}

func (s *GormStore) UpdateMedium(m *model.Medium) error {
	var existing model.Medium
	if err := s.db.First(&existing, "id = ? AND temple_id = ?", m.ID, m.TempleID).Error; err != nil {
		return wrapNotFound(err)
	}
	applyMediumTransition(&existing, m)
	m.CreatedAt = existing.CreatedAt
	return s.db.Save(m).Error
}

func (s *GormStore) DeleteMedium(templeID, id string) error {
	res := s.db.Delete(&model.Medium{}, "id = ? AND temple_id = ?", id, templeID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) GetMedium(templeID, id string) (*model.Medium, error) {
	var m model.Medium
	if err := s.db.First(&m, "id = ? AND temple_id = ?", id, templeID).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &m, nil
}

func (s *GormStore) ListMediums(templeID string) ([]model.Medium, error) {
	var rows []model.Medium
	err := s.db.Where("temple_id = ?", templeID).Order("created_at DESC").Find(&rows).Error
	return rows, err
}

// --- Suppliers ---

func (s *GormStore) CreateSupplier(sp *model.Supplier) error {
	if sp.ID == "" {
		sp.ID = newID()
	}
	if sp.Status == "" {
		sp.Status = model.StatusActive
	}
	return s.db.Create(sp).Error
}

func (s *GormStore) UpdateSupplier(sp *model.Supplier) error {
	var existing model.Supplier
	if err := s.db.First(&existing, "id = ? AND temple_id = ?", sp.ID, sp.TempleID).Error; err != nil {
		return wrapNotFound(err)
	}
	sp.CreatedAt = existing.CreatedAt
	return s.db.Save(sp).Error
}

func (s *GormStore) DeleteSupplier(templeID, id string) error {
	res := s.db.Delete(&model.Supplier{}, "id = ? AND temple_id = ?", id, templeID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) GetSupplier(templeID, id string) (*model.Supplier, error) {
	var sp model.Supplier
	if err := s.db.First(&sp, "id = ? AND temple_id = ?", id, templeID).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &sp, nil
}

func (s *GormStore) ListSuppliers(templeID string) ([]model.Supplier, error) {
	var rows []model.Supplier
	err := s.db.Where("temple_id = ?", templeID).Order("created_at DESC").Find(&rows).Error
	return rows, err
}

// --- Financial records ---

func (s *GormStore) CreateFinancialRecord(r *model.FinancialRecord) error {
	if err := validateFinancialRecord(r, s.GetSupplier); err != nil {
		return err
	}
	if r.ID == "" {
		r.ID = newID()
	}
	return s.db.Create(r).Error
}

func (s *GormStore) UpdateFinancialRecord(r *model.FinancialRecord) error {
	var existing model.FinancialRecord
	if err := s.db.First(&existing, "id = ? AND temple_id = ?", r.ID, r.TempleID).Error; err != nil {
		return wrapNotFound(err)
	}
	if err := validateFinancialRecord(r, s.GetSupplier); err != nil {
		return err
	}
	r.CreatedAt = existing.CreatedAt
	return s.db.Save(r).Error
}

func (s *GormStore) DeleteFinancialRecord(templeID, id string) error {
	res := s.db.Delete(&model.FinancialRecord{}, "id = ? AND temple_id = ?", id, templeID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) GetFinancialRecord(templeID, id string) (*model.FinancialRecord, error) {
	var r model.FinancialRecord
	if err := s.db.First(&r, "id = ? AND temple_id = ?", id, templeID).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &r, nil
}

func (s *GormStore) ListFinancialRecords(templeID string) ([]model.FinancialRecord, error) {
	var rows []model.FinancialRecord
	err := s.db.Where("temple_id = ?", templeID).Order("created_at DESC").Find(&rows).Error
	return rows, err
}

// --- Events ---

func (s *GormStore) CreateEvent(e *model.Event) error {
	if e.ID == "" {
		e.ID = newID()
	}
	return s.db.Create(e).Error
}

func (s *GormStore) UpdateEvent(e *model.Event) error {
	var existing model.Event
	if err := s.db.First(&existing, "id = ? AND temple_id = ?", e.ID, e.TempleID).Error; err != nil {
		return wrapNotFound(err)
	}
	e.CreatedAt = existing.CreatedAt
	return s.db.Save(e).Error
}

func (s *GormStore) DeleteEvent(templeID, id string) error {
	res := s.db.Delete(&model.Event{}, "id = ? AND temple_id = ?", id, templeID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) GetEvent(templeID, id string) (*model.Event, error) {
	var e model.Event
	if err := s.db.First(&e, "id = ? AND temple_id = ?", id, templeID).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &e, nil
}

func (s *GormStore) ListEvents(templeID string) ([]model.Event, error) {
	var rows []model.Event
	err := s.db.Where("temple_id = ?", templeID).Order("created_at DESC").Find(&rows).Error
	return rows, err
}

// --- Notifications ---

func (s *GormStore) CreateNotification(n *model.Notification) error {
	if n.ID == "" {
		n.ID = newID()
	}
	if n.Date.IsZero() {
		n.Date = time.Now()
	}
	if n.Type == "" {
		n.Type = model.NotifyInfo
	}
	return s.db.Create(n).Error
}

func (s *GormStore) DeleteNotification(templeID, id string) error {
	res := s.db.Delete(&model.Notification{}, "id = ? AND temple_id = ?", id, templeID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) GetNotification(templeID, id string) (*model.Notification, error) {
	var n model.Notification
	if err := s.db.First(&n, "id = ? AND temple_id = ?", id, templeID).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &n, nil
}

func (s *GormStore) MarkNotificationRead(templeID, id string) error {
	res := s.db.Model(&model.Notification{}).
		Where("id = ? AND temple_id = ?", id, templeID).
		Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
