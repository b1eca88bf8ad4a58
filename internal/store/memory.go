package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"aruanda-service/internal/model"
	"aruanda-service/prometheus"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Snapshot file names, one per collection.
const (
	snapshotTemples       = "temples"
	snapshotUsers         = "users"
	snapshotMediums       = "mediums"
	snapshotSuppliers     = "suppliers"
	snapshotFinancial     = "financial_records"
	snapshotEvents        = "events"
	snapshotNotifications = "notifications"
)

// MemoryStore keeps every collection in process behind a single mutex and
// snapshots each collection to a JSON file on every mutation, as a full
// replacement write. Snapshot failures are logged and counted but never
// propagated: in-memory state stays the source of truth for the session.
type MemoryStore struct {
	mu      sync.RWMutex
	dataDir string
	log     *zap.Logger

	temples       map[string]model.Temple
	users         map[string]model.User
	mediums       map[string]model.Medium
	suppliers     map[string]model.Supplier
	records       map[string]model.FinancialRecord
	events        map[string]model.Event
	notifications map[string]model.Notification
}

// NewMemoryStore creates a memory-backed store. When dataDir is non-empty,
// snapshots are loaded from it at startup and written back on mutation;
// with an empty dataDir the store is purely in-memory.
func NewMemoryStore(dataDir string, log *zap.Logger) (*MemoryStore, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &MemoryStore{
		dataDir:       dataDir,
		log:           log,
		temples:       make(map[string]model.Temple),
		users:         make(map[string]model.User),
		mediums:       make(map[string]model.Medium),
		suppliers:     make(map[string]model.Supplier),
		records:       make(map[string]model.FinancialRecord),
		events:        make(map[string]model.Event),
		notifications: make(map[string]model.Notification),
	}

	if dataDir == "" {
		return s, nil
	}

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}

	if err := s.loadAll(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *MemoryStore) loadAll() error {
	loaders := []struct {
		name string
		load func([]byte) error
	}{
		{snapshotTemples, func(b []byte) error {
			var rows []model.Temple
			if err := json.Unmarshal(b, &rows); err != nil {
				return err
			}
			for _, r := range rows {
				s.temples[r.ID] = r
			}
			return nil
		}},
		{snapshotUsers, func(b []byte) error {
			var rows []model.User
			if err := json.Unmarshal(b, &rows); err != nil {
				return err
			}
			for _, r := range rows {
				s.users[r.ID] = r
			}
			return nil
		}},
		{snapshotMediums, func(b []byte) error {
			var rows []model.Medium
			if err := json.Unmarshal(b, &rows); err != nil {
				return err
			}
			for _, r := range rows {
				s.mediums[r.ID] = r
			}
			return nil
		}},
		{snapshotSuppliers, func(b []byte) error {
			var rows []model.Supplier
			if err := json.Unmarshal(b, &rows); err != nil {
				return err
			}
			for _, r := range rows {
				s.suppliers[r.ID] = r
			}
			return nil
		}},
		{snapshotFinancial, func(b []byte) error {
			var rows []model.FinancialRecord
			if err := json.Unmarshal(b, &rows); err != nil {
				return err
			}
			for _, r := range rows {
				s.records[r.ID] = r
			}
			return nil
		}},
		{snapshotEvents, func(b []byte) error {
			var rows []model.Event
			if err := json.Unmarshal(b, &rows); err != nil {
				return err
			}
			for _, r := range rows {
				s.events[r.ID] = r
			}
			return nil
		}},
		{snapshotNotifications, func(b []byte) error {
			var rows []model.Notification
			if err := json.Unmarshal(b, &rows); err != nil {
				return err
			}
			for _, r := range rows {
				s.notifications[r.ID] = r
			}
			return nil
		}},
	}

	for _, l := range loaders {
		b, err := os.ReadFile(filepath.Join(s.dataDir, l.name+".json"))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return err
		}
		if err := l.load(b); err != nil {
			return err
		}
	}
	return nil
}

// snapshot writes a full-collection replacement file. Best effort: failures
// are logged and counted, never returned.
func (s *MemoryStore) snapshot(name string, rows interface{}) {
	if s.dataDir == "" {
		return
	}
	b, err := json.MarshalIndent(rows, "", "  ")
	if err == nil {
		err = os.WriteFile(filepath.Join(s.dataDir, name+".json"), b, 0o644)
	}
	if err != nil {
		prometheus.RecordSnapshotError(name)
		s.log.Error("Failed to write collection snapshot",
			zap.String("collection", name),
			zap.Error(err))
	}
}

func (s *MemoryStore) templeRows() []model.Temple {
	rows := make([]model.Temple, 0, len(s.temples))
	for _, r := range s.temples {
		rows = append(rows, r)
	}
	sortNewestFirst(rows, func(r model.Temple) (time.Time, string) { return r.CreatedAt, r.ID })
	return rows
}

func (s *MemoryStore) userRows() []model.User {
	rows := make([]model.User, 0, len(s.users))
	for _, r := range s.users {
		rows = append(rows, r)
	}
	sortNewestFirst(rows, func(r model.User) (time.Time, string) { return r.CreatedAt, r.ID })
	return rows
}

// sortNewestFirst orders rows by creation time descending, id as tie-break.
func sortNewestFirst[T any](rows []T, key func(T) (time.Time, string)) {
	sort.Slice(rows, func(i, j int) bool {
		ti, idi := key(rows[i])
		tj, idj := key(rows[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return idi > idj
	})
}

func newID() string {
	return uuid.New().String()
}

// --- Temple directory ---

func (s *MemoryStore) CreateTemple(t *model.Temple) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == "" {
		t.ID = newID()
	}
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.Status == "" {
		t.Status = model.StatusActive
	}
	s.temples[t.ID] = *t
	s.snapshot(snapshotTemples, s.templeRows())
	return nil
}

func (s *MemoryStore) UpdateTemple(t *model.Temple) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.temples[t.ID]
	if !ok {
		return ErrNotFound
	}
	t.CreatedAt = old.CreatedAt
	t.UpdatedAt = time.Now()
	s.temples[t.ID] = *t
	s.snapshot(snapshotTemples, s.templeRows())
	return nil
}

func (s *MemoryStore) DeleteTemple(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.temples[id]; !ok {
		return ErrNotFound
	}
	delete(s.temples, id)
	// Cascade: remove every user scoped to the temple.
	for uid, u := range s.users {
		if u.TempleID == id {
			delete(s.users, uid)
		}
	}
	s.snapshot(snapshotTemples, s.templeRows())
	s.snapshot(snapshotUsers, s.userRows())
	return nil
}

func (s *MemoryStore) GetTemple(id string) (*model.Temple, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.temples[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &t, nil
}

func (s *MemoryStore) ListTemples() ([]model.Temple, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.templeRows(), nil
}

func (s *MemoryStore) ListActiveTemples() ([]model.Temple, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := make([]model.Temple, 0)
	for _, t := range s.temples {
		if t.IsActive() {
			rows = append(rows, t)
		}
	}
	sortNewestFirst(rows, func(r model.Temple) (time.Time, string) { return r.CreatedAt, r.ID })
	return rows, nil
}

// --- User directory ---

func (s *MemoryStore) CreateUser(u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == "" {
		u.ID = newID()
	}
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	s.users[u.ID] = *u
	s.snapshot(snapshotUsers, s.userRows())
	return nil
}

func (s *MemoryStore) UpdateUser(u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.users[u.ID]
	if !ok {
		return ErrNotFound
	}
	u.CreatedAt = old.CreatedAt
	u.UpdatedAt = time.Now()
	s.users[u.ID] = *u
	s.snapshot(snapshotUsers, s.userRows())
	return nil
}

func (s *MemoryStore) DeleteUser(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return ErrNotFound
	}
	delete(s.users, id)
	s.snapshot(snapshotUsers, s.userRows())
	return nil
}

func (s *MemoryStore) GetUser(id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemoryStore) GetUserByEmail(email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) GetUserByEmailAndTemple(email, templeID string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email && u.TempleID == templeID {
			found := u
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) ListUsers() ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userRows(), nil
}

func (s *MemoryStore) ListTempleUsers(templeID string) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := make([]model.User, 0)
	for _, u := range s.users {
		if u.TempleID == templeID {
			rows = append(rows, u)
		}
	}
	sortNewestFirst(rows, func(r model.User) (time.Time, string) { return r.CreatedAt, r.ID })
	return rows, nil
}

// --- Mediums ---

func (s *MemoryStore) CreateMedium(m *model.Medium) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == "" {
		m.ID = newID()
	}
	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now
	if m.Status == "" {
		m.Status = model.StatusActive
	}
	s.mediums[m.ID] = *m
	s.snapshotMediums()
	return nil
}

func (s *MemoryStore) UpdateMedium(m *model.Medium) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.mediums[m.ID]
	if !ok || old.TempleID != m.TempleID {
		return ErrNotFound
	}
	applyMediumTransition(&old, m)
	m.CreatedAt = old.CreatedAt
	m.UpdatedAt = time.Now()
	s.mediums[m.ID] = *m
	s.snapshotMediums()
	return nil
}

func (s *MemoryStore) DeleteMedium(templeID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.mediums[id]
	if !ok || m.TempleID != templeID {
		return ErrNotFound
	}
	delete(s.mediums, id)
	s.snapshotMediums()
	return nil
}

func (s *MemoryStore) GetMedium(templeID, id string) (*model.Medium, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.mediums[id]
	if !ok || m.TempleID != templeID {
		return nil, ErrNotFound
	}
	return &m, nil
}

func (s *MemoryStore) ListMediums(templeID string) ([]model.Medium, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := make([]model.Medium, 0)
	for _, m := range s.mediums {
		if m.TempleID == templeID {
			rows = append(rows, m)
		}
	}
	sortNewestFirst(rows, func(r model.Medium) (time.Time, string) { return r.CreatedAt, r.ID })
	return rows, nil
}

func (s *MemoryStore) snapshotMediums() {
	rows := make([]model.Medium, 0, len(s.mediums))
	for _, r := range s.mediums {
		rows = append(rows, r)
	}
	sortNewestFirst(rows, func(r model.Medium) (time.Time, string) { return r.CreatedAt, r.ID })
	s.snapshot(snapshotMediums, rows)
}

// --- Suppliers ---

func (s *MemoryStore) CreateSupplier(sp *model.Supplier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sp.ID == "" {
		sp.ID = newID()
	}
	now := time.Now()
	sp.CreatedAt = now
	sp.UpdatedAt = now
	if sp.Status == "" {
		sp.Status = model.StatusActive
	}
	s.suppliers[sp.ID] = *sp
	s.snapshotSuppliers()
	return nil
}

func (s *MemoryStore) UpdateSupplier(sp *model.Supplier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.suppliers[sp.ID]
	if !ok || old.TempleID != sp.TempleID {
		return ErrNotFound
	}
	sp.CreatedAt = old.CreatedAt
	sp.UpdatedAt = time.Now()
	s.suppliers[sp.ID] = *sp
	s.snapshotSuppliers()
	return nil
}

func (s *MemoryStore) DeleteSupplier(templeID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sp, ok := s.suppliers[id]
	if !ok || sp.TempleID != templeID {
		return ErrNotFound
	}
	delete(s.suppliers, id)
	s.snapshotSuppliers()
	return nil
}

func (s *MemoryStore) GetSupplier(templeID, id string) (*model.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getSupplierLocked(templeID, id)
}

func (s *MemoryStore) getSupplierLocked(templeID, id string) (*model.Supplier, error) {
	sp, ok := s.suppliers[id]
	if !ok || sp.TempleID != templeID {
		return nil, ErrNotFound
	}
	return &sp, nil
}

func (s *MemoryStore) ListSuppliers(templeID string) ([]model.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := make([]model.Supplier, 0)
	for _, sp := range s.suppliers {
		if sp.TempleID == templeID {
			rows = append(rows, sp)
		}
	}
	sortNewestFirst(rows, func(r model.Supplier) (time.Time, string) { return r.CreatedAt, r.ID })
	return rows, nil
}

func (s *MemoryStore) snapshotSuppliers() {
	rows := make([]model.Supplier, 0, len(s.suppliers))
	for _, r := range s.suppliers {
		rows = append(rows, r)
	}
	sortNewestFirst(rows, func(r model.Supplier) (time.Time, string) { return r.CreatedAt, r.ID })
	s.snapshot(snapshotSuppliers, rows)
}

// --- Financial records ---

func (s *MemoryStore) CreateFinancialRecord(r *model.FinancialRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := validateFinancialRecord(r, s.getSupplierLocked); err != nil {
		return err
	}
	if r.ID == "" {
		r.ID = newID()
	}
	now := time.Now()
	r.CreatedAt = now
	r.UpdatedAt = now
	s.records[r.ID] = *r
	s.snapshotFinancial()
	return nil
}

func (s *MemoryStore) UpdateFinancialRecord(r *model.FinancialRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.records[r.ID]
	if !ok || old.TempleID != r.TempleID {
		return ErrNotFound
	}
	if err := validateFinancialRecord(r, s.getSupplierLocked); err != nil {
		return err
	}
	r.CreatedAt = old.CreatedAt
	r.UpdatedAt = time.Now()
	s.records[r.ID] = *r
	s.snapshotFinancial()
	return nil
}

func (s *MemoryStore) DeleteFinancialRecord(templeID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[id]
	if !ok || r.TempleID != templeID {
		return ErrNotFound
	}
	delete(s.records, id)
	s.snapshotFinancial()
	return nil
}

func (s *MemoryStore) GetFinancialRecord(templeID, id string) (*model.FinancialRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[id]
	if !ok || r.TempleID != templeID {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (s *MemoryStore) ListFinancialRecords(templeID string) ([]model.FinancialRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := make([]model.FinancialRecord, 0)
	for _, r := range s.records {
		if r.TempleID == templeID {
			rows = append(rows, r)
		}
	}
	sortNewestFirst(rows, func(r model.FinancialRecord) (time.Time, string) { return r.CreatedAt, r.ID })
	return rows, nil
}

func (s *MemoryStore) snapshotFinancial() {
	rows := make([]model.FinancialRecord, 0, len(s.records))
	for _, r := range s.records {
		rows = append(rows, r)
	}
	sortNewestFirst(rows, func(r model.FinancialRecord) (time.Time, string) { return r.CreatedAt, r.ID })
	s.snapshot(snapshotFinancial, rows)
}

// --- Events ---

func (s *MemoryStore) CreateEvent(e *model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == "" {
		e.ID = newID()
	}
	now := time.Now()
	e.CreatedAt = now
	e.UpdatedAt = now
	s.events[e.ID] = *e
	s.snapshotEvents()
	return nil
}

func (s *MemoryStore) UpdateEvent(e *model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.events[e.ID]
	if !ok || old.TempleID != e.TempleID {
		return ErrNotFound
	}
	e.CreatedAt = old.CreatedAt
	e.UpdatedAt = time.Now()
	s.events[e.ID] = *e
	s.snapshotEvents()
	return nil
}

func (s *MemoryStore) DeleteEvent(templeID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok || e.TempleID != templeID {
		return ErrNotFound
	}
	delete(s.events, id)
	s.snapshotEvents()
	return nil
}

func (s *MemoryStore) GetEvent(templeID, id string) (*model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.events[id]
	if !ok || e.TempleID != templeID {
		return nil, ErrNotFound
	}
	return &e, nil
}

func (s *MemoryStore) ListEvents(templeID string) ([]model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := make([]model.Event, 0)
	for _, e := range s.events {
		if e.TempleID == templeID {
			rows = append(rows, e)
		}
	}
	sortNewestFirst(rows, func(r model.Event) (time.Time, string) { return r.CreatedAt, r.ID })
	return rows, nil
}

func (s *MemoryStore) snapshotEvents() {
	rows := make([]model.Event, 0, len(s.events))
	for _, r := range s.events {
		rows = append(rows, r)
	}
	sortNewestFirst(rows, func(r model.Event) (time.Time, string) { return r.CreatedAt, r.ID })
	s.snapshot(snapshotEvents, rows)
}

// --- Notifications ---

func (s *MemoryStore) CreateNotification(n *model.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n.ID == "" {
		n.ID = newID()
	}
	now := time.Now()
	n.CreatedAt = now
	n.UpdatedAt = now
	if n.Date.IsZero() {
		n.Date = now
	}
	if n.Type == "" {
		n.Type = model.NotifyInfo
	}
	s.notifications[n.ID] = *n
	s.snapshotNotifications()
	return nil
}

func (s *MemoryStore) DeleteNotification(templeID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[id]
	if !ok || n.TempleID != templeID {
		return ErrNotFound
	}
	delete(s.notifications, id)
	s.snapshotNotifications()
	return nil
}

func (s *MemoryStore) GetNotification(templeID, id string) (*model.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.notifications[id]
	if !ok || n.TempleID != templeID {
		return nil, ErrNotFound
	}
	return &n, nil
}

func (s *MemoryStore) MarkNotificationRead(templeID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[id]
	if !ok || n.TempleID != templeID {
		return ErrNotFound
	}
	n.Read = true
	n.UpdatedAt = time.Now()
	s.notifications[id] = n
	s.snapshotNotifications()
	return nil
}

func (s *MemoryStore) ListNotifications(templeID string) ([]model.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := make([]model.Notification, 0)
	for _, n := range s.notifications {
		if n.TempleID == templeID {
			rows = append(rows, n)
		}
	}
	sortNewestFirst(rows, func(r model.Notification) (time.Time, string) { return r.CreatedAt, r.ID })
	return rows, nil
}

func (s *MemoryStore) snapshotNotifications() {
	rows := make([]model.Notification, 0, len(s.notifications))
	for _, r := range s.notifications {
		rows = append(rows, r)
	}
	sortNewestFirst(rows, func(r model.Notification) (time.Time, string) { return r.CreatedAt, r.ID })
	s.snapshot(snapshotNotifications, rows)
}
