package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"aruanda-service/internal/model"
)

func newTestStore(t *testing.T) *MemoryStore {
	t.Helper()
	s, err := NewMemoryStore("", nil)
	if err != nil {
		t.Fatalf("NewMemoryStore: %v", err)
	}
	return s
}

func createMedium(t *testing.T, s *MemoryStore, templeID, status string) *model.Medium {
	t.Helper()
	m := &model.Medium{TempleID: templeID, Name: "Medium", Status: status, Category: model.CategoryPassista}
	if err := s.CreateMedium(m); err != nil {
		t.Fatalf("CreateMedium: %v", err)
	}
	return m
}

func TestMediumDeactivationStampsExitDate(t *testing.T) {
	s := newTestStore(t)
	m := createMedium(t, s, "temple-1", model.StatusActive)

	upd := *m
	upd.Status = model.StatusInactive
	if err := s.UpdateMedium(&upd); err != nil {
		t.Fatalf("UpdateMedium: %v", err)
	}

	got, _ := s.GetMedium("temple-1", m.ID)
	want := time.Now().Format("2006-01-02")
	if got.ExitDate != want {
		t.Errorf("exit date = %q, want %q", got.ExitDate, want)
	}
}

func TestMediumDeactivationKeepsCallerExitDate(t *testing.T) {
	s := newTestStore(t)
	m := createMedium(t, s, "temple-1", model.StatusActive)

	upd := *m
	upd.Status = model.StatusInactive
	upd.ExitDate = "2024-06-15"
	if err := s.UpdateMedium(&upd); err != nil {
		t.Fatalf("UpdateMedium: %v", err)
	}

	got, _ := s.GetMedium("temple-1", m.ID)
	if got.ExitDate != "2024-06-15" {
		t.Errorf("caller-set exit date overwritten: %q", got.ExitDate)
	}
}

func TestMediumReactivationClearsExitDate(t *testing.T) {
	s := newTestStore(t)
	m := createMedium(t, s, "temple-1", model.StatusActive)

	upd := *m
	upd.Status = model.StatusInactive
	if err := s.UpdateMedium(&upd); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	upd.Status = model.StatusActive
	if err := s.UpdateMedium(&upd); err != nil {
		t.Fatalf("reactivate: %v", err)
	}

	got, _ := s.GetMedium("temple-1", m.ID)
	if got.ExitDate != "" {
		t.Errorf("exit date must clear on reactivation, got %q", got.ExitDate)
	}
}

func TestFinancialRecordInvariants(t *testing.T) {
	s := newTestStore(t)
	sup := &model.Supplier{TempleID: "temple-1", Name: "Fornecedor"}
	if err := s.CreateSupplier(sup); err != nil {
		t.Fatalf("CreateSupplier: %v", err)
	}

	tests := []struct {
		name    string
		record  model.FinancialRecord
		wantErr error
	}{
		{
			"plain income",
			model.FinancialRecord{TempleID: "temple-1", Type: model.RecordIncome, Amount: 100},
			nil,
		},
		{
			"expense with supplier",
			model.FinancialRecord{TempleID: "temple-1", Type: model.RecordExpense, Amount: 50, SupplierID: sup.ID},
			nil,
		},
		{
			"negative amount",
			model.FinancialRecord{TempleID: "temple-1", Type: model.RecordIncome, Amount: -1},
			ErrNegativeAmount,
		},
		{
			"income with supplier",
			model.FinancialRecord{TempleID: "temple-1", Type: model.RecordIncome, Amount: 10, SupplierID: sup.ID},
			ErrSupplierOnIncome,
		},
		{
			"expense with unknown supplier",
			model.FinancialRecord{TempleID: "temple-1", Type: model.RecordExpense, Amount: 10, SupplierID: "nope"},
			ErrSupplierNotFound,
		},
		{
			"expense with other temple's supplier",
			model.FinancialRecord{TempleID: "temple-2", Type: model.RecordExpense, Amount: 10, SupplierID: sup.ID},
			ErrSupplierNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := tt.record
			if err := s.CreateFinancialRecord(&rec); !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateFinancialRecord = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFinancialRecordInactiveSupplierStaysReferenceable(t *testing.T) {
	s := newTestStore(t)
	sup := &model.Supplier{TempleID: "temple-1", Name: "Fornecedor", Status: model.StatusInactive}
	if err := s.CreateSupplier(sup); err != nil {
		t.Fatalf("CreateSupplier: %v", err)
	}
	rec := &model.FinancialRecord{TempleID: "temple-1", Type: model.RecordExpense, Amount: 10, SupplierID: sup.ID}
	if err := s.CreateFinancialRecord(rec); err != nil {
		t.Errorf("inactive supplier reference rejected: %v", err)
	}
}

func TestTenantScopedLookups(t *testing.T) {
	s := newTestStore(t)
	m := createMedium(t, s, "temple-1", model.StatusActive)

	if _, err := s.GetMedium("temple-2", m.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("cross-temple get must miss, got %v", err)
	}
	if err := s.DeleteMedium("temple-2", m.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("cross-temple delete must miss, got %v", err)
	}
	if _, err := s.GetMedium("temple-1", m.ID); err != nil {
		t.Errorf("in-temple get failed: %v", err)
	}
}

func TestListingsNewestFirst(t *testing.T) {
	s := newTestStore(t)
	first := createMedium(t, s, "temple-1", model.StatusActive)
	// Force distinct creation times.
	time.Sleep(2 * time.Millisecond)
	second := createMedium(t, s, "temple-1", model.StatusActive)
	createMedium(t, s, "temple-2", model.StatusActive)

	rows, err := s.ListMediums("temple-1")
	if err != nil {
		t.Fatalf("ListMediums: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].ID != second.ID || rows[1].ID != first.ID {
		t.Errorf("expected newest first, got [%s %s]", rows[0].ID, rows[1].ID)
	}
}

func TestNotificationDefaultsAndRead(t *testing.T) {
	s := newTestStore(t)
	n := &model.Notification{TempleID: "temple-1", Title: "Aviso", TargetUsers: model.StringList{model.TargetAllUsers}}
	if err := s.CreateNotification(n); err != nil {
		t.Fatalf("CreateNotification: %v", err)
	}
	if n.Type != model.NotifyInfo {
		t.Errorf("type must default to %q, got %q", model.NotifyInfo, n.Type)
	}
	if n.Date.IsZero() {
		t.Error("date must default to creation time")
	}
	if n.Read {
		t.Error("notifications start unread")
	}

	if err := s.MarkNotificationRead("temple-1", n.ID); err != nil {
		t.Fatalf("MarkNotificationRead: %v", err)
	}
	got, _ := s.GetNotification("temple-1", n.ID)
	if !got.Read {
		t.Error("read flag not persisted")
	}

	if err := s.MarkNotificationRead("temple-2", n.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("cross-temple read must miss, got %v", err)
	}
}

func TestNotificationTargeting(t *testing.T) {
	broadcast := &model.Notification{TargetUsers: model.StringList{model.TargetAllUsers}}
	if !broadcast.TargetsUser("anyone") {
		t.Error("broadcast must target everyone")
	}
	direct := &model.Notification{TargetUsers: model.StringList{"user-1", "user-2"}}
	if !direct.TargetsUser("user-2") {
		t.Error("listed user must be targeted")
	}
	if direct.TargetsUser("user-3") {
		t.Error("unlisted user must not be targeted")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := NewMemoryStore(dir, nil)
	if err != nil {
		t.Fatalf("NewMemoryStore: %v", err)
	}

	temple := &model.Temple{Name: "Templo A"}
	if err := s.CreateTemple(temple); err != nil {
		t.Fatalf("CreateTemple: %v", err)
	}
	m := createMedium(t, s, temple.ID, model.StatusActive)
	rec := &model.FinancialRecord{TempleID: temple.ID, Type: model.RecordIncome, Amount: 42.5, Description: "Doação"}
	if err := s.CreateFinancialRecord(rec); err != nil {
		t.Fatalf("CreateFinancialRecord: %v", err)
	}

	// A fresh store over the same directory sees the snapshots.
	reopened, err := NewMemoryStore(dir, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if _, err := reopened.GetTemple(temple.ID); err != nil {
		t.Errorf("temple lost across restart: %v", err)
	}
	if _, err := reopened.GetMedium(temple.ID, m.ID); err != nil {
		t.Errorf("medium lost across restart: %v", err)
	}
	got, err := reopened.GetFinancialRecord(temple.ID, rec.ID)
	if err != nil {
		t.Fatalf("record lost across restart: %v", err)
	}
	if got.Amount != 42.5 || got.Description != "Doação" {
		t.Errorf("record fields corrupted: %+v", got)
	}
}

func TestTempleDefaultsToActive(t *testing.T) {
	s := newTestStore(t)
	temple := &model.Temple{Name: "Templo A"}
	if err := s.CreateTemple(temple); err != nil {
		t.Fatalf("CreateTemple: %v", err)
	}
	if temple.Status != model.StatusActive {
		t.Errorf("status defaults to active, got %q", temple.Status)
	}
	if temple.ID == "" {
		t.Error("id must be assigned")
	}
}

func TestUpdatePreservesCreatedAt(t *testing.T) {
	s := newTestStore(t)
	temple := &model.Temple{Name: "Templo A"}
	if err := s.CreateTemple(temple); err != nil {
		t.Fatalf("CreateTemple: %v", err)
	}
	created := temple.CreatedAt

	time.Sleep(2 * time.Millisecond)
	upd := *temple
	upd.Name = "Templo Renomeado"
	if err := s.UpdateTemple(&upd); err != nil {
		t.Fatalf("UpdateTemple: %v", err)
	}

	got, _ := s.GetTemple(temple.ID)
	if !got.CreatedAt.Equal(created) {
		t.Errorf("created_at changed on update")
	}
	if !got.UpdatedAt.After(created) {
		t.Errorf("updated_at not advanced")
	}
	if got.Name != "Templo Renomeado" {
		t.Errorf("name not applied: %q", got.Name)
	}
}

func TestSnapshotFailureDoesNotBlockMutations(t *testing.T) {
	dir := t.TempDir()
	s, err := NewMemoryStore(dir, nil)
	if err != nil {
		t.Fatalf("NewMemoryStore: %v", err)
	}

	// Occupy the snapshot path with a directory so the write cannot
	// succeed.
	if err := os.Mkdir(filepath.Join(dir, "mediums.json"), 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}

	m := createMedium(t, s, "temple-1", model.StatusActive)

	// In-memory state stays authoritative despite the failed write.
	got, err := s.GetMedium("temple-1", m.ID)
	if err != nil {
		t.Fatalf("GetMedium after failed snapshot: %v", err)
	}
	if got.Name != m.Name {
		t.Errorf("record corrupted: %+v", got)
	}

	upd := *m
	upd.Status = model.StatusInactive
	if err := s.UpdateMedium(&upd); err != nil {
		t.Errorf("update must not propagate snapshot failure: %v", err)
	}
}
