package store

import (
	"time"

	"aruanda-service/internal/model"
)

// applyMediumTransition maintains the status/exit-date pairing when a medium
// is updated. Deactivating stamps the exit date with the current date unless
// the caller already set one; reactivating clears it.
func applyMediumTransition(old, upd *model.Medium) {
	if old.Status == model.StatusActive && upd.Status == model.StatusInactive && upd.ExitDate == "" {
		upd.ExitDate = time.Now().Format("2006-01-02")
	}
	if old.Status == model.StatusInactive && upd.Status == model.StatusActive {
		upd.ExitDate = ""
	}
}

// validateFinancialRecord checks the ledger entry invariants: non-negative
// amount, and a supplier reference only on expense records, resolving to a
// supplier of the same temple. Inactive suppliers stay referenceable so old
// expenses keep their history.
func validateFinancialRecord(r *model.FinancialRecord, lookup func(templeID, id string) (*model.Supplier, error)) error {
	if r.Amount < 0 {
		return ErrNegativeAmount
	}
	if r.SupplierID == "" {
		return nil
	}
	if r.Type != model.RecordExpense {
		return ErrSupplierOnIncome
	}
	if _, err := lookup(r.TempleID, r.SupplierID); err != nil {
		return ErrSupplierNotFound
	}
	return nil
}
