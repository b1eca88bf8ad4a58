package model

import (
	"time"
)

// Financial record types
const (
	RecordIncome  = "income"
	RecordExpense = "expense"
)

// FinancialRecord is a single ledger entry. SupplierID is only meaningful
// on expense records.
type FinancialRecord struct {
	ID          string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	TempleID    string    `json:"temple_id" gorm:"type:varchar(36);index;not null"`
	Type        string    `json:"type" gorm:"type:varchar(10);not null"`
	Amount      float64   `json:"amount" gorm:"type:decimal(12,2);not null"`
	Description string    `json:"description" gorm:"type:text"`
	Date        string    `json:"date" gorm:"type:varchar(10)"`
	Category    string    `json:"category,omitempty" gorm:"type:varchar(100)"`
	SupplierID  string    `json:"supplier_id,omitempty" gorm:"type:varchar(36);index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
