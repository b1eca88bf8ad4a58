package model

import (
	"time"
)

// Supplier represents a vendor the temple purchases from. Expense records
// may reference a supplier by id.
type Supplier struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	TempleID  string    `json:"temple_id" gorm:"type:varchar(36);index;not null"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null"`
	Email     string    `json:"email,omitempty" gorm:"type:varchar(100)"`
	Phone     string    `json:"phone,omitempty" gorm:"type:varchar(20)"`
	Address   string    `json:"address,omitempty" gorm:"type:text"`
	City      string    `json:"city,omitempty" gorm:"type:varchar(50)"`
	State     string    `json:"state,omitempty" gorm:"type:varchar(50)"`
	ZipCode   string    `json:"zip_code,omitempty" gorm:"type:varchar(20)"`
	Category  string    `json:"category,omitempty" gorm:"type:varchar(100)"`
	Status    string    `json:"status" gorm:"type:varchar(20);default:'active'"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
