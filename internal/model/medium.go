package model

import (
	"time"
)

// Medium categories (ministry roles)
const (
	CategoryPassista    = "passista"
	CategoryDevelopment = "development"
	CategoryCambone     = "cambone"
	CategoryPriest      = "priest"
	CategoryOga         = "oga"
	CategoryConsulente  = "consulente"
)

// Medium represents a registered temple member tracked for ministry
// purposes, distinct from a User login.
type Medium struct {
	ID              string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	TempleID        string    `json:"temple_id" gorm:"type:varchar(36);index;not null"`
	Name            string    `json:"name" gorm:"type:varchar(100);not null"`
	Email           string    `json:"email,omitempty" gorm:"type:varchar(100)"`
	BirthDate       string    `json:"birth_date,omitempty" gorm:"type:varchar(10)"`
	Phone           string    `json:"phone,omitempty" gorm:"type:varchar(20)"`
	Address         string    `json:"address,omitempty" gorm:"type:text"`
	Neighborhood    string    `json:"neighborhood,omitempty" gorm:"type:varchar(100)"`
	City            string    `json:"city,omitempty" gorm:"type:varchar(50)"`
	State           string    `json:"state,omitempty" gorm:"type:varchar(50)"`
	Country         string    `json:"country,omitempty" gorm:"type:varchar(50)"`
	ZipCode         string    `json:"zip_code,omitempty" gorm:"type:varchar(20)"`
	Status          string    `json:"status" gorm:"type:varchar(20);default:'active'"`
	Category        string    `json:"category" gorm:"type:varchar(20)"`
	JoinDate        string    `json:"join_date,omitempty" gorm:"type:varchar(10)"`
	ExitDate        string    `json:"exit_date,omitempty" gorm:"type:varchar(10)"`
	CanAdminister   bool      `json:"can_administer" gorm:"default:false"`
	HasSystemAccess bool      `json:"has_system_access" gorm:"default:false"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
