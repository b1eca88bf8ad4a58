package model

import (
	"time"
)

// User roles
const (
	RoleMasterAdmin = "master_admin"
	RoleTempleAdmin = "temple_admin"
	RoleUser        = "user"
)

// User represents a login account in the per-temple user directory.
// The master admin is a configured credential pair, never a row here.
type User struct {
	ID           string     `json:"id" gorm:"type:varchar(36);primaryKey"`
	Name         string     `json:"name" gorm:"type:varchar(100);not null"`
	Email        string     `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	Password     string     `json:"-" gorm:"type:varchar(255)"`
	Phone        string     `json:"phone,omitempty" gorm:"type:varchar(20)"`
	Address      string     `json:"address,omitempty" gorm:"type:text"`
	Neighborhood string     `json:"neighborhood,omitempty" gorm:"type:varchar(100)"`
	City         string     `json:"city,omitempty" gorm:"type:varchar(50)"`
	State        string     `json:"state,omitempty" gorm:"type:varchar(50)"`
	Country      string     `json:"country,omitempty" gorm:"type:varchar(50)"`
	ZipCode      string     `json:"zip_code,omitempty" gorm:"type:varchar(20)"`
	Role         string     `json:"role" gorm:"type:varchar(20);not null;default:'user'"`
	TempleID     string     `json:"temple_id,omitempty" gorm:"type:varchar(36);index"`
	Active       bool       `json:"active" gorm:"default:false"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

// IsAdmin reports whether the user holds any administrative role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleMasterAdmin || u.Role == RoleTempleAdmin
}
