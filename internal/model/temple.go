package model

import (
	"time"
)

// Temple status values
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Temple represents a tenant: an isolated organizational unit that owns
// users and all domain collections.
type Temple struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null"`
	Address   string    `json:"address,omitempty" gorm:"type:text"`
	Phone     string    `json:"phone,omitempty" gorm:"type:varchar(20)"`
	Email     string    `json:"email,omitempty" gorm:"type:varchar(100)"`
	Status    string    `json:"status" gorm:"type:varchar(20);default:'active'"`
	Subdomain string    `json:"subdomain,omitempty" gorm:"type:varchar(50)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsActive reports whether the temple accepts logins and registrations.
func (t *Temple) IsActive() bool {
	return t.Status == StatusActive
}

// TrialEndsAt returns the end of the billing-deferred trial window.
func (t *Temple) TrialEndsAt(trialDays int) time.Time {
	return t.CreatedAt.Add(time.Duration(trialDays) * 24 * time.Hour)
}

// TrialExpired reports whether the trial window has elapsed.
func (t *Temple) TrialExpired(trialDays int) bool {
	return time.Now().After(t.TrialEndsAt(trialDays))
}

// TrialDaysLeft returns the whole days remaining in the trial window,
// floored at zero.
func (t *Temple) TrialDaysLeft(trialDays int) int {
	left := time.Until(t.TrialEndsAt(trialDays))
	if left <= 0 {
		return 0
	}
	return int((left + 24*time.Hour - 1) / (24 * time.Hour))
}
