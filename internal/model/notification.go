package model

import (
	"time"
)

// Notification types
const (
	NotifyInfo    = "info"
	NotifyWarning = "warning"
	NotifySuccess = "success"
	NotifyError   = "error"
)

// TargetAllUsers is the sentinel entry meaning a notification is addressed
// to every user of the temple.
const TargetAllUsers = "all"

// Notification is a message addressed either to every user ("all") or to an
// explicit list of user ids.
type Notification struct {
	ID          string     `json:"id" gorm:"type:varchar(36);primaryKey"`
	TempleID    string     `json:"temple_id" gorm:"type:varchar(36);index;not null"`
	Title       string     `json:"title" gorm:"type:varchar(200);not null"`
	Message     string     `json:"message" gorm:"type:text"`
	Type        string     `json:"type" gorm:"type:varchar(10);default:'info'"`
	Date        time.Time  `json:"date"`
	Read        bool       `json:"read" gorm:"default:false"`
	TargetUsers StringList `json:"target_users" gorm:"type:jsonb"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TargetsUser reports whether the notification is addressed to the given
// user id.
func (n *Notification) TargetsUser(userID string) bool {
	for _, t := range n.TargetUsers {
		if t == TargetAllUsers || t == userID {
			return true
		}
	}
	return false
}
