package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Event types
const (
	EventGira      = "gira"
	EventMeeting   = "meeting"
	EventCeremony  = "ceremony"
	EventGeneric   = "event"
	EventLecture   = "lecture"
	EventFestivity = "festivity"
	EventExternal  = "external"
)

// StringList is a JSON-encoded list of ids stored in a single column.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	return string(b), err
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	}
	return errors.New("unsupported type for StringList")
}

// Event is a calendar entry with a participant list of medium ids.
type Event struct {
	ID           string     `json:"id" gorm:"type:varchar(36);primaryKey"`
	TempleID     string     `json:"temple_id" gorm:"type:varchar(36);index;not null"`
	Title        string     `json:"title" gorm:"type:varchar(200);not null"`
	Description  string     `json:"description,omitempty" gorm:"type:text"`
	Date         string     `json:"date" gorm:"type:varchar(10)"`
	Time         string     `json:"time" gorm:"type:varchar(5)"`
	Type         string     `json:"type" gorm:"type:varchar(20)"`
	Participants StringList `json:"participants" gorm:"type:jsonb"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
