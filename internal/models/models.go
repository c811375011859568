package models

import (
	"time"
)

// Guest is one expected attendee. Name is the registry key; lookups are
// case-insensitive but the stored casing is preserved.
type Guest struct {
	Name      string    `gorm:"primaryKey" json:"name"`
	Phone     string    `gorm:"type:varchar(32);not null" json:"phone"`
	Seat      string    `gorm:"type:varchar(100)" json:"seat"`
	ImageURL  string    `gorm:"type:text" json:"image_url,omitempty"`
	Entered   bool      `gorm:"default:false" json:"entered"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Guest) TableName() string {
	return "guests"
}

// Setting is a key/value pair for runtime-editable configuration such as
// the caption template.
type Setting struct {
	Key   string `gorm:"primaryKey" json:"key"`
	Value string `gorm:"type:text" json:"value"`
}

func (Setting) TableName() string {
	return "settings"
}

// DispatchLog records one attempted notification for auditing.
type DispatchLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Recipient string    `gorm:"type:varchar(64);index" json:"recipient"`
	GuestName string    `gorm:"type:varchar(255)" json:"guest_name"`
	Content   string    `gorm:"type:text" json:"content"`
	Outcome   string    `gorm:"type:varchar(20)" json:"outcome"`
	Error     string    `gorm:"type:text" json:"error,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (DispatchLog) TableName() string {
	return "dispatch_logs"
}
