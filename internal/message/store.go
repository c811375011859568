package message

import (
	"errors"

	"event-checkin/internal/models"

	"gorm.io/gorm"
)

const captionKey = "caption_template"

const (
	// DefaultCaptionTemplate is the check-in notification sent with the
	// guest's captured photo.
	DefaultCaptionTemplate = "Dear {name} San\n\n✅ *Access Granted*\n📍 *Seat:* {seat}\n\nEnjoy the day!"

	// DefaultBroadcastTemplate is used for bulk sends when the request
	// does not supply its own template.
	DefaultBroadcastTemplate = "Hello {name}, welcome! Your seat is {seat}."
)

// TemplateStore persists the operator-editable caption template in the
// settings table.
type TemplateStore struct {
	db *gorm.DB
}

func NewTemplateStore(db *gorm.DB) *TemplateStore {
	return &TemplateStore{db: db}
}

// Caption returns the stored caption template, or the default when none
// has been saved yet.
func (s *TemplateStore) Caption() string {
	var setting models.Setting
	err := s.db.Where("key = ?", captionKey).First(&setting).Error
	if err != nil || setting.Value == "" {
		return DefaultCaptionTemplate
	}
	return setting.Value
}

// SetCaption durably replaces the caption template.
func (s *TemplateStore) SetCaption(template string) error {
	if template == "" {
		return errors.New("template must not be empty")
	}
	return s.db.Save(&models.Setting{Key: captionKey, Value: template}).Error
}
