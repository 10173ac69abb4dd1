package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CampaignDraft  = "draft"
	CampaignActive = "active"
)

// Reminder rule units
const (
	UnitMinutes = "Minutes"
	UnitHours   = "Hours"
	UnitDays    = "Days"
)

// Well-known template kinds
const (
	TemplateBookingConfirmation = "booking_confirmation"
	TemplateBookingReminder     = "booking_reminder"
	TemplateBookingCancellation = "booking_cancellation"
)

// ReminderRule is one follow-up rule on a campaign. Label identifies the rule
// inside the campaign and is part of the reminder log dedup key.
type ReminderRule struct {
	Label   string `json:"label"`
	Unit    string `json:"unit"` // Minutes, Hours or Days
	Value   int    `json:"value"`
	Enabled bool   `json:"enabled"`
}

type ReminderRules []ReminderRule

func (r ReminderRules) Value() (driver.Value, error) {
	return json.Marshal(r)
}

func (r *ReminderRules) Scan(value interface{}) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, r)
}

// Campaign is a tenant-customized message template for one message kind
// (TemplateID). Resolution picks the most recently updated active campaign
// when a tenant has duplicates for a kind.
type Campaign struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	CompanyID  uuid.UUID `gorm:"type:uuid;index;not null"`
	TemplateID string    `gorm:"type:varchar(50);index;not null"`
	Subject    string    `gorm:"not null"`
	Body       string    `gorm:"type:text;not null"`
	Status     string    `gorm:"type:varchar(20);not null;default:'draft'"`

	Reminders ReminderRules `gorm:"type:jsonb;default:'[]'"`

	gorm.Model
}

func (c *Campaign) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}

// EnabledReminders filters the campaign's rules down to the enabled ones.
func (c *Campaign) EnabledReminders() []ReminderRule {
	var out []ReminderRule
	for _, r := range c.Reminders {
		if r.Enabled {
			out = append(out, r)
		}
	}
	return out
}
