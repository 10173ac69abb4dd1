// models/reminder_log.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ReminderSent   = "sent"
	ReminderFailed = "failed"
)

// ReminderLog is the sole idempotency guard for scheduled reminders. The
// composite unique index on (campaign_id, contact_id, reminder_label) is
// enforced by the database so overlapping scheduler runs cannot double-send;
// an existing row of either status means the triple is done forever.
type ReminderLog struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	CompanyID     uuid.UUID `gorm:"type:uuid;index;not null"`
	CampaignID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_campaign_contact_label,priority:1"`
	ContactID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_campaign_contact_label,priority:2"`
	ReminderLabel string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_campaign_contact_label,priority:3"`
	Status        string    `gorm:"type:varchar(20)"` // sent, failed
	ErrorMessage  string    `gorm:"type:text"`
	SentAt        time.Time
	gorm.Model
}

func (r *ReminderLog) BeforeCreate(tx *gorm.DB) (err error) {
	r.ID = uuid.New()
	return
}
