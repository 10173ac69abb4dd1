package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContactActivity records a contact acting on an email link (confirm/cancel).
// Upserted best-effort; never load-bearing for the booking mutation itself.
type ContactActivity struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	CompanyID  uuid.UUID `gorm:"type:uuid;index;not null"`
	ContactID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_contact_campaign_action,priority:1"`
	CampaignID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_contact_campaign_action,priority:2"`
	Action     string    `gorm:"type:varchar(30);not null;uniqueIndex:idx_contact_campaign_action,priority:3"`
	OccurredAt time.Time

	gorm.Model
}

func (a *ContactActivity) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}
