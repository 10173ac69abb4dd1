package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ProviderLegacy = "" // unset: fall back to the platform transport
	ProviderSMTP   = "smtp"
	ProviderOAuth  = "oauth"
)

// MailProviderConfig holds one tenant's outbound mail settings. Written by
// the settings flow, read (and token-refreshed) by the provider resolver.
type MailProviderConfig struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CompanyID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`

	Provider string `gorm:"type:varchar(20)"` // "", smtp or oauth

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string

	OAuthEmail   string
	AccessToken  string `gorm:"type:text"`
	RefreshToken string `gorm:"type:text"`
	TokenExpiry  *time.Time

	gorm.Model
}

func (m *MailProviderConfig) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return
}
