package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Contact is a tenant-scoped recipient profile. The mailer substitutes its
// fields into campaign merge tags.
type Contact struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key"`
	CompanyID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_company_email,priority:1"`
	CreatedByUserID uuid.UUID `gorm:"type:uuid;index"`

	FirstName   string `gorm:"not null"`
	LastName    string
	Email       string `gorm:"not null;uniqueIndex:idx_company_email,priority:2"`
	Phone       string
	CompanyName string
	ServiceName string
	Price       float64 `gorm:"type:decimal(10,2);default:0.0"`
	Units       int     `gorm:"default:0"`
	Notes       string
	LastVisit   *time.Time
	IsActive    bool `gorm:"default:true"`

	Bookings []Booking `gorm:"foreignKey:ContactID"`

	gorm.Model
}

func (c *Contact) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}

// Technician performs booked services. Only the reference shape matters to the
// booking pipeline.
type Technician struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CompanyID uuid.UUID `gorm:"type:uuid;index;not null"`
	Name      string    `gorm:"not null"`
	Email     string
	Phone     string
	IsActive  bool `gorm:"default:true"`

	gorm.Model
}

func (t *Technician) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}
