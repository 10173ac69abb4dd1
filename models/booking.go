package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	BookingTypeOnce      = "once"
	BookingTypeRecurring = "recurring"

	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
	FrequencyCustom  = "custom"
)

// Booking statuses. The scheduled/in_progress/completed values are legacy and
// remain valid stored values for old records.
const (
	StatusUnconfirmed = "unconfirmed"
	StatusConfirmed   = "confirmed"
	StatusPaid        = "paid"
	StatusClosed      = "closed"
	StatusRejected    = "rejected"
	StatusCancelled   = "cancelled"
	StatusNoShow      = "no_show"

	StatusScheduled  = "scheduled"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

type Booking struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CompanyID uuid.UUID `gorm:"type:uuid;index;not null"`

	// OrderID is issued externally at creation time. Cancellation links
	// resolve bookings by this value, confirmation links by ID.
	OrderID string `gorm:"uniqueIndex;not null"`

	ContactID    uuid.UUID `gorm:"type:uuid;index;not null"`
	TechnicianID uuid.UUID `gorm:"type:uuid;index"`
	ServiceID    uuid.UUID `gorm:"type:uuid;index;not null"`

	BookingType      string     `gorm:"type:varchar(20);not null;default:'once'"`
	Frequency        string     `gorm:"type:varchar(20)"` // recurring only
	RecurringGroupID *uuid.UUID `gorm:"type:uuid;index"`

	StartTime time.Time `gorm:"not null"`
	EndTime   time.Time `gorm:"not null"`

	AddressLine string
	City        string
	State       string
	PostalCode  string

	Subtotal float64 `gorm:"type:decimal(10,2);default:0.0"`
	Discount float64 `gorm:"type:decimal(10,2);default:0.0"`
	Tax      float64 `gorm:"type:decimal(10,2);default:0.0"`
	Total    float64 `gorm:"type:decimal(10,2);default:0.0"`

	Status string `gorm:"type:varchar(20);not null;default:'unconfirmed'"`

	AddOns []BookingAddOn `gorm:"foreignKey:BookingID"`

	gorm.Model
}

// BookingAddOn is an optional sub-service attached to a booking.
type BookingAddOn struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	BookingID uuid.UUID `gorm:"type:uuid;index;not null"`
	ServiceID uuid.UUID `gorm:"type:uuid;index;not null"`
	Quantity  int       `gorm:"default:1"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return
}

func (a *BookingAddOn) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}

// Confirm moves the booking to confirmed. Confirming an already confirmed
// booking is a no-op success; the bool reports whether anything changed.
func (b *Booking) Confirm() bool {
	if b.Status == StatusConfirmed {
		return false
	}
	b.Status = StatusConfirmed
	return true
}

// Cancel moves the booking to cancelled, idempotently.
func (b *Booking) Cancel() bool {
	if b.Status == StatusCancelled {
		return false
	}
	b.Status = StatusCancelled
	return true
}

func ValidStatus(s string) bool {
	switch s {
	case StatusUnconfirmed, StatusConfirmed, StatusPaid, StatusClosed,
		StatusRejected, StatusCancelled, StatusNoShow,
		StatusScheduled, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}
