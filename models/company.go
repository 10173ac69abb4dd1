package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
)

type Company struct {
	ID                 uuid.UUID `gorm:"type:uuid;primary_key"`
	Name               string    `gorm:"not null"`
	Address            string
	WorkingHours       JSONB `gorm:"type:jsonb;default:'{}'"`
	EmailNotifications bool  `gorm:"default:true"`
	SMSNotifications   bool  `gorm:"default:false"`

	Users       []User       `gorm:"foreignKey:CompanyID"`
	Contacts    []Contact    `gorm:"foreignKey:CompanyID"`
	Technicians []Technician `gorm:"foreignKey:CompanyID"`
	Services    []Service    `gorm:"foreignKey:CompanyID"`
	Bookings    []Booking    `gorm:"foreignKey:CompanyID"`
	Campaigns   []Campaign   `gorm:"foreignKey:CompanyID"`
}

// Custom JSONB type for working hours and other loosely structured columns
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, &j)
}
