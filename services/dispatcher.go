// services/dispatcher.go
package services

import (
	"errors"
	"log"

	"bookpilot-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SendResult struct {
	Address   string `json:"address"`
	Success   bool   `json:"success"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
}

// ContactLookup resolves a recipient address to a tenant contact, for
// personalization only. Absence is not an error.
type ContactLookup interface {
	ByEmail(companyID uuid.UUID, email string) (*models.Contact, error)
}

// MailDispatcher is the single entry point every send path goes through:
// manual bulk sends, the booking-window sweep and single-recipient scheduler
// sends.
type MailDispatcher interface {
	Send(companyID uuid.UUID, subject, html string, recipients []string, mctx MergeContext) []SendResult
}

// Dispatcher sends to each recipient independently. One recipient's failure
// never aborts the batch, and the result list always has one entry per
// recipient, in input order.
type Dispatcher struct {
	Providers    ProviderResolver
	Contacts     ContactLookup
	Personalizer *Personalizer
}

func NewDispatcher(providers ProviderResolver, contacts ContactLookup, personalizer *Personalizer) *Dispatcher {
	return &Dispatcher{Providers: providers, Contacts: contacts, Personalizer: personalizer}
}

func (d *Dispatcher) Send(companyID uuid.UUID, subject, html string, recipients []string, mctx MergeContext) []SendResult {
	results := make([]SendResult, 0, len(recipients))

	sender, resolveErr := d.Providers.Resolve(companyID)

	for _, to := range recipients {
		if resolveErr != nil {
			results = append(results, SendResult{Address: to, Error: resolveErr.Error()})
			continue
		}

		contact, err := d.Contacts.ByEmail(companyID, to)
		if err != nil {
			log.Printf("Contact lookup failed for %s: %v", to, err)
			contact = nil
		}

		m := mctx
		if m.ContactID == "" && contact != nil {
			m.ContactID = contact.ID.String()
		}

		renderedSubject := d.Personalizer.Personalize(subject, contact, m)
		renderedBody := d.Personalizer.Personalize(html, contact, m)

		msgID, sendErr := sender.Send(to, renderedSubject, renderedBody)
		if sendErr != nil {
			log.Printf("Send to %s failed: %v", to, sendErr)
			results = append(results, SendResult{Address: to, Error: sendErr.Error()})
			continue
		}
		results = append(results, SendResult{Address: to, Success: true, MessageID: msgID})
	}

	return results
}

// GormContacts is the database-backed ContactLookup.
type GormContacts struct {
	DB *gorm.DB
}

func (g *GormContacts) ByEmail(companyID uuid.UUID, email string) (*models.Contact, error) {
	var contact models.Contact
	err := g.DB.Where("company_id = ? AND email = ?", companyID, email).First(&contact).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &contact, nil
}
