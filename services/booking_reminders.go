// services/booking_reminders.go
package services

import (
	"fmt"
	"time"

	"bookpilot-backend/models"
	"bookpilot-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookingReminderSummary is the outcome of one upcoming-booking sweep.
type BookingReminderSummary struct {
	DateRange            string       `json:"dateRange"`
	TotalBookingsChecked int          `json:"totalBookingsChecked"`
	UniqueEmailsTargeted int          `json:"uniqueEmailsTargeted"`
	TemplateUsed         string       `json:"templateUsed"`
	Results              []SendResult `json:"results"`
}

// SendUpcomingBookingReminders emails every contact with a booking starting
// today or tomorrow, using the tenant's booking_reminder campaign. Each
// contact is targeted once no matter how many bookings fall in the window.
func SendUpcomingBookingReminders(db *gorm.DB, mailer MailDispatcher, companyID uuid.UUID, now time.Time) (*BookingReminderSummary, error) {
	windowStart := utils.BeginningOfDay(now)
	windowEnd := utils.EndOfDay(now.AddDate(0, 0, 1))

	var bookings []models.Booking
	err := db.Where("company_id = ? AND start_time BETWEEN ? AND ? AND status NOT IN ?",
		companyID, windowStart, windowEnd,
		[]string{models.StatusCancelled, models.StatusRejected, models.StatusNoShow}).
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}

	campaign, err := ResolveCampaign(db, companyID, models.TemplateBookingReminder)
	if err != nil {
		return nil, err
	}

	// Dedupe recipients while remembering one booking per address so the
	// action links in the body resolve somewhere sensible.
	seen := map[string]bool{}
	var emails []string
	bookingFor := map[string]models.Booking{}

	contactIDs := make([]uuid.UUID, 0, len(bookings))
	for _, b := range bookings {
		contactIDs = append(contactIDs, b.ContactID)
	}
	var contacts []models.Contact
	if len(contactIDs) > 0 {
		if err := db.Where("company_id = ? AND id IN ?", companyID, contactIDs).
			Find(&contacts).Error; err != nil {
			return nil, err
		}
	}
	contactByID := map[uuid.UUID]models.Contact{}
	for _, c := range contacts {
		contactByID[c.ID] = c
	}

	for _, b := range bookings {
		contact, ok := contactByID[b.ContactID]
		if !ok || contact.Email == "" || seen[contact.Email] {
			continue
		}
		seen[contact.Email] = true
		emails = append(emails, contact.Email)
		bookingFor[contact.Email] = b
	}

	var results []SendResult
	for _, email := range emails {
		b := bookingFor[email]
		mctx := MergeContext{
			BookingID:  b.ID.String(),
			CampaignID: campaign.ID.String(),
		}
		results = append(results, mailer.Send(companyID, campaign.Subject, campaign.Body,
			[]string{email}, mctx)...)
	}

	return &BookingReminderSummary{
		DateRange: fmt.Sprintf("%s - %s",
			windowStart.Format("2006-01-02"), windowEnd.Format("2006-01-02")),
		TotalBookingsChecked: len(bookings),
		UniqueEmailsTargeted: len(emails),
		TemplateUsed:         campaign.TemplateID,
		Results:              results,
	}, nil
}
