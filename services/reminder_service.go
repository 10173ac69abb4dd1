// services/reminder_service.go
package services

import (
	"log"
	"os"
	"strings"
	"time"

	"bookpilot-backend/models"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// reminderStore is the slice of persistence the scheduler needs per tick.
type reminderStore interface {
	ActiveCampaignsWithReminders() ([]models.Campaign, error)
	ActiveContacts(companyID uuid.UUID) ([]models.Contact, error)
	HasReminderLog(campaignID, contactID uuid.UUID, label string) (bool, error)
	CreateReminderLog(entry *models.ReminderLog) error
	SMSEnabled(companyID uuid.UUID) (bool, error)
}

// SMSNotifier is the optional secondary channel for reminder sends.
type SMSNotifier interface {
	Send(to, body string) error
}

// ReminderTickSummary reports what one scheduler pass did.
type ReminderTickSummary struct {
	CampaignsChecked int `json:"campaignsChecked"`
	Sent             int `json:"sent"`
	Failed           int `json:"failed"`
	Skipped          int `json:"skipped"`
}

// ReminderService runs the cron-driven reminder pipeline. There is exactly
// one handle per process, built in main and passed to whoever needs the
// manual trigger; the cron entry may be disabled by env while RunOnce stays
// callable.
type ReminderService struct {
	store        reminderStore
	mailer       MailDispatcher
	personalizer *Personalizer
	sms          SMSNotifier
	cron         *cron.Cron
	now          func() time.Time
}

func NewReminderService(db *gorm.DB, mailer MailDispatcher, personalizer *Personalizer, sms SMSNotifier) *ReminderService {
	return &ReminderService{
		store:        &gormReminderStore{db: db},
		mailer:       mailer,
		personalizer: personalizer,
		sms:          sms,
		cron:         cron.New(),
		now:          time.Now,
	}
}

func (s *ReminderService) Start() {
	if os.Getenv("REMINDER_CRON_DISABLED") == "true" {
		log.Println("Reminder cron disabled; manual trigger remains available")
		return
	}

	schedule := os.Getenv("REMINDER_CRON_SCHEDULE")
	if schedule == "" {
		schedule = "@every 5m"
	}
	if _, err := s.cron.AddFunc(schedule, func() { s.RunOnce() }); err != nil {
		log.Printf("Failed to schedule reminder cron %q: %v", schedule, err)
		return
	}
	s.cron.Start()
	log.Println("Reminder scheduler started")
}

func (s *ReminderService) Stop() {
	s.cron.Stop()
}

// RunOnce performs one full reminder pass. Safe to run concurrently with the
// cron tick: the reminder log's unique index is the only guard needed, so a
// lost insert race just means another run already sent the triple.
func (s *ReminderService) RunOnce() ReminderTickSummary {
	var summary ReminderTickSummary

	campaigns, err := s.store.ActiveCampaignsWithReminders()
	if err != nil {
		log.Printf("Failed to fetch campaigns: %v", err)
		return summary
	}

	contactCache := map[uuid.UUID][]models.Contact{}

	for _, campaign := range campaigns {
		rules := campaign.EnabledReminders()
		if len(rules) == 0 {
			continue
		}
		summary.CampaignsChecked++

		contacts, ok := contactCache[campaign.CompanyID]
		if !ok {
			contacts, err = s.store.ActiveContacts(campaign.CompanyID)
			if err != nil {
				log.Printf("Company %s: failed to fetch contacts: %v", campaign.CompanyID, err)
				continue
			}
			contactCache[campaign.CompanyID] = contacts
		}

		for _, contact := range contacts {
			for _, rule := range rules {
				s.processReminder(campaign, contact, rule, &summary)
			}
		}
	}

	log.Printf("Reminder pass: %d campaigns, %d sent, %d failed, %d skipped",
		summary.CampaignsChecked, summary.Sent, summary.Failed, summary.Skipped)
	return summary
}

func (s *ReminderService) processReminder(campaign models.Campaign, contact models.Contact, rule models.ReminderRule, summary *ReminderTickSummary) {
	if !reminderDue(rule, contact.CreatedAt, s.now()) {
		summary.Skipped++
		return
	}

	// A row of either status means the triple is done forever.
	exists, err := s.store.HasReminderLog(campaign.ID, contact.ID, rule.Label)
	if err != nil {
		log.Printf("Reminder log check failed for contact %s: %v", contact.ID, err)
		return
	}
	if exists {
		summary.Skipped++
		return
	}

	mctx := MergeContext{
		CampaignID: campaign.ID.String(),
		ContactID:  contact.ID.String(),
	}

	results := s.mailer.Send(campaign.CompanyID, campaign.Subject, campaign.Body,
		[]string{contact.Email}, mctx)

	status := models.ReminderSent
	errorMsg := ""
	if len(results) == 0 || !results[0].Success {
		status = models.ReminderFailed
		if len(results) > 0 {
			errorMsg = results[0].Error
		}
	}

	if status == models.ReminderSent {
		s.sendSMSLeg(campaign, contact, mctx)
		summary.Sent++
	} else {
		summary.Failed++
	}

	entry := &models.ReminderLog{
		CompanyID:     campaign.CompanyID,
		CampaignID:    campaign.ID,
		ContactID:     contact.ID,
		ReminderLabel: rule.Label,
		Status:        status,
		ErrorMessage:  errorMsg,
		SentAt:        s.now(),
	}
	if err := s.store.CreateReminderLog(entry); err != nil {
		if isDuplicateKey(err) {
			// A concurrent run logged the triple first. Nothing to do.
			log.Printf("Reminder %s/%s/%s already logged by a concurrent run",
				campaign.ID, contact.ID, rule.Label)
			return
		}
		log.Printf("Failed to log reminder for contact %s: %v", contact.ID, err)
	}
}

// sendSMSLeg fires a best-effort SMS with the personalized text when the
// tenant opted in and the contact has a phone. Its outcome never affects the
// reminder log row.
func (s *ReminderService) sendSMSLeg(campaign models.Campaign, contact models.Contact, mctx MergeContext) {
	if s.sms == nil || contact.Phone == "" {
		return
	}
	enabled, err := s.store.SMSEnabled(campaign.CompanyID)
	if err != nil || !enabled {
		return
	}
	body := s.personalizer.Personalize(campaign.Body, &contact, mctx)
	if err := s.sms.Send(contact.Phone, body); err != nil {
		log.Printf("SMS to %s failed: %v", contact.Phone, err)
	}
}

// reminderDue reports whether the rule's delay since the contact was created
// has elapsed, measured in the rule's own unit.
func reminderDue(rule models.ReminderRule, createdAt, now time.Time) bool {
	elapsed := now.Sub(createdAt)
	if elapsed < 0 {
		elapsed = -elapsed
	}

	var elapsedUnits int
	switch rule.Unit {
	case models.UnitMinutes:
		elapsedUnits = int(elapsed.Minutes())
	case models.UnitHours:
		elapsedUnits = int(elapsed.Hours())
	case models.UnitDays:
		elapsedUnits = int(elapsed.Hours() / 24)
	default:
		return false
	}
	return elapsedUnits >= rule.Value
}

func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if err == gorm.ErrDuplicatedKey {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "23505")
}

// ---------- gorm-backed store ----------

type gormReminderStore struct {
	db *gorm.DB
}

func (g *gormReminderStore) ActiveCampaignsWithReminders() ([]models.Campaign, error) {
	var campaigns []models.Campaign
	err := g.db.Where("status = ?", models.CampaignActive).Find(&campaigns).Error
	if err != nil {
		return nil, err
	}
	// Rule filtering happens in code; jsonb predicates buy nothing at this
	// table size.
	var out []models.Campaign
	for _, c := range campaigns {
		if len(c.EnabledReminders()) > 0 {
			out = append(out, c)
		}
	}
	return out, nil
}

func (g *gormReminderStore) ActiveContacts(companyID uuid.UUID) ([]models.Contact, error) {
	var contacts []models.Contact
	err := g.db.Where("company_id = ? AND is_active = true", companyID).Find(&contacts).Error
	return contacts, err
}

func (g *gormReminderStore) HasReminderLog(campaignID, contactID uuid.UUID, label string) (bool, error) {
	var count int64
	err := g.db.Model(&models.ReminderLog{}).
		Where("campaign_id = ? AND contact_id = ? AND reminder_label = ?", campaignID, contactID, label).
		Count(&count).Error
	return count > 0, err
}

func (g *gormReminderStore) CreateReminderLog(entry *models.ReminderLog) error {
	return g.db.Create(entry).Error
}

func (g *gormReminderStore) SMSEnabled(companyID uuid.UUID) (bool, error) {
	var company models.Company
	if err := g.db.Select("sms_notifications").First(&company, "id = ?", companyID).Error; err != nil {
		return false, err
	}
	return company.SMSNotifications, nil
}
