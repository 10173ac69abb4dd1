package services

import (
	"fmt"
	"testing"
	"time"

	"bookpilot-backend/models"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

type logKey struct {
	campaign uuid.UUID
	contact  uuid.UUID
	label    string
}

// mockReminderStore enforces the triple uniqueness the way the database does.
type mockReminderStore struct {
	campaigns []models.Campaign
	contacts  map[uuid.UUID][]models.Contact
	logs      map[logKey]*models.ReminderLog
	sms       map[uuid.UUID]bool
}

func newMockStore() *mockReminderStore {
	return &mockReminderStore{
		contacts: map[uuid.UUID][]models.Contact{},
		logs:     map[logKey]*models.ReminderLog{},
		sms:      map[uuid.UUID]bool{},
	}
}

func (m *mockReminderStore) ActiveCampaignsWithReminders() ([]models.Campaign, error) {
	var out []models.Campaign
	for _, c := range m.campaigns {
		if c.Status == models.CampaignActive && len(c.EnabledReminders()) > 0 {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockReminderStore) ActiveContacts(companyID uuid.UUID) ([]models.Contact, error) {
	return m.contacts[companyID], nil
}

func (m *mockReminderStore) HasReminderLog(campaignID, contactID uuid.UUID, label string) (bool, error) {
	_, ok := m.logs[logKey{campaignID, contactID, label}]
	return ok, nil
}

func (m *mockReminderStore) CreateReminderLog(entry *models.ReminderLog) error {
	key := logKey{entry.CampaignID, entry.ContactID, entry.ReminderLabel}
	if _, ok := m.logs[key]; ok {
		return fmt.Errorf(`duplicate key value violates unique constraint "idx_campaign_contact_label"`)
	}
	m.logs[key] = entry
	return nil
}

func (m *mockReminderStore) SMSEnabled(companyID uuid.UUID) (bool, error) {
	return m.sms[companyID], nil
}

// recordingDispatcher plays the MailDispatcher role without a transport.
type recordingDispatcher struct {
	sent    []string
	failAll bool
}

func (r *recordingDispatcher) Send(companyID uuid.UUID, subject, html string, recipients []string, mctx MergeContext) []SendResult {
	results := make([]SendResult, 0, len(recipients))
	for _, to := range recipients {
		if r.failAll {
			results = append(results, SendResult{Address: to, Error: "smtp down"})
			continue
		}
		r.sent = append(r.sent, to)
		results = append(results, SendResult{Address: to, Success: true, MessageID: "<id@test>"})
	}
	return results
}

func newTestReminderService(store *mockReminderStore, mailer MailDispatcher, now time.Time) *ReminderService {
	return &ReminderService{
		store:        store,
		mailer:       mailer,
		personalizer: testPersonalizer(),
		cron:         cron.New(),
		now:          func() time.Time { return now },
	}
}

func dueCampaign(companyID uuid.UUID) models.Campaign {
	return models.Campaign{
		ID:         uuid.New(),
		CompanyID:  companyID,
		TemplateID: models.TemplateBookingReminder,
		Subject:    "Reminder",
		Body:       "Hi {{first_name}}",
		Status:     models.CampaignActive,
		Reminders: models.ReminderRules{
			{Label: "2 days", Unit: models.UnitDays, Value: 2, Enabled: true},
		},
	}
}

func contactCreatedAt(companyID uuid.UUID, created time.Time) models.Contact {
	c := models.Contact{
		ID:        uuid.New(),
		CompanyID: companyID,
		FirstName: "Ana",
		Email:     "ana@x.com",
	}
	c.Model = gorm.Model{CreatedAt: created}
	return c
}

func TestReminderDueUnits(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		rule    models.ReminderRule
		elapsed time.Duration
		want    bool
	}{
		{models.ReminderRule{Unit: models.UnitMinutes, Value: 30}, 29 * time.Minute, false},
		{models.ReminderRule{Unit: models.UnitMinutes, Value: 30}, 30 * time.Minute, true},
		{models.ReminderRule{Unit: models.UnitHours, Value: 2}, 119 * time.Minute, false},
		{models.ReminderRule{Unit: models.UnitHours, Value: 2}, 2 * time.Hour, true},
		{models.ReminderRule{Unit: models.UnitDays, Value: 1}, 23 * time.Hour, false},
		{models.ReminderRule{Unit: models.UnitDays, Value: 1}, 25 * time.Hour, true},
		{models.ReminderRule{Unit: "Fortnights", Value: 1}, 400 * time.Hour, false},
	}

	for i, tc := range cases {
		if got := reminderDue(tc.rule, base, base.Add(tc.elapsed)); got != tc.want {
			t.Errorf("case %d (%s %d, elapsed %v): expected %v, got %v",
				i, tc.rule.Unit, tc.rule.Value, tc.elapsed, tc.want, got)
		}
	}
}

func TestReminderRunSendsAndLogs(t *testing.T) {
	now := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	companyID := uuid.New()

	store := newMockStore()
	campaign := dueCampaign(companyID)
	store.campaigns = []models.Campaign{campaign}
	contact := contactCreatedAt(companyID, now.Add(-72*time.Hour))
	store.contacts[companyID] = []models.Contact{contact}

	mailer := &recordingDispatcher{}
	s := newTestReminderService(store, mailer, now)

	summary := s.RunOnce()

	if summary.Sent != 1 || summary.Failed != 0 {
		t.Fatalf("expected 1 sent, got %+v", summary)
	}
	if len(mailer.sent) != 1 || mailer.sent[0] != "ana@x.com" {
		t.Fatalf("expected a single send to ana@x.com, got %v", mailer.sent)
	}

	entry, ok := store.logs[logKey{campaign.ID, contact.ID, "2 days"}]
	if !ok {
		t.Fatal("expected a reminder log row")
	}
	if entry.Status != models.ReminderSent {
		t.Errorf("expected status sent, got %s", entry.Status)
	}
}

func TestReminderRunSkipsLoggedTriple(t *testing.T) {
	now := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	companyID := uuid.New()

	store := newMockStore()
	campaign := dueCampaign(companyID)
	store.campaigns = []models.Campaign{campaign}
	contact := contactCreatedAt(companyID, now.Add(-72*time.Hour))
	store.contacts[companyID] = []models.Contact{contact}

	// A failed row is just as terminal as a sent one.
	store.logs[logKey{campaign.ID, contact.ID, "2 days"}] = &models.ReminderLog{
		Status: models.ReminderFailed,
	}

	mailer := &recordingDispatcher{}
	s := newTestReminderService(store, mailer, now)

	summary := s.RunOnce()

	if len(mailer.sent) != 0 {
		t.Fatalf("logged triple must never be re-sent, got sends to %v", mailer.sent)
	}
	if summary.Sent != 0 || summary.Skipped == 0 {
		t.Errorf("expected a skip, got %+v", summary)
	}
}

func TestReminderRunLogsFailure(t *testing.T) {
	now := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	companyID := uuid.New()

	store := newMockStore()
	campaign := dueCampaign(companyID)
	store.campaigns = []models.Campaign{campaign}
	contact := contactCreatedAt(companyID, now.Add(-72*time.Hour))
	store.contacts[companyID] = []models.Contact{contact}

	mailer := &recordingDispatcher{failAll: true}
	s := newTestReminderService(store, mailer, now)

	summary := s.RunOnce()

	if summary.Failed != 1 {
		t.Fatalf("expected 1 failure, got %+v", summary)
	}
	entry, ok := store.logs[logKey{campaign.ID, contact.ID, "2 days"}]
	if !ok {
		t.Fatal("a failed send must still be logged")
	}
	if entry.Status != models.ReminderFailed || entry.ErrorMessage == "" {
		t.Errorf("expected failed row with error, got %+v", entry)
	}
}

func TestReminderRunNotYetDue(t *testing.T) {
	now := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	companyID := uuid.New()

	store := newMockStore()
	store.campaigns = []models.Campaign{dueCampaign(companyID)}
	store.contacts[companyID] = []models.Contact{
		contactCreatedAt(companyID, now.Add(-12*time.Hour)), // rule wants 2 days
	}

	mailer := &recordingDispatcher{}
	s := newTestReminderService(store, mailer, now)

	summary := s.RunOnce()

	if len(mailer.sent) != 0 || summary.Sent != 0 {
		t.Fatalf("nothing should be due yet, got %+v", summary)
	}
	if len(store.logs) != 0 {
		t.Fatalf("no log rows expected, got %d", len(store.logs))
	}
}

func TestStartRegistersDefaultSchedule(t *testing.T) {
	t.Setenv("REMINDER_CRON_DISABLED", "")
	t.Setenv("REMINDER_CRON_SCHEDULE", "")

	s := newTestReminderService(newMockStore(), &recordingDispatcher{}, time.Now())
	s.Start()
	defer s.Stop()

	if got := len(s.cron.Entries()); got != 1 {
		t.Fatalf("expected 1 cron entry, got %d", got)
	}
}

func TestStartRejectsInvalidSchedule(t *testing.T) {
	t.Setenv("REMINDER_CRON_DISABLED", "")
	t.Setenv("REMINDER_CRON_SCHEDULE", "every now and then")

	s := newTestReminderService(newMockStore(), &recordingDispatcher{}, time.Now())
	s.Start()
	defer s.Stop()

	if got := len(s.cron.Entries()); got != 0 {
		t.Fatalf("invalid schedule must not be registered, got %d entries", got)
	}
}

func TestStartHonorsDisableFlag(t *testing.T) {
	t.Setenv("REMINDER_CRON_DISABLED", "true")

	s := newTestReminderService(newMockStore(), &recordingDispatcher{}, time.Now())
	s.Start()
	defer s.Stop()

	if got := len(s.cron.Entries()); got != 0 {
		t.Fatalf("disabled scheduler must register nothing, got %d entries", got)
	}
}

func TestIsDuplicateKey(t *testing.T) {
	if !isDuplicateKey(fmt.Errorf(`duplicate key value violates unique constraint "x"`)) {
		t.Error("postgres duplicate message not recognized")
	}
	if !isDuplicateKey(fmt.Errorf("ERROR: something (SQLSTATE 23505)")) {
		t.Error("sqlstate 23505 not recognized")
	}
	if !isDuplicateKey(gorm.ErrDuplicatedKey) {
		t.Error("gorm sentinel not recognized")
	}
	if isDuplicateKey(fmt.Errorf("connection refused")) {
		t.Error("unrelated error misclassified")
	}
	if isDuplicateKey(nil) {
		t.Error("nil misclassified")
	}
}
