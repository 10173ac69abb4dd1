package services

import (
	"fmt"
	"strings"
	"testing"

	"bookpilot-backend/apperrors"
	"bookpilot-backend/models"

	"github.com/google/uuid"
)

// mockSender fails for addresses in failFor and records what it sent.
type mockSender struct {
	failFor map[string]bool
	sent    []string
	bodies  []string
}

func (m *mockSender) Verify() error {
	return nil
}

func (m *mockSender) Send(to, subject, html string) (string, error) {
	if m.failFor[to] {
		return "", apperrors.NewProvider(apperrors.ProviderUnavailable, fmt.Errorf("boom"))
	}
	m.sent = append(m.sent, to)
	m.bodies = append(m.bodies, html)
	return "<" + to + "@test>", nil
}

type mockResolver struct {
	sender MailSender
	err    error
}

func (m *mockResolver) Resolve(companyID uuid.UUID) (MailSender, error) {
	return m.sender, m.err
}

type mockContacts struct {
	byEmail map[string]*models.Contact
}

func (m *mockContacts) ByEmail(companyID uuid.UUID, email string) (*models.Contact, error) {
	return m.byEmail[email], nil
}

func newTestDispatcher(sender MailSender, resolveErr error, contacts map[string]*models.Contact) *Dispatcher {
	return NewDispatcher(
		&mockResolver{sender: sender, err: resolveErr},
		&mockContacts{byEmail: contacts},
		testPersonalizer(),
	)
}

func TestDispatchIsolatesFailures(t *testing.T) {
	recipients := []string{"a@x.com", "b@x.com", "c@x.com", "d@x.com", "e@x.com"}
	sender := &mockSender{failFor: map[string]bool{"c@x.com": true}}
	d := newTestDispatcher(sender, nil, nil)

	results := d.Send(uuid.New(), "Subject", "Body", recipients, MergeContext{})

	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(results))
	}

	failures := 0
	for i, r := range results {
		if r.Address != recipients[i] {
			t.Errorf("result %d: expected address %s, got %s", i, recipients[i], r.Address)
		}
		if !r.Success {
			failures++
			if r.Error == "" {
				t.Errorf("failed result must carry an error message")
			}
		} else if r.MessageID == "" {
			t.Errorf("successful result must carry a message id")
		}
	}
	if failures != 1 {
		t.Fatalf("expected exactly 1 failure, got %d", failures)
	}
	if results[2].Success {
		t.Errorf("recipient #3 should be the failed one")
	}
}

func TestDispatchResolveFailureStillYieldsAllResults(t *testing.T) {
	recipients := []string{"a@x.com", "b@x.com"}
	d := newTestDispatcher(nil, apperrors.NewProvider(apperrors.ProviderDisconnected, nil), nil)

	results := d.Send(uuid.New(), "S", "B", recipients, MergeContext{})

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, r := range results {
		if r.Success {
			t.Errorf("no send can succeed without a provider")
		}
		if !strings.Contains(r.Error, "DISCONNECTED") {
			t.Errorf("expected disconnected error, got %q", r.Error)
		}
	}
}

func TestDispatchPersonalizesPerRecipient(t *testing.T) {
	ana := &models.Contact{ID: uuid.New(), FirstName: "Ana"}
	sender := &mockSender{}
	d := newTestDispatcher(sender, nil, map[string]*models.Contact{"ana@x.com": ana})

	d.Send(uuid.New(), "Hi", "Hello {{first_name}}", []string{"ana@x.com", "stranger@x.com"}, MergeContext{})

	if len(sender.bodies) != 2 {
		t.Fatalf("expected 2 sends, got %d", len(sender.bodies))
	}
	if sender.bodies[0] != "Hello Ana" {
		t.Errorf("known contact should be personalized, got %q", sender.bodies[0])
	}
	if sender.bodies[1] != "Hello User" {
		t.Errorf("unknown recipient falls back to defaults, got %q", sender.bodies[1])
	}
}
