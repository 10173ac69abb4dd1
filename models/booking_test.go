package models

import "testing"

func TestConfirmIdempotent(t *testing.T) {
	b := Booking{Status: StatusUnconfirmed}

	if changed := b.Confirm(); !changed {
		t.Fatal("first confirm should change state")
	}
	if b.Status != StatusConfirmed {
		t.Fatalf("expected confirmed, got %s", b.Status)
	}

	if changed := b.Confirm(); changed {
		t.Fatal("second confirm must be a no-op")
	}
	if b.Status != StatusConfirmed {
		t.Fatalf("second confirm must keep confirmed, got %s", b.Status)
	}
}

func TestCancelIdempotent(t *testing.T) {
	b := Booking{Status: StatusConfirmed}

	if changed := b.Cancel(); !changed {
		t.Fatal("first cancel should change state")
	}
	if changed := b.Cancel(); changed {
		t.Fatal("second cancel must be a no-op")
	}
	if b.Status != StatusCancelled {
		t.Fatalf("expected cancelled, got %s", b.Status)
	}
}

func TestValidStatusAcceptsLegacyValues(t *testing.T) {
	for _, s := range []string{
		StatusUnconfirmed, StatusConfirmed, StatusPaid, StatusClosed,
		StatusRejected, StatusCancelled, StatusNoShow,
		StatusScheduled, StatusInProgress, StatusCompleted,
	} {
		if !ValidStatus(s) {
			t.Errorf("%s should be valid", s)
		}
	}
	if ValidStatus("archived") {
		t.Error("unknown status accepted")
	}
}

func TestEnabledReminders(t *testing.T) {
	c := Campaign{Reminders: ReminderRules{
		{Label: "a", Enabled: true},
		{Label: "b", Enabled: false},
		{Label: "c", Enabled: true},
	}}

	got := c.EnabledReminders()
	if len(got) != 2 || got[0].Label != "a" || got[1].Label != "c" {
		t.Errorf("unexpected enabled rules: %+v", got)
	}
}
