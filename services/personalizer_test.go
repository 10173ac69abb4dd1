package services

import (
	"strings"
	"testing"

	"bookpilot-backend/models"
)

func testPersonalizer() *Personalizer {
	return &Personalizer{BaseURL: "https://app.bookpilot.test"}
}

func TestPersonalizeWithContact(t *testing.T) {
	p := testPersonalizer()
	contact := &models.Contact{FirstName: "Ana"}

	out := p.Personalize("Hello {{first_name}}, confirm: {{confirm_url}}", contact,
		MergeContext{BookingID: "abc"})

	if !strings.Contains(out, "Hello Ana") {
		t.Errorf("expected personalized greeting, got %q", out)
	}
	if !strings.Contains(out, "bookingId=abc") {
		t.Errorf("expected confirm URL carrying bookingId, got %q", out)
	}
	if !strings.Contains(out, "/bookings/confirm") {
		t.Errorf("expected confirm path, got %q", out)
	}
}

func TestPersonalizeTagTolerance(t *testing.T) {
	p := testPersonalizer()
	contact := &models.Contact{FirstName: "Ana", LastName: "Lopes"}

	out := p.Personalize("{{ FIRST_NAME }} {{Last_Name}}", contact, MergeContext{})
	if out != "Ana Lopes" {
		t.Errorf("case/whitespace tolerance broken: %q", out)
	}
}

func TestPersonalizeWithoutContact(t *testing.T) {
	p := testPersonalizer()

	out := p.Personalize("Hi {{first_name}}, cancel here: {{cancel_url}}", nil, MergeContext{})

	if !strings.Contains(out, "Hi User") {
		t.Errorf("expected safe default first name, got %q", out)
	}
	// Without ids the action URL stays parameter-light
	if strings.Contains(out, "?") {
		t.Errorf("expected generic cancel URL without params, got %q", out)
	}
	if !strings.Contains(out, "/bookings/cancel") {
		t.Errorf("expected cancel path, got %q", out)
	}
}

func TestPersonalizeUnknownTagUntouched(t *testing.T) {
	p := testPersonalizer()

	out := p.Personalize("Your code: {{promo_code}}", nil, MergeContext{})
	if out != "Your code: {{promo_code}}" {
		t.Errorf("unknown tag must survive, got %q", out)
	}
}

func TestPersonalizeExtraContext(t *testing.T) {
	p := testPersonalizer()

	out := p.Personalize("Your code: {{promo_code}}", nil, MergeContext{
		Extra: map[string]string{"Promo_Code": "SPRING20"},
	})
	if out != "Your code: SPRING20" {
		t.Errorf("extra context substitution failed: %q", out)
	}
}

func TestPersonalizeExtraCannotShadowFixedTags(t *testing.T) {
	p := testPersonalizer()
	contact := &models.Contact{FirstName: "Ana"}

	out := p.Personalize("{{first_name}}", contact, MergeContext{
		Extra: map[string]string{"first_name": "Mallory"},
	})
	if out != "Ana" {
		t.Errorf("extra keys must not shadow fixed tags, got %q", out)
	}
}

func TestPersonalizeLegacyAliases(t *testing.T) {
	p := testPersonalizer()

	out := p.Personalize("{{cancel_booking}} | {{confirm_booking}}", nil,
		MergeContext{BookingID: "b1", CampaignID: "c1"})

	if !strings.Contains(out, "/bookings/cancel?") || !strings.Contains(out, "/bookings/confirm?") {
		t.Errorf("legacy aliases must resolve to action URLs, got %q", out)
	}
	if strings.Count(out, "campaignId=c1") != 2 {
		t.Errorf("both URLs should carry the campaign id, got %q", out)
	}
}

func TestActionURLParams(t *testing.T) {
	p := testPersonalizer()

	u := p.ActionURL("/bookings/confirm", MergeContext{
		BookingID: "b1", ContactID: "u1", CampaignID: "c1",
	})
	for _, want := range []string{"bookingId=b1", "userId=u1", "campaignId=c1"} {
		if !strings.Contains(u, want) {
			t.Errorf("expected %s in %q", want, u)
		}
	}
}
