// services/personalizer.go
package services

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"bookpilot-backend/models"
)

// Merge tags look like {{first_name}}. Matching is case-insensitive and
// tolerates internal whitespace; unknown tags are left untouched.
var tagPattern = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_]+)\s*\}\}`)

// MergeContext carries the per-message ids the action URLs are built from,
// plus an open extension map for campaign-specific tags. Extra keys are
// substituted after the fixed tags, so they cannot shadow them.
type MergeContext struct {
	BookingID  string
	ContactID  string
	CampaignID string
	Extra      map[string]string
}

// Personalizer substitutes merge tags against a recipient profile. It is
// plain placeholder substitution: no expression evaluation, no HTML handling.
type Personalizer struct {
	BaseURL string
}

// Personalize renders body for the given contact. A nil contact falls back
// to safe defaults; the confirm/cancel URLs are synthesized either way.
func (p *Personalizer) Personalize(body string, contact *models.Contact, mctx MergeContext) string {
	values := map[string]string{
		"first_name":   "User",
		"last_name":    "",
		"email":        "",
		"phone":        "",
		"company_name": "",
		"service_name": "",
		"price":        "",
		"units":        "",
	}

	if contact != nil {
		values["first_name"] = contact.FirstName
		values["last_name"] = contact.LastName
		values["email"] = contact.Email
		values["phone"] = contact.Phone
		values["company_name"] = contact.CompanyName
		values["service_name"] = contact.ServiceName
		values["price"] = strconv.FormatFloat(contact.Price, 'f', 2, 64)
		values["units"] = strconv.Itoa(contact.Units)
	}

	confirmURL := p.ActionURL("/bookings/confirm", mctx)
	cancelURL := p.ActionURL("/bookings/cancel", mctx)
	values["confirm_url"] = confirmURL
	values["cancel_url"] = cancelURL
	// Legacy tag aliases from older campaign bodies
	values["confirm_booking"] = confirmURL
	values["cancel_booking"] = cancelURL

	for k, v := range mctx.Extra {
		key := strings.ToLower(strings.TrimSpace(k))
		if _, fixed := values[key]; !fixed {
			values[key] = v
		}
	}

	return tagPattern.ReplaceAllStringFunc(body, func(match string) string {
		name := strings.ToLower(tagPattern.FindStringSubmatch(match)[1])
		if v, ok := values[name]; ok {
			return v
		}
		return match
	})
}

// ActionURL builds a booking action link from the public base URL. Ids are
// appended as query parameters only when present, so a recipient-less render
// still yields a working generic endpoint.
func (p *Personalizer) ActionURL(path string, mctx MergeContext) string {
	q := url.Values{}
	if mctx.BookingID != "" {
		q.Set("bookingId", mctx.BookingID)
	}
	if mctx.ContactID != "" {
		q.Set("userId", mctx.ContactID)
	}
	if mctx.CampaignID != "" {
		q.Set("campaignId", mctx.CampaignID)
	}

	u := strings.TrimRight(p.BaseURL, "/") + path
	if len(q) == 0 {
		return u
	}
	return u + "?" + q.Encode()
}
