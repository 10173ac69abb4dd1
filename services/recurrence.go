// services/recurrence.go
package services

import (
	"fmt"
	"time"

	"bookpilot-backend/apperrors"
	"bookpilot-backend/models"
	"bookpilot-backend/utils"

	"github.com/google/uuid"
)

// Expansion never emits more instances than this, regardless of the
// caller-supplied interval or end date.
const maxRecurrenceInstances = 366

// MonthlyModeWeekOfMonth opts a monthly recurrence into the declared
// week-of-month semantics (e.g. "2nd Tuesday"). The default, legacy behavior
// matches plain weekdays exactly like the weekly frequency.
const MonthlyModeWeekOfMonth = "weekOfMonth"

type MonthlyWeek struct {
	Week    int          `json:"week"` // 1-based occurrence within the month
	Weekday time.Weekday `json:"weekday"`
}

type CustomRecurrence struct {
	Interval     int            `json:"interval"`
	Unit         string         `json:"unit"` // days, weeks or months
	SelectedDays []time.Weekday `json:"selectedDays"`
	MonthlyWeeks []MonthlyWeek  `json:"monthlyWeeks"`
	MonthlyMode  string         `json:"monthlyMode"`
	EndDate      time.Time      `json:"endDate"`
}

// ExpandRecurring turns one booking template into concrete instances sharing
// a freshly generated recurring group id. The template's duration and
// time-of-day are preserved on every instance; per-instance order ids are
// derived from the template's. Pure: no I/O, the caller persists the batch.
// An empty result is not an error.
func ExpandRecurring(tpl models.Booking, rec CustomRecurrence) ([]models.Booking, error) {
	if !tpl.EndTime.After(tpl.StartTime) {
		return nil, apperrors.NewValidation("booking end must be after start")
	}

	groupID := uuid.New()
	duration := tpl.EndTime.Sub(tpl.StartTime)

	var dates []time.Time
	switch tpl.Frequency {
	case models.FrequencyWeekly:
		dates = matchWeekdays(tpl.StartTime, rec, rec.SelectedDays)
	case models.FrequencyMonthly:
		if rec.MonthlyMode == MonthlyModeWeekOfMonth {
			dates = matchMonthlyWeeks(tpl.StartTime, rec)
		} else {
			// Legacy behavior: monthly reuses the weekday-matching walk.
			dates = matchWeekdays(tpl.StartTime, rec, rec.SelectedDays)
		}
	case models.FrequencyCustom:
		var err error
		dates, err = stepCustom(tpl.StartTime, rec)
		if err != nil {
			return nil, err
		}
	default:
		return nil, apperrors.NewValidation("unknown frequency %q", tpl.Frequency)
	}

	bookings := make([]models.Booking, 0, len(dates))
	for i, d := range dates {
		b := tpl
		b.ID = uuid.Nil
		b.Status = models.StatusUnconfirmed
		b.RecurringGroupID = &groupID
		b.StartTime = atClock(d, tpl.StartTime)
		b.EndTime = b.StartTime.Add(duration)
		b.OrderID = fmt.Sprintf("%s-%d", tpl.OrderID, i+1)
		b.AddOns = copyAddOns(tpl.AddOns)
		bookings = append(bookings, b)
	}
	return bookings, nil
}

// matchWeekdays walks day by day from start through min(endDate, start+1y)
// and keeps dates whose weekday is selected.
func matchWeekdays(start time.Time, rec CustomRecurrence, days []time.Weekday) []time.Time {
	selected := map[time.Weekday]bool{}
	for _, d := range days {
		selected[d] = true
	}

	var out []time.Time
	for d := utils.BeginningOfDay(start); !d.After(capEnd(start, rec.EndDate)); d = d.AddDate(0, 0, 1) {
		if selected[d.Weekday()] {
			out = append(out, d)
			if len(out) >= maxRecurrenceInstances {
				break
			}
		}
	}
	return out
}

func matchMonthlyWeeks(start time.Time, rec CustomRecurrence) []time.Time {
	type pair struct {
		week int
		day  time.Weekday
	}
	selected := map[pair]bool{}
	for _, mw := range rec.MonthlyWeeks {
		selected[pair{mw.Week, mw.Weekday}] = true
	}

	var out []time.Time
	for d := utils.BeginningOfDay(start); !d.After(capEnd(start, rec.EndDate)); d = d.AddDate(0, 0, 1) {
		if selected[pair{utils.WeekOfMonth(d), d.Weekday()}] {
			out = append(out, d)
			if len(out) >= maxRecurrenceInstances {
				break
			}
		}
	}
	return out
}

// stepCustom emits the start date then repeatedly advances by the interval
// until past the end date.
func stepCustom(start time.Time, rec CustomRecurrence) ([]time.Time, error) {
	if rec.Interval < 1 {
		return nil, apperrors.NewValidation("custom recurrence interval must be at least 1")
	}
	if rec.EndDate.IsZero() {
		return nil, apperrors.NewValidation("custom recurrence requires an end date")
	}

	end := utils.EndOfDay(rec.EndDate)
	var out []time.Time
	for d := utils.BeginningOfDay(start); !d.After(end) && len(out) < maxRecurrenceInstances; {
		out = append(out, d)
		switch rec.Unit {
		case "days":
			d = d.AddDate(0, 0, rec.Interval)
		case "weeks":
			d = d.AddDate(0, 0, 7*rec.Interval)
		case "months":
			d = d.AddDate(0, rec.Interval, 0)
		default:
			return nil, apperrors.NewValidation("unknown recurrence unit %q", rec.Unit)
		}
	}
	return out, nil
}

func capEnd(start, endDate time.Time) time.Time {
	yearCap := start.AddDate(1, 0, 0)
	if endDate.IsZero() || endDate.After(yearCap) {
		return yearCap
	}
	return utils.EndOfDay(endDate)
}

func atClock(day, clock time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), 0, clock.Location())
}

func copyAddOns(in []models.BookingAddOn) []models.BookingAddOn {
	if len(in) == 0 {
		return nil
	}
	out := make([]models.BookingAddOn, len(in))
	for i, a := range in {
		out[i] = models.BookingAddOn{ServiceID: a.ServiceID, Quantity: a.Quantity}
	}
	return out
}
