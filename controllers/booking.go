// controllers/booking.go
package controllers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"bookpilot-backend/apperrors"
	"bookpilot-backend/config"
	"bookpilot-backend/models"
	"bookpilot-backend/services"
	"bookpilot-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AddOnInput struct {
	ServiceID string `json:"serviceId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type RecurrenceInput struct {
	Interval     int                    `json:"interval"`
	Unit         string                 `json:"unit" binding:"omitempty,oneof=days weeks months"`
	SelectedDays []time.Weekday         `json:"selectedDays"`
	MonthlyWeeks []services.MonthlyWeek `json:"monthlyWeeks"`
	MonthlyMode  string                 `json:"monthlyMode" binding:"omitempty,oneof=weekOfMonth"`
	EndDate      time.Time              `json:"endDate"`
}

type CreateBookingInput struct {
	ContactID    string `json:"contactId" binding:"required"`
	TechnicianID string `json:"technicianId"`
	ServiceID    string `json:"serviceId" binding:"required"`

	AddOns []AddOnInput `json:"addOns"`

	BookingType string           `json:"bookingType" binding:"required,oneof=once recurring"`
	Frequency   string           `json:"frequency" binding:"omitempty,oneof=weekly monthly custom"`
	Recurrence  *RecurrenceInput `json:"customRecurrence"`

	StartTime time.Time `json:"startDateTime" binding:"required"`
	EndTime   time.Time `json:"endDateTime" binding:"required"`

	AddressLine string `json:"addressLine"`
	City        string `json:"city"`
	State       string `json:"state"`
	PostalCode  string `json:"postalCode"`

	Subtotal float64 `json:"subtotal"`
	Discount float64 `json:"discount"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// CreateBooking creates a single booking, or synchronously expands and batch
// inserts every instance of a recurring one.
func CreateBooking(c *gin.Context) {
	companyUUID, ok := companyFromContext(c)
	if !ok {
		return
	}

	var input CreateBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !input.EndTime.After(input.StartTime) {
		utils.RespondWithError(c, http.StatusBadRequest, "endDateTime must be after startDateTime")
		return
	}

	contactUUID, err := uuid.Parse(input.ContactID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid contact ID format")
		return
	}
	serviceUUID, err := uuid.Parse(input.ServiceID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID format")
		return
	}

	var contact models.Contact
	if err := config.DB.Where("company_id = ? AND id = ?", companyUUID, contactUUID).
		First(&contact).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Contact not found")
		return
	}

	tpl := models.Booking{
		CompanyID:   companyUUID,
		OrderID:     newOrderID(),
		ContactID:   contactUUID,
		ServiceID:   serviceUUID,
		BookingType: input.BookingType,
		Frequency:   input.Frequency,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		AddressLine: input.AddressLine,
		City:        input.City,
		State:       input.State,
		PostalCode:  input.PostalCode,
		Subtotal:    input.Subtotal,
		Discount:    input.Discount,
		Tax:         input.Tax,
		Total:       input.Total,
		Status:      models.StatusUnconfirmed,
	}

	if input.TechnicianID != "" {
		techUUID, err := uuid.Parse(input.TechnicianID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid technician ID format")
			return
		}
		tpl.TechnicianID = techUUID
	}

	for _, a := range input.AddOns {
		addOnService, err := uuid.Parse(a.ServiceID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid add-on service ID format")
			return
		}
		qty := a.Quantity
		if qty < 1 {
			qty = 1
		}
		tpl.AddOns = append(tpl.AddOns, models.BookingAddOn{ServiceID: addOnService, Quantity: qty})
	}

	if input.BookingType == models.BookingTypeOnce {
		if err := config.DB.Create(&tpl).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create booking")
			return
		}
		c.JSON(http.StatusCreated, tpl)
		return
	}

	// recurring
	if input.Frequency == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "frequency is required for recurring bookings")
		return
	}
	var rec services.CustomRecurrence
	if input.Recurrence != nil {
		rec = services.CustomRecurrence{
			Interval:     input.Recurrence.Interval,
			Unit:         input.Recurrence.Unit,
			SelectedDays: input.Recurrence.SelectedDays,
			MonthlyWeeks: input.Recurrence.MonthlyWeeks,
			MonthlyMode:  input.Recurrence.MonthlyMode,
			EndDate:      input.Recurrence.EndDate,
		}
	}

	instances, err := services.ExpandRecurring(tpl, rec)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	if len(instances) > 0 {
		err = config.DB.Transaction(func(tx *gorm.DB) error {
			for i := range instances {
				if err := tx.Create(&instances[i]).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create bookings")
			return
		}
	}

	var groupID *uuid.UUID
	if len(instances) > 0 {
		groupID = instances[0].RecurringGroupID
	}
	c.JSON(http.StatusCreated, gin.H{
		"recurringGroupId": groupID,
		"count":            len(instances),
		"bookings":         instances,
	})
}

// GetBookings lists the caller's bookings, tenant-scoped (operators may see
// across tenants).
func GetBookings(c *gin.Context) {
	q, ok := scopedBookingQuery(c)
	if !ok {
		return
	}

	if status := c.Query("status"); status != "" {
		if !models.ValidStatus(status) {
			utils.RespondWithError(c, http.StatusBadRequest, "Unknown status")
			return
		}
		q = q.Where("status = ?", status)
	}
	if group := c.Query("recurringGroupId"); group != "" {
		q = q.Where("recurring_group_id = ?", group)
	}

	var bookings []models.Booking
	if err := q.Preload("AddOns").Order("start_time ASC").Find(&bookings).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve bookings")
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func GetBooking(c *gin.Context) {
	q, ok := scopedBookingQuery(c)
	if !ok {
		return
	}

	bookingUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID format")
		return
	}

	var booking models.Booking
	if err := q.Preload("AddOns").Where("id = ?", bookingUUID).First(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Booking not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}
	c.JSON(http.StatusOK, booking)
}

// ---------- confirm / cancel ----------

type ActionInput struct {
	BookingID  string `json:"bookingId" binding:"required"`
	UserID     string `json:"userId"`
	CampaignID string `json:"campaignId"`
}

// ConfirmBooking handles the JSON confirm action. The booking is resolved by
// its internal id. Idempotent: re-confirming succeeds with the current state.
func ConfirmBooking(c *gin.Context) {
	var input ActionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "bookingId is required")
		return
	}

	booking, err := confirmByInternalID(input.BookingID)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	recordLinkActivity(booking, input.UserID, input.CampaignID, "confirmed")
	respondBookingAction(c, booking)
}

// CancelBooking handles the JSON cancel action. The booking is resolved by
// its externally issued order id (already-issued email links depend on that).
func CancelBooking(c *gin.Context) {
	var input ActionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "bookingId is required")
		return
	}

	booking, err := cancelByOrderID(input.BookingID)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	recordLinkActivity(booking, input.UserID, input.CampaignID, "cancelled")
	respondBookingAction(c, booking)
}

func respondBookingAction(c *gin.Context, booking *models.Booking) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"bookingId": booking.ID,
		"booking": gin.H{
			"id":            booking.ID,
			"orderId":       booking.OrderID,
			"status":        booking.Status,
			"startDateTime": booking.StartTime,
		},
	})
}

// confirmByInternalID loads, confirms and saves the booking. The lookup key
// asymmetry with cancelByOrderID is deliberate backward compatibility.
func confirmByInternalID(bookingID string) (*models.Booking, error) {
	bookingUUID, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, apperrors.NewValidation("invalid booking id %q", bookingID)
	}

	var booking models.Booking
	if err := config.DB.First(&booking, "id = ?", bookingUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("booking", bookingID)
		}
		return nil, err
	}

	if booking.Confirm() {
		if err := config.DB.Model(&booking).Update("status", booking.Status).Error; err != nil {
			return nil, err
		}
	}
	return &booking, nil
}

func cancelByOrderID(orderID string) (*models.Booking, error) {
	var booking models.Booking
	if err := config.DB.First(&booking, "order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("booking", orderID)
		}
		return nil, err
	}

	if booking.Cancel() {
		if err := config.DB.Model(&booking).Update("status", booking.Status).Error; err != nil {
			return nil, err
		}
	}
	return &booking, nil
}

// recordLinkActivity upserts the contact's action when both a recipient and a
// campaign id rode along on the link. Best-effort: failures are logged and
// never affect the primary response.
func recordLinkActivity(booking *models.Booking, userID, campaignID, action string) {
	if userID == "" || campaignID == "" {
		return
	}
	contactUUID, err := uuid.Parse(userID)
	if err != nil {
		return
	}
	campaignUUID, err := uuid.Parse(campaignID)
	if err != nil {
		return
	}

	activity := models.ContactActivity{
		CompanyID:  booking.CompanyID,
		ContactID:  contactUUID,
		CampaignID: campaignUUID,
		Action:     action,
		OccurredAt: time.Now(),
	}
	err = config.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "contact_id"}, {Name: "campaign_id"}, {Name: "action"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"occurred_at"}),
	}).Create(&activity).Error
	if err != nil {
		log.Printf("Failed to record %s activity for contact %s: %v", action, userID, err)
	}
}

func newOrderID() string {
	return "BP-" + strings.ToUpper(uuid.New().String()[:8])
}
