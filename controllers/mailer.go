// controllers/mailer.go
package controllers

import (
	"net/http"
	"time"

	"bookpilot-backend/config"
	"bookpilot-backend/services"
	"bookpilot-backend/utils"

	"github.com/gin-gonic/gin"
)

// MailerController wires the HTTP surface to the send pipeline. Built once in
// main with the process-wide dispatcher, resolver and scheduler handle.
type MailerController struct {
	Dispatcher services.MailDispatcher
	Providers  services.ProviderResolver
	Reminders  *services.ReminderService
}

type BulkSendInput struct {
	Subject    string            `json:"subject" binding:"required"`
	HTML       string            `json:"html" binding:"required"`
	Recipients []string          `json:"recipients" binding:"required,min=1"`
	Context    map[string]string `json:"context"`
}

// BulkSend sends one message to the selected recipients. Recipient failures
// are isolated; the response always carries one result per recipient.
func (mc *MailerController) BulkSend(c *gin.Context) {
	companyUUID, ok := companyFromContext(c)
	if !ok {
		return
	}

	var input BulkSendInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	for _, r := range input.Recipients {
		if !utils.ValidateEmail(r) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid recipient address: "+r)
			return
		}
	}

	mctx := services.MergeContext{Extra: input.Context}
	if v, ok := input.Context["bookingId"]; ok {
		mctx.BookingID = v
	}
	if v, ok := input.Context["campaignId"]; ok {
		mctx.CampaignID = v
	}

	results := mc.Dispatcher.Send(companyUUID, input.Subject, input.HTML, input.Recipients, mctx)

	failed := 0
	for _, r := range results {
		if !r.Success {
			failed++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"total":   len(results),
		"failed":  failed,
		"results": results,
	})
}

// VerifyMailProvider resolves the tenant's transport and dials it without
// sending anything, so freshly saved settings can be tested immediately. A
// failed check is a normal outcome, not a server error.
func (mc *MailerController) VerifyMailProvider(c *gin.Context) {
	companyUUID, ok := companyFromContext(c)
	if !ok {
		return
	}

	sender, err := mc.Providers.Resolve(companyUUID)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"connected": false, "error": err.Error()})
		return
	}
	if err := sender.Verify(); err != nil {
		c.JSON(http.StatusOK, gin.H{"connected": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"connected": true})
}

// RunReminders is the manual trigger for the reminder scheduler. It runs the
// same pass the cron tick does and reports the tick summary.
func (mc *MailerController) RunReminders(c *gin.Context) {
	summary := mc.Reminders.RunOnce()
	c.JSON(http.StatusOK, summary)
}

// SendBookingReminders sweeps bookings starting today or tomorrow and mails
// each affected contact once. No request body.
func (mc *MailerController) SendBookingReminders(c *gin.Context) {
	companyUUID, ok := companyFromContext(c)
	if !ok {
		return
	}

	summary, err := services.SendUpcomingBookingReminders(config.DB, mc.Dispatcher, companyUUID, time.Now())
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
