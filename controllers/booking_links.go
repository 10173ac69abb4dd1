// controllers/booking_links.go
package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"bookpilot-backend/apperrors"

	"github.com/gin-gonic/gin"
)

// Email clients hit these as plain GET links, so the pages are self-contained
// HTML with no scripts and carry explicit statuses: 200 success, 404 unknown
// booking, 500 anything unexpected.

const linkPage = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>%s</title>
<style>
body { font-family: Arial, sans-serif; background: #f5f6f8; margin: 0; }
.card { max-width: 480px; margin: 80px auto; background: #fff; border-radius: 8px;
        padding: 40px; text-align: center; box-shadow: 0 2px 8px rgba(0,0,0,.08); }
h1 { font-size: 22px; color: %s; }
p  { color: #555; }
</style>
</head>
<body><div class="card"><h1>%s</h1><p>%s</p></div></body>
</html>`

func successPage(title, detail string) string {
	return fmt.Sprintf(linkPage, title, "#2e7d32", title, detail)
}

func notFoundPage() string {
	return fmt.Sprintf(linkPage, "Booking not found", "#c62828",
		"Booking not found",
		"This booking no longer exists. If you believe this is a mistake, please contact us.")
}

func errorPage() string {
	return fmt.Sprintf(linkPage, "Something went wrong", "#c62828",
		"Something went wrong",
		"We could not process your request right now. Please try again later.")
}

// ConfirmBookingLink is the GET variant of ConfirmBooking. Same mutation,
// HTML response. Resolves by internal booking id.
func ConfirmBookingLink(c *gin.Context) {
	bookingID := c.Query("bookingId")
	if bookingID == "" {
		c.Data(http.StatusNotFound, "text/html; charset=utf-8", []byte(notFoundPage()))
		return
	}

	booking, err := confirmByInternalID(bookingID)
	if err != nil {
		renderLinkError(c, err)
		return
	}

	recordLinkActivity(booking, c.Query("userId"), c.Query("campaignId"), "confirmed")

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(successPage(
		"Booking confirmed",
		fmt.Sprintf("Your booking on %s is confirmed. We look forward to seeing you!",
			booking.StartTime.Format("Monday, January 2 2006 at 3:04 PM")))))
}

// CancelBookingLink is the GET variant of CancelBooking. Resolves by order id.
func CancelBookingLink(c *gin.Context) {
	orderID := c.Query("bookingId")
	if orderID == "" {
		c.Data(http.StatusNotFound, "text/html; charset=utf-8", []byte(notFoundPage()))
		return
	}

	booking, err := cancelByOrderID(orderID)
	if err != nil {
		renderLinkError(c, err)
		return
	}

	recordLinkActivity(booking, c.Query("userId"), c.Query("campaignId"), "cancelled")

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(successPage(
		"Booking cancelled",
		"Your booking has been cancelled. You can always book again whenever it suits you.")))
}

func renderLinkError(c *gin.Context, err error) {
	var nfErr *apperrors.NotFoundError
	var vErr *apperrors.ValidationError
	if errors.As(err, &nfErr) || errors.As(err, &vErr) {
		c.Data(http.StatusNotFound, "text/html; charset=utf-8", []byte(notFoundPage()))
		return
	}
	log.Printf("Booking link action failed: %v", err)
	c.Data(http.StatusInternalServerError, "text/html; charset=utf-8", []byte(errorPage()))
}
