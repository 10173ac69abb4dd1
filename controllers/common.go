// controllers/common.go
package controllers

import (
	"net/http"

	"bookpilot-backend/config"
	"bookpilot-backend/models"
	"bookpilot-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// companyFromContext pulls the tenant id the auth middleware stored from the
// JWT claims. Aborts the request when absent or malformed.
func companyFromContext(c *gin.Context) (uuid.UUID, bool) {
	companyID, exists := c.Get("companyId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Company ID not found in context")
		return uuid.Nil, false
	}

	companyUUID, err := uuid.Parse(companyID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid company ID format")
		return uuid.Nil, false
	}
	return companyUUID, true
}

func userFromContext(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return uuid.Nil, false
	}
	userUUID, err := uuid.Parse(userID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid user ID format")
		return uuid.Nil, false
	}
	return userUUID, true
}

// bookingScope is the tenant filter a booking query runs under. A nil
// CompanyID means unscoped, which only operators ever get.
type bookingScope struct {
	CompanyID *uuid.UUID
}

// resolveBookingScope decides the tenant filter from the caller's claims.
// Platform operators are the only callers allowed to query across tenants;
// they may narrow with ?companyId=. Everyone else is pinned to the company in
// their token, regardless of what the request asks for.
func resolveBookingScope(c *gin.Context) (bookingScope, bool) {
	if role, _ := c.Get("role"); role == models.RoleOperator {
		if cid := c.Query("companyId"); cid != "" {
			companyUUID, err := uuid.Parse(cid)
			if err != nil {
				utils.RespondWithError(c, http.StatusBadRequest, "Invalid companyId")
				return bookingScope{}, false
			}
			return bookingScope{CompanyID: &companyUUID}, true
		}
		return bookingScope{}, true
	}

	companyUUID, ok := companyFromContext(c)
	if !ok {
		return bookingScope{}, false
	}
	return bookingScope{CompanyID: &companyUUID}, true
}

func scopedBookingQuery(c *gin.Context) (*gorm.DB, bool) {
	scope, ok := resolveBookingScope(c)
	if !ok {
		return nil, false
	}
	q := config.DB.Model(&models.Booking{})
	if scope.CompanyID != nil {
		q = q.Where("company_id = ?", *scope.CompanyID)
	}
	return q, true
}
