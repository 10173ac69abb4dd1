// controllers/settings.go
package controllers

import (
	"errors"
	"net/http"

	"bookpilot-backend/config"
	"bookpilot-backend/models"
	"bookpilot-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type MailProviderInput struct {
	Provider string `json:"provider" binding:"omitempty,oneof=smtp oauth legacy"`

	SMTPHost     string `json:"smtpHost"`
	SMTPPort     int    `json:"smtpPort"`
	SMTPUsername string `json:"smtpUsername"`
	SMTPPassword string `json:"smtpPassword"`
	FromEmail    string `json:"fromEmail"`
	FromName     string `json:"fromName"`

	OAuthEmail   string `json:"oauthEmail"`
	RefreshToken string `json:"refreshToken"`
}

// GetMailProvider returns the tenant's mail settings with secrets masked.
func GetMailProvider(c *gin.Context) {
	companyUUID, ok := companyFromContext(c)
	if !ok {
		return
	}

	var pc models.MailProviderConfig
	err := config.DB.Where("company_id = ?", companyUUID).First(&pc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusOK, gin.H{"provider": "legacy"})
		return
	}
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	provider := pc.Provider
	if provider == models.ProviderLegacy {
		provider = "legacy"
	}
	c.JSON(http.StatusOK, gin.H{
		"provider":   provider,
		"smtpHost":   pc.SMTPHost,
		"smtpPort":   pc.SMTPPort,
		"fromEmail":  pc.FromEmail,
		"fromName":   pc.FromName,
		"oauthEmail": pc.OAuthEmail,
		"connected":  pc.Provider != models.ProviderOAuth || pc.RefreshToken != "",
	})
}

// UpdateMailProvider upserts the tenant's mail settings. This is the settings
// boundary the provider resolver reads from.
func UpdateMailProvider(c *gin.Context) {
	companyUUID, ok := companyFromContext(c)
	if !ok {
		return
	}

	var input MailProviderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	provider := input.Provider
	if provider == "legacy" {
		provider = models.ProviderLegacy
	}

	var pc models.MailProviderConfig
	err := config.DB.Where("company_id = ?", companyUUID).First(&pc).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	pc.CompanyID = companyUUID
	pc.Provider = provider
	pc.SMTPHost = input.SMTPHost
	pc.SMTPPort = input.SMTPPort
	if input.SMTPUsername != "" {
		pc.SMTPUsername = input.SMTPUsername
	}
	if input.SMTPPassword != "" {
		pc.SMTPPassword = input.SMTPPassword
	}
	pc.FromEmail = input.FromEmail
	pc.FromName = input.FromName
	pc.OAuthEmail = input.OAuthEmail
	if input.RefreshToken != "" {
		pc.RefreshToken = input.RefreshToken
		// New authorization invalidates whatever access token was cached.
		pc.AccessToken = ""
		pc.TokenExpiry = nil
	}

	if err := config.DB.Save(&pc).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to save mail settings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Mail settings updated"})
}
