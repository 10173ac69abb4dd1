// controllers/campaign.go
package controllers

import (
	"errors"
	"net/http"

	"bookpilot-backend/config"
	"bookpilot-backend/models"
	"bookpilot-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateCampaignInput struct {
	TemplateID string                `json:"templateId" binding:"required"`
	Subject    string                `json:"subject" binding:"required"`
	Body       string                `json:"body" binding:"required"`
	Status     string                `json:"status" binding:"omitempty,oneof=draft active"`
	Reminders  []models.ReminderRule `json:"reminders"`
}

type UpdateCampaignInput struct {
	Subject   *string                `json:"subject"`
	Body      *string                `json:"body"`
	Status    *string                `json:"status" binding:"omitempty,oneof=draft active"`
	Reminders *[]models.ReminderRule `json:"reminders"`
}

// CreateCampaign creates a tenant message template. Several campaigns may
// exist for one templateId; resolution picks the newest active one.
func CreateCampaign(c *gin.Context) {
	companyUUID, ok := companyFromContext(c)
	if !ok {
		return
	}

	var input CreateCampaignInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	status := input.Status
	if status == "" {
		status = models.CampaignDraft
	}

	campaign := models.Campaign{
		ID:         uuid.New(),
		CompanyID:  companyUUID,
		TemplateID: input.TemplateID,
		Subject:    input.Subject,
		Body:       input.Body,
		Status:     status,
		Reminders:  input.Reminders,
	}

	if err := config.DB.Create(&campaign).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create campaign")
		return
	}

	c.JSON(http.StatusCreated, campaign)
}

func GetCampaigns(c *gin.Context) {
	companyUUID, ok := companyFromContext(c)
	if !ok {
		return
	}

	q := config.DB.Where("company_id = ?", companyUUID)
	if kind := c.Query("templateId"); kind != "" {
		q = q.Where("template_id = ?", kind)
	}

	var campaigns []models.Campaign
	if err := q.Order("updated_at DESC").Find(&campaigns).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve campaigns")
		return
	}
	c.JSON(http.StatusOK, campaigns)
}

func GetCampaign(c *gin.Context) {
	companyUUID, ok := companyFromContext(c)
	if !ok {
		return
	}

	campaignUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid campaign ID format")
		return
	}

	var campaign models.Campaign
	if err := config.DB.Where("company_id = ? AND id = ?", companyUUID, campaignUUID).
		First(&campaign).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Campaign not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}
	c.JSON(http.StatusOK, campaign)
}

func UpdateCampaign(c *gin.Context) {
	companyUUID, ok := companyFromContext(c)
	if !ok {
		return
	}

	campaignUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid campaign ID format")
		return
	}

	var input UpdateCampaignInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var campaign models.Campaign
	if err := config.DB.Where("company_id = ? AND id = ?", companyUUID, campaignUUID).
		First(&campaign).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Campaign not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Subject != nil {
		campaign.Subject = *input.Subject
	}
	if input.Body != nil {
		campaign.Body = *input.Body
	}
	if input.Status != nil {
		campaign.Status = *input.Status
	}
	if input.Reminders != nil {
		campaign.Reminders = *input.Reminders
	}

	if err := config.DB.Save(&campaign).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update campaign")
		return
	}
	c.JSON(http.StatusOK, campaign)
}

func DeleteCampaign(c *gin.Context) {
	companyUUID, ok := companyFromContext(c)
	if !ok {
		return
	}

	campaignUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid campaign ID format")
		return
	}

	result := config.DB.Where("company_id = ? AND id = ?", companyUUID, campaignUUID).
		Delete(&models.Campaign{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete campaign")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Campaign not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Campaign deleted successfully"})
}
