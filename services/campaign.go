// services/campaign.go
package services

import (
	"errors"

	"bookpilot-backend/apperrors"
	"bookpilot-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ResolveCampaign returns the tenant's active campaign for a message kind.
// When a tenant has duplicate active campaigns for the same kind, the most
// recently updated one wins. Callers never build subject/body themselves.
func ResolveCampaign(db *gorm.DB, companyID uuid.UUID, templateID string) (*models.Campaign, error) {
	var campaign models.Campaign
	err := db.Where("company_id = ? AND template_id = ? AND status = ?",
		companyID, templateID, models.CampaignActive).
		Order("updated_at DESC").
		First(&campaign).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFound("campaign", templateID)
	}
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}
