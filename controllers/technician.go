// controllers/technician.go
package controllers

import (
	"net/http"

	"bookpilot-backend/config"
	"bookpilot-backend/models"
	"bookpilot-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CreateTechnicianInput struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func CreateTechnician(c *gin.Context) {
	companyUUID, ok := companyFromContext(c)
	if !ok {
		return
	}

	var input CreateTechnicianInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	technician := models.Technician{
		ID:        uuid.New(),
		CompanyID: companyUUID,
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		IsActive:  true,
	}

	if err := config.DB.Create(&technician).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create technician")
		return
	}
	c.JSON(http.StatusCreated, technician)
}

func GetTechnicians(c *gin.Context) {
	companyUUID, ok := companyFromContext(c)
	if !ok {
		return
	}

	var technicians []models.Technician
	if err := config.DB.Where("company_id = ?", companyUUID).Find(&technicians).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve technicians")
		return
	}
	c.JSON(http.StatusOK, technicians)
}

func DeleteTechnician(c *gin.Context) {
	companyUUID, ok := companyFromContext(c)
	if !ok {
		return
	}

	technicianUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid technician ID format")
		return
	}

	result := config.DB.Where("company_id = ? AND id = ?", companyUUID, technicianUUID).
		Delete(&models.Technician{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete technician")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Technician not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Technician deleted successfully"})
}
