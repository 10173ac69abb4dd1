// controllers/contact.go
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

// CreateContactInput defines the expected JSON structure for creating a contact
type CreateContactInput struct {
	FirstName   string  `json:"firstName" binding:"required"`
	LastName    string  `json:"lastName"`
	Email       string  `json:"email" binding:"required,email"`
	Phone       string  `json:"phone"`
	CompanyName string  `json:"companyName"`
	ServiceName string  `json:"serviceName"`
	Price       float64 `json:"price"`
	Units       int     `json:"units"`
	Notes       string  `json:"notes"`
}

type UpdateContactInput struct {
	FirstName   *string  `json:"firstName"`
	LastName    *string  `json:"lastName"`
	Email       *string  `json:"email"`
	Phone       *string  `json:"phone"`
	CompanyName *string  `json:"companyName"`
	ServiceName *string  `json:"serviceName"`
	Price       *float64 `json:"price"`
	Units       *int     `json:"units"`
	Notes       *string  `json:"notes"`
	IsActive    *bool    `json:"isActive"`
}

// CreateContact creates a new contact for the company
func CreateContact(c *gin.Context) {
	companyUUID, ok := companyFromContext(c)
	if !ok {
		return
	}
	userUUID, ok := userFromContext(c)
	if !ok {
		return
	}

	var input CreateContactInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Phone != "" && !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	// Check if email already exists for this company
	var existingContact models.Contact
	if err := config.DB.Where("company_id = ? AND email = ?", companyUUID, input.Email).
		First(&existingContact).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Contact with this email already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	contact := models.Contact{
		ID:              uuid.New(),
		CompanyID:       companyUUID,
		CreatedByUserID: userUUID,
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		Email:           input.Email,
		Phone:           input.Phone,
		CompanyName:     input.CompanyName,
		ServiceName:     input.ServiceName,
		Price:           input.Price,
		Units:           input.Units,
		Notes:           input.Notes,
		IsActive:        true,
	}

	if err := config.DB.Create(&contact).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create contact")
		return
	}

	c.JSON(http.StatusCreated, contact)
}

// GetContacts retrieves all contacts for the company
func GetContacts(c *gin.Context) {
	companyUUID, ok := companyFromContext(c)
	if !ok {
		return
	}

	var contacts []models.Contact
	if err := config.DB.Where("company_id = ?", companyUUID).Find(&contacts).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve contacts")
		return
	}
	c.JSON(http.StatusOK, contacts)
}

// GetContact retrieves a specific contact by ID
func GetContact(c *gin.Context) {
	companyUUID, ok := companyFromContext(c)
	if !ok {
		return
	}

	contactUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid contact ID format")
		return
	}

	var contact models.Contact
	if err := config.DB.Where("company_id = ? AND id = ?", companyUUID, contactUUID).
		First(&contact).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Contact not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}
	c.JSON(http.StatusOK, contact)
}

// UpdateContact updates an existing contact
func UpdateContact(c *gin.Context) {
	companyUUID, ok := companyFromContext(c)
	if !ok {
		return
	}

	contactUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid contact ID format")
		return
	}

	var input UpdateContactInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var contact models.Contact
	if err := config.DB.Where("company_id = ? AND id = ?", companyUUID, contactUUID).
		First(&contact).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Contact not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.FirstName != nil {
		contact.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		contact.LastName = *input.LastName
	}
	if input.Email != nil && *input.Email != contact.Email {
		var existingContact models.Contact
		if err := config.DB.Where("company_id = ? AND email = ?", companyUUID, *input.Email).
			First(&existingContact).Error; err == nil {
			utils.RespondWithError(c, http.StatusConflict, "Another contact with this email already exists")
			return
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			return
		}
		contact.Email = *input.Email
	}
	if input.Phone != nil {
		if *input.Phone != "" && !utils.ValidatePhone(*input.Phone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
			return
		}
		contact.Phone = *input.Phone
	}
	if input.CompanyName != nil {
		contact.CompanyName = *input.CompanyName
	}
	if input.ServiceName != nil {
		contact.ServiceName = *input.ServiceName
	}
	if input.Price != nil {
		contact.Price = *input.Price
	}
	if input.Units != nil {
		contact.Units = *input.Units
	}
	if input.Notes != nil {
		contact.Notes = *input.Notes
	}
	if input.IsActive != nil {
		contact.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&contact).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update contact")
		return
	}
	c.JSON(http.StatusOK, contact)
}

// DeleteContact soft deletes a contact
func DeleteContact(c *gin.Context) {
	companyUUID, ok := companyFromContext(c)
	if !ok {
		return
	}

	contactUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid contact ID format")
		return
	}

	result := config.DB.Where("company_id = ? AND id = ?", companyUUID, contactUUID).
		Delete(&models.Contact{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete contact")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Contact not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contact deleted successfully"})
}
