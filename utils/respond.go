// utils/respond.go
package utils

import (
	"errors"
	"net/http"

	"bookpilot-backend/apperrors"

	"github.com/gin-gonic/gin"
)

func RespondWithError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}

// RespondWithAppError maps the error taxonomy onto HTTP statuses. Anything
// untyped is a 500 with a generic message.
func RespondWithAppError(c *gin.Context, err error) {
	var vErr *apperrors.ValidationError
	var nfErr *apperrors.NotFoundError

	switch {
	case errors.As(err, &vErr):
		RespondWithError(c, http.StatusBadRequest, vErr.Message)
	case errors.As(err, &nfErr):
		RespondWithError(c, http.StatusNotFound, nfErr.Error())
	default:
		RespondWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}
