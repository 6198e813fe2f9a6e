package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"umlforge/internal/responses"
	"umlforge/internal/services"
)

// failFromService maps service errors onto HTTP statuses.
func failFromService(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		responses.Fail(c, http.StatusNotFound, err, message)
	case errors.Is(err, services.ErrForbidden):
		responses.Fail(c, http.StatusForbidden, err, message)
	default:
		responses.Fail(c, http.StatusInternalServerError, err, message)
	}
}
