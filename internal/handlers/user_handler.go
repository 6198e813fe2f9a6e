package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"umlforge/internal/middlewares"
	"umlforge/internal/responses"
	"umlforge/internal/services"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) Me(c *gin.Context) {
	userID := middlewares.UserID(c)
	if userID == nil {
		responses.Fail(c, http.StatusUnauthorized, errors.New("unauthorized"), "Not logged in")
		return
	}

	user, err := h.userService.GetByID(*userID)
	if err != nil {
		responses.Fail(c, http.StatusNotFound, err, "User not found")
		return
	}

	responses.Success(c, http.StatusOK, user, "")
}
