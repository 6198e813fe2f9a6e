package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"umlforge/internal/middlewares"
	"umlforge/internal/responses"
	"umlforge/internal/services"
	"umlforge/internal/utils"
)

type ShareHandler struct {
	shareService *services.ShareService
}

func NewShareHandler(shareService *services.ShareService) *ShareHandler {
	return &ShareHandler{shareService: shareService}
}

func (h *ShareHandler) Create(c *gin.Context) {
	var req struct {
		DiagramID    string `json:"diagram_id" binding:"required"`
		ExpiresHours int    `json:"expires_hours"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "diagram_id is required")
		return
	}

	diagramID, err := utils.ParseUUID(req.DiagramID)
	if err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid diagram id")
		return
	}

	userID := middlewares.UserID(c)
	if userID == nil {
		responses.Fail(c, http.StatusUnauthorized, errors.New("unauthorized"), "Not logged in")
		return
	}

	share, err := h.shareService.Create(diagramID, *userID, time.Duration(req.ExpiresHours)*time.Hour)
	if err != nil {
		failFromService(c, err, "Could not create share link")
		return
	}

	res := gin.H{
		"share":     share,
		"share_ref": services.SharePrefix + share.Token,
	}
	responses.Success(c, http.StatusCreated, res, "Share link created")
}

// Get is public: anyone with the token sees the share and its snapshot.
func (h *ShareHandler) Get(c *gin.Context) {
	share, err := h.shareService.Get(c.Param("token"))
	if err != nil {
		failFromService(c, err, "Share link not found")
		return
	}

	responses.Success(c, http.StatusOK, share, "")
}

func (h *ShareHandler) List(c *gin.Context) {
	userID := middlewares.UserID(c)
	if userID == nil {
		responses.Fail(c, http.StatusUnauthorized, errors.New("unauthorized"), "Not logged in")
		return
	}

	shares, err := h.shareService.List(*userID)
	if err != nil {
		responses.Fail(c, http.StatusInternalServerError, err, "Could not list shares")
		return
	}

	responses.Success(c, http.StatusOK, shares, "")
}

func (h *ShareHandler) Revoke(c *gin.Context) {
	userID := middlewares.UserID(c)
	if userID == nil {
		responses.Fail(c, http.StatusUnauthorized, errors.New("unauthorized"), "Not logged in")
		return
	}

	if err := h.shareService.Revoke(c.Param("token"), *userID); err != nil {
		failFromService(c, err, "Could not revoke share link")
		return
	}

	responses.Success(c, http.StatusOK, nil, "Share link revoked")
}
