package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"umlforge/internal/assist"
	"umlforge/internal/middlewares"
	"umlforge/internal/models"
	"umlforge/internal/responses"
	"umlforge/internal/services"
)

type AssistHandler struct {
	assistService *services.AssistService
}

func NewAssistHandler(assistService *services.AssistService) *AssistHandler {
	return &AssistHandler{assistService: assistService}
}

type assistOp func(ctx context.Context, ref, prompt string, userID *uuid.UUID, sessionID string) (*models.Diagram, error)

func (h *AssistHandler) Generate(c *gin.Context) {
	h.run(c, h.assistService.Generate)
}

func (h *AssistHandler) Modify(c *gin.Context) {
	h.run(c, h.assistService.Modify)
}

func (h *AssistHandler) run(c *gin.Context, op assistOp) {
	var req struct {
		DiagramID string `json:"diagram_id" binding:"required"`
		Prompt    string `json:"prompt"     binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "diagram_id and prompt are required")
		return
	}

	diagram, err := op(c.Request.Context(), req.DiagramID, req.Prompt, middlewares.UserID(c), c.GetHeader(SessionHeader))
	if err != nil {
		if errors.Is(err, assist.ErrInvalidResponse) {
			responses.Fail(c, http.StatusUnprocessableEntity, err, "The AI returned an unusable diagram")
			return
		}
		failFromService(c, err, "AI request failed")
		return
	}

	responses.Success(c, http.StatusOK, diagram, "Diagram updated by assistant")
}
