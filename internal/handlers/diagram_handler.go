package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"umlforge/internal/codegen"
	"umlforge/internal/middlewares"
	"umlforge/internal/models"
	"umlforge/internal/responses"
	"umlforge/internal/services"
	"umlforge/internal/utils"
)

// SessionHeader carries the editing session id so a save can be told apart
// from other sessions' saves on the update stream.
const SessionHeader = "X-Session-Id"

type DiagramHandler struct {
	diagramService *services.DiagramService
	logger         *zap.Logger
}

func NewDiagramHandler(diagramService *services.DiagramService, logger *zap.Logger) *DiagramHandler {
	return &DiagramHandler{diagramService: diagramService, logger: logger}
}

func (h *DiagramHandler) Create(c *gin.Context) {
	var req struct {
		ProjectID string              `json:"project_id" binding:"required"`
		Data      *models.DiagramData `json:"diagram_data"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "project_id is required")
		return
	}

	projectID, err := utils.ParseUUID(req.ProjectID)
	if err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid project id")
		return
	}

	diagram, err := h.diagramService.Create(projectID, req.Data, middlewares.UserID(c))
	if err != nil {
		failFromService(c, err, "Could not create diagram")
		return
	}

	responses.Success(c, http.StatusCreated, diagram, "Diagram created")
}

func (h *DiagramHandler) Get(c *gin.Context) {
	diagram, err := h.diagramService.Get(c.Param("id"), middlewares.UserID(c))
	if err != nil {
		failFromService(c, err, "Could not fetch diagram")
		return
	}

	responses.Success(c, http.StatusOK, diagram, "")
}

func (h *DiagramHandler) Update(c *gin.Context) {
	var req models.DiagramData
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid diagram payload")
		return
	}

	diagram, err := h.diagramService.Update(c.Param("id"), req, middlewares.UserID(c), c.GetHeader(SessionHeader))
	if err != nil {
		failFromService(c, err, "Could not update diagram")
		return
	}

	responses.Success(c, http.StatusOK, diagram, "Diagram updated")
}

func (h *DiagramHandler) Delete(c *gin.Context) {
	if err := h.diagramService.Delete(c.Param("id"), middlewares.UserID(c)); err != nil {
		failFromService(c, err, "Could not delete diagram")
		return
	}

	responses.Success(c, http.StatusOK, nil, "Diagram deleted")
}

// Export renders the diagram as application code. Target selects the slice:
// "spring", "flutter", "scaffold" or "all".
func (h *DiagramHandler) Export(c *gin.Context) {
	target := c.Param("target")
	switch target {
	case "spring", "flutter", "scaffold", "all":
	default:
		responses.Fail(c, http.StatusBadRequest, errors.New("unknown export target"), "Target must be spring, flutter, scaffold or all")
		return
	}

	diagram, err := h.diagramService.Get(c.Param("id"), middlewares.UserID(c))
	if err != nil {
		failFromService(c, err, "Could not fetch diagram")
		return
	}

	data := models.DiagramData{}
	if diagram.Data != nil {
		data = *diagram.Data
	}

	result := codegen.Generate(data.Classes, data.Associations, codegen.Options{
		BasePackage: c.Query("package"),
		ProjectName: c.Query("project"),
	}, h.logger)

	switch target {
	case "spring":
		responses.Success(c, http.StatusOK, result.Spring, "")
	case "flutter":
		responses.Success(c, http.StatusOK, result.Flutter, "")
	case "scaffold":
		responses.Success(c, http.StatusOK, result.Scaffold, "")
	default:
		responses.Success(c, http.StatusOK, result, "")
	}
}
