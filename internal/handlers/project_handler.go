package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"umlforge/internal/middlewares"
	"umlforge/internal/responses"
	"umlforge/internal/services"
	"umlforge/internal/utils"
)

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

func (h *ProjectHandler) Create(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Project name is required")
		return
	}

	userID := middlewares.UserID(c)
	if userID == nil {
		responses.Fail(c, http.StatusUnauthorized, errors.New("unauthorized"), "Not logged in")
		return
	}

	project, diagram, err := h.projectService.Create(*userID, req.Name)
	if err != nil {
		responses.Fail(c, http.StatusInternalServerError, err, "Could not create project")
		return
	}

	res := gin.H{
		"project": project,
		"diagram": diagram,
	}
	responses.Success(c, http.StatusCreated, res, "Project created")
}

func (h *ProjectHandler) List(c *gin.Context) {
	userID := middlewares.UserID(c)
	if userID == nil {
		responses.Fail(c, http.StatusUnauthorized, errors.New("unauthorized"), "Not logged in")
		return
	}

	projects, err := h.projectService.List(*userID)
	if err != nil {
		responses.Fail(c, http.StatusInternalServerError, err, "Could not list projects")
		return
	}

	responses.Success(c, http.StatusOK, projects, "")
}

func (h *ProjectHandler) Get(c *gin.Context) {
	id, err := utils.ParseUUID(c.Param("id"))
	if err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid project id")
		return
	}
	userID := middlewares.UserID(c)
	if userID == nil {
		responses.Fail(c, http.StatusUnauthorized, errors.New("unauthorized"), "Not logged in")
		return
	}

	project, err := h.projectService.Get(id, *userID)
	if err != nil {
		failFromService(c, err, "Could not fetch project")
		return
	}

	responses.Success(c, http.StatusOK, project, "")
}

func (h *ProjectHandler) Rename(c *gin.Context) {
	id, err := utils.ParseUUID(c.Param("id"))
	if err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid project id")
		return
	}

	var req struct {
		Name string `json:"name" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Project name is required")
		return
	}

	userID := middlewares.UserID(c)
	if userID == nil {
		responses.Fail(c, http.StatusUnauthorized, errors.New("unauthorized"), "Not logged in")
		return
	}

	project, err := h.projectService.Rename(id, *userID, req.Name)
	if err != nil {
		failFromService(c, err, "Could not rename project")
		return
	}

	responses.Success(c, http.StatusOK, project, "Project renamed")
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	id, err := utils.ParseUUID(c.Param("id"))
	if err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid project id")
		return
	}
	userID := middlewares.UserID(c)
	if userID == nil {
		responses.Fail(c, http.StatusUnauthorized, errors.New("unauthorized"), "Not logged in")
		return
	}

	if err := h.projectService.Delete(id, *userID); err != nil {
		failFromService(c, err, "Could not delete project")
		return
	}

	responses.Success(c, http.StatusOK, nil, "Project deleted")
}

func (h *ProjectHandler) ListDiagrams(c *gin.Context) {
	id, err := utils.ParseUUID(c.Param("id"))
	if err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid project id")
		return
	}
	userID := middlewares.UserID(c)
	if userID == nil {
		responses.Fail(c, http.StatusUnauthorized, errors.New("unauthorized"), "Not logged in")
		return
	}

	diagrams, err := h.projectService.ListDiagrams(id, *userID)
	if err != nil {
		failFromService(c, err, "Could not list diagrams")
		return
	}

	responses.Success(c, http.StatusOK, diagrams, "")
}
