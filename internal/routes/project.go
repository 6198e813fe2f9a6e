package routes

import (
	"github.com/gin-gonic/gin"

	"umlforge/internal/handlers"
	"umlforge/internal/middlewares"
)

type ProjectRoutes struct {
	handler *handlers.ProjectHandler
}

func NewProjectRoutes(handler *handlers.ProjectHandler) *ProjectRoutes {
	return &ProjectRoutes{handler: handler}
}

func (r *ProjectRoutes) RegisterRoutes(router *gin.RouterGroup) {
	projects := router.Group("/projects")
	projects.Use(middlewares.Authenticate)
	{
		projects.POST("", r.handler.Create)
		projects.GET("", r.handler.List)
		projects.GET("/:id", r.handler.Get)
		projects.PUT("/:id", r.handler.Rename)
		projects.DELETE("/:id", r.handler.Delete)
		projects.GET("/:id/diagrams", r.handler.ListDiagrams)
	}
}
