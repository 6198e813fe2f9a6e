package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"umlforge/internal/handlers"
)

func RegisterRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	projectHandler *handlers.ProjectHandler,
	diagramHandler *handlers.DiagramHandler,
	streamHandler *handlers.StreamHandler,
	shareHandler *handlers.ShareHandler,
	assistHandler *handlers.AssistHandler,
) {
	api := router.Group("/api/v1")

	authRoutes := NewAuthRoutes(authHandler)
	authRoutes.RegisterRoutes(api)

	userRoutes := NewUserRoutes(userHandler)
	userRoutes.RegisterRoutes(api)

	projectRoutes := NewProjectRoutes(projectHandler)
	projectRoutes.RegisterRoutes(api)

	diagramRoutes := NewDiagramRoutes(diagramHandler, streamHandler)
	diagramRoutes.RegisterRoutes(api)

	shareRoutes := NewShareRoutes(shareHandler)
	shareRoutes.RegisterRoutes(api)

	assistRoutes := NewAssistRoutes(assistHandler)
	assistRoutes.RegisterRoutes(api)

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})
}
