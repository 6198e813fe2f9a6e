package routes

import (
	"github.com/gin-gonic/gin"

	"umlforge/internal/handlers"
	"umlforge/internal/middlewares"
)

type AssistRoutes struct {
	handler *handlers.AssistHandler
}

func NewAssistRoutes(handler *handlers.AssistHandler) *AssistRoutes {
	return &AssistRoutes{handler: handler}
}

func (r *AssistRoutes) RegisterRoutes(router *gin.RouterGroup) {
	assist := router.Group("/assist")
	assist.Use(middlewares.OptionalAuthenticate)
	{
		assist.POST("/generate", r.handler.Generate)
		assist.POST("/modify", r.handler.Modify)
	}
}
