package routes

import (
	"github.com/gin-gonic/gin"

	"umlforge/internal/handlers"
	"umlforge/internal/middlewares"
)

type DiagramRoutes struct {
	handler       *handlers.DiagramHandler
	streamHandler *handlers.StreamHandler
}

func NewDiagramRoutes(handler *handlers.DiagramHandler, streamHandler *handlers.StreamHandler) *DiagramRoutes {
	return &DiagramRoutes{handler: handler, streamHandler: streamHandler}
}

func (r *DiagramRoutes) RegisterRoutes(router *gin.RouterGroup) {
	// Diagram ids double as share references ("shared-<token>"), so the
	// routes take an optional token instead of requiring a login.
	diagrams := router.Group("/diagrams")
	diagrams.Use(middlewares.OptionalAuthenticate)
	{
		diagrams.POST("", r.handler.Create)
		diagrams.GET("/:id", r.handler.Get)
		diagrams.PUT("/:id", r.handler.Update)
		diagrams.DELETE("/:id", r.handler.Delete)
		diagrams.GET("/:id/export/:target", r.handler.Export)
		diagrams.GET("/:id/stream", r.streamHandler.Stream)
	}
}
