package routes

import (
	"github.com/gin-gonic/gin"

	"umlforge/internal/handlers"
	"umlforge/internal/middlewares"
)

type ShareRoutes struct {
	handler *handlers.ShareHandler
}

func NewShareRoutes(handler *handlers.ShareHandler) *ShareRoutes {
	return &ShareRoutes{handler: handler}
}

func (r *ShareRoutes) RegisterRoutes(router *gin.RouterGroup) {
	shares := router.Group("/shares")
	{
		// Anyone holding a token may look it up.
		shares.GET("/:token", r.handler.Get)

		protected := shares.Group("")
		protected.Use(middlewares.Authenticate)
		protected.POST("", r.handler.Create)
		protected.GET("", r.handler.List)
		protected.DELETE("/:token", r.handler.Revoke)
	}
}
