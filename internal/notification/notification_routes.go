package notification

import (
	"go-hrms/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, jwtSecret string) {
	inbox := r.Group("/notifications/me")
	inbox.Use(middleware.AuthMiddleware(jwtSecret))
	{
		inbox.GET("", h.Inbox)
		inbox.POST("/read", h.MarkAllRead)
		inbox.PATCH("/:id/read", h.MarkRead)
	}
}
