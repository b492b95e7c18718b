package od

import (
	"go-hrms/internal/middleware"
	"go-hrms/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service, jwtSecret string) {
	ods := r.Group("/ods")
	ods.Use(middleware.AuthMiddleware(jwtSecret))
	{
		ods.GET("", middleware.RBACAuthorize(rbacService, "od", rbac.ActionRead), h.GetAll)
		ods.GET("/:id", middleware.RBACAuthorize(rbacService, "od", rbac.ActionRead), h.GetByID)
		ods.POST("", middleware.RBACAuthorize(rbacService, "od", rbac.ActionCreate), h.Create)
		ods.POST("/:id/stages/:stage", h.Resolve)
	}
}
