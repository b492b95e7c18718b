package attendance

import (
	"go-hrms/internal/middleware"
	"go-hrms/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service, jwtSecret string) {
	attendances := r.Group("/attendances")
	attendances.Use(middleware.AuthMiddleware(jwtSecret))
	{
		attendances.GET("", middleware.RBACAuthorize(rbacService, "attendance", rbac.ActionRead), h.GetAll)
		attendances.GET("/:employee_id/:date", middleware.RBACAuthorize(rbacService, "attendance", rbac.ActionRead), h.GetForDay)
	}
}
