package rbac_http

import (
	"go-hrms/internal/middleware"
	"go-hrms/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *rbac.Handler, service rbac.Service, jwtSecret string) {
	group := r.Group("/rbac")
	group.Use(middleware.AuthMiddleware(jwtSecret))
	{
		group.POST("/enforce", handler.Enforce)
		group.GET("/policies", middleware.RBACAuthorize(service, "rbac", rbac.ActionManage), handler.ListPolicies)
		group.POST("/policies/reload", middleware.RBACAuthorize(service, "rbac", rbac.ActionManage), handler.Reload)
	}
}
