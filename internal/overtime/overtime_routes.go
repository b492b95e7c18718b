package overtime

import (
	"go-hrms/internal/middleware"
	"go-hrms/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service, rdb *redis.Client, jwtSecret string) {
	claims := r.Group("/overtime")
	claims.Use(middleware.AuthMiddleware(jwtSecret))
	{
		claims.GET("", middleware.RBACAuthorize(rbacService, "overtime", rbac.ActionRead), h.GetAll)
		claims.GET("/:id", middleware.RBACAuthorize(rbacService, "overtime", rbac.ActionRead), h.GetByID)
		claims.POST("",
			middleware.RBACAuthorize(rbacService, "overtime", rbac.ActionCreate),
			middleware.Idempotency(rdb, nil),
			h.Create,
		)
		claims.POST("/:id/stages/:stage", h.Resolve)
	}
}
