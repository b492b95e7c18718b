package leave

import (
	"go-hrms/internal/middleware"
	"go-hrms/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
	jwtSecret string,
) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware(jwtSecret))
	{
		leaves.GET("", middleware.RBACAuthorize(rbacService, "leave", rbac.ActionRead), handler.GetAll)
		leaves.GET("/:id", middleware.RBACAuthorize(rbacService, "leave", rbac.ActionRead), handler.GetByID)
		leaves.POST("",
			middleware.RBACAuthorize(rbacService, "leave", rbac.ActionCreate),
			middleware.Idempotency(rdb, nil),
			handler.Create,
		)
		leaves.POST("/:id/stages/:stage", handler.Resolve)
	}
}
