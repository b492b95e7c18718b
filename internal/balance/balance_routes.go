package balance

import (
	"go-hrms/internal/middleware"
	"go-hrms/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service, jwtSecret string) {
	balances := r.Group("/balances")
	balances.Use(middleware.AuthMiddleware(jwtSecret))
	balances.Use(middleware.RBACAuthorize(rbacService, "balance", rbac.ActionRead))
	{
		balances.GET("/me", h.GetMine)
		balances.GET("/:id", h.GetByEmployee)
	}

	// same read path, addressed from the employee resource
	r.GET("/employees/:id/balance",
		middleware.AuthMiddleware(jwtSecret),
		middleware.RBACAuthorize(rbacService, "balance", rbac.ActionRead),
		h.GetByEmployee,
	)
}
