package balance

import (
	"net/http"

	"go-hrms/internal/middleware"
	"go-hrms/internal/shared/apperror"
	"go-hrms/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	ledger Ledger
	rbac   middleware.RBACService
	logger *zap.Logger
}

func NewHandler(ledger Ledger, rbac middleware.RBACService, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("balance.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.handler")
	}
	return &Handler{ledger: ledger, rbac: rbac, logger: l}
}

func (h *Handler) GetMine(c *gin.Context) {
	h.respond(c, c.GetString(middleware.ContextEmployeeID))
}

func (h *Handler) GetByEmployee(c *gin.Context) {
	employeeID := c.Param("id")
	if employeeID != c.GetString(middleware.ContextEmployeeID) &&
		!middleware.HasPermission(c, h.rbac, "balance", "read_all") {
		forbidden := apperror.ErrForbidden
		response.Error(c, forbidden.HTTPStatus, forbidden.Code, forbidden.Message, nil)
		return
	}
	h.respond(c, employeeID)
}

func (h *Handler) respond(c *gin.Context, employeeID string) {
	resp, err := h.ledger.Balance(c.Request.Context(), employeeID)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		h.logger.Warn("balance request failed",
			zap.String("employee_id", employeeID),
			zap.Int("status", httpErr.Status),
			zap.String("code", httpErr.Code),
		)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
