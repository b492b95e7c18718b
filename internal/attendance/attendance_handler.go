package attendance

import (
	"net/http"

	"go-hrms/internal/middleware"
	"go-hrms/internal/shared/apperror"
	"go-hrms/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	rbac    middleware.RBACService
	logger  *zap.Logger
}

func NewHandler(service Service, rbac middleware.RBACService, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("attendance.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.handler")
	}
	return &Handler{service: service, rbac: rbac, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("attendance request failed",
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) canReadAll(c *gin.Context) bool {
	return middleware.HasPermission(c, h.rbac, "attendance", "read_all")
}

func (h *Handler) GetAll(c *gin.Context) {
	var q ListAttendanceQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	resp, err := h.service.List(c.Request.Context(), c.GetString(middleware.ContextEmployeeID), h.canReadAll(c), q)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	page, meta := response.Paginate(c, resp)
	response.Success(c, http.StatusOK, page, &meta)
}

func (h *Handler) GetForDay(c *gin.Context) {
	employeeID := c.Param("employee_id")
	actorID := c.GetString(middleware.ContextEmployeeID)
	if employeeID != actorID && !h.canReadAll(c) {
		forbidden := apperror.ErrForbidden
		response.Error(c, forbidden.HTTPStatus, forbidden.Code, forbidden.Message, nil)
		return
	}

	resp, err := h.service.GetForDay(c.Request.Context(), employeeID, c.Param("date"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
