package od

import (
	"net/http"

	"go-hrms/internal/approval"
	"go-hrms/internal/domain"
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
	l := zap.L().Named("od.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("od.handler")
	}
	return &Handler{service: service, rbac: rbac, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("od request failed",
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func actorFrom(c *gin.Context) approval.Actor {
	return approval.Actor{
		EmployeeID: c.GetString(middleware.ContextEmployeeID),
		Role:       domain.Role(c.GetString(middleware.ContextRole)),
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateODRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}
	resp, err := h.service.Create(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	var q ListODQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}
	canReadAll := middleware.HasPermission(c, h.rbac, "request", "read_all")
	resp, err := h.service.List(c.Request.Context(), c.GetString(middleware.ContextEmployeeID), canReadAll, q)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	page, meta := response.Paginate(c, resp)
	response.Success(c, http.StatusOK, page, &meta)
}

func (h *Handler) GetByID(c *gin.Context) {
	canReadAll := middleware.HasPermission(c, h.rbac, "request", "read_all")
	resp, err := h.service.GetByID(c.Request.Context(), c.GetString(middleware.ContextEmployeeID), canReadAll, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Resolve(c *gin.Context) {
	stage, err := approval.ParseStage(c.Param("stage"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}
	decision, err := approval.ParseDecision(req.Decision)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.Resolve(c.Request.Context(), actorFrom(c), c.Param("id"), stage, decision)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
