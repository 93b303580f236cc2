package handler

import (
	"net/http"

	"github.com/umarabbas75/fly-inn-app-sub004/internal/middleware"
	"github.com/umarabbas75/fly-inn-app-sub004/internal/model"
	"github.com/umarabbas75/fly-inn-app-sub004/internal/service"
	"github.com/umarabbas75/fly-inn-app-sub004/pkg/pagination"
	"github.com/umarabbas75/fly-inn-app-sub004/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService service.AuditService
}

func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	audit := router.Group("/api/admin/audit-logs")
	audit.Use(middleware.RequireRole(model.RoleAdmin))
	{
		audit.GET("", h.ListLogs)
	}
}

func (h *AuditHandler) ListLogs(c *gin.Context) {
	p := pagination.Parse(c)

	logs, total, err := h.auditService.ListLogs(c.Request.Context(), p.Page, p.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, logs, p.Page, p.Limit, total))
}
