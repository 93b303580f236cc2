package handler

import (
	"net/http"

	"github.com/umarabbas75/fly-inn-app-sub004/internal/middleware"
	"github.com/umarabbas75/fly-inn-app-sub004/internal/model"
	"github.com/umarabbas75/fly-inn-app-sub004/internal/service"
	"github.com/umarabbas75/fly-inn-app-sub004/pkg/response"

	"github.com/gin-gonic/gin"
)

type PolicyHandler struct {
	policyService service.PolicyService
}

func NewPolicyHandler(policyService service.PolicyService) *PolicyHandler {
	return &PolicyHandler{policyService: policyService}
}

func (h *PolicyHandler) RegisterRoutes(router *gin.RouterGroup) {
	policies := router.Group("/api/admin/cancellation-policy")
	policies.Use(middleware.RequireRole(model.RoleAdmin))
	{
		policies.GET("", h.ListPolicies)
		policies.GET("/:id", h.GetPolicy)
		policies.POST("", h.CreatePolicy)
		policies.PUT("/:id", h.UpdatePolicy)
		policies.DELETE("/:id", h.DeletePolicy)
	}
}

// ListPolicies returns all cancellation policies
// @Summary      List cancellation policies
// @Tags         cancellation-policy
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.PolicyResponse}
// @Failure      500  {object}  response.Response
// @Router       /api/admin/cancellation-policy [get]
func (h *PolicyHandler) ListPolicies(c *gin.Context) {
	policies, err := h.policyService.ListPolicies(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, policies))
}

// GetPolicy returns a single cancellation policy by id
func (h *PolicyHandler) GetPolicy(c *gin.Context) {
	policy, err := h.policyService.GetPolicy(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, policy))
}

// CreatePolicy creates a new cancellation policy
// @Summary      Create cancellation policy
// @Tags         cancellation-policy
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreatePolicyRequest  true  "Policy"
// @Success      201      {object}  response.Response{data=service.PolicyResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/admin/cancellation-policy [post]
func (h *PolicyHandler) CreatePolicy(c *gin.Context) {
	var req service.CreatePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	policy, err := h.policyService.CreatePolicy(c.Request.Context(), req, middleware.RequesterID(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, policy))
}

// UpdatePolicy replaces the editable fields of a cancellation policy
func (h *PolicyHandler) UpdatePolicy(c *gin.Context) {
	var req service.UpdatePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	policy, err := h.policyService.UpdatePolicy(c.Request.Context(), c.Param("id"), req, middleware.RequesterID(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, policy))
}

// DeletePolicy removes a cancellation policy that no booking references
func (h *PolicyHandler) DeletePolicy(c *gin.Context) {
	if err := h.policyService.DeletePolicy(c.Request.Context(), c.Param("id"), middleware.RequesterID(c)); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}
