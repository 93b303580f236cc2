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

type StayHandler struct {
	stayService service.StayService
}

func NewStayHandler(stayService service.StayService) *StayHandler {
	return &StayHandler{stayService: stayService}
}

func (h *StayHandler) RegisterRoutes(router *gin.RouterGroup) {
	stays := router.Group("/api/stays")
	stays.Use(middleware.RequireRole(model.RoleAdmin, model.RoleHost, model.RoleGuest))
	{
		stays.GET("", h.ListStays)
		stays.GET("/:id", h.GetStay)
	}

	hostStays := router.Group("/api/stays")
	hostStays.Use(middleware.RequireRole(model.RoleAdmin, model.RoleHost))
	{
		hostStays.POST("", h.CreateStay)
		hostStays.PUT("/:id", h.UpdateStay)
		hostStays.DELETE("/:id", h.DeleteStay)
	}
}

// CreateStay publishes a new listing owned by the requesting host
func (h *StayHandler) CreateStay(c *gin.Context) {
	var req service.CreateStayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	stay, err := h.stayService.CreateStay(c.Request.Context(), middleware.RequesterID(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, stay))
}

func (h *StayHandler) GetStay(c *gin.Context) {
	stay, err := h.stayService.GetStay(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, stay))
}

func (h *StayHandler) ListStays(c *gin.Context) {
	p := pagination.Parse(c)

	stays, total, err := h.stayService.ListStays(c.Request.Context(), p.Page, p.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, stays, p.Page, p.Limit, total))
}

func (h *StayHandler) UpdateStay(c *gin.Context) {
	var req service.UpdateStayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	stay, err := h.stayService.UpdateStay(c.Request.Context(), c.Param("id"),
		middleware.RequesterID(c), middleware.RequesterRole(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, stay))
}

func (h *StayHandler) DeleteStay(c *gin.Context) {
	if err := h.stayService.DeleteStay(c.Request.Context(), c.Param("id"),
		middleware.RequesterID(c), middleware.RequesterRole(c)); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Stay deleted successfully"}))
}
