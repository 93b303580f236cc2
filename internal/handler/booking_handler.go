package handler

import (
	"errors"
	"net/http"

	"github.com/umarabbas75/fly-inn-app-sub004/internal/middleware"
	"github.com/umarabbas75/fly-inn-app-sub004/internal/model"
	"github.com/umarabbas75/fly-inn-app-sub004/internal/service"
	"github.com/umarabbas75/fly-inn-app-sub004/pkg/pagination"
	"github.com/umarabbas75/fly-inn-app-sub004/pkg/response"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	bookingService service.BookingService
}

func NewBookingHandler(bookingService service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

func (h *BookingHandler) RegisterRoutes(router *gin.RouterGroup) {
	bookings := router.Group("/api/bookings")
	bookings.Use(middleware.RequireRole(model.RoleAdmin, model.RoleHost, model.RoleGuest))
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("", h.ListBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.GET("/:id/refund-preview", h.PreviewRefund)
		bookings.POST("/:id/cancel", h.CancelBooking)
	}
}

// CreateBooking books a stay for the authenticated guest
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req service.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), middleware.RequesterID(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, booking))
}

// ListBookings lists the requester's bookings (all bookings for admins)
func (h *BookingHandler) ListBookings(c *gin.Context) {
	p := pagination.Parse(c)

	bookings, total, err := h.bookingService.ListBookings(c.Request.Context(),
		middleware.RequesterID(c), middleware.RequesterRole(c), p.Page, p.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, bookings, p.Page, p.Limit, total))
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	booking, err := h.bookingService.GetBooking(c.Request.Context(), c.Param("id"),
		middleware.RequesterID(c), middleware.RequesterRole(c))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, booking))
}

// PreviewRefund computes what the guest would get back if they cancelled now
// @Summary      Preview cancellation refund
// @Description  Evaluates the booking's cancellation policy at the current instant without cancelling anything
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Booking ID"
// @Success      200  {object}  response.Response{data=service.RefundPreviewResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/bookings/{id}/refund-preview [get]
func (h *BookingHandler) PreviewRefund(c *gin.Context) {
	preview, err := h.bookingService.PreviewRefund(c.Request.Context(), c.Param("id"),
		middleware.RequesterID(c), middleware.RequesterRole(c))
	if err != nil {
		status := http.StatusNotFound
		if errors.Is(err, service.ErrPolicyUnavailable) {
			status = http.StatusInternalServerError
		}
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, preview))
}

// CancelBooking cancels the booking and applies the computed refund
// @Summary      Cancel a booking
// @Description  Computes the refund from the booking's cancellation policy and marks the booking cancelled
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Booking ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/bookings/{id}/cancel [post]
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	booking, refundResult, err := h.bookingService.CancelBooking(c.Request.Context(), c.Param("id"),
		middleware.RequesterID(c), middleware.RequesterRole(c))
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrPolicyUnavailable) {
			status = http.StatusInternalServerError
		}
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"booking": booking,
		"refund":  refundResult,
	}))
}
