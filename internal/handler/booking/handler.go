package booking

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-booking/internal/handler"
	"github.com/jwalitptl/clinic-booking/internal/middleware"
	"github.com/jwalitptl/clinic-booking/internal/model"
	bookingsvc "github.com/jwalitptl/clinic-booking/internal/service/booking"
	apperrors "github.com/jwalitptl/clinic-booking/pkg/errors"
)

type Handler struct {
	service bookingsvc.BookingServicer
}

func NewHandler(service bookingsvc.BookingServicer) *Handler {
	return &Handler{service: service}
}

// listQuery is the admin filter on GET /bookings.
type listQuery struct {
	ClinicID string `form:"clinicId" binding:"omitempty,uuid"`
	UserID   string `form:"userId" binding:"omitempty,uuid"`
	Status   string `form:"status" binding:"omitempty,oneof=pending confirmed cancelled"`
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	bookings := r.Group("/bookings")
	{
		bookings.GET("/:id/valid-days", h.ValidDays)

		authed := bookings.Group("", auth.Authenticate())
		authed.POST("", h.CreateBooking)
		authed.GET("/my", h.ListMyBookings)
		authed.PUT("/:id/cancel", h.CancelBooking)
		authed.GET("", auth.RequireAdmin(), h.ListBookings)
	}
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req model.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, err)
		return
	}

	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	booking, err := h.service.CreateBooking(c.Request.Context(), actor, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	handler.Created(c, booking)
}

func (h *Handler) CancelBooking(c *gin.Context) {
	id, ok := handler.ParamID(c, "id")
	if !ok {
		return
	}

	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	booking, err := h.service.CancelBooking(c.Request.Context(), actor, id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	handler.OK(c, booking)
}

func (h *Handler) ListMyBookings(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	bookings, err := h.service.ListMyBookings(c.Request.Context(), actor)
	if err != nil {
		handler.Error(c, err)
		return
	}

	handler.OK(c, bookings)
}

func (h *Handler) ListBookings(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		handler.BadRequest(c, err)
		return
	}

	filter := model.BookingFilter{Status: model.BookingStatus(q.Status)}
	if q.ClinicID != "" {
		id := uuid.MustParse(q.ClinicID)
		filter.ClinicID = &id
	}
	if q.UserID != "" {
		id := uuid.MustParse(q.UserID)
		filter.UserID = &id
	}

	bookings, err := h.service.ListBookings(c.Request.Context(), filter)
	if err != nil {
		handler.Error(c, err)
		return
	}

	handler.OK(c, bookings)
}

// ValidDays answers the availability lookup used by the booking form. The
// path segment is the clinic id.
func (h *Handler) ValidDays(c *gin.Context) {
	id, ok := handler.ParamID(c, "id")
	if !ok {
		return
	}

	days, err := h.service.ValidDays(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	handler.OK(c, model.ValidDaysResponse{ValidDays: days})
}

func actorFrom(c *gin.Context) (bookingsvc.Actor, bool) {
	claims, ok := middleware.Claims(c)
	if !ok {
		handler.Error(c, apperrors.Unauthorized(middleware.MsgUnauthorized, nil))
		return bookingsvc.Actor{}, false
	}
	return bookingsvc.Actor{UserID: claims.UserID, Role: claims.Role}, true
}
