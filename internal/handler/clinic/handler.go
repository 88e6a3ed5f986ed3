package clinic

import (
	"mime/multipart"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinic-booking/internal/handler"
	"github.com/jwalitptl/clinic-booking/internal/middleware"
	"github.com/jwalitptl/clinic-booking/internal/model"
	clinicsvc "github.com/jwalitptl/clinic-booking/internal/service/clinic"
)

const MsgClinicDeleted = "تم حذف العيادة بنجاح"

type Handler struct {
	service clinicsvc.ClinicServicer
}

func NewHandler(service clinicsvc.ClinicServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	clinics := r.Group("/clinics")
	{
		clinics.GET("", h.ListClinics)
		clinics.GET("/:id", h.GetClinic)

		admin := clinics.Group("", auth.Authenticate(), auth.RequireAdmin())
		admin.POST("", h.CreateClinic)
		admin.PUT("/:id", h.UpdateClinic)
		admin.DELETE("/:id", h.DeleteClinic)
		admin.POST("/:id/add-doctors", h.AddDoctors)
		admin.DELETE("/:id/videos/:videoId", h.DeleteVideo)
	}
}

func (h *Handler) CreateClinic(c *gin.Context) {
	req, videos, err := bindClinic(c)
	if err != nil {
		handler.BadRequest(c, err)
		return
	}

	clinic, err := h.service.CreateClinic(c.Request.Context(), req, videos)
	if err != nil {
		handler.Error(c, err)
		return
	}

	handler.Created(c, clinic)
}

func (h *Handler) GetClinic(c *gin.Context) {
	id, ok := handler.ParamID(c, "id")
	if !ok {
		return
	}

	clinic, err := h.service.GetClinic(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	handler.OK(c, clinic)
}

func (h *Handler) ListClinics(c *gin.Context) {
	var filter model.ClinicFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		handler.BadRequest(c, err)
		return
	}

	clinics, err := h.service.ListClinics(c.Request.Context(), filter)
	if err != nil {
		handler.Error(c, err)
		return
	}

	handler.OK(c, clinics)
}

func (h *Handler) UpdateClinic(c *gin.Context) {
	id, ok := handler.ParamID(c, "id")
	if !ok {
		return
	}

	req, videos, err := bindClinic(c)
	if err != nil {
		handler.BadRequest(c, err)
		return
	}

	clinic, err := h.service.UpdateClinic(c.Request.Context(), id, req, videos)
	if err != nil {
		handler.Error(c, err)
		return
	}

	handler.OK(c, clinic)
}

func (h *Handler) DeleteClinic(c *gin.Context) {
	id, ok := handler.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteClinic(c.Request.Context(), id); err != nil {
		handler.Error(c, err)
		return
	}

	handler.Message(c, MsgClinicDeleted)
}

func (h *Handler) AddDoctors(c *gin.Context) {
	id, ok := handler.ParamID(c, "id")
	if !ok {
		return
	}

	var req model.AddDoctorsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, err)
		return
	}

	clinic, err := h.service.AddDoctors(c.Request.Context(), id, req.DoctorIDs)
	if err != nil {
		handler.Error(c, err)
		return
	}

	handler.OK(c, clinic)
}

func (h *Handler) DeleteVideo(c *gin.Context) {
	id, ok := handler.ParamID(c, "id")
	if !ok {
		return
	}
	videoID, ok := handler.ParamID(c, "videoId")
	if !ok {
		return
	}

	if err := h.service.DeleteVideo(c.Request.Context(), id, videoID); err != nil {
		handler.Error(c, err)
		return
	}

	handler.Message(c, "تم حذف الفيديو بنجاح")
}

// bindClinic accepts either a JSON body or a multipart body carrying the
// clinic fields plus any number of "videos" files.
func bindClinic(c *gin.Context) (*model.ClinicRequest, []*multipart.FileHeader, error) {
	var req model.ClinicRequest
	if !handler.IsMultipart(c) {
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, nil, err
		}
		return &req, nil, nil
	}

	form, err := handler.BindMultipart(c, &req, map[string]interface{}{
		"specialties":   &req.Specialties,
		"availableDays": &req.AvailableDays,
		"specialWords":  &req.SpecialWords,
	})
	if err != nil {
		return nil, nil, err
	}
	return &req, form.File["videos"], nil
}
