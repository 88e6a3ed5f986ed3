package doctor

import (
	"mime/multipart"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinic-booking/internal/handler"
	"github.com/jwalitptl/clinic-booking/internal/middleware"
	"github.com/jwalitptl/clinic-booking/internal/model"
	doctorsvc "github.com/jwalitptl/clinic-booking/internal/service/doctor"
)

type Handler struct {
	service doctorsvc.DoctorServicer
}

func NewHandler(service doctorsvc.DoctorServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	doctors := r.Group("/doctors")
	{
		doctors.GET("", h.ListDoctors)
		doctors.GET("/:id", h.GetDoctor)

		admin := doctors.Group("", auth.Authenticate(), auth.RequireAdmin())
		admin.POST("", h.CreateDoctor)
		admin.PUT("/:id", h.UpdateDoctor)
		admin.DELETE("/:id", h.DeleteDoctor)
	}
}

func (h *Handler) CreateDoctor(c *gin.Context) {
	req, image, err := bindDoctor(c)
	if err != nil {
		handler.BadRequest(c, err)
		return
	}

	doctor, err := h.service.CreateDoctor(c.Request.Context(), req, image)
	if err != nil {
		handler.Error(c, err)
		return
	}

	handler.Created(c, doctor)
}

func (h *Handler) GetDoctor(c *gin.Context) {
	id, ok := handler.ParamID(c, "id")
	if !ok {
		return
	}

	doctor, err := h.service.GetDoctor(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	handler.OK(c, doctor)
}

func (h *Handler) ListDoctors(c *gin.Context) {
	doctors, err := h.service.ListDoctors(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}

	handler.OK(c, doctors)
}

func (h *Handler) UpdateDoctor(c *gin.Context) {
	id, ok := handler.ParamID(c, "id")
	if !ok {
		return
	}

	req, image, err := bindDoctor(c)
	if err != nil {
		handler.BadRequest(c, err)
		return
	}

	doctor, err := h.service.UpdateDoctor(c.Request.Context(), id, req, image)
	if err != nil {
		handler.Error(c, err)
		return
	}

	handler.OK(c, doctor)
}

func (h *Handler) DeleteDoctor(c *gin.Context) {
	id, ok := handler.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteDoctor(c.Request.Context(), id); err != nil {
		handler.Error(c, err)
		return
	}

	handler.Message(c, "تم حذف الطبيب بنجاح")
}

func bindDoctor(c *gin.Context) (*model.DoctorRequest, *multipart.FileHeader, error) {
	var req model.DoctorRequest
	if !handler.IsMultipart(c) {
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, nil, err
		}
		return &req, nil, nil
	}

	form, err := handler.BindMultipart(c, &req, map[string]interface{}{
		"specialties": &req.Specialties,
		"clinics":     &req.Clinics,
		"schedules":   &req.Schedules,
	})
	if err != nil {
		return nil, nil, err
	}
	if files := form.File["image"]; len(files) > 0 {
		return &req, files[0], nil
	}
	return &req, nil, nil
}
