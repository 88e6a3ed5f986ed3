package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinic-booking/internal/handler"
	"github.com/jwalitptl/clinic-booking/internal/middleware"
	"github.com/jwalitptl/clinic-booking/internal/model"
	authsvc "github.com/jwalitptl/clinic-booking/internal/service/auth"
)

const (
	MsgResetLinkSent = "تم إرسال رابط إعادة تعيين كلمة المرور إلى بريدك الإلكتروني"
	MsgPasswordReset = "تم تغيير كلمة المرور بنجاح"
)

type Handler struct {
	svc authsvc.AuthServicer
}

func NewHandler(svc authsvc.AuthServicer) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	group := r.Group("/auth")
	{
		group.POST("/register", h.Register)
		group.POST("/login", h.Login)
		group.POST("/forgetpassword", h.ForgetPassword)
		group.PUT("/resetpassword/:token", h.ResetPassword)
		group.POST("/create-admin", auth.Authenticate(), auth.RequireAdmin(), h.CreateAdmin)
	}
}

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, err)
		return
	}

	resp, err := h.svc.Register(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	handler.Created(c, resp)
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, err)
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	handler.OK(c, resp)
}

func (h *Handler) CreateAdmin(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, err)
		return
	}

	user, err := h.svc.CreateAdmin(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	handler.Created(c, user)
}

// ForgetPassword always answers with the same message so that callers
// cannot probe which addresses are registered.
func (h *Handler) ForgetPassword(c *gin.Context) {
	var req model.ForgetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, err)
		return
	}

	if err := h.svc.ForgetPassword(c.Request.Context(), req.Email); err != nil {
		handler.Error(c, err)
		return
	}

	handler.Message(c, MsgResetLinkSent)
}

func (h *Handler) ResetPassword(c *gin.Context) {
	var req model.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, err)
		return
	}

	if err := h.svc.ResetPassword(c.Request.Context(), c.Param("token"), req.Password); err != nil {
		handler.Error(c, err)
		return
	}

	handler.Message(c, MsgPasswordReset)
}
