package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	apperrors "github.com/jwalitptl/clinic-booking/pkg/errors"
)

const MsgInvalidID = "معرف غير صالح"

type Response struct {
	Status  string       `json:"status"`
	Message string       `json:"message,omitempty"`
	Data    interface{}  `json:"data,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError names one rejected request field.
type FieldError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, NewSuccessResponse(data))
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, NewSuccessResponse(data))
}

// Message replies 200 with a message and no data.
func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, &Response{Status: "success", Message: message})
}

// Error writes err using the envelope. AppErrors keep their status and
// message, binding failures become 400 with the offending fields, anything
// else is logged and reported as 500.
func Error(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		resp := NewErrorResponse("بيانات غير صالحة")
		for _, fe := range verrs {
			resp.Errors = append(resp.Errors, FieldError{Field: fe.Field(), Tag: fe.Tag()})
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, resp)
		return
	}

	if appErr, ok := apperrors.As(err); ok {
		status := appErr.StatusCode()
		if status >= http.StatusInternalServerError {
			logError(c, err)
			c.AbortWithStatusJSON(status, NewErrorResponse("حدث خطأ ما، حاول مرة أخرى"))
			return
		}
		c.AbortWithStatusJSON(status, NewErrorResponse(appErr.Message))
		return
	}

	logError(c, err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, NewErrorResponse("حدث خطأ ما، حاول مرة أخرى"))
}

// BadRequest reports a malformed request body or query.
func BadRequest(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		Error(c, err)
		return
	}
	Error(c, apperrors.BadRequest("بيانات غير صالحة", err))
}

func logError(c *gin.Context, err error) {
	log.Ctx(c.Request.Context()).Error().
		Err(err).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Msg("Request failed")
}
