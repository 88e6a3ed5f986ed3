package handler

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"

	apperrors "github.com/jwalitptl/clinic-booking/pkg/errors"
)

// ParamID parses a uuid path parameter. On failure it writes a 400 and
// returns false.
func ParamID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		Error(c, apperrors.BadRequest(MsgInvalidID, err))
		return uuid.Nil, false
	}
	return id, true
}

func IsMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), binding.MIMEMultipartPOSTForm)
}

// BindMultipart maps the scalar form values of a multipart body onto req
// using its form tags. Array fields travel as JSON strings and are decoded
// into the targets in jsonFields, keyed by form field name. The struct is
// validated once everything is in place.
func BindMultipart(c *gin.Context, req interface{}, jsonFields map[string]interface{}) (*multipart.Form, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fmt.Errorf("failed to parse multipart form: %w", err)
	}
	if err := binding.MapFormWithTag(req, form.Value, "form"); err != nil {
		return nil, fmt.Errorf("failed to map form: %w", err)
	}
	for field, dst := range jsonFields {
		values := form.Value[field]
		if len(values) == 0 || values[0] == "" {
			continue
		}
		if err := json.Unmarshal([]byte(values[0]), dst); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", field, err)
		}
	}
	if err := binding.Validator.ValidateStruct(req); err != nil {
		return nil, err
	}
	return form, nil
}
