// Package handlertest holds the fixtures shared by the handler tests.
package handlertest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-booking/internal/handler"
	"github.com/jwalitptl/clinic-booking/internal/middleware"
	"github.com/jwalitptl/clinic-booking/internal/model"
	"github.com/jwalitptl/clinic-booking/pkg/auth"
)

// Env is a gin engine with the custom validators installed and an auth
// middleware backed by a throwaway signing key.
type Env struct {
	Engine  *gin.Engine
	API     *gin.RouterGroup
	Auth    *middleware.AuthMiddleware
	jwt     auth.JWTService
	Patient *model.User
	Admin   *model.User
}

func New(t *testing.T) *Env {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, middleware.RegisterValidators())

	jwtSvc := auth.NewJWTService("test-secret", "clinic-booking", time.Hour)
	engine := gin.New()
	return &Env{
		Engine:  engine,
		API:     engine.Group("/api/v1"),
		Auth:    middleware.NewAuthMiddleware(jwtSvc),
		jwt:     jwtSvc,
		Patient: &model.User{Base: model.Base{ID: uuid.New()}, Name: "Patient", Email: "patient@example.com", Role: model.RolePatient},
		Admin:   &model.User{Base: model.Base{ID: uuid.New()}, Name: "Admin", Email: "admin@example.com", Role: model.RoleAdmin},
	}
}

// Token signs an access token for user.
func (e *Env) Token(t *testing.T, user *model.User) string {
	t.Helper()
	token, err := e.jwt.GenerateAccessToken(user)
	require.NoError(t, err)
	return token
}

// Do sends a request to the engine. A non-nil body that is not already a
// reader is encoded as JSON.
func (e *Env) Do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	contentType := ""
	switch b := body.(type) {
	case nil:
	case io.Reader:
		reader = b
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
		contentType = "application/json"
	}

	req := httptest.NewRequest(method, path, reader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.Engine.ServeHTTP(w, req)
	return w
}

// DoRequest sends a prepared request, adding the bearer token when set.
func (e *Env) DoRequest(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.Engine.ServeHTTP(w, req)
	return w
}

// Decode parses the response envelope and, when data is non-nil, its data
// field into data.
func Decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) handler.Response {
	t.Helper()
	var raw struct {
		handler.Response
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	if data != nil {
		require.NoError(t, json.Unmarshal(raw.Data, data))
	}
	return raw.Response
}
