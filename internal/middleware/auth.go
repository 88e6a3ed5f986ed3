package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinic-booking/internal/handler"
	"github.com/jwalitptl/clinic-booking/internal/model"
	"github.com/jwalitptl/clinic-booking/pkg/auth"
	apperrors "github.com/jwalitptl/clinic-booking/pkg/errors"
)

const (
	ContextClaims = "claims"

	MsgUnauthorized  = "غير مصرح"
	MsgAdminRequired = "يتطلب صلاحيات المسؤول"
)

type AuthMiddleware struct {
	jwtService auth.JWTService
}

func NewAuthMiddleware(jwtService auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// Authenticate verifies the bearer token and stores its claims in the context
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			handler.Error(c, apperrors.Unauthorized(MsgUnauthorized, nil))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			handler.Error(c, apperrors.Unauthorized(MsgUnauthorized, nil))
			return
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			handler.Error(c, apperrors.Unauthorized(MsgUnauthorized, err))
			return
		}

		c.Set(ContextClaims, claims)
		c.Next()
	}
}

// RequireAdmin must run after Authenticate.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := Claims(c)
		if !ok {
			handler.Error(c, apperrors.Unauthorized(MsgUnauthorized, nil))
			return
		}
		if claims.Role != model.RoleAdmin {
			handler.Error(c, apperrors.Forbidden(MsgAdminRequired, nil))
			return
		}
		c.Next()
	}
}

// Claims returns the token claims set by Authenticate.
func Claims(c *gin.Context) (*model.TokenClaims, bool) {
	v, ok := c.Get(ContextClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*model.TokenClaims)
	return claims, ok
}
