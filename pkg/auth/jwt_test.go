package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-booking/internal/model"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("secret", "clinic-booking", time.Hour)
	user := &model.User{Base: model.Base{ID: uuid.New()}, Email: "admin@example.com", Role: model.RoleAdmin}

	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, model.RoleAdmin, claims.Role)
}

func TestJWTService_Rejects(t *testing.T) {
	svc := NewJWTService("secret", "clinic-booking", time.Hour)
	user := &model.User{Base: model.Base{ID: uuid.New()}, Role: model.RolePatient}

	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)

	other := NewJWTService("other-secret", "clinic-booking", time.Hour)
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := &jwtService{secret: []byte("secret"), issuer: "clinic-booking", expiry: time.Minute,
		now: func() time.Time { return time.Now().Add(-time.Hour) }}
	old, err := expired.GenerateAccessToken(user)
	require.NoError(t, err)
	_, err = svc.ValidateToken(old)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
