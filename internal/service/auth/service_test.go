package auth

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jwalitptl/clinic-booking/internal/model"
	"github.com/jwalitptl/clinic-booking/pkg/auth"
	apperrors "github.com/jwalitptl/clinic-booking/pkg/errors"
	"github.com/jwalitptl/clinic-booking/pkg/logger"
	"github.com/jwalitptl/clinic-booking/pkg/security"
)

type fakeUsers struct {
	byID map[uuid.UUID]*model.User
}

func (r *fakeUsers) Create(ctx context.Context, u *model.User) error {
	u.ID = uuid.New()
	r.byID[u.ID] = u
	return nil
}

func (r *fakeUsers) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if u, ok := r.byID[id]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("user: %w", apperrors.ErrRecordNotFound)
}

func (r *fakeUsers) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range r.byID {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user: %w", apperrors.ErrRecordNotFound)
}

func (r *fakeUsers) List(ctx context.Context, filter model.UserFilter) ([]*model.User, error) {
	return nil, nil
}

func (r *fakeUsers) Update(ctx context.Context, u *model.User) error { return nil }

func (r *fakeUsers) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	u, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("user: %w", apperrors.ErrRecordNotFound)
	}
	u.PasswordHash = hash
	return nil
}

func (r *fakeUsers) Delete(ctx context.Context, id uuid.UUID) error { return nil }

type fakeTokens struct {
	tokens map[string]uuid.UUID
}

func (r *fakeTokens) StoreResetToken(ctx context.Context, userID uuid.UUID, token string, expiry time.Time) error {
	r.tokens[token] = userID
	return nil
}

func (r *fakeTokens) ConsumeResetToken(ctx context.Context, token string) (uuid.UUID, error) {
	id, ok := r.tokens[token]
	if !ok {
		return uuid.Nil, fmt.Errorf("reset token: %w", apperrors.ErrRecordNotFound)
	}
	delete(r.tokens, token)
	return id, nil
}

type fakeMailer struct {
	to     []string
	tokens []string
}

func (m *fakeMailer) SendPasswordReset(ctx context.Context, to, token string) error {
	m.to = append(m.to, to)
	m.tokens = append(m.tokens, token)
	return nil
}

type fixture struct {
	svc    *Service
	users  *fakeUsers
	mailer *fakeMailer
	jwt    auth.JWTService
}

func newFixture() *fixture {
	users := &fakeUsers{byID: map[uuid.UUID]*model.User{}}
	mailer := &fakeMailer{}
	jwtSvc := auth.NewJWTService("test-secret", "clinic-booking", time.Hour)
	svc := NewService(users, &fakeTokens{tokens: map[string]uuid.UUID{}}, jwtSvc,
		security.NewBcryptHasher(bcrypt.MinCost), mailer, logger.New(logger.Config{Output: io.Discard}))
	return &fixture{svc: svc, users: users, mailer: mailer, jwt: jwtSvc}
}

func registerRequest() *model.RegisterRequest {
	return &model.RegisterRequest{Name: "Sara Ahmed", Email: "sara@example.com", Password: "s3cretpass"}
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	resp, err := f.svc.Register(ctx, registerRequest())
	require.NoError(t, err)
	assert.Equal(t, model.RolePatient, resp.User.Role)
	assert.NotEqual(t, "s3cretpass", resp.User.PasswordHash)

	claims, err := f.jwt.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, model.RolePatient, claims.Role)

	login, err := f.svc.Login(ctx, &model.LoginRequest{Email: "SARA@example.com", Password: "s3cretpass"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	_, err = f.svc.Register(ctx, registerRequest())
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	for _, req := range []*model.LoginRequest{
		{Email: "sara@example.com", Password: "wrong-pass"},
		{Email: "nobody@example.com", Password: "s3cretpass"},
	} {
		_, err := f.svc.Login(ctx, req)
		appErr, ok := apperrors.As(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrUnauthorized, appErr.Code)
		assert.Equal(t, MsgInvalidCredentials, appErr.Message)
	}
}

func TestCreateAdmin(t *testing.T) {
	f := newFixture()

	user, err := f.svc.CreateAdmin(context.Background(), registerRequest())
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, user.Role)
}

func TestForgetAndResetPassword(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	require.NoError(t, f.svc.ForgetPassword(ctx, "nobody@example.com"))
	assert.Empty(t, f.mailer.to)

	require.NoError(t, f.svc.ForgetPassword(ctx, "sara@example.com"))
	require.Len(t, f.mailer.tokens, 1)
	token := f.mailer.tokens[0]

	require.NoError(t, f.svc.ResetPassword(ctx, token, "n3wpassword"))
	_, err = f.svc.Login(ctx, &model.LoginRequest{Email: "sara@example.com", Password: "n3wpassword"})
	assert.NoError(t, err)

	err = f.svc.ResetPassword(ctx, token, "anotherpass")
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, MsgInvalidResetToken, appErr.Message)
}

func TestRegister_ShortPassword(t *testing.T) {
	f := newFixture()
	req := registerRequest()
	req.Password = "short"

	_, err := f.svc.Register(context.Background(), req)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrBadRequest, appErr.Code)
}
