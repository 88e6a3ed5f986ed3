package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-booking/internal/email"
	"github.com/jwalitptl/clinic-booking/internal/model"
	"github.com/jwalitptl/clinic-booking/internal/repository"
	"github.com/jwalitptl/clinic-booking/pkg/auth"
	apperrors "github.com/jwalitptl/clinic-booking/pkg/errors"
	"github.com/jwalitptl/clinic-booking/pkg/logger"
	"github.com/jwalitptl/clinic-booking/pkg/security"
)

const (
	MsgInvalidCredentials = "البريد الإلكتروني أو كلمة المرور غير صحيحة"
	MsgEmailTaken         = "البريد الإلكتروني مستخدم بالفعل"
	MsgInvalidResetToken  = "رابط إعادة التعيين غير صالح أو منتهي الصلاحية"
)

const resetTokenExpiry = 1 * time.Hour

type AuthServicer interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error)
	CreateAdmin(ctx context.Context, req *model.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error)
	ForgetPassword(ctx context.Context, address string) error
	ResetPassword(ctx context.Context, token, password string) error
}

type Service struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	jwtSvc    auth.JWTService
	hasher    security.PasswordHasher
	emailSvc  email.Service
	logger    *logger.Logger
}

func NewService(userRepo repository.UserRepository, tokenRepo repository.TokenRepository, jwtSvc auth.JWTService,
	hasher security.PasswordHasher, emailSvc email.Service, logger *logger.Logger) *Service {
	return &Service{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		jwtSvc:    jwtSvc,
		hasher:    hasher,
		emailSvc:  emailSvc,
		logger:    logger,
	}
}

// Register creates a patient account and signs it in.
func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	user, err := s.createUser(ctx, req, model.RolePatient)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

// CreateAdmin creates an admin account; the caller must already be an admin.
func (s *Service) CreateAdmin(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	return s.createUser(ctx, req, model.RoleAdmin)
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.Unauthorized(MsgInvalidCredentials, nil)
		}
		return nil, apperrors.Internal(err)
	}
	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, apperrors.Unauthorized(MsgInvalidCredentials, nil)
	}
	return s.issue(user)
}

// ForgetPassword emails a reset link when the address belongs to a user.
// It never reports whether the address is known.
func (s *Service) ForgetPassword(ctx context.Context, address string) error {
	user, err := s.userRepo.GetByEmail(ctx, address)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil
		}
		return apperrors.Internal(err)
	}

	token := uuid.NewString()
	if err := s.tokenRepo.StoreResetToken(ctx, user.ID, token, time.Now().Add(resetTokenExpiry)); err != nil {
		return apperrors.Internal(fmt.Errorf("failed to store reset token: %w", err))
	}
	if err := s.emailSvc.SendPasswordReset(ctx, user.Email, token); err != nil {
		s.logger.Error(err, "Failed to send password reset email", "user_id", user.ID.String())
	}
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, token, password string) error {
	userID, err := s.tokenRepo.ConsumeResetToken(ctx, token)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.BadRequest(MsgInvalidResetToken, err)
		}
		return apperrors.Internal(err)
	}

	hash, err := s.hash(password)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (s *Service) createUser(ctx context.Context, req *model.RegisterRequest, role model.Role) (*model.User, error) {
	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil && !apperrors.IsNotFound(err) {
		return nil, apperrors.Internal(err)
	}
	if existing != nil {
		return nil, apperrors.Conflict(MsgEmailTaken, nil)
	}

	hash, err := s.hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Address:      req.Address,
		Age:          req.Age,
		Role:         role,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to create user: %w", err))
	}
	return user, nil
}

func (s *Service) hash(password string) (string, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, security.ErrPasswordShort) {
			return "", apperrors.BadRequest("كلمة المرور قصيرة جدا", err)
		}
		return "", apperrors.Internal(err)
	}
	return hash, nil
}

func (s *Service) issue(user *model.User) (*model.AuthResponse, error) {
	token, err := s.jwtSvc.GenerateAccessToken(user)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &model.AuthResponse{Token: token, User: user}, nil
}
