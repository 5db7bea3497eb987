package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cinema-reservation/internal/data/entity"
	"cinema-reservation/internal/data/repository"
	"cinema-reservation/internal/dto/request"
	"cinema-reservation/internal/dto/response"
	"cinema-reservation/pkg/apperror"
	"cinema-reservation/pkg/database"
	"cinema-reservation/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest, client request.ClientInfo) (*response.AuthResponse, error)
	Login(ctx context.Context, req *request.LoginRequest, client request.ClientInfo) (*response.AuthResponse, error)
	Logout(ctx context.Context, sessionToken string) error
}

type authService struct {
	repo   *repository.Repository // grouping userRepo & sessionRepo
	config *utils.Config
	log    *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		config: config,
		log:    log.With(zap.String("service", "auth")),
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest, client request.ClientInfo) (*response.AuthResponse, error) {
	// 1. Validasi input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Debug("Register validation failed", zap.Any("errors", errs))
		return nil, apperror.NewFieldValidation(errs)
	}

	// 2. Cek email sudah terdaftar
	existingUser, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existingUser != nil {
		return nil, &apperror.ConflictError{Message: "Email already registered"}
	}

	// 3. Hash password
	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entity.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Role:         entity.RoleCustomer,
		IsActive:     true,
	}

	// 4. Save user, the partial unique index catches a concurrent register
	if err := s.repo.User.Create(ctx, user); err != nil {
		if database.IsUniqueViolation(err, "") {
			return nil, &apperror.ConflictError{Message: "Email already registered"}
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	// 5. Auto login setelah register
	resp, err := s.issueToken(ctx, user, client)
	if err != nil {
		return nil, err
	}

	s.log.Info("User registered",
		zap.Int64("user_id", user.ID),
		zap.String("email", user.Email))

	return resp, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest, client request.ClientInfo) (*response.AuthResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperror.NewFieldValidation(errs)
	}

	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	// same answer for unknown email and wrong password
	if user == nil || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid login attempt", zap.String("email", req.Email))
		return nil, &apperror.UnauthorizedError{Message: "Invalid credentials"}
	}

	if !user.IsActive {
		s.log.Warn("Inactive user tried to login", zap.Int64("user_id", user.ID))
		return nil, &apperror.UnauthorizedError{Message: "Account is deactivated"}
	}

	resp, err := s.issueToken(ctx, user, client)
	if err != nil {
		return nil, err
	}

	s.log.Info("User logged in", zap.Int64("user_id", user.ID))
	return resp, nil
}

func (s *authService) Logout(ctx context.Context, sessionToken string) error {
	token, err := uuid.Parse(sessionToken)
	if err != nil {
		return &apperror.UnauthorizedError{Message: "Invalid session"}
	}

	if err := s.repo.Session.Revoke(ctx, token); err != nil {
		if errors.Is(err, repository.ErrNoRowsAffected) {
			return &apperror.UnauthorizedError{Message: "Session already revoked"}
		}
		return fmt.Errorf("revoke session: %w", err)
	}

	s.log.Info("User logged out")
	return nil
}

// issueToken persists a session and signs a JWT whose jti is the session token.
func (s *authService) issueToken(ctx context.Context, user *entity.User, client request.ClientInfo) (*response.AuthResponse, error) {
	expiresAt := time.Now().Add(time.Duration(s.config.JWT.ExpiryHours) * time.Hour).UTC()

	session := &entity.Session{
		UserID:    user.ID,
		Token:     uuid.New(),
		UserAgent: optional(client.UserAgent),
		IPAddress: optional(client.IPAddress),
		ExpiresAt: expiresAt,
	}
	if err := s.repo.Session.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	token, err := utils.NewAccessToken(s.config.JWT.Secret, user.ID, string(user.Role), session.Token.String(), expiresAt)
	if err != nil {
		return nil, err
	}

	resp := response.AuthToResponse(user, token, expiresAt)
	return &resp, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
