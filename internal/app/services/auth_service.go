package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yigit/judgeadmin/internal/app/models"
	"github.com/yigit/judgeadmin/internal/app/models/dto"
	"github.com/yigit/judgeadmin/internal/pkg/apperrors"
	pkgauth "github.com/yigit/judgeadmin/internal/pkg/auth"
	"github.com/yigit/judgeadmin/internal/pkg/logger"
)

// CredentialStore is the account lookup used at login
type CredentialStore interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error
}

// AuthService signs admin users in
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
}

type authServiceImpl struct {
	users  CredentialStore
	tokens *pkgauth.JWTService
	now    func() time.Time
}

// NewAuthService creates a new auth service instance
func NewAuthService(users CredentialStore, tokens *pkgauth.JWTService) AuthService {
	return &authServiceImpl{users: users, tokens: tokens, now: time.Now}
}

// Login checks the password of an active staff account and issues an access token
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if !pkgauth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}
	if !user.IsStaff && !user.IsSuperuser {
		return nil, apperrors.NewForbiddenError("staff account required")
	}

	token, expiresIn, err := s.tokens.GenerateAccessToken(user.ID, user.Username)
	if err != nil {
		return nil, err
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID, s.now()); err != nil {
		logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to record last login")
	}

	logger.Info().Int64("userID", user.ID).Str("username", user.Username).Msg("Admin login")
	return &dto.LoginResponse{AccessToken: token, TokenType: "Bearer", ExpiresIn: expiresIn}, nil
}
