package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yigit/judgeadmin/internal/app/models"
	"github.com/yigit/judgeadmin/internal/app/models/dto"
	"github.com/yigit/judgeadmin/internal/pkg/apperrors"
	pkgauth "github.com/yigit/judgeadmin/internal/pkg/auth"
)

type fakeCredentialStore struct {
	users     map[string]*models.User
	lastLogin map[int64]time.Time
}

func (f *fakeCredentialStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	u, ok := f.users[username]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	return u, nil
}

func (f *fakeCredentialStore) UpdateLastLogin(_ context.Context, userID int64, at time.Time) error {
	f.lastLogin[userID] = at
	return nil
}

func TestLogin(t *testing.T) {
	hash, err := pkgauth.HashPassword("hunter22")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	store := &fakeCredentialStore{
		users: map[string]*models.User{
			"admin":    {ID: 1, Username: "admin", Password: hash, IsStaff: true, IsActive: true},
			"disabled": {ID: 2, Username: "disabled", Password: hash, IsStaff: true},
			"player":   {ID: 3, Username: "player", Password: hash, IsActive: true},
		},
		lastLogin: map[int64]time.Time{},
	}
	jwtService := pkgauth.NewJWTService(pkgauth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "judgeadmin-test",
	})
	svc := NewAuthService(store, jwtService)

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{"valid staff", "admin", "hunter22", nil},
		{"wrong password", "admin", "nope", apperrors.ErrInvalidCredentials},
		{"unknown user", "ghost", "hunter22", apperrors.ErrInvalidCredentials},
		{"empty username", "  ", "hunter22", apperrors.ErrInvalidCredentials},
		{"disabled account", "disabled", "hunter22", apperrors.ErrAccountDisabled},
		{"not staff", "player", "hunter22", apperrors.ErrPermissionDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.Login(context.Background(), &dto.LoginRequest{Username: tt.username, Password: tt.password})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("got %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Login: %v", err)
			}
			claims, err := jwtService.ValidateToken(resp.AccessToken)
			if err != nil {
				t.Fatalf("ValidateToken: %v", err)
			}
			if claims.UserID != 1 || resp.TokenType != "Bearer" {
				t.Errorf("claims = %+v, resp = %+v", claims, resp)
			}
			if _, ok := store.lastLogin[1]; !ok {
				t.Error("last login not recorded")
			}
		})
	}
}
