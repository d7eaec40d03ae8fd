package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	appauth "github.com/yigit/judgeadmin/internal/app/auth"
	"github.com/yigit/judgeadmin/internal/app/models/dto"
	"github.com/yigit/judgeadmin/internal/pkg/apperrors"
	"github.com/yigit/judgeadmin/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   dto.ErrorCode
	}{
		{apperrors.NewResourceNotFoundError("judge 3 not found"), http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{fmt.Errorf("rate: %w", apperrors.ErrContestNotRated), http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{apperrors.ErrUnknownAction, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{apperrors.NewForbiddenError("no"), http.StatusForbidden, dto.ErrorCodeForbidden},
		{apperrors.ErrJudgeOnline, http.StatusForbidden, dto.ErrorCodeForbidden},
		{apperrors.NewValidationError("endTime", "must be after start"), http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{apperrors.ErrBatchClosed, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{apperrors.ErrContestAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
		{apperrors.NewConflictError("busy"), http.StatusConflict, dto.ErrorCodeConflict},
		{fmt.Errorf("batch: %w", context.DeadlineExceeded), http.StatusServiceUnavailable, dto.ErrorCodeLockTimeout},
		{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
		{apperrors.ErrAccountDisabled, http.StatusUnauthorized, dto.ErrorCodeInvalidToken},
		{errors.New("boom"), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			status, code, _ := errorStatus(tt.err)
			if status != tt.status || code != tt.code {
				t.Errorf("errorStatus = (%d, %s), want (%d, %s)", status, code, tt.status, tt.code)
			}
		})
	}
}

func TestHandleAPIErrorCarriesField(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	HandleAPIError(c, apperrors.NewValidationError("timeLimit", "time limit must be positive"))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	var resp dto.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Error.Field != "timeLimit" || resp.Error.Message != "time limit must be positive" {
		t.Errorf("error detail = %+v", resp.Error)
	}
}

type fakeAuthorizer struct {
	actors map[int64]*appauth.Actor
}

func (f fakeAuthorizer) ActorFor(_ context.Context, userID int64) (*appauth.Actor, error) {
	a, ok := f.actors[userID]
	if !ok {
		return nil, apperrors.ErrAccountDisabled
	}
	return a, nil
}

func newAuthRouter(t *testing.T) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	tokens := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "judgeadmin",
	})
	staff := appauth.NewActor(7, 70, appauth.CapContestRating)
	m := NewAuthMiddleware(tokens, fakeAuthorizer{actors: map[int64]*appauth.Actor{7: staff}})

	r := gin.New()
	r.GET("/whoami", m.JWTAuth(), m.ActorLoader(), func(c *gin.Context) {
		actor := CurrentActor(c)
		c.JSON(http.StatusOK, gin.H{"profile": actor.ProfileID, "rating": actor.Has(appauth.CapContestRating)})
	})
	return r, tokens
}

func TestAuthMiddleware(t *testing.T) {
	r, tokens := newAuthRouter(t)
	valid, _, err := tokens.GenerateAccessToken(7, "admin")
	if err != nil {
		t.Fatal(err)
	}
	disabled, _, err := tokens.GenerateAccessToken(8, "gone")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.token", http.StatusUnauthorized},
		{"unknown user", "Bearer " + disabled, http.StatusUnauthorized},
		{"valid", "Bearer " + valid, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.status, w.Body.String())
			}
			if tt.status != http.StatusOK {
				return
			}
			var body struct {
				Profile int64 `json:"profile"`
				Rating  bool  `json:"rating"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body.Profile != 70 || !body.Rating {
				t.Errorf("actor = %+v", body)
			}
		})
	}
}
