package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	appauth "github.com/yigit/judgeadmin/internal/app/auth"
	"github.com/yigit/judgeadmin/internal/app/models/dto"
	"github.com/yigit/judgeadmin/internal/pkg/auth"
	"github.com/yigit/judgeadmin/internal/pkg/helpers"
	"github.com/yigit/judgeadmin/internal/pkg/logger"
)

// TokenValidator verifies access tokens
type TokenValidator interface {
	ValidateToken(tokenString string) (*auth.Claims, error)
}

// AuthMiddleware authenticates admin requests and resolves the acting user
type AuthMiddleware struct {
	tokens     TokenValidator
	authorizer appauth.Authorizer
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(tokens TokenValidator, authorizer appauth.Authorizer) *AuthMiddleware {
	return &AuthMiddleware{
		tokens:     tokens,
		authorizer: authorizer,
	}
}

// JWTAuth middleware for JWT token validation
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").
				WithDetails("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		tokenString, err := auth.ExtractBearerToken(authHeader)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").
				WithDetails("Invalid token format")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		claims, err := m.tokens.ValidateToken(tokenString)
		if err != nil {
			errorCode := dto.ErrorCodeInvalidToken
			errorDetails := "Invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				errorCode = dto.ErrorCodeExpiredToken
				errorDetails = "Token has expired"
			}
			errorDetail := dto.NewErrorDetail(errorCode, "Authentication failed").WithDetails(errorDetails)
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("username", claims.Username)
		c.Next()
	}
}

// ActorLoader resolves the capability set of the authenticated user. It must run after JWTAuth.
func (m *AuthMiddleware) ActorLoader() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := helpers.CurrentUserID(c)
		if !ok {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").
				WithDetails("User information not found")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		actor, err := m.authorizer.ActorFor(c.Request.Context(), id)
		if err != nil {
			HandleAPIError(c, err)
			c.Abort()
			return
		}

		lgr := logger.FromContext(c.Request.Context()).With().Int64("userID", actor.UserID).Logger()
		ctx := logger.IntoContext(appauth.WithActor(c.Request.Context(), actor), lgr)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// CurrentActor returns the actor stored by ActorLoader, or nil
func CurrentActor(c *gin.Context) *appauth.Actor {
	return appauth.ActorFrom(c.Request.Context())
}
