package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/judgeadmin/internal/app/models/dto"
	"github.com/yigit/judgeadmin/internal/pkg/apperrors"
	"github.com/yigit/judgeadmin/internal/pkg/logger"
)

// errorStatus maps an application error onto an HTTP status and error code
func errorStatus(err error) (int, dto.ErrorCode, string) {
	switch {
	case apperrors.Is(err, apperrors.ErrResourceNotFound, apperrors.ErrContestNotRated,
		apperrors.ErrUnknownEntity, apperrors.ErrUnknownAction, apperrors.ErrJudgeNotFound,
		apperrors.ErrContestNotFound, apperrors.ErrNavigationNotFound):
		return http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"
	case apperrors.Is(err, apperrors.ErrPermissionDenied, apperrors.ErrJudgeOnline):
		return http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"
	case apperrors.Is(err, apperrors.ErrValidationFailed, apperrors.ErrBadRequest, apperrors.ErrBatchClosed):
		return http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"
	case apperrors.Is(err, apperrors.ErrResourceAlreadyExists, apperrors.ErrContestAlreadyExists):
		return http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Resource already exists"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, dto.ErrorCodeLockTimeout, "Timed out waiting for a lock"
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, dto.ErrorCodeConflict, "Conflict"
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials"
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"
	case apperrors.Is(err, apperrors.ErrTokenInvalid, apperrors.ErrInvalidFormat, apperrors.ErrAccountDisabled):
		return http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Authentication failed"
	}
	return http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error"
}

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error) {
	status, code, message := errorStatus(err)

	detail := dto.NewErrorDetail(code, message)
	var custom *apperrors.CustomError
	if errors.As(err, &custom) && status != http.StatusInternalServerError {
		detail.Message = custom.Error()
		if field, ok := custom.Details["field"].(string); ok {
			detail.WithField(field)
		}
	}

	if status == http.StatusInternalServerError {
		logger.FromContext(c.Request.Context()).Error().Err(err).
			Str("path", c.FullPath()).
			Msg("Unhandled error")
	}
	c.JSON(status, dto.NewErrorResponse(detail))
}

// HandleBindError reports a request body that failed binding or validation
func HandleBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
}
