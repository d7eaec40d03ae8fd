package helpers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/judgeadmin/internal/pkg/apperrors"
)

// ParseIDParam reads a positive int64 path parameter
func ParseIDParam(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError(name, "invalid "+name)
	}
	return id, nil
}

// CurrentUserID returns the authenticated user id stored by the JWT middleware
func CurrentUserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get("userID")
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
