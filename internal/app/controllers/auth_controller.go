package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/judgeadmin/internal/app/models/dto"
	"github.com/yigit/judgeadmin/internal/app/services"
	"github.com/yigit/judgeadmin/internal/middleware"
	"github.com/yigit/judgeadmin/internal/pkg/logger"
)

// AuthController handles authentication related operations
type AuthController struct {
	authService services.AuthService
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Login handles admin sign-in
// @Summary Admin login
// @Description Authenticates a staff account and returns an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.LoginResponse} "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format or validation error"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials or disabled account"
// @Failure 403 {object} dto.ErrorResponse "Account is not staff"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(ctx, &req) {
		return
	}

	resp, err := c.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		logger.FromContext(ctx.Request.Context()).Warn().Err(err).Str("username", req.Username).Msg("Login failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccess(resp))
}
