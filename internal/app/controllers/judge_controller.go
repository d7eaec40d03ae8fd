package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/judgeadmin/internal/app/models"
	"github.com/yigit/judgeadmin/internal/app/models/dto"
	"github.com/yigit/judgeadmin/internal/app/services"
	"github.com/yigit/judgeadmin/internal/middleware"
)

// JudgeController handles judge administration
type JudgeController struct {
	judgeService services.JudgeService
}

// NewJudgeController creates a new JudgeController
func NewJudgeController(judgeService services.JudgeService) *JudgeController {
	return &JudgeController{judgeService: judgeService}
}

// List returns every judge
// @Summary List judges
// @Tags judges
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Judge}
// @Router /admin/judges [get]
func (c *JudgeController) List(ctx *gin.Context) {
	judges, err := c.judgeService.List(ctx.Request.Context(), currentActor(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccess(judges))
}

// NewForm returns the empty add form
func (c *JudgeController) NewForm(ctx *gin.Context) {
	form, err := c.judgeService.LoadForm(ctx.Request.Context(), currentActor(ctx), nil)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccess(form))
}

// Form returns the change form. The name is readonly while the judge is online.
// @Summary Judge change form
// @Tags judges
// @Produce json
// @Security BearerAuth
// @Param id path int true "Judge ID"
// @Success 200 {object} dto.APIResponse{data=dto.JudgeForm}
// @Failure 404 {object} dto.ErrorResponse "Judge not found"
// @Router /admin/judges/{id} [get]
func (c *JudgeController) Form(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	form, err := c.judgeService.LoadForm(ctx.Request.Context(), currentActor(ctx), &id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccess(form))
}

// Create adds a judge, generating a key when none is given
func (c *JudgeController) Create(ctx *gin.Context) {
	var judge models.Judge
	if !bindJSON(ctx, &judge) {
		return
	}
	id, err := c.judgeService.Create(ctx.Request.Context(), currentActor(ctx), &judge)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	judge.ID = id
	respondCreated(ctx, judge)
}

// Update saves a judge
func (c *JudgeController) Update(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var judge models.Judge
	if !bindJSON(ctx, &judge) {
		return
	}
	judge.ID = id
	if err := c.judgeService.Update(ctx.Request.Context(), currentActor(ctx), &judge); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccess(judge))
}

// Delete removes an offline judge
// @Summary Delete a judge
// @Tags judges
// @Produce json
// @Security BearerAuth
// @Param id path int true "Judge ID"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.ErrorResponse "Judge is online"
// @Router /admin/judges/{id} [delete]
func (c *JudgeController) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := c.judgeService.Delete(ctx.Request.Context(), currentActor(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondDeleted(ctx, "Judge")
}

// RegenerateKey replaces the judge authentication key
// @Summary Regenerate judge key
// @Tags judges
// @Produce json
// @Security BearerAuth
// @Param id path int true "Judge ID"
// @Success 200 {object} dto.APIResponse{data=dto.RegenerateKeyResponse}
// @Router /admin/judges/{id}/regenerate-key [post]
func (c *JudgeController) RegenerateKey(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	key, err := c.judgeService.RegenerateKey(ctx.Request.Context(), currentActor(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccess(dto.RegenerateKeyResponse{AuthKey: key}))
}
