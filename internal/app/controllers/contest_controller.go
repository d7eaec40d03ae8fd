package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/judgeadmin/internal/app/models/dto"
	"github.com/yigit/judgeadmin/internal/app/repositories"
	"github.com/yigit/judgeadmin/internal/app/services"
	"github.com/yigit/judgeadmin/internal/middleware"
	"github.com/yigit/judgeadmin/internal/pkg/logger"
)

// ContestListPath is where rating endpoints redirect without a Referer
const ContestListPath = "/api/v1/admin/contests"

// ContestController handles contest administration and rating recomputation
type ContestController struct {
	contestService services.ContestService
	ratingService  services.RatingService
	pageSize       int
}

// NewContestController creates a new ContestController
func NewContestController(contestService services.ContestService, ratingService services.RatingService, pageSize int) *ContestController {
	return &ContestController{
		contestService: contestService,
		ratingService:  ratingService,
		pageSize:       pageSize,
	}
}

// List returns the contests visible to the caller
// @Summary List contests
// @Description Lists contests; without edit_all_contest only contests the caller organizes
// @Tags contests
// @Produce json
// @Security BearerAuth
// @Param q query string false "Search by key or name"
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]models.Contest}}
// @Failure 403 {object} dto.ErrorResponse "Forbidden - User does not have permission"
// @Router /admin/contests [get]
func (c *ContestController) List(ctx *gin.Context) {
	page, pageNo, size := listPage(ctx, c.pageSize)
	contests, total, err := c.contestService.List(ctx.Request.Context(), currentActor(ctx), repositories.ContestFilter{
		Search: ctx.Query("q"),
		Page:   page,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondPage(ctx, contests, total, pageNo, size)
}

// NewForm returns the empty add form with organizer candidates
func (c *ContestController) NewForm(ctx *gin.Context) {
	form, err := c.contestService.LoadForm(ctx.Request.Context(), currentActor(ctx), nil)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccess(form))
}

// Form returns the change form
// @Summary Contest change form
// @Description Rating fields are readonly without contest_rating; rate-exclude choices are the participants
// @Tags contests
// @Produce json
// @Security BearerAuth
// @Param id path int true "Contest ID"
// @Success 200 {object} dto.APIResponse{data=dto.ContestForm}
// @Failure 404 {object} dto.ErrorResponse "Contest not found or not in scope"
// @Router /admin/contests/{id} [get]
func (c *ContestController) Form(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	form, err := c.contestService.LoadForm(ctx.Request.Context(), currentActor(ctx), &id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccess(form))
}

// Create adds a contest with its problems
// @Summary Create a contest
// @Tags contests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ContestRequest true "Contest"
// @Success 201 {object} dto.APIResponse{data=models.Contest}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Contest key already exists"
// @Router /admin/contests [post]
func (c *ContestController) Create(ctx *gin.Context) {
	var req dto.ContestRequest
	if !bindJSON(ctx, &req) {
		return
	}
	contest := req.ToModel()
	id, err := c.contestService.Create(ctx.Request.Context(), currentActor(ctx), contest)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	contest.ID = id
	respondCreated(ctx, contest)
}

// Update saves a contest with its problems
func (c *ContestController) Update(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var req dto.ContestRequest
	if !bindJSON(ctx, &req) {
		return
	}
	contest := req.ToModel()
	contest.ID = id
	if err := c.contestService.Update(ctx.Request.Context(), currentActor(ctx), contest); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccess(contest))
}

// Delete removes a contest
func (c *ContestController) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := c.contestService.Delete(ctx.Request.Context(), currentActor(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondDeleted(ctx, "Contest")
}

// RateAll recomputes every rating from scratch
// @Summary Rerate all contests
// @Description Deletes all ratings and recomputes them in contest order, then redirects back
// @Tags contests
// @Security BearerAuth
// @Success 302 "Redirect to the referring page or the contest list"
// @Failure 403 {object} dto.ErrorResponse "contest_rating capability required"
// @Router /admin/contests/rate/all [post]
func (c *ContestController) RateAll(ctx *gin.Context) {
	count, err := c.ratingService.RateAll(ctx.Request.Context(), currentActor(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	logger.FromContext(ctx.Request.Context()).Info().Int("contests", count).Msg("All contests rerated")
	c.redirectBack(ctx)
}

// Rate recomputes the ratings of a contest and every later rated contest
// @Summary Rerate from a contest
// @Tags contests
// @Security BearerAuth
// @Param id path int true "Contest ID"
// @Success 302 "Redirect to the referring page or the contest list"
// @Failure 403 {object} dto.ErrorResponse "contest_rating capability required"
// @Failure 404 {object} dto.ErrorResponse "Contest not found or not rated"
// @Router /admin/contests/{id}/rate [post]
func (c *ContestController) Rate(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	count, err := c.ratingService.RateFrom(ctx.Request.Context(), currentActor(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	logger.FromContext(ctx.Request.Context()).Info().Int64("contestID", id).Int("contests", count).Msg("Contests rerated")
	c.redirectBack(ctx)
}

func (c *ContestController) redirectBack(ctx *gin.Context) {
	target := ctx.GetHeader("Referer")
	if target == "" {
		target = ContestListPath
	}
	ctx.Redirect(http.StatusFound, target)
}
