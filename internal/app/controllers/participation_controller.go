package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/judgeadmin/internal/app/models"
	"github.com/yigit/judgeadmin/internal/app/models/dto"
	"github.com/yigit/judgeadmin/internal/app/repositories"
	"github.com/yigit/judgeadmin/internal/app/services"
	"github.com/yigit/judgeadmin/internal/middleware"
	"github.com/yigit/judgeadmin/internal/pkg/apperrors"
)

// ParticipationController handles contest participation administration
type ParticipationController struct {
	participationService services.ParticipationService
	pageSize             int
}

// NewParticipationController creates a new ParticipationController
func NewParticipationController(participationService services.ParticipationService, pageSize int) *ParticipationController {
	return &ParticipationController{participationService: participationService, pageSize: pageSize}
}

// List returns participations, optionally of one contest
// @Summary List participations
// @Tags participations
// @Produce json
// @Security BearerAuth
// @Param q query string false "Search by contest key, contest name or username"
// @Param contest query int false "Contest ID"
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]models.ContestParticipation}}
// @Router /admin/participations [get]
func (c *ParticipationController) List(ctx *gin.Context) {
	filter := repositories.ParticipationFilter{Search: ctx.Query("q")}
	if raw := ctx.Query("contest"); raw != "" {
		contestID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			middleware.HandleAPIError(ctx, apperrors.NewValidationError("contest", "invalid contest"))
			return
		}
		filter.ContestID = &contestID
	}
	page, pageNo, size := listPage(ctx, c.pageSize)
	filter.Page = page

	items, total, err := c.participationService.List(ctx.Request.Context(), currentActor(ctx), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondPage(ctx, items, total, pageNo, size)
}

// Get returns one participation
func (c *ParticipationController) Get(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	item, err := c.participationService.Get(ctx.Request.Context(), currentActor(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccess(item))
}

// Create adds a participation
func (c *ParticipationController) Create(ctx *gin.Context) {
	var item models.ContestParticipation
	if !bindJSON(ctx, &item) {
		return
	}
	id, err := c.participationService.Create(ctx.Request.Context(), currentActor(ctx), &item)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	item.ID = id
	respondCreated(ctx, item)
}

// Update saves a participation
func (c *ParticipationController) Update(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var item models.ContestParticipation
	if !bindJSON(ctx, &item) {
		return
	}
	item.ID = id
	if err := c.participationService.Update(ctx.Request.Context(), currentActor(ctx), &item); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccess(item))
}

// Delete removes a participation
func (c *ParticipationController) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := c.participationService.Delete(ctx.Request.Context(), currentActor(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondDeleted(ctx, "Participation")
}
