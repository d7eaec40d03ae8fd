package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/judgeadmin/internal/app/models"
	"github.com/yigit/judgeadmin/internal/app/models/dto"
	"github.com/yigit/judgeadmin/internal/app/services"
	"github.com/yigit/judgeadmin/internal/middleware"
)

// NavigationController handles the site menu tree
type NavigationController struct {
	navService services.NavigationService
}

// NewNavigationController creates a new NavigationController
func NewNavigationController(navService services.NavigationService) *NavigationController {
	return &NavigationController{navService: navService}
}

// List returns the menu in tree order
// @Summary List navigation entries
// @Tags navigation
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.NavigationBar}
// @Router /admin/navigation [get]
func (c *NavigationController) List(ctx *gin.Context) {
	items, err := c.navService.List(ctx.Request.Context(), currentActor(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccess(items))
}

// Get returns one entry
func (c *NavigationController) Get(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	item, err := c.navService.Get(ctx.Request.Context(), currentActor(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccess(item))
}

// Create adds an entry and rebuilds the tree
func (c *NavigationController) Create(ctx *gin.Context) {
	var item models.NavigationBar
	if !bindJSON(ctx, &item) {
		return
	}
	id, err := c.navService.Create(ctx.Request.Context(), currentActor(ctx), &item)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	item.ID = id
	respondCreated(ctx, item)
}

// Update saves an entry and rebuilds the tree
func (c *NavigationController) Update(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var item models.NavigationBar
	if !bindJSON(ctx, &item) {
		return
	}
	item.ID = id
	if err := c.navService.Update(ctx.Request.Context(), currentActor(ctx), &item); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccess(item))
}

// Delete removes an entry and rebuilds the tree
func (c *NavigationController) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := c.navService.Delete(ctx.Request.Context(), currentActor(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondDeleted(ctx, "Navigation entry")
}

// Batch applies a change-list submission with a single tree rebuild
// @Summary Apply navigation edits
// @Description Saves and deletes several entries, rebuilding the tree once when anything changed
// @Tags navigation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.NavigationBatchRequest true "Edits"
// @Success 200 {object} dto.APIResponse{data=dto.NavigationBatchResponse}
// @Failure 409 {object} dto.ErrorResponse "Tree is locked by another writer"
// @Router /admin/navigation/batch [post]
func (c *NavigationController) Batch(ctx *gin.Context) {
	var req dto.NavigationBatchRequest
	if !bindJSON(ctx, &req) {
		return
	}
	resp, err := c.navService.ApplyEdits(ctx.Request.Context(), currentActor(ctx), req.Edits)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccess(resp))
}
