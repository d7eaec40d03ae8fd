package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/judgeadmin/internal/app/admin"
	"github.com/yigit/judgeadmin/internal/app/auth"
	"github.com/yigit/judgeadmin/internal/app/models/dto"
	"github.com/yigit/judgeadmin/internal/app/services"
	"github.com/yigit/judgeadmin/internal/middleware"
	"github.com/yigit/judgeadmin/internal/pkg/apperrors"
)

// AdminController serves the admin index, entity metadata, bulk actions and remote search
type AdminController struct {
	site    *admin.Site
	select2 services.Select2Service
}

// NewAdminController creates a new AdminController
func NewAdminController(site *admin.Site, select2 services.Select2Service) *AdminController {
	return &AdminController{site: site, select2: select2}
}

func permissionsOf(actor *auth.Actor, entity string) dto.EntityPermissions {
	return dto.EntityPermissions{
		View:   auth.CanView(actor, entity),
		Add:    auth.CanAdd(actor, entity),
		Change: auth.CanChange(actor, entity, nil),
		Delete: auth.CanDelete(actor, entity, nil),
	}
}

// Index lists the entities the actor may open
// @Summary Admin index
// @Description Lists every administered entity whose change list the caller may open
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.AdminEntry} "Visible entities"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Router /admin [get]
func (c *AdminController) Index(ctx *gin.Context) {
	actor := currentActor(ctx)
	entries := []dto.AdminEntry{}
	for _, d := range c.site.VisibleTo(actor) {
		entries = append(entries, dto.AdminEntry{
			Entity:            d.Entity,
			Path:              d.Path,
			VerboseNamePlural: d.VerboseNamePlural,
			Permissions:       permissionsOf(actor, d.Entity),
		})
	}
	ctx.JSON(http.StatusOK, dto.NewSuccess(entries))
}

// Meta returns a handler serving the descriptor of entity
func (c *AdminController) Meta(entity string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		actor := currentActor(ctx)
		d, err := c.site.Get(entity)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		if !auth.CanView(actor, entity) {
			middleware.HandleAPIError(ctx, apperrors.NewForbiddenError("you cannot view "+d.VerboseNamePlural))
			return
		}
		ctx.JSON(http.StatusOK, dto.NewSuccess(dto.AdminMeta{
			Descriptor:  d,
			Permissions: permissionsOf(actor, entity),
		}))
	}
}

// RunAction returns a handler applying a named bulk action of entity
// @Summary Run a bulk action
// @Description Applies a change-list action to the selected rows and reports how many changed
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param action path string true "Action name"
// @Param request body dto.ActionRequest true "Selected rows"
// @Success 200 {object} dto.APIResponse{data=dto.ActionResponse} "Action applied"
// @Failure 400 {object} dto.ErrorResponse "Empty selection"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - User does not have permission"
// @Failure 404 {object} dto.ErrorResponse "Unknown action"
// @Router /admin/{entity}/actions/{action} [post]
func (c *AdminController) RunAction(entity string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req dto.ActionRequest
		if !bindJSON(ctx, &req) {
			return
		}
		name := ctx.Param("action")
		count, message, err := c.site.RunAction(ctx.Request.Context(), currentActor(ctx), entity, name, req.IDs)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, dto.NewMessage(message, dto.ActionResponse{
			Action:  name,
			Count:   count,
			Message: message,
		}))
	}
}

// Select2 answers remote search requests of selection widgets
// @Summary Remote search
// @Description Searches problems, profiles, organizations or contests for selection widgets
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param view path string true "Search target" Enums(problems, profiles, organizations, contests)
// @Param term query string false "Search term"
// @Param page query int false "Page number"
// @Success 200 {object} dto.Select2Response "Matches"
// @Failure 404 {object} dto.ErrorResponse "Unknown search target"
// @Router /admin/select2/{view} [get]
func (c *AdminController) Select2(ctx *gin.Context) {
	page, err := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}
	resp, err := c.select2.Search(ctx.Request.Context(), currentActor(ctx), ctx.Param("view"), ctx.Query("term"), page)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
