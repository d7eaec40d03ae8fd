package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/judgeadmin/internal/app/models"
	"github.com/yigit/judgeadmin/internal/app/models/dto"
	"github.com/yigit/judgeadmin/internal/app/services"
	"github.com/yigit/judgeadmin/internal/middleware"
)

// OrganizationController handles organizations and their join requests
type OrganizationController struct {
	orgService     services.OrganizationService
	requestService services.OrganizationRequestService
	pageSize       int
}

// NewOrganizationController creates a new OrganizationController
func NewOrganizationController(orgService services.OrganizationService, requestService services.OrganizationRequestService, pageSize int) *OrganizationController {
	return &OrganizationController{
		orgService:     orgService,
		requestService: requestService,
		pageSize:       pageSize,
	}
}

// List returns the organizations visible to the caller
// @Summary List organizations
// @Description Without edit_all_organization only organizations the caller administers
// @Tags organizations
// @Produce json
// @Security BearerAuth
// @Param q query string false "Search by key, name or short name"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]models.Organization}}
// @Router /admin/organizations [get]
func (c *OrganizationController) List(ctx *gin.Context) {
	page, pageNo, size := listPage(ctx, c.pageSize)
	orgs, total, err := c.orgService.List(ctx.Request.Context(), currentActor(ctx), ctx.Query("q"), page)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondPage(ctx, orgs, total, pageNo, size)
}

// NewForm returns the empty add form
func (c *OrganizationController) NewForm(ctx *gin.Context) {
	form, err := c.orgService.LoadForm(ctx.Request.Context(), currentActor(ctx), nil)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccess(form))
}

// Form returns the change form
// @Summary Organization change form
// @Description Registrant, admins, openness and slots are readonly without organization_admin
// @Tags organizations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Organization ID"
// @Success 200 {object} dto.APIResponse{data=dto.OrganizationForm}
// @Router /admin/organizations/{id} [get]
func (c *OrganizationController) Form(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	form, err := c.orgService.LoadForm(ctx.Request.Context(), currentActor(ctx), &id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccess(form))
}

// Create adds an organization
func (c *OrganizationController) Create(ctx *gin.Context) {
	var org models.Organization
	if !bindJSON(ctx, &org) {
		return
	}
	id, err := c.orgService.Create(ctx.Request.Context(), currentActor(ctx), &org)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	org.ID = id
	respondCreated(ctx, org)
}

// Update saves an organization
func (c *OrganizationController) Update(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var org models.Organization
	if !bindJSON(ctx, &org) {
		return
	}
	org.ID = id
	if err := c.orgService.Update(ctx.Request.Context(), currentActor(ctx), &org); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccess(org))
}

// Delete removes an organization
func (c *OrganizationController) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := c.orgService.Delete(ctx.Request.Context(), currentActor(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondDeleted(ctx, "Organization")
}

// ListRequests returns join requests, optionally of one state
// @Summary List organization join requests
// @Tags organization-requests
// @Produce json
// @Security BearerAuth
// @Param state query string false "Request state" Enums(P, A, R)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]models.OrganizationRequest}}
// @Router /admin/organization-requests [get]
func (c *OrganizationController) ListRequests(ctx *gin.Context) {
	page, pageNo, size := listPage(ctx, c.pageSize)
	state := models.OrganizationRequestState(ctx.Query("state"))
	reqs, total, err := c.requestService.List(ctx.Request.Context(), currentActor(ctx), state, page)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondPage(ctx, reqs, total, pageNo, size)
}

// GetRequest returns one join request
func (c *OrganizationController) GetRequest(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	req, err := c.requestService.Get(ctx.Request.Context(), currentActor(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccess(req))
}

// CreateRequest adds a join request
func (c *OrganizationController) CreateRequest(ctx *gin.Context) {
	var req models.OrganizationRequest
	if !bindJSON(ctx, &req) {
		return
	}
	id, err := c.requestService.Create(ctx.Request.Context(), currentActor(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	req.ID = id
	respondCreated(ctx, req)
}

// UpdateRequest changes the state and reason of a join request
// @Summary Review a join request
// @Tags organization-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Param request body dto.OrganizationRequestUpdate true "New state"
// @Success 200 {object} dto.APIResponse
// @Router /admin/organization-requests/{id} [put]
func (c *OrganizationController) UpdateRequest(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var update dto.OrganizationRequestUpdate
	if !bindJSON(ctx, &update) {
		return
	}
	if err := c.requestService.Update(ctx.Request.Context(), currentActor(ctx), id, update); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessage("Request updated successfully", nil))
}

// DeleteRequest removes a join request
func (c *OrganizationController) DeleteRequest(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := c.requestService.Delete(ctx.Request.Context(), currentActor(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondDeleted(ctx, "Request")
}
