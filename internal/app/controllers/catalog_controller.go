package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/judgeadmin/internal/app/models"
	"github.com/yigit/judgeadmin/internal/app/models/dto"
	"github.com/yigit/judgeadmin/internal/app/services"
	"github.com/yigit/judgeadmin/internal/middleware"
)

// LanguageController handles submission language administration
type LanguageController struct {
	languageService services.LanguageService
}

// NewLanguageController creates a new LanguageController
func NewLanguageController(languageService services.LanguageService) *LanguageController {
	return &LanguageController{languageService: languageService}
}

// List returns every language
// @Summary List languages
// @Tags languages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Language} "Languages retrieved successfully"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - User does not have permission"
// @Router /admin/languages [get]
func (c *LanguageController) List(ctx *gin.Context) {
	languages, err := c.languageService.List(ctx.Request.Context(), currentActor(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccess(languages))
}

// NewForm returns the empty add form
// @Summary Language add form
// @Tags languages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.MembershipForm}
// @Router /admin/languages/new [get]
func (c *LanguageController) NewForm(ctx *gin.Context) {
	form, err := c.languageService.LoadForm(ctx.Request.Context(), currentActor(ctx), nil)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccess(form))
}

// Form returns the change form with the disallowed problems preselected
// @Summary Language change form
// @Tags languages
// @Produce json
// @Security BearerAuth
// @Param id path int true "Language ID"
// @Success 200 {object} dto.APIResponse{data=dto.MembershipForm}
// @Failure 404 {object} dto.ErrorResponse "Language not found"
// @Router /admin/languages/{id} [get]
func (c *LanguageController) Form(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	form, err := c.languageService.LoadForm(ctx.Request.Context(), currentActor(ctx), &id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccess(form))
}

// Create adds a language
// @Summary Create a language
// @Tags languages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.Language true "Language"
// @Success 201 {object} dto.APIResponse{data=models.Language}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Language key already exists"
// @Router /admin/languages [post]
func (c *LanguageController) Create(ctx *gin.Context) {
	var lang models.Language
	if !bindJSON(ctx, &lang) {
		return
	}
	id, err := c.languageService.Create(ctx.Request.Context(), currentActor(ctx), &lang)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	lang.ID = id
	respondCreated(ctx, lang)
}

// Update saves a language and its disallowed problems
// @Summary Update a language
// @Tags languages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Language ID"
// @Param request body models.Language true "Language"
// @Success 200 {object} dto.APIResponse{data=models.Language}
// @Router /admin/languages/{id} [put]
func (c *LanguageController) Update(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var lang models.Language
	if !bindJSON(ctx, &lang) {
		return
	}
	lang.ID = id
	if err := c.languageService.Update(ctx.Request.Context(), currentActor(ctx), &lang); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccess(lang))
}

// Delete removes a language
// @Summary Delete a language
// @Tags languages
// @Produce json
// @Security BearerAuth
// @Param id path int true "Language ID"
// @Success 200 {object} dto.APIResponse
// @Router /admin/languages/{id} [delete]
func (c *LanguageController) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := c.languageService.Delete(ctx.Request.Context(), currentActor(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondDeleted(ctx, "Language")
}

// ProblemSetController administers problem groups or problem types
type ProblemSetController struct {
	service services.ProblemSetService
	name    string
}

// NewProblemSetController creates a new ProblemSetController. name labels response messages.
func NewProblemSetController(service services.ProblemSetService, name string) *ProblemSetController {
	return &ProblemSetController{service: service, name: name}
}

// List returns every set
// @Summary List problem groups or types
// @Tags problem-sets
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.ProblemSet}
// @Router /admin/problem-groups [get]
// @Router /admin/problem-types [get]
func (c *ProblemSetController) List(ctx *gin.Context) {
	sets, err := c.service.List(ctx.Request.Context(), currentActor(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccess(sets))
}

// NewForm returns the empty add form
func (c *ProblemSetController) NewForm(ctx *gin.Context) {
	form, err := c.service.LoadForm(ctx.Request.Context(), currentActor(ctx), nil)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccess(form))
}

// Form returns the change form with the included problems preselected
func (c *ProblemSetController) Form(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	form, err := c.service.LoadForm(ctx.Request.Context(), currentActor(ctx), &id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccess(form))
}

// Create adds a set
func (c *ProblemSetController) Create(ctx *gin.Context) {
	var set models.ProblemSet
	if !bindJSON(ctx, &set) {
		return
	}
	id, err := c.service.Create(ctx.Request.Context(), currentActor(ctx), &set)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	set.ID = id
	respondCreated(ctx, set)
}

// Update saves a set and its problems
func (c *ProblemSetController) Update(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var set models.ProblemSet
	if !bindJSON(ctx, &set) {
		return
	}
	set.ID = id
	if err := c.service.Update(ctx.Request.Context(), currentActor(ctx), &set); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccess(set))
}

// Delete removes a set
func (c *ProblemSetController) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := c.service.Delete(ctx.Request.Context(), currentActor(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondDeleted(ctx, c.name)
}

// ContestTagController handles contest tag administration
type ContestTagController struct {
	tagService services.ContestTagService
}

// NewContestTagController creates a new ContestTagController
func NewContestTagController(tagService services.ContestTagService) *ContestTagController {
	return &ContestTagController{tagService: tagService}
}

// List returns every tag
// @Summary List contest tags
// @Tags contest-tags
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.ContestTag}
// @Router /admin/contest-tags [get]
func (c *ContestTagController) List(ctx *gin.Context) {
	tags, err := c.tagService.List(ctx.Request.Context(), currentActor(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccess(tags))
}

// NewForm returns the empty add form
func (c *ContestTagController) NewForm(ctx *gin.Context) {
	form, err := c.tagService.LoadForm(ctx.Request.Context(), currentActor(ctx), nil)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccess(form))
}

// Form returns the change form with the tagged contests preselected
func (c *ContestTagController) Form(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	form, err := c.tagService.LoadForm(ctx.Request.Context(), currentActor(ctx), &id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccess(form))
}

// Create adds a tag
func (c *ContestTagController) Create(ctx *gin.Context) {
	var tag models.ContestTag
	if !bindJSON(ctx, &tag) {
		return
	}
	id, err := c.tagService.Create(ctx.Request.Context(), currentActor(ctx), &tag)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	tag.ID = id
	respondCreated(ctx, tag)
}

// Update saves a tag and its contests
func (c *ContestTagController) Update(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var tag models.ContestTag
	if !bindJSON(ctx, &tag) {
		return
	}
	tag.ID = id
	if err := c.tagService.Update(ctx.Request.Context(), currentActor(ctx), &tag); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccess(tag))
}

// Delete removes a tag
func (c *ContestTagController) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := c.tagService.Delete(ctx.Request.Context(), currentActor(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondDeleted(ctx, "Contest tag")
}
