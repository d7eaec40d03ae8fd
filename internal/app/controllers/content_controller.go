package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/judgeadmin/internal/app/models"
	"github.com/yigit/judgeadmin/internal/app/models/dto"
	"github.com/yigit/judgeadmin/internal/app/services"
	"github.com/yigit/judgeadmin/internal/middleware"
)

// ContentController handles blog posts, editorials, licenses and site settings
type ContentController struct {
	posts     services.BlogPostService
	solutions services.SolutionService
	licenses  services.LicenseService
	config    services.MiscConfigService
	pageSize  int
}

// NewContentController creates a new ContentController
func NewContentController(
	posts services.BlogPostService,
	solutions services.SolutionService,
	licenses services.LicenseService,
	config services.MiscConfigService,
	pageSize int,
) *ContentController {
	return &ContentController{
		posts:     posts,
		solutions: solutions,
		licenses:  licenses,
		config:    config,
		pageSize:  pageSize,
	}
}

// ListPosts returns blog posts, newest first
// @Summary List blog posts
// @Tags blog-posts
// @Produce json
// @Security BearerAuth
// @Param q query string false "Search by title"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]models.BlogPost}}
// @Router /admin/blog-posts [get]
func (c *ContentController) ListPosts(ctx *gin.Context) {
	page, pageNo, size := listPage(ctx, c.pageSize)
	posts, total, err := c.posts.List(ctx.Request.Context(), currentActor(ctx), ctx.Query("q"), page)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondPage(ctx, posts, total, pageNo, size)
}

// GetPost returns one blog post
func (c *ContentController) GetPost(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	post, err := c.posts.Get(ctx.Request.Context(), currentActor(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccess(post))
}

// CreatePost adds a blog post, deriving the slug from the title when empty
// @Summary Create a blog post
// @Tags blog-posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.BlogPost true "Post"
// @Success 201 {object} dto.APIResponse{data=models.BlogPost}
// @Router /admin/blog-posts [post]
func (c *ContentController) CreatePost(ctx *gin.Context) {
	var post models.BlogPost
	if !bindJSON(ctx, &post) {
		return
	}
	id, err := c.posts.Create(ctx.Request.Context(), currentActor(ctx), &post)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	post.ID = id
	respondCreated(ctx, post)
}

// UpdatePost saves a blog post the caller may edit
func (c *ContentController) UpdatePost(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var post models.BlogPost
	if !bindJSON(ctx, &post) {
		return
	}
	post.ID = id
	if err := c.posts.Update(ctx.Request.Context(), currentActor(ctx), &post); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccess(post))
}

// DeletePost removes a blog post
func (c *ContentController) DeletePost(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := c.posts.Delete(ctx.Request.Context(), currentActor(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondDeleted(ctx, "Blog post")
}

// ListSolutions returns editorials
// @Summary List solutions
// @Tags solutions
// @Produce json
// @Security BearerAuth
// @Param q query string false "Search by title or problem"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]models.Solution}}
// @Router /admin/solutions [get]
func (c *ContentController) ListSolutions(ctx *gin.Context) {
	page, pageNo, size := listPage(ctx, c.pageSize)
	items, total, err := c.solutions.List(ctx.Request.Context(), currentActor(ctx), ctx.Query("q"), page)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondPage(ctx, items, total, pageNo, size)
}

// GetSolution returns one editorial
func (c *ContentController) GetSolution(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	item, err := c.solutions.Get(ctx.Request.Context(), currentActor(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccess(item))
}

// CreateSolution adds an editorial
func (c *ContentController) CreateSolution(ctx *gin.Context) {
	var item models.Solution
	if !bindJSON(ctx, &item) {
		return
	}
	id, err := c.solutions.Create(ctx.Request.Context(), currentActor(ctx), &item)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	item.ID = id
	respondCreated(ctx, item)
}

// UpdateSolution saves an editorial
func (c *ContentController) UpdateSolution(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var item models.Solution
	if !bindJSON(ctx, &item) {
		return
	}
	item.ID = id
	if err := c.solutions.Update(ctx.Request.Context(), currentActor(ctx), &item); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccess(item))
}

// DeleteSolution removes an editorial
func (c *ContentController) DeleteSolution(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := c.solutions.Delete(ctx.Request.Context(), currentActor(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondDeleted(ctx, "Solution")
}

// ListLicenses returns every license
// @Summary List licenses
// @Tags licenses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.License}
// @Router /admin/licenses [get]
func (c *ContentController) ListLicenses(ctx *gin.Context) {
	items, err := c.licenses.List(ctx.Request.Context(), currentActor(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccess(items))
}

// GetLicense returns one license
func (c *ContentController) GetLicense(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	item, err := c.licenses.Get(ctx.Request.Context(), currentActor(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccess(item))
}

// CreateLicense adds a license
func (c *ContentController) CreateLicense(ctx *gin.Context) {
	var item models.License
	if !bindJSON(ctx, &item) {
		return
	}
	id, err := c.licenses.Create(ctx.Request.Context(), currentActor(ctx), &item)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	item.ID = id
	respondCreated(ctx, item)
}

// UpdateLicense saves a license
func (c *ContentController) UpdateLicense(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var item models.License
	if !bindJSON(ctx, &item) {
		return
	}
	item.ID = id
	if err := c.licenses.Update(ctx.Request.Context(), currentActor(ctx), &item); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccess(item))
}

// DeleteLicense removes a license
func (c *ContentController) DeleteLicense(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := c.licenses.Delete(ctx.Request.Context(), currentActor(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondDeleted(ctx, "License")
}

// ListConfig returns every site setting
// @Summary List site settings
// @Tags misc-config
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.MiscConfig}
// @Router /admin/misc-config [get]
func (c *ContentController) ListConfig(ctx *gin.Context) {
	items, err := c.config.List(ctx.Request.Context(), currentActor(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccess(items))
}

// GetConfig returns one site setting
func (c *ContentController) GetConfig(ctx *gin.Context) {
	item, err := c.config.Get(ctx.Request.Context(), currentActor(ctx), ctx.Param("key"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccess(item))
}

// SaveConfig creates or replaces the setting named by the path
// @Summary Save a site setting
// @Tags misc-config
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param key path string true "Setting key"
// @Param request body models.MiscConfig true "Setting"
// @Success 200 {object} dto.APIResponse{data=models.MiscConfig}
// @Router /admin/misc-config/{key} [put]
func (c *ContentController) SaveConfig(ctx *gin.Context) {
	var item models.MiscConfig
	item.Key = ctx.Param("key")
	if !bindJSON(ctx, &item) {
		return
	}
	item.Key = ctx.Param("key")
	if err := c.config.Save(ctx.Request.Context(), currentActor(ctx), &item); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccess(item))
}

// DeleteConfig removes a site setting
func (c *ContentController) DeleteConfig(ctx *gin.Context) {
	if err := c.config.Delete(ctx.Request.Context(), currentActor(ctx), ctx.Param("key")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondDeleted(ctx, "Setting")
}
