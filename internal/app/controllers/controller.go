// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/judgeadmin/internal/app/auth"
	"github.com/yigit/judgeadmin/internal/app/models/dto"
	"github.com/yigit/judgeadmin/internal/app/repositories"
	"github.com/yigit/judgeadmin/internal/middleware"
	"github.com/yigit/judgeadmin/internal/pkg/helpers"
)

func currentActor(ctx *gin.Context) *auth.Actor {
	return middleware.CurrentActor(ctx)
}

// bindJSON binds the request body into obj, writing a 400 response on failure
func bindJSON(ctx *gin.Context, obj interface{}) bool {
	if err := ctx.ShouldBindJSON(obj); err != nil {
		middleware.HandleBindError(ctx, err)
		return false
	}
	return true
}

func pathID(ctx *gin.Context) (int64, bool) {
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return 0, false
	}
	return id, true
}

// listPage reads ?page and ?size into a repository page
func listPage(ctx *gin.Context, defaultSize int) (repositories.Page, int, int) {
	page, size := helpers.ParsePaginationParams(ctx, defaultSize)
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	return repositories.Page{Offset: offset, Limit: limit}, page, size
}

func respondPage(ctx *gin.Context, items interface{}, total int64, page, size int) {
	ctx.JSON(http.StatusOK, dto.NewSuccess(dto.PaginatedResponse{
		Items:      items,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}))
}

func respondCreated(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusCreated, dto.NewSuccess(data))
}

func respondDeleted(ctx *gin.Context, what string) {
	ctx.JSON(http.StatusOK, dto.NewMessage(what+" deleted successfully", nil))
}
