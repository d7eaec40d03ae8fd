package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/judgeadmin/internal/app/admin"
	"github.com/yigit/judgeadmin/internal/app/controllers"
	"github.com/yigit/judgeadmin/internal/app/models/dto"
	"github.com/yigit/judgeadmin/internal/middleware"
)

// Controllers bundles every HTTP handler set mounted by SetupRouter
type Controllers struct {
	Auth          *controllers.AuthController
	Admin         *controllers.AdminController
	Language      *controllers.LanguageController
	ProblemGroup  *controllers.ProblemSetController
	ProblemType   *controllers.ProblemSetController
	ContestTag    *controllers.ContestTagController
	Navigation    *controllers.NavigationController
	Judge         *controllers.JudgeController
	Contest       *controllers.ContestController
	Participation *controllers.ParticipationController
	Organization  *controllers.OrganizationController
	Content       *controllers.ContentController
}

// crud is the handler set of a change list with add and change forms
type crud struct {
	list, newForm, form, create, update, remove gin.HandlerFunc
}

func mountCRUD(g *gin.RouterGroup, path string, h crud) {
	r := g.Group("/" + path)
	r.GET("", h.list)
	if h.newForm != nil {
		r.GET("/new", h.newForm)
	}
	r.GET("/:id", h.form)
	r.POST("", h.create)
	r.PUT("/:id", h.update)
	r.DELETE("/:id", h.remove)
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, site *admin.Site, authMiddleware *middleware.AuthMiddleware) {
	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/login", c.Auth.Login)
	}

	adm := v1.Group("/admin")
	adm.Use(authMiddleware.JWTAuth(), authMiddleware.ActorLoader())
	{
		adm.GET("", c.Admin.Index)
		adm.GET("/select2/:view", c.Admin.Select2)

		// Descriptor metadata and bulk actions of every registered entity
		for _, d := range site.Descriptors() {
			adm.GET("/"+d.Path+"/meta", c.Admin.Meta(d.Entity))
			adm.POST("/"+d.Path+"/actions/:action", c.Admin.RunAction(d.Entity))
		}

		mountCRUD(adm, "languages", crud{c.Language.List, c.Language.NewForm, c.Language.Form, c.Language.Create, c.Language.Update, c.Language.Delete})
		mountCRUD(adm, "problem-groups", crud{c.ProblemGroup.List, c.ProblemGroup.NewForm, c.ProblemGroup.Form, c.ProblemGroup.Create, c.ProblemGroup.Update, c.ProblemGroup.Delete})
		mountCRUD(adm, "problem-types", crud{c.ProblemType.List, c.ProblemType.NewForm, c.ProblemType.Form, c.ProblemType.Create, c.ProblemType.Update, c.ProblemType.Delete})
		mountCRUD(adm, "contest-tags", crud{c.ContestTag.List, c.ContestTag.NewForm, c.ContestTag.Form, c.ContestTag.Create, c.ContestTag.Update, c.ContestTag.Delete})
		mountCRUD(adm, "judges", crud{c.Judge.List, c.Judge.NewForm, c.Judge.Form, c.Judge.Create, c.Judge.Update, c.Judge.Delete})
		adm.POST("/judges/:id/regenerate-key", c.Judge.RegenerateKey)

		adm.POST("/navigation/batch", c.Navigation.Batch)
		mountCRUD(adm, "navigation", crud{c.Navigation.List, nil, c.Navigation.Get, c.Navigation.Create, c.Navigation.Update, c.Navigation.Delete})

		// Rating recomputation accepts GET for links and POST for forms
		rateMethods := []string{http.MethodGet, http.MethodPost}
		adm.Match(rateMethods, "/contests/rate/all", c.Contest.RateAll)
		adm.Match(rateMethods, "/contests/:id/rate", c.Contest.Rate)
		mountCRUD(adm, "contests", crud{c.Contest.List, c.Contest.NewForm, c.Contest.Form, c.Contest.Create, c.Contest.Update, c.Contest.Delete})

		mountCRUD(adm, "participations", crud{c.Participation.List, nil, c.Participation.Get, c.Participation.Create, c.Participation.Update, c.Participation.Delete})
		mountCRUD(adm, "organizations", crud{c.Organization.List, c.Organization.NewForm, c.Organization.Form, c.Organization.Create, c.Organization.Update, c.Organization.Delete})
		mountCRUD(adm, "organization-requests", crud{c.Organization.ListRequests, nil, c.Organization.GetRequest, c.Organization.CreateRequest, c.Organization.UpdateRequest, c.Organization.DeleteRequest})
		mountCRUD(adm, "blog-posts", crud{c.Content.ListPosts, nil, c.Content.GetPost, c.Content.CreatePost, c.Content.UpdatePost, c.Content.DeletePost})
		mountCRUD(adm, "solutions", crud{c.Content.ListSolutions, nil, c.Content.GetSolution, c.Content.CreateSolution, c.Content.UpdateSolution, c.Content.DeleteSolution})
		mountCRUD(adm, "licenses", crud{c.Content.ListLicenses, nil, c.Content.GetLicense, c.Content.CreateLicense, c.Content.UpdateLicense, c.Content.DeleteLicense})

		misc := adm.Group("/misc-config")
		{
			misc.GET("", c.Content.ListConfig)
			misc.GET("/:key", c.Content.GetConfig)
			misc.PUT("/:key", c.Content.SaveConfig)
			misc.DELETE("/:key", c.Content.DeleteConfig)
		}
	}

	v1.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, dto.NewSuccess(gin.H{"status": "ok"}))
	})
}
