package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/judgeadmin/internal/app/admin"
	appAuth "github.com/yigit/judgeadmin/internal/app/auth"
	appControllers "github.com/yigit/judgeadmin/internal/app/controllers"
	appMigrations "github.com/yigit/judgeadmin/internal/app/migrations"
	appRepos "github.com/yigit/judgeadmin/internal/app/repositories"
	appRoutes "github.com/yigit/judgeadmin/internal/app/routes"
	appServices "github.com/yigit/judgeadmin/internal/app/services"
	"github.com/yigit/judgeadmin/internal/config"
	"github.com/yigit/judgeadmin/internal/db"
	appMiddleware "github.com/yigit/judgeadmin/internal/middleware"
	pkgAuth "github.com/yigit/judgeadmin/internal/pkg/auth"
	"github.com/yigit/judgeadmin/internal/pkg/helpers"
	"github.com/yigit/judgeadmin/internal/pkg/logger"
	"github.com/yigit/judgeadmin/internal/pkg/validation"
	"github.com/yigit/judgeadmin/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos          *appRepos.Repositories
	Site           *admin.Site
	JWTService     *pkgAuth.JWTService
	Authorizer     appAuth.Authorizer
	AuthMiddleware *appMiddleware.AuthMiddleware
	Controllers    appRoutes.Controllers
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and seeds default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		database.Close()
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Str("path", migrationsDir).Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(database.Pool).MigrateFromDirectory(ctx, migrationsDir); err != nil {
		database.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	users := appRepos.NewUserRepository(database.Pool)
	if err := seed.CreateDefaultData(ctx, database, users, cfg.Admin.SeedPassword, lgr); err != nil {
		// startup continues; the admin can still be seeded by hand
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}
	repos := appRepos.NewRepositories(database.Pool)
	deps.Repos = repos
	pageSize := cfg.Admin.ListPageSize

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 12*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})
	deps.Authorizer = appAuth.NewAuthorizer(repos.UserRepository)
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.Authorizer)

	// Services
	authService := appServices.NewAuthService(repos.UserRepository, deps.JWTService)
	languageService := appServices.NewLanguageService(database, repos.LanguageRepository)
	problemGroupService := appServices.NewProblemGroupService(database, repos.ProblemGroupRepository)
	problemTypeService := appServices.NewProblemTypeService(database, repos.ProblemTypeRepository)
	contestTagService := appServices.NewContestTagService(database, repos.ContestTagRepository)
	navigationService := appServices.NewNavigationService(database, repos.NavigationRepository,
		helpers.ParseDuration(cfg.Admin.TreeLockTimeout, 10*time.Second))
	judgeService := appServices.NewJudgeService(repos.JudgeRepository)
	contestService := appServices.NewContestService(database, repos.ContestRepository)
	ratingService := appServices.NewRatingService(database, repos.RatingRepository, repos.ContestRepository,
		appServices.NewEloCalculator(repos.RatingRepository, cfg.Admin.DefaultRating))
	participationService := appServices.NewParticipationService(database, repos.ParticipationRepository)
	organizationService := appServices.NewOrganizationService(database, repos.OrganizationRepository)
	requestService := appServices.NewOrganizationRequestService(repos.OrganizationRequestRepository)
	blogPostService := appServices.NewBlogPostService(database, repos.BlogPostRepository)
	solutionService := appServices.NewSolutionService(repos.SolutionRepository)
	licenseService := appServices.NewLicenseService(repos.LicenseRepository)
	miscConfigService := appServices.NewMiscConfigService(repos.MiscConfigRepository)
	select2Service := appServices.NewSelect2Service(repos.ProblemRepository, repos.ProfileRepository, repos.ContestRepository, 0)

	site, err := admin.NewDefaultSite(contestService, participationService)
	if err != nil {
		return nil, fmt.Errorf("failed to register admin descriptors: %w", err)
	}
	deps.Site = site

	deps.Controllers = appRoutes.Controllers{
		Auth:          appControllers.NewAuthController(authService),
		Admin:         appControllers.NewAdminController(site, select2Service),
		Language:      appControllers.NewLanguageController(languageService),
		ProblemGroup:  appControllers.NewProblemSetController(problemGroupService, "Problem group"),
		ProblemType:   appControllers.NewProblemSetController(problemTypeService, "Problem type"),
		ContestTag:    appControllers.NewContestTagController(contestTagService),
		Navigation:    appControllers.NewNavigationController(navigationService),
		Judge:         appControllers.NewJudgeController(judgeService),
		Contest:       appControllers.NewContestController(contestService, ratingService, pageSize),
		Participation: appControllers.NewParticipationController(participationService, pageSize),
		Organization:  appControllers.NewOrganizationController(organizationService, requestService, pageSize),
		Content:       appControllers.NewContentController(blogPostService, solutionService, licenseService, miscConfigService, pageSize),
	}

	lgr.Info().Int("entities", len(site.Descriptors())).Msg("Admin site registered")
	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	if err := validation.RegisterGinRules(); err != nil {
		return nil, fmt.Errorf("failed to register validation rules: %w", err)
	}

	router := gin.New()
	router.Use(appMiddleware.RequestLogger(), appMiddleware.Recovery())

	appRoutes.SetupRouter(router, deps.Controllers, deps.Site, deps.AuthMiddleware)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router, nil
}
