package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/izwi-app/izwi/internal/config"
	"github.com/izwi-app/izwi/internal/constants"
	"github.com/izwi-app/izwi/internal/database"
	"github.com/izwi-app/izwi/internal/handlers"
	"github.com/izwi-app/izwi/internal/logging"
	"github.com/izwi-app/izwi/internal/middleware"
	"github.com/izwi-app/izwi/internal/models"
	"github.com/izwi-app/izwi/internal/moderation"
	"github.com/izwi-app/izwi/internal/repository"
	"github.com/izwi-app/izwi/internal/services"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level)
	gin.SetMode(cfg.GinMode)

	if err := database.Connect(cfg); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	if err := database.AddIndexes(database.GetDB()); err != nil {
		slog.Error("failed to add indexes", "error", err)
		os.Exit(1)
	}

	// Repositories and services
	userRepo := repository.NewUserRepository(database.GetDB())
	communityRepo := repository.NewCommunityRepository(database.GetDB())
	alertRepo := repository.NewAlertRepository(database.GetDB())

	mailer := services.NewMailer(cfg.SMTP)

	notifier := moderation.NewNotifier(2, 64, moderationHandler(database.GetDB(), mailer))
	ctx, cancel := context.WithCancel(context.Background())
	notifier.Start(ctx)
	defer func() {
		cancel()
		notifier.Stop()
	}()

	authService := services.NewAuthService(userRepo)
	communityService := services.NewCommunityService(communityRepo, userRepo)
	alertService := services.NewAlertService(alertRepo, communityRepo, notifier)

	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey)
	}

	// Handlers
	pageHandler := handlers.NewPageHandler()
	authHandler := handlers.NewAuthHandler(authService, communityService)
	communityHandler := handlers.NewCommunityHandler(communityService, authService, mailer, cfg.Server.BaseURL)
	alertHandler := handlers.NewAlertHandler(alertService, aiService)

	r := gin.Default()
	r.LoadHTMLGlob("web/templates/*.html")
	r.Static("/static", "web/static")

	store, err := buildSessionStore(cfg)
	if err != nil {
		slog.Error("failed to create session store", "error", err)
		os.Exit(1)
	}
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	r.Use(middleware.CSRF())

	// Public pages
	r.GET("/", pageHandler.Home)
	r.GET("/privacy", pageHandler.Privacy)
	r.GET("/terms", pageHandler.Terms)
	r.GET("/join/:slug", communityHandler.Join)

	// Auth, rate limited against credential stuffing
	auth := r.Group("/", middleware.RateLimit(10))
	{
		auth.GET("/signup", authHandler.SignupPage)
		auth.POST("/signup", authHandler.Signup)
		auth.GET("/login", authHandler.LoginPage)
		auth.POST("/login", authHandler.Login)
	}
	r.GET("/logout", middleware.RequireAuth(), authHandler.Logout)
	r.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)

	// Community setup (no affiliation required yet)
	setup := r.Group("/", middleware.RequireAuth())
	{
		setup.GET("/define-community", communityHandler.DefineCommunityPage)
		setup.POST("/define-community", communityHandler.DefineCommunity)
		setup.GET("/welcome", pageHandler.Welcome)
	}

	// Community-scoped pages and endpoints
	app := r.Group("/", middleware.RequireAuth(), middleware.RequireCommunity())
	{
		app.GET("/dashboard", alertHandler.Dashboard)
		app.GET("/post-alert", alertHandler.PostAlertPage)
		app.POST("/post-alert", middleware.RateLimit(5), alertHandler.PostAlert)
		app.POST("/post-alert/suggest", alertHandler.SuggestCategory)
		app.POST("/report-alert", alertHandler.ReportAlert)
		app.POST("/resolve-alert", alertHandler.ResolveAlert)
		app.GET("/settings", communityHandler.Settings)
		app.POST("/settings", authHandler.UpdateProfile)
		app.GET("/remove-member/:id", communityHandler.RemoveMember)

		admin := app.Group("/", middleware.RequireCommunityAdmin())
		{
			admin.POST("/settings/invite", communityHandler.SendInvite)
			admin.POST("/update-community-name", communityHandler.UpdateName)
			admin.POST("/update-community-boundary", communityHandler.UpdateBoundary)
		}
	}

	r.NoRoute(pageHandler.NotFound)

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	slog.Info("server starting", "addr", addr)
	if err := r.Run(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

// buildSessionStore prefers Redis when configured and falls back to
// signed cookies.
func buildSessionStore(cfg *config.Config) (sessions.Store, error) {
	isProduction := cfg.GinMode == "release"
	options := sessions.Options{
		Path:     "/",
		MaxAge:   constants.SessionMaxAge,
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
	}

	if cfg.Redis.Host != "" {
		store, err := redisStore.NewStore(
			10,
			"tcp",
			cfg.Redis.Host+":"+cfg.Redis.Port,
			"",
			"",
			[]byte(cfg.Session.Secret),
		)
		if err != nil {
			return nil, err
		}
		store.Options(options)
		return store, nil
	}

	store := cookie.NewStore([]byte(cfg.Session.Secret))
	store.Options(options)
	return store, nil
}

// moderationHandler logs every report and, when mail is configured,
// notifies the community admin.
func moderationHandler(db *gorm.DB, mailer *services.Mailer) moderation.Handler {
	logHandler := moderation.LogHandler()

	return func(ctx context.Context, report moderation.Report) error {
		if err := logHandler(ctx, report); err != nil {
			return err
		}

		if mailer == nil {
			return nil
		}

		var community models.Community
		if err := db.First(&community, report.CommunityID).Error; err != nil {
			return err
		}
		var admin models.User
		if err := db.First(&admin, community.AdminUserID).Error; err != nil {
			return err
		}

		return mailer.SendModerationNotice(admin.Email, report.AlertID, report.Description)
	}
}
