// Package app assembles the blog: database, repositories, media storage and
// the HTTP router.
package app

import (
	"fmt"
	"net/http"

	"blogicum/internal/config"
	"blogicum/internal/db"
	"blogicum/internal/handlers"
	"blogicum/internal/repository"
	"blogicum/internal/router"
	"blogicum/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds all application dependencies.
type App struct {
	cfg    *config.Config
	db     *gorm.DB
	router *gin.Engine
	logger *zap.Logger
}

// NewLogger builds the production logger in production and a development
// logger everywhere else.
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// OpenDB connects to the configured database and migrates the schema.
func OpenDB(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	conn, err := db.Open(cfg.DBDriver, cfg.DatabaseURL, logger)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	if err := db.Migrate(conn); err != nil {
		db.Close(conn)
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return conn, nil
}

// New initializes the application: config → DB → storage → routes.
func New(logger *zap.Logger, cfg *config.Config) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	conn, err := OpenDB(cfg, logger)
	if err != nil {
		return nil, err
	}

	storage, err := services.NewStorage(cfg)
	if err != nil {
		db.Close(conn)
		return nil, fmt.Errorf("media storage: %w", err)
	}

	categories := repository.NewCategoryRepository(conn)
	nav, err := services.NewNavService(categories, nil)
	if err != nil {
		db.Close(conn)
		return nil, err
	}

	deps := &handlers.Deps{
		Posts:      repository.NewPostRepository(conn),
		Comments:   repository.NewCommentRepository(conn),
		Categories: categories,
		Locations:  repository.NewLocationRepository(conn),
		Users:      repository.NewUserRepository(conn),
		Images:     services.NewImageService(storage, cfg.MaxUploadMB<<20, logger),
		Nav:        nav,
		Log:        logger,
		SiteName:   cfg.SiteName,
		Location:   loc,
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	opts := router.Options{
		SessionSecret: cfg.SessionSecret,
		SecureCookies: cfg.IsProduction(),
		CSRFEnabled:   cfg.CSRFEnabled,
	}
	if local, ok := storage.(*services.LocalStorage); ok {
		opts.MediaRoot = local.Root()
		opts.MediaURL = cfg.MediaURL
	}
	r, err := router.New(deps, opts)
	if err != nil {
		db.Close(conn)
		return nil, fmt.Errorf("router: %w", err)
	}

	return &App{cfg: cfg, db: conn, router: r, logger: logger}, nil
}

// Addr returns the listen address.
func (a *App) Addr() string { return ":" + a.cfg.Port }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown closes the database pool.
func (a *App) Shutdown() {
	if err := db.Close(a.db); err != nil {
		a.logger.Warn("close database", zap.Error(err))
	}
}
