package app

import (
	"net/http"
	"time"

	"bioatlas-backend/internal/companies"
	"bioatlas-backend/internal/config"
	"bioatlas-backend/internal/database"
	"bioatlas-backend/internal/descriptions"
	"bioatlas-backend/internal/health"
	"bioatlas-backend/internal/impact"
	"bioatlas-backend/internal/middleware"
	"bioatlas-backend/internal/portfolio"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// gormPinger adapts a GORM DB to the health module's DBPinger.
type gormPinger struct {
	db *gorm.DB
}

func (p gormPinger) Ping() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// descriptionProvider picks the text-generation collaborator from config.
func descriptionProvider(cfg *config.Config) descriptions.Provider {
	if cfg.DescriptionProvider == "gemini" {
		return &descriptions.GeminiClient{APIKey: cfg.GeminiAPIKey}
	}
	return &descriptions.OpenAIClient{
		APIKey: cfg.OpenAIAPIKey,
		Client: &http.Client{Timeout: 60 * time.Second},
	}
}

// CreateApp builds the Fiber app with all global middleware and route
// registration. DB and Redis are returned for startup pings; either may be
// nil when unconfigured (tests), in which case the routes that need them
// are not mounted.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
		BodyLimit:               int(cfg.UploadMaxBytes) + 1<<20,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		rdb = redis.NewClient(opt)
		app.Use(middleware.HealthMarker(rdb))
	}

	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		var err error
		db, err = database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	healthHandlers := &health.Handlers{
		Rdb:            rdb,
		HealthAdminKey: cfg.HealthAdminKey,
	}
	if db != nil {
		healthHandlers.DB = gormPinger{db: db}
	}
	app.Get("/health/json", healthHandlers.JSON)
	app.Get("/health/reset", healthHandlers.Reset)

	if db != nil {
		impactService := &impact.Service{DB: db}
		descriptionService := &descriptions.Service{
			DB:       db,
			Provider: descriptionProvider(cfg),
			Timeout:  cfg.DescriptionTimeout,
		}
		companyService := &companies.Service{
			DB:           db,
			Impact:       impactService,
			Descriptions: descriptionService,
		}
		companyHandlers := &companies.Handlers{Service: companyService}

		limiter := middleware.RateLimit(rdb, middleware.RateLimitConfig{PerMinute: cfg.SearchRateLimit})
		companyGroup := app.Group("/api/v1/companies", limiter)
		companyGroup.Get("/search", companyHandlers.Search)
		companyGroup.Get("/rankings", companyHandlers.Rankings)
		companyGroup.Get("/:id", companyHandlers.Detail)

		portfolioHandlers := &portfolio.Handlers{
			Impact:   impactService,
			MaxBytes: cfg.UploadMaxBytes,
		}
		app.Post("/api/v1/portfolio/upload", portfolioHandlers.Upload)
	}

	return app, db, rdb, nil
}
