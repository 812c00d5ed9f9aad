package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env                 string
	Port                string
	DatabaseURL         string
	RedisURL            string
	FrontendURLEndsWith string
	DevPassword         string
	AllowCrossSiteDev   bool
	HealthAdminKey      string

	// Description generation (text-generation collaborator).
	DescriptionProvider string // "openai" (default) or "gemini"
	OpenAIAPIKey        string
	GeminiAPIKey        string
	DescriptionTimeout  time.Duration

	// Portfolio upload.
	UploadMaxBytes int64

	// Fixed-window rate limit for company routes, requests per minute.
	// 0 disables the limiter.
	SearchRateLimit int
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	port := viper.GetString("PORT")
	if port == "" {
		port = "8080"
	}
	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	dbURL := viper.GetString("DATABASE_URL_DEV")
	if env == "production" {
		dbURL = viper.GetString("DATABASE_URL_PROD")
	} else if env == "test" {
		dbURL = viper.GetString("DATABASE_URL_TEST")
	}
	if dbURL == "" {
		dbURL = viper.GetString("DATABASE_URL")
	}
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}

	provider := strings.ToLower(viper.GetString("DESCRIPTION_PROVIDER"))
	if provider == "" {
		provider = "openai"
	}

	timeout := viper.GetDuration("DESCRIPTION_TIMEOUT")
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	maxBytes := viper.GetInt64("UPLOAD_MAX_BYTES")
	if maxBytes <= 0 {
		maxBytes = 5 << 20
	}

	return &Config{
		Env:                 env,
		Port:                port,
		DatabaseURL:         dbURL,
		RedisURL:            viper.GetString("REDIS_URL"),
		FrontendURLEndsWith: viper.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:         viper.GetString("DEV_PASSWORD"),
		AllowCrossSiteDev:   strings.EqualFold(viper.GetString("ALLOW_CROSS_SITE_DEV"), "true"),
		HealthAdminKey:      viper.GetString("HEALTH_ADMIN_KEY"),
		DescriptionProvider: provider,
		OpenAIAPIKey:        viper.GetString("OPENAI_API_KEY"),
		GeminiAPIKey:        viper.GetString("GEMINI_API_KEY"),
		DescriptionTimeout:  timeout,
		UploadMaxBytes:      maxBytes,
		SearchRateLimit:     viper.GetInt("SEARCH_RATE_LIMIT"),
	}, nil
}
