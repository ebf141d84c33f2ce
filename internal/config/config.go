package config

import (
	"time"

	"github.com/spf13/viper"
)

type AuthMode string

const (
	AuthModeNone  AuthMode = "none"  // No authentication required (default)
	AuthModeLocal AuthMode = "local" // Local user database with sessions
)

type (
	Config struct {
		HTTP
		Global
		Database
		Remote
		Providers
		Enrichment
		Tasks
		EnrichSweep
		Auth
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	// Remote configures the remote record store. Both URL and APIKey must be
	// set for the storage router to consider the remote backend available.
	Remote struct {
		URL    string
		APIKey string
	}
	Providers struct {
		TMDBAPIKey        string
		GoogleBooksAPIKey string // optional, Google Books works unauthenticated
		RAWGAPIKey        string
		Language          string // provider result language, e.g. "es-ES"
		WatchRegion       string // watch-provider region, e.g. "ES"
	}
	Enrichment struct {
		BatchInterval  time.Duration // pause between items in a batch enrichment
		ImportInterval time.Duration // pause between rows during bulk import
	}
	// Tasks tunes the background queue workers. Retry counts, backoff and
	// timeouts are fixed per queue, not configured here.
	Tasks struct {
		Enabled           bool
		Workers           int
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}
	EnrichSweep struct {
		Enabled  bool
		Schedule string // Cron format: "0 3 * * *" = daily at 03:00
	}
	Auth struct {
		Mode               AuthMode
		SessionSecret      string
		SessionLifetime    time.Duration
		BcryptCost         int
		SecureCookies      bool   // Set to false for local dev without HTTPS
		TokenEncryptionKey string // base64 AES-256 key; encrypts stored remote tokens when set
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8190)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Remote record store defaults
	v.SetDefault("remote_url", "")
	v.SetDefault("remote_api_key", "")

	// Provider defaults
	v.SetDefault("tmdb_api_key", "")
	v.SetDefault("google_books_api_key", "")
	v.SetDefault("rawg_api_key", "")
	v.SetDefault("provider_language", "es-ES")
	v.SetDefault("provider_watch_region", "ES")

	// Enrichment pacing defaults
	v.SetDefault("enrich_batch_interval", "300ms")
	v.SetDefault("enrich_import_interval", "200ms")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	// Scheduled enrichment sweep defaults
	v.SetDefault("enrich_sweep_enabled", false)
	v.SetDefault("enrich_sweep_schedule", "0 3 * * *") // Daily at 03:00

	// Auth defaults
	v.SetDefault("auth_mode", "none")
	v.SetDefault("auth_session_secret", "") // Auto-generated if empty
	v.SetDefault("auth_session_lifetime", "24h")
	v.SetDefault("auth_bcrypt_cost", 12)
	v.SetDefault("auth_secure_cookies", true)
	v.SetDefault("auth_token_encryption_key", "")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Remote: Remote{
			URL:    v.GetString("REMOTE_URL"),
			APIKey: v.GetString("REMOTE_API_KEY"),
		},
		Providers: Providers{
			TMDBAPIKey:        v.GetString("TMDB_API_KEY"),
			GoogleBooksAPIKey: v.GetString("GOOGLE_BOOKS_API_KEY"),
			RAWGAPIKey:        v.GetString("RAWG_API_KEY"),
			Language:          v.GetString("PROVIDER_LANGUAGE"),
			WatchRegion:       v.GetString("PROVIDER_WATCH_REGION"),
		},
		Enrichment: Enrichment{
			BatchInterval:  v.GetDuration("ENRICH_BATCH_INTERVAL"),
			ImportInterval: v.GetDuration("ENRICH_IMPORT_INTERVAL"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
		EnrichSweep: EnrichSweep{
			Enabled:  v.GetBool("ENRICH_SWEEP_ENABLED"),
			Schedule: v.GetString("ENRICH_SWEEP_SCHEDULE"),
		},
		Auth: Auth{
			Mode:               AuthMode(v.GetString("AUTH_MODE")),
			SessionSecret:      v.GetString("AUTH_SESSION_SECRET"),
			SessionLifetime:    v.GetDuration("AUTH_SESSION_LIFETIME"),
			BcryptCost:         v.GetInt("AUTH_BCRYPT_COST"),
			SecureCookies:      v.GetBool("AUTH_SECURE_COOKIES"),
			TokenEncryptionKey: v.GetString("AUTH_TOKEN_ENCRYPTION_KEY"),
		},
	}
}
