// Package entrypoint wires the application together and runs the HTTP
// server with graceful shutdown.
package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JordiMolto/MyMediaVerse/internal/auth"
	"github.com/JordiMolto/MyMediaVerse/internal/config"
	"github.com/JordiMolto/MyMediaVerse/internal/covers"
	"github.com/JordiMolto/MyMediaVerse/internal/crypto"
	"github.com/JordiMolto/MyMediaVerse/internal/database"
	"github.com/JordiMolto/MyMediaVerse/internal/database/categories"
	"github.com/JordiMolto/MyMediaVerse/internal/database/items"
	"github.com/JordiMolto/MyMediaVerse/internal/database/notes"
	"github.com/JordiMolto/MyMediaVerse/internal/enrich"
	http_controllers "github.com/JordiMolto/MyMediaVerse/internal/http"
	"github.com/JordiMolto/MyMediaVerse/internal/importer"
	"github.com/JordiMolto/MyMediaVerse/internal/providers"
	"github.com/JordiMolto/MyMediaVerse/internal/remote"
	"github.com/JordiMolto/MyMediaVerse/internal/scheduler"
	"github.com/JordiMolto/MyMediaVerse/internal/storage"
	"github.com/JordiMolto/MyMediaVerse/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT/SIGTERM, then shuts down within
// the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run wires every component and starts the server.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting MyMediaVerse v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	itemRepo := items.NewRepository(db.DB)
	noteRepo := notes.NewRepository(db.DB)
	categoryRepo := categories.NewRepository(db.DB)
	localStore := storage.NewLocalStore(itemRepo, noteRepo)

	// The remote record store client exists even when unconfigured; the
	// session state keeps unauthenticated calls on the local store.
	sessionState := auth.NewState(cfg.Remote.URL != "" && cfg.Remote.APIKey != "")
	remoteClient := remote.NewClient(cfg.Remote.URL, cfg.Remote.APIKey, sessionState)
	if remoteClient.Configured() {
		log.Printf("Remote record store configured at %s", cfg.Remote.URL)
	} else {
		log.Printf("Remote record store not configured, all data stays local")
	}

	var remoteBackend storage.Backend
	if remoteClient.Configured() {
		remoteBackend = remoteClient
	}
	store := storage.NewRouter(localStore, remoteBackend, sessionState)

	// Cover art cache next to the database file
	coverCache, err := covers.NewCache(filepath.Join(filepath.Dir(cfg.Database.Path), "covers"))
	if err != nil {
		log.Printf("WARNING: Failed to initialize cover cache: %v", err)
		coverCache = nil
	}

	// Metadata providers
	tmdbClient := providers.NewTMDBClient(cfg.Providers.TMDBAPIKey, cfg.Providers.Language, cfg.Providers.WatchRegion)
	booksClient := providers.NewGoogleBooksClient(cfg.Providers.GoogleBooksAPIKey, cfg.Providers.Language)
	rawgClient := providers.NewRAWGClient(cfg.Providers.RAWGAPIKey)

	engine := enrich.NewEngine(store, tmdbClient, booksClient, rawgClient,
		providers.NewIntervalPacer(cfg.Enrichment.BatchInterval))
	pipeline := importer.NewPipeline(engine, tmdbClient, rawgClient,
		providers.NewIntervalPacer(cfg.Enrichment.ImportInterval))

	// Task queue
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:           cfg.Tasks.Workers,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewEnrichItemQueue(engine),
			tasks.NewEnrichAllItemsQueue(engine, itemRepo),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	// Scheduled enrichment sweep
	sweep := scheduler.NewEnrichSweepScheduler(engine, itemRepo, cfg.EnrichSweep)
	if err := sweep.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start enrichment sweep scheduler: %v", err)
	}

	// Authentication
	var authService *auth.Service
	var authHandlers *auth.Handlers
	var authMiddleware *auth.Middleware
	var csrfSecret []byte

	if cfg.Auth.Mode == config.AuthModeLocal {
		log.Printf("Authentication mode: local")

		authService = auth.NewService(db.DB, cfg.Auth)

		if cfg.Auth.TokenEncryptionKey != "" {
			enc, err := crypto.NewEncryptorFromBase64(cfg.Auth.TokenEncryptionKey)
			if err != nil {
				log.Fatalf("Invalid AUTH_TOKEN_ENCRYPTION_KEY: %v", err)
			}
			authService.SetTokenEncryptor(enc)
			log.Printf("Remote token encryption at rest enabled")
		}

		sqlDB, err := db.DB.DB()
		if err != nil {
			log.Fatalf("Failed to get SQL DB for sessions: %v", err)
		}

		sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Auth)
		if err != nil {
			log.Fatalf("Failed to initialize session manager: %v", err)
		}

		authHandlers = auth.NewHandlers(authService, sessionManager)
		authMiddleware = auth.NewMiddleware(authService, sessionManager, cfg.Auth)

		if cfg.Auth.SessionSecret != "" {
			csrfSecret, err = hex.DecodeString(cfg.Auth.SessionSecret)
			if err != nil {
				csrfSecret = []byte(cfg.Auth.SessionSecret)
			}
		} else {
			secret, err := auth.GenerateSessionSecret()
			if err != nil {
				log.Fatalf("Failed to generate CSRF secret: %v", err)
			}
			csrfSecret, _ = hex.DecodeString(secret)
			log.Printf("Generated session secret (set AUTH_SESSION_SECRET to persist)")
		}

		hasUsers, _ := authService.HasUsers()
		if !hasUsers {
			log.Printf("No users found. POST /api/auth/setup to create an administrator account.")
		}
	} else {
		log.Printf("Authentication mode: none (no authentication required)")
	}

	routerCfg := http_controllers.RouterConfig{
		Store:          store,
		Database:       db,
		Categories:     categoryRepo,
		RemoteClient:   remoteClient,
		CoverCache:     coverCache,
		Engine:         engine,
		Pipeline:       pipeline,
		AuthService:    authService,
		AuthHandlers:   authHandlers,
		AuthMiddleware: authMiddleware,
		AuthConfig:     cfg.Auth,
		CSRFSecret:     csrfSecret,
		TaskClient:     taskClient,
		Version:        version,
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		sweep.Stop()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
