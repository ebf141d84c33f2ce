package http

import (
	"github.com/gin-gonic/gin"

	"github.com/JordiMolto/MyMediaVerse/internal/auth"
	"github.com/JordiMolto/MyMediaVerse/internal/config"
	"github.com/JordiMolto/MyMediaVerse/internal/covers"
	"github.com/JordiMolto/MyMediaVerse/internal/database"
	"github.com/JordiMolto/MyMediaVerse/internal/database/categories"
	"github.com/JordiMolto/MyMediaVerse/internal/enrich"
	"github.com/JordiMolto/MyMediaVerse/internal/importer"
	"github.com/JordiMolto/MyMediaVerse/internal/remote"
	"github.com/JordiMolto/MyMediaVerse/internal/storage"
	"github.com/JordiMolto/MyMediaVerse/internal/tasks"
)

// RouterConfig contains all dependencies needed to build the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Store      *storage.Router
	Database   *database.Database
	Categories *categories.Repository

	// Remote record store client, for the health check
	RemoteClient *remote.Client

	// Cover art cache (optional)
	CoverCache *covers.Cache

	// Metadata enrichment
	Engine *enrich.Engine

	// Bulk import
	Pipeline *importer.Pipeline

	// Authentication (nil when auth mode is "none")
	AuthService    *auth.Service
	AuthHandlers   *auth.Handlers
	AuthMiddleware *auth.Middleware
	AuthConfig     config.Auth
	CSRFSecret     []byte

	// Task queue client (optional)
	TaskClient *tasks.Client

	// Application info
	Version string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// CSRF must run before the session middleware so the session context is
	// layered on top of the request gorilla/csrf replaces.
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.AuthConfig.SecureCookies))
	}

	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.SessionLoadSave())
		router.Use(cfg.AuthMiddleware.Identity())
	}

	health := NewHealthController(cfg.Database, cfg.RemoteClient, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Auth endpoints
	if cfg.AuthHandlers != nil {
		router.POST("/api/auth/setup", cfg.AuthHandlers.Setup)
		router.POST("/api/auth/login", cfg.AuthHandlers.Login)
		router.POST("/api/auth/logout", cfg.AuthHandlers.Logout)
		router.GET("/api/auth/me", cfg.AuthHandlers.Me)
		router.POST("/api/auth/remote-token", cfg.AuthHandlers.SetRemoteToken)
	}

	api := router.Group("/api")
	if cfg.AuthMiddleware != nil {
		api.Use(cfg.AuthMiddleware.RequireAuth())
	}

	// Items
	itemsController := NewItemsController(cfg.Store)
	api.GET("/items", itemsController.List)
	api.GET("/items/:id", itemsController.Get)
	api.POST("/items", itemsController.Create)
	api.PATCH("/items/:id", itemsController.Update)
	api.DELETE("/items/:id", itemsController.Delete)

	// Notes
	notesController := NewNotesController(cfg.Store)
	api.GET("/items/:id/notes", notesController.ListByItem)
	api.POST("/items/:id/notes", notesController.Create)
	api.PATCH("/notes/:noteId", notesController.Update)
	api.DELETE("/notes/:noteId", notesController.Delete)

	// Categories (local display settings)
	if cfg.Categories != nil {
		categoriesController := NewCategoriesController(cfg.Categories)
		api.GET("/categories", categoriesController.List)
		api.POST("/categories", categoriesController.Create)
		api.PATCH("/categories/:id", categoriesController.Update)
		api.DELETE("/categories/:id", categoriesController.Delete)
	}

	// Cover art
	if cfg.CoverCache != nil {
		coversController := NewCoversController(cfg.CoverCache, cfg.Store)
		api.GET("/items/:id/cover", coversController.GetCover)
	}

	// Metadata enrichment
	if cfg.Engine != nil {
		enrichController := NewEnrichController(cfg.Engine, cfg.TaskClient)
		api.POST("/items/:id/enrich", enrichController.EnrichItem)
		api.POST("/enrich/batch", enrichController.EnrichBatch)
		api.POST("/enrich/all", enrichController.EnrichAllMissing)
	}

	// Bulk import
	if cfg.Pipeline != nil {
		importsController := NewImportsController(cfg.Pipeline, cfg.Store)
		api.POST("/import", importsController.Import)
		api.POST("/import/save", importsController.Save)
		api.GET("/import/template", importsController.Template)
	}

	// Task status
	if cfg.TaskClient != nil {
		tasksController := NewTasksController(cfg.TaskClient)
		api.GET("/tasks/:id", tasksController.GetTaskStatus)
	}

	return router
}
