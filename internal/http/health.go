package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JordiMolto/MyMediaVerse/internal/database"
	"github.com/JordiMolto/MyMediaVerse/internal/remote"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

type HealthController struct {
	db      *database.Database
	remote  *remote.Client
	version string
}

func NewHealthController(db *database.Database, remoteClient *remote.Client, version string) *HealthController {
	return &HealthController{db: db, remote: remoteClient, version: version}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	if h.db != nil {
		sqlDB, err := h.db.DB.DB()
		if err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else if err := sqlDB.Ping(); err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "not configured"
	}

	// Remote availability is informational; the router falls back to local.
	if h.remote != nil && h.remote.Configured() {
		checks["remote_store"] = "configured"
	} else {
		checks["remote_store"] = "not configured"
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}
	c.IndentedJSON(statusCode, health)
}
