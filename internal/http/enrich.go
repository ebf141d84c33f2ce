package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JordiMolto/MyMediaVerse/internal/enrich"
	"github.com/JordiMolto/MyMediaVerse/internal/providers"
	"github.com/JordiMolto/MyMediaVerse/internal/tasks"
)

// EnrichController exposes metadata enrichment. Single items run inline;
// the full sweep goes through the task queue because it can take minutes.
type EnrichController struct {
	engine     *enrich.Engine
	taskClient *tasks.Client
}

func NewEnrichController(engine *enrich.Engine, taskClient *tasks.Client) *EnrichController {
	return &EnrichController{engine: engine, taskClient: taskClient}
}

// EnrichItem fetches and applies metadata for one item, synchronously.
func (ec *EnrichController) EnrichItem(c *gin.Context) {
	result, err := ec.engine.EnrichItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		ec.respondEnrichError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type batchEnrichRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

// EnrichBatch enriches a list of items sequentially with paced provider
// calls. The response carries per-batch counts; errors abort the run.
func (ec *EnrichController) EnrichBatch(c *gin.Context) {
	var req batchEnrichRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if len(req.IDs) == 0 {
		respondBadRequest(c, "ids must not be empty")
		return
	}

	result, err := ec.engine.EnrichItems(c.Request.Context(), req.IDs, nil)
	if err != nil && providers.IsCredentialError(err) {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: err.Error(), Details: result})
		return
	}
	c.JSON(http.StatusOK, result)
}

// EnrichAllMissing queues a background sweep over every item that still
// lacks a description or image.
func (ec *EnrichController) EnrichAllMissing(c *gin.Context) {
	if ec.taskClient == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "task queue not available"})
		return
	}

	ids, err := ec.taskClient.Add(tasks.EnrichAllItemsTask{}).Save()
	if err != nil {
		respondInternalError(c, err, "enrich-all")
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"status":  "queued",
		"task_id": firstID(ids),
	})
}

func (ec *EnrichController) respondEnrichError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, providers.ErrNoMatch):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "no match found"})
	case errors.Is(err, enrich.ErrUnsupportedType):
		respondBadRequest(c, enrich.ErrUnsupportedType.Error())
	case providers.IsCredentialError(err):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
	default:
		respondStoreError(c, err, "item")
	}
}

func firstID(ids []string) string {
	if len(ids) == 0 {
		return ""
	}
	return ids[0]
}
