package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/JordiMolto/MyMediaVerse/internal/entities"
	"github.com/JordiMolto/MyMediaVerse/internal/storage"
)

// ItemsController serves the item CRUD endpoints through the storage router,
// so every call lands on whichever backend the session selects.
type ItemsController struct {
	store *storage.Router
}

func NewItemsController(store *storage.Router) *ItemsController {
	return &ItemsController{store: store}
}

// List returns all items, optionally filtered with ?type=movie.
func (ic *ItemsController) List(c *gin.Context) {
	if rawType := c.Query("type"); rawType != "" {
		mediaType, ok := entities.ParseMediaType(rawType)
		if !ok {
			respondBadRequest(c, "unknown category: "+rawType)
			return
		}
		items, err := ic.store.ListItemsByType(c.Request.Context(), mediaType)
		if err != nil {
			respondStoreError(c, err, "items")
			return
		}
		c.JSON(http.StatusOK, items)
		return
	}

	items, err := ic.store.ListItems(c.Request.Context())
	if err != nil {
		respondStoreError(c, err, "items")
		return
	}
	c.JSON(http.StatusOK, items)
}

// Get returns one item by id.
func (ic *ItemsController) Get(c *gin.Context) {
	item, err := ic.store.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondStoreError(c, err, "item")
		return
	}
	c.JSON(http.StatusOK, item)
}

// Create stores a new item. The backend assigns id and creation timestamp.
func (ic *ItemsController) Create(c *gin.Context) {
	var draft entities.Item
	if err := c.ShouldBindJSON(&draft); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if msg := validateDraft(&draft); msg != "" {
		respondBadRequest(c, msg)
		return
	}

	created, err := ic.store.CreateItem(c.Request.Context(), &draft)
	if err != nil {
		respondStoreError(c, err, "item")
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Update applies a partial update; absent fields stay untouched.
func (ic *ItemsController) Update(c *gin.Context) {
	var patch entities.ItemPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if patch.Rating != nil && (*patch.Rating < 0 || *patch.Rating > 5) {
		respondBadRequest(c, "rating must be between 0 and 5")
		return
	}

	updated, err := ic.store.UpdateItem(c.Request.Context(), c.Param("id"), &patch)
	if err != nil {
		respondStoreError(c, err, "item")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete removes an item and, locally, its notes.
func (ic *ItemsController) Delete(c *gin.Context) {
	if err := ic.store.DeleteItem(c.Request.Context(), c.Param("id")); err != nil {
		respondStoreError(c, err, "item")
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "item deleted"})
}

func validateDraft(draft *entities.Item) string {
	if strings.TrimSpace(draft.Title) == "" {
		return "title is required"
	}
	mediaType, ok := entities.ParseMediaType(draft.Type)
	if !ok {
		return "unknown category: " + draft.Type
	}
	draft.Type = string(mediaType)
	if draft.Status == "" {
		draft.Status = entities.StatusPending
	}
	if draft.Rating != nil && (*draft.Rating < 0 || *draft.Rating > 5) {
		return "rating must be between 0 and 5"
	}
	return ""
}
