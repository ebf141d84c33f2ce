package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/JordiMolto/MyMediaVerse/internal/entities"
	"github.com/JordiMolto/MyMediaVerse/internal/storage"
)

// NotesController serves the per-item note endpoints.
type NotesController struct {
	store *storage.Router
}

func NewNotesController(store *storage.Router) *NotesController {
	return &NotesController{store: store}
}

// ListByItem returns all notes of one item, newest first.
func (nc *NotesController) ListByItem(c *gin.Context) {
	notes, err := nc.store.ListNotes(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondStoreError(c, err, "notes")
		return
	}
	c.JSON(http.StatusOK, notes)
}

// Create attaches a note to an item.
func (nc *NotesController) Create(c *gin.Context) {
	var draft entities.Note
	if err := c.ShouldBindJSON(&draft); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	draft.ItemID = c.Param("id")
	if strings.TrimSpace(draft.Content) == "" {
		respondBadRequest(c, "content is required")
		return
	}

	// The item must exist on the active backend.
	if _, err := nc.store.GetItem(c.Request.Context(), draft.ItemID); err != nil {
		respondStoreError(c, err, "item")
		return
	}

	created, err := nc.store.CreateNote(c.Request.Context(), &draft)
	if err != nil {
		respondStoreError(c, err, "note")
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Update applies a partial note update.
func (nc *NotesController) Update(c *gin.Context) {
	var patch entities.NotePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	updated, err := nc.store.UpdateNote(c.Request.Context(), c.Param("noteId"), &patch)
	if err != nil {
		respondStoreError(c, err, "note")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete removes one note.
func (nc *NotesController) Delete(c *gin.Context) {
	if err := nc.store.DeleteNote(c.Request.Context(), c.Param("noteId")); err != nil {
		respondStoreError(c, err, "note")
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "note deleted"})
}
