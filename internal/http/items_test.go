package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JordiMolto/MyMediaVerse/internal/database"
	"github.com/JordiMolto/MyMediaVerse/internal/database/categories"
	"github.com/JordiMolto/MyMediaVerse/internal/database/items"
	"github.com/JordiMolto/MyMediaVerse/internal/database/notes"
	"github.com/JordiMolto/MyMediaVerse/internal/entities"
	"github.com/JordiMolto/MyMediaVerse/internal/remote"
	"github.com/JordiMolto/MyMediaVerse/internal/storage"
)

// setupAPITest builds a full router over a local-only store backed by a
// throwaway sqlite file.
func setupAPITest(t *testing.T) (*gin.Engine, *storage.Router, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_api_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	store := storage.NewRouter(
		storage.NewLocalStore(items.NewRepository(db.DB), notes.NewRepository(db.DB)),
		nil, nil)

	router := NewRouter(RouterConfig{
		Store:        store,
		Database:     db,
		Categories:   categories.NewRepository(db.DB),
		RemoteClient: remote.NewClient("", "", nil),
		Version:      "test",
	})

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return router, store, cleanup
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateItem(t *testing.T) {
	router, _, cleanup := setupAPITest(t)
	defer cleanup()

	w := doJSON(t, router, "POST", "/api/items", gin.H{
		"type":  "movie",
		"title": "Dune",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var item entities.Item
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "Dune", item.Title)
	assert.Equal(t, entities.StatusPending, item.Status)
	assert.False(t, item.CreatedAt.IsZero())
}

func TestCreateItemValidation(t *testing.T) {
	router, _, cleanup := setupAPITest(t)
	defer cleanup()

	w := doJSON(t, router, "POST", "/api/items", gin.H{"type": "movie"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "missing title")

	w = doJSON(t, router, "POST", "/api/items", gin.H{"type": "podcast", "title": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "unknown category")

	w = doJSON(t, router, "POST", "/api/items", gin.H{"type": "movie", "title": "x", "rating": 9})
	assert.Equal(t, http.StatusBadRequest, w.Code, "rating out of range")
}

func TestCreateItemNormalizesSpanishCategory(t *testing.T) {
	router, _, cleanup := setupAPITest(t)
	defer cleanup()

	w := doJSON(t, router, "POST", "/api/items", gin.H{"type": "película", "title": "Amanece, que no es poco"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var item entities.Item
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))
	assert.Equal(t, string(entities.MediaTypeMovie), item.Type)
}

func TestListItemsWithTypeFilter(t *testing.T) {
	router, _, cleanup := setupAPITest(t)
	defer cleanup()

	for _, draft := range []gin.H{
		{"type": "movie", "title": "Dune"},
		{"type": "book", "title": "Dune (novel)"},
		{"type": "movie", "title": "Blade Runner"},
	} {
		w := doJSON(t, router, "POST", "/api/items", draft)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, router, "GET", "/api/items", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var all []entities.Item
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Len(t, all, 3)

	w = doJSON(t, router, "GET", "/api/items?type=movie", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var movies []entities.Item
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &movies))
	assert.Len(t, movies, 2)

	w = doJSON(t, router, "GET", "/api/items?type=podcast", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetItemNotFound(t *testing.T) {
	router, _, cleanup := setupAPITest(t)
	defer cleanup()

	w := doJSON(t, router, "GET", "/api/items/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateItem(t *testing.T) {
	router, _, cleanup := setupAPITest(t)
	defer cleanup()

	w := doJSON(t, router, "POST", "/api/items", gin.H{"type": "movie", "title": "Dune"})
	require.Equal(t, http.StatusCreated, w.Code)
	var item entities.Item
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))

	w = doJSON(t, router, "PATCH", "/api/items/"+item.ID, gin.H{"rating": 4, "status": "completed"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated entities.Item
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	require.NotNil(t, updated.Rating)
	assert.Equal(t, 4, *updated.Rating)
	assert.Equal(t, entities.StatusCompleted, updated.Status)
	assert.Equal(t, "Dune", updated.Title, "untouched fields survive")

	w = doJSON(t, router, "PATCH", "/api/items/"+item.ID, gin.H{"rating": 7})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteItem(t *testing.T) {
	router, _, cleanup := setupAPITest(t)
	defer cleanup()

	w := doJSON(t, router, "POST", "/api/items", gin.H{"type": "movie", "title": "Dune"})
	require.Equal(t, http.StatusCreated, w.Code)
	var item entities.Item
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))

	w = doJSON(t, router, "DELETE", "/api/items/"+item.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "GET", "/api/items/"+item.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
