package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JordiMolto/MyMediaVerse/internal/enrich"
	"github.com/JordiMolto/MyMediaVerse/internal/entities"
	"github.com/JordiMolto/MyMediaVerse/internal/importer"
	"github.com/JordiMolto/MyMediaVerse/internal/providers"
	"github.com/JordiMolto/MyMediaVerse/internal/storage"
)

// noMatchEnricher stands in for the engine when no provider is configured.
type noMatchEnricher struct{}

func (noMatchEnricher) EnrichDraft(ctx context.Context, draft *entities.Item) (*enrich.Result, error) {
	return nil, providers.ErrNoMatch
}

func setupImportTest(t *testing.T) (*gin.Engine, *storage.Router, func()) {
	t.Helper()
	router, store, cleanup := setupAPITest(t)

	pipeline := importer.NewPipeline(noMatchEnricher{}, nil, nil, providers.NopPacer{})
	importsController := NewImportsController(pipeline, store)
	router.POST("/api/import", importsController.Import)
	router.POST("/api/import/save", importsController.Save)
	router.GET("/api/import/template", importsController.Template)

	return router, store, cleanup
}

func uploadFile(t *testing.T, router *gin.Engine, mediaType, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("type", mediaType))
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest("POST", "/api/import", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestImportCSVBuildsDraftsWithoutSaving(t *testing.T) {
	router, store, cleanup := setupImportTest(t)
	defer cleanup()

	csv := "Título,Estado,Nota\nEl nombre del viento,Leyendo,4\nDune,,\n"
	w := uploadFile(t, router, "book", "libros.csv", []byte(csv))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var report importer.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 2, report.NotFound, "no provider match leaves rows bare")
	assert.Equal(t, 0, report.Failed)
	require.Len(t, report.Drafts, 2)
	assert.NotEmpty(t, report.Drafts[0].Item.ID, "drafts carry a temporary id")
	assert.NotEmpty(t, report.Drafts[0].Error, "not-found rows carry a message")

	items, err := store.ListItems(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items, "importing must not persist anything")
}

func TestImportSavePersistsReviewedDrafts(t *testing.T) {
	router, store, cleanup := setupImportTest(t)
	defer cleanup()

	w := uploadFile(t, router, "book", "libros.csv",
		[]byte("Título,Estado,Nota\nDune,Leyendo,\n"))
	require.Equal(t, http.StatusOK, w.Code)

	var report importer.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	require.Len(t, report.Drafts, 1)
	tempID := report.Drafts[0].Item.ID

	w = doJSON(t, router, "POST", "/api/import/save", gin.H{
		"items": []*entities.Item{report.Drafts[0].Item},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created []entities.Item
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Len(t, created, 1)
	assert.Equal(t, "Dune", created[0].Title)
	assert.Equal(t, entities.StatusInProgress, created[0].Status)
	assert.NotEqual(t, tempID, created[0].ID, "saving assigns a fresh id")

	items, err := store.ListItems(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestImportSaveValidation(t *testing.T) {
	router, _, cleanup := setupImportTest(t)
	defer cleanup()

	w := doJSON(t, router, "POST", "/api/import/save", gin.H{"items": []entities.Item{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImportUnknownType(t *testing.T) {
	router, _, cleanup := setupImportTest(t)
	defer cleanup()

	w := uploadFile(t, router, "podcast", "x.csv", []byte("Título,Estado,Nota\na,,\n"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImportMissingFile(t *testing.T) {
	router, _, cleanup := setupImportTest(t)
	defer cleanup()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("type", "book"))
	require.NoError(t, mw.Close())

	req, _ := http.NewRequest("POST", "/api/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImportMoviesWithoutKeyAborts(t *testing.T) {
	router, store, cleanup := setupImportTest(t)
	defer cleanup()

	// Movies require a TMDB key; the pipeline above has none configured.
	w := uploadFile(t, router, "movie", "pelis.csv", []byte("Título,Estado,Nota\nDune,,\n"))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	items, err := store.ListItems(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items, "nothing is created when the key check fails")
}

func TestTemplateDownload(t *testing.T) {
	router, _, cleanup := setupImportTest(t)
	defer cleanup()

	req, _ := http.NewRequest("GET", "/api/import/template", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "import-template.csv")
	assert.Contains(t, w.Body.String(), "Título")

	req, _ = http.NewRequest("GET", "/api/import/template?format=xlsx", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "import-template.xlsx")
	assert.NotEmpty(t, w.Body.Bytes())
}
