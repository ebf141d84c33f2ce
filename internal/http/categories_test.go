package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JordiMolto/MyMediaVerse/internal/entities"
)

func TestCreateCategoryVisibility(t *testing.T) {
	router, _, cleanup := setupAPITest(t)
	defer cleanup()

	w := doJSON(t, router, "POST", "/api/categories", gin.H{"name": "Cine"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var cat entities.Category
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cat))
	assert.True(t, cat.Visible, "categories are visible unless said otherwise")

	w = doJSON(t, router, "POST", "/api/categories", gin.H{"name": "Archivo", "visible": false})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var hidden entities.Category
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &hidden))
	assert.False(t, hidden.Visible)

	w = doJSON(t, router, "GET", "/api/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var cats []entities.Category
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cats))
	require.Len(t, cats, 2)
	assert.Equal(t, "Cine", cats[0].Name, "visible categories sort first")
	assert.False(t, cats[1].Visible)
}
