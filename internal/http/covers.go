package http

import (
	"github.com/gin-gonic/gin"

	"github.com/JordiMolto/MyMediaVerse/internal/covers"
	"github.com/JordiMolto/MyMediaVerse/internal/storage"
)

// CoversController serves locally cached cover art.
type CoversController struct {
	cache *covers.Cache
	store *storage.Router
}

func NewCoversController(cache *covers.Cache, store *storage.Router) *CoversController {
	return &CoversController{cache: cache, store: store}
}

// GetCover streams the item's cover image, fetching it into the cache on
// first access. Items without an image return 404.
func (cc *CoversController) GetCover(c *gin.Context) {
	item, err := cc.store.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondStoreError(c, err, "item")
		return
	}
	if item.Image == "" {
		respondNotFound(c, "cover")
		return
	}

	path, err := cc.cache.GetCover(item.ID, item.Image)
	if err != nil {
		// Fall back to the origin URL when the CDN fetch fails.
		c.Redirect(302, item.Image)
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.File(path)
}
