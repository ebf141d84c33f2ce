package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/JordiMolto/MyMediaVerse/internal/auth"
	"github.com/JordiMolto/MyMediaVerse/internal/database/categories"
	"github.com/JordiMolto/MyMediaVerse/internal/entities"
)

// CategoriesController manages the user-defined display categories. These are
// presentation settings, so they always live in the local store.
type CategoriesController struct {
	repo *categories.Repository
}

func NewCategoriesController(repo *categories.Repository) *CategoriesController {
	return &CategoriesController{repo: repo}
}

func (cc *CategoriesController) List(c *gin.Context) {
	userID, _ := auth.UserIDFromContext(c.Request.Context())
	cats, err := cc.repo.List(c.Request.Context(), userID)
	if err != nil {
		respondInternalError(c, err, "categories")
		return
	}
	c.JSON(http.StatusOK, cats)
}

func (cc *CategoriesController) Create(c *gin.Context) {
	var req struct {
		Name    string `json:"name"`
		Icon    string `json:"icon"`
		Color   string `json:"color"`
		Visible *bool  `json:"visible"` // omitted means visible
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respondBadRequest(c, "name is required")
		return
	}

	cat := entities.Category{
		Name:    req.Name,
		Icon:    req.Icon,
		Color:   req.Color,
		Visible: true,
	}
	if req.Visible != nil {
		cat.Visible = *req.Visible
	}
	cat.UserID, _ = auth.UserIDFromContext(c.Request.Context())

	created, err := cc.repo.Create(c.Request.Context(), &cat)
	if err != nil {
		respondInternalError(c, err, "categories")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (cc *CategoriesController) Update(c *gin.Context) {
	cat, err := cc.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "category")
			return
		}
		respondInternalError(c, err, "categories")
		return
	}

	var patch struct {
		Name    *string `json:"name"`
		Icon    *string `json:"icon"`
		Color   *string `json:"color"`
		Visible *bool   `json:"visible"`
	}
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if patch.Name != nil {
		cat.Name = *patch.Name
	}
	if patch.Icon != nil {
		cat.Icon = *patch.Icon
	}
	if patch.Color != nil {
		cat.Color = *patch.Color
	}
	if patch.Visible != nil {
		cat.Visible = *patch.Visible
	}

	if err := cc.repo.Update(c.Request.Context(), cat); err != nil {
		respondInternalError(c, err, "categories")
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (cc *CategoriesController) Delete(c *gin.Context) {
	if err := cc.repo.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondInternalError(c, err, "categories")
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "category deleted"})
}
