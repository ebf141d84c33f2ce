package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JordiMolto/MyMediaVerse/internal/entities"
	"github.com/JordiMolto/MyMediaVerse/internal/importer"
	"github.com/JordiMolto/MyMediaVerse/internal/providers"
	"github.com/JordiMolto/MyMediaVerse/internal/storage"
)

// ImportsController handles bulk file imports and template downloads.
type ImportsController struct {
	pipeline *importer.Pipeline
	store    *storage.Router
}

func NewImportsController(pipeline *importer.Pipeline, store *storage.Router) *ImportsController {
	return &ImportsController{pipeline: pipeline, store: store}
}

// Import accepts a multipart upload (field "file") plus a "type" form value
// naming the category every row is imported as. Rows are parsed and enriched
// into drafts; nothing is saved. The report lists each draft in row order for
// the caller to review and pass to Save.
func (ic *ImportsController) Import(c *gin.Context) {
	mediaType, ok := entities.ParseMediaType(c.PostForm("type"))
	if !ok {
		respondBadRequest(c, "unknown category: "+c.PostForm("type"))
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		respondBadRequest(c, "no file provided")
		return
	}
	defer file.Close()

	rows, skipped, err := importer.ParseFile(header.Filename, file)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if len(rows) == 0 {
		c.JSON(http.StatusOK, importer.Report{Skipped: skipped, Drafts: []importer.Draft{}})
		return
	}

	report, err := ic.pipeline.Run(c.Request.Context(), mediaType, rows, nil)
	if err != nil {
		if providers.IsCredentialError(err) {
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: err.Error(), Details: report})
			return
		}
		respondInternalError(c, err, "import")
		return
	}

	report.Skipped = append(skipped, report.Skipped...)
	c.JSON(http.StatusOK, report)
}

// Save persists reviewed drafts through the storage router, which assigns
// fresh ids. Stops at the first failure so the caller can retry the rest.
func (ic *ImportsController) Save(c *gin.Context) {
	var req struct {
		Items []entities.Item `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if len(req.Items) == 0 {
		respondBadRequest(c, "items are required")
		return
	}

	created := make([]entities.Item, 0, len(req.Items))
	for i := range req.Items {
		draft := req.Items[i]
		draft.ID = "" // discard the temporary import id
		item, err := ic.store.CreateItem(c.Request.Context(), &draft)
		if err != nil {
			respondStoreError(c, err, "items")
			return
		}
		created = append(created, *item)
	}
	c.JSON(http.StatusCreated, created)
}

// Template serves a starter file in the expected column layout. Use
// ?format=xlsx for a spreadsheet; the default is CSV.
func (ic *ImportsController) Template(c *gin.Context) {
	if c.Query("format") == "xlsx" {
		c.Header("Content-Disposition", `attachment; filename="import-template.xlsx"`)
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err := importer.WriteTemplateXLSX(c.Writer); err != nil {
			respondInternalError(c, err, "template")
		}
		return
	}

	c.Header("Content-Disposition", `attachment; filename="import-template.csv"`)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	if err := importer.WriteTemplateCSV(c.Writer); err != nil {
		respondInternalError(c, err, "template")
	}
}
