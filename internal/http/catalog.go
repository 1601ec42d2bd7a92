package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/printingpress/internal/entities"
	"github.com/mrlokans/printingpress/internal/gutenberg"
)

// CatalogController proxies searches to the external book catalog.
type CatalogController struct {
	catalog CatalogService
}

func NewCatalogController(catalog CatalogService) *CatalogController {
	return &CatalogController{catalog: catalog}
}

// CatalogSearchResponse is one page of catalog search results.
type CatalogSearchResponse struct {
	Books   []entities.SourceBook `json:"books"`
	Total   int                   `json:"total"`
	Page    int                   `json:"page"`
	HasNext bool                  `json:"has_next"`
	HasPrev bool                  `json:"has_prev"`
}

// Search handles GET /api/gutenberg/search?q=&page=&languages=
func (cc *CatalogController) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		respondBadRequest(c, "q is required")
		return
	}

	page, ok := parseIntQuery(c, "page", 1, 1, 0)
	if !ok {
		return
	}

	result, err := cc.catalog.SearchBooks(c.Request.Context(), query, page, parseLanguages(c))
	if err != nil {
		respondError(c, http.StatusBadGateway, "catalog search failed: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, CatalogSearchResponse{
		Books:   result.Books,
		Total:   result.Count,
		Page:    page,
		HasNext: result.Next != "",
		HasPrev: result.Previous != "",
	})
}

// GetBook handles GET /api/gutenberg/book/:id
func (cc *CatalogController) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := cc.catalog.GetBook(c.Request.Context(), id)
	if errors.Is(err, gutenberg.ErrNotFound) {
		respondNotFound(c, "book")
		return
	}
	if err != nil {
		respondError(c, http.StatusBadGateway, "catalog lookup failed: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, book)
}

// parseLanguages accepts both a comma-separated "languages" value and the
// single "lang" shorthand.
func parseLanguages(c *gin.Context) []string {
	raw := c.Query("languages")
	if raw == "" {
		raw = c.Query("lang")
	}
	var languages []string
	for _, lang := range strings.Split(raw, ",") {
		if lang = strings.TrimSpace(lang); lang != "" {
			languages = append(languages, lang)
		}
	}
	return languages
}
