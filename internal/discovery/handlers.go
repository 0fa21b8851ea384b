package discovery

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// Handlers provides HTTP handlers for discovery operations.
type Handlers struct {
	service *Service
}

// NewHandlers creates new discovery handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes registers the discovery routes.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.GET("/search", h.Search)
	g.GET("/genres", h.GetGenres)
	g.GET("/trending", h.GetTrending)

	// Cache management
	g.DELETE("/cache", h.ClearCache)
}

// Search runs a search in the selected mode with facet filters.
// GET /api/v1/discovery/search?query=...&tab=...&type=...&genre=...&year=...&sort=...
//
// An empty query is not an error; it resolves to an empty result list, and
// upstream failures surface the same way. The panel renders a neutral empty
// state either way.
func (h *Handlers) Search(c echo.Context) error {
	query := c.QueryParam("query")
	tab := ParseTab(c.QueryParam("tab"))
	filters := filtersFromQuery(c)

	results := h.service.Search(c.Request().Context(), query, tab, filters)
	return c.JSON(http.StatusOK, results)
}

// GetGenres returns the aggregated genre catalog.
// GET /api/v1/discovery/genres
func (h *Handlers) GetGenres(c echo.Context) error {
	genres := h.service.CombinedGenres(c.Request().Context())
	return c.JSON(http.StatusOK, genres)
}

// GetTrending returns the daily trending listing, filtered client-side.
// GET /api/v1/discovery/trending?type=...&genre=...&year=...&sort=...
func (h *Handlers) GetTrending(c echo.Context) error {
	filters := filtersFromQuery(c)
	results := h.service.Trending(c.Request().Context(), filters)
	return c.JSON(http.StatusOK, results)
}

// ClearCache clears the discovery cache.
// DELETE /api/v1/discovery/cache
func (h *Handlers) ClearCache(c echo.Context) error {
	h.service.ClearCache()
	return c.NoContent(http.StatusNoContent)
}

// filtersFromQuery builds a filter set from request query parameters,
// starting from the defaults.
func filtersFromQuery(c echo.Context) *SearchFilters {
	filters := DefaultFilters()

	switch c.QueryParam("type") {
	case TypeMovie:
		filters.Type = TypeMovie
	case TypeTV:
		filters.Type = TypeTV
	}

	if genreStr := c.QueryParam("genre"); genreStr != "" {
		if id, err := strconv.Atoi(genreStr); err == nil {
			filters.GenreID = id
		}
	}

	if year := c.QueryParam("year"); year != "" {
		filters.Year = year
	}

	if sortBy := c.QueryParam("sort"); sortBy != "" {
		filters.SortBy = sortBy
	}

	return &filters
}
