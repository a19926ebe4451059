package handler

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"movierec-backend/internal/models"
)

// CatalogSearcher is the free-text search side of the catalog collaborator.
type CatalogSearcher interface {
	SearchByTitle(ctx context.Context, q string) ([]models.Movie, error)
}

type CatalogHandler struct {
	lookup CatalogSearcher
}

func NewCatalogHandler(lookup CatalogSearcher) *CatalogHandler {
	return &CatalogHandler{lookup: lookup}
}

// Health returns service health status.
func (h *CatalogHandler) Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "movierec-backend",
	})
}

// Search returns up to 20 movies whose title contains the query.
func (h *CatalogHandler) Search(c fiber.Ctx) error {
	q := fiber.Query(c, "q", "")

	movies, err := h.lookup.SearchByTitle(c.Context(), q)
	if err != nil {
		slog.Error("failed to search movies", "query", q, "error", err)
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"query": q, "results": movies})
}
