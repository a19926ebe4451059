package handler

import (
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"movierec-backend/internal/models"
	"movierec-backend/internal/service"
)

type PreferenceHandler struct {
	svc *service.PreferenceService
}

func NewPreferenceHandler(svc *service.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{svc: svc}
}

func accountID(c fiber.Ctx) (int, bool) {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// AddToWatchlist puts a movie on the account's watchlist.
func (h *PreferenceHandler) AddToWatchlist(c fiber.Ctx) error {
	id, ok := accountID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid account ID"})
	}

	var req models.WatchlistRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	if err := h.svc.AddToWatchlist(c.Context(), id, req.MovieID); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "added to watchlist"})
}

// RemoveFromWatchlist takes a movie off the watchlist.
func (h *PreferenceHandler) RemoveFromWatchlist(c fiber.Ctx) error {
	id, ok := accountID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid account ID"})
	}
	movieID, err := strconv.Atoi(c.Params("movieID"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid movie ID"})
	}

	if err := h.svc.RemoveFromWatchlist(c.Context(), id, movieID); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "removed from watchlist"})
}

// GetWatchlist returns the watchlist resolved to catalog entries.
func (h *PreferenceHandler) GetWatchlist(c fiber.Ctx) error {
	id, ok := accountID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid account ID"})
	}

	movies, err := h.svc.GetWatchlist(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"account_id": id, "watchlist": movies})
}

// Rate records a rating for a movie.
func (h *PreferenceHandler) Rate(c fiber.Ctx) error {
	id, ok := accountID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid account ID"})
	}

	var req models.RateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	ev, err := h.svc.Rate(c.Context(), id, req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(ev)
}

// GetRatings returns the account's ratings map.
func (h *PreferenceHandler) GetRatings(c fiber.Ctx) error {
	id, ok := accountID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid account ID"})
	}

	ratings, err := h.svc.Ratings(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"account_id": id, "ratings": ratings})
}

// MarkWatched adds a movie to the watched set.
func (h *PreferenceHandler) MarkWatched(c fiber.Ctx) error {
	id, ok := accountID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid account ID"})
	}

	var req models.WatchedRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	ev, err := h.svc.MarkWatched(c.Context(), id, req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(ev)
}

// MarkUnwatched removes a movie from the watched set. Unwatching a movie not
// in the set is 404.
func (h *PreferenceHandler) MarkUnwatched(c fiber.Ctx) error {
	id, ok := accountID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid account ID"})
	}
	movieID, err := strconv.Atoi(c.Params("movieID"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid movie ID"})
	}

	ev, err := h.svc.MarkUnwatched(c.Context(), id, models.WatchedRequest{
		MovieID:   movieID,
		SessionID: fiber.Query(c, "session_id", ""),
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(ev)
}

// GetInteractions returns the account's event stream in append order.
func (h *PreferenceHandler) GetInteractions(c fiber.Ctx) error {
	id, ok := accountID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid account ID"})
	}

	limit := fiber.Query(c, "limit", 50)

	events, err := h.svc.Interactions(c.Context(), id, limit)
	if err != nil {
		slog.Error("failed to get interactions", "account_id", id, "error", err)
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"account_id": id, "interactions": events})
}

// GetProfile returns the public profile with aggregate counts.
func (h *PreferenceHandler) GetProfile(c fiber.Ctx) error {
	id, ok := accountID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid account ID"})
	}

	stats, err := h.svc.ProfileStats(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(stats)
}
