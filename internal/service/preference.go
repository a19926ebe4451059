package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"movierec-backend/internal/errs"
	"movierec-backend/internal/models"
	"movierec-backend/internal/validate"
)

const (
	watchlistCacheTTL  = 10 * time.Minute
	defaultEventsLimit = 50
)

// PreferenceService orchestrates each interaction as the same two-phase
// shape: validate the request, mutate the account aggregate, then append an
// event capturing the same fact to the interaction log. The two writes are
// deliberately not one transaction; divergence on a fault between them is
// tolerated by the downstream consumer.
type PreferenceService struct {
	accounts AccountStore
	log      InteractionLog
	catalog  MovieResolver
	redis    *redis.Client
}

func NewPreferenceService(accounts AccountStore, log InteractionLog, catalog MovieResolver, rdb *redis.Client) *PreferenceService {
	return &PreferenceService{accounts: accounts, log: log, catalog: catalog, redis: rdb}
}

// AddToWatchlist puts movieID on the account's watchlist. Idempotent:
// re-adding is still a success.
func (s *PreferenceService) AddToWatchlist(ctx context.Context, accountID, movieID int) error {
	if movieID <= 0 {
		return errs.Validation("movie_id", "must be a positive integer")
	}
	if err := s.accounts.AddToWatchlist(ctx, accountID, movieID); err != nil {
		return err
	}
	s.delCache(ctx, watchlistKey(accountID))
	return nil
}

// RemoveFromWatchlist takes movieID off the watchlist. Idempotent: removing
// an absent movie is still a success.
func (s *PreferenceService) RemoveFromWatchlist(ctx context.Context, accountID, movieID int) error {
	if movieID <= 0 {
		return errs.Validation("movie_id", "must be a positive integer")
	}
	if err := s.accounts.RemoveFromWatchlist(ctx, accountID, movieID); err != nil {
		return err
	}
	s.delCache(ctx, watchlistKey(accountID))
	return nil
}

// GetWatchlist returns the watchlist resolved to catalog entries.
func (s *PreferenceService) GetWatchlist(ctx context.Context, accountID int) ([]models.Movie, error) {
	cacheKey := watchlistKey(accountID)
	if cached, err := s.getFromCache(ctx, cacheKey); err == nil {
		var movies []models.Movie
		if json.Unmarshal([]byte(cached), &movies) == nil {
			return movies, nil
		}
	}

	ids, err := s.accounts.GetWatchlist(ctx, accountID)
	if err != nil {
		return nil, err
	}
	movies, err := s.catalog.ResolveByIds(ctx, ids)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(movies); err == nil {
		s.setCache(ctx, cacheKey, string(data), watchlistCacheTTL)
	}
	return movies, nil
}

// Rate validates and upserts the account's rating for a movie, then appends a
// rate event. A rating is allowed whether or not the movie was ever marked
// watched; the event records the watched-set membership at append time.
// Out-of-range ratings are rejected before anything is written.
func (s *PreferenceService) Rate(ctx context.Context, accountID int, req models.RateRequest) (*models.InteractionEvent, error) {
	if req.MovieID <= 0 {
		return nil, errs.Validation("movie_id", "must be a positive integer")
	}
	if req.Rating == nil {
		return nil, errs.Validation("rating", "is required")
	}
	if !validate.Rating(*req.Rating) {
		return nil, errs.Validation("rating", "must be between 1.0 and 5.0")
	}

	if err := s.accounts.SetRating(ctx, accountID, req.MovieID, *req.Rating); err != nil {
		return nil, err
	}

	// The event must record the real watched-set membership, not a guess;
	// if the read fails the request fails, even though the rating upsert
	// already landed.
	watched, err := s.accounts.IsWatched(ctx, accountID, req.MovieID)
	if err != nil {
		return nil, err
	}

	return s.append(ctx, &models.InteractionEvent{
		AccountID:        accountID,
		MovieID:          req.MovieID,
		Action:           models.ActionRate,
		Rating:           req.Rating,
		CurrentlyWatched: watched,
		SessionID:        req.SessionID,
	})
}

// MarkWatched adds the movie to the watched set and appends a watched event.
// Marking an already-watched movie is a no-op success, and still logged.
func (s *PreferenceService) MarkWatched(ctx context.Context, accountID int, req models.WatchedRequest) (*models.InteractionEvent, error) {
	if req.MovieID <= 0 {
		return nil, errs.Validation("movie_id", "must be a positive integer")
	}
	if err := s.accounts.MarkWatched(ctx, accountID, req.MovieID); err != nil {
		return nil, err
	}
	return s.append(ctx, &models.InteractionEvent{
		AccountID:        accountID,
		MovieID:          req.MovieID,
		Action:           models.ActionWatched,
		CurrentlyWatched: true,
		SessionID:        req.SessionID,
	})
}

// MarkUnwatched removes the movie from the watched set and appends an unwatch
// event. Unwatching a movie not in the set is errs.ErrNotFound and appends
// nothing; this asymmetry with watchlist removal is contract.
func (s *PreferenceService) MarkUnwatched(ctx context.Context, accountID int, req models.WatchedRequest) (*models.InteractionEvent, error) {
	if req.MovieID <= 0 {
		return nil, errs.Validation("movie_id", "must be a positive integer")
	}
	if err := s.accounts.MarkUnwatched(ctx, accountID, req.MovieID); err != nil {
		return nil, err
	}
	return s.append(ctx, &models.InteractionEvent{
		AccountID:        accountID,
		MovieID:          req.MovieID,
		Action:           models.ActionUnwatch,
		CurrentlyWatched: false,
		SessionID:        req.SessionID,
	})
}

// Ratings returns the account's current ratings map.
func (s *PreferenceService) Ratings(ctx context.Context, accountID int) (map[int]float64, error) {
	return s.accounts.GetRatings(ctx, accountID)
}

// Interactions returns the account's event stream in append order, for the
// recommendation consumer.
func (s *PreferenceService) Interactions(ctx context.Context, accountID, limit int) ([]models.InteractionEvent, error) {
	if _, err := s.accounts.GetByID(ctx, accountID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultEventsLimit
	}
	events, err := s.log.ListByAccount(ctx, accountID, limit)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []models.InteractionEvent{}
	}
	return events, nil
}

// ProfileStats returns the public profile with aggregate counts.
func (s *PreferenceService) ProfileStats(ctx context.Context, accountID int) (*models.ProfileStats, error) {
	a, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	watchlist, err := s.accounts.GetWatchlist(ctx, accountID)
	if err != nil {
		return nil, err
	}
	ratings, err := s.accounts.GetRatings(ctx, accountID)
	if err != nil {
		return nil, err
	}
	watched, err := s.accounts.GetWatched(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return &models.ProfileStats{
		Profile:        a.Profile(),
		WatchlistCount: len(watchlist),
		RatingCount:    len(ratings),
		WatchedCount:   len(watched),
	}, nil
}

// append stamps the event and writes it to the log. The aggregate mutation
// has already happened; a failure here leaves the two views diverged, which
// is accepted rather than repaired.
func (s *PreferenceService) append(ctx context.Context, ev *models.InteractionEvent) (*models.InteractionEvent, error) {
	ev.EventID = uuid.NewString()
	if ev.SessionID == "" {
		ev.SessionID = uuid.NewString()
	}
	if err := s.log.Append(ctx, ev); err != nil {
		return nil, err
	}
	return ev, nil
}

func watchlistKey(accountID int) string {
	return fmt.Sprintf("account:watchlist:%d", accountID)
}

// Redis helpers

func (s *PreferenceService) getFromCache(ctx context.Context, key string) (string, error) {
	if s.redis == nil {
		return "", fmt.Errorf("redis not available")
	}
	return s.redis.Get(ctx, key).Result()
}

func (s *PreferenceService) setCache(ctx context.Context, key, value string, ttl time.Duration) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Set(ctx, key, value, ttl).Err(); err != nil {
		slog.Error("failed to set cache", "key", key, "error", err)
	}
}

func (s *PreferenceService) delCache(ctx context.Context, key string) {
	if s.redis == nil {
		return
	}
	s.redis.Del(ctx, key)
}
