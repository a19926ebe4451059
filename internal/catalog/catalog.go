// Package catalog is the read-only movie lookup collaborator. Preference
// writes never consult it; it only resolves ids and serves title search.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"movierec-backend/internal/errs"
	"movierec-backend/internal/models"
)

// storageErr tags a backing-store failure so callers can map it to the
// dependency branch of the error taxonomy.
func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %v: %w", op, err, errs.ErrDependency)
}

const (
	// SearchLimit caps the number of matches returned per query.
	SearchLimit = 20

	searchCacheTTL = 5 * time.Minute
)

type Lookup struct {
	db    *sql.DB
	redis *redis.Client
}

func NewLookup(db *sql.DB, rdb *redis.Client) *Lookup {
	return &Lookup{db: db, redis: rdb}
}

// ResolveByIds returns catalog entries for the given movie ids. Unknown ids
// are silently dropped from the result.
func (l *Lookup) ResolveByIds(ctx context.Context, ids []int) ([]models.Movie, error) {
	if len(ids) == 0 {
		return []models.Movie{}, nil
	}
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, title, genres FROM movies WHERE id = ANY($1) ORDER BY id
	`, pq.Array(ids))
	if err != nil {
		return nil, storageErr("failed to resolve movies", err)
	}
	defer rows.Close()
	return scanMovies(rows)
}

// SearchByTitle returns up to SearchLimit movies whose title contains q,
// case-insensitively. An empty query returns an empty list without touching
// the catalog.
func (l *Lookup) SearchByTitle(ctx context.Context, q string) ([]models.Movie, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []models.Movie{}, nil
	}

	cacheKey := fmt.Sprintf("catalog:search:%s", strings.ToLower(q))
	if cached, err := l.getFromCache(ctx, cacheKey); err == nil {
		var movies []models.Movie
		if json.Unmarshal([]byte(cached), &movies) == nil {
			return movies, nil
		}
	}

	rows, err := l.db.QueryContext(ctx, `
		SELECT id, title, genres FROM movies
		WHERE title ILIKE '%' || $1 || '%'
		ORDER BY title
		LIMIT $2
	`, q, SearchLimit)
	if err != nil {
		return nil, storageErr("failed to search movies", err)
	}
	defer rows.Close()

	movies, err := scanMovies(rows)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(movies); err == nil {
		l.setCache(ctx, cacheKey, string(data), searchCacheTTL)
	}
	return movies, nil
}

func scanMovies(rows *sql.Rows) ([]models.Movie, error) {
	movies := []models.Movie{}
	for rows.Next() {
		var m models.Movie
		if err := rows.Scan(&m.ID, &m.Title, pq.Array(&m.Genres)); err != nil {
			return nil, storageErr("failed to scan movie", err)
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}

// Redis helpers

func (l *Lookup) getFromCache(ctx context.Context, key string) (string, error) {
	if l.redis == nil {
		return "", fmt.Errorf("redis not available")
	}
	return l.redis.Get(ctx, key).Result()
}

func (l *Lookup) setCache(ctx context.Context, key, value string, ttl time.Duration) {
	if l.redis == nil {
		return
	}
	if err := l.redis.Set(ctx, key, value, ttl).Err(); err != nil {
		slog.Error("failed to set cache", "key", key, "error", err)
	}
}
