package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"movierec-backend/internal/errs"
	"movierec-backend/internal/models"
)

// AccountRepository owns the account records and their current-state
// aggregates (watchlist, ratings, watched set).
type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// uniqueViolation is the PostgreSQL error code for unique constraint failures.
const uniqueViolation = "23505"

// storageErr tags a backing-store failure so callers can map it to the
// dependency branch of the error taxonomy.
func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %v: %w", op, err, errs.ErrDependency)
}

// Create inserts a new account with empty aggregates. The unique index on
// email turns a concurrent duplicate signup into errs.ErrConflict.
func (r *AccountRepository) Create(ctx context.Context, name, email, phone, passwordHash string) (*models.Account, error) {
	var a models.Account
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO accounts (name, email, phone, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, email, phone, password_hash, created_at
	`, name, email, phone, passwordHash).Scan(&a.ID, &a.Name, &a.Email, &a.Phone, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, errs.ErrConflict
		}
		return nil, storageErr("failed to create account", err)
	}
	return &a, nil
}

// GetByEmail returns the account registered under email.
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	var a models.Account
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, phone, password_hash, created_at
		FROM accounts WHERE email = $1
	`, email).Scan(&a.ID, &a.Name, &a.Email, &a.Phone, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, storageErr("failed to get account", err)
	}
	return &a, nil
}

// GetByID returns an account by id.
func (r *AccountRepository) GetByID(ctx context.Context, id int) (*models.Account, error) {
	var a models.Account
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, phone, password_hash, created_at
		FROM accounts WHERE id = $1
	`, id).Scan(&a.ID, &a.Name, &a.Email, &a.Phone, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, storageErr("failed to get account", err)
	}
	return &a, nil
}

// exists reports whether the account id resolves.
func (r *AccountRepository) exists(ctx context.Context, accountID int) error {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM accounts WHERE id = $1`, accountID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return errs.ErrNotFound
	}
	if err != nil {
		return storageErr("failed to check account", err)
	}
	return nil
}

// AddToWatchlist adds movieID to the account's watchlist. Adding a movie
// already on the list is a no-op success.
func (r *AccountRepository) AddToWatchlist(ctx context.Context, accountID, movieID int) error {
	if err := r.exists(ctx, accountID); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO watchlist (account_id, movie_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, accountID, movieID)
	if err != nil {
		return storageErr("failed to add to watchlist", err)
	}
	return nil
}

// RemoveFromWatchlist removes movieID from the watchlist. Removing a movie
// that is not on the list is a no-op success.
func (r *AccountRepository) RemoveFromWatchlist(ctx context.Context, accountID, movieID int) error {
	if err := r.exists(ctx, accountID); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM watchlist WHERE account_id = $1 AND movie_id = $2
	`, accountID, movieID)
	if err != nil {
		return storageErr("failed to remove from watchlist", err)
	}
	return nil
}

// GetWatchlist returns the movie ids on the account's watchlist.
func (r *AccountRepository) GetWatchlist(ctx context.Context, accountID int) ([]int, error) {
	if err := r.exists(ctx, accountID); err != nil {
		return nil, err
	}
	return r.movieIDs(ctx, `SELECT movie_id FROM watchlist WHERE account_id = $1 ORDER BY added_at`, accountID)
}

// SetRating upserts the account's rating for movieID; any prior rating for
// the same movie is overwritten. No history is kept here, the interaction
// log carries it.
func (r *AccountRepository) SetRating(ctx context.Context, accountID, movieID int, rating float64) error {
	if err := r.exists(ctx, accountID); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO ratings (account_id, movie_id, rating, rated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (account_id, movie_id) DO UPDATE SET
			rating = EXCLUDED.rating,
			rated_at = NOW()
	`, accountID, movieID, rating)
	if err != nil {
		return storageErr("failed to set rating", err)
	}
	return nil
}

// GetRatings returns the account's ratings map.
func (r *AccountRepository) GetRatings(ctx context.Context, accountID int) (map[int]float64, error) {
	if err := r.exists(ctx, accountID); err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT movie_id, rating FROM ratings WHERE account_id = $1
	`, accountID)
	if err != nil {
		return nil, storageErr("failed to query ratings", err)
	}
	defer rows.Close()

	ratings := make(map[int]float64)
	for rows.Next() {
		var movieID int
		var rating float64
		if err := rows.Scan(&movieID, &rating); err != nil {
			return nil, storageErr("failed to scan rating", err)
		}
		ratings[movieID] = rating
	}
	return ratings, rows.Err()
}

// MarkWatched adds movieID to the watched set. Marking an already-watched
// movie is a no-op success.
func (r *AccountRepository) MarkWatched(ctx context.Context, accountID, movieID int) error {
	if err := r.exists(ctx, accountID); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO watched (account_id, movie_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, accountID, movieID)
	if err != nil {
		return storageErr("failed to mark watched", err)
	}
	return nil
}

// MarkUnwatched removes movieID from the watched set. Unlike watchlist
// removal, unwatching a movie that is not in the set is errs.ErrNotFound.
func (r *AccountRepository) MarkUnwatched(ctx context.Context, accountID, movieID int) error {
	if err := r.exists(ctx, accountID); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM watched WHERE account_id = $1 AND movie_id = $2
	`, accountID, movieID)
	if err != nil {
		return storageErr("failed to mark unwatched", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("failed to mark unwatched", err)
	}
	if n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// IsWatched reports whether movieID is currently in the account's watched set.
func (r *AccountRepository) IsWatched(ctx context.Context, accountID, movieID int) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `
		SELECT 1 FROM watched WHERE account_id = $1 AND movie_id = $2
	`, accountID, movieID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, storageErr("failed to check watched", err)
	}
	return true, nil
}

// GetWatched returns the movie ids in the account's watched set.
func (r *AccountRepository) GetWatched(ctx context.Context, accountID int) ([]int, error) {
	if err := r.exists(ctx, accountID); err != nil {
		return nil, err
	}
	return r.movieIDs(ctx, `SELECT movie_id FROM watched WHERE account_id = $1 ORDER BY watched_at`, accountID)
}

func (r *AccountRepository) movieIDs(ctx context.Context, query string, accountID int) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, storageErr("failed to query movie ids", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, storageErr("failed to scan movie id", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
