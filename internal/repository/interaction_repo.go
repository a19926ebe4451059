package repository

import (
	"context"
	"database/sql"

	"movierec-backend/internal/models"
)

// InteractionRepository owns the append-only interaction log. Rows are never
// updated or deleted; it accepts any well-formed event unconditionally.
type InteractionRepository struct {
	db *sql.DB
}

func NewInteractionRepository(db *sql.DB) *InteractionRepository {
	return &InteractionRepository{db: db}
}

// Append inserts one event. There is no dedup and no business-level
// rejection here; the service validates before it writes.
func (r *InteractionRepository) Append(ctx context.Context, ev *models.InteractionEvent) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO interactions (event_id, account_id, movie_id, action, rating, currently_watched, session_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, ev.EventID, ev.AccountID, ev.MovieID, ev.Action, ev.Rating, ev.CurrentlyWatched, ev.SessionID).
		Scan(&ev.ID, &ev.CreatedAt)
	if err != nil {
		return storageErr("failed to append interaction", err)
	}
	return nil
}

// ListByAccount returns the account's events in append order. The id
// sequence is authoritative for ordering; created_at is advisory only.
func (r *InteractionRepository) ListByAccount(ctx context.Context, accountID, limit int) ([]models.InteractionEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, event_id, account_id, movie_id, action, rating, currently_watched, session_id, created_at
		FROM interactions
		WHERE account_id = $1
		ORDER BY id ASC
		LIMIT $2
	`, accountID, limit)
	if err != nil {
		return nil, storageErr("failed to query interactions", err)
	}
	defer rows.Close()

	var events []models.InteractionEvent
	for rows.Next() {
		var ev models.InteractionEvent
		if err := rows.Scan(&ev.ID, &ev.EventID, &ev.AccountID, &ev.MovieID, &ev.Action,
			&ev.Rating, &ev.CurrentlyWatched, &ev.SessionID, &ev.CreatedAt); err != nil {
			return nil, storageErr("failed to scan interaction", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
