package service

import (
	"context"

	"movierec-backend/internal/models"
)

// AccountStore is the current-state side of the dual write: one record per
// account plus its preference aggregates.
type AccountStore interface {
	Create(ctx context.Context, name, email, phone, passwordHash string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByID(ctx context.Context, id int) (*models.Account, error)

	AddToWatchlist(ctx context.Context, accountID, movieID int) error
	RemoveFromWatchlist(ctx context.Context, accountID, movieID int) error
	GetWatchlist(ctx context.Context, accountID int) ([]int, error)

	SetRating(ctx context.Context, accountID, movieID int, rating float64) error
	GetRatings(ctx context.Context, accountID int) (map[int]float64, error)

	MarkWatched(ctx context.Context, accountID, movieID int) error
	MarkUnwatched(ctx context.Context, accountID, movieID int) error
	IsWatched(ctx context.Context, accountID, movieID int) (bool, error)
	GetWatched(ctx context.Context, accountID int) ([]int, error)
}

// InteractionLog is the historical side of the dual write: an append-only
// event stream per account.
type InteractionLog interface {
	Append(ctx context.Context, ev *models.InteractionEvent) error
	ListByAccount(ctx context.Context, accountID, limit int) ([]models.InteractionEvent, error)
}

// MovieResolver resolves catalog ids to titles and genres.
type MovieResolver interface {
	ResolveByIds(ctx context.Context, ids []int) ([]models.Movie, error)
}
