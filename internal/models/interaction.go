package models

import "time"

// Interaction action kinds. The enum is closed; anything else is rejected
// before the log is touched.
const (
	ActionRate    = "rate"
	ActionWatched = "watched"
	ActionUnwatch = "unwatch"
)

// InteractionEvent is one immutable row of the append-only log. Events are
// never mutated or deleted; ordering per account is the append order (ID),
// the timestamp is advisory only.
type InteractionEvent struct {
	ID               int64     `json:"id"`
	EventID          string    `json:"event_id"`
	AccountID        int       `json:"account_id"`
	MovieID          int       `json:"movie_id"`
	Action           string    `json:"action"`
	Rating           *float64  `json:"rating,omitempty"`
	CurrentlyWatched bool      `json:"currently_watched"`
	SessionID        string    `json:"session_id"`
	CreatedAt        time.Time `json:"created_at"`
}

// WatchlistRequest is the request body for watchlist mutations.
type WatchlistRequest struct {
	MovieID int `json:"movie_id"`
}

// RateRequest is the request body for rating a movie.
type RateRequest struct {
	MovieID   int      `json:"movie_id"`
	Rating    *float64 `json:"rating"`
	SessionID string   `json:"session_id"`
}

// WatchedRequest is the request body for watched-set mutations.
type WatchedRequest struct {
	MovieID   int    `json:"movie_id"`
	SessionID string `json:"session_id"`
}
