package models

import "time"

// Account is one registered user: identity plus the current-state preference
// aggregates. The aggregates are a derived view; the interaction log is the
// historical one, and the two may transiently diverge.
type Account struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Profile is the public view of an account. The credential is never exposed.
type Profile struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Profile returns the public view of a.
func (a *Account) Profile() Profile {
	return Profile{ID: a.ID, Name: a.Name, Email: a.Email, Phone: a.Phone}
}

// SignupRequest is the request body for registration.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// LoginRequest is the request body for authentication.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the public profile and an access token.
type LoginResponse struct {
	Message string  `json:"message"`
	User    Profile `json:"user"`
	Token   string  `json:"token"`
}

// ProfileStats is the profile page view: identity plus aggregate counts.
type ProfileStats struct {
	Profile
	WatchlistCount int `json:"watchlist_count"`
	RatingCount    int `json:"rating_count"`
	WatchedCount   int `json:"watched_count"`
}
