package service

import (
	"context"
	"sync"

	"movierec-backend/internal/errs"
	"movierec-backend/internal/models"
)

// fakeAccounts is an in-memory AccountStore mirroring the backing store's
// contracts: unique emails (atomic check-then-insert, like the unique
// index), idempotent set membership, last-write-wins ratings, rows-affected
// semantics for unwatch.
type fakeAccounts struct {
	mu        sync.Mutex
	nextID    int
	byEmail   map[string]*models.Account
	watchlist map[int]map[int]bool
	ratings   map[int]map[int]float64
	watched   map[int]map[int]bool

	isWatchedErr error
}

var _ AccountStore = (*fakeAccounts)(nil)

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{
		nextID:    1,
		byEmail:   map[string]*models.Account{},
		watchlist: map[int]map[int]bool{},
		ratings:   map[int]map[int]float64{},
		watched:   map[int]map[int]bool{},
	}
}

func (f *fakeAccounts) Create(_ context.Context, name, email, phone, passwordHash string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.byEmail[email]; exists {
		return nil, errs.ErrConflict
	}
	a := &models.Account{ID: f.nextID, Name: name, Email: email, Phone: phone, PasswordHash: passwordHash}
	f.nextID++
	f.byEmail[email] = a
	f.watchlist[a.ID] = map[int]bool{}
	f.ratings[a.ID] = map[int]float64{}
	f.watched[a.ID] = map[int]bool{}
	cpy := *a
	return &cpy, nil
}

func (f *fakeAccounts) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	a, ok := f.byEmail[email]
	if !ok {
		return nil, errs.ErrNotFound
	}
	cpy := *a
	return &cpy, nil
}

func (f *fakeAccounts) GetByID(_ context.Context, id int) (*models.Account, error) {
	for _, a := range f.byEmail {
		if a.ID == id {
			cpy := *a
			return &cpy, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (f *fakeAccounts) exists(id int) error {
	if _, ok := f.watchlist[id]; !ok {
		return errs.ErrNotFound
	}
	return nil
}

func (f *fakeAccounts) AddToWatchlist(_ context.Context, accountID, movieID int) error {
	if err := f.exists(accountID); err != nil {
		return err
	}
	f.watchlist[accountID][movieID] = true
	return nil
}

func (f *fakeAccounts) RemoveFromWatchlist(_ context.Context, accountID, movieID int) error {
	if err := f.exists(accountID); err != nil {
		return err
	}
	delete(f.watchlist[accountID], movieID)
	return nil
}

func (f *fakeAccounts) GetWatchlist(_ context.Context, accountID int) ([]int, error) {
	if err := f.exists(accountID); err != nil {
		return nil, err
	}
	var ids []int
	for id := range f.watchlist[accountID] {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeAccounts) SetRating(_ context.Context, accountID, movieID int, rating float64) error {
	if err := f.exists(accountID); err != nil {
		return err
	}
	f.ratings[accountID][movieID] = rating
	return nil
}

func (f *fakeAccounts) GetRatings(_ context.Context, accountID int) (map[int]float64, error) {
	if err := f.exists(accountID); err != nil {
		return nil, err
	}
	out := make(map[int]float64, len(f.ratings[accountID]))
	for k, v := range f.ratings[accountID] {
		out[k] = v
	}
	return out, nil
}

func (f *fakeAccounts) MarkWatched(_ context.Context, accountID, movieID int) error {
	if err := f.exists(accountID); err != nil {
		return err
	}
	f.watched[accountID][movieID] = true
	return nil
}

func (f *fakeAccounts) MarkUnwatched(_ context.Context, accountID, movieID int) error {
	if err := f.exists(accountID); err != nil {
		return err
	}
	if !f.watched[accountID][movieID] {
		return errs.ErrNotFound
	}
	delete(f.watched[accountID], movieID)
	return nil
}

func (f *fakeAccounts) IsWatched(_ context.Context, accountID, movieID int) (bool, error) {
	if f.isWatchedErr != nil {
		return false, f.isWatchedErr
	}
	return f.watched[accountID][movieID], nil
}

func (f *fakeAccounts) GetWatched(_ context.Context, accountID int) ([]int, error) {
	if err := f.exists(accountID); err != nil {
		return nil, err
	}
	var ids []int
	for id := range f.watched[accountID] {
		ids = append(ids, id)
	}
	return ids, nil
}

// fakeLog is an in-memory append-only InteractionLog.
type fakeLog struct {
	events    []models.InteractionEvent
	appendErr error
}

var _ InteractionLog = (*fakeLog)(nil)

func (f *fakeLog) Append(_ context.Context, ev *models.InteractionEvent) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	ev.ID = int64(len(f.events) + 1)
	f.events = append(f.events, *ev)
	return nil
}

func (f *fakeLog) ListByAccount(_ context.Context, accountID, limit int) ([]models.InteractionEvent, error) {
	var out []models.InteractionEvent
	for _, ev := range f.events {
		if ev.AccountID == accountID && len(out) < limit {
			out = append(out, ev)
		}
	}
	return out, nil
}

// fakeCatalog resolves every id to a stub title.
type fakeCatalog struct{}

var _ MovieResolver = (*fakeCatalog)(nil)

func (fakeCatalog) ResolveByIds(_ context.Context, ids []int) ([]models.Movie, error) {
	movies := []models.Movie{}
	for _, id := range ids {
		movies = append(movies, models.Movie{ID: id, Title: "movie", Genres: []string{"Drama"}})
	}
	return movies, nil
}
