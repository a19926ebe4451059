package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movierec-backend/internal/errs"
	"movierec-backend/internal/models"
)

func newPreferenceFixture(t *testing.T) (*PreferenceService, *fakeAccounts, *fakeLog, int) {
	t.Helper()
	accounts := newFakeAccounts()
	a, err := accounts.Create(context.Background(), "Ada", "user@gmail.com", "1234567890", "hash")
	require.NoError(t, err)
	log := &fakeLog{}
	svc := NewPreferenceService(accounts, log, fakeCatalog{}, nil)
	return svc, accounts, log, a.ID
}

func ratePtr(v float64) *float64 { return &v }

func TestAddToWatchlistIdempotent(t *testing.T) {
	svc, accounts, log, id := newPreferenceFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.AddToWatchlist(ctx, id, 42))
	require.NoError(t, svc.AddToWatchlist(ctx, id, 42))

	ids, err := accounts.GetWatchlist(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []int{42}, ids)

	// Watchlist mutations touch the aggregate only, never the log.
	assert.Empty(t, log.events)
}

func TestRemoveFromWatchlistAbsentIsSuccess(t *testing.T) {
	svc, _, _, id := newPreferenceFixture(t)

	assert.NoError(t, svc.RemoveFromWatchlist(context.Background(), id, 999))
}

func TestWatchlistUnknownAccount(t *testing.T) {
	svc, _, _, _ := newPreferenceFixture(t)

	err := svc.AddToWatchlist(context.Background(), 404, 42)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestGetWatchlistResolvesMovies(t *testing.T) {
	svc, _, _, id := newPreferenceFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.AddToWatchlist(ctx, id, 7))

	movies, err := svc.GetWatchlist(ctx, id)
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, 7, movies[0].ID)
	assert.NotEmpty(t, movies[0].Title)
}

func TestRateRoundTrip(t *testing.T) {
	svc, _, log, id := newPreferenceFixture(t)
	ctx := context.Background()

	ev, err := svc.Rate(ctx, id, models.RateRequest{MovieID: 42, Rating: ratePtr(4.5), SessionID: "sess1"})
	require.NoError(t, err)
	assert.Equal(t, models.ActionRate, ev.Action)
	assert.Equal(t, 4.5, *ev.Rating)
	assert.Equal(t, "sess1", ev.SessionID)
	assert.False(t, ev.CurrentlyWatched)

	ratings, err := svc.Ratings(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 4.5, ratings[42])

	require.Len(t, log.events, 1)
}

func TestRateOverwritesLastWriteWins(t *testing.T) {
	svc, _, log, id := newPreferenceFixture(t)
	ctx := context.Background()

	_, err := svc.Rate(ctx, id, models.RateRequest{MovieID: 42, Rating: ratePtr(2.0), SessionID: "s"})
	require.NoError(t, err)
	_, err = svc.Rate(ctx, id, models.RateRequest{MovieID: 42, Rating: ratePtr(5.0), SessionID: "s"})
	require.NoError(t, err)

	ratings, err := svc.Ratings(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 5.0, ratings[42])

	// The aggregate keeps no history; the log keeps all of it.
	assert.Len(t, log.events, 2)
}

func TestRateOutOfRangeWritesNothing(t *testing.T) {
	svc, _, log, id := newPreferenceFixture(t)
	ctx := context.Background()

	_, err := svc.Rate(ctx, id, models.RateRequest{MovieID: 42, Rating: ratePtr(6.0), SessionID: "sess1"})
	var ve *errs.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "rating", ve.Field)

	ratings, err := svc.Ratings(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, ratings)
	assert.Empty(t, log.events)
}

func TestRateMissingRating(t *testing.T) {
	svc, _, _, id := newPreferenceFixture(t)

	_, err := svc.Rate(context.Background(), id, models.RateRequest{MovieID: 42, SessionID: "s"})
	var ve *errs.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "rating", ve.Field)
}

func TestRateAfterWatchedCarriesFlag(t *testing.T) {
	svc, _, _, id := newPreferenceFixture(t)
	ctx := context.Background()

	_, err := svc.MarkWatched(ctx, id, models.WatchedRequest{MovieID: 42, SessionID: "s"})
	require.NoError(t, err)

	ev, err := svc.Rate(ctx, id, models.RateRequest{MovieID: 42, Rating: ratePtr(3.0), SessionID: "s"})
	require.NoError(t, err)
	assert.True(t, ev.CurrentlyWatched)
}

func TestRateFailsWhenWatchedReadFails(t *testing.T) {
	svc, accounts, log, id := newPreferenceFixture(t)
	ctx := context.Background()
	accounts.isWatchedErr = errs.ErrDependency

	// The rating must not be logged with a guessed watched flag.
	_, err := svc.Rate(ctx, id, models.RateRequest{MovieID: 42, Rating: ratePtr(4.0), SessionID: "s"})
	assert.ErrorIs(t, err, errs.ErrDependency)
	assert.Empty(t, log.events)

	// The aggregate upsert happens before the watched read, so it lands.
	ratings, err := accounts.GetRatings(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, map[int]float64{42: 4.0}, ratings)
}

func TestMarkWatchedTwiceIsNoOpSuccess(t *testing.T) {
	svc, accounts, log, id := newPreferenceFixture(t)
	ctx := context.Background()

	_, err := svc.MarkWatched(ctx, id, models.WatchedRequest{MovieID: 42, SessionID: "s"})
	require.NoError(t, err)
	_, err = svc.MarkWatched(ctx, id, models.WatchedRequest{MovieID: 42, SessionID: "s"})
	require.NoError(t, err)

	ids, err := accounts.GetWatched(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []int{42}, ids)

	// Both calls are logged even though the second mutation was a no-op.
	assert.Len(t, log.events, 2)
}

func TestUnwatchTwiceReportsNotFound(t *testing.T) {
	svc, accounts, log, id := newPreferenceFixture(t)
	ctx := context.Background()

	_, err := svc.MarkWatched(ctx, id, models.WatchedRequest{MovieID: 42, SessionID: "s"})
	require.NoError(t, err)

	_, err = svc.MarkUnwatched(ctx, id, models.WatchedRequest{MovieID: 42, SessionID: "s"})
	require.NoError(t, err)

	_, err = svc.MarkUnwatched(ctx, id, models.WatchedRequest{MovieID: 42, SessionID: "s"})
	assert.ErrorIs(t, err, errs.ErrNotFound)

	ids, err := accounts.GetWatched(ctx, id)
	require.NoError(t, err)
	assert.NotContains(t, ids, 42)

	// watched + unwatch; the failed second unwatch appends nothing.
	assert.Len(t, log.events, 2)
	assert.Equal(t, models.ActionWatched, log.events[0].Action)
	assert.Equal(t, models.ActionUnwatch, log.events[1].Action)
}

func TestAppendFailureLeavesAggregateUpdated(t *testing.T) {
	// The aggregate mutation and the log append are two writes, not one
	// transaction. A log failure surfaces to the caller, but the aggregate
	// keeps the new state; the views are allowed to diverge.
	accounts := newFakeAccounts()
	a, err := accounts.Create(context.Background(), "Ada", "user@gmail.com", "1234567890", "hash")
	require.NoError(t, err)
	log := &fakeLog{appendErr: errs.ErrDependency}
	svc := NewPreferenceService(accounts, log, fakeCatalog{}, nil)
	ctx := context.Background()

	_, err = svc.MarkWatched(ctx, a.ID, models.WatchedRequest{MovieID: 42, SessionID: "s"})
	assert.ErrorIs(t, err, errs.ErrDependency)

	watched, err := accounts.IsWatched(ctx, a.ID, 42)
	require.NoError(t, err)
	assert.True(t, watched)
	assert.Empty(t, log.events)
}

func TestGeneratedSessionID(t *testing.T) {
	svc, _, _, id := newPreferenceFixture(t)

	ev, err := svc.MarkWatched(context.Background(), id, models.WatchedRequest{MovieID: 42})
	require.NoError(t, err)
	assert.NotEmpty(t, ev.SessionID)
	assert.NotEmpty(t, ev.EventID)
}

func TestInteractionsAppendOrder(t *testing.T) {
	svc, _, _, id := newPreferenceFixture(t)
	ctx := context.Background()

	_, err := svc.MarkWatched(ctx, id, models.WatchedRequest{MovieID: 1, SessionID: "s"})
	require.NoError(t, err)
	_, err = svc.Rate(ctx, id, models.RateRequest{MovieID: 1, Rating: ratePtr(4.0), SessionID: "s"})
	require.NoError(t, err)
	_, err = svc.MarkUnwatched(ctx, id, models.WatchedRequest{MovieID: 1, SessionID: "s"})
	require.NoError(t, err)

	events, err := svc.Interactions(ctx, id, 0)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, models.ActionWatched, events[0].Action)
	assert.Equal(t, models.ActionRate, events[1].Action)
	assert.Equal(t, models.ActionUnwatch, events[2].Action)
}

func TestInteractionsUnknownAccount(t *testing.T) {
	svc, _, _, _ := newPreferenceFixture(t)

	_, err := svc.Interactions(context.Background(), 404, 10)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestProfileStats(t *testing.T) {
	svc, _, _, id := newPreferenceFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.AddToWatchlist(ctx, id, 1))
	require.NoError(t, svc.AddToWatchlist(ctx, id, 2))
	_, err := svc.Rate(ctx, id, models.RateRequest{MovieID: 3, Rating: ratePtr(4.0), SessionID: "s"})
	require.NoError(t, err)
	_, err = svc.MarkWatched(ctx, id, models.WatchedRequest{MovieID: 4, SessionID: "s"})
	require.NoError(t, err)

	stats, err := svc.ProfileStats(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.WatchlistCount)
	assert.Equal(t, 1, stats.RatingCount)
	assert.Equal(t, 1, stats.WatchedCount)
	assert.Equal(t, "Ada", stats.Name)
}
