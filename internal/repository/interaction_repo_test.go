package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movierec-backend/internal/errs"
	"movierec-backend/internal/models"
)

func newMockLog(t *testing.T) (*InteractionRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewInteractionRepository(db), mock
}

func TestAppendStampsIDAndTimestamp(t *testing.T) {
	r, mock := newMockLog(t)

	now := time.Now()
	mock.ExpectQuery("INSERT INTO interactions").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), now))

	ev := &models.InteractionEvent{
		EventID:   "e1",
		AccountID: 1,
		MovieID:   42,
		Action:    models.ActionWatched,
		SessionID: "s1",
	}
	require.NoError(t, r.Append(context.Background(), ev))
	assert.Equal(t, int64(7), ev.ID)
	assert.Equal(t, now, ev.CreatedAt)
}

func TestAppendOutageIsDependencyError(t *testing.T) {
	r, mock := newMockLog(t)

	dial := errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")
	mock.ExpectQuery("INSERT INTO interactions").WillReturnError(dial)

	err := r.Append(context.Background(), &models.InteractionEvent{
		EventID: "e1", AccountID: 1, MovieID: 42, Action: models.ActionRate, SessionID: "s1",
	})
	assert.ErrorIs(t, err, errs.ErrDependency)
}

func TestListByAccountKeepsAppendOrder(t *testing.T) {
	r, mock := newMockLog(t)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "event_id", "account_id", "movie_id", "action", "rating", "currently_watched", "session_id", "created_at",
	}).
		AddRow(int64(1), "e1", 1, 42, models.ActionWatched, nil, true, "s1", now).
		AddRow(int64(2), "e2", 1, 42, models.ActionUnwatch, nil, false, "s1", now)
	mock.ExpectQuery("SELECT id, event_id, account_id, movie_id, action").WillReturnRows(rows)

	events, err := r.ListByAccount(context.Background(), 1, 50)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, models.ActionWatched, events[0].Action)
	assert.Equal(t, models.ActionUnwatch, events[1].Action)
	assert.Nil(t, events[0].Rating)
}
