package conversation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationStoreRecent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"user_message", "bot_reply", "created_at"}).
		AddRow("2", "Beard Trim it is.", now).
		AddRow("hi", "Welcome!", now.Add(-time.Minute))

	mock.ExpectQuery("SELECT user_message, bot_reply, created_at").
		WithArgs("whatsapp:+420777000111", 5).
		WillReturnRows(rows)

	store := NewConversationStore(db)
	history, err := store.Recent(context.Background(), "whatsapp:+420777000111", 5)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "2", history[0].UserMessage)
	assert.Equal(t, "Welcome!", history[1].BotReply)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConversationStoreRecentDefaultsLimit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT user_message, bot_reply, created_at").
		WithArgs("user", 5).
		WillReturnRows(sqlmock.NewRows([]string{"user_message", "bot_reply", "created_at"}))

	store := NewConversationStore(db)
	history, err := store.Recent(context.Background(), "user", 0)
	require.NoError(t, err)
	assert.Empty(t, history)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConversationStoreAppend(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	at := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	mock.ExpectExec("INSERT INTO conversations").
		WithArgs(sqlmock.AnyArg(), "user", "hi", "Welcome!", at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := NewConversationStore(db)
	require.NoError(t, store.Append(context.Background(), "user", "hi", "Welcome!", at))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConversationStoreAppendError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO conversations").
		WillReturnError(errors.New("connection reset"))

	store := NewConversationStore(db)
	err = store.Append(context.Background(), "user", "hi", "Welcome!", time.Now())
	assert.Error(t, err)
}

func TestNewConversationStoreNilDB(t *testing.T) {
	assert.Nil(t, NewConversationStore(nil))
}
