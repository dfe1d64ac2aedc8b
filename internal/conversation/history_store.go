package conversation

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Exchange is one user/bot round trip from the conversation log.
type Exchange struct {
	UserMessage string    `json:"userMessage"`
	BotReply    string    `json:"botReply"`
	Timestamp   time.Time `json:"timestamp"`
}

// HistoryStore reads and appends per-user conversation history. Recent
// returns entries ordered most-recent-first.
type HistoryStore interface {
	Recent(ctx context.Context, userKey string, limit int) ([]Exchange, error)
	Append(ctx context.Context, userKey, userMessage, botReply string, at time.Time) error
}

// ConversationStore persists exchanges to PostgreSQL for long-term history.
type ConversationStore struct {
	db     *sql.DB
	tracer trace.Tracer
}

// NewConversationStore creates a new conversation store.
func NewConversationStore(db *sql.DB) *ConversationStore {
	if db == nil {
		return nil
	}
	return &ConversationStore{
		db:     db,
		tracer: otel.Tracer("barberbot.internal.conversation.store"),
	}
}

// Recent returns up to limit exchanges for the user, newest first.
func (s *ConversationStore) Recent(ctx context.Context, userKey string, limit int) ([]Exchange, error) {
	ctx, span := s.tracer.Start(ctx, "conversation.recent_history")
	defer span.End()

	if limit <= 0 {
		limit = 5
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT user_message, bot_reply, created_at
		FROM conversations
		WHERE user_number = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userKey, limit)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("conversation: failed to query history: %w", err)
	}
	defer rows.Close()

	var history []Exchange
	for rows.Next() {
		var e Exchange
		if err := rows.Scan(&e.UserMessage, &e.BotReply, &e.Timestamp); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("conversation: failed to scan history row: %w", err)
		}
		history = append(history, e)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("conversation: history rows: %w", err)
	}
	return history, nil
}

// Append persists one exchange.
func (s *ConversationStore) Append(ctx context.Context, userKey, userMessage, botReply string, at time.Time) error {
	ctx, span := s.tracer.Start(ctx, "conversation.append_history")
	defer span.End()

	if at.IsZero() {
		at = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO conversations (id, user_number, user_message, bot_reply, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.New(), userKey, userMessage, botReply, at)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("conversation: failed to append history: %w", err)
	}
	return nil
}
