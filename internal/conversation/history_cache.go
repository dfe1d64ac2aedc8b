package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const historyTTL = 24 * time.Hour

// CachedHistoryStore is a redis read-through cache in front of a persistent
// history store. Appends write through and invalidate, so a webhook burst
// from the same user never reads stale history.
type CachedHistoryStore struct {
	inner  HistoryStore
	redis  *redis.Client
	tracer trace.Tracer
}

// NewCachedHistoryStore wraps inner with a redis cache.
func NewCachedHistoryStore(inner HistoryStore, rdb *redis.Client) *CachedHistoryStore {
	if inner == nil {
		panic("conversation: inner history store cannot be nil")
	}
	if rdb == nil {
		panic("conversation: redis client cannot be nil")
	}
	return &CachedHistoryStore{
		inner:  inner,
		redis:  rdb,
		tracer: otel.Tracer("barberbot.internal.conversation.history_cache"),
	}
}

func historyKey(userKey string) string {
	return fmt.Sprintf("history:%s", userKey)
}

// Recent serves history from redis when present, falling back to the inner
// store and priming the cache. Cache failures degrade to the inner store.
func (s *CachedHistoryStore) Recent(ctx context.Context, userKey string, limit int) ([]Exchange, error) {
	ctx, span := s.tracer.Start(ctx, "conversation.history_cache.recent")
	defer span.End()

	data, err := s.redis.Get(ctx, historyKey(userKey)).Bytes()
	if err == nil {
		var history []Exchange
		if err := json.Unmarshal(data, &history); err == nil {
			if limit > 0 && len(history) > limit {
				history = history[:limit]
			}
			return history, nil
		}
		// Corrupt cache entry: fall through to the inner store.
	} else if err != redis.Nil {
		span.RecordError(err)
	}

	history, err := s.inner.Recent(ctx, userKey, limit)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(history); err == nil {
		if err := s.redis.Set(ctx, historyKey(userKey), encoded, historyTTL).Err(); err != nil {
			span.RecordError(err)
		}
	}
	return history, nil
}

// Append writes through to the inner store and invalidates the cache.
func (s *CachedHistoryStore) Append(ctx context.Context, userKey, userMessage, botReply string, at time.Time) error {
	ctx, span := s.tracer.Start(ctx, "conversation.history_cache.append")
	defer span.End()

	if err := s.inner.Append(ctx, userKey, userMessage, botReply, at); err != nil {
		return err
	}
	if err := s.redis.Del(ctx, historyKey(userKey)).Err(); err != nil {
		span.RecordError(err)
	}
	return nil
}
