// File: services/chat/sessionStore.go
package chat

import (
	"context"
	"encoding/json"
	"time"

	"savoria/models"

	"github.com/go-redis/redis/v8"
)

const sessionPrefix = "chat:sess:"

// SessionStore persists the per-session ConversationState between
// turns.
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (*models.ConversationState, error)
	Set(ctx context.Context, sessionID string, state *models.ConversationState) error
	Clear(ctx context.Context, sessionID string) error
}

// RedisSessionStore keeps ConversationState in Redis with a TTL riding
// on the hosting session's lifetime.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func (s *RedisSessionStore) Get(ctx context.Context, sessionID string) (*models.ConversationState, error) {
	key := sessionPrefix + sessionID
	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return &models.ConversationState{}, nil
	}
	if err != nil {
		return nil, err
	}
	var state models.ConversationState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *RedisSessionStore) Set(ctx context.Context, sessionID string, state *models.ConversationState) error {
	key := sessionPrefix + sessionID
	b, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, b, s.ttl).Err()
}

func (s *RedisSessionStore) Clear(ctx context.Context, sessionID string) error {
	key := sessionPrefix + sessionID
	return s.client.Del(ctx, key).Err()
}
