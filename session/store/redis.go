package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists conversation context mappings in Redis, one JSON
// value per conversation.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string        // Redis server address (e.g., "localhost:6379")
	Password string        // Redis password (if any)
	DB       int           // Redis database number
	Prefix   string        // Key prefix for namespacing
	TTL      time.Duration // Time-to-live for conversations (0 means no expiration)
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(config *RedisConfig) *RedisStore {
	if config == nil {
		config = &RedisConfig{
			Addr:   "localhost:6379",
			Prefix: "agentbridge:session:",
			TTL:    24 * time.Hour,
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	return &RedisStore{
		client: client,
		prefix: config.Prefix,
		ttl:    config.TTL,
	}
}

// Load returns the saved mapping for the conversation, or an empty map.
func (s *RedisStore) Load(ctx context.Context, id string) (map[string]string, error) {
	data, err := s.client.Get(ctx, s.prefix+id).Result()
	if err != nil {
		if err == redis.Nil {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to load conversation from Redis: %w", err)
	}

	contexts := make(map[string]string)
	if err := json.Unmarshal([]byte(data), &contexts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal conversation: %w", err)
	}
	return contexts, nil
}

// Save replaces the saved mapping for the conversation.
func (s *RedisStore) Save(ctx context.Context, id string, contexts map[string]string) error {
	data, err := json.Marshal(contexts)
	if err != nil {
		return fmt.Errorf("failed to marshal conversation: %w", err)
	}
	if err := s.client.Set(ctx, s.prefix+id, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store conversation in Redis: %w", err)
	}
	return nil
}

// Delete removes the conversation.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.prefix+id).Err(); err != nil {
		return fmt.Errorf("failed to delete conversation from Redis: %w", err)
	}
	return nil
}

// Close releases the underlying Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
