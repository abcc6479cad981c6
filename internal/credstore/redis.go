package credstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"strade-dashboard/config"
	"strade-dashboard/internal/events"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const redisKeyPrefix = "strade:credentials:"

// RedisStore is the Redis-backed credential store. It degrades gracefully:
// when Redis is unavailable operations return errors and a circuit breaker
// tracks health until the connection recovers.
type RedisStore struct {
	client   *redis.Client
	eventBus *events.EventBus
	logger   zerolog.Logger

	mu           sync.RWMutex
	healthy      bool
	failureCount int

	maxFailures int
}

// NewRedisStore creates a RedisStore and verifies connectivity. A failed
// initial ping returns the store in degraded mode rather than an error.
func NewRedisStore(cfg config.RedisConfig, eventBus *events.EventBus, logger zerolog.Logger) (*RedisStore, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("redis is not enabled in configuration")
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	rs := &RedisStore{
		client:      client,
		eventBus:    eventBus,
		logger:      logger.With().Str("component", "RedisStore").Logger(),
		maxFailures: 3,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		rs.logger.Warn().Err(err).Msg("initial redis connection failed, store degraded")
		return rs, nil
	}

	rs.healthy = true
	rs.logger.Info().Str("address", cfg.Address).Msg("redis credential store connected")
	return rs, nil
}

// IsHealthy returns whether Redis is currently available.
func (s *RedisStore) IsHealthy() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.healthy
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, redisKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		s.recordSuccess()
		return "", ErrKeyNotFound
	}
	if err != nil {
		s.recordFailure(err)
		return "", fmt.Errorf("failed to get %s: %w", key, err)
	}

	s.recordSuccess()
	return value, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, redisKeyPrefix+key, value, 0).Err(); err != nil {
		s.recordFailure(err)
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	s.recordSuccess()
	s.notify(key)
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	deleted, err := s.client.Del(ctx, redisKeyPrefix+key).Result()
	if err != nil {
		s.recordFailure(err)
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}

	s.recordSuccess()
	if deleted > 0 {
		s.notify(key)
	}
	return nil
}

// Clear removes all session keys in one round trip. Idempotent.
func (s *RedisStore) Clear(ctx context.Context) error {
	keys := make([]string, len(SessionKeys))
	for i, key := range SessionKeys {
		keys[i] = redisKeyPrefix + key
	}

	deleted, err := s.client.Del(ctx, keys...).Result()
	if err != nil {
		s.recordFailure(err)
		return fmt.Errorf("failed to clear session keys: %w", err)
	}

	s.recordSuccess()
	if deleted > 0 {
		s.notify("")
	}
	return nil
}

func (s *RedisStore) Snapshot(ctx context.Context) (map[string]string, error) {
	keys := make([]string, len(SessionKeys))
	for i, key := range SessionKeys {
		keys[i] = redisKeyPrefix + key
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		s.recordFailure(err)
		return nil, fmt.Errorf("failed to snapshot session keys: %w", err)
	}

	s.recordSuccess()
	snapshot := make(map[string]string, len(SessionKeys))
	for i, raw := range values {
		if raw == nil {
			continue
		}
		if value, ok := raw.(string); ok {
			snapshot[SessionKeys[i]] = value
		}
	}
	return snapshot, nil
}

func (s *RedisStore) notify(key string) {
	if s.eventBus != nil {
		s.eventBus.PublishCredentialsChanged(key)
	}
}

func (s *RedisStore) recordFailure(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failureCount++
	if s.failureCount >= s.maxFailures {
		if s.healthy {
			s.logger.Warn().Err(err).Int("failures", s.failureCount).Msg("circuit breaker open, redis marked unhealthy")
		}
		s.healthy = false
	}
}

func (s *RedisStore) recordSuccess() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.healthy {
		s.logger.Info().Msg("circuit breaker closed, redis recovered")
	}
	s.healthy = true
	s.failureCount = 0
}
