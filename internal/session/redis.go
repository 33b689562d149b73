package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"portfolioapi/internal/model"
)

// redisClient is the subset of *redis.Client the store uses.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// RedisStore keeps sessions as JSON blobs with a TTL, so expiry is handled by Redis itself.
type RedisStore struct {
	client redisClient
	keyNS  string
	ttl    time.Duration
}

// NewRedisStore connects to redisURL and verifies the connection with a ping.
func NewRedisStore(ctx context.Context, redisURL string, ttl time.Duration) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	c := redis.NewClient(opt)
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{client: c, keyNS: "portfolio", ttl: ttl}, nil
}

func (s *RedisStore) key(id string) string { return fmt.Sprintf("%s:session:%s", s.keyNS, id) }

func (s *RedisStore) Get(ctx context.Context, id string) (*model.UploadSession, error) {
	b, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var us model.UploadSession
	if err := json.Unmarshal(b, &us); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &us, nil
}

func (s *RedisStore) Save(ctx context.Context, us *model.UploadSession) error {
	b, err := json.Marshal(us)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(us.ID), b, s.ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.key(id)).Err()
}

// Cleanup is a no-op; keys expire through their TTL.
func (s *RedisStore) Cleanup(context.Context, time.Time) (int, error) { return 0, nil }

func (s *RedisStore) Close() error { return s.client.Close() }

// Ping reports whether Redis is reachable.
func (s *RedisStore) Ping(ctx context.Context) error { return s.client.Ping(ctx).Err() }
