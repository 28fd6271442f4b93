package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"social_media_agent/generator"
)

const keyPrefix = "sma:history:"

// RedisStore keeps each session's history in a Redis list so several
// server instances can serve the same browser session. The key expires
// ttl after the last append.
type RedisStore struct {
	rdb redis.UniversalClient
	ttl time.Duration
}

func NewRedisStore(rdb redis.UniversalClient, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

// NewRedisClient creates and pings a Redis client with optional password auth.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return rdb, nil
}

func key(sessionID string) string {
	return keyPrefix + sessionID
}

func (s *RedisStore) Append(ctx context.Context, sessionID string, r generator.Result) error {
	if sessionID == "" {
		return ErrNoSession
	}
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("history: encode result: %w", err)
	}
	pipe := s.rdb.TxPipeline()
	pipe.LPush(ctx, key(sessionID), data)
	if s.ttl > 0 {
		pipe.Expire(ctx, key(sessionID), s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("history: append: %w", err)
	}
	return nil
}

func (s *RedisStore) Recent(ctx context.Context, sessionID string, n int) ([]generator.Result, error) {
	if n <= 0 {
		return []generator.Result{}, nil
	}
	return s.load(ctx, sessionID, int64(n-1))
}

func (s *RedisStore) Get(ctx context.Context, sessionID, resultID string) (generator.Result, bool, error) {
	all, err := s.load(ctx, sessionID, -1)
	if err != nil {
		return generator.Result{}, false, err
	}
	for _, r := range all {
		if r.ID == resultID {
			return r, true, nil
		}
	}
	return generator.Result{}, false, nil
}

func (s *RedisStore) Len(ctx context.Context, sessionID string) (int, error) {
	n, err := s.rdb.LLen(ctx, key(sessionID)).Result()
	if err != nil {
		return 0, fmt.Errorf("history: len: %w", err)
	}
	return int(n), nil
}

func (s *RedisStore) load(ctx context.Context, sessionID string, stop int64) ([]generator.Result, error) {
	raw, err := s.rdb.LRange(ctx, key(sessionID), 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("history: range: %w", err)
	}
	out := make([]generator.Result, 0, len(raw))
	for _, item := range raw {
		var r generator.Result
		if err := json.Unmarshal([]byte(item), &r); err != nil {
			return nil, fmt.Errorf("history: decode result: %w", err)
		}
		out = append(out, r)
	}
	return out, nil
}
