package history

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	rdb *redis.Client

	prefix string
	// keep caps the list length; 0 keeps everything
	keep int64
}

type RedisOption func(*RedisStore)

func WithPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		if p := strings.Trim(prefix, ":"); p != "" {
			s.prefix = p
		}
	}
}

func WithKeep(n int) RedisOption {
	return func(s *RedisStore) {
		if n >= 0 {
			s.keep = int64(n)
		}
	}
}

func NewRedisStore(rdb *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		rdb:    rdb,
		prefix: "relcheck",
		keep:   50,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) key() string {
	return s.prefix + ":runs"
}

func (s *RedisStore) Record(ctx context.Context, r Record) error {
	if s == nil || s.rdb == nil {
		return nil
	}

	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode run record: %w", err)
	}

	pipe := s.rdb.Pipeline()
	pipe.LPush(ctx, s.key(), data)
	if s.keep > 0 {
		pipe.LTrim(ctx, s.key(), 0, s.keep-1)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store run record: %w", err)
	}
	return nil
}

func (s *RedisStore) Recent(ctx context.Context, n int) ([]Record, error) {
	if s == nil || s.rdb == nil || n <= 0 {
		return nil, nil
	}

	raw, err := s.rdb.LRange(ctx, s.key(), 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read run history: %w", err)
	}

	records := make([]Record, 0, len(raw))
	for _, item := range raw {
		var r Record
		if err := json.Unmarshal([]byte(item), &r); err != nil {
			return nil, fmt.Errorf("failed to decode run record: %w", err)
		}
		records = append(records, r)
	}
	return records, nil
}
