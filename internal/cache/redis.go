package cache

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

// KeyPrefix namespaces chart entries in a shared Redis
const KeyPrefix = "pollbox:chart:"

// RedisStore is a Store shared between processes through Redis
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an existing client
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Dial connects to Redis and verifies the connection with PING.
// addr may be a redis:// URL or a bare host:port.
func Dial(ctx context.Context, addr string) (*RedisStore, error) {
	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", opts.Addr, err)
	}
	return NewRedisStore(client), nil
}

func key(pollID string) string {
	return KeyPrefix + pollID
}

func (s *RedisStore) Get(ctx context.Context, pollID string) (Entry, error) {
	b, err := s.client.Get(ctx, key(pollID)).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return Entry{}, ErrMiss
	}
	if err != nil {
		return Entry{}, err
	}

	var entry Entry
	if err := msgpack.Unmarshal(b, &entry); err != nil {
		// An undecodable value is treated as absent; the next Put overwrites it.
		return Entry{}, ErrMiss
	}
	return entry, nil
}

func (s *RedisStore) Put(ctx context.Context, pollID string, entry Entry, ttl time.Duration) error {
	b, err := msgpack.Marshal(&entry)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key(pollID), b, ttl).Err()
}

func (s *RedisStore) Has(ctx context.Context, pollID string) (bool, error) {
	n, err := s.client.Exists(ctx, key(pollID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Ping checks that Redis is reachable
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying client
func (s *RedisStore) Close() error {
	return s.client.Close()
}
