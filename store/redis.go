package store

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the Redis key holding the configuration document when
// none is configured.
const DefaultRedisKey = "modelpath:plugins:config"

// RedisOptions configures the Redis connection for a RedisStore.
type RedisOptions struct {
	// URL is the Redis connection string (e.g., "redis://localhost:6379").
	URL string

	// Key is the Redis key holding the configuration document.
	// Defaults to DefaultRedisKey.
	Key string

	// TLS configuration for secure connections.
	TLS *tls.Config

	// ConnectTimeout is the maximum time to wait for connection establishment.
	ConnectTimeout time.Duration

	// ReadTimeout is the maximum time to wait for read operations.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait for write operations.
	WriteTimeout time.Duration
}

// RedisStore persists the configuration document in a single Redis key,
// letting several hosts share one set of plugin state.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore connects to Redis and returns a store. The connection is
// verified with a ping before the store is returned.
func NewRedisStore(opts RedisOptions) (*RedisStore, error) {
	if opts.URL == "" {
		opts.URL = "redis://localhost:6379"
	}
	if opts.Key == "" {
		opts.Key = DefaultRedisKey
	}
	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 5 * time.Second
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 30 * time.Second
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 5 * time.Second
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	redisOpts.TLSConfig = opts.TLS
	redisOpts.DialTimeout = opts.ConnectTimeout
	redisOpts.ReadTimeout = opts.ReadTimeout
	redisOpts.WriteTimeout = opts.WriteTimeout

	client := redis.NewClient(redisOpts)

	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: client, key: opts.Key}, nil
}

// Load reads the document from the configured key. A missing key is not an
// error.
func (s *RedisStore) Load(ctx context.Context) (Configs, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return Configs{}, nil
		}
		return nil, fmt.Errorf("read plugin config from redis: %w", err)
	}

	configs := Configs{}
	if err := json.Unmarshal(data, &configs); err != nil {
		return nil, fmt.Errorf("parse plugin config from redis: %w", err)
	}
	return configs, nil
}

// Save writes the document to the configured key.
func (s *RedisStore) Save(ctx context.Context, configs Configs) error {
	data, err := json.Marshal(configs)
	if err != nil {
		return fmt.Errorf("encode plugin config: %w", err)
	}

	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("write plugin config to redis: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
