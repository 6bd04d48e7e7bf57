package session

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"resumeparser/internal/config"
	"resumeparser/internal/errors"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the current record as JSON under a single key, so every
// server instance sharing the Redis sees the same upload.
type RedisStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	logger *errors.Logger
}

// NewRedisStore connects to Redis and checks the connection.
func NewRedisStore(cfg config.RedisConfig, logger *errors.Logger) (*RedisStore, error) {
	if cfg.Addr == "" {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "redis address is required", nil)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if cfg.Tracing {
		if err := redisotel.InstrumentTracing(client); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to instrument redis tracing: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.NewStorageError(errors.ErrCodeStorageFailed,
			fmt.Sprintf("failed to connect to redis at %s", cfg.Addr), err)
	}

	logger.Info("Connected to redis session store", "addr", cfg.Addr, "db", cfg.DB, "key", cfg.Key)
	return &RedisStore{client: client, key: cfg.Key, ttl: cfg.TTL, logger: logger}, nil
}

func (r *RedisStore) Save(ctx context.Context, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeStorageFailed, "failed to encode session record", err)
	}
	// a zero ttl keeps the key until the next upload
	if err := r.client.Set(ctx, r.key, data, r.ttl).Err(); err != nil {
		return errors.NewStorageError(errors.ErrCodeStorageFailed, "failed to save session record", err)
	}
	return nil
}

func (r *RedisStore) Current(ctx context.Context) (Record, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return Record{}, noResume()
	}
	if err != nil {
		return Record{}, errors.NewStorageError(errors.ErrCodeStorageFailed, "failed to read session record", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		r.logger.Warn("Discarding unreadable session record", "key", r.key, "error", err.Error())
		return Record{}, noResume()
	}
	return rec, nil
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
