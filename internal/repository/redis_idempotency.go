package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/wheelgate/wheelgate/internal/middleware"
	"github.com/wheelgate/wheelgate/internal/pkg/logger"
)

const opTimeout = 2 * time.Second

// RedisIdempotencyStore shares idempotency records between gateway replicas.
// Redis failures degrade to "not seen before" so requests are never blocked
// by the cache.
type RedisIdempotencyStore struct {
	client *RedisClient
	ttl    time.Duration
	prefix string
}

func NewRedisIdempotencyStore(client *RedisClient, ttl time.Duration) *RedisIdempotencyStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisIdempotencyStore{
		client: client,
		ttl:    ttl,
		prefix: "wheelgate:idem:",
	}
}

type idemWire struct {
	Status     int    `json:"status"`
	Body       []byte `json:"body"`
	CreatedAt  int64  `json:"created_at"`
	Processing bool   `json:"processing"`
}

func (s *RedisIdempotencyStore) GetOrLock(key string) (*middleware.IdempotencyRecord, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	lock := middleware.IdempotencyRecord{CreatedAt: time.Now().UTC(), Processing: true}
	ok, err := s.client.Client.SetNX(ctx, s.prefix+key, encodeIdemRecord(lock), s.ttl).Result()
	if err != nil {
		logger.Warn("idempotency lock failed", "key", key, "error", err)
		return nil, false
	}
	if ok {
		return nil, false
	}

	raw, err := s.client.Client.Get(ctx, s.prefix+key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn("idempotency lookup failed", "key", key, "error", err)
		}
		return nil, false
	}
	rec, err := decodeIdemRecord(raw)
	if err != nil {
		return nil, false
	}
	return rec, true
}

func (s *RedisIdempotencyStore) Save(key string, status int, body []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	record := middleware.IdempotencyRecord{
		Status:    status,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.client.Client.Set(ctx, s.prefix+key, encodeIdemRecord(record), s.ttl).Err(); err != nil {
		logger.Warn("idempotency save failed", "key", key, "error", err)
	}
}

func (s *RedisIdempotencyStore) Unlock(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	_ = s.client.Client.Del(ctx, s.prefix+key).Err()
}

func encodeIdemRecord(rec middleware.IdempotencyRecord) string {
	data, _ := json.Marshal(idemWire{
		Status:     rec.Status,
		Body:       rec.Body,
		CreatedAt:  rec.CreatedAt.Unix(),
		Processing: rec.Processing,
	})
	return string(data)
}

func decodeIdemRecord(raw string) (*middleware.IdempotencyRecord, error) {
	var wire idemWire
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return nil, err
	}
	return &middleware.IdempotencyRecord{
		Status:     wire.Status,
		Body:       wire.Body,
		CreatedAt:  time.Unix(wire.CreatedAt, 0).UTC(),
		Processing: wire.Processing,
	}, nil
}
