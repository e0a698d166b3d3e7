package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "storefront:session:"

type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(ctx context.Context, addr, password string, ttl time.Duration) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisStore{rdb: rdb, ttl: ttl}, nil
}

func redisKey(id string) string {
	return redisKeyPrefix + id
}

func (r *RedisStore) Create(ctx context.Context, userID, username string) (Session, error) {
	now := time.Now().UTC()
	s := Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Username:  username,
		CreatedAt: now,
		ExpiresAt: now.Add(r.ttl),
	}

	data, err := json.Marshal(s)
	if err != nil {
		return Session{}, err
	}
	if err := r.rdb.Set(ctx, redisKey(s.ID), data, r.ttl).Err(); err != nil {
		return Session{}, fmt.Errorf("redis set: %w", err)
	}
	return s, nil
}

func (r *RedisStore) Get(ctx context.Context, id string) (Session, error) {
	val, err := r.rdb.Get(ctx, redisKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, ErrSessionNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("redis get: %w", err)
	}

	var s Session
	if err := json.Unmarshal(val, &s); err != nil {
		return Session{}, fmt.Errorf("decode session: %w", err)
	}
	if s.Expired(time.Now()) {
		return Session{}, ErrSessionNotFound
	}
	return s, nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	return r.rdb.Del(ctx, redisKey(id)).Err()
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

func (r *RedisStore) Close() error {
	return r.rdb.Close()
}
