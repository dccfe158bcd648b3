package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/prakashdas-pd/apexbridge-leads/internal/entity"
)

var ErrSessionNotFound = errors.New("session not found or revoked")

const keyPrefix = "admin:session:"

// RedisStore keeps admin sessions server-side so a token can be killed
// before it expires. The client-held token is only a pointer into this
// store.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

func (s *RedisStore) Save(ctx context.Context, session *entity.AdminSession, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, keyPrefix+session.ID, data, ttl).Err()
}

func (s *RedisStore) Find(ctx context.Context, id string) (*entity.AdminSession, error) {
	data, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	var session entity.AdminSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *RedisStore) Revoke(ctx context.Context, id string) error {
	return s.client.Del(ctx, keyPrefix+id).Err()
}
