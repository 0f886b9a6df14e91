package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "walletbot:prompt:"

// RedisTable shares pending prompts between bot replicas.
type RedisTable struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisTable connects to url (redis://...) and pings the server.
func NewRedisTable(url string, ttl time.Duration) (*RedisTable, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	rdb := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisTable{rdb: rdb, ttl: ttl}, nil
}

func promptKey(chatID int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, chatID)
}

func (t *RedisTable) Set(ctx context.Context, chatID int64, p Prompt) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	// A zero ttl stores the key without expiry.
	if err := t.rdb.Set(ctx, promptKey(chatID), data, t.ttl).Err(); err != nil {
		return fmt.Errorf("set prompt: %w", err)
	}
	return nil
}

func (t *RedisTable) Take(ctx context.Context, chatID int64) (Prompt, bool, error) {
	data, err := t.rdb.GetDel(ctx, promptKey(chatID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Prompt{}, false, nil
	}
	if err != nil {
		return Prompt{}, false, fmt.Errorf("take prompt: %w", err)
	}

	var p Prompt
	if err := json.Unmarshal(data, &p); err != nil {
		return Prompt{}, false, fmt.Errorf("decode prompt: %w", err)
	}
	if !p.Kind.Valid() {
		return Prompt{}, false, fmt.Errorf("%w: %q", ErrUnknownKind, p.Kind)
	}
	return p, true, nil
}

func (t *RedisTable) Clear(ctx context.Context, chatID int64) error {
	if err := t.rdb.Del(ctx, promptKey(chatID)).Err(); err != nil {
		return fmt.Errorf("clear prompt: %w", err)
	}
	return nil
}

func (t *RedisTable) Close() error {
	return t.rdb.Close()
}
