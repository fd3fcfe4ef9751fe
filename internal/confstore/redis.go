package confstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	redis "github.com/redis/go-redis/v9"

	"github.com/TransactionWorldAI/transactpay-prestashop/internal/shop"
)

// Redis stores plain values as strings and language-keyed values as hashes keyed by language id.
type Redis struct {
	Client *redis.Client
	Prefix string
}

// NewRedis returns a Redis backed store using the "conf:" prefix when prefix is empty.
func NewRedis(client *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = "conf:"
	}
	return &Redis{Client: client, Prefix: prefix}
}

func (r *Redis) key(ctx context.Context, key string) string {
	return r.Prefix + shop.PrefixKey(shop.ID(ctx), key)
}

func (r *Redis) langKey(ctx context.Context, key string) string {
	return r.key(ctx, key) + ":lang"
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.Client.Get(ctx, r.key(ctx, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("confstore: get %s: %w", key, err)
	}
	return v, true, nil
}

func (r *Redis) GetLang(ctx context.Context, key string, languageID int64) (string, bool, error) {
	v, err := r.Client.HGet(ctx, r.langKey(ctx, key), strconv.FormatInt(languageID, 10)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("confstore: get %s[%d]: %w", key, languageID, err)
	}
	return v, true, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	if err := r.Client.Set(ctx, r.key(ctx, key), value, 0).Err(); err != nil {
		return fmt.Errorf("confstore: set %s: %w", key, err)
	}
	return nil
}

func (r *Redis) SetLang(ctx context.Context, key string, values map[int64]string) error {
	if len(values) == 0 {
		return nil
	}
	fields := make(map[string]any, len(values))
	for id, v := range values {
		fields[strconv.FormatInt(id, 10)] = v
	}
	if err := r.Client.HSet(ctx, r.langKey(ctx, key), fields).Err(); err != nil {
		return fmt.Errorf("confstore: set %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.Client.Del(ctx, r.key(ctx, key), r.langKey(ctx, key)).Err(); err != nil {
		return fmt.Errorf("confstore: delete %s: %w", key, err)
	}
	return nil
}
