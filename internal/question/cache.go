package question

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultCacheTTL = 24 * time.Hour

// TriviaFetcher supplies extra general knowledge questions.
type TriviaFetcher interface {
	FetchTrivia(ctx context.Context, amount int, difficulty string) ([]TriviaItem, error)
}

// TriviaCache keeps fetched trivia in Redis so restarts do not hit the upstream APIs again.
type TriviaCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewTriviaCache(client *redis.Client, ttl time.Duration) *TriviaCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &TriviaCache{client: client, ttl: ttl}
}

func (c *TriviaCache) key(source, difficulty string, amount int) string {
	return fmt.Sprintf("trivia:%s:%s:%d", source, difficulty, amount)
}

// Get returns nil without error on a miss.
func (c *TriviaCache) Get(ctx context.Context, source, difficulty string, amount int) ([]TriviaItem, error) {
	data, err := c.client.Get(ctx, c.key(source, difficulty, amount)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var items []TriviaItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *TriviaCache) Set(ctx context.Context, source, difficulty string, amount int, items []TriviaItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(source, difficulty, amount), data, c.ttl).Err()
}

// CachedFetcher serves a fetcher's results from the cache when present.
// A nil cache passes every call through.
type CachedFetcher struct {
	Source  string
	Fetcher TriviaFetcher
	Cache   *TriviaCache
}

func (f CachedFetcher) FetchTrivia(ctx context.Context, amount int, difficulty string) ([]TriviaItem, error) {
	if f.Cache != nil {
		if items, err := f.Cache.Get(ctx, f.Source, difficulty, amount); err == nil && len(items) > 0 {
			return items, nil
		}
	}

	items, err := f.Fetcher.FetchTrivia(ctx, amount, difficulty)
	if err != nil {
		return nil, fmt.Errorf("fetch %s trivia: %w", f.Source, err)
	}
	if f.Cache != nil && len(items) > 0 {
		_ = f.Cache.Set(ctx, f.Source, difficulty, amount, items)
	}
	return items, nil
}
