package cache

import (
	"context"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Dashboard cache keys
const (
	GlobalTotalsKey = "payments:global_totals"
	StatusStatsKey  = "payments:status_stats"
)

const statsTTL = 30 * time.Second

var client *redis.Client

// Init initializes the Redis connection. Every accessor degrades to a
// miss when the client is nil, so a missing Redis only costs the cache.
func Init() error {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}

	client = redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		client = nil
		return err
	}
	return nil
}

// GetStats returns the cached JSON for a stats key if present.
func GetStats(ctx context.Context, key string) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// SetStats caches a stats JSON payload for a short window.
func SetStats(ctx context.Context, key string, data []byte) {
	if client == nil {
		return
	}
	client.Set(ctx, key, data, statsTTL)
}

// InvalidateStats drops the cached aggregates after any payment write.
func InvalidateStats(ctx context.Context) {
	if client == nil {
		return
	}
	client.Del(ctx, GlobalTotalsKey, StatusStatsKey)
}
