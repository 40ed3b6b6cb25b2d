package config

import (
	"context"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
)

var (
	rdb *redis.Client
)

func GetRedisDB() *redis.Client {
	return rdb
}

func redisAddress() string {
	addr := os.Getenv("REDIS_ADDRESS")
	if addr == "" {
		return "localhost:6379"
	}
	return addr
}

// ConnectRedis connects the global client once. Redis only backs the optional rate limiter,
// so callers decide whether a failure is fatal.
func ConnectRedis(ctx context.Context) error {
	client := redis.NewClient(&redis.Options{
		Addr:     redisAddress(),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       intFromEnv("REDIS_DB", 0),
		PoolSize: intFromEnv("REDIS_POOL_SIZE", 20),
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("could not connect redis at %s: %w", redisAddress(), err)
	}
	rdb = client
	return nil
}

func CloseRedis() error {
	if rdb == nil {
		return nil
	}
	err := rdb.Close()
	rdb = nil
	return err
}
