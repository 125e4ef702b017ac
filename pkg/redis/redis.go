package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vund-dev/moda-backend/config"
	"github.com/vund-dev/moda-backend/pkg/logger"
)

var client *redis.Client

// Init initializes the Redis connection
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully", nil)
	return nil
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection", nil)
		return client.Close()
	}
	return nil
}

const viewKeyPrefix = "product:views:"

// IncrementProductView bumps the pending view counter for a product
func IncrementProductView(ctx context.Context, productID uint) error {
	key := viewKeyPrefix + strconv.FormatUint(uint64(productID), 10)
	if err := client.Incr(ctx, key).Err(); err != nil {
		logger.Error("Failed to increment product view counter", err, map[string]interface{}{
			"product_id": productID,
		})
		return err
	}
	return nil
}

// DrainProductViews atomically reads and clears all pending view counters,
// returning productID -> accumulated views since the last drain.
func DrainProductViews(ctx context.Context) (map[uint]int64, error) {
	keys, err := client.Keys(ctx, viewKeyPrefix+"*").Result()
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int64, len(keys))
	for _, key := range keys {
		val, err := client.GetDel(ctx, key).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return counts, err
		}

		id, err := strconv.ParseUint(key[len(viewKeyPrefix):], 10, 32)
		if err != nil {
			logger.Warn("Skipping malformed view counter key", map[string]interface{}{
				"key": key,
			})
			continue
		}
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			continue
		}
		counts[uint(id)] += n
	}

	return counts, nil
}
