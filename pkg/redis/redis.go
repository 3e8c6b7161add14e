package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tcnr01/storefront-backend/config"
	"github.com/tcnr01/storefront-backend/pkg/logger"
)

var client *redis.Client

// Init initializes Redis connection
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"addr": cfg.Addr(),
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"addr": cfg.Addr(),
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully")
	return nil
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection")
		return client.Close()
	}
	return nil
}

const blacklistPrefix = "blacklist:"

// Blacklist stores revoked token ids with a TTL matching the token's
// remaining lifetime, so entries disappear once the token would have
// expired anyway.
type Blacklist struct {
	client redis.Cmdable
}

func NewBlacklist(client redis.Cmdable) *Blacklist {
	return &Blacklist{client: client}
}

func blacklistKey(tokenID string) string {
	return blacklistPrefix + tokenID
}

// Revoke blacklists tokenID. A non-positive ttl means the token has
// already expired and nothing is stored.
func (b *Blacklist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if tokenID == "" {
		return errors.New("token id is required")
	}
	if ttl <= 0 {
		logger.Debug("Skipping revocation of expired token", map[string]interface{}{
			"token_id": tokenID,
		})
		return nil
	}

	if err := b.client.Set(ctx, blacklistKey(tokenID), "revoked", ttl).Err(); err != nil {
		logger.Error("Failed to blacklist token", err, map[string]interface{}{
			"token_id": tokenID,
		})
		return err
	}

	logger.Debug("Token blacklisted", map[string]interface{}{
		"token_id": tokenID,
		"ttl":      ttl.String(),
	})
	return nil
}

func (b *Blacklist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}

	n, err := b.client.Exists(ctx, blacklistKey(tokenID)).Result()
	if err != nil {
		logger.Error("Failed to check token blacklist", err, map[string]interface{}{
			"token_id": tokenID,
		})
		return false, err
	}
	return n > 0, nil
}
