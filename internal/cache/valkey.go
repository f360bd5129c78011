package cache

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	capabilityTTL = 5 * time.Minute
	featureTTL    = time.Minute
)

// ValkeyClient fronts the directory and features collaborators so the
// hot reserve/status paths do not hit them on every request.
type ValkeyClient struct {
	client *redis.Client
}

func NewValkeyClient() (*ValkeyClient, error) {
	addr := os.Getenv("VALKEY_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	password := os.Getenv("VALKEY_PASSWORD")

	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Valkey: %w", err)
	}

	return &ValkeyClient{client: rdb}, nil
}

func (v *ValkeyClient) GetActorCapability(ctx context.Context, actorID int64) (string, error) {
	key := fmt.Sprintf("actor:capability:%d", actorID)

	capability, err := v.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", fmt.Errorf("capability not found in cache")
		}
		return "", fmt.Errorf("cache lookup error: %w", err)
	}

	return capability, nil
}

func (v *ValkeyClient) SetActorCapability(ctx context.Context, actorID int64, capability string) {
	key := fmt.Sprintf("actor:capability:%d", actorID)
	v.client.Set(ctx, key, capability, capabilityTTL)
}

func (v *ValkeyClient) GetStudyCafeEnabled(ctx context.Context, centerID int64) (bool, error) {
	key := fmt.Sprintf("center:studycafe:%d", centerID)

	enabled, err := v.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return false, fmt.Errorf("feature flag not found in cache")
		}
		return false, fmt.Errorf("cache lookup error: %w", err)
	}

	return enabled == "1", nil
}

func (v *ValkeyClient) SetStudyCafeEnabled(ctx context.Context, centerID int64, enabled bool) {
	key := fmt.Sprintf("center:studycafe:%d", centerID)
	value := "0"
	if enabled {
		value = "1"
	}
	v.client.Set(ctx, key, value, featureTTL)
}

func (v *ValkeyClient) Close() error {
	return v.client.Close()
}
