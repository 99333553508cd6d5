package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/civicstats/identity-api/internal/core/ports"
)

// WeChat access tokens are typically declared valid for two hours; fall
// back to that when the provider omits expires_in.
const defaultWxTokenTTL = 2 * time.Hour

// WxTokenCache stores the raw WeChat exchange response per openid.
// Key format: wxtoken:<openid>.
type WxTokenCache struct {
	client *redis.Client
}

// NewWxTokenCache creates a WxTokenCache wrapping the given Redis client.
func NewWxTokenCache(client *redis.Client) *WxTokenCache {
	return &WxTokenCache{client: client}
}

// Save writes the token response with the provider-declared lifetime.
func (c *WxTokenCache) Save(ctx context.Context, openID string, token *ports.WxAccessToken, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = defaultWxTokenTTL
	}
	payload, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("marshal wechat token: %w", err)
	}
	if err := c.client.Set(ctx, "wxtoken:"+openID, payload, ttl).Err(); err != nil {
		return fmt.Errorf("save wechat token: %w", err)
	}
	return nil
}
