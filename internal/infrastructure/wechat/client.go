// Package wechat implements the server-to-server OAuth code exchange
// against the WeChat open platform.
package wechat

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/civicstats/identity-api/internal/core/ports"
)

const (
	accessTokenURL = "https://api.weixin.qq.com/sns/oauth2/access_token"
	defaultTimeout = 10 * time.Second
)

// Client exchanges OAuth codes for WeChat identities. The zero credential
// case is legal: Configured reports false and the auth service falls back
// to development mode without touching the network.
type Client struct {
	appID     string
	appSecret string
	baseURL   string
	http      *http.Client
}

func NewClient(appID, appSecret string) *Client {
	return &Client{
		appID:     appID,
		appSecret: appSecret,
		baseURL:   accessTokenURL,
		http:      &http.Client{Timeout: defaultTimeout},
	}
}

// WithBaseURL overrides the provider endpoint. Intended for tests.
func (c *Client) WithBaseURL(base string) *Client {
	c.baseURL = base
	return c
}

// Configured reports whether an app credential is present.
func (c *Client) Configured() bool {
	return c.appID != ""
}

// ExchangeCode trades code for the WeChat access token response. A non-2xx
// status, a provider error code, or a missing openid all fail the exchange.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*ports.WxAccessToken, error) {
	q := url.Values{}
	q.Set("appid", c.appID)
	q.Set("secret", c.appSecret)
	q.Set("code", code)
	q.Set("grant_type", "authorization_code")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build exchange request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("exchange request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("exchange request: unexpected status %d", resp.StatusCode)
	}

	var token ports.WxAccessToken
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("decode exchange response: %w", err)
	}
	if token.ErrCode != 0 {
		return nil, fmt.Errorf("provider error %d: %s", token.ErrCode, token.ErrMsg)
	}
	if token.OpenID == "" {
		return nil, fmt.Errorf("exchange response carries no openid")
	}
	return &token, nil
}
