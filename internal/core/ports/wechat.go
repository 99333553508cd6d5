package ports

import (
	"context"
	"time"
)

// WxAccessToken is the payload returned by the WeChat OAuth code exchange.
// ErrCode is non-zero when the provider reports an application-level error.
type WxAccessToken struct {
	AccessToken  string `json:"access_token"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	OpenID       string `json:"openid"`
	Scope        string `json:"scope"`
	ErrCode      int    `json:"errcode,omitempty"`
	ErrMsg       string `json:"errmsg,omitempty"`
}

// WeChatClient exchanges an OAuth code for a WeChat identity.
type WeChatClient interface {
	// Configured reports whether an app credential is present. When false the
	// service runs in development mode and treats the code as the openid.
	Configured() bool
	ExchangeCode(ctx context.Context, code string) (*WxAccessToken, error)
}

// WxTokenCache keeps the raw exchange response around for the provider's
// declared lifetime. Writes are best-effort.
type WxTokenCache interface {
	Save(ctx context.Context, openID string, token *WxAccessToken, ttl time.Duration) error
}
