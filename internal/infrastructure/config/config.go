package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// Config is loaded once at startup and passed down explicitly; nothing
// reads the environment after Load returns.
type Config struct {
	Port     string `env:"PORT,     default=8080"`
	Env      string `env:"ENV,      default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWT    JWTConfig
	WeChat WeChatConfig
	Sms    SmsConfig
	Mongo  MongoConfig
	Redis  RedisConfig
}

type JWTConfig struct {
	Key      string `env:"JWT_KEY"`
	Issuer   string `env:"JWT_ISSUER,   default=identity-api"`
	Audience string `env:"JWT_AUDIENCE, default=identity-app"`
}

// WeChatConfig holds the OAuth app credential. An empty AppID switches the
// login flow into development mode.
type WeChatConfig struct {
	AppID     string `env:"WX_APP_ID"`
	AppSecret string `env:"WX_APP_SECRET"`
}

// SmsConfig holds the SMS gateway settings. An empty SecretKey selects the
// log-only development sender.
type SmsConfig struct {
	Endpoint  string `env:"SMS_ENDPOINT"`
	SecretKey string `env:"SMS_SECRET_KEY"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=identity_api"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.JWT.Key == "" {
		return nil, fmt.Errorf("config: JWT_KEY is required")
	}
	return &cfg, nil
}
