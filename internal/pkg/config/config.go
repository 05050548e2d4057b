package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port       string `env:"PORT,        default=8080"`
	Env        string `env:"ENV,         default=development"`
	LogLevel   string `env:"LOG_LEVEL,   default=info"`
	BcryptCost int    `env:"BCRYPT_COST, default=10"`

	JWT    JWTConfig
	Cookie CookieConfig
	Mongo  MongoConfig
	Redis  RedisConfig
}

type JWTConfig struct {
	Secret                 string        `env:"JWT_SECRET, required"`
	Algorithm              string        `env:"JWT_ALGORITHM,            default=HS256"`
	AccessTokenLifetime    time.Duration `env:"ACCESS_TOKEN_LIFETIME,    default=5m"`
	RefreshTokenLifetime   time.Duration `env:"REFRESH_TOKEN_LIFETIME,   default=24h"`
	RotateRefreshTokens    bool          `env:"ROTATE_REFRESH_TOKENS,    default=false"`
	BlacklistAfterRotation bool          `env:"BLACKLIST_AFTER_ROTATION, default=false"`
}

type CookieConfig struct {
	RefreshName string `env:"REFRESH_COOKIE_NAME, default=refreshToken"`
	Secure      bool   `env:"COOKIE_SECURE,       default=false"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=accounts"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith is Load with an explicit lookuper.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// Validate rejects settings the token issuer cannot work with.
func (c *Config) Validate() error {
	switch c.JWT.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("unsupported JWT_ALGORITHM %q", c.JWT.Algorithm)
	}
	if c.JWT.AccessTokenLifetime <= 0 || c.JWT.RefreshTokenLifetime <= 0 {
		return errors.New("token lifetimes must be positive")
	}
	if c.JWT.BlacklistAfterRotation && !c.JWT.RotateRefreshTokens {
		return errors.New("BLACKLIST_AFTER_ROTATION requires ROTATE_REFRESH_TOKENS")
	}
	if c.Cookie.RefreshName == "" {
		return errors.New("REFRESH_COOKIE_NAME must not be empty")
	}
	return nil
}

// IsDevelopment reports whether the service runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
