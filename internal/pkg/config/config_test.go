package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	if err != nil {
		t.Fatalf("LoadWith: %v", err)
	}

	if cfg.Port != "8080" || cfg.Env != "development" || cfg.BcryptCost != 10 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.JWT.Algorithm != "HS256" {
		t.Fatalf("expected HS256, got %s", cfg.JWT.Algorithm)
	}
	if cfg.JWT.AccessTokenLifetime != 5*time.Minute || cfg.JWT.RefreshTokenLifetime != 24*time.Hour {
		t.Fatalf("unexpected lifetimes: %+v", cfg.JWT)
	}
	if cfg.Cookie.RefreshName != "refreshToken" || cfg.Cookie.Secure {
		t.Fatalf("unexpected cookie config: %+v", cfg.Cookie)
	}
	if cfg.Mongo.Database != "accounts" {
		t.Fatalf("unexpected mongo db: %s", cfg.Mongo.Database)
	}
	if !cfg.IsDevelopment() {
		t.Fatalf("expected development env")
	}
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":               "s3cret",
		"JWT_ALGORITHM":            "HS512",
		"REFRESH_TOKEN_LIFETIME":   "168h",
		"ROTATE_REFRESH_TOKENS":    "true",
		"BLACKLIST_AFTER_ROTATION": "true",
		"COOKIE_SECURE":            "true",
		"ENV":                      "production",
	}))
	if err != nil {
		t.Fatalf("LoadWith: %v", err)
	}
	if cfg.JWT.Algorithm != "HS512" || cfg.JWT.RefreshTokenLifetime != 7*24*time.Hour {
		t.Fatalf("unexpected jwt config: %+v", cfg.JWT)
	}
	if !cfg.JWT.RotateRefreshTokens || !cfg.JWT.BlacklistAfterRotation || !cfg.Cookie.Secure {
		t.Fatalf("expected flags to be set: %+v", cfg)
	}
	if cfg.IsDevelopment() {
		t.Fatalf("expected production env")
	}
}

func TestLoadWith_Errors(t *testing.T) {
	cases := map[string]map[string]string{
		"missing secret":      {},
		"bad algorithm":       {"JWT_SECRET": "s", "JWT_ALGORITHM": "RS256"},
		"zero lifetime":       {"JWT_SECRET": "s", "ACCESS_TOKEN_LIFETIME": "0s"},
		"blacklist no rotate": {"JWT_SECRET": "s", "BLACKLIST_AFTER_ROTATION": "true"},
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadWith(context.Background(), envconfig.MapLookuper(env))
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.HasPrefix(err.Error(), "config: ") {
				t.Fatalf("expected config prefix, got %v", err)
			}
		})
	}
}
