// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hireheaven Contributors

// Package config loads service settings. Sources are layered, later ones
// winning: built-in defaults, an optional YAML file, HIREHEAVEN_* environment
// variables (with a .env file loaded first when present), and command-line flags
// the user set explicitly.
package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// EnvPrefix namespaces environment variables. A double underscore separates
// nesting levels: HIREHEAVEN_DATABASE__URL sets database.url.
const EnvPrefix = "HIREHEAVEN_"

// Config is the full service configuration.
type Config struct {
	HTTP      HTTPConfig      `koanf:"http"`
	Metrics   MetricsConfig   `koanf:"metrics"`
	Log       LogConfig       `koanf:"log"`
	Database  DatabaseConfig  `koanf:"database"`
	Redis     RedisConfig     `koanf:"redis"`
	NATS      NATSConfig      `koanf:"nats"`
	JWT       JWTConfig       `koanf:"jwt"`
	Reset     ResetConfig     `koanf:"reset"`
	Frontend  FrontendConfig  `koanf:"frontend"`
	S3        S3Config        `koanf:"s3"`
	RateLimit RateLimitConfig `koanf:"ratelimit"`
}

// HTTPConfig configures the public API listener.
type HTTPConfig struct {
	Addr            string        `koanf:"addr"`
	AllowedOrigins  []string      `koanf:"allowed_origins"`
	MaxUploadBytes  int64         `koanf:"max_upload_bytes"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// MetricsConfig configures the metrics and health listener. An empty address disables it.
type MetricsConfig struct {
	Addr string `koanf:"addr"`
}

// LogConfig selects the log encoding and threshold.
type LogConfig struct {
	Format string `koanf:"format"`
	Level  string `koanf:"level"`
}

// DatabaseConfig points at PostgreSQL.
type DatabaseConfig struct {
	URL      string `koanf:"url"`
	MaxConns int32  `koanf:"max_conns"`
}

// RedisConfig configures the reset-token store.
type RedisConfig struct {
	Addr        string        `koanf:"addr"`
	Password    string        `koanf:"password"`
	MaxIdle     int           `koanf:"max_idle"`
	MaxActive   int           `koanf:"max_active"`
	IdleTimeout time.Duration `koanf:"idle_timeout"`
}

// NATSConfig configures the notification broker.
type NATSConfig struct {
	URL    string `koanf:"url"`
	Stream string `koanf:"stream"`
}

// JWTConfig holds the signing secret and token lifetimes.
type JWTConfig struct {
	Secret     string        `koanf:"secret"`
	Issuer     string        `koanf:"issuer"`
	SessionTTL time.Duration `koanf:"session_ttl"`
	ResetTTL   time.Duration `koanf:"reset_ttl"`
}

// ResetConfig controls how long a reset token stays redeemable in the store.
type ResetConfig struct {
	StoreTTL time.Duration `koanf:"store_ttl"`
}

// FrontendConfig is where reset links point.
type FrontendConfig struct {
	URL string `koanf:"url"`
}

// S3Config configures file storage.
type S3Config struct {
	Endpoint       string `koanf:"endpoint"`
	Region         string `koanf:"region"`
	Bucket         string `koanf:"bucket"`
	AccessKey      string `koanf:"access_key"`
	SecretKey      string `koanf:"secret_key"`
	PublicURL      string `koanf:"public_url"`
	Prefix         string `koanf:"prefix"`
	ForcePathStyle bool   `koanf:"force_path_style"`
}

// RateLimitConfig throttles password recovery per client IP.
type RateLimitConfig struct {
	RecoveryPerMinute int `koanf:"recovery_per_minute"`
}

// Default returns the configuration used for keys no source sets.
func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Addr:            ":5000",
			MaxUploadBytes:  10 << 20,
			ShutdownTimeout: 15 * time.Second,
		},
		Metrics: MetricsConfig{Addr: "127.0.0.1:9100"},
		Log:     LogConfig{Format: "json", Level: "info"},
		Database: DatabaseConfig{
			MaxConns: 10,
		},
		Redis: RedisConfig{
			Addr:        "localhost:6379",
			MaxIdle:     5,
			MaxActive:   20,
			IdleTimeout: 240 * time.Second,
		},
		NATS: NATSConfig{
			URL:    "nats://localhost:4222",
			Stream: "send-mail",
		},
		JWT: JWTConfig{
			SessionTTL: 15 * 24 * time.Hour,
			ResetTTL:   15 * time.Minute,
		},
		Reset:     ResetConfig{StoreTTL: 900 * time.Second},
		Frontend:  FrontendConfig{URL: "http://localhost:3000"},
		S3:        S3Config{Region: "us-east-1"},
		RateLimit: RateLimitConfig{RecoveryPerMinute: 5},
	}
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	switch {
	case c.Database.URL == "":
		return invalid("database.url", "is required")
	case c.JWT.Secret == "":
		return invalid("jwt.secret", "is required")
	case c.Log.Format != "json" && c.Log.Format != "text":
		return invalid("log.format", "must be json or text, got "+c.Log.Format)
	case c.HTTP.Addr == "":
		return invalid("http.addr", "is required")
	case c.JWT.SessionTTL <= 0:
		return invalid("jwt.session_ttl", "must be positive")
	case c.JWT.ResetTTL <= 0:
		return invalid("jwt.reset_ttl", "must be positive")
	case c.Reset.StoreTTL < time.Second:
		return invalid("reset.store_ttl", "must be at least one second")
	case c.RateLimit.RecoveryPerMinute < 0:
		return invalid("ratelimit.recovery_per_minute", "cannot be negative")
	}
	return nil
}

func invalid(key, problem string) error {
	return oops.Code("CONFIG_INVALID").With("key", key).Errorf("%s %s", key, problem)
}

// sourceFlags name config sources rather than config values.
var sourceFlags = map[string]struct{}{"config": {}, "env-file": {}}

// LoadOptions selects the sources Load reads.
type LoadOptions struct {
	// File is an optional YAML file. Empty skips it; a named file must exist.
	File string
	// DotEnv is loaded into the process environment when present. Variables
	// already set are not overwritten.
	DotEnv string
	// Flags the user changed override every other source. Flag names use
	// dashes for nesting: --database-url sets database.url.
	Flags *pflag.FlagSet
	// Environ replaces os.Environ, for tests.
	Environ func() []string
}

// Load builds a Config from the configured sources. It does not validate.
func Load(opts LoadOptions) (*Config, error) {
	if opts.DotEnv != "" {
		if err := godotenv.Load(opts.DotEnv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", opts.DotEnv).Wrap(err)
		}
	}

	k := koanf.New(".")

	if opts.File != "" {
		if err := k.Load(file.Provider(opts.File), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", opts.File).Wrap(err)
		}
	}

	if err := loadEnv(k, opts.Environ); err != nil {
		return nil, err
	}

	if opts.Flags != nil {
		provider := posflag.ProviderWithFlag(opts.Flags, ".", k, func(f *pflag.Flag) (string, any) {
			if _, source := sourceFlags[f.Name]; !f.Changed || source {
				return "", nil
			}
			return flagKey(f.Name), posflag.FlagVal(opts.Flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "flags").Wrap(err)
		}
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, oops.Code("CONFIG_DECODE_FAILED").Wrap(err)
	}
	return &cfg, nil
}

func loadEnv(k *koanf.Koanf, environ func() []string) error {
	provider := env.Provider(".", env.Opt{
		Prefix:      EnvPrefix,
		EnvironFunc: environ,
		TransformFunc: func(name, value string) (string, any) {
			key := strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(name, EnvPrefix)), "__", ".")
			if key == "http.allowed_origins" {
				return key, splitList(value)
			}
			return key, value
		},
	})
	if err := k.Load(provider, nil); err != nil {
		return oops.Code("CONFIG_LOAD_FAILED").With("source", "env").Wrap(err)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// flagKey maps a flag name to its config key: the first dash separates the
// section, the rest become underscores (--redis-max-idle sets redis.max_idle).
func flagKey(name string) string {
	section, rest, ok := strings.Cut(name, "-")
	if !ok {
		return name
	}
	return section + "." + strings.ReplaceAll(rest, "-", "_")
}
