package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

const (
	envPrefix = "KEYCRAFT"

	defaultAddr            = ":8080"
	defaultReadTimeout     = 15 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultIdleTimeout     = 120 * time.Second
	defaultRequestTimeout  = 30 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultTemplatesDir    = "internal/templates"
	defaultCookieName      = "keycraft_session"
	defaultIdleTTL         = 2 * time.Hour
	defaultSweepInterval   = 5 * time.Minute
	defaultLogLevel        = "info"
	minSigningKeyLen       = 16
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Shop    ShopConfig    `mapstructure:"shop"`
	Session SessionConfig `mapstructure:"session"`
	Log     LogConfig     `mapstructure:"log"`
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	BaseURL         string        `mapstructure:"base_url"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// DevMode re-parses templates from TemplatesDir on every request.
	DevMode      bool   `mapstructure:"dev_mode"`
	TemplatesDir string `mapstructure:"templates_dir"`
}

// ShopConfig selects the catalog and checkout recipient.
type ShopConfig struct {
	CatalogFile string `mapstructure:"catalog_file"`
	OwnerEmail  string `mapstructure:"owner_email"`
}

// SessionConfig controls the signed session cookie and in-memory state.
type SessionConfig struct {
	CookieName    string        `mapstructure:"cookie_name"`
	SigningKey    string        `mapstructure:"signing_key"`
	Secure        bool          `mapstructure:"secure"`
	IdleTTL       time.Duration `mapstructure:"idle_ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`

	// EphemeralKey is set when SigningKey was generated at startup.
	EphemeralKey bool `mapstructure:"-"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// ValidationError is returned when configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	configFile string
	overrides  map[string]any
	useEnv     bool
}

// WithConfigFile reads a YAML config file. An empty path is ignored.
func WithConfigFile(path string) Option {
	return func(o *loaderOptions) {
		o.configFile = path
	}
}

// WithOverrides sets keys (dotted, e.g. "server.addr") with the highest
// precedence. Used for command-line flags and tests.
func WithOverrides(values map[string]any) Option {
	return func(o *loaderOptions) {
		if o.overrides == nil {
			o.overrides = map[string]any{}
		}
		for k, v := range values {
			o.overrides[k] = v
		}
	}
}

// WithoutEnv disables KEYCRAFT_* environment lookups.
func WithoutEnv() Option {
	return func(o *loaderOptions) {
		o.useEnv = false
	}
}

// Load assembles the configuration from defaults, an optional config file,
// KEYCRAFT_* environment variables and explicit overrides, in that order.
func Load(opts ...Option) (Config, error) {
	options := loaderOptions{useEnv: true}
	for _, opt := range opts {
		opt(&options)
	}

	v := viper.New()
	setDefaults(v)

	if options.useEnv {
		v.SetEnvPrefix(envPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
	}

	if options.configFile != "" {
		v.SetConfigFile(options.configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", options.configFile, err)
		}
	}

	for k, val := range options.overrides {
		v.Set(k, val)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	cfg.Server.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.Server.BaseURL), "/")
	cfg.Shop.OwnerEmail = strings.TrimSpace(cfg.Shop.OwnerEmail)
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))

	if cfg.Session.SigningKey == "" {
		key, err := randomKey()
		if err != nil {
			return Config{}, err
		}
		cfg.Session.SigningKey = key
		cfg.Session.EphemeralKey = true
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", defaultAddr)
	v.SetDefault("server.base_url", "")
	v.SetDefault("server.read_timeout", defaultReadTimeout)
	v.SetDefault("server.write_timeout", defaultWriteTimeout)
	v.SetDefault("server.idle_timeout", defaultIdleTimeout)
	v.SetDefault("server.request_timeout", defaultRequestTimeout)
	v.SetDefault("server.shutdown_timeout", defaultShutdownTimeout)
	v.SetDefault("server.dev_mode", false)
	v.SetDefault("server.templates_dir", defaultTemplatesDir)

	v.SetDefault("shop.catalog_file", "")
	v.SetDefault("shop.owner_email", "")

	v.SetDefault("session.cookie_name", defaultCookieName)
	v.SetDefault("session.signing_key", "")
	v.SetDefault("session.secure", false)
	v.SetDefault("session.idle_ttl", defaultIdleTTL)
	v.SetDefault("session.sweep_interval", defaultSweepInterval)

	v.SetDefault("log.level", defaultLogLevel)
}

func validateConfig(cfg Config) error {
	var invalid []string

	if strings.TrimSpace(cfg.Server.Addr) == "" {
		invalid = append(invalid, "Server.Addr")
	}
	if cfg.Server.ReadTimeout <= 0 {
		invalid = append(invalid, "Server.ReadTimeout")
	}
	if cfg.Server.WriteTimeout <= 0 {
		invalid = append(invalid, "Server.WriteTimeout")
	}
	if cfg.Server.RequestTimeout <= 0 {
		invalid = append(invalid, "Server.RequestTimeout")
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		invalid = append(invalid, "Server.ShutdownTimeout")
	}
	if cfg.Server.DevMode && strings.TrimSpace(cfg.Server.TemplatesDir) == "" {
		invalid = append(invalid, "Server.TemplatesDir")
	}
	if cfg.Shop.OwnerEmail != "" {
		if _, err := mail.ParseAddress(cfg.Shop.OwnerEmail); err != nil {
			invalid = append(invalid, "Shop.OwnerEmail")
		}
	}
	if strings.TrimSpace(cfg.Session.CookieName) == "" {
		invalid = append(invalid, "Session.CookieName")
	}
	if len(cfg.Session.SigningKey) < minSigningKeyLen {
		invalid = append(invalid, "Session.SigningKey")
	}
	if cfg.Session.IdleTTL <= 0 {
		invalid = append(invalid, "Session.IdleTTL")
	}
	if cfg.Session.SweepInterval <= 0 {
		invalid = append(invalid, "Session.SweepInterval")
	}
	if _, err := zapcore.ParseLevel(cfg.Log.Level); err != nil {
		invalid = append(invalid, "Log.Level")
	}

	if len(invalid) > 0 {
		return &ValidationError{fields: invalid}
	}
	return nil
}

func randomKey() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session signing key: %w", err)
	}
	return hex.EncodeToString(b), nil
}
