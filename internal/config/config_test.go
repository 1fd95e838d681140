package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(WithoutEnv())
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.Server.Addr)
	require.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	require.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	require.False(t, cfg.Server.DevMode)
	require.Equal(t, "keycraft_session", cfg.Session.CookieName)
	require.Equal(t, 2*time.Hour, cfg.Session.IdleTTL)
	require.Equal(t, "info", cfg.Log.Level)
	require.Empty(t, cfg.Shop.CatalogFile)

	require.True(t, cfg.Session.EphemeralKey)
	require.Len(t, cfg.Session.SigningKey, 64)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("KEYCRAFT_SERVER_ADDR", "127.0.0.1:9090")
	t.Setenv("KEYCRAFT_SESSION_IDLE_TTL", "45m")
	t.Setenv("KEYCRAFT_SESSION_SECURE", "true")
	t.Setenv("KEYCRAFT_SESSION_SIGNING_KEY", "0123456789abcdef0123")
	t.Setenv("KEYCRAFT_SHOP_OWNER_EMAIL", " studio@keycraftcaps.com ")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9090", cfg.Server.Addr)
	require.Equal(t, 45*time.Minute, cfg.Session.IdleTTL)
	require.True(t, cfg.Session.Secure)
	require.False(t, cfg.Session.EphemeralKey)
	require.Equal(t, "studio@keycraftcaps.com", cfg.Shop.OwnerEmail)
}

func TestLoadConfigFileAndOverrides(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "keycraft.yaml")
	doc := []byte(`server:
  addr: ":7000"
  base_url: "https://shop.example/"
log:
  level: DEBUG
`)
	require.NoError(t, os.WriteFile(path, doc, 0o600))

	cfg, err := Load(WithoutEnv(), WithConfigFile(path), WithOverrides(map[string]any{"server.addr": ":7100"}))
	require.NoError(t, err)
	require.Equal(t, ":7100", cfg.Server.Addr, "overrides win over the file")
	require.Equal(t, "https://shop.example", cfg.Server.BaseURL)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadMissingConfigFile(t *testing.T) {
	t.Parallel()

	_, err := Load(WithoutEnv(), WithConfigFile(filepath.Join(t.TempDir(), "nope.yaml")))
	require.Error(t, err)
	require.Contains(t, err.Error(), "read config file")
}

func TestLoadValidation(t *testing.T) {
	t.Parallel()

	_, err := Load(WithoutEnv(), WithOverrides(map[string]any{
		"server.addr":         "",
		"session.signing_key": "short",
		"session.idle_ttl":    "0s",
		"shop.owner_email":    "not an email",
		"log.level":           "loud",
	}))
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.ElementsMatch(t, []string{
		"Server.Addr",
		"Session.SigningKey",
		"Session.IdleTTL",
		"Shop.OwnerEmail",
		"Log.Level",
	}, verr.Fields())
}
