package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, "cookies.json", cfg.Session.CookieFile)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, "pt-BR", cfg.Browser.Locale)
	assert.Equal(t, 10*time.Second, cfg.Scrape.SettleDelay)
	assert.Equal(t, time.Second, cfg.Scrape.ScrollDelay)
	assert.Equal(t, 200, cfg.Scrape.MaxScrolls)
	assert.Equal(t, 5*time.Minute, cfg.Scrape.VerificationTimeout)
	assert.Equal(t, 8080, cfg.API.Port)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SHOPEE_EMAIL", "seller@example.com")
	t.Setenv("SHOPEE_PASSWORD", "hunter2")
	t.Setenv("SHOPEE_COOKIE_FILE", "/tmp/shopee/cookies.json")
	t.Setenv("SCRAPE_MAX_SCROLLS", "15")
	t.Setenv("SCRAPE_SCROLL_DELAY", "250ms")
	t.Setenv("SCRAPE_VERIFICATION_SETTLE", "3s")
	t.Setenv("BROWSER_HEADLESS", "false")

	cfg := LoadFromEnv()
	assert.NotNil(t, cfg)
	assert.Equal(t, "seller@example.com", cfg.Shopee.Email)
	assert.Equal(t, "hunter2", cfg.Shopee.Password)
	assert.Equal(t, "/tmp/shopee/cookies.json", cfg.Session.CookieFile)
	assert.Equal(t, 15, cfg.Scrape.MaxScrolls)
	assert.Equal(t, 250*time.Millisecond, cfg.Scrape.ScrollDelay)
	assert.Equal(t, 3*time.Second, cfg.Scrape.VerificationSettle)
	assert.False(t, cfg.Browser.Headless)
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	t.Setenv("SHOPEE_COOKIE_FILE", "")
	t.Setenv("SCRAPE_MAX_SCROLLS", "not-a-number")

	cfg := LoadFromEnv()
	assert.NotNil(t, cfg)
	assert.Equal(t, "cookies.json", cfg.Session.CookieFile)
	assert.Equal(t, 200, cfg.Scrape.MaxScrolls)
	assert.Equal(t, "info", cfg.Observability.Logging.Level)
}

func TestLoadOrEnv_FallbackToEnv(t *testing.T) {
	t.Setenv("SHOPEE_COOKIE_FILE", "fallback.json")

	// Try to load from non-existent file
	cfg := LoadOrEnv_WithPath("nonexistent.yaml")
	assert.NotNil(t, cfg)
	assert.Equal(t, "fallback.json", cfg.Session.CookieFile)
}

func TestEnvVarExpansion(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
shopee:
  email: "${TEST_SHOPEE_EMAIL}"
  password: "${TEST_SHOPEE_PASSWORD}"
scrape:
  settle_delay: 2s
  max_scrolls: 40
`

	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	t.Setenv("TEST_SHOPEE_EMAIL", "expanded@example.com")
	t.Setenv("TEST_SHOPEE_PASSWORD", "expanded-secret")

	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "expanded@example.com", cfg.Shopee.Email)
	assert.Equal(t, "expanded-secret", cfg.Shopee.Password)
	assert.Equal(t, 2*time.Second, cfg.Scrape.SettleDelay)
	assert.Equal(t, 40, cfg.Scrape.MaxScrolls)

	// untouched sections keep defaults
	assert.Equal(t, time.Second, cfg.Scrape.ScrollDelay)
	assert.Equal(t, "cookies.json", cfg.Session.CookieFile)
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("shopee: [unclosed"), 0644))

	_, err := Load(configPath)
	assert.Error(t, err)
}

func TestCredentials(t *testing.T) {
	t.Run("IsZero requires both secrets", func(t *testing.T) {
		assert.True(t, Credentials{}.IsZero())
		assert.True(t, Credentials{Email: "a@b.c"}.IsZero())
		assert.True(t, Credentials{Password: "x"}.IsZero())
		assert.False(t, Credentials{Email: "a@b.c", Password: "x"}.IsZero())
	})

	t.Run("never leaks secrets when logged", func(t *testing.T) {
		creds := ShopeeConfig{Email: "seller@example.com", Password: "hunter2"}.Credentials()

		var buf strings.Builder
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		logger.Info("login", "credentials", creds)

		assert.NotContains(t, buf.String(), "hunter2")
		assert.NotContains(t, buf.String(), "seller@example.com")
		assert.Contains(t, buf.String(), "password_set=true")
		assert.NotContains(t, fmt.Sprint(creds), "hunter2")
	})
}
