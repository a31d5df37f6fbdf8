// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml)
//  2. Environment variables (fallback)
//
// A .env file in the working directory is loaded into the process environment
// first, so SHOPEE_EMAIL / SHOPEE_PASSWORD can live there during development.
//
// Example usage:
//
//	cfg := config.LoadOrEnv()
//	creds := cfg.Shopee.Credentials()
//	cookieFile := cfg.Session.CookieFile
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the entire application configuration
type Config struct {
	Shopee        ShopeeConfig        `yaml:"shopee"`
	Session       SessionConfig       `yaml:"session"`
	Browser       BrowserConfig       `yaml:"browser"`
	Scrape        ScrapeConfig        `yaml:"scrape"`
	API           APIConfig           `yaml:"api"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ShopeeConfig holds the seller account used to log in
type ShopeeConfig struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

// Credentials returns the login credentials as a standalone value.
func (c ShopeeConfig) Credentials() Credentials {
	return Credentials{Email: c.Email, Password: c.Password}
}

// Credentials are the seller login secrets. They are read once at startup
// and passed explicitly to the fetch orchestrator.
type Credentials struct {
	Email    string
	Password string
}

// IsZero reports whether either secret is missing.
func (c Credentials) IsZero() bool {
	return c.Email == "" || c.Password == ""
}

// LogValue keeps the secrets out of structured logs.
func (c Credentials) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("email_set", c.Email != ""),
		slog.Bool("password_set", c.Password != ""),
	)
}

// String keeps the secrets out of fmt output.
func (c Credentials) String() string {
	return "Credentials{redacted}"
}

// SessionConfig holds the cookie cache location
type SessionConfig struct {
	CookieFile string `yaml:"cookie_file"`
}

// BrowserConfig holds headless browser settings
type BrowserConfig struct {
	Headless bool   `yaml:"headless"`
	ExecPath string `yaml:"exec_path"` // empty = let chromedp find Chrome
	Locale   string `yaml:"locale"`
}

// ScrapeConfig holds the waits and bounds used while driving the portal
type ScrapeConfig struct {
	SettleDelay         time.Duration `yaml:"settle_delay"`
	ScrollDelay         time.Duration `yaml:"scroll_delay"`
	MaxScrolls          int           `yaml:"max_scrolls"`
	VerificationSettle  time.Duration `yaml:"verification_settle"`
	VerificationTimeout time.Duration `yaml:"verification_timeout"`
}

// APIConfig holds HTTP server settings
type APIConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Defaults returns the configuration used when nothing overrides a field.
func Defaults() *Config {
	return &Config{
		Session: SessionConfig{
			CookieFile: "cookies.json",
		},
		Browser: BrowserConfig{
			Headless: true,
			Locale:   "pt-BR",
		},
		Scrape: ScrapeConfig{
			SettleDelay:         10 * time.Second,
			ScrollDelay:         time.Second,
			MaxScrolls:          200,
			VerificationSettle:  10 * time.Second,
			VerificationTimeout: 5 * time.Minute,
		},
		API: APIConfig{
			Port:           8080,
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  "info",
				Format: "text",
			},
		},
	}
}

// Load reads and parses the config file. Fields absent from the file keep
// their default values.
func Load(path string) (*Config, error) {
	loadDotEnv()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${SHOPEE_PASSWORD})
	expanded := os.ExpandEnv(string(data))

	cfg := Defaults()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables only
func LoadFromEnv() *Config {
	loadDotEnv()

	cfg := Defaults()
	cfg.Shopee = ShopeeConfig{
		Email:    os.Getenv("SHOPEE_EMAIL"),
		Password: os.Getenv("SHOPEE_PASSWORD"),
	}
	cfg.Session.CookieFile = getEnv("SHOPEE_COOKIE_FILE", cfg.Session.CookieFile)
	cfg.Browser.Headless = getEnvBool("BROWSER_HEADLESS", cfg.Browser.Headless)
	cfg.Browser.ExecPath = getEnv("CHROME_PATH", "")
	cfg.Scrape.SettleDelay = getEnvDuration("SCRAPE_SETTLE_DELAY", cfg.Scrape.SettleDelay)
	cfg.Scrape.ScrollDelay = getEnvDuration("SCRAPE_SCROLL_DELAY", cfg.Scrape.ScrollDelay)
	cfg.Scrape.MaxScrolls = getEnvInt("SCRAPE_MAX_SCROLLS", cfg.Scrape.MaxScrolls)
	cfg.Scrape.VerificationSettle = getEnvDuration("SCRAPE_VERIFICATION_SETTLE", cfg.Scrape.VerificationSettle)
	cfg.Scrape.VerificationTimeout = getEnvDuration("SCRAPE_VERIFICATION_TIMEOUT", cfg.Scrape.VerificationTimeout)
	cfg.API.Port = getEnvInt("PORT", cfg.API.Port)
	cfg.Observability.Logging = LoggingConfig{
		Level:  getEnv("LOG_LEVEL", "info"),
		Format: getEnv("LOG_FORMAT", "text"),
	}
	return cfg
}

// LoadOrEnv tries to load from config.yaml, falls back to environment variables
func LoadOrEnv() *Config {
	return LoadOrEnv_WithPath("config.yaml")
}

// LoadOrEnv_WithPath tries to load from specified path, falls back to environment variables
func LoadOrEnv_WithPath(path string) *Config {
	if cfg, err := Load(path); err == nil {
		return cfg
	}
	return LoadFromEnv()
}

// loadDotEnv populates the environment from .env without overriding
// variables that are already set. A missing file is fine.
func loadDotEnv() {
	_ = godotenv.Load()
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable with a fallback default
func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var result int
		if _, err := fmt.Sscanf(val, "%d", &result); err == nil {
			return result
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	switch os.Getenv(key) {
	case "true", "1":
		return true
	case "false", "0":
		return false
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
