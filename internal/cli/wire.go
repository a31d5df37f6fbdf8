// Package cli implements the shopee-orders subcommands.
package cli

import (
	"io"
	"log/slog"

	ucli "github.com/urfave/cli/v2"

	"github.com/eshaffer321/shopee-orders/internal/adapters/browser"
	"github.com/eshaffer321/shopee-orders/internal/adapters/providers/shopee"
	"github.com/eshaffer321/shopee-orders/internal/adapters/session"
	"github.com/eshaffer321/shopee-orders/internal/application/fetch"
	"github.com/eshaffer321/shopee-orders/internal/infrastructure/config"
	"github.com/eshaffer321/shopee-orders/internal/infrastructure/logging"
)

// loadConfig resolves the config for a command invocation.
func loadConfig(c *ucli.Context) *config.Config {
	cfg := config.LoadOrEnv_WithPath(c.String(flagConfig))
	if c.Bool(flagVerbose) {
		cfg.Observability.Logging.Level = "debug"
	}
	return cfg
}

func newLogger(w io.Writer, cfg *config.Config, system string) *slog.Logger {
	return logging.NewLoggerTo(w, cfg.Observability.Logging, system)
}

// NewOrchestrator wires the production fetch pipeline from cfg.
func NewOrchestrator(cfg *config.Config, logger *slog.Logger) *fetch.Orchestrator {
	launcher := browser.NewChromeLauncher(browser.Options{
		Headless: cfg.Browser.Headless,
		ExecPath: cfg.Browser.ExecPath,
		Locale:   cfg.Browser.Locale,
	}, logger)

	store := session.NewStore(cfg.Session.CookieFile, shopee.AuthCookies, logger)

	authCfg := shopee.DefaultAuthConfig()
	authCfg.VerificationSettle = cfg.Scrape.VerificationSettle
	authCfg.VerificationTimeout = cfg.Scrape.VerificationTimeout
	auth := shopee.NewAuthenticator(cfg.Shopee.Credentials(), authCfg, logger)

	extractor := shopee.NewExtractor(shopee.ExtractorConfig{
		ScrollDelay: cfg.Scrape.ScrollDelay,
		MaxScrolls:  cfg.Scrape.MaxScrolls,
	}, logger)

	return fetch.NewOrchestrator(launcher, store, auth, extractor, fetch.Options{
		SettleDelay: cfg.Scrape.SettleDelay,
	}, logger)
}

// NewApp builds the shopee-orders command line.
func NewApp() *ucli.App {
	return &ucli.App{
		Name:  "shopee-orders",
		Usage: "Fetch pending Shopee seller orders and build per-deadline pick lists",
		Commands: []*ucli.Command{
			ServeCommand(),
			FetchCommand(),
		},
	}
}
