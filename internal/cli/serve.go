package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	ucli "github.com/urfave/cli/v2"

	"github.com/eshaffer321/shopee-orders/internal/api"
)

// ServeCommand runs the HTTP API.
func ServeCommand() *ucli.Command {
	return &ucli.Command{
		Name:   "serve",
		Usage:  "Start the HTTP API (GET /api/orders, GET /health)",
		Flags:  serveFlags(),
		Action: ServeAction,
	}
}

// ServeAction runs the API server until SIGINT/SIGTERM.
func ServeAction(c *ucli.Context) error {
	cfg := loadConfig(c)
	logger := newLogger(os.Stdout, cfg, "api")

	if cfg.Shopee.Credentials().IsZero() {
		logger.Warn("shopee credentials not set; fetches will fail unless a saved session is valid")
	}
	logger.Debug("configuration loaded", "credentials", cfg.Shopee.Credentials(), "cookie_file", cfg.Session.CookieFile)

	apiCfg := api.Config{
		Port:           cfg.API.Port,
		AllowedOrigins: cfg.API.AllowedOrigins,
	}
	if c.IsSet(flagPort) {
		apiCfg.Port = c.Int(flagPort)
	}

	orch := NewOrchestrator(cfg, newLogger(os.Stdout, cfg, "fetch"))
	server := api.NewServer(apiCfg, orch, logger)

	// Handle graceful shutdown
	done := make(chan struct{})
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	go func() {
		select {
		case <-quit:
		case <-c.Context.Done():
		}
		logger.Info("received shutdown signal")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server shutdown error", slog.Any("error", err))
		}
		close(done)
	}()

	// Start server (blocks until shutdown)
	if err := server.Start(); err != nil {
		return err
	}

	<-done
	logger.Info("server stopped")
	return nil
}
