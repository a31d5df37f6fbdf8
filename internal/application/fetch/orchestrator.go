// Package fetch runs one end-to-end scrape of the pending order list: browser
// session, login when needed, extraction and pick-list aggregation.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/eshaffer321/shopee-orders/internal/adapters/browser"
	"github.com/eshaffer321/shopee-orders/internal/adapters/providers/shopee"
	"github.com/eshaffer321/shopee-orders/internal/domain/picklist"
)

// ErrNoCredentials is returned when a login is required but no credentials
// were configured.
var ErrNoCredentials = errors.New("shopee credentials not configured")

// SessionStore persists the authenticated cookie set between runs.
type SessionStore interface {
	Load(ctx context.Context, jar browser.CookieJar) bool
	Save(ctx context.Context, jar browser.CookieJar) error
}

// Authenticator logs in through the portal form.
type Authenticator interface {
	HasCredentials() bool
	Login(ctx context.Context, page browser.Page) (shopee.LoginState, error)
}

// Extractor reads every order card from the order list page.
type Extractor interface {
	Extract(ctx context.Context, page browser.Page) ([]picklist.Order, error)
}

// Result holds the outcome of one run
type Result struct {
	RunID   string
	Grouped picklist.Summary
	Flat    []picklist.Order
}

// Options holds orchestrator settings
type Options struct {
	// SettleDelay is waited after the order page loads, before extraction.
	SettleDelay time.Duration
}

// Orchestrator runs fetches. Runs are serialised: a second caller blocks
// until the current run finishes.
type Orchestrator struct {
	launcher  browser.Launcher
	store     SessionStore
	auth      Authenticator
	extractor Extractor
	opts      Options
	logger    *slog.Logger

	mu sync.Mutex
}

// NewOrchestrator creates a new fetch orchestrator
func NewOrchestrator(
	launcher browser.Launcher,
	store SessionStore,
	auth Authenticator,
	extractor Extractor,
	opts Options,
	logger *slog.Logger,
) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		launcher:  launcher,
		store:     store,
		auth:      auth,
		extractor: extractor,
		opts:      opts,
		logger:    logger,
	}
}

// FetchOrders scrapes the pending orders and groups them into pick lists.
// The browser is always closed before returning. No partial result is
// returned on error.
func (o *Orchestrator) FetchOrders(ctx context.Context) (*Result, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	runID := uuid.NewString()
	logger := o.logger.With("run_id", runID)
	start := time.Now()

	logger.Info("Starting order fetch")

	sess, err := o.launcher.Launch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}
	defer func() {
		if err := sess.Close(); err != nil {
			logger.Warn("Failed to close browser", "error", err)
		}
	}()

	orders, err := o.scrape(ctx, sess, logger)
	if err != nil {
		logger.Error("Order fetch failed", "error", err, "duration", time.Since(start))
		return nil, err
	}

	grouped := picklist.Build(orders)
	logger.Info("Order fetch complete",
		"orders", len(orders),
		"deadlines", len(grouped),
		"duration", time.Since(start),
	)

	return &Result{
		RunID:   runID,
		Grouped: grouped,
		Flat:    orders,
	}, nil
}

func (o *Orchestrator) scrape(ctx context.Context, page browser.Page, logger *slog.Logger) ([]picklist.Order, error) {
	sessionLoaded := o.store.Load(ctx, page)
	logger.Debug("Session cookies", "loaded", sessionLoaded)

	if err := page.Navigate(ctx, shopee.OrdersURL); err != nil {
		return nil, fmt.Errorf("failed to open orders page: %w", err)
	}

	current, err := page.URL(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read page url: %w", err)
	}

	if !sessionLoaded || onLoginPage(current) {
		if err := o.login(ctx, page, onLoginPage(current), logger); err != nil {
			return nil, err
		}
	}

	logger.Debug("Waiting for orders to render", "delay", o.opts.SettleDelay)
	if err := browser.Sleep(ctx, o.opts.SettleDelay); err != nil {
		return nil, err
	}

	orders, err := o.extractor.Extract(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("failed to extract orders: %w", err)
	}
	return orders, nil
}

// login authenticates, persists the new session and reopens the order list.
// The portal normally redirects to the login form by itself; when it did
// not, the form is opened explicitly.
func (o *Orchestrator) login(ctx context.Context, page browser.Page, redirected bool, logger *slog.Logger) error {
	if !o.auth.HasCredentials() {
		return ErrNoCredentials
	}

	logger.Info("Session missing or expired, logging in", "redirected", redirected)
	if !redirected {
		if err := page.Navigate(ctx, shopee.LoginURL); err != nil {
			return fmt.Errorf("failed to open login page: %w", err)
		}
	}

	state, err := o.auth.Login(ctx, page)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	logger.Info("Login finished", "state", state.String())

	if err := o.store.Save(ctx, page); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	if err := page.Navigate(ctx, shopee.OrdersURL); err != nil {
		return fmt.Errorf("failed to reopen orders page: %w", err)
	}
	return nil
}

// onLoginPage reports whether the portal redirected to the login form.
func onLoginPage(url string) bool {
	return strings.Contains(strings.ToLower(url), strings.ToLower(shopee.LoginURL))
}
