package shopee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/eshaffer321/shopee-orders/internal/adapters/browser"
	"github.com/eshaffer321/shopee-orders/internal/infrastructure/config"
)

// ErrLoginControlNotFound means no strategy could find the login submit button.
var ErrLoginControlNotFound = errors.New("login submit button not found")

// verificationPhrase is the label of the "verify via e-mail link" button.
const verificationPhrase = "verificar via link por e-mail"

var (
	identifierField = browser.CSS("input[name='loginKey'], input[type='text']")
	passwordField   = browser.CSS("input[name='password'], input[type='password']")
)

// LoginState tracks how far the login sequence got.
type LoginState int

const (
	AwaitingForm LoginState = iota
	CredentialsSubmitted
	AwaitingVerification
	Verified
	VerificationSkipped
)

func (s LoginState) String() string {
	switch s {
	case AwaitingForm:
		return "awaiting_form"
	case CredentialsSubmitted:
		return "credentials_submitted"
	case AwaitingVerification:
		return "awaiting_verification"
	case Verified:
		return "verified"
	case VerificationSkipped:
		return "verification_skipped"
	default:
		return fmt.Sprintf("LoginState(%d)", int(s))
	}
}

// AuthConfig holds the waits used during login.
type AuthConfig struct {
	FormTimeout         time.Duration
	IdleTimeout         time.Duration
	ClickTimeout        time.Duration
	VerificationSettle  time.Duration
	VerificationTimeout time.Duration
	PollInterval        time.Duration
}

// DefaultAuthConfig returns the waits tuned against the live portal.
func DefaultAuthConfig() AuthConfig {
	return AuthConfig{
		FormTimeout:         20 * time.Second,
		IdleTimeout:         30 * time.Second,
		ClickTimeout:        10 * time.Second,
		VerificationSettle:  10 * time.Second,
		VerificationTimeout: 5 * time.Minute,
		PollInterval:        time.Second,
	}
}

// Authenticator logs the seller in through the portal's login form,
// including the optional e-mail link verification.
type Authenticator struct {
	creds  config.Credentials
	cfg    AuthConfig
	submit []Strategy
	logger *slog.Logger
}

// NewAuthenticator creates an authenticator for creds.
func NewAuthenticator(creds config.Credentials, cfg AuthConfig, logger *slog.Logger) *Authenticator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Authenticator{
		creds:  creds,
		cfg:    cfg,
		submit: SubmitStrategies(),
		logger: logger.With(slog.String("component", "auth")),
	}
}

// HasCredentials reports whether both the e-mail and password are set.
func (a *Authenticator) HasCredentials() bool {
	return !a.creds.IsZero()
}

// SubmitStrategies is the ordered fallback chain used to find the login button.
func SubmitStrategies() []Strategy {
	return []Strategy{
		{Name: "exact text", Timeout: 8 * time.Second, Locate: VisibleSelector(buttonWithText("Entre"))},
		{Name: "text entre", Timeout: 3 * time.Second, Locate: VisibleSelector(buttonWithTextFold("entre"))},
		{Name: "text login", Timeout: 3 * time.Second, Locate: VisibleSelector(buttonWithTextFold("login"))},
		{Name: "class ZzzLTG", Timeout: 3 * time.Second, Locate: VisibleSelector(browser.CSS("button.ZzzLTG"))},
		{Name: "class gP623l", Timeout: 3 * time.Second, Locate: VisibleSelector(browser.CSS("button.gP623l"))},
		{Name: "disabled button", Timeout: 3 * time.Second, Locate: VisibleSelector(browser.CSS("button[disabled]"))},
		{Name: "any button", Timeout: 3 * time.Second, Locate: VisibleSelector(browser.CSS("button"))},
		{Name: "button text scan", Locate: ButtonTextContains("entre")},
	}
}

// Login fills and submits the login form on page. It returns Verified or
// VerificationSkipped on success; neither guarantees the portal accepted the
// login, so callers re-check by navigating.
func (a *Authenticator) Login(ctx context.Context, page browser.Page) (LoginState, error) {
	state := AwaitingForm
	a.logger.Info("waiting for login form")

	if err := page.WaitVisible(ctx, identifierField, a.cfg.FormTimeout); err != nil {
		return state, fmt.Errorf("login identifier field: %w", err)
	}
	if err := page.WaitVisible(ctx, passwordField, a.cfg.FormTimeout); err != nil {
		return state, fmt.Errorf("login password field: %w", err)
	}

	if err := page.Fill(ctx, identifierField, a.creds.Email); err != nil {
		return state, fmt.Errorf("failed to fill identifier: %w", err)
	}
	if err := page.Fill(ctx, passwordField, a.creds.Password); err != nil {
		return state, fmt.Errorf("failed to fill password: %w", err)
	}
	a.waitIdle(ctx, page, "credentials filled")

	match, strategy, ok := FirstMatch(ctx, page, a.submit, a.logger)
	if !ok {
		if err := ctx.Err(); err != nil {
			return state, err
		}
		return state, ErrLoginControlNotFound
	}
	a.logger.Info("clicking login button", slog.String("strategy", strategy))

	if err := page.Click(ctx, match.Target, a.cfg.ClickTimeout); err != nil {
		return state, fmt.Errorf("failed to click login button: %w", err)
	}
	state = CredentialsSubmitted
	a.waitIdle(ctx, page, "login submitted")

	state = a.verifyByEmail(ctx, page)
	a.logger.Info("login sequence finished", slog.String("state", state.String()))
	return state, nil
}

// verifyByEmail clicks the e-mail verification button if the portal shows
// one, then waits for the human to confirm the link. Every failure here is
// logged and treated as "no verification needed".
func (a *Authenticator) verifyByEmail(ctx context.Context, page browser.Page) LoginState {
	if err := browser.Sleep(ctx, a.cfg.VerificationSettle); err != nil {
		return VerificationSkipped
	}

	idx, err := findButton(ctx, page, verificationPhrase)
	if err != nil || idx < 0 {
		reason := "button not present"
		if err != nil {
			reason = err.Error()
		}
		a.logger.Warn("e-mail verification not required or button not found", slog.String("reason", reason))
		return VerificationSkipped
	}

	if err := page.ClickButton(ctx, idx); err != nil {
		a.logger.Warn("failed to click e-mail verification button", slog.String("error", err.Error()))
		return VerificationSkipped
	}

	a.logger.Info("waiting for e-mail confirmation",
		slog.Duration("timeout", a.cfg.VerificationTimeout),
	)
	if err := a.waitForPortal(ctx, page); err != nil {
		a.logger.Warn("e-mail confirmation not observed", slog.String("error", err.Error()))
		return VerificationSkipped
	}

	a.logger.Info("e-mail confirmed")
	return Verified
}

// waitForPortal polls the page URL until it enters the authenticated portal.
func (a *Authenticator) waitForPortal(ctx context.Context, page browser.Page) error {
	deadline := time.Now().Add(a.cfg.VerificationTimeout)
	for {
		url, err := page.URL(ctx)
		if err == nil && strings.HasPrefix(url, PortalPrefix) {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("%w after %s waiting for %s", browser.ErrTimeout, a.cfg.VerificationTimeout, PortalPrefix)
		}
		if err := browser.Sleep(ctx, a.cfg.PollInterval); err != nil {
			return err
		}
	}
}

func (a *Authenticator) waitIdle(ctx context.Context, page browser.Page, step string) {
	if err := page.WaitNetworkIdle(ctx, a.cfg.IdleTimeout); err != nil {
		a.logger.Warn("network did not settle", slog.String("step", step), slog.String("error", err.Error()))
	}
}
