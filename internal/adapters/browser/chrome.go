package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"
)

const (
	defaultActionTimeout   = 30 * time.Second
	defaultNavigateTimeout = 60 * time.Second

	idleWindow   = 500 * time.Millisecond
	idlePollStep = 100 * time.Millisecond
)

// Options configures the Chrome process.
type Options struct {
	Headless bool
	ExecPath string // empty = chromedp default lookup
	Locale   string // e.g. "pt-BR"; also sent as Accept-Language
}

// ChromeLauncher launches headless Chrome sessions through chromedp.
type ChromeLauncher struct {
	opts   Options
	logger *slog.Logger
}

// NewChromeLauncher creates a launcher for the given options.
func NewChromeLauncher(opts Options, logger *slog.Logger) *ChromeLauncher {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChromeLauncher{
		opts:   opts,
		logger: logger.With(slog.String("component", "browser")),
	}
}

// Launch starts Chrome, opens one tab and enables network tracking.
func (l *ChromeLauncher) Launch(ctx context.Context) (Session, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", l.opts.Headless),
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.WindowSize(1920, 1080),
	)
	if l.opts.Locale != "" {
		allocOpts = append(allocOpts, chromedp.Flag("lang", l.opts.Locale))
	}
	if l.opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(l.opts.ExecPath))
	}

	// The browser outlives any single call's deadline; Close tears it down.
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.WithoutCancel(ctx), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	s := &chromeSession{
		ctx:         browserCtx,
		cancel:      browserCancel,
		allocCancel: allocCancel,
		logger:      l.logger,
		inflight:    make(map[network.RequestID]struct{}),
		lastNetwork: time.Now(),
	}
	chromedp.ListenTarget(browserCtx, s.onEvent)

	setup := []chromedp.Action{network.Enable()}
	if l.opts.Locale != "" {
		setup = append(setup,
			network.SetExtraHTTPHeaders(network.Headers{"Accept-Language": l.opts.Locale}),
			emulation.SetLocaleOverride().WithLocale(l.opts.Locale),
		)
	}
	if err := s.run(ctx, defaultActionTimeout, setup...); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to configure browser: %w", err)
	}

	l.logger.Debug("browser started",
		slog.Bool("headless", l.opts.Headless),
		slog.String("locale", l.opts.Locale),
	)
	return s, nil
}

// chromeSession implements Session on top of a chromedp tab context.
type chromeSession struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	logger      *slog.Logger

	mu          sync.Mutex
	inflight    map[network.RequestID]struct{}
	lastNetwork time.Time
}

func (s *chromeSession) onEvent(ev interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch e := ev.(type) {
	case *network.EventRequestWillBeSent:
		s.inflight[e.RequestID] = struct{}{}
		s.lastNetwork = time.Now()
	case *network.EventLoadingFinished:
		delete(s.inflight, e.RequestID)
		s.lastNetwork = time.Now()
	case *network.EventLoadingFailed:
		delete(s.inflight, e.RequestID)
		s.lastNetwork = time.Now()
	}
}

// run executes actions against the tab, bounded by timeout and by ctx.
func (s *chromeSession) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(runCtx, actions...)
	if err != nil && ctx.Err() == nil && errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s", ErrTimeout, timeout)
	}
	return err
}

func queryOption(sel Selector) chromedp.QueryOption {
	if sel.XPath {
		return chromedp.BySearch
	}
	return chromedp.ByQuery
}

func (s *chromeSession) Navigate(ctx context.Context, url string) error {
	return s.run(ctx, defaultNavigateTimeout, chromedp.Navigate(url))
}

func (s *chromeSession) URL(ctx context.Context) (string, error) {
	var url string
	err := s.run(ctx, defaultActionTimeout, chromedp.Location(&url))
	return url, err
}

func (s *chromeSession) WaitVisible(ctx context.Context, sel Selector, timeout time.Duration) error {
	return s.run(ctx, timeout, chromedp.WaitVisible(sel.Query, queryOption(sel)))
}

func (s *chromeSession) Fill(ctx context.Context, sel Selector, value string) error {
	by := queryOption(sel)
	return s.run(ctx, defaultActionTimeout,
		chromedp.WaitVisible(sel.Query, by),
		chromedp.SetValue(sel.Query, "", by),
		chromedp.SendKeys(sel.Query, value, by),
	)
}

func (s *chromeSession) Click(ctx context.Context, sel Selector, timeout time.Duration) error {
	return s.run(ctx, timeout, chromedp.Click(sel.Query, queryOption(sel), chromedp.NodeVisible))
}

func (s *chromeSession) WaitNetworkIdle(ctx context.Context, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		s.mu.Lock()
		pending := len(s.inflight)
		quietFor := time.Since(s.lastNetwork)
		s.mu.Unlock()

		if pending == 0 && quietFor >= idleWindow {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("%w after %s (%d requests in flight)", ErrTimeout, timeout, pending)
		}
		if err := Sleep(ctx, idlePollStep); err != nil {
			return err
		}
	}
}

func (s *chromeSession) ScrollToBottom(ctx context.Context) error {
	return s.run(ctx, defaultActionTimeout,
		chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil))
}

func (s *chromeSession) ScrollHeight(ctx context.Context) (int64, error) {
	var height int64
	err := s.run(ctx, defaultActionTimeout,
		chromedp.Evaluate(`document.body.scrollHeight`, &height))
	return height, err
}

func (s *chromeSession) ButtonTexts(ctx context.Context) ([]string, error) {
	var texts []string
	err := s.run(ctx, defaultActionTimeout,
		chromedp.Evaluate(`Array.from(document.querySelectorAll('button'), b => (b.innerText || '').trim())`, &texts))
	return texts, err
}

func (s *chromeSession) ClickButton(ctx context.Context, index int) error {
	xpath := fmt.Sprintf("(//button)[%d]", index+1)
	return s.run(ctx, defaultActionTimeout, chromedp.Click(xpath, chromedp.BySearch, chromedp.NodeVisible))
}

func (s *chromeSession) OuterHTML(ctx context.Context, css string) ([]string, error) {
	quoted, err := json.Marshal(css)
	if err != nil {
		return nil, err
	}
	expr := fmt.Sprintf(`Array.from(document.querySelectorAll(%s), e => e.outerHTML)`, quoted)

	var html []string
	err = s.run(ctx, defaultActionTimeout, chromedp.Evaluate(expr, &html))
	return html, err
}

func (s *chromeSession) Cookies(ctx context.Context) ([]Cookie, error) {
	var raw []*network.Cookie
	err := s.run(ctx, defaultActionTimeout, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		raw, err = storage.GetCookies().Do(ctx)
		return err
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to read cookies: %w", err)
	}

	cookies := make([]Cookie, 0, len(raw))
	for _, c := range raw {
		cookies = append(cookies, Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  c.Expires,
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
			SameSite: c.SameSite.String(),
		})
	}
	return cookies, nil
}

func (s *chromeSession) SetCookies(ctx context.Context, cookies []Cookie) error {
	params := make([]*network.CookieParam, 0, len(cookies))
	for _, c := range cookies {
		p := &network.CookieParam{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
		}
		if c.SameSite != "" {
			p.SameSite = network.CookieSameSite(c.SameSite)
		}
		if c.Expires > 0 {
			sec, frac := math.Modf(c.Expires)
			expires := cdp.TimeSinceEpoch(time.Unix(int64(sec), int64(frac*1e9)))
			p.Expires = &expires
		}
		params = append(params, p)
	}

	err := s.run(ctx, defaultActionTimeout, chromedp.ActionFunc(func(ctx context.Context) error {
		return network.SetCookies(params).Do(ctx)
	}))
	if err != nil {
		return fmt.Errorf("failed to set cookies: %w", err)
	}
	return nil
}

func (s *chromeSession) Close() error {
	err := chromedp.Cancel(s.ctx)
	s.cancel()
	s.allocCancel()
	if err != nil {
		s.logger.Warn("browser did not close cleanly", slog.String("error", err.Error()))
	}
	return err
}
